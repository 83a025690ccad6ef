package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ppiankov/juridico/internal/model"
	"github.com/ppiankov/juridico/internal/pipeline"
	"github.com/ppiankov/juridico/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchSingle  bool
	batchPersist bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list|dir>",
	Short: "Classify many files in parallel",
	Long: `Batch classifies every supported file under a directory, or every
path and URL listed in a file (one per line, # for comments).

Files that cannot be read or have an unsupported format are reported
and do not stop the batch. A combined spreadsheet and Markdown report
are written to the output directory.

Example:
  juridico batch ./publicacoes
  juridico batch fontes.txt --concurrency 8 --output-dir ./relatorios
  juridico batch ./publicacoes --persist`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./juridico-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&batchSingle, "single", false, "treat every file as one publication")
	batchCmd.Flags().BoolVar(&batchPersist, "persist", false, "save the records to the store")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the extracted-text cache")
	batchCmd.Flags().StringVar(&defaultSector, "sector", "", "sector for publications left unresolved")
}

func runBatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if cmd.Flags().Changed("concurrency") || cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = concurrency
	}

	opts := pipeline.Options{Persist: batchPersist, DefaultSector: defaultSector}
	if batchSingle {
		opts.Mode = pipeline.ModeSingle
	}

	a, err := buildApp(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Juridico Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", path)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Mode:         %s\n", opts.Mode)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	sources, err := worker.CollectSources(path, a.pipeline.Registry().Supports)
	if err != nil {
		return fmt.Errorf("collect sources: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Found %d file(s)\n\n", len(sources))

	processor := worker.NewBatchProcessor(a.pipeline, cfg.Concurrency.Workers)
	results := processor.ProcessSources(ctx, sources)

	renderer := a.pipeline.Renderer()
	var reports []*model.FileReport
	successCount, failureCount, unsupported, publications := 0, 0, 0, 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Source, result.Error)
			continue
		}
		reports = append(reports, result.Report)
		if result.Report.Failed() {
			failureCount++
			if pipeline.IsUnsupported(result.Report, nil) {
				unsupported++
			}
		} else {
			successCount++
			publications += len(result.Report.Documents)
		}
		renderer.RenderSummary(os.Stderr, result.Report)

		jsonPath := filepath.Join(outputDir, fmt.Sprintf("%03d_%s.json", result.Index+1, sanitizeFilename(result.Report.FileName)))
		if err := renderer.RenderJSON([]*model.FileReport{result.Report}, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Source, err)
		}
	}

	stamp := time.Now().Format("20060102_150405")
	xlsxPath := filepath.Join(outputDir, "documentos_"+stamp+".xlsx")
	mdPath := filepath.Join(outputDir, "relatorio_"+stamp+".md")
	if err := renderOutputs(renderer, reports, "", mdPath, xlsxPath); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:         %d file(s)\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:       %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:      %d (%d unsupported)\n", failureCount, unsupported)
	fmt.Fprintf(os.Stderr, "  Publications:  %d\n", publications)
	fmt.Fprintf(os.Stderr, "  Output:        %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if ctx.Err() != nil {
		return fmt.Errorf("batch interrupted: %w", ctx.Err())
	}
	return nil
}

// sanitizeFilename turns s into a safe file name stem
func sanitizeFilename(s string) string {
	s = filepath.Base(filepath.ToSlash(s))
	s = strings.TrimSuffix(s, filepath.Ext(s))

	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
	)
	s = replacer.Replace(s)

	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" || s == "." {
		s = "arquivo"
	}
	return s
}
