package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/juridico/internal/model"
	"github.com/ppiankov/juridico/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON       string
	outMD         string
	outXLSX       string
	timeout       time.Duration
	single        bool
	explain       bool
	noCache       bool
	persist       bool
	defaultSector string
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <file|url>",
	Short: "Classify the publications in one file or URL",
	Long: `Classify extracts the text of a publication file, splits it at
"Publicação: i de n" markers and classifies every block.

Example:
  juridico classify diario.pdf
  juridico classify diario.pdf --xlsx planilha.xlsx --md relatorio.md
  juridico classify intimacao.docx --single --persist
  juridico classify diario.pdf --explain`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	classifyCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	classifyCmd.Flags().StringVar(&outXLSX, "xlsx", "", "output spreadsheet path (optional)")
	classifyCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout")
	classifyCmd.Flags().BoolVar(&single, "single", false, "treat the whole file as one publication")
	classifyCmd.Flags().BoolVar(&explain, "explain", false, "print the keyword evidence behind each classification as JSON")
	classifyCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the extracted-text cache")
	classifyCmd.Flags().BoolVar(&persist, "persist", false, "save the records to the store")
	classifyCmd.Flags().StringVar(&defaultSector, "sector", "", "sector for publications left unresolved")
}

func runClassify(cmd *cobra.Command, args []string) error {
	source := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	opts := pipeline.Options{Persist: persist, DefaultSector: defaultSector}
	if single {
		opts.Mode = pipeline.ModeSingle
	}

	a, err := buildApp(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer a.close()

	if verbose {
		fmt.Fprintf(os.Stderr, "Classifying: %s (%s)\n", source, opts.Mode)
		fmt.Fprintf(os.Stderr, "Cache: %v\n\n", cfg.Cache.Enabled)
	}

	if explain {
		explanations, err := a.pipeline.Explain(ctx, source, opts.Mode)
		if err != nil {
			return fmt.Errorf("explain failed: %w", err)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(explanations)
	}

	report, err := a.pipeline.ProcessSource(ctx, source, opts)
	if err != nil {
		return fmt.Errorf("classify failed: %w", err)
	}

	renderer := a.pipeline.Renderer()
	renderer.RenderSummary(cmd.OutOrStdout(), report)

	if err := renderOutputs(renderer, []*model.FileReport{report}, outJSON, outMD, outXLSX); err != nil {
		return err
	}
	if report.Failed() {
		return fmt.Errorf("%s: %s", report.FileName, report.ErrorMessage)
	}
	return nil
}

// renderOutputs writes whichever report files were requested
func renderOutputs(r *pipeline.Renderer, reports []*model.FileReport, jsonPath, mdPath, xlsxPath string) error {
	if jsonPath != "" {
		if err := r.RenderJSON(reports, jsonPath); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ JSON report: %s\n", jsonPath)
	}
	if mdPath != "" {
		if err := r.RenderMarkdown(reports, mdPath); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Markdown report: %s\n", mdPath)
	}
	if xlsxPath != "" {
		if err := r.RenderSpreadsheet(collectDocuments(reports), xlsxPath); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Spreadsheet: %s\n", xlsxPath)
	}
	return nil
}

func collectDocuments(reports []*model.FileReport) []model.Document {
	var docs []model.Document
	for _, report := range reports {
		docs = append(docs, report.Documents...)
	}
	return docs
}
