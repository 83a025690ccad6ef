package worker

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/juridico/internal/model"
)

// FileProcessor processes one local file or remote URL
type FileProcessor interface {
	ProcessFile(ctx context.Context, source string) (*model.FileReport, error)
}

// FileJob represents one file of a batch
type FileJob struct {
	Index     int
	Source    string
	Processor FileProcessor
}

// Execute executes the file job
func (j *FileJob) Execute(ctx context.Context) Result {
	report, err := j.Processor.ProcessFile(ctx, j.Source)
	return &FileResult{
		Index:  j.Index,
		Source: j.Source,
		Report: report,
		Error:  err,
	}
}

// FileResult represents the result of a file job
type FileResult struct {
	Index  int
	Source string
	Report *model.FileReport
	Error  error
}

// GetError returns the error from the file result
func (r *FileResult) GetError() error {
	return r.Error
}

// BatchProcessor processes many files concurrently
type BatchProcessor struct {
	processor   FileProcessor
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(processor FileProcessor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
}

// ProcessSources processes sources concurrently. Results come back in
// input order, one per source; sources never started because ctx was
// cancelled carry the context error.
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) []*FileResult {
	if len(sources) == 0 {
		return []*FileResult{}
	}

	jobs := make([]Job, len(sources))
	for i, source := range sources {
		jobs[i] = &FileJob{Index: i, Source: source, Processor: b.processor}
	}

	out := make([]*FileResult, len(sources))
	for _, result := range Run(ctx, b.concurrency, jobs) {
		fr := result.(*FileResult)
		out[fr.Index] = fr
	}

	for i, fr := range out {
		if fr == nil {
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("not processed")
			}
			out[i] = &FileResult{Index: i, Source: sources[i], Error: err}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// ProcessPath processes a list file (one source per line) or every
// accepted file under a directory.
func (b *BatchProcessor) ProcessPath(ctx context.Context, path string, accept func(name string) bool) ([]*FileResult, error) {
	sources, err := CollectSources(path, accept)
	if err != nil {
		return nil, err
	}
	return b.ProcessSources(ctx, sources), nil
}

// CollectSources expands path into sources. A directory is walked for
// files accepted by accept (nil accepts everything); any other file is
// read as a list.
func CollectSources(path string, accept func(name string) bool) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		sources, err := ReadSourcesFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("read sources: %w", err)
		}
		return sources, nil
	}

	var sources []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if accept == nil || accept(d.Name()) {
			sources = append(sources, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", path, err)
	}

	sort.Strings(sources)
	return sources, nil
}

// ReadSourcesFromFile reads paths or URLs from a file (one per line)
func ReadSourcesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}
