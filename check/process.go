package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/orql/scanner"
)

// Options controls how paths are processed.
type Options struct {
	Extensions []string  // file extensions matched in directories, DefaultExtensions when empty
	Workers    int       // concurrent files, runtime.NumCPU() when zero
	Progress   io.Writer // progress bar output, none when nil
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions
	}
	return o.Extensions
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}

// Processor checks one file.
type Processor func(Checker, string) ([]Issue, error)

// ProcessFile is the default Processor.
func ProcessFile(checker Checker, filename string) ([]Issue, error) {
	return checker.CheckFile(filename)
}

// ProcessSource checks an in-memory source, such as standard input.
func ProcessSource(checker Checker, filename string, source []byte) ([]Issue, error) {
	return checker.CheckSource(filename, source)
}

// ProcessFiles processes every path in order and concatenates the issues.
// It stops at the first path that cannot be processed.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	checker Checker,
	paths []string,
	opts Options,
	processor Processor,
) ([]Issue, error) {
	var allIssues []Issue
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, checker, path, opts, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

type fileResult struct {
	path   string
	issues []Issue
	err    error
}

// ProcessPath processes a file, or every matching file below a directory
// using a bounded worker pool. Issues are sorted by file and line.
// Files that fail are logged and reported in the returned error; the issues
// of the other files are still returned.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	checker Checker,
	path string,
	opts Options,
	processor Processor,
) ([]Issue, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		return processor(checker, path)
	}

	files, err := scanner.New(path, opts.extensions()...).Paths()
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", path, err)
	}

	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}
	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	results := make(chan fileResult, len(files))
	sem := make(chan struct{}, opts.workers())
	var wg sync.WaitGroup

dispatch:
	for _, filePath := range files {
		select {
		case <-ctx.Done():
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			fileIssues, err := processor(checker, fp)
			if err != nil {
				logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
			}
			results <- fileResult{path: fp, issues: fileIssues, err: err}
			_ = bar.Add(1)
		}(filePath)
	}
	wg.Wait()
	close(results)
	_ = bar.Finish()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		issues []Issue
		errs   []error
	)
	for r := range results {
		if r.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.path, r.err))
			continue
		}
		issues = append(issues, r.issues...)
	}
	SortIssues(issues)
	return issues, errors.Join(errs...)
}

// SortIssues orders issues by file, line and column.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}
