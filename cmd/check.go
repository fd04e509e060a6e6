package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/orql/check"
	"github.com/gnoswap-labs/orql/formatter"
)

var (
	checkJsonOutput bool
	outPath         string
	showProgress    bool
	workers         int
)

// checkCmd: orql check [paths...]
var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Check every query of the given files and directories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		opts := check.Options{
			Extensions: config.Extensions,
			Workers:    workers,
		}
		if showProgress && isTerminal(cmd.ErrOrStderr()) {
			opts.Progress = cmd.ErrOrStderr()
		}

		checker := check.NewEngine(engine, logger)
		return runCheck(ctx, cmd.OutOrStdout(), logger, checker, args, opts, checkJsonOutput, outPath)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkJsonOutput, "json", false, "Output issues in JSON format")
	checkCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	checkCmd.Flags().BoolVar(&showProgress, "progress", true, "Show a progress bar while checking directories on a terminal")
	checkCmd.Flags().IntVar(&workers, "workers", 0, "Number of files checked concurrently (0 = number of CPUs)")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func runCheck(
	ctx context.Context,
	out io.Writer,
	logger *zap.Logger,
	checker check.Checker,
	paths []string,
	opts check.Options,
	isJson bool,
	jsonOutput string,
) error {
	issues, err := check.ProcessFiles(ctx, logger, checker, paths, opts, check.ProcessFile)
	if err != nil {
		return fmt.Errorf("error processing files: %w", err)
	}

	if err := printIssues(out, issues, isJson, jsonOutput); err != nil {
		return err
	}
	if len(issues) > 0 {
		return ErrIssuesFound
	}
	return nil
}

func printIssues(out io.Writer, issues []check.Issue, isJson bool, jsonOutput string) error {
	issuesByFile := make(map[string][]check.Issue)
	for _, issue := range issues {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}

	if isJson {
		return writeJSON(out, issuesByFile, jsonOutput)
	}

	sortedFiles := make([]string, 0, len(issuesByFile))
	for filename := range issuesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	// text output
	for _, filename := range sortedFiles {
		fmt.Fprint(out, formatter.GenerateFormattedIssue(issuesByFile[filename]))
	}
	if len(issues) > 0 {
		fmt.Fprint(out, formatter.Summary(len(issues), len(sortedFiles)))
	}
	return nil
}

func writeJSON(out io.Writer, issuesByFile map[string][]check.Issue, jsonOutput string) error {
	d, err := json.Marshal(issuesByFile)
	if err != nil {
		return fmt.Errorf("error marshalling issues to JSON: %w", err)
	}
	if jsonOutput == "" {
		fmt.Fprintln(out, string(d))
		return nil
	}
	if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
		return fmt.Errorf("error writing JSON output file: %w", err)
	}
	return nil
}
