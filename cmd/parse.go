package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/orql"
	"github.com/gnoswap-labs/orql/check"
	"github.com/gnoswap-labs/orql/formatter"
)

var (
	parseJsonOutput bool
	parseExpression bool
)

// parseCmd: orql parse <query>
var parseCmd = &cobra.Command{
	Use:   "parse <query>",
	Short: "Parse a query and print its syntax tree",
	Long: `Parse a query and print its syntax tree.

Pass "-" to read the query from standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := args[0]
		if text == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("error reading standard input: %w", err)
			}
			text = strings.TrimRight(string(data), "\r\n")
		}
		return runParse(cmd.OutOrStdout(), logger, engine, text, parseExpression, parseJsonOutput)
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseJsonOutput, "json", false, "Output the syntax tree in JSON format")
	parseCmd.Flags().BoolVar(&parseExpression, "exp", false, "Parse a bare filter expression instead of a query")
}

func runParse(out io.Writer, logger *zap.Logger, engine *orql.Engine, text string, isExp, isJson bool) error {
	var (
		tree   any
		render func() string
		err    error
	)
	if isExp {
		exp, perr := engine.ParseExpression(text)
		tree, err = exp, perr
		render = func() string { return formatter.FormatExp(exp) }
	} else {
		node, perr := engine.Parse(text)
		tree, err = node, perr
		render = func() string { return formatter.FormatNode(node) }
	}

	if err != nil {
		logger.Debug("parse failed", zap.String("query", text), zap.Error(err))
		issue := check.NewIssue("<query>", check.Query{Line: 1, Text: text}, err)
		fmt.Fprint(out, formatter.GenerateFormattedIssue([]check.Issue{issue}))
		return ErrIssuesFound
	}

	if !isJson {
		fmt.Fprint(out, render())
		return nil
	}
	d, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling syntax tree to JSON: %w", err)
	}
	fmt.Fprintln(out, string(d))
	return nil
}
