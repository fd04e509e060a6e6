package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/orql/check"
	"github.com/gnoswap-labs/orql/formatter"
)

// watchCmd: orql watch [dirs...]
var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-check query files whenever they change",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		checker := check.NewEngine(engine, logger)
		return runWatch(ctx, cmd.OutOrStdout(), logger, checker, config.Extensions, args)
	},
}

func runWatch(
	ctx context.Context,
	out io.Writer,
	logger *zap.Logger,
	checker check.Checker,
	extensions []string,
	dirs []string,
) error {
	var mutex sync.Mutex
	report := func(filename string, issues []check.Issue) {
		mutex.Lock()
		defer mutex.Unlock()
		if len(issues) == 0 {
			fmt.Fprint(out, formatter.Summary(0, 1))
			return
		}
		fmt.Fprint(out, formatter.GenerateFormattedIssue(issues))
		fmt.Fprint(out, formatter.Summary(len(issues), 1))
	}

	watcher, err := check.NewWatcher(checker, extensions, report, logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}
	logger.Info("watching for changes", zap.Strings("dirs", dirs))

	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
