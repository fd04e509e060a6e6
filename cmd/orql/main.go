package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gnoswap-labs/orql/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, cmd.ErrIssuesFound) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
