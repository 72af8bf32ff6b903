package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/JonMunkholm/reconcile/internal/core"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, describeError(err))
		}
		os.Exit(1)
	}
}

// describeError prefixes known errors with their user message and code.
func describeError(err error) string {
	if !core.IsUserFacing(err) {
		return err.Error()
	}
	return fmt.Sprintf("%s\n  %v", core.FormatUserError(err), err)
}
