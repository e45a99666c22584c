package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"podcut/internal/runctx"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps command errors onto the process status. Errors that never
// reached a stage, such as flag parsing, exit 1.
func exitCode(err error) int {
	if code := runctx.ExitCode(err); code != 0 {
		return code
	}
	return 1
}
