package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/Qwinci/hzlauncher/internal/cli"
	"github.com/Qwinci/hzlauncher/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.IsErrorCode(err, errors.ErrNoAccount) || errors.IsErrorCode(err, errors.ErrAccountExpired) {
			fmt.Fprintln(os.Stderr, "Sign in again or pass --offline <name>.")
		}
		stop()
		os.Exit(1)
	}
}
