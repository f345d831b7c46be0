package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pavanmanishd/gcptr"
)

var (
	// Global flags
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "gcinspect",
	Short: "Exercise and inspect reference-counted pointer registries",
	Long: `gcinspect drives tracked pointers through their lifecycle and prints
the registry after every step. It is a debugging aid for the gcptr package.`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		gcptr.Default = gcptr.NewContext(gcptr.WithLogger(newLogger()))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log registry events to stderr")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
}

func newLogger() *slog.Logger {
	if !verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if n := gcptr.Shutdown(); n > 0 {
		printVerbose("shutdown freed %d allocation(s)\n", n)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// out is where command output goes; io.Discard in quiet mode.
func out() io.Writer {
	if quiet {
		return io.Discard
	}
	return os.Stdout
}

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	fmt.Fprintf(out(), format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}
