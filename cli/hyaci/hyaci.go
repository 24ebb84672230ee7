package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/skjsjhb/hyaci-launcher/internal/cli"
)

var (
	configPath string
	verbose    bool
	logFormat  string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hyaci",
		Short: "A command line game launcher",
		Long: `hyaci installs and launches game versions:
- install versions with their libraries, assets and natives
- launch them with an offline account
- manage Java runtimes and game containers`,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json, auto)")

	// Set up CLI package variables
	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.LogFormat = &logFormat

	cmd.AddCommand(
		cli.NewInstallCmd(),
		cli.NewLaunchCmd(),
		cli.NewVersionsCmd(),
		cli.NewContainerCmd(),
		cli.NewOptionCmd(),
		cli.NewConfigCmd(),
		cli.NewJRECmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
