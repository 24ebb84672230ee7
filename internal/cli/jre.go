package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
	"github.com/skjsjhb/hyaci-launcher/pkg/jre"
	"github.com/skjsjhb/hyaci-launcher/pkg/options"
	"github.com/skjsjhb/hyaci-launcher/pkg/store"
)

// NewJRECmd creates the jre command with subcommands.
func NewJRECmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jre",
		Short: "Manage Java runtimes",
		Long:  "Install and list the Java runtimes hyaci manages",
	}

	cmd.AddCommand(
		newJREInstallCmd(),
		newJREListCmd(),
	)

	return cmd
}

func newJREInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install COMPONENT",
		Short: "Install a Java runtime",
		Long: `Install a Java runtime component such as java-runtime-gamma.
Set the option installer.jre.lzma to download compressed files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			rt, err := e.installRuntime(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rt.Executable)
			return nil
		},
	}

	return cmd
}

func newJREListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed Java runtimes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			runtimes, err := e.db.ListRuntimes()
			if err != nil {
				return err
			}
			if len(runtimes) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No runtimes installed")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, TabWidth, ' ', 0)
			_, _ = fmt.Fprintln(tw, "COMPONENT\tVERSION\tINSTALLED\tEXECUTABLE")
			for _, rt := range runtimes {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rt.Component, rt.Version, humanize.Time(rt.InstalledAt), rt.Executable)
			}
			return tw.Flush()
		},
	}

	return cmd
}

func (e *env) installRuntime(ctx context.Context, component string) (*store.Runtime, error) {
	root, err := e.cfg.GetRuntimesDir()
	if err != nil {
		return nil, err
	}
	in := &jre.Installer{
		Getter:   e.dl,
		DL:       e.dl,
		Registry: e.db,
		Root:     root,
		LZMA:     e.opts.GetBool(options.JRELZMA, false),
	}
	rt, err := in.Install(ctx, component)
	if err != nil {
		return nil, fmt.Errorf("failed to install runtime %s: %w", component, err)
	}
	logger.Success("Runtime installed", logger.Fields{"component": component, "version": rt.Version})
	return rt, nil
}

func (e *env) locateRuntime(component string, major int) (string, error) {
	java, err := jre.Locate(e.db, component, major)
	if err != nil {
		logger.Debug("Runtime not available", logger.Fields{"component": component, "error": err.Error()})
		return "", err
	}
	return java, nil
}

