package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
)

// NewContainerCmd creates the container command with subcommands.
func NewContainerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "container",
		Short: "Manage game containers",
		Long:  "Register, list and remove the named game directories versions are installed into",
	}

	cmd.AddCommand(
		newContainerAddCmd(),
		newContainerListCmd(),
		newContainerRemoveCmd(),
	)

	return cmd
}

func newContainerAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add NAME PATH",
		Short: "Register a container",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			_, err = e.containers.Add(args[0], args[1])
			return err
		},
	}

	return cmd
}

func newContainerListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List containers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			containers, err := e.containers.List()
			if err != nil {
				return err
			}
			if len(containers) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No containers registered")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, TabWidth, ' ', 0)
			_, _ = fmt.Fprintln(tw, "NAME\tROOT\tCREATED")
			for _, c := range containers {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Root, humanize.Time(c.CreatedAt))
			}
			return tw.Flush()
		},
	}

	return cmd
}

func newContainerRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove NAME",
		Short: "Unregister a container",
		Long:  "Unregister a container. Its files are left in place.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.containers.Remove(args[0]); err != nil {
				return err
			}
			logger.Success("Container removed", logger.Fields{"name": args[0]})
			return nil
		},
	}

	return cmd
}
