package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
	"github.com/skjsjhb/hyaci-launcher/pkg/options"
)

// NewOptionCmd creates the option command with subcommands.
func NewOptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "option",
		Short: "Manage runtime options",
		Long: `View and modify the runtime options kept in the database.
An environment variable HYACI_<KEY> overrides the stored value, for example
HYACI_DOWNLOADS_TRIES for downloads.tries.`,
	}

	cmd.AddCommand(
		newOptionGetCmd(),
		newOptionSetCmd(),
		newOptionListCmd(),
	)

	return cmd
}

func newOptionGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Get an option value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			value, ok := e.opts.Lookup(args[0])
			if !ok {
				value, ok = options.Default(args[0])
			}
			if ok {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			}
			return fmt.Errorf("option %s is not set", args[0])
		},
	}

	return cmd
}

func newOptionSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set an option value",
		Args:  cobra.ExactArgs(setCommandArgs),
		RunE: func(_ *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.opts.Set(args[0], args[1]); err != nil {
				return fmt.Errorf("failed to set option: %w", err)
			}
			logger.Success("Option updated", logger.Fields{"key": args[0], "value": args[1]})
			return nil
		},
	}

	return cmd
}

func newOptionListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			entries, err := e.opts.List()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, TabWidth, ' ', 0)
			_, _ = fmt.Fprintln(tw, "OPTION\tVALUE\tSOURCE")
			for _, entry := range entries {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", entry.Key, entry.Value, entry.Source)
			}
			return tw.Flush()
		},
	}

	return cmd
}
