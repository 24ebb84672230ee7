package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewVersionsCmd creates the versions command.
func NewVersionsCmd() *cobra.Command {
	var (
		types      []string
		constraint string
	)

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List available game versions",
		Long: `List the game versions of the official catalog.
Use --type to select release types and --constraint to filter by a version
range such as ">= 1.13, < 1.20".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersions(cmd, types, constraint)
		},
	}

	cmd.Flags().StringSliceVar(&types, "type", nil, "Version types to list (release, snapshot, old_beta, old_alpha)")
	cmd.Flags().StringVar(&constraint, "constraint", "", "Version constraint")

	return cmd
}

func runVersions(cmd *cobra.Command, types []string, constraint string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	versions, err := e.catalog.List(cmd.Context(), types, constraint)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No matching versions")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tw, "VERSION\tTYPE\tRELEASED")
	for _, v := range versions {
		released := v.ReleaseTime
		if t, err := time.Parse(time.RFC3339, v.ReleaseTime); err == nil {
			released = humanize.Time(t)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", v.ID, v.Type, released)
	}
	return tw.Flush()
}
