package cli

// Default values for CLI flags and output.
const (
	// DefaultContainer is used when --container is not given.
	DefaultContainer = "default"
	// DefaultBacklog is the number of game output lines kept for crash reports.
	DefaultBacklog = 200
	// TabWidth is the width of tabs in formatted output.
	TabWidth = 2
)
