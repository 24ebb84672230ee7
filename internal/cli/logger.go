package cli

import (
	"github.com/skjsjhb/hyaci-launcher/internal/logger"
	"github.com/skjsjhb/hyaci-launcher/pkg/config"
)

// initLogging configures the global logger from cfg and the global flags.
// --verbose wins over the configured level, --log-format over the
// configured format.
func initLogging(cfg *config.Config) {
	level := cfg.Settings.LogLevel
	if Verbose != nil && *Verbose {
		level = "debug"
	}
	format := logger.OutputFormat(cfg.Settings.LogFormat)
	if LogFormat != nil && *LogFormat != "" {
		format = logger.OutputFormat(*LogFormat)
	}
	logger.InitLogger(level, format)
}
