package download

import (
	"strings"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
)

// ValidationMode selects how a downloaded file is checked.
type ValidationMode string

const (
	// ValidateChecksum compares the artifact checksum and falls back to size
	// when there is no usable checksum.
	ValidateChecksum ValidationMode = "checksum"
	// ValidateSize compares the byte count with the expected size.
	ValidateSize ValidationMode = "size"
	// ValidateNone accepts every file.
	ValidateNone ValidationMode = "none"
)

// Option keys read by SettingsFrom.
const (
	KeyTries      = "downloads.tries"
	KeyPoolSize   = "downloads.poolSize"
	KeyValidation = "downloads.validation"
)

const (
	DefaultTries    = 3
	DefaultPoolSize = 32
)

// ParseValidationMode parses a mode name. ok is false for unknown names.
func ParseValidationMode(s string) (ValidationMode, bool) {
	switch m := ValidationMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ValidateChecksum, ValidateSize, ValidateNone:
		return m, true
	default:
		return "", false
	}
}

// Settings tune tasks and groups.
type Settings struct {
	Tries      int
	PoolSize   int
	Validation ValidationMode
}

// DefaultSettings returns three tries, 32 workers and checksum validation.
func DefaultSettings() Settings {
	return Settings{Tries: DefaultTries, PoolSize: DefaultPoolSize, Validation: ValidateChecksum}
}

// normalized applies floors and defaults.
func (s Settings) normalized() Settings {
	if s.Tries < 1 {
		s.Tries = 1
	}
	if s.PoolSize < 1 {
		s.PoolSize = 1
	}
	if s.Validation == "" {
		s.Validation = ValidateChecksum
	}
	return s
}

// OptionReader is the subset of the option store settings are read from.
type OptionReader interface {
	GetInt(key string, def int) int
	GetString(key, def string) string
}

// SettingsFrom reads settings from the option store. The values are captured
// once; later option changes do not affect the returned Settings.
func SettingsFrom(r OptionReader) Settings {
	s := Settings{
		Tries:    r.GetInt(KeyTries, DefaultTries),
		PoolSize: r.GetInt(KeyPoolSize, DefaultPoolSize),
	}
	raw := r.GetString(KeyValidation, string(ValidateChecksum))
	mode, ok := ParseValidationMode(raw)
	if !ok {
		logger.Warn("Unknown validation mode, using checksum", logger.Fields{"value": raw})
		mode = ValidateChecksum
	}
	s.Validation = mode
	return s.normalized()
}
