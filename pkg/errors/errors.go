package errors

import "fmt"

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate  = fmt.Errorf("failed to create config file")
	ErrConfigFileRename  = fmt.Errorf("failed to replace config file")
	ErrConfigFileExists  = fmt.Errorf("config file already exists")
	ErrUnknownConfigKey  = fmt.Errorf("unknown configuration key")

	// Option errors.
	ErrInvalidOption = fmt.Errorf("invalid option value")

	// Rule errors.
	ErrInvalidRule = fmt.Errorf("invalid rule")

	// Profile errors.
	ErrProfileParse     = fmt.Errorf("failed to parse profile")
	ErrProfileNotFound  = fmt.Errorf("profile not found")
	ErrNilProfiles      = fmt.Errorf("cannot link two nil profiles")
	ErrInheritanceCycle = fmt.Errorf("cyclic profile inheritance")

	// Download errors.
	ErrDownloadFailed   = fmt.Errorf("download failed")
	ErrRemoteNotFound   = fmt.Errorf("remote resource not found")
	ErrValidation       = fmt.Errorf("validation failed")
	ErrDownloadCanceled = fmt.Errorf("download canceled")

	// Install errors.
	ErrVersionNotFound     = fmt.Errorf("version not found")
	ErrUnsupportedPlatform = fmt.Errorf("unsupported platform")
	ErrRuntimeNotFound     = fmt.Errorf("runtime not found")

	// Container errors.
	ErrContainerNotFound = fmt.Errorf("container not found")
	ErrContainerExists   = fmt.Errorf("container already exists")
	ErrInvalidPath       = fmt.Errorf("invalid path")

	// Hook errors.
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookLoad      = fmt.Errorf("failed to load hook")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
