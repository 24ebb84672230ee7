package download

import (
	"github.com/skjsjhb/hyaci-launcher/internal/logger"
	"github.com/skjsjhb/hyaci-launcher/pkg/artifact"
	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
)

// validate checks the file at path, which holds written bytes, against a.
// expected is the size to compare with, 0 when unknown.
func validate(path string, a artifact.Artifact, mode ValidationMode, written, expected uint64) error {
	switch mode {
	case ValidateNone:
		return nil
	case ValidateSize:
		return validateSize(written, expected)
	}

	algo, want, ok := artifact.ParseChecksum(a.Checksum)
	if !ok {
		logger.Debug("No checksum, validating size", logger.Fields{"url": a.URL})
		return validateSize(written, expected)
	}
	if !artifact.Supported(algo) {
		logger.Warn("Unsupported checksum algorithm, validating size", logger.Fields{"url": a.URL, "algorithm": algo})
		return validateSize(written, expected)
	}
	got, err := artifact.FileDigest(path, algo)
	if err != nil {
		return errors.Wrapf(errors.ErrValidation, "hash %s", path)
	}
	if got != want {
		return errors.Wrapf(errors.ErrValidation, "checksum mismatch: expected %s=%s, got %s", algo, want, got)
	}
	return nil
}

func validateSize(written, expected uint64) error {
	if expected == 0 || written == expected {
		return nil
	}
	return errors.Wrapf(errors.ErrValidation, "size mismatch: expected %d bytes, got %d", expected, written)
}
