package hooks

import (
	"fmt"

	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
)

// ErrHookTypeEmpty is returned when a hooks type is empty.
var ErrHookTypeEmpty = fmt.Errorf("hooks type cannot be empty")

// ErrUnsupportedHookType is returned when an unsupported hooks type is used.
func ErrUnsupportedHookType(hookType HookType) error {
	return errors.Wrapf(errors.ErrHookLoad, "unsupported hooks type: %s", hookType)
}
