package common

import (
	"fmt"
	"slices"
	"strings"

	"smarthire/internal/errors"
)

// ValidateOutputFormat rejects output formats outside the configured
// list. An empty list means no restriction.
func ValidateOutputFormat(format string, supported []string) error {
	if len(supported) == 0 || slices.Contains(supported, format) {
		return nil
	}
	return errors.NewValidationError(errors.ErrCodeInvalidFormat,
		fmt.Sprintf("unsupported output format %q, expected one of: %s",
			format, strings.Join(supported, ", ")), nil)
}
