package paste

import (
	"fmt"

	"pastebin/internal/store"
)

var ErrNotFound = fmt.Errorf("paste not found: %w", store.ErrNotFound)

// MissingFieldError reports a required field left empty on submission.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing required field: " + e.Field
}
