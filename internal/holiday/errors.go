package holiday

import (
	"errors"

	"github.com/username/holiday-calendar/pkg/dateutil"
)

var (
	// ErrInvalidFormat is returned for malformed date strings
	ErrInvalidFormat = dateutil.ErrInvalidFormat

	// ErrSourceUnavailable aborts a whole fetch: non-success response or too few records
	ErrSourceUnavailable = errors.New("holiday source unavailable")

	// ErrPersistence marks a failed create, patch or delete call
	ErrPersistence = errors.New("persistence failure")

	// ErrValidation rejects a request before any work begins
	ErrValidation = errors.New("validation failure")

	// ErrNotFound is returned when a holiday id does not exist
	ErrNotFound = errors.New("holiday not found")
)
