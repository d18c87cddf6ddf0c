package sentinel

import "errors"

// Store-level facts. Document stores and cache stores return these (possibly
// wrapped) and services translate them into domain errors:
//   - ErrNotFound: no record matches the id or filter
//   - ErrConflict: a unique constraint rejected the write
//   - ErrUnavailable: the backing store could not be reached
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
