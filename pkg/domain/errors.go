package domain

import "fmt"

// ErrInvalidID rejects an empty or malformed mouse identifier. It is checked
// before any duplicate lookup.
type ErrInvalidID struct {
	ID     string
	Reason string
}

func (e ErrInvalidID) Error() string {
	return fmt.Sprintf("invalid mouse id %q: %s", e.ID, e.Reason)
}

// ErrDuplicateID signals a registration collision on an exact, case-sensitive
// identifier match.
type ErrDuplicateID struct {
	ID string
}

func (e ErrDuplicateID) Error() string {
	return fmt.Sprintf("mouse %s already registered", e.ID)
}

// ErrNotFound signals an operation against an absent mouse identifier.
type ErrNotFound struct {
	ID string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("mouse %s not found", e.ID)
}

// ErrDecode signals that uploaded bytes are not a supported image encoding.
type ErrDecode struct {
	Err error
}

func (e ErrDecode) Error() string {
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e ErrDecode) Unwrap() error { return e.Err }

// ErrBackendUnavailable wraps a registry backend read or write failure.
// Reads degrade to a flagged stale-or-empty view; writes fail the mutation.
type ErrBackendUnavailable struct {
	Op  string
	Err error
}

func (e ErrBackendUnavailable) Error() string {
	return fmt.Sprintf("registry backend unavailable (%s): %v", e.Op, e.Err)
}

func (e ErrBackendUnavailable) Unwrap() error { return e.Err }

// ErrEmptyDay signals an archive request for a date with no stored photos.
// Callers must not offer a download in this case.
type ErrEmptyDay struct {
	Date Date
}

func (e ErrEmptyDay) Error() string {
	return fmt.Sprintf("no photos stored for %s", e.Date)
}
