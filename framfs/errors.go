package framfs

import "errors"

// The error taxonomy is part of the API: callers distinguish these with
// errors.Is. Store transport failures pass through unwrapped.
var (
	ErrInvalidParam = errors.New("framfs: invalid parameter")
	ErrInit         = errors.New("framfs: init failed")
	ErrNotFound     = errors.New("framfs: file not found")
	ErrFull         = errors.New("framfs: capacity exhausted")
	ErrExists       = errors.New("framfs: file already exists")
	ErrNoActive     = errors.New("framfs: no active file")
	ErrReadOnly     = errors.New("framfs: file is not active")
	ErrSize         = errors.New("framfs: size out of range")
	ErrMacFull      = errors.New("framfs: MAC table full")
	ErrMacNotFound  = errors.New("framfs: MAC id not found")
)
