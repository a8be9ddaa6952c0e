package staging

import "errors"

var (
	// ErrOpen indicates the registry database could not be opened.
	ErrOpen = errors.New("staging: open registry")

	// ErrEmptyPath indicates an artifact path was empty.
	ErrEmptyPath = errors.New("staging: empty artifact path")

	// ErrNotFound indicates no record exists for the artifact.
	ErrNotFound = errors.New("staging: artifact not registered")

	// ErrDuplicate indicates the artifact is already registered.
	ErrDuplicate = errors.New("staging: artifact already registered")

	// ErrCorrupt indicates a stored record could not be decoded.
	ErrCorrupt = errors.New("staging: corrupt record")

	// ErrRemove indicates an artifact file could not be deleted.
	ErrRemove = errors.New("staging: remove artifact")
)
