package walkthrough

import (
	"errors"
	"fmt"
)

// AssetLoadError is fatal to Initialize: an asset could not be fetched,
// decoded or handed to the renderer.
type AssetLoadError struct {
	Asset string // "environment" or "mesh"
	URL   string
	Err   error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("walkthrough: load %s %q: %v", e.Asset, e.URL, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}

// InvalidReferenceError reports a descriptor id that names nothing.
type InvalidReferenceError struct {
	Field string
	ID    string
}

func (e *InvalidReferenceError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("walkthrough: invalid reference: %s is empty", e.Field)
	}
	return fmt.Sprintf("walkthrough: invalid reference: %s %q not found", e.Field, e.ID)
}

var (
	ErrDisposed           = errors.New("walkthrough: engine disposed")
	ErrAlreadyInitialized = errors.New("walkthrough: already initialized")
	ErrMissingPort        = errors.New("walkthrough: missing port")
)
