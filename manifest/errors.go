package manifest

import "errors"

var (
	// ErrInvalidManifest is returned when the YAML cannot be parsed or the
	// document violates the manifest schema.
	ErrInvalidManifest = errors.New("manifest: invalid manifest")

	// ErrUnknownHandler is returned when a manifest names a handler absent
	// from the WithHandlers map.
	ErrUnknownHandler = errors.New("manifest: unknown handler")
)
