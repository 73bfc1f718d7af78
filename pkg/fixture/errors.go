package fixture

import "errors"

var (
	// ErrNotFound indicates a sink holds no object under the requested name.
	ErrNotFound = errors.New("fixture not found")

	// ErrInvalidName indicates a name that cannot be stored, such as one
	// containing a path separator.
	ErrInvalidName = errors.New("invalid fixture name")

	// ErrChecksumMismatch indicates stored bytes differ from the manifest entry.
	ErrChecksumMismatch = errors.New("fixture checksum mismatch")

	// ErrTypeMismatch indicates stored bytes decode to a different packet kind
	// than the manifest records.
	ErrTypeMismatch = errors.New("fixture packet type mismatch")

	// ErrReencodeMismatch indicates a decoded fixture does not encode back to
	// the stored bytes.
	ErrReencodeMismatch = errors.New("fixture re-encode mismatch")

	// ErrUnsupportedManifest indicates a manifest version this package cannot read.
	ErrUnsupportedManifest = errors.New("unsupported manifest version")
)
