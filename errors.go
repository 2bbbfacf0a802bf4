// FILE: lixenwraith/preferences/errors.go
package preferences

import "errors"

var (
	// ErrConfigDir is returned by Load when the configuration directory cannot be created.
	ErrConfigDir = errors.New("failed to create configuration directory")

	// ErrReadDocument is returned by Load when a present document cannot be read as text.
	ErrReadDocument = errors.New("failed to read saved document")

	// ErrInvalidDocument is returned by the readers when the text is not valid TOML at all.
	ErrInvalidDocument = errors.New("invalid TOML document")

	// ErrSaveDocument is returned by the write operations when persisting fails.
	// The in-memory document keeps the mutation.
	ErrSaveDocument = errors.New("could not write document to disk")

	// ErrUnsupportedValue is returned when a name does not match any known enum value.
	ErrUnsupportedValue = errors.New("unsupported value")
)

// ErrCLIParse is returned when command-line overrides cannot be parsed.
var ErrCLIParse = errors.New("failed to parse command-line arguments")
