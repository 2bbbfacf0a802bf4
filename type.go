// FILE: lixenwraith/preferences/type.go
package preferences

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// GraphicsBackend selects the rendering API.
type GraphicsBackend int

const (
	// GraphicsBackendDefault lets the renderer pick the best available API
	GraphicsBackendDefault GraphicsBackend = iota
	GraphicsBackendVulkan
	GraphicsBackendMetal
	GraphicsBackendDX12
	GraphicsBackendGL
)

var graphicsBackendNames = []string{"default", "vulkan", "metal", "dx12", "gl"}

// PowerPreference selects between a high performance and a low power adapter.
type PowerPreference int

const (
	PowerPreferenceHigh PowerPreference = iota
	PowerPreferenceLow
)

var powerPreferenceNames = []string{"high", "low"}

// FilenamePattern controls how log files are named.
type FilenamePattern int

const (
	// FilenamePatternSingleFile always writes to the same log file
	FilenamePatternSingleFile FilenamePattern = iota
	// FilenamePatternWithTimestamp writes a new log file per launch
	FilenamePatternWithTimestamp
)

var filenamePatternNames = []string{"single_file", "with_timestamp"}

// StorageBackend selects where local storage of loaded content is kept.
type StorageBackend int

const (
	StorageBackendDisk StorageBackend = iota
	StorageBackendMemory
)

var storageBackendNames = []string{"disk", "memory"}

// FallbackLanguage is used when the system locale is missing or unparsable.
var FallbackLanguage = language.AmericanEnglish

// enumName returns the canonical name of v, or a Go-syntax fallback for out of range values.
func enumName[E ~int](kind string, names []string, v E) string {
	if int(v) < 0 || int(v) >= len(names) {
		return fmt.Sprintf("%s(%d)", kind, int(v))
	}
	return names[v]
}

// parseEnum matches s case-insensitively against names.
func parseEnum[E ~int](kind string, names []string, s string) (E, error) {
	s = strings.TrimSpace(s)
	for i, name := range names {
		if strings.EqualFold(name, s) {
			return E(i), nil
		}
	}
	return 0, fmt.Errorf("%w for %s: %q (expected one of %s)", ErrUnsupportedValue, kind, s, strings.Join(names, ", "))
}

// marshalEnum rejects values that have no canonical name, so they never reach a document.
func marshalEnum[E ~int](kind string, names []string, v E) ([]byte, error) {
	if int(v) < 0 || int(v) >= len(names) {
		return nil, fmt.Errorf("%w for %s: %d", ErrUnsupportedValue, kind, int(v))
	}
	return []byte(names[v]), nil
}

func (b GraphicsBackend) String() string {
	return enumName("GraphicsBackend", graphicsBackendNames, b)
}

// MarshalText implements encoding.TextMarshaler.
func (b GraphicsBackend) MarshalText() ([]byte, error) {
	return marshalEnum("graphics backend", graphicsBackendNames, b)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *GraphicsBackend) UnmarshalText(text []byte) error {
	v, err := ParseGraphicsBackend(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// ParseGraphicsBackend parses a backend name such as "vulkan".
func ParseGraphicsBackend(s string) (GraphicsBackend, error) {
	return parseEnum[GraphicsBackend]("graphics backend", graphicsBackendNames, s)
}

func (p PowerPreference) String() string {
	return enumName("PowerPreference", powerPreferenceNames, p)
}

// MarshalText implements encoding.TextMarshaler.
func (p PowerPreference) MarshalText() ([]byte, error) {
	return marshalEnum("power preference", powerPreferenceNames, p)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PowerPreference) UnmarshalText(text []byte) error {
	v, err := ParsePowerPreference(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePowerPreference parses "high" or "low".
func ParsePowerPreference(s string) (PowerPreference, error) {
	return parseEnum[PowerPreference]("power preference", powerPreferenceNames, s)
}

func (f FilenamePattern) String() string {
	return enumName("FilenamePattern", filenamePatternNames, f)
}

// MarshalText implements encoding.TextMarshaler.
func (f FilenamePattern) MarshalText() ([]byte, error) {
	return marshalEnum("filename pattern", filenamePatternNames, f)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *FilenamePattern) UnmarshalText(text []byte) error {
	v, err := ParseFilenamePattern(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ParseFilenamePattern parses "single_file" or "with_timestamp".
func ParseFilenamePattern(s string) (FilenamePattern, error) {
	return parseEnum[FilenamePattern]("filename pattern", filenamePatternNames, s)
}

func (s StorageBackend) String() string {
	return enumName("StorageBackend", storageBackendNames, s)
}

// MarshalText implements encoding.TextMarshaler.
func (s StorageBackend) MarshalText() ([]byte, error) {
	return marshalEnum("storage backend", storageBackendNames, s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *StorageBackend) UnmarshalText(text []byte) error {
	v, err := ParseStorageBackend(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStorageBackend parses "disk" or "memory".
func ParseStorageBackend(s string) (StorageBackend, error) {
	return parseEnum[StorageBackend]("storage backend", storageBackendNames, s)
}

// SavedPreferences is the persisted subset of application settings, the content of
// preferences.toml. Every field is always populated; an empty OutputDevice means
// "use the system default device".
type SavedPreferences struct {
	GraphicsBackend         GraphicsBackend    `toml:"graphics_backend" yaml:"graphics_backend" json:"graphics_backend"`
	GraphicsPowerPreference PowerPreference    `toml:"graphics_power_preference" yaml:"graphics_power_preference" json:"graphics_power_preference"`
	Language                language.Tag       `toml:"language" yaml:"language" json:"language"`
	OutputDevice            string             `toml:"output_device" yaml:"output_device" json:"output_device"`
	Mute                    bool               `toml:"mute" yaml:"mute" json:"mute"`
	Volume                  float64            `toml:"volume" yaml:"volume" json:"volume"`
	Log                     LogPreferences     `toml:"log" yaml:"log" json:"log"`
	Storage                 StoragePreferences `toml:"storage" yaml:"storage" json:"storage"`
}

// LogPreferences is the [log] table.
type LogPreferences struct {
	FilenamePattern FilenamePattern `toml:"filename_pattern" yaml:"filename_pattern" json:"filename_pattern"`
}

// StoragePreferences is the [storage] table.
type StoragePreferences struct {
	Backend StorageBackend `toml:"backend" yaml:"backend" json:"backend"`
}

// DefaultSavedPreferences returns the compiled-in defaults, with the language taken
// from the system locale.
func DefaultSavedPreferences() SavedPreferences {
	return NewSavedPreferences(SystemLocale)
}

// NewSavedPreferences returns the compiled-in defaults using locale to pick the language.
// A nil locale, a missing locale or an unparsable one yields FallbackLanguage.
func NewSavedPreferences(locale LocaleFunc) SavedPreferences {
	return SavedPreferences{
		GraphicsBackend:         GraphicsBackendDefault,
		GraphicsPowerPreference: PowerPreferenceHigh,
		Language:                defaultLanguage(locale),
		OutputDevice:            "",
		Mute:                    false,
		Volume:                  1.0,
		Log:                     LogPreferences{FilenamePattern: FilenamePatternSingleFile},
		Storage:                 StoragePreferences{Backend: StorageBackendDisk},
	}
}
