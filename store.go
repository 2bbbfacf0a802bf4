// FILE: lixenwraith/preferences/store.go
package preferences

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/text/language"
)

// Document file names inside the configuration directory
const (
	PreferencesFile = "preferences.toml"
	BookmarksFile   = "bookmarks.toml"
)

// GlobalPreferences is the read and write surface for application preferences.
//
// Values are resolved per field, highest priority first:
//  1. Command-line override (graphics backend, power preference, volume, storage backend)
//  2. Persisted value from preferences.toml
//  3. Compiled-in default
//
// GlobalPreferences is cheap to copy and every copy shares the same documents.
// Each document has its own lock; no operation holds both.
type GlobalPreferences struct {
	cli    Options
	fs     afero.Fs
	logger zerolog.Logger

	preferences *guarded[SavedPreferences]
	bookmarks   *guarded[Bookmarks]
}

// environment carries the collaborators Load needs besides the command line
type environment struct {
	fs     afero.Fs
	logger zerolog.Logger
	locale LocaleFunc

	// checkOwner turns re-entry from a callback into a panic
	checkOwner bool
}

func defaultEnvironment() environment {
	return environment{
		fs:     afero.NewOsFs(),
		logger: log.Logger,
		locale: SystemLocale,
	}
}

// Load creates the configuration directory if needed and reads both documents from it.
//
// A missing document means defaults. A document that exists but cannot be read as text
// fails the load, as does a directory that cannot be created. Content problems never
// fail: invalid fields fall back to defaults and are logged as warnings through the
// global zerolog logger.
func Load(cli Options) (GlobalPreferences, error) {
	return load(cli, defaultEnvironment())
}

func load(cli Options, env environment) (GlobalPreferences, error) {
	cli = cli.clone()
	if cli.ConfigDir == "" {
		return GlobalPreferences{}, fmt.Errorf("%w: no directory given", ErrConfigDir)
	}

	if err := env.fs.MkdirAll(cli.ConfigDir, 0755); err != nil {
		return GlobalPreferences{}, fmt.Errorf("%w '%s': %w", ErrConfigDir, cli.ConfigDir, err)
	}

	preferences, err := loadDocument(env, filepath.Join(cli.ConfigDir, PreferencesFile),
		func(text string) (ParseResult[SavedPreferences], error) {
			return readPreferences(text, env.locale)
		},
		func() SavedPreferences {
			return NewSavedPreferences(env.locale)
		})
	if err != nil {
		return GlobalPreferences{}, err
	}

	bookmarks, err := loadDocument(env, filepath.Join(cli.ConfigDir, BookmarksFile),
		ReadBookmarks,
		func() Bookmarks { return nil })
	if err != nil {
		return GlobalPreferences{}, err
	}

	return GlobalPreferences{
		cli:         cli,
		fs:          env.fs,
		logger:      env.logger,
		preferences: newGuarded(preferences, env.checkOwner),
		bookmarks:   newGuarded(bookmarks, env.checkOwner),
	}, nil
}

// loadDocument reads one document, falling back to defaults when it is absent or not TOML
func loadDocument[T any](env environment, path string, read func(string) (ParseResult[T], error), defaults func() T) (*Document[T], error) {
	text, found, err := readDocumentFile(env.fs, path)
	if err != nil {
		return nil, err
	}

	if !found {
		env.logger.Debug().Str("file", path).Msg("No saved document, using defaults")
		return NewDocument(defaults()), nil
	}

	result, err := read(text)
	if err != nil {
		env.logger.Warn().Err(err).Str("file", path).Msg("Ignoring unparsable document, using defaults")
		return NewDocument(defaults()), nil
	}

	for _, warning := range result.Warnings {
		env.logger.Warn().Str("file", path).Msg(warning)
	}
	env.logger.Debug().Str("file", path).Int("warnings", len(result.Warnings)).Msg("Loaded document")

	return result.Document, nil
}

// CLI returns a copy of the command-line options the store was loaded with.
func (p GlobalPreferences) CLI() Options {
	return p.cli.clone()
}

// ConfigDir returns the directory holding the documents.
func (p GlobalPreferences) ConfigDir() string {
	return p.cli.ConfigDir
}

func (p GlobalPreferences) saved() SavedPreferences {
	return p.preferences.value()
}

// GraphicsBackend returns the CLI override, else the persisted backend.
func (p GlobalPreferences) GraphicsBackend() GraphicsBackend {
	return resolve(p.cli.GraphicsBackend, func() GraphicsBackend {
		return p.saved().GraphicsBackend
	})
}

// GraphicsPowerPreference returns the CLI override, else the persisted preference.
func (p GlobalPreferences) GraphicsPowerPreference() PowerPreference {
	return resolve(p.cli.PowerPreference, func() PowerPreference {
		return p.saved().GraphicsPowerPreference
	})
}

// PreferredVolume returns the CLI override, else the persisted volume.
func (p GlobalPreferences) PreferredVolume() float64 {
	return resolve(p.cli.Volume, func() float64 {
		return p.saved().Volume
	})
}

// StorageBackend returns the CLI override, else the persisted backend.
func (p GlobalPreferences) StorageBackend() StorageBackend {
	return resolve(p.cli.StorageBackend, func() StorageBackend {
		return p.saved().Storage.Backend
	})
}

// Language returns the persisted UI language.
func (p GlobalPreferences) Language() language.Tag {
	return p.saved().Language
}

// OutputDeviceName returns the persisted audio device, or false for the system default.
func (p GlobalPreferences) OutputDeviceName() (string, bool) {
	name := p.saved().OutputDevice
	return name, name != ""
}

// Mute returns the persisted mute flag.
func (p GlobalPreferences) Mute() bool {
	return p.saved().Mute
}

// LogFilenamePattern returns the persisted log file naming.
func (p GlobalPreferences) LogFilenamePattern() FilenamePattern {
	return p.saved().Log.FilenamePattern
}

// LookupPreference returns the value stored in preferences.toml at a dot-notation path,
// as read from the file or last written. Overrides are not applied.
func (p GlobalPreferences) LookupPreference(path string) (any, bool) {
	var (
		value any
		found bool
	)
	p.preferences.read(func(doc *Document[SavedPreferences]) {
		value, found = doc.Lookup(path)
		value = cloneTree(value)
	})
	return value, found
}

// Bookmarks calls fn with the bookmark list while holding its lock. fn must not keep the
// list, modify it, or call back into the store's bookmark methods.
func (p GlobalPreferences) Bookmarks(fn func(bookmarks Bookmarks)) {
	p.bookmarks.read(func(doc *Document[Bookmarks]) {
		fn(doc.value)
	})
}

// HaveBookmarks reports whether there is at least one valid bookmark.
func (p GlobalPreferences) HaveBookmarks() bool {
	var have bool
	p.bookmarks.read(func(doc *Document[Bookmarks]) {
		have = doc.value.HasUsable()
	})
	return have
}

// WritePreferences applies fn to the preferences document and saves it.
//
// The edit is visible to readers as soon as fn returns, and is kept even if saving fails;
// the error (wrapping ErrSaveDocument) lets the caller retry. If fn panics, its edits are
// discarded and the panic propagates.
func (p GlobalPreferences) WritePreferences(fn func(w *PreferencesWriter)) error {
	tree, generation := p.preferences.mutate(func(doc *Document[SavedPreferences]) {
		writer := &PreferencesWriter{doc: doc}
		defer writer.close()
		fn(writer)
	})

	return p.save(PreferencesFile, func(path string) error {
		return p.preferences.persist(generation, tree, func(data []byte) error {
			return atomicWriteFile(p.fs, path, data)
		})
	})
}

// WriteBookmarks applies fn to the bookmarks document and saves it, with the same
// guarantees as WritePreferences.
func (p GlobalPreferences) WriteBookmarks(fn func(w *BookmarksWriter)) error {
	tree, generation := p.bookmarks.mutate(func(doc *Document[Bookmarks]) {
		writer := &BookmarksWriter{doc: doc}
		defer writer.close()
		fn(writer)
	})

	return p.save(BookmarksFile, func(path string) error {
		return p.bookmarks.persist(generation, tree, func(data []byte) error {
			return atomicWriteFile(p.fs, path, data)
		})
	})
}

func (p GlobalPreferences) save(name string, persist func(path string) error) error {
	path := filepath.Join(p.cli.ConfigDir, name)
	if err := persist(path); err != nil {
		p.logger.Error().Err(err).Str("file", path).Msg("Failed to save document")
		return fmt.Errorf("%w '%s': %w", ErrSaveDocument, path, err)
	}

	p.logger.Debug().Str("file", path).Msg("Saved document")
	return nil
}

// Effective is the resolved value of every preference, as the application sees it.
type Effective struct {
	GraphicsBackend         GraphicsBackend `toml:"graphics_backend" yaml:"graphics_backend" json:"graphics_backend"`
	GraphicsPowerPreference PowerPreference `toml:"graphics_power_preference" yaml:"graphics_power_preference" json:"graphics_power_preference"`
	Language                string          `toml:"language" yaml:"language" json:"language"`
	OutputDevice            string          `toml:"output_device,omitempty" yaml:"output_device,omitempty" json:"output_device,omitempty"`
	Mute                    bool            `toml:"mute" yaml:"mute" json:"mute"`
	Volume                  float64         `toml:"volume" yaml:"volume" json:"volume"`
	LogFilenamePattern      FilenamePattern `toml:"log_filename_pattern" yaml:"log_filename_pattern" json:"log_filename_pattern"`
	StorageBackend          StorageBackend  `toml:"storage_backend" yaml:"storage_backend" json:"storage_backend"`
	Overrides               []string        `toml:"overrides,omitempty" yaml:"overrides,omitempty" json:"overrides,omitempty"`
	ConfigDir               string          `toml:"config_dir" yaml:"config_dir" json:"config_dir"`
}

// Effective resolves every preference at once, from a single read of the document.
func (p GlobalPreferences) Effective() Effective {
	saved := p.saved()

	effective := Effective{
		GraphicsBackend:         resolve(p.cli.GraphicsBackend, func() GraphicsBackend { return saved.GraphicsBackend }),
		GraphicsPowerPreference: resolve(p.cli.PowerPreference, func() PowerPreference { return saved.GraphicsPowerPreference }),
		Language:                saved.Language.String(),
		OutputDevice:            saved.OutputDevice,
		Mute:                    saved.Mute,
		Volume:                  resolve(p.cli.Volume, func() float64 { return saved.Volume }),
		LogFilenamePattern:      saved.Log.FilenamePattern,
		StorageBackend:          resolve(p.cli.StorageBackend, func() StorageBackend { return saved.Storage.Backend }),
		ConfigDir:               p.cli.ConfigDir,
	}

	if p.cli.GraphicsBackend != nil {
		effective.Overrides = append(effective.Overrides, "graphics_backend")
	}
	if p.cli.PowerPreference != nil {
		effective.Overrides = append(effective.Overrides, "graphics_power_preference")
	}
	if p.cli.Volume != nil {
		effective.Overrides = append(effective.Overrides, "volume")
	}
	if p.cli.StorageBackend != nil {
		effective.Overrides = append(effective.Overrides, "storage_backend")
	}

	return effective
}
