// FILE: lixenwraith/preferences/builder.go
package preferences

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Builder provides a fluent interface for loading preferences with injected
// collaborators (filesystem, logger, locale). Build ends in the same code path as Load.
type Builder struct {
	appName string
	opts    Options
	args    []string
	env     environment
}

// NewBuilder creates a builder for appName, starting from DefaultOptions(appName).
func NewBuilder(appName string) *Builder {
	return &Builder{
		appName: appName,
		opts:    DefaultOptions(appName),
		env:     defaultEnvironment(),
	}
}

// WithOptions replaces the command-line options
func (b *Builder) WithOptions(opts Options) *Builder {
	b.opts = opts.clone()
	return b
}

// WithConfigDir sets the configuration directory
func (b *Builder) WithConfigDir(dir string) *Builder {
	b.opts.ConfigDir = dir
	return b
}

// WithArgs sets command-line arguments to parse with BindFlags' flags during Build.
// Parsed flags take precedence over WithOptions and WithConfigDir.
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithFs sets the filesystem the documents live on
func (b *Builder) WithFs(fs afero.Fs) *Builder {
	if fs != nil {
		b.env.fs = fs
	}
	return b
}

// WithLogger sets the logger that receives load warnings and save failures
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.env.logger = logger
	return b
}

// WithLocale sets the locale provider used for the default language
func (b *Builder) WithLocale(locale LocaleFunc) *Builder {
	b.env.locale = locale
	return b
}

// WithOwnerChecks makes a store method called from inside a Bookmarks, WritePreferences
// or WriteBookmarks callback on the same document panic instead of deadlocking. It costs
// a stack read per access and is meant for debug builds and tests.
func (b *Builder) WithOwnerChecks(enabled bool) *Builder {
	b.env.checkOwner = enabled
	return b
}

// Build parses the arguments, if any, and loads the preferences
func (b *Builder) Build() (GlobalPreferences, error) {
	opts := b.opts.clone()

	if len(b.args) > 0 {
		if err := opts.parse(b.appName, b.args); err != nil {
			return GlobalPreferences{}, err
		}
	}

	return load(opts, b.env)
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() GlobalPreferences {
	prefs, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("preferences load failed: %v", err))
	}
	return prefs
}
