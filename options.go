// FILE: lixenwraith/preferences/options.go
package preferences

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

// Options is the command-line surface consumed by the store. It is read once at startup
// and never changes afterwards. A nil override means "not given on the command line".
type Options struct {
	// ConfigDir holds preferences.toml and bookmarks.toml
	ConfigDir string

	GraphicsBackend *GraphicsBackend
	PowerPreference *PowerPreference
	Volume          *float64
	StorageBackend  *StorageBackend
}

// DefaultOptions returns options with no overrides and the default config directory.
func DefaultOptions(appName string) Options {
	return Options{ConfigDir: DefaultConfigDir(appName)}
}

// BindFlags registers the override flags on fs, writing into o when fs is parsed:
//
//	--config DIR --graphics NAME --power high|low --volume 0..1 --storage disk|memory
func (o *Options) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigDir, "config", o.ConfigDir, "Directory holding preferences.toml and bookmarks.toml")
	fs.Var(newOptionalFlag(&o.GraphicsBackend, ParseGraphicsBackend, "backend"), "graphics",
		"Graphics API to use for this launch (default, vulkan, metal, dx12, gl)")
	fs.Var(newOptionalFlag(&o.PowerPreference, ParsePowerPreference, "power"), "power",
		"Graphics power preference for this launch (high, low)")
	fs.Var(newOptionalFlag(&o.Volume, parseVolume, "volume"), "volume",
		"Audio volume for this launch, between 0 and 1")
	fs.Var(newOptionalFlag(&o.StorageBackend, ParseStorageBackend, "storage"), "storage",
		"Local storage backend for this launch (disk, memory)")
}

// ParseOptions parses the override flags from args, starting from DefaultOptions(appName).
// Flags it does not know are ignored so the application can define its own.
func ParseOptions(appName string, args []string) (Options, error) {
	opts := DefaultOptions(appName)
	if err := opts.parse(appName, args); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func (o *Options) parse(name string, args []string) error {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	o.BindFlags(fs)

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrCLIParse, err)
	}
	return nil
}

// clone copies the override values so the copy cannot be used to change the original
func (o Options) clone() Options {
	o.GraphicsBackend = clonePtr(o.GraphicsBackend)
	o.PowerPreference = clonePtr(o.PowerPreference)
	o.Volume = clonePtr(o.Volume)
	o.StorageBackend = clonePtr(o.StorageBackend)
	return o
}

func clonePtr[V any](p *V) *V {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// optionalFlag is a pflag.Value that allocates its target only when the flag is given
type optionalFlag[V any] struct {
	target   **V
	parse    func(string) (V, error)
	typeName string
}

func newOptionalFlag[V any](target **V, parse func(string) (V, error), typeName string) *optionalFlag[V] {
	return &optionalFlag[V]{target: target, parse: parse, typeName: typeName}
}

func (f *optionalFlag[V]) String() string {
	if f.target == nil || *f.target == nil {
		return ""
	}
	return fmt.Sprint(**f.target)
}

func (f *optionalFlag[V]) Set(s string) error {
	v, err := f.parse(s)
	if err != nil {
		return err
	}
	*f.target = &v
	return nil
}

func (f *optionalFlag[V]) Type() string {
	return f.typeName
}
