// FILE: lixenwraith/preferences/document.go
package preferences

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Document holds a typed value together with the TOML tree it was read from.
//
// The tree is what gets serialized: writers replace recognized keys in it and leave every
// other key alone, so unknown settings written by newer versions (or by hand) survive a
// save. A Document built by NewDocument has no tree yet and serializes only the keys that
// were explicitly written.
type Document[T any] struct {
	value T
	raw   map[string]any
}

// NewDocument returns a never-persisted document holding value.
func NewDocument[T any](value T) *Document[T] {
	return &Document[T]{value: value}
}

// newParsedDocument pairs a value with the tree it was decoded from
func newParsedDocument[T any](value T, raw map[string]any) *Document[T] {
	if raw == nil {
		raw = make(map[string]any)
	}
	return &Document[T]{value: value, raw: raw}
}

// Value returns the typed value. Reference types inside it (such as the Bookmarks slice)
// are shared with the document and must not be modified.
func (d *Document[T]) Value() T {
	return d.value
}

// Persisted reports whether the document was read from text.
func (d *Document[T]) Persisted() bool {
	return d.raw != nil
}

// Lookup returns the raw TOML value at a dot-notation path, including keys that are not
// recognized, such as "storage.quota_mb".
func (d *Document[T]) Lookup(path string) (any, bool) {
	if d.raw == nil {
		return nil, false
	}
	return navigateToPath(d.raw, path)
}

// Serialize encodes the document as TOML.
func (d *Document[T]) Serialize() ([]byte, error) {
	return encodeTree(d.raw)
}

// set writes a value into the tree at a dot-notation path
func (d *Document[T]) set(path string, value any) {
	setNestedValue(d.tree(), path, value)
}

// remove deletes a dot-notation path from the tree
func (d *Document[T]) remove(path string) {
	if d.raw == nil {
		return
	}
	deleteNestedValue(d.raw, path)
}

func (d *Document[T]) tree() map[string]any {
	if d.raw == nil {
		d.raw = make(map[string]any)
	}
	return d.raw
}

// snapshot returns a deep copy of the tree that can be encoded without holding a lock
func (d *Document[T]) snapshot() map[string]any {
	if d.raw == nil {
		return make(map[string]any)
	}
	return cloneTree(d.raw).(map[string]any)
}

// checkpoint records the current value and tree; the returned func puts them back.
// The typed value is copied shallowly, which holds because writers replace reference
// types (the Bookmarks slice) instead of modifying them.
func (d *Document[T]) checkpoint() func() {
	value := d.value
	var raw map[string]any
	if d.raw != nil {
		raw = cloneTree(d.raw).(map[string]any)
	}
	return func() {
		d.value = value
		d.raw = raw
	}
}

// encodeTree marshals a TOML tree using BurntSushi/toml
func encodeTree(tree map[string]any) ([]byte, error) {
	if tree == nil {
		tree = make(map[string]any)
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(tree); err != nil {
		return nil, fmt.Errorf("failed to marshal document to TOML: %w", err)
	}
	return buf.Bytes(), nil
}
