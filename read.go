// FILE: lixenwraith/preferences/read.go
package preferences

import (
	"fmt"
	"math"
	"sort"

	"github.com/BurntSushi/toml"
)

// ParseResult is a document read from text plus the non-fatal problems found in it.
type ParseResult[T any] struct {
	Document *Document[T]
	Warnings []string
}

// parseContext collects warnings while fields are decoded one by one
type parseContext struct {
	warnings []string
}

func (p *parseContext) warn(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

// Keys understood by ReadPreferences. Everything else is preserved and reported.
var (
	preferenceKeys = map[string]bool{
		"graphics_backend":          true,
		"graphics_power_preference": true,
		"language":                  true,
		"output_device":             true,
		"mute":                      true,
		"volume":                    true,
		"log":                       true,
		"storage":                   true,
	}
	logKeys      = map[string]bool{"filename_pattern": true}
	storageKeys  = map[string]bool{"backend": true}
	bookmarkKeys = map[string]bool{"bookmark": true}
)

// ReadPreferences parses the content of preferences.toml.
//
// Only text that is not TOML at all fails (ErrInvalidDocument). Every field is decoded on
// its own: a field with the wrong type or an unsupported value keeps its default and adds
// one warning, and the rest of the file still loads. Missing fields use the defaults, with
// the language taken from the system locale.
func ReadPreferences(text string) (ParseResult[SavedPreferences], error) {
	return readPreferences(text, SystemLocale)
}

func readPreferences(text string, locale LocaleFunc) (ParseResult[SavedPreferences], error) {
	tree, err := parseTree(text)
	if err != nil {
		return ParseResult[SavedPreferences]{}, err
	}

	p := &parseContext{}
	result := NewSavedPreferences(locale)

	readField(p, tree, "", "graphics_backend", &result.GraphicsBackend)
	readField(p, tree, "", "graphics_power_preference", &result.GraphicsPowerPreference)
	readField(p, tree, "", "language", &result.Language)
	readField(p, tree, "", "output_device", &result.OutputDevice)
	readField(p, tree, "", "mute", &result.Mute)

	var volume float64
	if readField(p, tree, "", "volume", &volume) {
		if math.IsNaN(volume) || volume < 0 || volume > 1 {
			p.warn("Invalid volume: %v is outside the range 0.0 to 1.0", volume)
		} else {
			result.Volume = volume
		}
	}

	if log, ok := readTable(p, tree, "log"); ok {
		readField(p, log, "log.", "filename_pattern", &result.Log.FilenamePattern)
		warnUnknownKeys(p, log, "log.", logKeys)
	}
	if storage, ok := readTable(p, tree, "storage"); ok {
		readField(p, storage, "storage.", "backend", &result.Storage.Backend)
		warnUnknownKeys(p, storage, "storage.", storageKeys)
	}

	warnUnknownKeys(p, tree, "", preferenceKeys)

	return ParseResult[SavedPreferences]{
		Document: newParsedDocument(result, tree),
		Warnings: p.warnings,
	}, nil
}

// ReadBookmarks parses the content of bookmarks.toml, an array of [[bookmark]] tables.
//
// A bookmark with a missing or unparsable url is kept as an invalid entry so it is written
// back unchanged; a missing name is derived from the url. Entries that are not tables are
// dropped with a warning.
func ReadBookmarks(text string) (ParseResult[Bookmarks], error) {
	tree, err := parseTree(text)
	if err != nil {
		return ParseResult[Bookmarks]{}, err
	}

	p := &parseContext{}
	var result Bookmarks

	if raw, exists := tree["bookmark"]; exists {
		var tables []map[string]any

		switch entries := raw.(type) {
		case []map[string]any:
			tables = entries
		case []any:
			tables = make([]map[string]any, 0, len(entries))
			for _, entry := range entries {
				table, ok := entry.(map[string]any)
				if !ok {
					p.warn("Invalid bookmark: expected table but found %s", tomlTypeName(entry))
					continue
				}
				tables = append(tables, table)
			}
		default:
			p.warn("Invalid bookmark: expected array of tables but found %s", tomlTypeName(raw))
		}

		if tables != nil {
			result = make(Bookmarks, 0, len(tables))
			for _, table := range tables {
				result = append(result, readBookmark(p, table))
			}
			// Keep the tree parallel to the typed list so writers can index both
			tree["bookmark"] = tables
		}
	}

	warnUnknownKeys(p, tree, "", bookmarkKeys)

	return ParseResult[Bookmarks]{
		Document: newParsedDocument(result, tree),
		Warnings: p.warnings,
	}, nil
}

func readBookmark(p *parseContext, table map[string]any) Bookmark {
	var bookmark Bookmark

	var rawURL string
	if _, exists := table["url"]; !exists {
		p.warn("Missing bookmark.url")
	} else if readField(p, table, "bookmark.", "url", &rawURL) {
		if u, err := ParseBookmarkURL(rawURL); err == nil {
			bookmark.URL = u
		} else {
			p.warn("Invalid bookmark.url: %v", err)
		}
	}

	var name string
	if readField(p, table, "bookmark.", "name", &name) {
		bookmark.Name = name
	} else {
		bookmark.Name = ReadableName(bookmark.URL)
	}

	return bookmark
}

// parseTree decodes TOML text into a generic tree
func parseTree(text string) (map[string]any, error) {
	tree := make(map[string]any)
	if _, err := toml.Decode(text, &tree); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return tree, nil
}

// readField decodes table[key] into dst. It reports whether the key was present and
// valid; an invalid value adds one warning and leaves dst untouched. prefix only
// qualifies the key in the warning.
func readField[V any](p *parseContext, table map[string]any, prefix, key string, dst *V) bool {
	raw, exists := table[key]
	if !exists {
		return false
	}

	if err := decodeValue(raw, dst); err != nil {
		p.warn("Invalid %s%s: %v", prefix, key, err)
		return false
	}
	return true
}

// readTable returns the sub-table at key. A non-table value adds one warning.
func readTable(p *parseContext, table map[string]any, key string) (map[string]any, bool) {
	raw, exists := table[key]
	if !exists {
		return nil, false
	}

	sub, ok := raw.(map[string]any)
	if !ok {
		p.warn("Invalid %s: expected table but found %s", key, tomlTypeName(raw))
		return nil, false
	}
	return sub, true
}

// warnUnknownKeys reports keys not in known, in sorted order
func warnUnknownKeys(p *parseContext, table map[string]any, prefix string, known map[string]bool) {
	var unknown []string
	for key := range table {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)

	for _, key := range unknown {
		p.warn("Unknown key %s%s, it will be preserved", prefix, key)
	}
}
