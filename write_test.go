// FILE: lixenwraith/preferences/write_test.go
package preferences

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

// TestPreferencesWriter tests the setters against both the typed value and the tree
func TestPreferencesWriter(t *testing.T) {
	t.Run("AllSetters", func(t *testing.T) {
		doc := NewDocument(NewSavedPreferences(nil))
		w := &PreferencesWriter{doc: doc}

		w.SetGraphicsBackend(GraphicsBackendDX12)
		w.SetGraphicsPowerPreference(PowerPreferenceLow)
		w.SetLanguage(language.MustParse("pt-BR"))
		w.SetOutputDevice("Headphones")
		w.SetMute(true)
		w.SetVolume(0.4)
		w.SetLogFilenamePattern(FilenamePatternWithTimestamp)
		w.SetStorageBackend(StorageBackendMemory)
		w.close()

		prefs := doc.Value()
		assert.Equal(t, GraphicsBackendDX12, prefs.GraphicsBackend)
		assert.Equal(t, PowerPreferenceLow, prefs.GraphicsPowerPreference)
		assert.Equal(t, "pt-BR", prefs.Language.String())
		assert.Equal(t, "Headphones", prefs.OutputDevice)
		assert.True(t, prefs.Mute)
		assert.Equal(t, 0.4, prefs.Volume)
		assert.Equal(t, FilenamePatternWithTimestamp, prefs.Log.FilenamePattern)
		assert.Equal(t, StorageBackendMemory, prefs.Storage.Backend)

		// Reading the output back yields the same values without warnings
		result, err := readPreferences(string(mustSerialize(t, doc)), nil)
		require.NoError(t, err)
		assert.Empty(t, result.Warnings)
		assert.Equal(t, prefs, result.Document.Value())
	})

	t.Run("OnlyWrittenKeysSerialized", func(t *testing.T) {
		doc := NewDocument(NewSavedPreferences(nil))
		w := &PreferencesWriter{doc: doc}
		w.SetMute(true)

		assert.Equal(t, map[string]any{"mute": true}, decodeTOML(t, mustSerialize(t, doc)))
	})

	t.Run("EmptyOutputDeviceRemovesKey", func(t *testing.T) {
		result, err := readPreferences(`output_device = "Speakers"`, nil)
		require.NoError(t, err)

		w := &PreferencesWriter{doc: result.Document}
		w.SetOutputDevice("")

		tree := decodeTOML(t, mustSerialize(t, result.Document))
		assert.NotContains(t, tree, "output_device")
		assert.Equal(t, "", result.Document.Value().OutputDevice)
	})

	t.Run("VolumeClamped", func(t *testing.T) {
		doc := NewDocument(NewSavedPreferences(nil))
		w := &PreferencesWriter{doc: doc}

		w.SetVolume(1.5)
		assert.Equal(t, 1.0, w.Preferences().Volume)

		w.SetVolume(-3)
		assert.Equal(t, 0.0, w.Preferences().Volume)

		w.SetVolume(math.NaN())
		assert.Equal(t, 0.0, w.Preferences().Volume)
	})

	t.Run("NestedTablesKeepSiblings", func(t *testing.T) {
		result, err := readPreferences(`
[log]
filename_pattern = "single_file"
level = "trace"
`, nil)
		require.NoError(t, err)

		w := &PreferencesWriter{doc: result.Document}
		w.SetLogFilenamePattern(FilenamePatternWithTimestamp)

		log := decodeTOML(t, mustSerialize(t, result.Document))["log"].(map[string]any)
		assert.Equal(t, "with_timestamp", log["filename_pattern"])
		assert.Equal(t, "trace", log["level"])
	})

	t.Run("PanicsOutsideScope", func(t *testing.T) {
		w := &PreferencesWriter{doc: NewDocument(NewSavedPreferences(nil))}
		w.close()

		assert.Panics(t, func() { w.SetMute(true) })
		assert.Panics(t, func() { w.Preferences() })
	})

	t.Run("PanicsOnUnnamedEnum", func(t *testing.T) {
		w := &PreferencesWriter{doc: NewDocument(NewSavedPreferences(nil))}
		assert.Panics(t, func() { w.SetGraphicsBackend(GraphicsBackend(42)) })
	})
}

// TestParseSetting tests key/value edits as accepted by the command line tool
func TestParseSetting(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(t *testing.T, prefs SavedPreferences)
	}{
		{"graphics_backend", "Metal", func(t *testing.T, p SavedPreferences) {
			assert.Equal(t, GraphicsBackendMetal, p.GraphicsBackend)
		}},
		{"graphics_power_preference", "low", func(t *testing.T, p SavedPreferences) {
			assert.Equal(t, PowerPreferenceLow, p.GraphicsPowerPreference)
		}},
		{"language", "es-MX", func(t *testing.T, p SavedPreferences) {
			assert.Equal(t, "es-MX", p.Language.String())
		}},
		{"output_device", "Line Out", func(t *testing.T, p SavedPreferences) {
			assert.Equal(t, "Line Out", p.OutputDevice)
		}},
		{"mute", "true", func(t *testing.T, p SavedPreferences) {
			assert.True(t, p.Mute)
		}},
		{"volume", "0.3", func(t *testing.T, p SavedPreferences) {
			assert.Equal(t, 0.3, p.Volume)
		}},
		{"log.filename_pattern", "with_timestamp", func(t *testing.T, p SavedPreferences) {
			assert.Equal(t, FilenamePatternWithTimestamp, p.Log.FilenamePattern)
		}},
		{"storage.backend", "memory", func(t *testing.T, p SavedPreferences) {
			assert.Equal(t, StorageBackendMemory, p.Storage.Backend)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			setting, err := ParseSetting(tt.key, tt.value)
			require.NoError(t, err)

			w := &PreferencesWriter{doc: NewDocument(NewSavedPreferences(nil))}
			setting(w)
			tt.check(t, w.Preferences())
		})
	}

	t.Run("Rejected", func(t *testing.T) {
		_, err := ParseSetting("graphics_backend", "software")
		assert.ErrorIs(t, err, ErrUnsupportedValue)

		_, err = ParseSetting("volume", "2")
		assert.Error(t, err)

		_, err = ParseSetting("mute", "maybe")
		assert.Error(t, err)

		_, err = ParseSetting("theme", "dark")
		assert.Error(t, err)
	})
}

// TestBookmarksWriter tests list edits and preservation of per-entry keys
func TestBookmarksWriter(t *testing.T) {
	read := func(t *testing.T) *Document[Bookmarks] {
		t.Helper()
		result, err := ReadBookmarks(`
[[bookmark]]
url = "https://example.com/one.swf"
name = "One"
icon = "star"

[[bookmark]]
url = "https://example.com/two.swf"
name = "Two"
`)
		require.NoError(t, err)
		return result.Document
	}

	t.Run("Add", func(t *testing.T) {
		doc := read(t)
		w := &BookmarksWriter{doc: doc}
		w.Add(Bookmark{URL: mustURL(t, "https://example.com/three.swf"), Name: "Three"})
		w.Add(Bookmark{Name: "Nowhere"})

		require.Equal(t, 4, w.Len())
		assert.Equal(t, "Three", w.Bookmarks()[2].Name)

		tables := decodeTOML(t, mustSerialize(t, doc))["bookmark"].([]map[string]any)
		require.Len(t, tables, 4)
		assert.Equal(t, "https://example.com/three.swf", tables[2]["url"])
		assert.NotContains(t, tables[3], "url")
		assert.Equal(t, "star", tables[0]["icon"])
	})

	t.Run("Remove", func(t *testing.T) {
		doc := read(t)
		before := doc.Value()

		w := &BookmarksWriter{doc: doc}
		w.Remove(0)

		require.Equal(t, 1, w.Len())
		assert.Equal(t, "Two", w.Bookmarks()[0].Name)

		// Lists handed out earlier are not modified
		assert.Equal(t, "One", before[0].Name)

		tables := decodeTOML(t, mustSerialize(t, doc))["bookmark"].([]map[string]any)
		require.Len(t, tables, 1)
		assert.Equal(t, "Two", tables[0]["name"])
	})

	t.Run("RemoveLast", func(t *testing.T) {
		doc := read(t)
		w := &BookmarksWriter{doc: doc}
		w.Remove(1)
		w.Remove(0)

		assert.Empty(t, w.Bookmarks())
		assert.NotContains(t, decodeTOML(t, mustSerialize(t, doc)), "bookmark")
	})

	t.Run("SetURLAndName", func(t *testing.T) {
		doc := read(t)
		w := &BookmarksWriter{doc: doc}
		w.SetURL(0, mustURL(t, "https://example.net/moved.swf"))
		w.SetName(0, "Moved")
		w.SetURL(1, nil)

		bookmarks := w.Bookmarks()
		assert.Equal(t, "https://example.net/moved.swf", bookmarks[0].URL.String())
		assert.Equal(t, "Moved", bookmarks[0].Name)
		assert.True(t, bookmarks[1].Invalid())

		tables := decodeTOML(t, mustSerialize(t, doc))["bookmark"].([]map[string]any)
		assert.Equal(t, "https://example.net/moved.swf", tables[0]["url"])
		assert.Equal(t, "Moved", tables[0]["name"])
		assert.Equal(t, "star", tables[0]["icon"])
		assert.NotContains(t, tables[1], "url")
	})

	t.Run("NeverPersisted", func(t *testing.T) {
		doc := NewDocument[Bookmarks](nil)
		w := &BookmarksWriter{doc: doc}
		w.Add(Bookmark{URL: mustURL(t, "https://example.com/a.swf"), Name: "A"})

		result, err := ReadBookmarks(string(mustSerialize(t, doc)))
		require.NoError(t, err)
		assert.Empty(t, result.Warnings)
		require.Len(t, result.Document.Value(), 1)
		assert.Equal(t, "A", result.Document.Value()[0].Name)
	})

	t.Run("IndexOutOfRange", func(t *testing.T) {
		w := &BookmarksWriter{doc: read(t)}
		assert.Panics(t, func() { w.Remove(2) })
		assert.Panics(t, func() { w.SetName(-1, "x") })
		assert.Equal(t, 2, w.Len())
	})

	t.Run("PanicsOutsideScope", func(t *testing.T) {
		w := &BookmarksWriter{doc: read(t)}
		w.close()
		assert.Panics(t, func() { w.Len() })
	})
}
