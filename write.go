// FILE: lixenwraith/preferences/write.go
package preferences

import (
	"encoding"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// PreferencesWriter edits the preferences document inside a GlobalPreferences.WritePreferences
// callback. Every setter updates the typed value and the TOML tree together. The writer is
// only valid for the duration of the callback.
type PreferencesWriter struct {
	doc *Document[SavedPreferences]
}

func (w *PreferencesWriter) document() *Document[SavedPreferences] {
	if w.doc == nil {
		panic("preferences: PreferencesWriter used outside of its write scope")
	}
	return w.doc
}

func (w *PreferencesWriter) close() {
	w.doc = nil
}

// Preferences returns the values as they are at this point of the write.
func (w *PreferencesWriter) Preferences() SavedPreferences {
	return w.document().value
}

// SetGraphicsBackend sets graphics_backend. It panics on a value without a name.
func (w *PreferencesWriter) SetGraphicsBackend(backend GraphicsBackend) {
	doc := w.document()
	doc.set("graphics_backend", mustText(backend))
	doc.value.GraphicsBackend = backend
}

// SetGraphicsPowerPreference sets graphics_power_preference.
func (w *PreferencesWriter) SetGraphicsPowerPreference(preference PowerPreference) {
	doc := w.document()
	doc.set("graphics_power_preference", mustText(preference))
	doc.value.GraphicsPowerPreference = preference
}

// SetLanguage sets the UI language.
func (w *PreferencesWriter) SetLanguage(tag language.Tag) {
	doc := w.document()
	doc.set("language", tag.String())
	doc.value.Language = tag
}

// SetOutputDevice sets the audio output device. An empty name removes the key,
// returning to the system default device.
func (w *PreferencesWriter) SetOutputDevice(name string) {
	doc := w.document()
	if name == "" {
		doc.remove("output_device")
	} else {
		doc.set("output_device", name)
	}
	doc.value.OutputDevice = name
}

// SetMute sets the mute flag.
func (w *PreferencesWriter) SetMute(mute bool) {
	doc := w.document()
	doc.set("mute", mute)
	doc.value.Mute = mute
}

// SetVolume sets the output volume, clamped to [0, 1]. NaN is ignored.
func (w *PreferencesWriter) SetVolume(volume float64) {
	if math.IsNaN(volume) {
		return
	}
	volume = min(max(volume, 0), 1)

	doc := w.document()
	doc.set("volume", volume)
	doc.value.Volume = volume
}

// SetLogFilenamePattern sets log.filename_pattern.
func (w *PreferencesWriter) SetLogFilenamePattern(pattern FilenamePattern) {
	doc := w.document()
	doc.set("log.filename_pattern", mustText(pattern))
	doc.value.Log.FilenamePattern = pattern
}

// SetStorageBackend sets storage.backend.
func (w *PreferencesWriter) SetStorageBackend(backend StorageBackend) {
	doc := w.document()
	doc.set("storage.backend", mustText(backend))
	doc.value.Storage.Backend = backend
}

// Setting is a single parsed edit that can be applied inside a write.
type Setting func(w *PreferencesWriter)

// ParseSetting parses a "key value" pair as found in preferences.toml into a Setting,
// e.g. ("storage.backend", "memory") or ("output_device", "").
func ParseSetting(key, value string) (Setting, error) {
	switch key {
	case "graphics_backend":
		backend, err := ParseGraphicsBackend(value)
		if err != nil {
			return nil, err
		}
		return func(w *PreferencesWriter) { w.SetGraphicsBackend(backend) }, nil

	case "graphics_power_preference":
		preference, err := ParsePowerPreference(value)
		if err != nil {
			return nil, err
		}
		return func(w *PreferencesWriter) { w.SetGraphicsPowerPreference(preference) }, nil

	case "language":
		tag, err := language.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("invalid language identifier %q: %w", value, err)
		}
		return func(w *PreferencesWriter) { w.SetLanguage(tag) }, nil

	case "output_device":
		return func(w *PreferencesWriter) { w.SetOutputDevice(value) }, nil

	case "mute":
		mute, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("cannot convert string %q to bool for %s: %w", value, key, err)
		}
		return func(w *PreferencesWriter) { w.SetMute(mute) }, nil

	case "volume":
		volume, err := parseVolume(value)
		if err != nil {
			return nil, err
		}
		return func(w *PreferencesWriter) { w.SetVolume(volume) }, nil

	case "log.filename_pattern":
		pattern, err := ParseFilenamePattern(value)
		if err != nil {
			return nil, err
		}
		return func(w *PreferencesWriter) { w.SetLogFilenamePattern(pattern) }, nil

	case "storage.backend":
		backend, err := ParseStorageBackend(value)
		if err != nil {
			return nil, err
		}
		return func(w *PreferencesWriter) { w.SetStorageBackend(backend) }, nil
	}

	return nil, fmt.Errorf("unknown preference %q", key)
}

// BookmarksWriter edits the bookmark list inside a GlobalPreferences.WriteBookmarks
// callback. Indexes follow display order. Out of range indexes panic, like slice indexing.
type BookmarksWriter struct {
	doc *Document[Bookmarks]
}

func (w *BookmarksWriter) document() *Document[Bookmarks] {
	if w.doc == nil {
		panic("preferences: BookmarksWriter used outside of its write scope")
	}
	return w.doc
}

func (w *BookmarksWriter) close() {
	w.doc = nil
}

// Bookmarks returns the list as it is at this point of the write.
func (w *BookmarksWriter) Bookmarks() Bookmarks {
	return w.document().value
}

// Len returns the number of bookmarks.
func (w *BookmarksWriter) Len() int {
	return len(w.document().value)
}

// Add appends a bookmark. A bookmark without a URL is stored without a url key.
func (w *BookmarksWriter) Add(bookmark Bookmark) {
	doc := w.document()
	tables := w.tables()

	table := make(map[string]any)
	if bookmark.URL != nil {
		table["url"] = bookmark.URL.String()
	}
	table["name"] = bookmark.Name

	w.store(append(slices.Clone(doc.value), bookmark), append(tables, table))
}

// Remove deletes the bookmark at index.
func (w *BookmarksWriter) Remove(index int) {
	doc := w.document()
	w.checkIndex(index)

	tables := w.tables()
	w.store(slices.Delete(slices.Clone(doc.value), index, index+1), slices.Delete(tables, index, index+1))
}

// SetURL replaces the URL of the bookmark at index. A nil URL marks it invalid.
func (w *BookmarksWriter) SetURL(index int, u *url.URL) {
	doc := w.document()
	w.checkIndex(index)

	tables := w.tables()
	if u == nil {
		delete(tables[index], "url")
	} else {
		tables[index]["url"] = u.String()
	}

	value := slices.Clone(doc.value)
	value[index].URL = u
	w.store(value, tables)
}

// SetName renames the bookmark at index.
func (w *BookmarksWriter) SetName(index int, name string) {
	doc := w.document()
	w.checkIndex(index)

	tables := w.tables()
	tables[index]["name"] = name

	value := slices.Clone(doc.value)
	value[index].Name = name
	w.store(value, tables)
}

func (w *BookmarksWriter) checkIndex(index int) {
	if n := len(w.doc.value); index < 0 || index >= n {
		panic(fmt.Sprintf("preferences: bookmark index %d out of range [0:%d]", index, n))
	}
}

// tables returns the [[bookmark]] tables, rebuilding them from the typed list if the tree
// has none that line up with it
func (w *BookmarksWriter) tables() []map[string]any {
	doc := w.doc
	if tables, ok := doc.tree()["bookmark"].([]map[string]any); ok && len(tables) == len(doc.value) {
		return tables
	}

	tables := make([]map[string]any, len(doc.value))
	for i, bookmark := range doc.value {
		table := map[string]any{"name": bookmark.Name}
		if bookmark.URL != nil {
			table["url"] = bookmark.URL.String()
		}
		tables[i] = table
	}
	return tables
}

// store commits a new list; the typed value is copied on write so slices handed out
// earlier are never modified
func (w *BookmarksWriter) store(value Bookmarks, tables []map[string]any) {
	if len(tables) == 0 {
		w.doc.remove("bookmark")
	} else {
		w.doc.set("bookmark", tables)
	}
	w.doc.value = value
}

// mustText returns the canonical name of an enum value
func mustText(v encoding.TextMarshaler) string {
	text, err := v.MarshalText()
	if err != nil {
		panic(fmt.Sprintf("preferences: %v", err))
	}
	return string(text)
}

// parseVolume parses a volume in [0, 1]
func parseVolume(s string) (float64, error) {
	volume, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("cannot convert string %q to volume: %w", s, err)
	}
	if math.IsNaN(volume) || volume < 0 || volume > 1 {
		return 0, fmt.Errorf("volume %v is outside the range 0.0 to 1.0", volume)
	}
	return volume, nil
}
