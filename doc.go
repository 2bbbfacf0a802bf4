// FILE: lixenwraith/preferences/doc.go

// Package preferences provides the layered preference store of a desktop application:
// per-launch command-line overrides, preferences persisted in TOML, and compiled-in
// defaults, merged into a single thread-safe read surface.
//
// Features:
//   - Per-field priority: CLI override > preferences.toml > default
//   - Tolerant reading: one bad field degrades to its default with a warning,
//     the rest of the file still loads
//   - Lossless editing: unknown keys in the files survive a save
//   - Scoped writes: edits run under a lock, disk I/O runs after it is released
//   - Atomic saves through a temporary file and rename
//   - An ordered bookmark list in bookmarks.toml
//
// Quick Start:
//
//	opts, err := preferences.ParseOptions("myapp", os.Args[1:])
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	prefs, err := preferences.Load(opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	backend := prefs.GraphicsBackend() // --graphics wins over the file
//
//	err = prefs.WritePreferences(func(w *preferences.PreferencesWriter) {
//	    w.SetMute(true)
//	})
//
// Files (inside Options.ConfigDir):
//
//	# preferences.toml
//	graphics_backend = "vulkan"
//	graphics_power_preference = "low"
//	language = "de-DE"
//	output_device = "Speakers"
//	mute = false
//	volume = 0.8
//
//	[log]
//	filename_pattern = "with_timestamp"
//
//	[storage]
//	backend = "memory"
//
//	# bookmarks.toml
//	[[bookmark]]
//	url = "https://example.com/movie.swf"
//	name = "Example"
//
// Thread Safety:
// All operations are safe for concurrent use. The two documents have separate,
// non-reentrant locks: callbacks passed to Bookmarks, WritePreferences and
// WriteBookmarks must not call back into the store for the same document; doing so
// deadlocks, or panics when the store is built with Builder.WithOwnerChecks. A callback
// that panics leaves the document as it was before the call.
package preferences
