// FILE: lixenwraith/preferences/resolve.go
package preferences

// resolve applies the override rule for a single field: a per-launch value wins,
// otherwise the persisted value is used. persisted is only called when needed, so a
// present override never touches the document lock.
func resolve[V any](override *V, persisted func() V) V {
	if override != nil {
		return *override
	}
	return persisted()
}
