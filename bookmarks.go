// FILE: lixenwraith/preferences/bookmarks.go
package preferences

import (
	"fmt"
	"net/url"
	"path"
)

// Bookmark is a single saved entry. A bookmark whose URL could not be parsed is kept
// (so it is not lost on the next save) but reported as invalid.
type Bookmark struct {
	URL  *url.URL
	Name string
}

// Invalid reports whether the bookmark has no usable URL.
func (b Bookmark) Invalid() bool {
	return b.URL == nil
}

// Bookmarks is the ordered list from bookmarks.toml. Order is display order.
type Bookmarks []Bookmark

// HasUsable reports whether the list is non-empty and at least one entry is valid.
func (bs Bookmarks) HasUsable() bool {
	for _, b := range bs {
		if !b.Invalid() {
			return true
		}
	}
	return false
}

// ParseBookmarkURL parses a bookmark target. Only absolute URLs are accepted.
func ParseBookmarkURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("%q is not an absolute URL", raw)
	}
	return u, nil
}

// ReadableName derives a display name from a URL: the last path segment
// (e.g. "game.swf"), or the whole URL when the path has none.
func ReadableName(u *url.URL) string {
	if u == nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return u.String()
	}
	return base
}
