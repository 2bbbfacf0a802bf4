// FILE: lixenwraith/preferences/locale.go
package preferences

import (
	"strings"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
)

// LocaleFunc reports the host locale string, if any.
type LocaleFunc func() (string, bool)

// hostLocale queries the operating system: the POSIX locale variables on Unix-like
// systems, the user defaults on macOS, GetUserDefaultLocaleName on Windows.
var hostLocale = locale.GetLocale

// SystemLocale returns the host locale as a BCP 47 string. POSIX names are normalized,
// e.g. "de_DE.UTF-8@euro" becomes "de-DE"; the "C" and "POSIX" locales count as unset.
func SystemLocale() (string, bool) {
	value, err := hostLocale()
	if err != nil {
		return "", false
	}
	return normalizeLocale(value)
}

// normalizeLocale strips the codeset and modifier from a POSIX locale name
func normalizeLocale(value string) (string, bool) {
	if i := strings.IndexAny(value, ".@"); i >= 0 {
		value = value[:i]
	}
	if value == "" || value == "C" || value == "POSIX" {
		return "", false
	}
	return strings.ReplaceAll(value, "_", "-"), true
}

func defaultLanguage(provider LocaleFunc) language.Tag {
	if provider == nil {
		return FallbackLanguage
	}
	value, ok := provider()
	if !ok {
		return FallbackLanguage
	}
	tag, err := language.Parse(value)
	if err != nil {
		return FallbackLanguage
	}
	return tag
}
