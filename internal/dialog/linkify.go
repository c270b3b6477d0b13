package dialog

import (
	"regexp"
	"strings"
	"sync"
)

var (
	markerCacheMu sync.Mutex
	markerCache   = map[string]*regexp.Regexp{}
)

// markerPattern matches the marker word case-insensitively together with any
// trailing word characters, so inflected forms like "buradan" or "buradakı"
// stay linked. This is a heuristic stem match, not an exact token match.
func markerPattern(marker string) *regexp.Regexp {
	markerCacheMu.Lock()
	defer markerCacheMu.Unlock()
	if re, ok := markerCache[marker]; ok {
		return re
	}
	re := regexp.MustCompile(`(?i)(` + regexp.QuoteMeta(marker) + `[\p{L}\p{N}_]*)`)
	markerCache[marker] = re
	return re
}

// NormalizeLink prefixes a bare host with https:// so Telegram accepts it.
func NormalizeLink(link string) string {
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return "https://" + link
}

// Linkify wraps every occurrence of the marker word in body with an anchor to
// link. Empty marker or link leaves the body untouched.
func Linkify(body, marker, link string) string {
	if marker == "" || link == "" {
		return body
	}
	url := NormalizeLink(link)
	return markerPattern(marker).ReplaceAllString(body, `<a href="`+url+`">$1</a>`)
}
