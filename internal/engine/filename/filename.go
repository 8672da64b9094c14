// Package filename derives an on-disk filename from a URL (spec.md
// §4.1). It never touches the network or a filesystem path — callers
// own ancestor-directory creation (internal/pathpolicy). No package
// strips filesystem-illegal characters from the derived name.
package filename

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Derive maps a URL to a filename with no path components. If the URL
// parses and its last path segment decodes to something non-empty
// (after stripping a trailing query suffix), that is returned verbatim
// — it is not sanitized for filesystem-illegal characters. Otherwise a
// synthetic name is generated from a folding checksum of the URL's code
// points and the current Unix time.
func Derive(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if name := lastSegment(u.Path); name != "" {
			return name
		}
	}
	return synthesize(rawURL)
}

func lastSegment(path string) string {
	idx := strings.LastIndex(path, "/")
	segment := path
	if idx != -1 {
		segment = path[idx+1:]
	}
	// A path ending in "/" has an empty final segment — it names a
	// directory, not a file — so it falls through to synthesis.
	if segment == "" {
		return ""
	}

	decoded, err := url.PathUnescape(segment)
	if err != nil {
		decoded = segment
	}

	if q := strings.IndexByte(decoded, '?'); q != -1 {
		decoded = decoded[:q]
	}

	return decoded
}

// synthesize builds download_<H>_<T> where H is a deterministic 32-bit
// folding sum over the URL's code points and T is the current Unix
// time in seconds.
func synthesize(rawURL string) string {
	var acc uint32
	for _, r := range rawURL {
		acc = acc + uint32(r)
	}
	return fmt.Sprintf("download_%d_%d", acc, time.Now().Unix())
}
