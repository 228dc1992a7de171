package qbittorrent

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// joinHashes encodes a set of torrent hashes the way the Web API expects
// them: a single "|"-separated string. A one-element slice passes through
// unchanged, which is how single-hash calls are expressed.
func joinHashes(hashes []string) string {
	return strings.Join(hashes, "|")
}

// joinList is the generic form of joinHashes for the other delimited wire
// fields: tags use ",", tracker URLs and category names use "\n".
func joinList(values []string, sep string) string {
	return strings.Join(values, sep)
}

// joinURL concatenates path segments into a URL, collapsing exactly one
// layer of redundant slashes between adjacent segments. Empty segments are
// skipped; if every segment is empty the result is "".
func joinURL(segments ...string) string {
	var out string
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if out == "" {
			out = seg
			continue
		}
		out = strings.TrimSuffix(out, "/") + "/" + strings.TrimPrefix(seg, "/")
	}
	return out
}

// CompareVersions reports whether version string a orders strictly after b
// under numeric-aware collation, so "5.10.0" ranks above "5.2.0". It is a
// total function: arbitrary strings compare without error.
func CompareVersions(a, b string) bool {
	return collate.New(language.Und, collate.Numeric).CompareString(a, b) > 0
}

// trimVersion normalizes a server version string for comparison against the
// v5 baseline: the optional leading "v" and any build suffix after the first
// hyphen (e.g. "v5.0.0-rc1") are removed.
func trimVersion(v string) string {
	v = strings.TrimPrefix(v, "v")
	if i := strings.IndexByte(v, '-'); i >= 0 {
		v = v[:i]
	}
	return v
}
