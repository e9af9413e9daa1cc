// Package scan extracts bracketed arXiv references from message text.
//
// Four independent grammars are applied to the same input: legacy and modern
// identifiers, citation requests, and author subscription requests.
package scan

import (
	"regexp"
	"strings"
)

var (
	// legacy category/number form, e.g. [hep-th/9901001].
	legacyPattern = regexp.MustCompile(`\[([\w-]+/\d{7})\]`)

	// modern numeric form with optional version, e.g. [2301.01234v2].
	modernPattern = regexp.MustCompile(`\[(\d{4}\.\d{4,5}(?:v\d+)?)\]`)

	// citation request wrapping either identifier form, e.g. [bib:2301.01234].
	citationPattern = regexp.MustCompile(`\[bib:([\w-]+/\d{7}|\d{4}\.\d{4,5}(?:v\d+)?)\]`)

	// author subscription request, non-greedy to the closing bracket.
	authorPattern = regexp.MustCompile(`\[au:([^\[\]]+?)\]`)
)

// Result holds the references found in one message. All three sets are
// deduplicated; IDs keeps first-discovery order so replies read in the order
// the identifiers appeared.
type Result struct {
	IDs         []string
	CitationIDs []string
	Authors     []string
}

// Empty reports whether nothing was found.
func (r Result) Empty() bool {
	return len(r.IDs) == 0 && len(r.CitationIDs) == 0 && len(r.Authors) == 0
}

// Scan applies all four grammars to text.
func Scan(text string) Result {
	var r Result
	r.IDs = appendMatches(r.IDs, legacyPattern, text, nil)
	r.IDs = appendMatches(r.IDs, modernPattern, text, nil)
	r.CitationIDs = appendMatches(nil, citationPattern, text, nil)
	r.Authors = appendMatches(nil, authorPattern, text, func(name string) string {
		return strings.TrimSpace(name)
	})
	return r
}

// appendMatches appends each first capture group of pattern in text to dst,
// skipping duplicates and values that normalize to empty.
func appendMatches(dst []string, pattern *regexp.Regexp, text string, normalize func(string) string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, v := range dst {
		seen[v] = struct{}{}
	}
	for _, m := range pattern.FindAllStringSubmatch(text, -1) {
		v := m[1]
		if normalize != nil {
			v = normalize(v)
		}
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}
