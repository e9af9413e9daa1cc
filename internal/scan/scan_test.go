package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanBothIdentifierForms(t *testing.T) {
	r := Scan("see [2301.01234] and [hep-th/9901001] for details")

	assert.ElementsMatch(t, []string{"2301.01234", "hep-th/9901001"}, r.IDs)
	assert.Empty(t, r.CitationIDs)
	assert.Empty(t, r.Authors)
}

func TestScanDeduplicatesKeepingDiscoveryOrder(t *testing.T) {
	r := Scan("[hep-th/9901001] then [2301.01234] then [hep-th/9901001] again")

	assert.Equal(t, []string{"hep-th/9901001", "2301.01234"}, r.IDs)
}

func TestScanModernWithVersion(t *testing.T) {
	r := Scan("[2301.01234v2]")

	assert.Equal(t, []string{"2301.01234v2"}, r.IDs)
}

func TestScanCitationRequests(t *testing.T) {
	r := Scan("[bib:2301.01234] and [bib:hep-th/9901001]")

	assert.Equal(t, []string{"2301.01234", "hep-th/9901001"}, r.CitationIDs)
	assert.Empty(t, r.IDs, "bib: forms are not regular identifiers")
}

func TestScanCitationDoesNotSuppressPlain(t *testing.T) {
	r := Scan("Check out [2301.01234] and [bib:2301.01234]")

	assert.Equal(t, []string{"2301.01234"}, r.IDs)
	assert.Equal(t, []string{"2301.01234"}, r.CitationIDs)
}

func TestScanAuthorRequestTrimsWhitespace(t *testing.T) {
	r := Scan("[au: Jane Doe ]")

	assert.Equal(t, []string{"Jane Doe"}, r.Authors)
}

func TestScanAuthorRequestDropsEmptyName(t *testing.T) {
	r := Scan("[au:   ]")

	assert.Empty(t, r.Authors)
}

func TestScanNonGreedyAuthorName(t *testing.T) {
	r := Scan("[au:Jane Doe] and [au:Bob Smith]")

	assert.Equal(t, []string{"Jane Doe", "Bob Smith"}, r.Authors)
}

func TestScanIgnoresUnbracketedText(t *testing.T) {
	r := Scan("2301.01234 and hep-th/9901001 and au:Jane")

	assert.True(t, r.Empty())
}

func TestScanRejectsMalformedIdentifiers(t *testing.T) {
	// Too few digits in the legacy number, too many in the modern prefix.
	r := Scan("[hep-th/12345] [12345.1234]")

	assert.True(t, r.Empty())
}
