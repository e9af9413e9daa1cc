package arxiv

import "strings"

// Paper is the normalized metadata for one resolved identifier. It is built
// fresh on every resolution and never persisted.
type Paper struct {
	// Title is the paper title with internal newlines folded to spaces.
	Title string

	// Authors are the display names in byline order.
	Authors []string

	// Abstract is the summary text with internal newlines folded to spaces.
	Abstract string

	// Link is the PDF link if the entry carries one, otherwise the
	// abstract page URL constructed from the identifier.
	Link string

	// Published is the submission date as YYYY-MM-DD.
	Published string
}

// AuthorsJoined returns the byline as a comma-separated string.
func (p *Paper) AuthorsJoined() string {
	return strings.Join(p.Authors, ", ")
}

// AuthorResult is one entry from a recent-publications search.
type AuthorResult struct {
	// ID is the arXiv identifier taken from the entry's canonical URL.
	ID string

	// Title is the paper title, or "Title unavailable".
	Title string

	// Published is the submission date as YYYY-MM-DD, or empty.
	Published string
}

// Atom feed structures for the arXiv API. The vendor extension namespace
// (http://arxiv.org/schemas/atom) only matters for fields we don't read, so
// plain element names are enough here.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
	Links     []atomLink   `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}
