// Package cite renders resolved papers as BibTeX citation blocks.
package cite

import (
	"fmt"
	"strings"

	"github.com/arxiver/arxiver/internal/arxiv"
)

var keyReplacer = strings.NewReplacer("/", "_", ".", "_")

// Key sanitizes an arXiv identifier into a BibTeX citation key by replacing
// "/" and "." with "_".
func Key(id string) string {
	return keyReplacer.Replace(id)
}

// Year extracts the publication year from a YYYY-MM-DD date: everything
// before the first hyphen.
func Year(published string) string {
	if idx := strings.Index(published, "-"); idx >= 0 {
		return published[:idx]
	}
	return published
}

// Format renders a paper as a fenced BibTeX block.
func Format(id string, paper *arxiv.Paper) string {
	authors := strings.ReplaceAll(paper.AuthorsJoined(), ", ", " and ")

	var b strings.Builder
	b.WriteString("```bibtex\n")
	fmt.Fprintf(&b, "@article{%s,\n", Key(id))
	fmt.Fprintf(&b, "  author = {%s},\n", authors)
	fmt.Fprintf(&b, "  title = {%s},\n", paper.Title)
	fmt.Fprintf(&b, "  journal = {arXiv preprint arXiv:%s},\n", id)
	fmt.Fprintf(&b, "  year = {%s},\n", Year(paper.Published))
	fmt.Fprintf(&b, "  url = {%s},\n", paper.Link)
	b.WriteString("}\n```")
	return b.String()
}

// Unavailable is the reply for an identifier that could not be resolved into
// a citation.
func Unavailable(id string) string {
	return fmt.Sprintf("Could not generate a citation for [%s].", id)
}
