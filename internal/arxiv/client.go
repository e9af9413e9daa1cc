// Package arxiv queries the arXiv Atom API for paper metadata and recent
// publications by author.
package arxiv

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://export.arxiv.org/api"

	// maxAuthorResults caps a recent-publications search.
	maxAuthorResults = 5

	// authorWindow is the trailing window an author search covers.
	authorWindow = 7 * 24 * time.Hour
)

// Placeholder values for entries with missing fields. Resolution degrades
// field by field instead of failing the whole paper.
const (
	noTitle    = "No title available"
	noAuthor   = "Author unknown"
	noAbstract = "No abstract available"

	searchNoTitle = "Title unavailable"
)

// ErrNotFound reports that the API answered but returned no entry for the
// requested identifier.
var ErrNotFound = errors.New("no entry for identifier")

// Client is a minimal arXiv API client. Every call issues exactly one
// request; there is no retry and no caching.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates an arXiv client. If baseURL is empty, the public export
// API is used.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchPaper resolves one identifier to a Paper. A transport failure,
// non-200 status, or empty response yields an error; the caller decides how
// loudly to report it.
func (c *Client) FetchPaper(ctx context.Context, id string) (*Paper, error) {
	query := c.baseURL + "/query?id_list=" + url.QueryEscape(id)

	feed, err := c.getFeed(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(feed.Entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	entry := feed.Entries[0]

	authors := make([]string, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}
	if len(authors) == 0 {
		authors = []string{noAuthor}
	}

	link := AbsURL(id)
	for _, l := range entry.Links {
		if l.Title == "pdf" {
			link = l.Href
			break
		}
	}

	published := datePrefix(entry.Published)
	if published == "" {
		published = time.Now().UTC().Format("2006-01-02")
	}

	return &Paper{
		Title:     foldOrDefault(entry.Title, noTitle),
		Authors:   authors,
		Abstract:  foldOrDefault(entry.Summary, noAbstract),
		Link:      link,
		Published: published,
	}, nil
}

// SearchAuthor returns an author's submissions from the last seven days,
// newest first, capped at five. The remote ordering is preserved as-is.
func (c *Client) SearchAuthor(ctx context.Context, author string) ([]AuthorResult, error) {
	now := time.Now().UTC()
	from := now.Add(-authorWindow)

	// A double quote cannot appear inside a quoted phrase, so strip any
	// before wrapping the name.
	name := strings.ReplaceAll(author, `"`, "")
	search := fmt.Sprintf(`au:"%s" AND submittedDate:[%s* TO %s*]`,
		name, from.Format("20060102"), now.Format("20060102"))

	params := url.Values{}
	params.Set("search_query", search)
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")
	params.Set("max_results", strconv.Itoa(maxAuthorResults))

	feed, err := c.getFeed(ctx, c.baseURL+"/query?"+params.Encode())
	if err != nil {
		return nil, err
	}

	results := make([]AuthorResult, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		results = append(results, AuthorResult{
			ID:        lastPathSegment(entry.ID),
			Title:     foldOrDefault(entry.Title, searchNoTitle),
			Published: datePrefix(entry.Published),
		})
	}
	return results, nil
}

func (c *Client) getFeed(ctx context.Context, endpoint string) (*atomFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned HTTP %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parse arxiv response: %w", err)
	}
	return &feed, nil
}

// AbsURL returns the abstract page URL for an identifier.
func AbsURL(id string) string {
	return "https://arxiv.org/abs/" + id
}

// PDFURL returns the PDF URL for an identifier.
func PDFURL(id string) string {
	return "https://arxiv.org/pdf/" + id
}

// foldOrDefault collapses newlines to spaces and trims; empty text degrades
// to the given placeholder.
func foldOrDefault(s, placeholder string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	if s == "" {
		return placeholder
	}
	return s
}

// datePrefix returns the YYYY-MM-DD prefix of an ISO timestamp, or empty.
func datePrefix(timestamp string) string {
	if len(timestamp) < 10 {
		return ""
	}
	return timestamp[:10]
}

// lastPathSegment pulls the identifier from an entry's canonical URL
// (e.g. "http://arxiv.org/abs/2301.01234v1" -> "2301.01234v1").
func lastPathSegment(idURL string) string {
	if idx := strings.LastIndex(idURL, "/"); idx >= 0 {
		return idURL[idx+1:]
	}
	return idURL
}
