package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/euronext-listings/internal/listing"
	"golang.org/x/net/html"
)

const (
	SourceURL = "https://live.euronext.com/nb/ipo-showcase"
	UserAgent = "euronext-listings/1.0 (github.com/pfrederiksen/euronext-listings)"
	Timeout   = 30 * time.Second
)

// ErrUnexpectedStatus is returned for any non-2xx response.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// Scraper handles fetching and parsing the IPO showcase page
type Scraper struct {
	client *http.Client
	url    string
}

// New creates a Scraper for the given page address.
func New(sourceURL string) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		url: sourceURL,
	}
}

// URL returns the page address the scraper reads from.
func (s *Scraper) URL() string {
	return s.url
}

// Fetch downloads and parses the page.
func (s *Scraper) Fetch(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return parseDocument(resp.Body)
}

// FetchRows fetches the page and returns its candidate rows.
func (s *Scraper) FetchRows(ctx context.Context) (iter.Seq[listing.Row], error) {
	doc, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(s.url)
	if err != nil {
		return nil, fmt.Errorf("parsing source URL: %w", err)
	}

	return ExtractRows(doc, base), nil
}

func parseDocument(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// ExtractRows lazily yields a Row for every <tr> with at least six <td> cells
// whose first cell is a dd/mm/yyyy date. Rows come out in document order.
func ExtractRows(doc *goquery.Document, base *url.URL) iter.Seq[listing.Row] {
	return func(yield func(listing.Row) bool) {
		doc.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
			row, ok := extractRow(tr, base)
			if !ok {
				return true
			}
			return yield(row)
		})
	}
}

// extractRow turns one <tr> into a Row, or reports false if it doesn't qualify
func extractRow(tr *goquery.Selection, base *url.URL) (listing.Row, bool) {
	cells := tr.Find("td").Map(func(_ int, td *goquery.Selection) string {
		return cellText(td)
	})

	if len(cells) < listing.CellCount {
		return listing.Row{}, false
	}
	if !listing.IsDate(cells[0]) {
		return listing.Row{}, false
	}

	return listing.NewRow(cells, rowLink(tr, base))
}

// cellText joins the non-blank text segments of a cell with single spaces.
// Runs of whitespace inside a segment collapse to one space.
func cellText(sel *goquery.Selection) string {
	var segments []string
	for _, n := range sel.Nodes {
		segments = appendText(segments, n)
	}
	return strings.Join(segments, " ")
}

func appendText(segments []string, n *html.Node) []string {
	if n.Type == html.TextNode {
		if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
			segments = append(segments, text)
		}
		return segments
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return segments
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		segments = appendText(segments, c)
	}
	return segments
}

// rowLink returns the first href in the row resolved against base.
// A missing link, or one that doesn't parse as a URL, yields nil.
func rowLink(tr *goquery.Selection, base *url.URL) *string {
	href, ok := tr.Find("a[href]").First().Attr("href")
	if !ok {
		return nil
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil
	}

	resolved := base.ResolveReference(ref).String()
	return &resolved
}
