package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/euronext-listings/internal/listing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "https://live.euronext.com/nb/ipo-showcase"

func extract(t *testing.T, markup string) []listing.Row {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)

	base, err := url.Parse(testBase)
	require.NoError(t, err)

	return slices.Collect(ExtractRows(doc, base))
}

func TestExtractRows_Fixture(t *testing.T) {
	data, err := os.ReadFile("testdata/ipo_showcase.html")
	require.NoError(t, err)

	rows := extract(t, string(data))
	require.Len(t, rows, 4)

	acmeURL := "https://live.euronext.com/nb/listview/company/acme-as"
	assert.Equal(t, listing.Row{
		Date:     "05/06/2025",
		Company:  "Acme AS",
		Ticker:   "ACME",
		ISIN:     "NO0001",
		Location: "Oslo",
		Market:   "Oslo Børs",
		URL:      &acmeURL,
	}, rows[0])

	assert.Equal(t, "Stockholm", rows[1].Location)
	require.NotNil(t, rows[1].URL)
	assert.Equal(t, "https://live.euronext.com/nb/listview/company/nordic-ab", *rows[1].URL)

	assert.Equal(t, "Fjord Shipping ASA", rows[2].Company)
	assert.Equal(t, "Euronext Growth Oslo", rows[2].Market)
	assert.Nil(t, rows[2].URL)

	require.NotNil(t, rows[3].URL)
	assert.Equal(t, "https://live.euronext.com/nb/old-co", *rows[3].URL)
}

func TestExtractRows_EdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantCount int
		check     func(*testing.T, []listing.Row)
	}{
		{
			name:      "four cells discarded",
			html:      `<table><tr><td>05/06/2025</td><td>Acme AS</td><td>ACME</td><td>NO0001</td></tr></table>`,
			wantCount: 0,
		},
		{
			name:      "five cells discarded",
			html:      `<table><tr><td>05/06/2025</td><td>Acme AS</td><td>ACME</td><td>NO0001</td><td>Oslo</td></tr></table>`,
			wantCount: 0,
		},
		{
			name:      "header cells don't count",
			html:      `<table><tr><th>05/06/2025</th><th>a</th><th>b</th><th>c</th><th>d</th><th>e</th></tr></table>`,
			wantCount: 0,
		},
		{
			name:      "short year discarded",
			html:      `<table><tr><td>05/06/25</td><td>Acme AS</td><td>ACME</td><td>NO0001</td><td>Oslo</td><td>Oslo Børs</td></tr></table>`,
			wantCount: 0,
		},
		{
			name:      "text around date discarded",
			html:      `<table><tr><td>Listed 05/06/2025</td><td>Acme AS</td><td>ACME</td><td>NO0001</td><td>Oslo</td><td>Oslo Børs</td></tr></table>`,
			wantCount: 0,
		},
		{
			name:      "padded date accepted",
			html:      `<table><tr><td>  05/06/2025 </td><td>Acme AS</td><td>ACME</td><td>NO0001</td><td>Oslo</td><td>Oslo Børs</td></tr></table>`,
			wantCount: 1,
			check: func(t *testing.T, rows []listing.Row) {
				assert.Equal(t, "05/06/2025", rows[0].Date)
			},
		},
		{
			name: "extra cells ignored",
			html: `<table><tr><td>05/06/2025</td><td>Acme AS</td><td>ACME</td><td>NO0001</td><td>Oslo</td><td>Oslo Børs</td>` +
				`<td><a href="/extra">More</a></td></tr></table>`,
			wantCount: 1,
			check: func(t *testing.T, rows []listing.Row) {
				assert.Equal(t, "Oslo Børs", rows[0].Market)
				require.NotNil(t, rows[0].URL)
				assert.Equal(t, "https://live.euronext.com/extra", *rows[0].URL)
			},
		},
		{
			name: "first link wins",
			html: `<table><tr><td>05/06/2025</td><td><a href="/first">Acme AS</a></td><td><a href="/second">ACME</a></td>` +
				`<td>NO0001</td><td>Oslo</td><td>Oslo Børs</td></tr></table>`,
			wantCount: 1,
			check: func(t *testing.T, rows []listing.Row) {
				require.NotNil(t, rows[0].URL)
				assert.Equal(t, "https://live.euronext.com/first", *rows[0].URL)
			},
		},
		{
			name: "anchor without href skipped",
			html: `<table><tr><td>05/06/2025</td><td><a name="acme">Acme AS</a></td><td><a href="?isin=NO0001">ACME</a></td>` +
				`<td>NO0001</td><td>Oslo</td><td>Oslo Børs</td></tr></table>`,
			wantCount: 1,
			check: func(t *testing.T, rows []listing.Row) {
				require.NotNil(t, rows[0].URL)
				assert.Equal(t, "https://live.euronext.com/nb/ipo-showcase?isin=NO0001", *rows[0].URL)
			},
		},
		{
			name:      "no link yields nil URL",
			html:      `<table><tr><td>05/06/2025</td><td>Acme AS</td><td>ACME</td><td>NO0001</td><td>Oslo</td><td>Oslo Børs</td></tr></table>`,
			wantCount: 1,
			check: func(t *testing.T, rows []listing.Row) {
				assert.Nil(t, rows[0].URL)
			},
		},
		{
			name: "entities decoded and segments joined",
			html: `<table><tr><td>05/06/2025</td><td><b>Smith</b>&amp;<i>Sons</i></td><td>S&amp;S</td>` +
				`<td>NO0001</td><td>Oslo</td><td>Oslo Børs</td></tr></table>`,
			wantCount: 1,
			check: func(t *testing.T, rows []listing.Row) {
				assert.Equal(t, "Smith & Sons", rows[0].Company)
				assert.Equal(t, "S&S", rows[0].Ticker)
			},
		},
		{
			name: "source order kept",
			html: `<table>
				<tr><td>06/06/2025</td><td>B</td><td>B</td><td>B</td><td>Oslo</td><td>M</td></tr>
				<tr><td>05/06/2025</td><td>A</td><td>A</td><td>A</td><td>Oslo</td><td>M</td></tr>
			</table>`,
			wantCount: 2,
			check: func(t *testing.T, rows []listing.Row) {
				assert.Equal(t, "B", rows[0].Company)
				assert.Equal(t, "A", rows[1].Company)
			},
		},
		{
			name:      "no table",
			html:      `<html><body><p>Ingen kommende noteringer</p></body></html>`,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := extract(t, tt.html)
			require.Len(t, rows, tt.wantCount)
			if tt.check != nil {
				tt.check(t, rows)
			}
		})
	}
}

func TestExtractRows_StopsEarly(t *testing.T) {
	data, err := os.ReadFile("testdata/ipo_showcase.html")
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	require.NoError(t, err)
	base, err := url.Parse(testBase)
	require.NoError(t, err)

	seen := 0
	for range ExtractRows(doc, base) {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestFetch(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		statusCode int
		wantErr    bool
		wantRows   int
	}{
		{
			name: "successful fetch",
			body: `<table><tr><td>05/06/2025</td><td><a href="/acme">Acme AS</a></td><td>ACME</td>` +
				`<td>NO0001</td><td>Oslo</td><td>Oslo Børs</td></tr></table>`,
			statusCode: http.StatusOK,
			wantRows:   1,
		},
		{
			name:       "not found",
			statusCode: http.StatusNotFound,
			wantErr:    true,
		},
		{
			name:       "server error",
			statusCode: http.StatusInternalServerError,
			wantErr:    true,
		},
		{
			name:       "empty page",
			body:       `<html><body></body></html>`,
			statusCode: http.StatusOK,
			wantRows:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Contains(t, r.Header.Get("User-Agent"), "euronext-listings")

				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body)) //nolint:errcheck
			}))
			defer server.Close()

			s := New(server.URL + "/nb/ipo-showcase")
			rows, err := s.FetchRows(context.Background())

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnexpectedStatus)
				return
			}

			require.NoError(t, err)
			got := slices.Collect(rows)
			require.Len(t, got, tt.wantRows)
			if tt.wantRows > 0 {
				require.NotNil(t, got[0].URL)
				assert.Equal(t, server.URL+"/acme", *got[0].URL)
			}
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	s := New(server.URL)
	s.client.Timeout = 50 * time.Millisecond

	_, err := s.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching page")
}

func TestFetch_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	_, err := New(addr).Fetch(context.Background())
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	s := New(SourceURL)

	require.NotNil(t, s)
	require.NotNil(t, s.client)
	assert.Equal(t, Timeout, s.client.Timeout)
	assert.Equal(t, SourceURL, s.URL())
}
