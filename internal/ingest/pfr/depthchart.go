// Package pfr scrapes Pro-Football-Reference team depth charts as an
// alternate roster source when the bulk depth-chart release lags.
package pfr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fortuna/gridiron/internal/store"
)

const (
	// BaseURL for Pro-Football-Reference team pages.
	BaseURL = "https://www.pro-football-reference.com"

	// UserAgent for requests.
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MinRequestInterval to stay under PFR's rate limit.
	MinRequestInterval = 3 * time.Second
)

// pfrCodes maps standard team abbreviations to PFR's lowercase franchise codes.
var pfrCodes = map[string]string{
	"ARI": "crd", "ATL": "atl", "BAL": "rav", "BUF": "buf",
	"CAR": "car", "CHI": "chi", "CIN": "cin", "CLE": "cle",
	"DAL": "dal", "DEN": "den", "DET": "det", "GB": "gnb",
	"HOU": "htx", "IND": "clt", "JAX": "jax", "KC": "kan",
	"LA": "ram", "LAC": "sdg", "LV": "rai", "MIA": "mia",
	"MIN": "min", "NE": "nwe", "NO": "nor", "NYG": "nyg",
	"NYJ": "nyj", "PHI": "phi", "PIT": "pit", "SEA": "sea",
	"SF": "sfo", "TB": "tam", "TEN": "oti", "WAS": "was",
}

// offensivePositions limits scraping to the slots the usage tables care about.
var offensivePositions = map[string]bool{
	"QB": true, "RB": true, "WR": true, "TE": true, "FB": true,
}

// Client scrapes PFR depth charts with rate limiting.
type Client struct {
	baseURL     string
	http        *http.Client
	lastRequest time.Time
	interval    time.Duration
}

// NewClient creates a depth-chart scraper. An empty baseURL uses the live site.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: 30 * time.Second},
		interval: MinRequestInterval,
	}
}

// FetchDepthChart scrapes one team's current depth chart and returns the
// offensive slots stamped with the given season and week.
func (c *Client) FetchDepthChart(ctx context.Context, team string, season, week int) ([]*store.DepthChartRecord, error) {
	code, ok := pfrCodes[strings.ToUpper(team)]
	if !ok {
		return nil, fmt.Errorf("unknown team abbreviation %q", team)
	}

	html, err := c.fetchWithRateLimit(ctx, fmt.Sprintf("%s/teams/%s/depth.htm", c.baseURL, code))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse depth chart HTML: %w", err)
	}

	return ParseDepthChart(doc, strings.ToUpper(team), season, week), nil
}

// ParseDepthChart extracts offensive depth slots from a PFR depth chart
// document. Each table row is a position with players in depth order.
func ParseDepthChart(doc *goquery.Document, team string, season, week int) []*store.DepthChartRecord {
	var slots []*store.DepthChartRecord

	doc.Find("table#depth_chart tbody tr, table.depth_chart tbody tr").Each(func(_ int, row *goquery.Selection) {
		pos := strings.ToUpper(strings.TrimSpace(row.Find("th").First().Text()))
		if !offensivePositions[pos] {
			return
		}

		rank := 0
		row.Find("td a").Each(func(_ int, link *goquery.Selection) {
			name := strings.TrimSpace(link.Text())
			if name == "" {
				return
			}
			rank++
			slots = append(slots, &store.DepthChartRecord{
				Season:     season,
				Week:       week,
				Team:       team,
				Position:   pos,
				Rank:       rank,
				PlayerName: name,
			})
		})
	})

	return slots
}

func (c *Client) fetchWithRateLimit(ctx context.Context, url string) (string, error) {
	if !c.lastRequest.IsZero() {
		if elapsed := time.Since(c.lastRequest); elapsed < c.interval {
			select {
			case <-time.After(c.interval - elapsed):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	c.lastRequest = time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("depth chart %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", url, err)
	}
	return string(body), nil
}
