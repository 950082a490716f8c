// Package nflverse fetches the nflverse-data release CSVs (play-by-play,
// weekly player stats, schedules, depth charts, rosters, snap counts) and
// parses them into warehouse rows.
package nflverse

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the nflverse-data GitHub release download root.
const DefaultBaseURL = "https://github.com/nflverse/nflverse-data/releases/download"

const userAgent = "gridiron-etl/1.0 (+https://github.com/fortuna/gridiron)"

// Client downloads nflverse release assets.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logrus.Logger
}

// NewClient creates a client against the given base URL, falling back to the
// public nflverse releases when empty.
func NewClient(baseURL string, logger *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 120 * time.Second},
		logger:  logger,
	}
}

// FetchPlayByPlay streams the season play-by-play CSV.
func (c *Client) FetchPlayByPlay(ctx context.Context, season int) (*CSVReader, error) {
	return c.get(ctx, fmt.Sprintf("pbp/play_by_play_%d.csv", season))
}

// FetchPlayerStats streams the season weekly player-stats CSV.
func (c *Client) FetchPlayerStats(ctx context.Context, season int) (*CSVReader, error) {
	return c.get(ctx, fmt.Sprintf("player_stats/player_stats_%d.csv", season))
}

// FetchSchedules streams the all-seasons schedule CSV.
func (c *Client) FetchSchedules(ctx context.Context) (*CSVReader, error) {
	return c.get(ctx, "schedules/games.csv")
}

// FetchDepthCharts streams the season depth-charts CSV.
func (c *Client) FetchDepthCharts(ctx context.Context, season int) (*CSVReader, error) {
	return c.get(ctx, fmt.Sprintf("depth_charts/depth_charts_%d.csv", season))
}

// FetchRosters streams the season weekly rosters CSV.
func (c *Client) FetchRosters(ctx context.Context, season int) (*CSVReader, error) {
	return c.get(ctx, fmt.Sprintf("weekly_rosters/roster_weekly_%d.csv", season))
}

// FetchSnapCounts streams the season snap-counts CSV.
func (c *Client) FetchSnapCounts(ctx context.Context, season int) (*CSVReader, error) {
	return c.get(ctx, fmt.Sprintf("snap_counts/snap_counts_%d.csv", season))
}

func (c *Client) get(ctx context.Context, path string) (*CSVReader, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.logger.WithField("url", url).Debug("fetching nflverse asset")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		return nil, fmt.Errorf("download %s: %s (%s)", url, resp.Status, string(b))
	}

	table, err := NewCSVReader(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("read header of %s: %w", url, err)
	}
	return table, nil
}
