package pfr

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const depthChartHTML = `
<html><body>
<table id="depth_chart">
<tbody>
<tr><th>QB</th><td><a href="/players/M/MahoPa00.htm">Patrick Mahomes</a></td><td><a href="/players/G/GabbBl00.htm">Blaine Gabbert</a></td></tr>
<tr><th>RB</th><td><a href="/players/P/PachIs00.htm">Isiah Pacheco</a></td></tr>
<tr><th>WR</th><td><a href="/players/R/RiceRa00.htm">Rashee Rice</a></td><td><a href="/players/W/WortXa00.htm">Xavier Worthy</a></td></tr>
<tr><th>LT</th><td><a href="/players/T/TaylJa00.htm">Some Tackle</a></td></tr>
</tbody>
</table>
</body></html>`

func TestParseDepthChart(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(depthChartHTML))
	require.NoError(t, err)

	slots := ParseDepthChart(doc, "KC", 2025, 3)
	require.Len(t, slots, 5) // offensive line rows excluded

	assert.Equal(t, "QB", slots[0].Position)
	assert.Equal(t, 1, slots[0].Rank)
	assert.Equal(t, "Patrick Mahomes", slots[0].PlayerName)
	assert.Equal(t, 2, slots[1].Rank)
	assert.Equal(t, "Blaine Gabbert", slots[1].PlayerName)

	for _, s := range slots {
		assert.Equal(t, "KC", s.Team)
		assert.Equal(t, 2025, s.Season)
		assert.Equal(t, 3, s.Week)
	}
}

func TestParseDepthChartEmptyDocument(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)

	slots := ParseDepthChart(doc, "KC", 2025, 1)
	assert.Empty(t, slots)
}

func TestUnknownTeamRejected(t *testing.T) {
	c := NewClient("")
	_, err := c.FetchDepthChart(context.Background(), "XYZ", 2025, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown team abbreviation")
}
