package nflverse

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csvReaderFrom(t *testing.T, data string) *CSVReader {
	t.Helper()
	r, err := NewCSVReader(io.NopCloser(strings.NewReader(data)))
	require.NoError(t, err)
	return r
}

const pbpCSV = `game_id,play_id,season,week,season_type,posteam,defteam,play_type,passer_player_id,rusher_player_id,receiver_player_id,yards_gained,wp,wpa,epa,down,ydstogo,yardline_100,qtr,score_differential,complete_pass,touchdown,interception,sack,qb_kneel,run_gap
2025_01_KC_BUF,40,2025,1,REG,KC,BUF,pass,00-0033873,NA,00-0036912,12,0.55,0.03,0.8,1,10,75,1,0,1,0,0,0,0,NA
2025_01_KC_BUF,65,2025,1,REG,KC,BUF,run,NA,00-0038120,NA,4,0.58,0.01,0.2,2,6,63,1,0,0,0,0,0,0,guard
2025_01_KC_BUF,90,2025,1,REG,,BUF,no_play,NA,NA,NA,NA,NA,NA,NA,NA,NA,NA,1,NA,0,0,0,0,0,NA
2024_01_KC_BUF,40,2024,1,REG,KC,BUF,pass,00-0033873,NA,NA,0,0.5,0,0,1,10,75,1,0,0,0,0,0,0,NA
`

func TestParsePlays(t *testing.T) {
	plays, err := ParsePlays(csvReaderFrom(t, pbpCSV), 2025)
	require.NoError(t, err)
	require.Len(t, plays, 2) // no-posteam row and prior-season row skipped

	p := plays[0]
	assert.Equal(t, "2025_01_KC_BUF", p.GameID)
	assert.Equal(t, 40, p.PlayID)
	assert.Equal(t, "REG", p.SeasonType)
	assert.Equal(t, "KC", p.Posteam)
	assert.True(t, p.WP.Valid)
	assert.InDelta(t, 0.55, p.WP.Float64, 1e-9)
	assert.True(t, p.ReceiverID.Valid)
	assert.True(t, p.CompletePass)
	assert.False(t, p.RunGap.Valid) // NA parses as null

	run := plays[1]
	assert.True(t, run.RunGap.Valid)
	assert.Equal(t, "guard", run.RunGap.String)
	assert.True(t, run.RusherID.Valid)
}

func TestParsePlaysMissingRequiredColumns(t *testing.T) {
	_, err := ParsePlays(csvReaderFrom(t, "foo,bar\n1,2\n"), 2025)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required columns missing")
}

const weeklyCSV = `player_id,player_display_name,recent_team,position,season,week,season_type,targets,receptions,receiving_yards,receiving_tds,carries,rushing_yards,rushing_tds,attempts,completions,passing_yards,passing_tds,interceptions,sack_fumbles_lost,receiving_fumbles_lost,rushing_fumbles_lost
00-0036912,Justin Jefferson,MIN,WR,2025,1,REG,11,8,110,1,0,0,0,0,0,0,0,0,0,0,0
00-0036912,Justin Jefferson,MIN,WR,2025,2,REG,9,6,85,0,0,0,0,0,0,0,0,0,0,1,0
00-0038120,Bijan Robinson,ATL,RB,2025,1,REG,5,4,32,0,18,95,1,0,0,0,0,0,0,0,0
00-0033873,Patrick Mahomes,KC,QB,2025,1,POST,0,0,0,0,2,11,0,38,29,320,3,1,0,0,0
`

func TestParseWeeklyStatsSingleWeek(t *testing.T) {
	stats, err := ParseWeeklyStats(csvReaderFrom(t, weeklyCSV), 2025, 1)
	require.NoError(t, err)
	require.Len(t, stats, 2) // week 2 row and POST row excluded

	jj := stats[0]
	assert.Equal(t, "00-0036912", jj.PlayerID)
	assert.Equal(t, 11, jj.Targets)
	assert.Equal(t, 8, jj.Receptions)
	assert.InDelta(t, 110.0, jj.ReceivingYards, 1e-9)
	assert.Equal(t, 1, jj.ReceivingTDs)

	// WR route estimate: targets * 3.5, flagged as estimated.
	require.True(t, jj.RoutesRun.Valid)
	assert.InDelta(t, 38.5, jj.RoutesRun.Float64, 1e-9)
	assert.True(t, jj.RoutesEstimated)
}

func TestParseWeeklyStatsAllWeeks(t *testing.T) {
	stats, err := ParseWeeklyStats(csvReaderFrom(t, weeklyCSV), 2025, 0)
	require.NoError(t, err)
	assert.Len(t, stats, 3)
}

func TestParseWeeklyStatsFumblesSummed(t *testing.T) {
	stats, err := ParseWeeklyStats(csvReaderFrom(t, weeklyCSV), 2025, 2)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].FumblesLost)
}

func TestParseWeeklyStatsWeekOutOfRange(t *testing.T) {
	_, err := ParseWeeklyStats(csvReaderFrom(t, weeklyCSV), 2025, 19)
	require.Error(t, err)

	_, err = ParseWeeklyStats(csvReaderFrom(t, weeklyCSV), 2025, -1)
	require.Error(t, err)
}

// A week the provider has not published yet is an empty result, not an error.
func TestParseWeeklyStatsFutureWeekEmpty(t *testing.T) {
	stats, err := ParseWeeklyStats(csvReaderFrom(t, weeklyCSV), 2025, 17)
	require.NoError(t, err)
	assert.Empty(t, stats)
}

const scheduleCSV = `game_id,season,week,gameday,gametime,home_team,away_team
2025_01_KC_BUF,2025,1,2025-09-07,16:25,BUF,KC
2024_01_BAL_KC,2024,1,2024-09-05,20:20,KC,BAL
`

func TestParseSchedules(t *testing.T) {
	games, err := ParseSchedules(csvReaderFrom(t, scheduleCSV), 2025)
	require.NoError(t, err)
	require.Len(t, games, 1)

	g := games[0]
	assert.Equal(t, "2025_01_KC_BUF", g.GameID)
	assert.Equal(t, "BUF", g.HomeTeam)
	assert.Equal(t, "KC", g.AwayTeam)
	require.True(t, g.Kickoff.Valid)
	assert.Equal(t, 16, g.Kickoff.Time.Hour())
}

const rosterCSV = `season,week,team,position,full_name,gsis_id,fantasy_data_id
2025,1,MIN,WR,Justin Jefferson,00-0036912,21685
2025,1,FA,WR,Tryout Guy,,
`

func TestParseRostersSkipsRowsWithoutGsisID(t *testing.T) {
	mappings, err := ParseRosters(csvReaderFrom(t, rosterCSV), 2025)
	require.NoError(t, err)
	require.Len(t, mappings, 1)

	m := mappings[0]
	assert.Equal(t, "00-0036912", m.CanonicalID)
	assert.Equal(t, "MIN", m.Team)
	require.True(t, m.FantasyID.Valid)
	assert.Equal(t, "21685", m.FantasyID.String)
}

const depthChartCSV = `season,week,club_code,depth_position,depth_team,gsis_id,full_name
2025,1,KC,WR,1,00-0036322,Rashee Rice
2025,1,KC,WR,2,00-0039337,Xavier Worthy
2025,1,KC,WR,0,,Bad Row
`

func TestParseDepthCharts(t *testing.T) {
	slots, err := ParseDepthCharts(csvReaderFrom(t, depthChartCSV), 2025)
	require.NoError(t, err)
	require.Len(t, slots, 2) // rank 0 row dropped

	assert.Equal(t, 1, slots[0].Rank)
	assert.Equal(t, "Rashee Rice", slots[0].PlayerName)
	assert.Equal(t, "KC", slots[0].Team)
}

const snapCSV = `season,week,team,player,pfr_player_id,position,offense_snaps,offense_pct
2025,1,MIN,Justin Jefferson,JeffJu00,WR,61,0.95
`

func TestParseSnapCounts(t *testing.T) {
	rows, err := ParseSnapCounts(csvReaderFrom(t, snapCSV), 2025)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 61, rows[0].Offense)
	assert.InDelta(t, 0.95, rows[0].OffensePct, 1e-9)
}
