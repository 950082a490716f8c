package nflverse

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fortuna/gridiron/internal/store"
)

// MaxRegularSeasonWeek is the last regular-season week since the 17-game
// schedule (2021).
const MaxRegularSeasonWeek = 18

// routeMultipliers estimate routes run per target by position. The weekly
// stats release has no routes column; these coarse factors produce an
// estimate that is always flagged routes_estimated until a tracked source
// is wired in.
var routeMultipliers = map[string]float64{
	"WR": 3.5,
	"TE": 4.0,
	"RB": 5.0,
}

// ParsePlays converts a play-by-play CSV into bronze-layer rows. Rows missing
// the (game_id, play_id) key or a possession team (timeouts, end-of-quarter
// markers) are skipped.
func ParsePlays(r *CSVReader, season int) ([]*store.Play, error) {
	var (
		iGameID  = r.Col("game_id")
		iPlayID  = r.Col("play_id")
		iSeason  = r.Col("season")
		iWeek    = r.Col("week")
		iType    = r.Col("season_type")
		iPosteam = r.Col("posteam")
		iDefteam = r.Col("defteam")
	)
	if iGameID < 0 || iPlayID < 0 || iSeason < 0 || iWeek < 0 {
		return nil, fmt.Errorf("play_by_play_%d: required columns missing (game_id, play_id, season, week)", season)
	}

	var (
		iPlayType = r.Col("play_type")
		iPasser   = r.Col("passer_player_id")
		iRusher   = r.Col("rusher_player_id")
		iReceiver = r.Col("receiver_player_id")
		iYards    = r.Col("yards_gained")
		iWP       = r.Col("wp")
		iWPA      = r.Col("wpa")
		iEPA      = r.Col("epa")
		iDown     = r.Col("down")
		iYdstogo  = r.Col("ydstogo")
		iYardline = r.Col("yardline_100")
		iQtr      = r.Col("qtr")
		iScoreDif = r.Col("score_differential")
		iComplete = r.Col("complete_pass")
		iTD       = r.Col("touchdown")
		iInt      = r.Col("interception")
		iSack     = r.Col("sack")
		iKneel    = r.Col("qb_kneel")
		iRunGap   = r.Col("run_gap")
	)

	plays := make([]*store.Play, 0, 50000)
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read play row: %w", err)
		}

		if intField(rec, iSeason) != season {
			continue
		}
		gameID := field(rec, iGameID)
		posteam := strings.ToUpper(field(rec, iPosteam))
		if gameID == "" || posteam == "" {
			continue
		}

		plays = append(plays, &store.Play{
			GameID:            gameID,
			PlayID:            intField(rec, iPlayID),
			Season:            season,
			Week:              intField(rec, iWeek),
			SeasonType:        field(rec, iType),
			Posteam:           posteam,
			Defteam:           strings.ToUpper(field(rec, iDefteam)),
			PlayType:          nullStrField(rec, iPlayType),
			PasserID:          nullStrField(rec, iPasser),
			RusherID:          nullStrField(rec, iRusher),
			ReceiverID:        nullStrField(rec, iReceiver),
			YardsGained:       nullFloatField(rec, iYards),
			WP:                nullFloatField(rec, iWP),
			WPA:               nullFloatField(rec, iWPA),
			EPA:               nullFloatField(rec, iEPA),
			Down:              nullIntField(rec, iDown),
			YardsToGo:         nullIntField(rec, iYdstogo),
			YardLine:          nullIntField(rec, iYardline),
			Quarter:           intField(rec, iQtr),
			ScoreDifferential: nullIntField(rec, iScoreDif),
			CompletePass:      boolField(rec, iComplete),
			Touchdown:         boolField(rec, iTD),
			Interception:      boolField(rec, iInt),
			Sack:              boolField(rec, iSack),
			QBKneel:           boolField(rec, iKneel),
			RunGap:            nullStrField(rec, iRunGap),
		})
	}

	return plays, nil
}

// ParseWeeklyStats converts the weekly player-stats CSV for one week; week 0
// keeps every regular-season week. A week with no rows yet (future week)
// parses to an empty slice, not an error.
func ParseWeeklyStats(r *CSVReader, season, week int) ([]*store.PlayerWeekStat, error) {
	if week != 0 && (week < 1 || week > MaxRegularSeasonWeek) {
		return nil, fmt.Errorf("week %d out of range [1,%d]", week, MaxRegularSeasonWeek)
	}

	var (
		iPlayerID = r.Col("player_id")
		iName     = r.Col("player_display_name")
		iTeam     = r.Col("recent_team")
		iPos      = r.Col("position")
		iSeason   = r.Col("season")
		iWeek     = r.Col("week")
		iType     = r.Col("season_type")
	)
	if iPlayerID < 0 || iSeason < 0 || iWeek < 0 {
		return nil, fmt.Errorf("player_stats_%d: required columns missing (player_id, season, week)", season)
	}
	if iTeam < 0 {
		iTeam = r.Col("team") // column renamed in newer releases
	}

	var (
		iTargets  = r.Col("targets")
		iRec      = r.Col("receptions")
		iRecYds   = r.Col("receiving_yards")
		iRecTDs   = r.Col("receiving_tds")
		iCarries  = r.Col("carries")
		iRushYds  = r.Col("rushing_yards")
		iRushTDs  = r.Col("rushing_tds")
		iAttempts = r.Col("attempts")
		iComp     = r.Col("completions")
		iPassYds  = r.Col("passing_yards")
		iPassTDs  = r.Col("passing_tds")
		iInts     = r.Col("interceptions")
		iFumLost  = r.Col("sack_fumbles_lost")
		iRecFum   = r.Col("receiving_fumbles_lost")
		iRushFum  = r.Col("rushing_fumbles_lost")
	)

	var stats []*store.PlayerWeekStat
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read stats row: %w", err)
		}

		if intField(rec, iSeason) != season {
			continue
		}
		w := intField(rec, iWeek)
		if week != 0 && w != week {
			continue
		}
		if w < 1 || w > MaxRegularSeasonWeek {
			continue
		}
		if st := field(rec, iType); st != "" && st != "REG" {
			continue
		}
		playerID := field(rec, iPlayerID)
		if playerID == "" {
			continue
		}

		s := &store.PlayerWeekStat{
			Season:         season,
			Week:           w,
			PlayerID:       playerID,
			PlayerName:     field(rec, iName),
			Team:           strings.ToUpper(field(rec, iTeam)),
			Position:       strings.ToUpper(field(rec, iPos)),
			Targets:        intField(rec, iTargets),
			Receptions:     intField(rec, iRec),
			ReceivingYards: floatField(rec, iRecYds),
			ReceivingTDs:   intField(rec, iRecTDs),
			RushAttempts:   intField(rec, iCarries),
			RushingYards:   floatField(rec, iRushYds),
			RushingTDs:     intField(rec, iRushTDs),
			PassAttempts:   intField(rec, iAttempts),
			Completions:    intField(rec, iComp),
			PassingYards:   floatField(rec, iPassYds),
			PassingTDs:     intField(rec, iPassTDs),
			Interceptions:  intField(rec, iInts),
			FumblesLost:    intField(rec, iFumLost) + intField(rec, iRecFum) + intField(rec, iRushFum),
		}
		estimateRoutes(s)
		stats = append(stats, s)
	}

	return stats, nil
}

// estimateRoutes fills RoutesRun from a per-position target multiplier when
// the source has no routes column. Always flagged as estimated.
func estimateRoutes(s *store.PlayerWeekStat) {
	mult, ok := routeMultipliers[s.Position]
	if !ok || s.Targets == 0 {
		return
	}
	s.RoutesRun.Float64 = float64(s.Targets) * mult
	s.RoutesRun.Valid = true
	s.RoutesEstimated = true
}

// ParseSchedules converts the games CSV, keeping one season.
func ParseSchedules(r *CSVReader, season int) ([]*store.ScheduleRecord, error) {
	var (
		iGameID   = r.Col("game_id")
		iSeason   = r.Col("season")
		iWeek     = r.Col("week")
		iGameday  = r.Col("gameday")
		iGametime = r.Col("gametime")
		iHome     = r.Col("home_team")
		iAway     = r.Col("away_team")
	)
	if iGameID < 0 || iSeason < 0 || iWeek < 0 || iHome < 0 || iAway < 0 {
		return nil, fmt.Errorf("games.csv: required columns missing (game_id, season, week, home_team, away_team)")
	}

	var games []*store.ScheduleRecord
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read schedule row: %w", err)
		}

		if intField(rec, iSeason) != season {
			continue
		}
		gameID := field(rec, iGameID)
		if gameID == "" {
			continue
		}

		g := &store.ScheduleRecord{
			GameID:   gameID,
			Season:   season,
			Week:     intField(rec, iWeek),
			Gameday:  field(rec, iGameday),
			HomeTeam: strings.ToUpper(field(rec, iHome)),
			AwayTeam: strings.ToUpper(field(rec, iAway)),
		}
		if kickoff, err := time.Parse("2006-01-02 15:04", g.Gameday+" "+field(rec, iGametime)); err == nil {
			g.Kickoff.Time = kickoff
			g.Kickoff.Valid = true
		}
		games = append(games, g)
	}

	return games, nil
}

// ParseDepthCharts converts the depth-charts CSV into roster slots.
func ParseDepthCharts(r *CSVReader, season int) ([]*store.DepthChartRecord, error) {
	var (
		iSeason = r.Col("season")
		iWeek   = r.Col("week")
		iTeam   = r.Col("club_code")
		iPos    = r.Col("depth_position")
		iRank   = r.Col("depth_team")
		iGsis   = r.Col("gsis_id")
		iName   = r.Col("full_name")
	)
	if iTeam < 0 {
		iTeam = r.Col("team")
	}
	if iSeason < 0 || iWeek < 0 || iTeam < 0 || iPos < 0 || iRank < 0 {
		return nil, fmt.Errorf("depth_charts_%d: required columns missing", season)
	}

	var slots []*store.DepthChartRecord
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read depth chart row: %w", err)
		}

		if intField(rec, iSeason) != season {
			continue
		}
		rank := intField(rec, iRank)
		if rank < 1 {
			continue
		}

		slots = append(slots, &store.DepthChartRecord{
			Season:     season,
			Week:       intField(rec, iWeek),
			Team:       strings.ToUpper(field(rec, iTeam)),
			Position:   strings.ToUpper(field(rec, iPos)),
			Rank:       rank,
			PlayerID:   nullStrField(rec, iGsis),
			PlayerName: field(rec, iName),
		})
	}

	return slots, nil
}

// ParseRosters converts the weekly rosters CSV into identity mappings. The
// gsis id doubles as the canonical id when present; rows without one are
// skipped since they cannot anchor a mapping.
func ParseRosters(r *CSVReader, season int) ([]*store.IdentityMapping, error) {
	var (
		iSeason  = r.Col("season")
		iWeek    = r.Col("week")
		iTeam    = r.Col("team")
		iPos     = r.Col("position")
		iName    = r.Col("full_name")
		iGsis    = r.Col("gsis_id")
		iFantasy = r.Col("fantasy_data_id")
	)
	if iSeason < 0 || iTeam < 0 || iName < 0 || iGsis < 0 {
		return nil, fmt.Errorf("roster_weekly_%d: required columns missing (season, team, full_name, gsis_id)", season)
	}

	var mappings []*store.IdentityMapping
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster row: %w", err)
		}

		if intField(rec, iSeason) != season {
			continue
		}
		gsis := field(rec, iGsis)
		if gsis == "" {
			continue
		}

		mappings = append(mappings, &store.IdentityMapping{
			CanonicalID: gsis,
			GsisID:      nullStrField(rec, iGsis),
			FantasyID:   nullStrField(rec, iFantasy),
			FullName:    field(rec, iName),
			Team:        strings.ToUpper(field(rec, iTeam)),
			Position:    strings.ToUpper(field(rec, iPos)),
			Season:      season,
			Week:        intField(rec, iWeek),
		})
	}

	return mappings, nil
}

// SnapCount is one player-week offensive snap line used to enrich weekly
// stats with snap shares.
type SnapCount struct {
	Season     int
	Week       int
	Team       string
	Player     string
	PfrID      string
	Position   string
	Offense    int
	OffensePct float64
}

// ParseSnapCounts converts the snap-counts CSV for one season.
func ParseSnapCounts(r *CSVReader, season int) ([]SnapCount, error) {
	var (
		iSeason  = r.Col("season")
		iWeek    = r.Col("week")
		iTeam    = r.Col("team")
		iPlayer  = r.Col("player")
		iPfrID   = r.Col("pfr_player_id")
		iPos     = r.Col("position")
		iOffense = r.Col("offense_snaps")
		iOffPct  = r.Col("offense_pct")
	)
	if iSeason < 0 || iWeek < 0 || iTeam < 0 || iPlayer < 0 {
		return nil, fmt.Errorf("snap_counts_%d: required columns missing (season, week, team, player)", season)
	}

	rows := make([]SnapCount, 0, 50000)
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read snap row: %w", err)
		}

		if intField(rec, iSeason) != season {
			continue
		}

		rows = append(rows, SnapCount{
			Season:     season,
			Week:       intField(rec, iWeek),
			Team:       strings.ToUpper(field(rec, iTeam)),
			Player:     field(rec, iPlayer),
			PfrID:      field(rec, iPfrID),
			Position:   strings.ToUpper(field(rec, iPos)),
			Offense:    intField(rec, iOffense),
			OffensePct: floatField(rec, iOffPct),
		})
	}

	return rows, nil
}
