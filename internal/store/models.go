package store

import (
	"database/sql"
	"time"
)

// Play is one row of the bronze play-by-play layer, keyed by (game_id, play_id).
// Rows are immutable once ingested from a provider snapshot; re-ingesting the
// same snapshot is a no-op upsert.
type Play struct {
	GameID            string          `json:"game_id" db:"game_id"`
	PlayID            int             `json:"play_id" db:"play_id"`
	Season            int             `json:"season" db:"season"`
	Week              int             `json:"week" db:"week"`
	SeasonType        string          `json:"season_type" db:"season_type"`
	Posteam           string          `json:"posteam" db:"posteam"`
	Defteam           string          `json:"defteam" db:"defteam"`
	PlayType          sql.NullString  `json:"play_type,omitempty" db:"play_type"`
	PasserID          sql.NullString  `json:"passer_id,omitempty" db:"passer_id"`
	RusherID          sql.NullString  `json:"rusher_id,omitempty" db:"rusher_id"`
	ReceiverID        sql.NullString  `json:"receiver_id,omitempty" db:"receiver_id"`
	YardsGained       sql.NullFloat64 `json:"yards_gained,omitempty" db:"yards_gained"`
	WP                sql.NullFloat64 `json:"wp,omitempty" db:"wp"`
	WPA               sql.NullFloat64 `json:"wpa,omitempty" db:"wpa"`
	EPA               sql.NullFloat64 `json:"epa,omitempty" db:"epa"`
	Down              sql.NullInt32   `json:"down,omitempty" db:"down"`
	YardsToGo         sql.NullInt32   `json:"ydstogo,omitempty" db:"ydstogo"`
	YardLine          sql.NullInt32   `json:"yardline_100,omitempty" db:"yardline_100"`
	Quarter           int             `json:"qtr" db:"qtr"`
	ScoreDifferential sql.NullInt32   `json:"score_differential,omitempty" db:"score_differential"`
	CompletePass      bool            `json:"complete_pass" db:"complete_pass"`
	Touchdown         bool            `json:"touchdown" db:"touchdown"`
	Interception      bool            `json:"interception" db:"interception"`
	Sack              bool            `json:"sack" db:"sack"`
	QBKneel           bool            `json:"qb_kneel" db:"qb_kneel"`
	RunGap            sql.NullString  `json:"run_gap,omitempty" db:"run_gap"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// PlayerWeekStat is the weekly counting-stat aggregate for one player,
// keyed by (season, week, player_id). Re-running the ingestion job for the
// same week upserts in place.
type PlayerWeekStat struct {
	Season         int             `json:"season" db:"season"`
	Week           int             `json:"week" db:"week"`
	PlayerID       string          `json:"player_id" db:"player_id"`
	PlayerName     string          `json:"player_name" db:"player_name"`
	Team           string          `json:"team" db:"team"`
	Position       string          `json:"position" db:"position"`
	Targets        int             `json:"targets" db:"targets"`
	Receptions     int             `json:"receptions" db:"receptions"`
	ReceivingYards float64         `json:"receiving_yards" db:"receiving_yards"`
	ReceivingTDs   int             `json:"receiving_tds" db:"receiving_tds"`
	RushAttempts   int             `json:"rush_attempts" db:"rush_attempts"`
	RushingYards   float64         `json:"rushing_yards" db:"rushing_yards"`
	RushingTDs     int             `json:"rushing_tds" db:"rushing_tds"`
	PassAttempts   int             `json:"pass_attempts" db:"pass_attempts"`
	Completions    int             `json:"completions" db:"completions"`
	PassingYards   float64         `json:"passing_yards" db:"passing_yards"`
	PassingTDs     int             `json:"passing_tds" db:"passing_tds"`
	Interceptions  int             `json:"interceptions" db:"interceptions"`
	FumblesLost    int             `json:"fumbles_lost" db:"fumbles_lost"`
	Snaps          sql.NullInt32   `json:"snaps,omitempty" db:"snaps"`
	SnapShare      sql.NullFloat64 `json:"snap_share,omitempty" db:"snap_share"`
	RoutesRun      sql.NullFloat64 `json:"routes_run,omitempty" db:"routes_run"`
	RoutesEstimated bool            `json:"routes_estimated" db:"routes_estimated"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// PlayerScore holds the fantasy-point totals derived from a PlayerWeekStat,
// keyed by (season, week, player_id).
type PlayerScore struct {
	Season       int       `json:"season" db:"season"`
	Week         int       `json:"week" db:"week"`
	PlayerID     string    `json:"player_id" db:"player_id"`
	PlayerName   string    `json:"player_name" db:"player_name"`
	Team         string    `json:"team" db:"team"`
	Position     string    `json:"position" db:"position"`
	PointsPPR    float64   `json:"points_ppr" db:"points_ppr"`
	PointsHalf   float64   `json:"points_half_ppr" db:"points_half_ppr"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UsageRecord is the per-player-week positional usage row,
// keyed by (season, week, player_id). Shares are fractions in [0,1].
type UsageRecord struct {
	Season             int             `json:"season" db:"season"`
	Week               int             `json:"week" db:"week"`
	PlayerID           string          `json:"player_id" db:"player_id"`
	Team               string          `json:"team" db:"team"`
	Position           string          `json:"position" db:"position"`
	SnapShare          sql.NullFloat64 `json:"snap_share,omitempty" db:"snap_share"`
	TargetShare        float64         `json:"target_share" db:"target_share"`
	CarryShare         float64         `json:"carry_share" db:"carry_share"`
	RouteParticipation sql.NullFloat64 `json:"route_participation,omitempty" db:"route_participation"`
	Targets            int             `json:"targets" db:"targets"`
	Carries            int             `json:"carries" db:"carries"`
	GapCarries         int             `json:"gap_carries" db:"gap_carries"`
	ZoneCarries        int             `json:"zone_carries" db:"zone_carries"`
	TeamPassPlays      int             `json:"team_pass_plays" db:"team_pass_plays"`
	TeamRushPlays      int             `json:"team_rush_plays" db:"team_rush_plays"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// WPSplit is the per-player-week leverage row, keyed by (season, week, player_id).
// Quarterback, running back, and receiver roles are computed identically and
// combined before persistence.
type WPSplit struct {
	Season           int       `json:"season" db:"season"`
	Week             int       `json:"week" db:"week"`
	PlayerID         string    `json:"player_id" db:"player_id"`
	Team             string    `json:"team" db:"team"`
	Plays            int       `json:"plays" db:"plays"`
	MeanWP           float64   `json:"mean_wp" db:"mean_wp"`
	WPASum           float64   `json:"wpa_sum" db:"wpa_sum"`
	HighLeveragePlays int       `json:"high_leverage_plays" db:"high_leverage_plays"`
	Q4OneScorePlays  int       `json:"q4_one_score_plays" db:"q4_one_score_plays"`
	Q4OneScoreEPA    float64   `json:"q4_one_score_epa" db:"q4_one_score_epa"`
	Kneels           int       `json:"kneels" db:"kneels"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// TeamContext is one side-of-ball efficiency row, keyed by (season, week, team).
// The same shape backs both team_offensive_context and team_defensive_context.
type TeamContext struct {
	Season      int       `json:"season" db:"season"`
	Week        int       `json:"week" db:"week"`
	Team        string    `json:"team" db:"team"`
	Plays       int       `json:"plays" db:"plays"`
	EPAPerPlay  float64   `json:"epa_per_play" db:"epa_per_play"`
	PassEPA     float64   `json:"pass_epa_per_play" db:"pass_epa_per_play"`
	RushEPA     float64   `json:"rush_epa_per_play" db:"rush_epa_per_play"`
	SuccessRate float64   `json:"success_rate" db:"success_rate"`
	PassRate    float64   `json:"pass_rate" db:"pass_rate"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ScheduleRecord maps teams to games, keyed by game_id.
type ScheduleRecord struct {
	GameID    string       `json:"game_id" db:"game_id"`
	Season    int          `json:"season" db:"season"`
	Week      int          `json:"week" db:"week"`
	Gameday   string       `json:"gameday" db:"gameday"`
	Kickoff   sql.NullTime `json:"kickoff,omitempty" db:"kickoff"`
	HomeTeam  string       `json:"home_team" db:"home_team"`
	AwayTeam  string       `json:"away_team" db:"away_team"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// DepthChartRecord is one roster slot, keyed by (season, week, team, position, rank).
type DepthChartRecord struct {
	Season     int            `json:"season" db:"season"`
	Week       int            `json:"week" db:"week"`
	Team       string         `json:"team" db:"team"`
	Position   string         `json:"position" db:"position"`
	Rank       int            `json:"rank" db:"rank"`
	PlayerID   sql.NullString `json:"player_id,omitempty" db:"player_id"`
	PlayerName string         `json:"player_name" db:"player_name"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// IdentityMapping links external identifier schemes to the canonical player id
// used as the join key across all derived tables. Season/Week record the most
// recent team assignment so trades resolve to the newest team.
type IdentityMapping struct {
	CanonicalID string         `json:"canonical_id" db:"canonical_id"`
	GsisID      sql.NullString `json:"gsis_id,omitempty" db:"gsis_id"`
	FantasyID   sql.NullString `json:"fantasy_id,omitempty" db:"fantasy_id"`
	FullName    string         `json:"full_name" db:"full_name"`
	Team        string         `json:"team" db:"team"`
	Position    string         `json:"position" db:"position"`
	Season      int            `json:"season" db:"season"`
	Week        int            `json:"week" db:"week"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
