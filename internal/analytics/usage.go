package analytics

import (
	"database/sql"
	"sort"

	"github.com/fortuna/gridiron/internal/store"
)

// teamWeekKey identifies one offense's week.
type teamWeekKey struct {
	week int
	team string
}

type teamTotals struct {
	passPlays int
	rushPlays int
}

type playerUsage struct {
	team        string
	targets     int
	carries     int
	gapCarries  int
	zoneCarries int
}

// ComputeUsage derives target and carry shares per (week, player) by
// dividing individual opportunity counts by the offense's totals for the
// same week. Shares are fractions in [0,1]; a zero-play team yields zero
// shares rather than a division error. Kneels are excluded from carry
// accounting entirely.
func ComputeUsage(season int, plays []*store.Play) []*store.UsageRecord {
	totals := make(map[teamWeekKey]*teamTotals)
	players := make(map[roleKey]*playerUsage)

	for _, p := range plays {
		if p.SeasonType != "REG" || p.QBKneel {
			continue
		}

		key := teamWeekKey{week: p.Week, team: p.Posteam}
		tt, ok := totals[key]
		if !ok {
			tt = &teamTotals{}
			totals[key] = tt
		}

		switch playKind(p) {
		case kindPass:
			tt.passPlays++
			if p.ReceiverID.Valid && p.ReceiverID.String != "" {
				pu := usageFor(players, p.Week, p.ReceiverID.String, p.Posteam)
				pu.targets++
			}
		case kindRush:
			tt.rushPlays++
			if p.RusherID.Valid && p.RusherID.String != "" {
				pu := usageFor(players, p.Week, p.RusherID.String, p.Posteam)
				pu.carries++
				if isGapCarry(p.RunGap) {
					pu.gapCarries++
				} else {
					pu.zoneCarries++
				}
			}
		}
	}

	records := make([]*store.UsageRecord, 0, len(players))
	for key, pu := range players {
		tt := totals[teamWeekKey{week: key.week, team: pu.team}]
		targetShare := 0.0
		carryShare := 0.0
		if tt != nil {
			targetShare = safeShare(pu.targets, tt.passPlays)
			carryShare = safeShare(pu.carries, tt.rushPlays)
		}

		record := &store.UsageRecord{
			Season:      season,
			Week:        key.week,
			PlayerID:    key.playerID,
			Team:        pu.team,
			TargetShare: targetShare,
			CarryShare:  carryShare,
			Targets:     pu.targets,
			Carries:     pu.carries,
			GapCarries:  pu.gapCarries,
			ZoneCarries: pu.zoneCarries,
		}
		if tt != nil {
			record.TeamPassPlays = tt.passPlays
			record.TeamRushPlays = tt.rushPlays
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Week != records[j].Week {
			return records[i].Week < records[j].Week
		}
		return records[i].PlayerID < records[j].PlayerID
	})

	return records
}

// EnrichUsage joins weekly-stat snap and route data into usage rows by
// (week, player). Route participation is routes run over team pass plays,
// clamped to [0,1] since route counts may be estimates. Rows without a
// matching stat line keep their null snap fields.
func EnrichUsage(records []*store.UsageRecord, stats []*store.PlayerWeekStat) {
	byKey := make(map[roleKey]*store.PlayerWeekStat, len(stats))
	for _, s := range stats {
		byKey[roleKey{week: s.Week, playerID: s.PlayerID}] = s
	}

	for _, u := range records {
		s, ok := byKey[roleKey{week: u.Week, playerID: u.PlayerID}]
		if !ok {
			continue
		}

		u.Position = s.Position
		u.SnapShare = s.SnapShare

		if s.RoutesRun.Valid && u.TeamPassPlays > 0 {
			rp := s.RoutesRun.Float64 / float64(u.TeamPassPlays)
			if rp > 1 {
				rp = 1
			}
			if rp < 0 {
				rp = 0
			}
			u.RouteParticipation = sql.NullFloat64{Float64: rp, Valid: true}
		}
	}
}

func usageFor(m map[roleKey]*playerUsage, week int, playerID, team string) *playerUsage {
	key := roleKey{week: week, playerID: playerID}
	pu, ok := m[key]
	if !ok {
		pu = &playerUsage{team: team}
		m[key] = pu
	}
	return pu
}

// safeShare divides with a zero fallback so zero-play teams never raise.
func safeShare(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	share := float64(part) / float64(whole)
	if share > 1 {
		return 1
	}
	return share
}

// isGapCarry classifies a carry by run gap. Interior gaps (guard, tackle)
// count as gap concepts and everything else as zone. This is a stand-in
// for real blocking-scheme charting, which the provider does not publish.
func isGapCarry(runGap sql.NullString) bool {
	if !runGap.Valid {
		return false
	}
	return runGap.String == "guard" || runGap.String == "tackle"
}

type playKindT int

const (
	kindOther playKindT = iota
	kindPass
	kindRush
)

func playKind(p *store.Play) playKindT {
	if !p.PlayType.Valid {
		return kindOther
	}
	switch p.PlayType.String {
	case "pass":
		return kindPass
	case "run":
		return kindRush
	}
	return kindOther
}
