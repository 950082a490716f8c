// Package analytics derives per-player-week leverage, usage, and team
// efficiency metrics from the bronze play-by-play layer. All functions are
// pure over their play slices; persistence belongs to the repositories.
package analytics

import (
	"database/sql"
	"sort"

	"github.com/fortuna/gridiron/internal/store"
)

const (
	highLeverageFloor = 0.25
	highLeverageCeil  = 0.75
	oneScoreMargin    = 8
)

// IsHighLeverage reports whether a play's pre-snap win probability sits in
// the contested band. Boundary values are included.
func IsHighLeverage(wp float64) bool {
	return wp >= highLeverageFloor && wp <= highLeverageCeil
}

// IsQ4OneScore reports whether a play happened in the fourth quarter or
// later with the game within one score.
func IsQ4OneScore(quarter int, scoreDifferential int) bool {
	if scoreDifferential < 0 {
		scoreDifferential = -scoreDifferential
	}
	return quarter >= 4 && scoreDifferential <= oneScoreMargin
}

// roleKey identifies one participant's involvement in one week.
type roleKey struct {
	week     int
	playerID string
}

// roleAgg accumulates leverage metrics for one (week, player) in one role.
type roleAgg struct {
	team          string
	plays         int
	wpSum         float64
	wpaSum        float64
	highLeverage  int
	q4OneScore    int
	q4OneScoreEPA float64
	kneels        int
}

// ComputeWPSplits runs the full leverage pipeline over a season's plays:
// filter to regular-season plays with a win probability, flag leverage
// situations, aggregate per role, and combine roles per (week, player).
// A player appearing as both rusher and receiver in the same week gets one
// row with a plays-weighted mean wp and simple sums for counts.
func ComputeWPSplits(season int, plays []*store.Play) []*store.WPSplit {
	passing := make(map[roleKey]*roleAgg)
	rushing := make(map[roleKey]*roleAgg)
	receiving := make(map[roleKey]*roleAgg)

	for _, p := range plays {
		if p.SeasonType != "REG" || !p.WP.Valid {
			continue
		}

		if p.QBKneel {
			// Kneels are excluded from the leverage aggregates but counted
			// so the warehouse row reflects clock-killing duty.
			countKneel(rushing, p, p.RusherID)
			countKneel(passing, p, p.PasserID)
			continue
		}

		accumulateRole(passing, p, p.PasserID)
		accumulateRole(rushing, p, p.RusherID)
		accumulateRole(receiving, p, p.ReceiverID)
	}

	combined := make(map[roleKey]*roleAgg)
	for _, roleMap := range []map[roleKey]*roleAgg{passing, rushing, receiving} {
		for key, agg := range roleMap {
			mergeAgg(combined, key, agg)
		}
	}

	splits := make([]*store.WPSplit, 0, len(combined))
	for key, agg := range combined {
		meanWP := 0.0
		if agg.plays > 0 {
			meanWP = agg.wpSum / float64(agg.plays)
		}

		splits = append(splits, &store.WPSplit{
			Season:            season,
			Week:              key.week,
			PlayerID:          key.playerID,
			Team:              agg.team,
			Plays:             agg.plays,
			MeanWP:            meanWP,
			WPASum:            agg.wpaSum,
			HighLeveragePlays: agg.highLeverage,
			Q4OneScorePlays:   agg.q4OneScore,
			Q4OneScoreEPA:     agg.q4OneScoreEPA,
			Kneels:            agg.kneels,
		})
	}

	sort.Slice(splits, func(i, j int) bool {
		if splits[i].Week != splits[j].Week {
			return splits[i].Week < splits[j].Week
		}
		return splits[i].PlayerID < splits[j].PlayerID
	})

	return splits
}

// accumulateRole adds one play to a role map, attributed to the given
// participant when present.
func accumulateRole(m map[roleKey]*roleAgg, p *store.Play, participant sql.NullString) {
	if !participant.Valid || participant.String == "" {
		return
	}

	key := roleKey{week: p.Week, playerID: participant.String}
	agg, ok := m[key]
	if !ok {
		agg = &roleAgg{}
		m[key] = agg
	}

	agg.team = p.Posteam
	agg.plays++
	agg.wpSum += p.WP.Float64
	if p.WPA.Valid {
		agg.wpaSum += p.WPA.Float64
	}
	if IsHighLeverage(p.WP.Float64) {
		agg.highLeverage++
	}

	diff := 0
	if p.ScoreDifferential.Valid {
		diff = int(p.ScoreDifferential.Int32)
	}
	if IsQ4OneScore(p.Quarter, diff) {
		agg.q4OneScore++
		if p.EPA.Valid {
			agg.q4OneScoreEPA += p.EPA.Float64
		}
	}
}

// countKneel bumps the kneel counter for a participant without touching the
// leverage aggregates.
func countKneel(m map[roleKey]*roleAgg, p *store.Play, participant sql.NullString) {
	if !participant.Valid || participant.String == "" {
		return
	}

	key := roleKey{week: p.Week, playerID: participant.String}
	agg, ok := m[key]
	if !ok {
		agg = &roleAgg{team: p.Posteam}
		m[key] = agg
	}
	agg.kneels++
}

// mergeAgg folds one role aggregate into the combined map. Sums combine
// directly; the wp sums stay play-weighted so the final mean is correct.
func mergeAgg(combined map[roleKey]*roleAgg, key roleKey, agg *roleAgg) {
	existing, ok := combined[key]
	if !ok {
		cpy := *agg
		combined[key] = &cpy
		return
	}

	existing.plays += agg.plays
	existing.wpSum += agg.wpSum
	existing.wpaSum += agg.wpaSum
	existing.highLeverage += agg.highLeverage
	existing.q4OneScore += agg.q4OneScore
	existing.q4OneScoreEPA += agg.q4OneScoreEPA
	existing.kneels += agg.kneels
	if existing.team == "" {
		existing.team = agg.team
	}
}
