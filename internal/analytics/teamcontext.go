package analytics

import (
	"sort"

	"github.com/fortuna/gridiron/internal/store"
)

type contextAgg struct {
	plays     int
	epaSum    float64
	passPlays int
	passEPA   float64
	rushPlays int
	rushEPA   float64
	successes int
}

// ComputeTeamContext aggregates offensive and defensive efficiency per
// (week, team). Offense groups by possession team, defense by the opponent;
// the defensive row carries the EPA the defense allowed. Only regular-season
// pass and run plays with an EPA value participate.
func ComputeTeamContext(season int, plays []*store.Play) (offense, defense []*store.TeamContext) {
	offAgg := make(map[teamWeekKey]*contextAgg)
	defAgg := make(map[teamWeekKey]*contextAgg)

	for _, p := range plays {
		if p.SeasonType != "REG" || p.QBKneel || !p.EPA.Valid {
			continue
		}

		kind := playKind(p)
		if kind == kindOther {
			continue
		}

		addContext(offAgg, teamWeekKey{week: p.Week, team: p.Posteam}, p, kind)
		addContext(defAgg, teamWeekKey{week: p.Week, team: p.Defteam}, p, kind)
	}

	return buildContextRows(season, offAgg), buildContextRows(season, defAgg)
}

func addContext(m map[teamWeekKey]*contextAgg, key teamWeekKey, p *store.Play, kind playKindT) {
	agg, ok := m[key]
	if !ok {
		agg = &contextAgg{}
		m[key] = agg
	}

	epa := p.EPA.Float64
	agg.plays++
	agg.epaSum += epa
	if epa > 0 {
		agg.successes++
	}

	switch kind {
	case kindPass:
		agg.passPlays++
		agg.passEPA += epa
	case kindRush:
		agg.rushPlays++
		agg.rushEPA += epa
	}
}

func buildContextRows(season int, m map[teamWeekKey]*contextAgg) []*store.TeamContext {
	rows := make([]*store.TeamContext, 0, len(m))
	for key, agg := range m {
		row := &store.TeamContext{
			Season: season,
			Week:   key.week,
			Team:   key.team,
			Plays:  agg.plays,
		}
		if agg.plays > 0 {
			row.EPAPerPlay = agg.epaSum / float64(agg.plays)
			row.SuccessRate = float64(agg.successes) / float64(agg.plays)
			row.PassRate = float64(agg.passPlays) / float64(agg.plays)
		}
		if agg.passPlays > 0 {
			row.PassEPA = agg.passEPA / float64(agg.passPlays)
		}
		if agg.rushPlays > 0 {
			row.RushEPA = agg.rushEPA / float64(agg.rushPlays)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Week != rows[j].Week {
			return rows[i].Week < rows[j].Week
		}
		return rows[i].Team < rows[j].Team
	})

	return rows
}
