// Package identity maps per-provider player identifier schemes onto the
// canonical id used as the join key across all derived tables. An incorrect
// match silently corrupts a player's entire derived-stat history, so the
// resolver is deliberately conservative: exact id matches first, then a
// normalized (name, team) fallback, and anything else is dropped and logged
// for manual follow-up.
package identity

import (
	"regexp"
	"strings"

	"github.com/fortuna/gridiron/internal/store"
	"github.com/sirupsen/logrus"
)

// SourceRow is the provider-side view of a player needing resolution.
type SourceRow struct {
	GsisID    string
	FantasyID string
	FullName  string
	Team      string
	// DepthRank is the player's depth chart slot when known; ranks 1-2 get
	// highlighted in the unmatched report since they are most consequential.
	DepthRank int
}

// Unmatched records a source row the resolver dropped.
type Unmatched struct {
	FullName  string `json:"full_name"`
	Team      string `json:"team"`
	DepthRank int    `json:"depth_rank,omitempty"`
}

type nameTeamKey struct {
	name string
	team string
}

// Resolver resolves source rows against a loaded identity map.
type Resolver struct {
	byGsis     map[string]*store.IdentityMapping
	byFantasy  map[string]*store.IdentityMapping
	byNameTeam map[nameTeamKey]*store.IdentityMapping
	byName     map[string][]*store.IdentityMapping

	unmatched []Unmatched
	logger    *logrus.Logger
}

// NewResolver builds a resolver over the given identity mappings.
func NewResolver(mappings []*store.IdentityMapping, logger *logrus.Logger) *Resolver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	r := &Resolver{
		byGsis:     make(map[string]*store.IdentityMapping),
		byFantasy:  make(map[string]*store.IdentityMapping),
		byNameTeam: make(map[nameTeamKey]*store.IdentityMapping),
		byName:     make(map[string][]*store.IdentityMapping),
		logger:     logger,
	}

	for _, m := range mappings {
		if m.GsisID.Valid && m.GsisID.String != "" {
			r.byGsis[m.GsisID.String] = m
		}
		if m.FantasyID.Valid && m.FantasyID.String != "" {
			r.byFantasy[m.FantasyID.String] = m
		}

		name := NormalizeName(m.FullName)
		team := strings.ToUpper(strings.TrimSpace(m.Team))
		key := nameTeamKey{name: name, team: team}

		// Same (name, team) seen twice: keep the most recent assignment.
		if existing, ok := r.byNameTeam[key]; !ok || moreRecent(m, existing) {
			r.byNameTeam[key] = m
		}
		r.byName[name] = append(r.byName[name], m)
	}

	return r
}

// Resolve returns the canonical id for a source row, or ok=false when the
// row cannot be resolved. Resolution order: exact GSIS id, exact fantasy-host
// id, then normalized (name, team). A name that matches multiple teams
// (a midseason trade) resolves to the most recent team assignment.
func (r *Resolver) Resolve(row SourceRow) (string, bool) {
	if row.GsisID != "" {
		if m, ok := r.byGsis[row.GsisID]; ok {
			return m.CanonicalID, true
		}
	}

	if row.FantasyID != "" {
		if m, ok := r.byFantasy[row.FantasyID]; ok {
			return m.CanonicalID, true
		}
	}

	name := NormalizeName(row.FullName)
	team := strings.ToUpper(strings.TrimSpace(row.Team))
	if m, ok := r.byNameTeam[nameTeamKey{name: name, team: team}]; ok {
		return m.CanonicalID, true
	}

	// Name-only fallback for trades: the map's team no longer matches the
	// source row, so take the most recent assignment for that name.
	if candidates := r.byName[name]; len(candidates) > 0 {
		best := candidates[0]
		for _, c := range candidates[1:] {
			if moreRecent(c, best) {
				best = c
			}
		}
		return best.CanonicalID, true
	}

	r.drop(row)
	return "", false
}

// drop records an unmatched row and logs it; top-2 depth chart entries get a
// warning since losing them skews the derived tables most.
func (r *Resolver) drop(row SourceRow) {
	r.unmatched = append(r.unmatched, Unmatched{
		FullName:  row.FullName,
		Team:      row.Team,
		DepthRank: row.DepthRank,
	})

	fields := logrus.Fields{"player": row.FullName, "team": row.Team}
	if row.DepthRank > 0 && row.DepthRank <= 2 {
		r.logger.WithFields(fields).Warnf("⚠ unmatched top-%d depth chart player", row.DepthRank)
		return
	}
	r.logger.WithFields(fields).Info("unmatched player dropped")
}

// UnmatchedRows returns everything dropped so far, for the job summary.
func (r *Resolver) UnmatchedRows() []Unmatched {
	return r.unmatched
}

var (
	suffixRe     = regexp.MustCompile(`\s+(jr|sr|ii|iii|iv|v)\.?$`)
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9 ]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeName lowercases a full name and strips punctuation, generational
// suffixes, and repeated whitespace so provider spellings line up.
func NormalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, ".", "")
	n = suffixRe.ReplaceAllString(n, "")
	n = nonAlnumRe.ReplaceAllString(n, "")
	n = whitespaceRe.ReplaceAllString(n, " ")
	return strings.TrimSpace(n)
}

// moreRecent reports whether a's (season, week) is strictly newer than b's.
func moreRecent(a, b *store.IdentityMapping) bool {
	if a.Season != b.Season {
		return a.Season > b.Season
	}
	return a.Week > b.Week
}
