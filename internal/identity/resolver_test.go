package identity

import (
	"database/sql"
	"io"
	"testing"

	"github.com/fortuna/gridiron/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func mapping(canonical, gsis, fantasy, name, team string, season, week int) *store.IdentityMapping {
	return &store.IdentityMapping{
		CanonicalID: canonical,
		GsisID:      sql.NullString{String: gsis, Valid: gsis != ""},
		FantasyID:   sql.NullString{String: fantasy, Valid: fantasy != ""},
		FullName:    name,
		Team:        team,
		Position:    "WR",
		Season:      season,
		Week:        week,
	}
}

func TestResolveByGsisID(t *testing.T) {
	r := NewResolver([]*store.IdentityMapping{
		mapping("P1", "00-0101", "", "Amon-Ra St. Brown", "DET", 2025, 1),
	}, quietLogger())

	id, ok := r.Resolve(SourceRow{GsisID: "00-0101", FullName: "wrong name", Team: "SEA"})
	require.True(t, ok)
	assert.Equal(t, "P1", id)
}

func TestResolveByFantasyID(t *testing.T) {
	r := NewResolver([]*store.IdentityMapping{
		mapping("P2", "", "f-555", "CeeDee Lamb", "DAL", 2025, 1),
	}, quietLogger())

	id, ok := r.Resolve(SourceRow{FantasyID: "f-555"})
	require.True(t, ok)
	assert.Equal(t, "P2", id)
}

func TestResolveByNameAndTeam(t *testing.T) {
	r := NewResolver([]*store.IdentityMapping{
		mapping("P3", "00-0303", "", "Marvin Harrison Jr.", "ARI", 2025, 1),
	}, quietLogger())

	// Provider spelling differs in case, punctuation, and suffix.
	id, ok := r.Resolve(SourceRow{FullName: "marvin harrison", Team: "ari"})
	require.True(t, ok)
	assert.Equal(t, "P3", id)
}

// A traded player resolves to the most recent team assignment even when the
// source row still carries the old team.
func TestTradeResolvesToMostRecentTeam(t *testing.T) {
	r := NewResolver([]*store.IdentityMapping{
		mapping("OLD", "", "", "Davante Adams", "LV", 2025, 4),
		mapping("NEW", "", "", "Davante Adams", "NYJ", 2025, 6),
	}, quietLogger())

	id, ok := r.Resolve(SourceRow{FullName: "Davante Adams", Team: "MIA"})
	require.True(t, ok)
	assert.Equal(t, "NEW", id)
}

func TestTradeAcrossSeasonsPrefersNewerSeason(t *testing.T) {
	r := NewResolver([]*store.IdentityMapping{
		mapping("S24", "", "", "Stefon Diggs", "BUF", 2024, 18),
		mapping("S25", "", "", "Stefon Diggs", "HOU", 2025, 1),
	}, quietLogger())

	id, ok := r.Resolve(SourceRow{FullName: "Stefon Diggs", Team: ""})
	require.True(t, ok)
	assert.Equal(t, "S25", id)
}

func TestUnmatchedRowDroppedAndRecorded(t *testing.T) {
	r := NewResolver(nil, quietLogger())

	_, ok := r.Resolve(SourceRow{FullName: "Practice Squad Guy", Team: "KC", DepthRank: 1})
	assert.False(t, ok)

	dropped := r.UnmatchedRows()
	require.Len(t, dropped, 1)
	assert.Equal(t, "Practice Squad Guy", dropped[0].FullName)
	assert.Equal(t, 1, dropped[0].DepthRank)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "aj brown", NormalizeName("A.J. Brown"))
	assert.Equal(t, "odell beckham", NormalizeName("Odell Beckham Jr."))
	assert.Equal(t, "will fuller", NormalizeName("Will Fuller V"))
	assert.Equal(t, "kenneth walker", NormalizeName("  Kenneth  Walker III "))
	assert.Equal(t, "amonra st brown", NormalizeName("Amon-Ra St. Brown"))
}
