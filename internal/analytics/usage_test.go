package analytics

import (
	"database/sql"
	"testing"

	"github.com/fortuna/gridiron/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetShareComputation(t *testing.T) {
	plays := []*store.Play{
		testPlay(1, 0.5, asTarget("00-0101")),
		testPlay(1, 0.5, asTarget("00-0101")),
		testPlay(1, 0.5, asTarget("00-0202")),
		testPlay(1, 0.5, asTarget("00-0202")),
	}

	records := ComputeUsage(2025, plays)
	require.Len(t, records, 2)

	for _, u := range records {
		assert.InDelta(t, 0.5, u.TargetShare, 1e-9)
		assert.Equal(t, 2, u.Targets)
		assert.Equal(t, 4, u.TeamPassPlays)
	}
}

// Shares must land in [0,1] even when a team logged zero plays of a kind.
func TestSharesBoundedWithZeroDenominator(t *testing.T) {
	// Only rushes: the pass-play denominator for this offense is zero.
	plays := []*store.Play{
		testPlay(1, 0.5, asRush("00-0303")),
	}

	records := ComputeUsage(2025, plays)
	require.Len(t, records, 1)

	u := records[0]
	assert.GreaterOrEqual(t, u.TargetShare, 0.0)
	assert.LessOrEqual(t, u.TargetShare, 1.0)
	assert.GreaterOrEqual(t, u.CarryShare, 0.0)
	assert.LessOrEqual(t, u.CarryShare, 1.0)
	assert.InDelta(t, 1.0, u.CarryShare, 1e-9)
}

func TestGapZoneCarrySplit(t *testing.T) {
	gap := testPlay(1, 0.5, asRush("00-0404"))
	gap.RunGap = sql.NullString{String: "guard", Valid: true}

	zone := testPlay(1, 0.5, asRush("00-0404"))
	zone.RunGap = sql.NullString{String: "end", Valid: true}

	noGap := testPlay(1, 0.5, asRush("00-0404"))

	records := ComputeUsage(2025, []*store.Play{gap, zone, noGap})
	require.Len(t, records, 1)

	u := records[0]
	assert.Equal(t, 3, u.Carries)
	assert.Equal(t, 1, u.GapCarries)
	assert.Equal(t, 2, u.ZoneCarries)
	assert.Equal(t, u.Carries, u.GapCarries+u.ZoneCarries)
}

func TestKneelsExcludedFromUsage(t *testing.T) {
	kneel := testPlay(1, 0.99, asRush("00-0505"))
	kneel.QBKneel = true

	records := ComputeUsage(2025, []*store.Play{kneel})
	assert.Empty(t, records)
}

func TestEnrichUsageJoinsSnapAndRouteData(t *testing.T) {
	plays := []*store.Play{
		testPlay(1, 0.5, asTarget("00-0101")),
		testPlay(1, 0.5, asTarget("00-0101")),
		testPlay(1, 0.5, asTarget("00-0202")),
		testPlay(1, 0.5, asTarget("00-0202")),
	}

	records := ComputeUsage(2025, plays)
	require.Len(t, records, 2)

	stats := []*store.PlayerWeekStat{
		{
			Season:    2025,
			Week:      1,
			PlayerID:  "00-0101",
			Position:  "WR",
			SnapShare: sql.NullFloat64{Float64: 0.85, Valid: true},
			RoutesRun: sql.NullFloat64{Float64: 3, Valid: true},
		},
	}

	EnrichUsage(records, stats)

	var matched, unmatched *store.UsageRecord
	for _, u := range records {
		if u.PlayerID == "00-0101" {
			matched = u
		} else {
			unmatched = u
		}
	}
	require.NotNil(t, matched)
	require.NotNil(t, unmatched)

	assert.Equal(t, "WR", matched.Position)
	require.True(t, matched.SnapShare.Valid)
	assert.InDelta(t, 0.85, matched.SnapShare.Float64, 1e-9)
	require.True(t, matched.RouteParticipation.Valid)
	assert.InDelta(t, 0.75, matched.RouteParticipation.Float64, 1e-9) // 3 routes / 4 pass plays

	// No stat line for this player: snap fields stay null.
	assert.False(t, unmatched.SnapShare.Valid)
	assert.False(t, unmatched.RouteParticipation.Valid)
	assert.Empty(t, unmatched.Position)
}

// Route estimates can exceed the team's pass-play count; participation clamps.
func TestEnrichUsageClampsEstimatedRoutes(t *testing.T) {
	records := ComputeUsage(2025, []*store.Play{testPlay(1, 0.5, asTarget("00-0101"))})
	require.Len(t, records, 1)

	EnrichUsage(records, []*store.PlayerWeekStat{
		{
			Season:    2025,
			Week:      1,
			PlayerID:  "00-0101",
			RoutesRun: sql.NullFloat64{Float64: 38.5, Valid: true},
		},
	})

	require.True(t, records[0].RouteParticipation.Valid)
	assert.Equal(t, 1.0, records[0].RouteParticipation.Float64)
}

func TestSafeShareNeverExceedsOne(t *testing.T) {
	assert.Equal(t, 0.0, safeShare(5, 0))
	assert.Equal(t, 1.0, safeShare(7, 7))
	assert.Equal(t, 1.0, safeShare(9, 7)) // clamp, never >1
	assert.InDelta(t, 0.25, safeShare(1, 4), 1e-9)
}
