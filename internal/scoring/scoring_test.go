package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPPRReceivingLine(t *testing.T) {
	// 5 rec, 80 yds, 1 TD => 5*1.0 + 80*0.1 + 6 = 19.0
	stats := Stats{
		Receptions:     5,
		ReceivingYards: 80,
		ReceivingTDs:   1,
	}

	assert.InDelta(t, 19.0, PPR(stats), 1e-9)
}

func TestHalfPPRWeighsReceptionsAtHalf(t *testing.T) {
	stats := Stats{
		Receptions:     5,
		ReceivingYards: 80,
		ReceivingTDs:   1,
	}

	assert.InDelta(t, 16.5, HalfPPR(stats), 1e-9)
}

func TestPassingLine(t *testing.T) {
	// 300 pass yds, 2 TD, 1 INT => 12 + 8 - 2 = 18.0
	stats := Stats{
		PassingYards:  300,
		PassingTDs:    2,
		Interceptions: 1,
	}

	assert.InDelta(t, 18.0, PPR(stats), 1e-9)
}

func TestZeroStatsScoreZero(t *testing.T) {
	assert.Zero(t, PPR(Stats{}))
	assert.Zero(t, HalfPPR(Stats{}))
}

func TestFumblePenaltyOnlyInHalfPPR(t *testing.T) {
	stats := Stats{RushingYards: 100, FumblesLost: 1}

	assert.InDelta(t, 10.0, PPR(stats), 1e-9)
	assert.InDelta(t, 8.0, HalfPPR(stats), 1e-9)
}

// Each positively-weighted stat must not decrease the total, and the
// negatively-weighted stats must not increase it.
func TestMonotonicity(t *testing.T) {
	base := Stats{
		Receptions:     3,
		ReceivingYards: 40,
		ReceivingTDs:   1,
		RushingYards:   25,
		RushingTDs:     1,
		PassingYards:   150,
		PassingTDs:     1,
		Interceptions:  1,
		FumblesLost:    1,
	}
	basePoints := PPR(base)

	increments := []struct {
		name   string
		bump   func(Stats) Stats
		upward bool
	}{
		{"receptions", func(s Stats) Stats { s.Receptions++; return s }, true},
		{"receiving_yards", func(s Stats) Stats { s.ReceivingYards += 10; return s }, true},
		{"receiving_tds", func(s Stats) Stats { s.ReceivingTDs++; return s }, true},
		{"rushing_yards", func(s Stats) Stats { s.RushingYards += 10; return s }, true},
		{"rushing_tds", func(s Stats) Stats { s.RushingTDs++; return s }, true},
		{"passing_yards", func(s Stats) Stats { s.PassingYards += 25; return s }, true},
		{"passing_tds", func(s Stats) Stats { s.PassingTDs++; return s }, true},
		{"interceptions", func(s Stats) Stats { s.Interceptions++; return s }, false},
	}

	for _, tc := range increments {
		t.Run(tc.name, func(t *testing.T) {
			bumped := PPR(tc.bump(base))
			if tc.upward {
				assert.GreaterOrEqual(t, bumped, basePoints)
			} else {
				assert.LessOrEqual(t, bumped, basePoints)
			}
		})
	}

	// Fumbles only penalize the half-PPR variant.
	halfBase := HalfPPR(base)
	withFumble := base
	withFumble.FumblesLost++
	assert.LessOrEqual(t, HalfPPR(withFumble), halfBase)
}

func TestPointsIsDeterministic(t *testing.T) {
	stats := Stats{Receptions: 7, ReceivingYards: 93, RushingYards: 12, RushingTDs: 1}

	first := Points(stats, RulePPR)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Points(stats, RulePPR))
	}
}
