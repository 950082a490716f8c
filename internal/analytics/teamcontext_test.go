package analytics

import (
	"testing"

	"github.com/fortuna/gridiron/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamContextMirrorsOffenseAndDefense(t *testing.T) {
	p1 := testPlay(1, 0.5, asTarget("00-0101"))
	p1.EPA = nullFloat(0.5)
	p2 := testPlay(1, 0.5, asRush("00-0202"))
	p2.EPA = nullFloat(-0.3)

	offense, defense := ComputeTeamContext(2025, []*store.Play{p1, p2})
	require.Len(t, offense, 1)
	require.Len(t, defense, 1)

	off := offense[0]
	def := defense[0]

	assert.Equal(t, "KC", off.Team)
	assert.Equal(t, "BUF", def.Team)
	assert.Equal(t, off.Plays, def.Plays)
	assert.InDelta(t, off.EPAPerPlay, def.EPAPerPlay, 1e-9)
	assert.InDelta(t, 0.1, off.EPAPerPlay, 1e-9)
	assert.InDelta(t, 0.5, off.PassRate, 1e-9)
	assert.InDelta(t, 0.5, off.SuccessRate, 1e-9)
}

func TestTeamContextSkipsKneelsAndMissingEPA(t *testing.T) {
	kneel := testPlay(1, 0.9, asRush("00-0303"))
	kneel.QBKneel = true

	noEPA := testPlay(1, 0.5, asTarget("00-0404"))
	noEPA.EPA.Valid = false

	offense, defense := ComputeTeamContext(2025, []*store.Play{kneel, noEPA})
	assert.Empty(t, offense)
	assert.Empty(t, defense)
}

func TestTeamContextRatesBounded(t *testing.T) {
	plays := []*store.Play{}
	for i := 0; i < 10; i++ {
		p := testPlay(1, 0.5, asTarget("00-0505"))
		p.PlayID = i + 1
		p.EPA = nullFloat(float64(i%3) - 1) // mix of -1, 0, 1
		plays = append(plays, p)
	}

	offense, _ := ComputeTeamContext(2025, plays)
	require.Len(t, offense, 1)

	off := offense[0]
	assert.GreaterOrEqual(t, off.SuccessRate, 0.0)
	assert.LessOrEqual(t, off.SuccessRate, 1.0)
	assert.GreaterOrEqual(t, off.PassRate, 0.0)
	assert.LessOrEqual(t, off.PassRate, 1.0)
}
