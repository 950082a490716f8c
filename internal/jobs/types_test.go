package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestValidate(t *testing.T) {
	valid := Request{Type: JobTypePlays, Season: 2025}
	require.NoError(t, valid.Validate())

	badType := Request{Type: "bogus", Season: 2025}
	assert.Error(t, badType.Validate())

	badSeason := Request{Type: JobTypePlays, Season: 1998}
	assert.Error(t, badSeason.Validate())

	badWeek := Request{Type: JobTypePlays, Season: 2025, Weeks: []int{0}}
	assert.Error(t, badWeek.Validate())
}

func TestFullJobExpandsToOrderedStages(t *testing.T) {
	stages := JobSpec{Type: JobTypeFull}.stages()
	require.Len(t, stages, 6)

	// Ingest stages must precede the derived-table stages that read bronze.
	assert.Equal(t, JobTypeReference, stages[0])
	assert.Equal(t, JobTypePlays, stages[1])
	assert.Equal(t, JobTypeWeekly, stages[2])
	assert.Equal(t, JobTypeSplits, stages[3])
	assert.Equal(t, JobTypeUsage, stages[4])
	assert.Equal(t, JobTypeTeamContext, stages[5])
}

func TestSingleJobIsItsOwnStage(t *testing.T) {
	stages := JobSpec{Type: JobTypeUsage}.stages()
	require.Len(t, stages, 1)
	assert.Equal(t, JobTypeUsage, stages[0])
}
