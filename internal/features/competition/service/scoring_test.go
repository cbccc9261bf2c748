package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishing-tournament-backend/internal/features/competition/models"
)

func entryWith(weight float64, length *float64, caughtAt time.Time) *models.Entry {
	return &models.Entry{
		ID:       "e1",
		Species:  "pike",
		WeightKG: weight,
		LengthCM: length,
		CaughtAt: caughtAt,
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestScoreTotalWeight(t *testing.T) {
	rules := DefaultScoringRules()

	points, tieBreak, err := rules.Score(entryWith(8.2, floatPtr(94), time.Now()), models.ScoringTotalWeight)
	require.NoError(t, err)
	assert.Equal(t, int64(82), points)
	assert.Equal(t, 8.2, tieBreak)

	// Rounding, not truncation.
	points, _, err = rules.Score(entryWith(8.25, nil, time.Now()), models.ScoringTotalWeight)
	require.NoError(t, err)
	assert.Equal(t, int64(83), points)
}

func TestScoreTotalWeightWithoutLength(t *testing.T) {
	rules := DefaultScoringRules()

	points, tieBreak, err := rules.Score(entryWith(5.0, nil, time.Now()), models.ScoringTotalWeight)
	require.NoError(t, err)
	assert.Equal(t, int64(50), points)
	assert.Equal(t, 5.0, tieBreak)
}

func TestScoreTotalLength(t *testing.T) {
	rules := DefaultScoringRules()

	points, tieBreak, err := rules.Score(entryWith(3.4, floatPtr(61.5), time.Now()), models.ScoringTotalLength)
	require.NoError(t, err)
	assert.Equal(t, int64(308), points)
	assert.Equal(t, 61.5, tieBreak)
}

func TestScoreTotalLengthRequiresMeasurement(t *testing.T) {
	rules := DefaultScoringRules()

	_, _, err := rules.Score(entryWith(3.4, nil, time.Now()), models.ScoringTotalLength)
	assert.Error(t, err)
}

func TestScoreCatchCountEarlierCatchWinsTieBreak(t *testing.T) {
	rules := DefaultScoringRules()
	early := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	late := early.Add(3 * time.Hour)

	pEarly, tbEarly, err := rules.Score(entryWith(2, nil, early), models.ScoringCatchCount)
	require.NoError(t, err)
	pLate, tbLate, err := rules.Score(entryWith(2, nil, late), models.ScoringCatchCount)
	require.NoError(t, err)

	assert.Equal(t, pEarly, pLate)
	// The descending tie-break sort must put the earlier catch first.
	assert.Greater(t, tbEarly, tbLate)
}

func TestScoreUnknownType(t *testing.T) {
	rules := DefaultScoringRules()

	_, _, err := rules.Score(entryWith(1, nil, time.Now()), models.ScoringType("bogus"))
	assert.Error(t, err)
}

func TestScoreIsPure(t *testing.T) {
	rules := DefaultScoringRules()
	entry := entryWith(6.7, floatPtr(80), time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))

	p1, tb1, err := rules.Score(entry, models.ScoringTotalWeight)
	require.NoError(t, err)
	p2, tb2, err := rules.Score(entry, models.ScoringTotalWeight)
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, tb1, tb2)
}
