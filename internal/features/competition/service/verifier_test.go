package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishing-tournament-backend/internal/features/competition/models"
	"fishing-tournament-backend/internal/platform/vision"
)

func activeCompetition() *models.Competition {
	starts := time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC)
	return &models.Competition{
		ID:                   "comp-1",
		ScoringType:          models.ScoringTotalWeight,
		Phase:                models.PhaseActive,
		RegistrationOpensAt:  starts.Add(-48 * time.Hour),
		RegistrationClosesAt: starts.Add(-24 * time.Hour),
		StartsAt:             starts,
		EndsAt:               starts.Add(12 * time.Hour),
		AwardsAt:             starts.Add(36 * time.Hour),
	}
}

func validEntry(c *models.Competition) *models.Entry {
	return &models.Entry{
		ID:            "entry-1",
		CompetitionID: c.ID,
		ParticipantID: "part-1",
		Species:       "pike",
		WeightKG:      4.2,
		LengthCM:      floatPtr(72),
		PhotoRef:      "photos/abc123",
		CaughtAt:      c.StartsAt.Add(2 * time.Hour),
		State:         models.VerificationPending,
	}
}

func newTestVerifier(repo *fakeRepository, analyzer vision.Analyzer) *Verifier {
	return NewVerifier(repo, analyzer, 70, DefaultScoringRules())
}

func TestVerifyApprovesAndScores(t *testing.T) {
	comp := activeCompetition()
	entry := validEntry(comp)
	v := newTestVerifier(newFakeRepository(), approvingAnalyzer())

	require.NoError(t, v.Verify(context.Background(), comp, entry))

	assert.Equal(t, models.VerificationApproved, entry.State)
	assert.Equal(t, int64(42), entry.Points)
	assert.Equal(t, 4.2, entry.TieBreak)
}

func TestVerifyRejectsOutsideWindow(t *testing.T) {
	v := newTestVerifier(newFakeRepository(), approvingAnalyzer())

	t.Run("competition not active", func(t *testing.T) {
		comp := activeCompetition()
		comp.Phase = models.PhaseJudging
		entry := validEntry(comp)

		require.NoError(t, v.Verify(context.Background(), comp, entry))
		assert.Equal(t, models.VerificationRejected, entry.State)
		assert.Equal(t, models.RejectOutOfWindow, entry.RejectReason)
	})

	t.Run("caught before start", func(t *testing.T) {
		comp := activeCompetition()
		entry := validEntry(comp)
		entry.CaughtAt = comp.StartsAt.Add(-time.Minute)

		require.NoError(t, v.Verify(context.Background(), comp, entry))
		assert.Equal(t, models.VerificationRejected, entry.State)
		assert.Equal(t, models.RejectOutOfWindow, entry.RejectReason)
	})

	t.Run("caught after end", func(t *testing.T) {
		comp := activeCompetition()
		entry := validEntry(comp)
		entry.CaughtAt = comp.EndsAt.Add(time.Minute)

		require.NoError(t, v.Verify(context.Background(), comp, entry))
		assert.Equal(t, models.VerificationRejected, entry.State)
	})
}

func TestVerifyRejectsIneligibleSpecies(t *testing.T) {
	comp := activeCompetition()
	comp.TargetSpecies = []string{"trout", "salmon"}
	entry := validEntry(comp) // pike
	v := newTestVerifier(newFakeRepository(), approvingAnalyzer())

	require.NoError(t, v.Verify(context.Background(), comp, entry))
	assert.Equal(t, models.VerificationRejected, entry.State)
	assert.Equal(t, models.RejectSpeciesNotEligible, entry.RejectReason)
}

func TestVerifySizeBounds(t *testing.T) {
	v := newTestVerifier(newFakeRepository(), approvingAnalyzer())

	t.Run("below minimum", func(t *testing.T) {
		comp := activeCompetition()
		comp.MinLengthCM = floatPtr(80)
		entry := validEntry(comp)

		require.NoError(t, v.Verify(context.Background(), comp, entry))
		assert.Equal(t, models.RejectSizeViolation, entry.RejectReason)
	})

	t.Run("above maximum", func(t *testing.T) {
		comp := activeCompetition()
		comp.MaxLengthCM = floatPtr(60)
		entry := validEntry(comp)

		require.NoError(t, v.Verify(context.Background(), comp, entry))
		assert.Equal(t, models.RejectSizeViolation, entry.RejectReason)
	})

	t.Run("bounds without measurement", func(t *testing.T) {
		comp := activeCompetition()
		comp.MinLengthCM = floatPtr(40)
		entry := validEntry(comp)
		entry.LengthCM = nil

		require.NoError(t, v.Verify(context.Background(), comp, entry))
		assert.Equal(t, models.RejectSizeViolation, entry.RejectReason)
	})
}

func TestVerifyEnforcesDailyCatchLimit(t *testing.T) {
	comp := activeCompetition()
	limit := 2
	comp.CatchLimitPerDay = &limit

	repo := newFakeRepository()
	v := newTestVerifier(repo, approvingAnalyzer())

	for i := 0; i < limit; i++ {
		entry := validEntry(comp)
		entry.ID = string(rune('a' + i))
		require.NoError(t, v.Verify(context.Background(), comp, entry))
		require.Equal(t, models.VerificationApproved, entry.State)
		require.NoError(t, repo.CreateEntry(context.Background(), entry))
	}

	over := validEntry(comp)
	over.ID = "over"
	require.NoError(t, v.Verify(context.Background(), comp, over))
	assert.Equal(t, models.VerificationRejected, over.State)
	assert.Equal(t, models.RejectCatchLimitReached, over.RejectReason)
}

func TestVerifyRequiresPhoto(t *testing.T) {
	comp := activeCompetition()
	entry := validEntry(comp)
	entry.PhotoRef = ""
	v := newTestVerifier(newFakeRepository(), approvingAnalyzer())

	require.NoError(t, v.Verify(context.Background(), comp, entry))
	assert.Equal(t, models.VerificationRejected, entry.State)
	assert.Equal(t, models.RejectMissingEvidence, entry.RejectReason)
}

func TestVerifyLowConfidenceGoesToManualReview(t *testing.T) {
	comp := activeCompetition()
	entry := validEntry(comp)
	analyzer := &fakeAnalyzer{result: vision.AnalysisResult{Authentic: true, Confidence: 40}}
	v := newTestVerifier(newFakeRepository(), analyzer)

	require.NoError(t, v.Verify(context.Background(), comp, entry))
	assert.Equal(t, models.VerificationManualReview, entry.State)
	assert.Empty(t, entry.RejectReason)
}

func TestVerifyVisionFailureGoesToManualReview(t *testing.T) {
	comp := activeCompetition()
	entry := validEntry(comp)
	analyzer := &fakeAnalyzer{err: vision.ErrUnavailable}
	v := newTestVerifier(newFakeRepository(), analyzer)

	require.NoError(t, v.Verify(context.Background(), comp, entry))
	assert.Equal(t, models.VerificationManualReview, entry.State)
}

func TestVerifyConfidentFakeIsRejected(t *testing.T) {
	comp := activeCompetition()
	entry := validEntry(comp)
	analyzer := &fakeAnalyzer{result: vision.AnalysisResult{Authentic: false, Confidence: 98}}
	v := newTestVerifier(newFakeRepository(), analyzer)

	require.NoError(t, v.Verify(context.Background(), comp, entry))
	assert.Equal(t, models.VerificationRejected, entry.State)
	assert.Equal(t, models.RejectNotAuthentic, entry.RejectReason)
}
