package service

import (
	"context"

	"fishing-tournament-backend/internal/common/logger"
	"fishing-tournament-backend/internal/features/competition/models"
	"fishing-tournament-backend/internal/features/competition/repository"
	"fishing-tournament-backend/internal/platform/vision"
)

// Verifier runs the ordered validation ladder over a submitted catch. Checks
// short-circuit: the first failure decides the entry's fate.
type Verifier struct {
	repo          repository.Repository
	analyzer      vision.Analyzer
	minConfidence int
	rules         ScoringRules
}

func NewVerifier(repo repository.Repository, analyzer vision.Analyzer, minConfidence int, rules ScoringRules) *Verifier {
	return &Verifier{
		repo:          repo,
		analyzer:      analyzer,
		minConfidence: minConfidence,
		rules:         rules,
	}
}

// Verify decides the entry's verification state in place. Approved entries
// carry their points and tie-break; rejected entries carry the reason.
// A vision failure or low-confidence verdict routes to manual review, it
// never auto-rejects.
func (v *Verifier) Verify(ctx context.Context, competition *models.Competition, entry *models.Entry) error {
	if reason, ok := v.checkWindow(competition, entry); !ok {
		return v.reject(entry, reason)
	}
	if !competition.SpeciesEligible(entry.Species) {
		return v.reject(entry, models.RejectSpeciesNotEligible)
	}
	if !v.sizeWithinBounds(competition, entry) {
		return v.reject(entry, models.RejectSizeViolation)
	}

	if competition.CatchLimitPerDay != nil {
		count, err := v.repo.CountEntriesOnDay(ctx, entry.ParticipantID, entry.CaughtAt.UTC())
		if err != nil {
			return err
		}
		if count >= *competition.CatchLimitPerDay {
			return v.reject(entry, models.RejectCatchLimitReached)
		}
	}

	if entry.PhotoRef == "" {
		return v.reject(entry, models.RejectMissingEvidence)
	}

	result, err := v.analyzer.Analyze(ctx, entry.PhotoRef)
	if err != nil {
		logger.Warn().
			Str("entry_id", entry.ID).
			Err(err).
			Msg("Vision service unavailable, routing entry to manual review")
		entry.State = models.VerificationManualReview
		return nil
	}
	if result.Confidence < v.minConfidence {
		entry.State = models.VerificationManualReview
		return nil
	}
	if !result.Authentic {
		return v.reject(entry, models.RejectNotAuthentic)
	}

	return v.Approve(entry, competition.ScoringType)
}

// Approve scores the entry and marks it approved. Also used by the moderator
// review path.
func (v *Verifier) Approve(entry *models.Entry, scoringType models.ScoringType) error {
	points, tieBreak, err := v.rules.Score(entry, scoringType)
	if err != nil {
		entry.State = models.VerificationRejected
		entry.RejectReason = models.RejectSizeViolation
		return nil
	}
	entry.State = models.VerificationApproved
	entry.RejectReason = ""
	entry.Points = points
	entry.TieBreak = tieBreak
	return nil
}

func (v *Verifier) reject(entry *models.Entry, reason models.RejectReason) error {
	entry.State = models.VerificationRejected
	entry.RejectReason = reason
	return nil
}

func (v *Verifier) checkWindow(competition *models.Competition, entry *models.Entry) (models.RejectReason, bool) {
	if competition.Phase != models.PhaseActive {
		return models.RejectOutOfWindow, false
	}
	if entry.CaughtAt.Before(competition.StartsAt) || entry.CaughtAt.After(competition.EndsAt) {
		return models.RejectOutOfWindow, false
	}
	return "", true
}

func (v *Verifier) sizeWithinBounds(competition *models.Competition, entry *models.Entry) bool {
	if competition.MinLengthCM == nil && competition.MaxLengthCM == nil {
		return true
	}
	// Bounds require a measurement; an absent length cannot prove compliance.
	if entry.LengthCM == nil {
		return false
	}
	if competition.MinLengthCM != nil && *entry.LengthCM < *competition.MinLengthCM {
		return false
	}
	if competition.MaxLengthCM != nil && *entry.LengthCM > *competition.MaxLengthCM {
		return false
	}
	return true
}
