package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fishing-tournament-backend/internal/common/logger"
	"fishing-tournament-backend/internal/features/competition/models"
	"fishing-tournament-backend/internal/features/competition/repository"
	"fishing-tournament-backend/internal/platform/notify"
)

// Allocator emits award records for a completed competition. Allocation is
// idempotent: awards are created at most once per competition.
type Allocator struct {
	repo     repository.Repository
	notifier notify.Notifier
}

func NewAllocator(repo repository.Repository, notifier notify.Notifier) *Allocator {
	return &Allocator{repo: repo, notifier: notifier}
}

// Allocate walks the prize tiers over the frozen standings. Ranked tiers pay
// the row holding that rank; the big-fish tier pays the heaviest single catch
// independent of overall rank. Returns false when awards already existed.
func (a *Allocator) Allocate(ctx context.Context, competition *models.Competition) (bool, error) {
	snapshot, err := a.repo.GetSnapshot(ctx, competition.ID)
	if err != nil {
		return false, fmt.Errorf("failed to load frozen standings: %w", err)
	}

	awards := buildAwards(competition, snapshot.Standings)

	created, err := a.repo.CreateAwards(ctx, competition.ID, awards)
	if err != nil {
		return false, err
	}
	if !created {
		logger.Info().
			Str("competition_id", competition.ID).
			Msg("Awards already allocated, skipping")
		return false, nil
	}

	logger.Info().
		Str("competition_id", competition.ID).
		Int("awards", len(awards)).
		Msg("Awards allocated")

	go a.notifyWinners(competition, awards)
	return true, nil
}

func buildAwards(competition *models.Competition, standings []models.LeaderboardEntry) []*models.Award {
	now := time.Now()
	awards := make([]*models.Award, 0, len(competition.PrizeTiers))

	for _, tier := range competition.PrizeTiers {
		var winner *models.LeaderboardEntry
		if tier.Category == models.AwardBigFish {
			winner = biggestFish(standings)
		} else {
			winner = rowAtRank(standings, tier.Rank)
		}
		if winner == nil {
			continue
		}
		awards = append(awards, &models.Award{
			ID:            uuid.New().String(),
			CompetitionID: competition.ID,
			ParticipantID: winner.ParticipantID,
			Category:      tier.Category,
			Rank:          tier.Rank,
			Amount:        tier.Amount,
			PaymentStatus: models.PaymentStatusPending,
			CreatedAt:     now,
		})
	}

	return awards
}

// rowAtRank returns the first row holding the given shared rank.
func rowAtRank(standings []models.LeaderboardEntry, rank int) *models.LeaderboardEntry {
	for i := range standings {
		if standings[i].Rank == rank {
			return &standings[i]
		}
	}
	return nil
}

func biggestFish(standings []models.LeaderboardEntry) *models.LeaderboardEntry {
	var best *models.LeaderboardEntry
	for i := range standings {
		if best == nil || standings[i].BiggestWeightKG > best.BiggestWeightKG {
			best = &standings[i]
		}
	}
	return best
}

func (a *Allocator) notifyWinners(competition *models.Competition, awards []*models.Award) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, award := range awards {
		msg := notify.Message{
			ParticipantID: award.ParticipantID,
			Subject:       fmt.Sprintf("You won a prize in %s", competition.Title),
			Body: fmt.Sprintf("Congratulations! You won the %s prize (%.2f) in %s.",
				award.Category, award.Amount, competition.Title),
		}
		if err := a.notifier.Send(ctx, msg); err != nil {
			logger.Warn().
				Str("competition_id", competition.ID).
				Str("participant_id", award.ParticipantID).
				Err(err).
				Msg("Failed to send winner notification")
		}
	}
}
