package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishing-tournament-backend/internal/features/competition/models"
)

func competitionWithPrizes() *models.Competition {
	comp := activeCompetition()
	comp.PrizeTiers = []models.PrizeTier{
		{Category: models.AwardFirst, Rank: 1, Amount: 500},
		{Category: models.AwardSecond, Rank: 2, Amount: 250},
		{Category: models.AwardThird, Rank: 3, Amount: 100},
		{Category: models.AwardBigFish, Amount: 150},
	}
	return comp
}

func frozenStandings(t *testing.T, repo *fakeRepository, comp *models.Competition, standings []models.LeaderboardEntry) {
	t.Helper()
	require.NoError(t, repo.SaveSnapshot(context.Background(), &models.StandingsSnapshot{
		CompetitionID: comp.ID,
		Standings:     standings,
		FrozenAt:      time.Now(),
	}))
}

func TestAllocateCreatesAwardsFromFrozenStandings(t *testing.T) {
	repo := newFakeRepository()
	comp := competitionWithPrizes()
	allocator := NewAllocator(repo, &fakeNotifier{})

	frozenStandings(t, repo, comp, []models.LeaderboardEntry{
		{Rank: 1, ParticipantID: "alice", TotalScore: 82, BiggestWeightKG: 8.2},
		{Rank: 2, ParticipantID: "bob", TotalScore: 75, BiggestWeightKG: 9.4},
		{Rank: 3, ParticipantID: "carol", TotalScore: 60, BiggestWeightKG: 6.0},
	})

	created, err := allocator.Allocate(context.Background(), comp)
	require.NoError(t, err)
	assert.True(t, created)

	awards, err := repo.GetAwards(context.Background(), comp.ID)
	require.NoError(t, err)
	require.Len(t, awards, 4)

	byCategory := make(map[models.AwardCategory]*models.Award)
	for _, a := range awards {
		byCategory[a.Category] = a
		assert.Equal(t, models.PaymentStatusPending, a.PaymentStatus)
	}

	assert.Equal(t, "alice", byCategory[models.AwardFirst].ParticipantID)
	assert.Equal(t, 500.0, byCategory[models.AwardFirst].Amount)
	assert.Equal(t, "bob", byCategory[models.AwardSecond].ParticipantID)
	assert.Equal(t, "carol", byCategory[models.AwardThird].ParticipantID)
	// Big fish goes to the heaviest single catch, not the overall leader.
	assert.Equal(t, "bob", byCategory[models.AwardBigFish].ParticipantID)
}

func TestAllocateIsIdempotent(t *testing.T) {
	repo := newFakeRepository()
	comp := competitionWithPrizes()
	allocator := NewAllocator(repo, &fakeNotifier{})

	frozenStandings(t, repo, comp, []models.LeaderboardEntry{
		{Rank: 1, ParticipantID: "alice", TotalScore: 82, BiggestWeightKG: 8.2},
	})

	created, err := allocator.Allocate(context.Background(), comp)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = allocator.Allocate(context.Background(), comp)
	require.NoError(t, err)
	assert.False(t, created)

	awards, err := repo.GetAwards(context.Background(), comp.ID)
	require.NoError(t, err)
	// First and big fish only; ranks 2 and 3 have no holder.
	assert.Len(t, awards, 2)
}

func TestAllocateSkipsUnfilledRanks(t *testing.T) {
	repo := newFakeRepository()
	comp := competitionWithPrizes()
	allocator := NewAllocator(repo, &fakeNotifier{})

	// Shared first place: rank 2 is never held, rank 3 is.
	frozenStandings(t, repo, comp, []models.LeaderboardEntry{
		{Rank: 1, ParticipantID: "alice", TotalScore: 82, BiggestWeightKG: 8.2},
		{Rank: 1, ParticipantID: "bob", TotalScore: 82, BiggestWeightKG: 8.2},
		{Rank: 3, ParticipantID: "carol", TotalScore: 60, BiggestWeightKG: 5.0},
	})

	created, err := allocator.Allocate(context.Background(), comp)
	require.NoError(t, err)
	assert.True(t, created)

	awards, err := repo.GetAwards(context.Background(), comp.ID)
	require.NoError(t, err)

	categories := make([]models.AwardCategory, 0, len(awards))
	for _, a := range awards {
		categories = append(categories, a.Category)
	}
	assert.NotContains(t, categories, models.AwardSecond)
	assert.Contains(t, categories, models.AwardThird)
}

func TestAllocateFailsWithoutSnapshot(t *testing.T) {
	repo := newFakeRepository()
	comp := competitionWithPrizes()
	allocator := NewAllocator(repo, &fakeNotifier{})

	_, err := allocator.Allocate(context.Background(), comp)
	assert.Error(t, err)
}
