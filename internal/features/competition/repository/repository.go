package repository

import (
	"context"
	"errors"
	"time"

	"fishing-tournament-backend/internal/features/competition/models"
)

var (
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrEntryNotFound       = errors.New("entry not found")
	ErrSnapshotNotFound    = errors.New("standings snapshot not found")
)

// Repository is the persistence surface for the competition feature.
type Repository interface {
	CreateCompetition(ctx context.Context, competition *models.Competition) error
	GetCompetition(ctx context.Context, id string) (*models.Competition, error)
	ListCompetitions(ctx context.Context, phase models.Phase) ([]*models.Competition, error)
	// GetSchedulable returns every competition in a non-terminal phase.
	GetSchedulable(ctx context.Context) ([]*models.Competition, error)
	// UpdatePhase performs a compare-and-set on the phase column. It returns
	// false when the competition was no longer in the expected phase.
	UpdatePhase(ctx context.Context, id string, from, to models.Phase) (bool, error)
	// CancelCompetition sets the cancelled phase unless the competition is
	// already terminal. It returns false when the terminal state won.
	CancelCompetition(ctx context.Context, id string) (bool, error)

	CreateParticipant(ctx context.Context, participant *models.Participant) error
	GetParticipant(ctx context.Context, id string) (*models.Participant, error)
	GetParticipants(ctx context.Context, competitionID string) ([]*models.Participant, error)
	CountRegistered(ctx context.Context, competitionID string) (int, error)
	IsRegistered(ctx context.Context, competitionID, anglerID string) (bool, error)
	UpdateParticipantStatus(ctx context.Context, id string, status models.ParticipantStatus) error

	CreateEntry(ctx context.Context, entry *models.Entry) error
	GetEntry(ctx context.Context, id string) (*models.Entry, error)
	UpdateEntry(ctx context.Context, entry *models.Entry) error
	GetApprovedEntries(ctx context.Context, competitionID string) ([]*models.Entry, error)
	// CountEntriesOnDay counts a participant's non-rejected entries whose
	// capture time falls on the given UTC day.
	CountEntriesOnDay(ctx context.Context, participantID string, day time.Time) (int, error)

	SaveSnapshot(ctx context.Context, snapshot *models.StandingsSnapshot) error
	GetSnapshot(ctx context.Context, competitionID string) (*models.StandingsSnapshot, error)

	// CreateAwards persists all awards for a competition in one transaction.
	// It is a no-op returning false when awards already exist.
	CreateAwards(ctx context.Context, competitionID string, awards []*models.Award) (bool, error)
	GetAwards(ctx context.Context, competitionID string) ([]*models.Award, error)
}
