package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fishing-tournament-backend/internal/features/competition/models"
	"fishing-tournament-backend/internal/features/competition/repository"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateCompetition(ctx context.Context, competition *models.Competition) error {
	return r.db.WithContext(ctx).Create(competition).Error
}

func (r *Repository) GetCompetition(ctx context.Context, id string) (*models.Competition, error) {
	var competition models.Competition
	err := r.db.WithContext(ctx).First(&competition, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrCompetitionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &competition, nil
}

func (r *Repository) ListCompetitions(ctx context.Context, phase models.Phase) ([]*models.Competition, error) {
	var competitions []*models.Competition
	q := r.db.WithContext(ctx).Order("starts_at DESC")
	if phase != "" {
		q = q.Where("phase = ?", phase)
	}
	if err := q.Find(&competitions).Error; err != nil {
		return nil, err
	}
	return competitions, nil
}

func (r *Repository) GetSchedulable(ctx context.Context) ([]*models.Competition, error) {
	var competitions []*models.Competition
	err := r.db.WithContext(ctx).
		Where("phase NOT IN ?", []models.Phase{models.PhaseCompleted, models.PhaseCancelled}).
		Find(&competitions).Error
	if err != nil {
		return nil, err
	}
	return competitions, nil
}

// UpdatePhase relies on the WHERE predicate for atomicity: only one writer
// can move a competition out of a given phase. Transitions outside the phase
// machine are refused before touching the row.
func (r *Repository) UpdatePhase(ctx context.Context, id string, from, to models.Phase) (bool, error) {
	if !from.CanTransitionTo(to) {
		return false, models.ErrInvalidTransition
	}
	result := r.db.WithContext(ctx).Model(&models.Competition{}).
		Where("id = ? AND phase = ?", id, from).
		Updates(map[string]interface{}{"phase": to, "updated_at": time.Now()})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) CancelCompetition(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Competition{}).
		Where("id = ? AND phase NOT IN ?", id, []models.Phase{models.PhaseCompleted, models.PhaseCancelled}).
		Updates(map[string]interface{}{"phase": models.PhaseCancelled, "updated_at": time.Now()})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) CreateParticipant(ctx context.Context, participant *models.Participant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}

func (r *Repository) GetParticipant(ctx context.Context, id string) (*models.Participant, error) {
	var participant models.Participant
	err := r.db.WithContext(ctx).First(&participant, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrParticipantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *Repository) GetParticipants(ctx context.Context, competitionID string) ([]*models.Participant, error) {
	var participants []*models.Participant
	err := r.db.WithContext(ctx).
		Where("competition_id = ?", competitionID).
		Order("registered_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *Repository) CountRegistered(ctx context.Context, competitionID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Participant{}).
		Where("competition_id = ? AND status = ?", competitionID, models.ParticipantStatusRegistered).
		Count(&count).Error
	return int(count), err
}

func (r *Repository) IsRegistered(ctx context.Context, competitionID, anglerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Participant{}).
		Where("competition_id = ? AND angler_id = ? AND status IN ?",
			competitionID, anglerID,
			[]models.ParticipantStatus{models.ParticipantStatusRegistered, models.ParticipantStatusWaitlisted}).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) UpdateParticipantStatus(ctx context.Context, id string, status models.ParticipantStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Participant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrParticipantNotFound
	}
	return nil
}

func (r *Repository) CreateEntry(ctx context.Context, entry *models.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *Repository) GetEntry(ctx context.Context, id string) (*models.Entry, error) {
	var entry models.Entry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *Repository) UpdateEntry(ctx context.Context, entry *models.Entry) error {
	entry.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *Repository) GetApprovedEntries(ctx context.Context, competitionID string) ([]*models.Entry, error) {
	var entries []*models.Entry
	err := r.db.WithContext(ctx).
		Where("competition_id = ? AND state = ?", competitionID, models.VerificationApproved).
		Order("caught_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *Repository) CountEntriesOnDay(ctx context.Context, participantID string, day time.Time) (int, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Entry{}).
		Where("participant_id = ? AND state <> ? AND caught_at >= ? AND caught_at < ?",
			participantID, models.VerificationRejected, dayStart, dayEnd).
		Count(&count).Error
	return int(count), err
}

func (r *Repository) SaveSnapshot(ctx context.Context, snapshot *models.StandingsSnapshot) error {
	return r.db.WithContext(ctx).Save(snapshot).Error
}

func (r *Repository) GetSnapshot(ctx context.Context, competitionID string) (*models.StandingsSnapshot, error) {
	var snapshot models.StandingsSnapshot
	err := r.db.WithContext(ctx).First(&snapshot, "competition_id = ?", competitionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// CreateAwards checks for existing awards and inserts inside one transaction
// so a concurrent allocator cannot double-pay.
func (r *Repository) CreateAwards(ctx context.Context, competitionID string, awards []*models.Award) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Award{}).
			Where("competition_id = ?", competitionID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if len(awards) == 0 {
			created = true
			return nil
		}
		if err := tx.Create(awards).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

func (r *Repository) GetAwards(ctx context.Context, competitionID string) ([]*models.Award, error) {
	var awards []*models.Award
	err := r.db.WithContext(ctx).
		Where("competition_id = ?", competitionID).
		Order("rank ASC, category ASC").
		Find(&awards).Error
	if err != nil {
		return nil, err
	}
	return awards, nil
}
