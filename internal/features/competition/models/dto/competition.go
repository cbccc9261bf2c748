package dto

import (
	"time"

	"fishing-tournament-backend/internal/features/competition/models"
)

// CreateCompetitionRequest carries the payload for POST /competitions.
type CreateCompetitionRequest struct {
	Title       string             `json:"title" binding:"required,min=3,max=120"`
	Description string             `json:"description" binding:"max=2000"`
	ScoringType models.ScoringType `json:"scoring_type" binding:"required"`

	RegistrationOpensAt  time.Time `json:"registration_opens_at" binding:"required"`
	RegistrationClosesAt time.Time `json:"registration_closes_at" binding:"required"`
	StartsAt             time.Time `json:"starts_at" binding:"required"`
	EndsAt               time.Time `json:"ends_at" binding:"required"`
	AwardsAt             time.Time `json:"awards_at" binding:"required"`

	MaxParticipants int  `json:"max_participants" binding:"min=0"`
	TeamSize        int  `json:"team_size" binding:"min=0"`
	AllowWaitlist   bool `json:"allow_waitlist"`

	TargetSpecies    []string `json:"target_species"`
	MinLengthCM      *float64 `json:"min_length_cm"`
	MaxLengthCM      *float64 `json:"max_length_cm"`
	CatchLimitPerDay *int     `json:"catch_limit_per_day"`

	PrizeTiers []models.PrizeTier `json:"prize_tiers"`
}

// RegisterRequest carries the payload for POST /competitions/:id/register.
type RegisterRequest struct {
	AnglerID    string          `json:"angler_id" binding:"required"`
	DisplayName string          `json:"display_name" binding:"required,min=1,max=80"`
	Division    models.Division `json:"division" binding:"required"`
}

// SubmitEntryRequest carries the payload for POST /competitions/:id/entries.
type SubmitEntryRequest struct {
	ParticipantID string    `json:"participant_id" binding:"required"`
	Species       string    `json:"species" binding:"required"`
	WeightKG      float64   `json:"weight_kg" binding:"required,gt=0"`
	LengthCM      *float64  `json:"length_cm"`
	PhotoRef      string    `json:"photo_ref"`
	CaughtAt      time.Time `json:"caught_at" binding:"required"`
	Location      string    `json:"location"`
}

// ReviewEntryRequest resolves a manual-review entry.
type ReviewEntryRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

// CompetitionResponse is the public view of a competition.
type CompetitionResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	ScoringType models.ScoringType `json:"scoring_type"`
	Phase       models.Phase       `json:"phase"`

	RegistrationOpensAt  time.Time `json:"registration_opens_at"`
	RegistrationClosesAt time.Time `json:"registration_closes_at"`
	StartsAt             time.Time `json:"starts_at"`
	EndsAt               time.Time `json:"ends_at"`
	AwardsAt             time.Time `json:"awards_at"`

	MaxParticipants  int      `json:"max_participants,omitempty"`
	AllowWaitlist    bool     `json:"allow_waitlist"`
	TargetSpecies    []string `json:"target_species,omitempty"`
	MinLengthCM      *float64 `json:"min_length_cm,omitempty"`
	MaxLengthCM      *float64 `json:"max_length_cm,omitempty"`
	CatchLimitPerDay *int     `json:"catch_limit_per_day,omitempty"`

	PrizeTiers []models.PrizeTier `json:"prize_tiers,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// LeaderboardResponse is a page of ranked standings.
type LeaderboardResponse struct {
	CompetitionID string                    `json:"competition_id"`
	Division      models.Division           `json:"division,omitempty"`
	Total         int                       `json:"total"`
	Standings     []models.LeaderboardEntry `json:"standings"`
}
