package models

import (
	"errors"
	"time"
)

var (
	ErrInvalidTransition = errors.New("invalid phase transition")
	ErrInvalidTimeline   = errors.New("competition timeline instants must be ordered")
)

// Phase represents the lifecycle phase of a competition
type Phase string

const (
	PhaseUpcoming     Phase = "upcoming"
	PhaseRegistration Phase = "registration"
	PhaseActive       Phase = "active"
	PhaseJudging      Phase = "judging"
	PhaseCompleted    Phase = "completed"
	PhaseCancelled    Phase = "cancelled"
)

// ScoringType selects how approved entries fold into a participant score
type ScoringType string

const (
	ScoringTotalWeight      ScoringType = "total_weight"
	ScoringTotalLength      ScoringType = "total_length"
	ScoringCatchCount       ScoringType = "catch_count"
	ScoringSpeciesDiversity ScoringType = "species_diversity"
)

func (s ScoringType) Valid() bool {
	switch s {
	case ScoringTotalWeight, ScoringTotalLength, ScoringCatchCount, ScoringSpeciesDiversity:
		return true
	}
	return false
}

// PrizeTier is one payable place in a competition's prize schedule.
type PrizeTier struct {
	Category AwardCategory `json:"category"`
	Rank     int           `json:"rank,omitempty"`
	Amount   float64       `json:"amount"`
}

// Competition represents a seasonal fishing competition
type Competition struct {
	ID          string      `json:"id" gorm:"primaryKey"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ScoringType ScoringType `json:"scoring_type"`
	Phase       Phase       `json:"phase" gorm:"index"`

	// Timeline instants, strictly ordered.
	RegistrationOpensAt  time.Time `json:"registration_opens_at"`
	RegistrationClosesAt time.Time `json:"registration_closes_at"`
	StartsAt             time.Time `json:"starts_at"`
	EndsAt               time.Time `json:"ends_at"`
	AwardsAt             time.Time `json:"awards_at"`

	MaxParticipants int  `json:"max_participants,omitempty"` // 0 = unlimited
	TeamSize        int  `json:"team_size,omitempty"`
	AllowWaitlist   bool `json:"allow_waitlist"`

	// Eligibility rules. Empty species list means every species counts.
	TargetSpecies    []string `json:"target_species,omitempty" gorm:"serializer:json"`
	MinLengthCM      *float64 `json:"min_length_cm,omitempty"`
	MaxLengthCM      *float64 `json:"max_length_cm,omitempty"`
	CatchLimitPerDay *int     `json:"catch_limit_per_day,omitempty"`

	PrizeTiers []PrizeTier `json:"prize_tiers,omitempty" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Phase) IsTerminal() bool {
	return p == PhaseCompleted || p == PhaseCancelled
}

// CanTransitionTo enforces the monotonic phase order. Cancel is allowed from
// any non-terminal phase.
func (p Phase) CanTransitionTo(next Phase) bool {
	if next == PhaseCancelled {
		return !p.IsTerminal()
	}
	switch p {
	case PhaseUpcoming:
		return next == PhaseRegistration
	case PhaseRegistration:
		return next == PhaseActive
	case PhaseActive:
		return next == PhaseJudging
	case PhaseJudging:
		return next == PhaseCompleted
	}
	return false
}

// ValidateTimeline checks registration opens < closes <= starts < ends <= awards.
func (c *Competition) ValidateTimeline() error {
	if !c.RegistrationOpensAt.Before(c.RegistrationClosesAt) {
		return ErrInvalidTimeline
	}
	if c.RegistrationClosesAt.After(c.StartsAt) {
		return ErrInvalidTimeline
	}
	if !c.StartsAt.Before(c.EndsAt) {
		return ErrInvalidTimeline
	}
	if c.EndsAt.After(c.AwardsAt) {
		return ErrInvalidTimeline
	}
	return nil
}

// RegistrationOpen reports whether the registration window covers now.
func (c *Competition) RegistrationOpen(now time.Time) bool {
	return c.Phase == PhaseRegistration &&
		!now.Before(c.RegistrationOpensAt) && now.Before(c.RegistrationClosesAt)
}

// SpeciesEligible reports whether a species counts for this competition.
func (c *Competition) SpeciesEligible(species string) bool {
	if len(c.TargetSpecies) == 0 {
		return true
	}
	for _, s := range c.TargetSpecies {
		if s == species {
			return true
		}
	}
	return false
}
