package models

import "time"

// Division is the competitive category a participant registers in
type Division string

const (
	DivisionIndividual Division = "individual"
	DivisionTeam       Division = "team"
	DivisionYouth      Division = "youth"
	DivisionLadies     Division = "ladies"
)

func (d Division) Valid() bool {
	switch d {
	case DivisionIndividual, DivisionTeam, DivisionYouth, DivisionLadies:
		return true
	}
	return false
}

// PaymentStatus tracks the entry-fee state owned by the payment collaborator
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// ParticipantStatus is the registration state within one competition
type ParticipantStatus string

const (
	ParticipantStatusRegistered   ParticipantStatus = "registered"
	ParticipantStatusWaitlisted   ParticipantStatus = "waitlisted"
	ParticipantStatusWithdrawn    ParticipantStatus = "withdrawn"
	ParticipantStatusDisqualified ParticipantStatus = "disqualified"
)

// Participant represents one angler (or team) registered for a competition
type Participant struct {
	ID            string            `json:"id" gorm:"primaryKey"`
	CompetitionID string            `json:"competition_id" gorm:"index"`
	AnglerID      string            `json:"angler_id" gorm:"index"`
	DisplayName   string            `json:"display_name"`
	Division      Division          `json:"division"`
	Status        ParticipantStatus `json:"status"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
	RegisteredAt  time.Time         `json:"registered_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Competing reports whether the participant's entries count for standings.
func (p *Participant) Competing() bool {
	return p.Status == ParticipantStatusRegistered
}
