package models

import "time"

// AwardCategory names a payable prize category
type AwardCategory string

const (
	AwardFirst   AwardCategory = "first"
	AwardSecond  AwardCategory = "second"
	AwardThird   AwardCategory = "third"
	AwardBigFish AwardCategory = "big_fish"
)

// Award represents a prize owed to a participant. Payment execution belongs
// to the payment collaborator; this record only tracks its pending status.
type Award struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	CompetitionID string        `json:"competition_id" gorm:"index"`
	ParticipantID string        `json:"participant_id"`
	Category      AwardCategory `json:"category"`
	Rank          int           `json:"rank,omitempty"`
	Amount        float64       `json:"amount"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
}
