package models

import "time"

// VerificationState is the moderation state of a submitted catch
type VerificationState string

const (
	VerificationPending      VerificationState = "pending"
	VerificationApproved     VerificationState = "approved"
	VerificationRejected     VerificationState = "rejected"
	VerificationManualReview VerificationState = "manual_review"
)

// RejectReason is the stable code explaining a failed verification
type RejectReason string

const (
	RejectOutOfWindow        RejectReason = "out_of_window"
	RejectSpeciesNotEligible RejectReason = "species_not_eligible"
	RejectSizeViolation      RejectReason = "size_violation"
	RejectCatchLimitReached  RejectReason = "catch_limit_reached"
	RejectMissingEvidence    RejectReason = "missing_evidence"
	RejectNotAuthentic       RejectReason = "not_authentic"
	RejectModerator          RejectReason = "moderator_rejected"
)

// Entry represents one submitted catch
type Entry struct {
	ID            string `json:"id" gorm:"primaryKey"`
	CompetitionID string `json:"competition_id" gorm:"index"`
	ParticipantID string `json:"participant_id" gorm:"index"`

	Species  string    `json:"species"`
	WeightKG float64   `json:"weight_kg"`
	LengthCM *float64  `json:"length_cm,omitempty"`
	PhotoRef string    `json:"photo_ref"`
	CaughtAt time.Time `json:"caught_at"`
	Location string    `json:"location,omitempty"`

	State        VerificationState `json:"state" gorm:"index"`
	RejectReason RejectReason      `json:"reject_reason,omitempty"`

	// Scoring outcome, written on approval.
	Points   int64   `json:"points"`
	TieBreak float64 `json:"tie_break"`

	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CountsTowardLimit reports whether the entry consumes per-day catch quota.
// Rejected entries do not.
func (e *Entry) CountsTowardLimit() bool {
	return e.State != VerificationRejected
}
