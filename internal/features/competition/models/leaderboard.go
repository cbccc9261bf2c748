package models

import "time"

// LeaderboardEntry is one ranked row of competition standings. It is derived
// from approved entries and never stored as authoritative state.
type LeaderboardEntry struct {
	Rank            int      `json:"rank"`
	ParticipantID   string   `json:"participant_id"`
	DisplayName     string   `json:"display_name"`
	Division        Division `json:"division"`
	TotalScore      int64    `json:"total_score"`
	TieBreak        float64  `json:"tie_break"`
	CatchCount      int      `json:"catch_count"`
	BiggestWeightKG float64  `json:"biggest_weight_kg"`
	BiggestLengthCM float64  `json:"biggest_length_cm"`
	Species         []string `json:"species"`
}

// StandingsSnapshot freezes the final standings when a competition enters
// judging, so award allocation reads a stable order.
type StandingsSnapshot struct {
	CompetitionID string             `json:"competition_id" gorm:"primaryKey"`
	Standings     []LeaderboardEntry `json:"standings" gorm:"serializer:json"`
	FrozenAt      time.Time          `json:"frozen_at"`
}
