package service

import (
	"fmt"
	"math"

	"fishing-tournament-backend/internal/features/competition/models"
)

// ScoringRules holds the configurable scoring constants.
type ScoringRules struct {
	WeightMultiplier float64
	LengthMultiplier float64
	PointsPerCatch   int64
	PointsPerSpecies int64
}

func DefaultScoringRules() ScoringRules {
	return ScoringRules{
		WeightMultiplier: 10,
		LengthMultiplier: 5,
		PointsPerCatch:   10,
		PointsPerSpecies: 25,
	}
}

// Score resolves one approved entry into (points, tieBreak) for the given
// scoring type. Pure: same entry, same result.
//
// Tie-break semantics per type; the aggregator folds the group aggregate
// with max:
//   - total_weight:  weight in kg (heaviest single catch)
//   - total_length:  length in cm (longest single catch)
//   - catch_count:   negated capture unix time, so the descending tie-break
//     sort used by the aggregator makes the earlier catch win
//   - species_diversity: weight in kg (heaviest single catch)
func (r ScoringRules) Score(entry *models.Entry, scoringType models.ScoringType) (int64, float64, error) {
	switch scoringType {
	case models.ScoringTotalWeight:
		points := int64(math.Round(entry.WeightKG * r.WeightMultiplier))
		return points, entry.WeightKG, nil

	case models.ScoringTotalLength:
		if entry.LengthCM == nil {
			return 0, 0, fmt.Errorf("entry %s has no length measurement", entry.ID)
		}
		points := int64(math.Round(*entry.LengthCM * r.LengthMultiplier))
		return points, *entry.LengthCM, nil

	case models.ScoringCatchCount:
		return r.PointsPerCatch, -float64(entry.CaughtAt.Unix()), nil

	case models.ScoringSpeciesDiversity:
		// Per-entry points are nominal; the aggregator dedups species and
		// awards PointsPerSpecies per distinct species.
		return r.PointsPerSpecies, entry.WeightKG, nil
	}

	return 0, 0, fmt.Errorf("unknown scoring type: %s", scoringType)
}
