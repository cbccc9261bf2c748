package service

import (
	"context"
	"sort"

	"fishing-tournament-backend/internal/features/competition/models"
	"fishing-tournament-backend/internal/features/competition/repository"
)

// Aggregator refolds approved entries into ranked standings. Every run is a
// full recomputation; standings are derived state only.
type Aggregator struct {
	repo  repository.Repository
	rules ScoringRules
}

func NewAggregator(repo repository.Repository, rules ScoringRules) *Aggregator {
	return &Aggregator{repo: repo, rules: rules}
}

type participantFold struct {
	participant *models.Participant
	entries     []*models.Entry
}

// Recompute builds the full standings for a competition. Participants whose
// status excludes them from competing (withdrawn, disqualified, waitlisted)
// are skipped even when they have approved entries.
func (a *Aggregator) Recompute(ctx context.Context, competition *models.Competition) ([]models.LeaderboardEntry, error) {
	entries, err := a.repo.GetApprovedEntries(ctx, competition.ID)
	if err != nil {
		return nil, err
	}
	participants, err := a.repo.GetParticipants(ctx, competition.ID)
	if err != nil {
		return nil, err
	}

	folds := make(map[string]*participantFold)
	for _, p := range participants {
		if p.Competing() {
			folds[p.ID] = &participantFold{participant: p}
		}
	}
	for _, e := range entries {
		fold, ok := folds[e.ParticipantID]
		if !ok {
			continue
		}
		fold.entries = append(fold.entries, e)
	}

	standings := make([]models.LeaderboardEntry, 0, len(folds))
	for _, fold := range folds {
		if len(fold.entries) == 0 {
			continue
		}
		standings = append(standings, a.foldParticipant(competition.ScoringType, fold))
	}

	sortStandings(standings)
	assignRanks(standings)

	// Catch-count sorts on negated capture times internally; expose the
	// aggregate as the earliest capture unix time.
	if competition.ScoringType == models.ScoringCatchCount {
		for i := range standings {
			standings[i].TieBreak = -standings[i].TieBreak
		}
	}
	return standings, nil
}

// foldParticipant reduces one participant's approved entries to a single row.
func (a *Aggregator) foldParticipant(scoringType models.ScoringType, fold *participantFold) models.LeaderboardEntry {
	// Deterministic fold order regardless of fetch order.
	sort.SliceStable(fold.entries, func(i, j int) bool {
		ei, ej := fold.entries[i], fold.entries[j]
		if !ei.CaughtAt.Equal(ej.CaughtAt) {
			return ei.CaughtAt.Before(ej.CaughtAt)
		}
		return ei.ID < ej.ID
	})

	row := models.LeaderboardEntry{
		ParticipantID: fold.participant.ID,
		DisplayName:   fold.participant.DisplayName,
		Division:      fold.participant.Division,
	}

	seenSpecies := make(map[string]bool)
	for i, e := range fold.entries {
		row.CatchCount++
		if e.WeightKG > row.BiggestWeightKG {
			row.BiggestWeightKG = e.WeightKG
		}
		if e.LengthCM != nil && *e.LengthCM > row.BiggestLengthCM {
			row.BiggestLengthCM = *e.LengthCM
		}
		if !seenSpecies[e.Species] {
			seenSpecies[e.Species] = true
			row.Species = append(row.Species, e.Species)
		}

		// Points accrue per entry except for diversity, which counts
		// distinct species after the loop.
		if scoringType != models.ScoringSpeciesDiversity {
			row.TotalScore += e.Points
		}

		// Tie-break aggregates fold with max: heaviest catch for weight and
		// diversity, longest for length, earliest (negated key) for
		// catch-count.
		if i == 0 || e.TieBreak > row.TieBreak {
			row.TieBreak = e.TieBreak
		}
	}

	if scoringType == models.ScoringSpeciesDiversity {
		row.TotalScore = int64(len(seenSpecies)) * a.rules.PointsPerSpecies
	}

	sort.Strings(row.Species)
	return row
}

// sortStandings orders rows by score desc, tie-break desc, participant id asc.
func sortStandings(standings []models.LeaderboardEntry) {
	sort.SliceStable(standings, func(i, j int) bool {
		si, sj := standings[i], standings[j]
		if si.TotalScore != sj.TotalScore {
			return si.TotalScore > sj.TotalScore
		}
		if si.TieBreak != sj.TieBreak {
			return si.TieBreak > sj.TieBreak
		}
		return si.ParticipantID < sj.ParticipantID
	})
}

// assignRanks gives equal (score, tie-break) pairs a shared rank and skips
// the following positions: 100,100,90 ranks as 1,1,3.
func assignRanks(standings []models.LeaderboardEntry) {
	for i := range standings {
		if i > 0 &&
			standings[i].TotalScore == standings[i-1].TotalScore &&
			standings[i].TieBreak == standings[i-1].TieBreak {
			standings[i].Rank = standings[i-1].Rank
			continue
		}
		standings[i].Rank = i + 1
	}
}

// FilterDivision re-ranks the subset of standings belonging to one division.
// Divisions are separate ladders; the unfiltered order stays authoritative
// for awards.
func FilterDivision(standings []models.LeaderboardEntry, division models.Division) []models.LeaderboardEntry {
	filtered := make([]models.LeaderboardEntry, 0)
	for _, row := range standings {
		if row.Division == division {
			filtered = append(filtered, row)
		}
	}
	assignRanks(filtered)
	return filtered
}
