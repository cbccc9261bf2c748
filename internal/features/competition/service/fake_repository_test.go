package service

import (
	"context"
	"sync"
	"time"

	"fishing-tournament-backend/internal/features/competition/models"
	"fishing-tournament-backend/internal/features/competition/repository"
	"fishing-tournament-backend/internal/platform/notify"
	"fishing-tournament-backend/internal/platform/vision"
)

// fakeRepository is an in-memory repository with injectable per-competition
// failures.
type fakeRepository struct {
	mu sync.Mutex

	competitions map[string]*models.Competition
	participants map[string]*models.Participant
	entries      map[string]*models.Entry
	snapshots    map[string]*models.StandingsSnapshot
	awards       map[string][]*models.Award

	// updatePhaseErr fails UpdatePhase for the given competition ID.
	updatePhaseErr map[string]error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		competitions:   make(map[string]*models.Competition),
		participants:   make(map[string]*models.Participant),
		entries:        make(map[string]*models.Entry),
		snapshots:      make(map[string]*models.StandingsSnapshot),
		awards:         make(map[string][]*models.Award),
		updatePhaseErr: make(map[string]error),
	}
}

func (f *fakeRepository) CreateCompetition(_ context.Context, c *models.Competition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.competitions[c.ID] = &cp
	return nil
}

func (f *fakeRepository) GetCompetition(_ context.Context, id string) (*models.Competition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.competitions[id]
	if !ok {
		return nil, repository.ErrCompetitionNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepository) ListCompetitions(_ context.Context, phase models.Phase) ([]*models.Competition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Competition
	for _, c := range f.competitions {
		if phase == "" || c.Phase == phase {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepository) GetSchedulable(_ context.Context) ([]*models.Competition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Competition
	for _, c := range f.competitions {
		if !c.Phase.IsTerminal() {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepository) UpdatePhase(_ context.Context, id string, from, to models.Phase) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.updatePhaseErr[id]; ok {
		return false, err
	}
	if !from.CanTransitionTo(to) {
		return false, models.ErrInvalidTransition
	}
	c, ok := f.competitions[id]
	if !ok || c.Phase != from {
		return false, nil
	}
	c.Phase = to
	c.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeRepository) CancelCompetition(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.competitions[id]
	if !ok || c.Phase.IsTerminal() {
		return false, nil
	}
	c.Phase = models.PhaseCancelled
	return true, nil
}

func (f *fakeRepository) CreateParticipant(_ context.Context, p *models.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.participants[p.ID] = &cp
	return nil
}

func (f *fakeRepository) GetParticipant(_ context.Context, id string) (*models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participants[id]
	if !ok {
		return nil, repository.ErrParticipantNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepository) GetParticipants(_ context.Context, competitionID string) ([]*models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Participant
	for _, p := range f.participants {
		if p.CompetitionID == competitionID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepository) CountRegistered(_ context.Context, competitionID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, p := range f.participants {
		if p.CompetitionID == competitionID && p.Status == models.ParticipantStatusRegistered {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepository) IsRegistered(_ context.Context, competitionID, anglerID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.participants {
		if p.CompetitionID == competitionID && p.AnglerID == anglerID &&
			(p.Status == models.ParticipantStatusRegistered || p.Status == models.ParticipantStatusWaitlisted) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) UpdateParticipantStatus(_ context.Context, id string, status models.ParticipantStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participants[id]
	if !ok {
		return repository.ErrParticipantNotFound
	}
	p.Status = status
	return nil
}

func (f *fakeRepository) CreateEntry(_ context.Context, e *models.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *e
	f.entries[e.ID] = &cp
	return nil
}

func (f *fakeRepository) GetEntry(_ context.Context, id string) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return nil, repository.ErrEntryNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeRepository) UpdateEntry(_ context.Context, e *models.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[e.ID]; !ok {
		return repository.ErrEntryNotFound
	}
	cp := *e
	f.entries[e.ID] = &cp
	return nil
}

func (f *fakeRepository) GetApprovedEntries(_ context.Context, competitionID string) ([]*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Entry
	for _, e := range f.entries {
		if e.CompetitionID == competitionID && e.State == models.VerificationApproved {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepository) CountEntriesOnDay(_ context.Context, participantID string, day time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)
	count := 0
	for _, e := range f.entries {
		if e.ParticipantID == participantID && e.CountsTowardLimit() &&
			!e.CaughtAt.Before(dayStart) && e.CaughtAt.Before(dayEnd) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepository) SaveSnapshot(_ context.Context, s *models.StandingsSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.snapshots[s.CompetitionID] = &cp
	return nil
}

func (f *fakeRepository) GetSnapshot(_ context.Context, competitionID string) (*models.StandingsSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.snapshots[competitionID]
	if !ok {
		return nil, repository.ErrSnapshotNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRepository) CreateAwards(_ context.Context, competitionID string, awards []*models.Award) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.awards[competitionID]; ok {
		return false, nil
	}
	f.awards[competitionID] = awards
	return true, nil
}

func (f *fakeRepository) GetAwards(_ context.Context, competitionID string) ([]*models.Award, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.awards[competitionID], nil
}

// fakeCache is an in-memory leaderboard cache.
type fakeCache struct {
	mu        sync.Mutex
	standings map[string][]models.LeaderboardEntry
}

func newFakeCache() *fakeCache {
	return &fakeCache{standings: make(map[string][]models.LeaderboardEntry)}
}

func (c *fakeCache) Get(_ context.Context, competitionID string) ([]models.LeaderboardEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	standings, ok := c.standings[competitionID]
	if !ok {
		return nil, repository.ErrSnapshotNotFound
	}
	return standings, nil
}

func (c *fakeCache) Set(_ context.Context, competitionID string, standings []models.LeaderboardEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.standings[competitionID] = standings
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, competitionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.standings, competitionID)
	return nil
}

// fakeAnalyzer returns a fixed verdict or error.
type fakeAnalyzer struct {
	result vision.AnalysisResult
	err    error
}

func (a *fakeAnalyzer) Analyze(context.Context, string) (vision.AnalysisResult, error) {
	return a.result, a.err
}

func approvingAnalyzer() *fakeAnalyzer {
	return &fakeAnalyzer{result: vision.AnalysisResult{Authentic: true, Confidence: 95}}
}

// fakeNotifier records who was notified.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *fakeNotifier) Send(_ context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg.ParticipantID)
	return nil
}
