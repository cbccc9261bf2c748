package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"fishing-tournament-backend/internal/common/logger"
	"fishing-tournament-backend/internal/features/competition/models"
	"fishing-tournament-backend/internal/features/competition/repository"
)

// PhaseScheduler advances competitions along their lifecycle. Each sweep
// treats every competition independently: one failure never blocks the rest,
// and the failed competition is retried on the next sweep.
type PhaseScheduler struct {
	repo          repository.Repository
	aggregator    *Aggregator
	allocator     *Allocator
	judgingWindow time.Duration

	// now is injectable so tests drive phase transitions without timers.
	now        func() time.Time
	retryDelay time.Duration

	processing sync.Map
	semaphore  chan struct{}
	scheduler  gocron.Scheduler
}

func NewPhaseScheduler(repo repository.Repository, aggregator *Aggregator, allocator *Allocator, judgingWindow time.Duration) *PhaseScheduler {
	return &PhaseScheduler{
		repo:          repo,
		aggregator:    aggregator,
		allocator:     allocator,
		judgingWindow: judgingWindow,
		now:           time.Now,
		retryDelay:    RetryDelay,
		semaphore:     make(chan struct{}, MaxConcurrentSweeps),
	}
}

// SetClock overrides the scheduler's time source.
func (s *PhaseScheduler) SetClock(now func() time.Time) {
	s.now = now
}

// Start schedules the periodic sweep and, when refresh is non-nil, the
// periodic leaderboard refresh for active competitions.
func (s *PhaseScheduler) Start(sweepInterval, refreshInterval time.Duration, refresh func(context.Context) error) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(sweepInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), sweepInterval)
			defer cancel()
			if err := s.SweepOnce(ctx); err != nil {
				logger.Error().Err(err).Msg("Phase sweep failed")
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule sweep job: %w", err)
	}

	if refresh != nil {
		_, err = scheduler.NewJob(
			gocron.DurationJob(refreshInterval),
			gocron.NewTask(func() {
				ctx, cancel := context.WithTimeout(context.Background(), refreshInterval)
				defer cancel()
				if err := refresh(ctx); err != nil {
					logger.Error().Err(err).Msg("Leaderboard refresh failed")
				}
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to schedule refresh job: %w", err)
		}
	}

	scheduler.Start()
	s.scheduler = scheduler
	logger.Info().Dur("interval", sweepInterval).Msg("Phase scheduler started")
	return nil
}

func (s *PhaseScheduler) Stop() {
	if s.scheduler != nil {
		if err := s.scheduler.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("Phase scheduler shutdown failed")
		}
	}
	logger.Info().Msg("Phase scheduler stopped")
}

// SweepOnce runs a single sweep over all non-terminal competitions and waits
// for every worker to finish. Callable directly, without timers.
func (s *PhaseScheduler) SweepOnce(ctx context.Context) error {
	competitions, err := s.repo.GetSchedulable(ctx)
	if err != nil {
		return fmt.Errorf("failed to load schedulable competitions: %w", err)
	}

	var wg sync.WaitGroup
	for _, competition := range competitions {
		if _, exists := s.processing.LoadOrStore(competition.ID, true); exists {
			continue
		}

		wg.Add(1)
		go func(c *models.Competition) {
			defer wg.Done()
			defer s.processing.Delete(c.ID)

			select {
			case s.semaphore <- struct{}{}:
				defer func() { <-s.semaphore }()
			case <-ctx.Done():
				return
			}

			if err := s.advanceWithRetry(ctx, c); err != nil {
				logger.Error().
					Str("competition_id", c.ID).
					Str("phase", string(c.Phase)).
					Err(err).
					Msg("Failed to advance competition, will retry next sweep")
			}
		}(competition)
	}

	wg.Wait()
	return nil
}

func (s *PhaseScheduler) advanceWithRetry(ctx context.Context, competition *models.Competition) error {
	var lastErr error
	for attempt := 1; attempt <= MaxRetries; attempt++ {
		if err := s.advanceCompetition(ctx, competition); err != nil {
			lastErr = err
			if attempt < MaxRetries {
				select {
				case <-time.After(s.retryDelay):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("failed after %d attempts: %w", MaxRetries, lastErr)
}

// advanceCompetition applies every transition whose instant has passed,
// one compare-and-set step at a time. A lost CAS means another writer (a
// concurrent sweep or a cancel) owns the competition; that is not an error.
func (s *PhaseScheduler) advanceCompetition(ctx context.Context, competition *models.Competition) error {
	now := s.now()
	phase := competition.Phase

	for {
		// Standings must be frozen for the whole judging phase, including
		// after a crash between the CAS into judging and the snapshot write.
		if phase == models.PhaseJudging {
			if err := s.ensureFrozen(ctx, competition); err != nil {
				return err
			}
		}

		next, due := s.nextTransition(competition, phase, now)
		if !due {
			return nil
		}

		ok, err := s.repo.UpdatePhase(ctx, competition.ID, phase, next)
		if err != nil {
			return err
		}
		if !ok {
			// Another writer owns the competition. If it made the same
			// transition, rerun the side effects: they are idempotent and a
			// crash may have left them incomplete.
			current, err := s.repo.GetCompetition(ctx, competition.ID)
			if err != nil {
				return err
			}
			if current.Phase != next {
				logger.Debug().
					Str("competition_id", competition.ID).
					Str("from", string(phase)).
					Str("to", string(next)).
					Str("actual", string(current.Phase)).
					Msg("Phase transition lost to concurrent writer")
				return nil
			}
		}

		if err := s.onTransition(ctx, competition, next); err != nil {
			return err
		}
		phase = next
		competition.Phase = next
	}
}

func (s *PhaseScheduler) nextTransition(c *models.Competition, phase models.Phase, now time.Time) (models.Phase, bool) {
	switch phase {
	case models.PhaseUpcoming:
		return models.PhaseRegistration, !now.Before(c.RegistrationOpensAt)
	case models.PhaseRegistration:
		return models.PhaseActive, !now.Before(c.StartsAt)
	case models.PhaseActive:
		return models.PhaseJudging, !now.Before(c.EndsAt)
	case models.PhaseJudging:
		return models.PhaseCompleted, !now.Before(c.EndsAt.Add(s.judgingWindow))
	}
	return "", false
}

// onTransition runs the side effects a transition owns. Effects are
// idempotent; reruns after a lost CAS or a crash are safe.
func (s *PhaseScheduler) onTransition(ctx context.Context, competition *models.Competition, entered models.Phase) error {
	if entered == models.PhaseCompleted {
		_, err := s.allocator.Allocate(ctx, competition)
		return err
	}
	return nil
}

func (s *PhaseScheduler) ensureFrozen(ctx context.Context, competition *models.Competition) error {
	_, err := s.repo.GetSnapshot(ctx, competition.ID)
	if errors.Is(err, repository.ErrSnapshotNotFound) {
		return s.freezeStandings(ctx, competition)
	}
	return err
}

// freezeStandings computes the final aggregation and persists it so judging
// and allocation read a stable order.
func (s *PhaseScheduler) freezeStandings(ctx context.Context, competition *models.Competition) error {
	standings, err := s.aggregator.Recompute(ctx, competition)
	if err != nil {
		return fmt.Errorf("failed to compute final standings: %w", err)
	}
	snapshot := &models.StandingsSnapshot{
		CompetitionID: competition.ID,
		Standings:     standings,
		FrozenAt:      s.now(),
	}
	if err := s.repo.SaveSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to freeze standings: %w", err)
	}
	logger.Info().
		Str("competition_id", competition.ID).
		Int("rows", len(standings)).
		Msg("Final standings frozen")
	return nil
}
