package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "fishing-tournament-backend/internal/common/errors"
	"fishing-tournament-backend/internal/common/logger"
	"fishing-tournament-backend/internal/features/competition/models"
	"fishing-tournament-backend/internal/features/competition/models/dto"
	"fishing-tournament-backend/internal/features/competition/repository"
)

// CompetitionService is the inbound operation surface of the feature.
type CompetitionService interface {
	Create(ctx context.Context, req *dto.CreateCompetitionRequest) (*models.Competition, error)
	Get(ctx context.Context, id string) (*models.Competition, error)
	List(ctx context.Context, phase models.Phase) ([]*models.Competition, error)
	Cancel(ctx context.Context, id string) error

	Register(ctx context.Context, competitionID string, req *dto.RegisterRequest) (*models.Participant, error)
	SubmitEntry(ctx context.Context, competitionID string, req *dto.SubmitEntryRequest) (*models.Entry, error)

	GetLeaderboard(ctx context.Context, competitionID string, division models.Division, limit, offset int) (*dto.LeaderboardResponse, error)
	GetAwards(ctx context.Context, competitionID string) ([]*models.Award, error)
	RefreshActiveLeaderboards(ctx context.Context) error

	ReviewEntry(ctx context.Context, entryID string, req *dto.ReviewEntryRequest) (*models.Entry, error)
	CloseJudging(ctx context.Context, competitionID string) error
	DisqualifyParticipant(ctx context.Context, competitionID, participantID string) error
}

// LeaderboardCache is the read-through cache in front of the aggregator.
type LeaderboardCache interface {
	Get(ctx context.Context, competitionID string) ([]models.LeaderboardEntry, error)
	Set(ctx context.Context, competitionID string, standings []models.LeaderboardEntry) error
	Invalidate(ctx context.Context, competitionID string) error
}

type competitionService struct {
	repo       repository.Repository
	cache      LeaderboardCache
	verifier   *Verifier
	aggregator *Aggregator
	allocator  *Allocator

	now func() time.Time
}

func NewCompetitionService(repo repository.Repository, cache LeaderboardCache, verifier *Verifier, aggregator *Aggregator, allocator *Allocator) CompetitionService {
	return &competitionService{
		repo:       repo,
		cache:      cache,
		verifier:   verifier,
		aggregator: aggregator,
		allocator:  allocator,
		now:        time.Now,
	}
}

func (s *competitionService) Create(ctx context.Context, req *dto.CreateCompetitionRequest) (*models.Competition, error) {
	if !req.ScoringType.Valid() {
		return nil, apperrors.NewValidationError("scoring_type", "unknown scoring type")
	}
	for _, tier := range req.PrizeTiers {
		if tier.Category != models.AwardBigFish && tier.Rank < 1 {
			return nil, apperrors.NewValidationError("prize_tiers", "ranked tiers need a rank >= 1")
		}
		if tier.Amount <= 0 {
			return nil, apperrors.NewValidationError("prize_tiers", "tier amount must be positive")
		}
	}

	competition := &models.Competition{
		ID:                   uuid.New().String(),
		Title:                req.Title,
		Description:          req.Description,
		ScoringType:          req.ScoringType,
		Phase:                models.PhaseUpcoming,
		RegistrationOpensAt:  req.RegistrationOpensAt,
		RegistrationClosesAt: req.RegistrationClosesAt,
		StartsAt:             req.StartsAt,
		EndsAt:               req.EndsAt,
		AwardsAt:             req.AwardsAt,
		MaxParticipants:      req.MaxParticipants,
		TeamSize:             req.TeamSize,
		AllowWaitlist:        req.AllowWaitlist,
		TargetSpecies:        req.TargetSpecies,
		MinLengthCM:          req.MinLengthCM,
		MaxLengthCM:          req.MaxLengthCM,
		CatchLimitPerDay:     req.CatchLimitPerDay,
		PrizeTiers:           req.PrizeTiers,
		CreatedAt:            s.now(),
		UpdatedAt:            s.now(),
	}

	if err := competition.ValidateTimeline(); err != nil {
		return nil, apperrors.NewValidationError("timeline", err.Error())
	}

	if err := s.repo.CreateCompetition(ctx, competition); err != nil {
		return nil, apperrors.NewDatabaseError("create competition", err)
	}

	logger.Info().
		Str("competition_id", competition.ID).
		Str("scoring_type", string(competition.ScoringType)).
		Msg("Competition created")
	return competition, nil
}

func (s *competitionService) Get(ctx context.Context, id string) (*models.Competition, error) {
	return s.getCompetition(ctx, id)
}

func (s *competitionService) List(ctx context.Context, phase models.Phase) ([]*models.Competition, error) {
	competitions, err := s.repo.ListCompetitions(ctx, phase)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list competitions", err)
	}
	return competitions, nil
}

// Cancel moves a competition to the cancelled phase. The terminal state wins
// over any concurrent sweep: the repository refuses the write once the
// competition is terminal.
func (s *competitionService) Cancel(ctx context.Context, id string) error {
	competition, err := s.getCompetition(ctx, id)
	if err != nil {
		return err
	}

	ok, err := s.repo.CancelCompetition(ctx, id)
	if err != nil {
		return apperrors.NewDatabaseError("cancel competition", err)
	}
	if !ok {
		return apperrors.NewInvalidTransitionError(id, string(competition.Phase), string(models.PhaseCancelled))
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		logger.Warn().Str("competition_id", id).Err(err).Msg("Failed to invalidate leaderboard cache")
	}

	logger.Info().Str("competition_id", id).Msg("Competition cancelled")
	return nil
}

func (s *competitionService) Register(ctx context.Context, competitionID string, req *dto.RegisterRequest) (*models.Participant, error) {
	if !req.Division.Valid() {
		return nil, apperrors.NewValidationError("division", "unknown division")
	}

	competition, err := s.getCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if !competition.RegistrationOpen(s.now()) {
		return nil, apperrors.NewRegistrationClosedError(competitionID)
	}

	registered, err := s.repo.IsRegistered(ctx, competitionID, req.AnglerID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("check registration", err)
	}
	if registered {
		return nil, apperrors.New(apperrors.ErrCodeAlreadyRegistered, "angler is already registered").
			WithDetail("angler_id", req.AnglerID)
	}

	status := models.ParticipantStatusRegistered
	if competition.MaxParticipants > 0 {
		count, err := s.repo.CountRegistered(ctx, competitionID)
		if err != nil {
			return nil, apperrors.NewDatabaseError("count participants", err)
		}
		if count >= competition.MaxParticipants {
			if !competition.AllowWaitlist {
				return nil, apperrors.NewCompetitionFullError(competitionID, competition.MaxParticipants)
			}
			status = models.ParticipantStatusWaitlisted
		}
	}

	participant := &models.Participant{
		ID:            uuid.New().String(),
		CompetitionID: competitionID,
		AnglerID:      req.AnglerID,
		DisplayName:   req.DisplayName,
		Division:      req.Division,
		Status:        status,
		PaymentStatus: models.PaymentStatusPending,
		RegisteredAt:  s.now(),
		UpdatedAt:     s.now(),
	}
	if err := s.repo.CreateParticipant(ctx, participant); err != nil {
		return nil, apperrors.NewDatabaseError("create participant", err)
	}

	logger.Info().
		Str("competition_id", competitionID).
		Str("participant_id", participant.ID).
		Str("status", string(status)).
		Msg("Participant registered")
	return participant, nil
}

func (s *competitionService) SubmitEntry(ctx context.Context, competitionID string, req *dto.SubmitEntryRequest) (*models.Entry, error) {
	competition, err := s.getCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	participant, err := s.repo.GetParticipant(ctx, req.ParticipantID)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return nil, apperrors.NewParticipantNotFoundError(req.ParticipantID)
		}
		return nil, apperrors.NewDatabaseError("get participant", err)
	}
	if participant.CompetitionID != competitionID {
		return nil, apperrors.NewParticipantNotFoundError(req.ParticipantID)
	}
	if !participant.Competing() {
		return nil, apperrors.New(apperrors.ErrCodeForbidden, "participant is not competing").
			WithDetail("status", string(participant.Status))
	}

	entry := &models.Entry{
		ID:            uuid.New().String(),
		CompetitionID: competitionID,
		ParticipantID: participant.ID,
		Species:       req.Species,
		WeightKG:      req.WeightKG,
		LengthCM:      req.LengthCM,
		PhotoRef:      req.PhotoRef,
		CaughtAt:      req.CaughtAt,
		Location:      req.Location,
		State:         models.VerificationPending,
		SubmittedAt:   s.now(),
		UpdatedAt:     s.now(),
	}

	if err := s.verifier.Verify(ctx, competition, entry); err != nil {
		return nil, apperrors.NewDatabaseError("verify entry", err)
	}

	// The entry is persisted whatever the verdict; rejection reasons are part
	// of the record.
	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		return nil, apperrors.NewDatabaseError("create entry", err)
	}

	switch entry.State {
	case models.VerificationRejected:
		return entry, rejectError(competitionID, entry)
	case models.VerificationApproved:
		s.refreshLeaderboard(ctx, competition)
	}

	return entry, nil
}

func rejectError(competitionID string, entry *models.Entry) error {
	switch entry.RejectReason {
	case models.RejectOutOfWindow:
		return apperrors.NewCompetitionNotActiveError(competitionID)
	case models.RejectSpeciesNotEligible:
		return apperrors.New(apperrors.ErrCodeSpeciesNotEligible, "species is not eligible for this competition").
			WithDetail("species", entry.Species)
	case models.RejectSizeViolation:
		return apperrors.New(apperrors.ErrCodeSizeViolation, "catch violates the competition size limits")
	case models.RejectCatchLimitReached:
		return apperrors.New(apperrors.ErrCodeCatchLimitReached, "daily catch limit reached")
	case models.RejectMissingEvidence:
		return apperrors.New(apperrors.ErrCodeMissingEvidence, "a photo reference is required")
	case models.RejectNotAuthentic:
		return apperrors.New(apperrors.ErrCodeValidation, "photo failed the authenticity check")
	}
	return apperrors.New(apperrors.ErrCodeValidation, "entry rejected")
}

func (s *competitionService) GetLeaderboard(ctx context.Context, competitionID string, division models.Division, limit, offset int) (*dto.LeaderboardResponse, error) {
	competition, err := s.getCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	standings, err := s.loadStandings(ctx, competition)
	if err != nil {
		return nil, err
	}

	if division != "" {
		if !division.Valid() {
			return nil, apperrors.NewValidationError("division", "unknown division")
		}
		standings = FilterDivision(standings, division)
	}

	total := len(standings)
	standings = page(standings, limit, offset)

	return &dto.LeaderboardResponse{
		CompetitionID: competitionID,
		Division:      division,
		Total:         total,
		Standings:     standings,
	}, nil
}

// loadStandings prefers the frozen snapshot once judging has started, then
// the cache, then a fresh refold.
func (s *competitionService) loadStandings(ctx context.Context, competition *models.Competition) ([]models.LeaderboardEntry, error) {
	if competition.Phase == models.PhaseJudging || competition.Phase == models.PhaseCompleted {
		snapshot, err := s.repo.GetSnapshot(ctx, competition.ID)
		if err == nil {
			return snapshot.Standings, nil
		}
		if !errors.Is(err, repository.ErrSnapshotNotFound) {
			return nil, apperrors.NewDatabaseError("load standings snapshot", err)
		}
	}

	if cached, err := s.cache.Get(ctx, competition.ID); err == nil {
		return cached, nil
	}

	standings, err := s.aggregator.Recompute(ctx, competition)
	if err != nil {
		return nil, apperrors.NewDatabaseError("recompute leaderboard", err)
	}
	if err := s.cache.Set(ctx, competition.ID, standings); err != nil {
		logger.Warn().Str("competition_id", competition.ID).Err(err).Msg("Failed to cache leaderboard")
	}
	return standings, nil
}

// page clamps caller-supplied values: negative offsets read from the start,
// non-positive limits mean no limit.
func page(standings []models.LeaderboardEntry, limit, offset int) []models.LeaderboardEntry {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(standings) {
		return []models.LeaderboardEntry{}
	}
	standings = standings[offset:]
	if limit > 0 && limit < len(standings) {
		standings = standings[:limit]
	}
	return standings
}

// RefreshActiveLeaderboards recomputes the cached standings of every active
// competition. Runs on a schedule so standings stay fresh between approvals.
func (s *competitionService) RefreshActiveLeaderboards(ctx context.Context) error {
	competitions, err := s.repo.ListCompetitions(ctx, models.PhaseActive)
	if err != nil {
		return apperrors.NewDatabaseError("list active competitions", err)
	}
	for _, competition := range competitions {
		s.refreshLeaderboard(ctx, competition)
	}
	return nil
}

func (s *competitionService) GetAwards(ctx context.Context, competitionID string) ([]*models.Award, error) {
	if _, err := s.getCompetition(ctx, competitionID); err != nil {
		return nil, err
	}
	awards, err := s.repo.GetAwards(ctx, competitionID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get awards", err)
	}
	return awards, nil
}

// ReviewEntry resolves a manual-review entry. Approval scores the entry with
// the competition's rules; rejection records the moderator verdict.
func (s *competitionService) ReviewEntry(ctx context.Context, entryID string, req *dto.ReviewEntryRequest) (*models.Entry, error) {
	entry, err := s.repo.GetEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return nil, apperrors.NewEntryNotFoundError(entryID)
		}
		return nil, apperrors.NewDatabaseError("get entry", err)
	}
	if entry.State != models.VerificationManualReview {
		return nil, apperrors.New(apperrors.ErrCodeConflict, "entry is not awaiting review").
			WithDetail("state", string(entry.State))
	}

	competition, err := s.getCompetition(ctx, entry.CompetitionID)
	if err != nil {
		return nil, err
	}

	if req.Approve {
		if err := s.verifier.Approve(entry, competition.ScoringType); err != nil {
			return nil, apperrors.NewDatabaseError("score entry", err)
		}
	} else {
		entry.State = models.VerificationRejected
		entry.RejectReason = models.RejectModerator
	}

	if err := s.repo.UpdateEntry(ctx, entry); err != nil {
		return nil, apperrors.NewDatabaseError("update entry", err)
	}

	if entry.State == models.VerificationApproved {
		s.refreshLeaderboard(ctx, competition)
		if competition.Phase == models.PhaseJudging {
			if err := s.refreeze(ctx, competition); err != nil {
				return nil, err
			}
		}
	}

	logger.Info().
		Str("entry_id", entryID).
		Str("state", string(entry.State)).
		Msg("Entry reviewed")
	return entry, nil
}

// CloseJudging completes a competition ahead of the automatic judging window.
func (s *competitionService) CloseJudging(ctx context.Context, competitionID string) error {
	competition, err := s.getCompetition(ctx, competitionID)
	if err != nil {
		return err
	}

	// Standings must be frozen before the phase flips; allocation reads the
	// snapshot only.
	if _, err := s.repo.GetSnapshot(ctx, competitionID); err != nil {
		if !errors.Is(err, repository.ErrSnapshotNotFound) {
			return apperrors.NewDatabaseError("load standings snapshot", err)
		}
		if err := s.refreeze(ctx, competition); err != nil {
			return err
		}
	}

	ok, err := s.repo.UpdatePhase(ctx, competitionID, models.PhaseJudging, models.PhaseCompleted)
	if err != nil {
		return apperrors.NewDatabaseError("close judging", err)
	}
	if !ok {
		return apperrors.NewInvalidTransitionError(competitionID, string(competition.Phase), string(models.PhaseCompleted))
	}
	competition.Phase = models.PhaseCompleted

	if _, err := s.allocator.Allocate(ctx, competition); err != nil {
		return apperrors.NewDatabaseError("allocate awards", err)
	}
	return nil
}

func (s *competitionService) DisqualifyParticipant(ctx context.Context, competitionID, participantID string) error {
	competition, err := s.getCompetition(ctx, competitionID)
	if err != nil {
		return err
	}

	participant, err := s.repo.GetParticipant(ctx, participantID)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return apperrors.NewParticipantNotFoundError(participantID)
		}
		return apperrors.NewDatabaseError("get participant", err)
	}
	if participant.CompetitionID != competitionID {
		return apperrors.NewParticipantNotFoundError(participantID)
	}

	if err := s.repo.UpdateParticipantStatus(ctx, participantID, models.ParticipantStatusDisqualified); err != nil {
		return apperrors.NewDatabaseError("disqualify participant", err)
	}

	s.refreshLeaderboard(ctx, competition)
	if competition.Phase == models.PhaseJudging {
		if err := s.refreeze(ctx, competition); err != nil {
			return err
		}
	}

	logger.Info().
		Str("competition_id", competitionID).
		Str("participant_id", participantID).
		Msg("Participant disqualified")
	return nil
}

// refreshLeaderboard recomputes eagerly after an approval so reads see the
// new standings immediately. A failure here only delays freshness.
func (s *competitionService) refreshLeaderboard(ctx context.Context, competition *models.Competition) {
	standings, err := s.aggregator.Recompute(ctx, competition)
	if err != nil {
		logger.Warn().Str("competition_id", competition.ID).Err(err).Msg("Failed to recompute leaderboard")
		if err := s.cache.Invalidate(ctx, competition.ID); err != nil {
			logger.Warn().Str("competition_id", competition.ID).Err(err).Msg("Failed to invalidate leaderboard cache")
		}
		return
	}
	if err := s.cache.Set(ctx, competition.ID, standings); err != nil {
		logger.Warn().Str("competition_id", competition.ID).Err(err).Msg("Failed to cache leaderboard")
	}
}

// refreeze updates the frozen standings after a moderation decision during
// judging.
func (s *competitionService) refreeze(ctx context.Context, competition *models.Competition) error {
	standings, err := s.aggregator.Recompute(ctx, competition)
	if err != nil {
		return apperrors.NewDatabaseError("recompute standings", err)
	}
	snapshot := &models.StandingsSnapshot{
		CompetitionID: competition.ID,
		Standings:     standings,
		FrozenAt:      s.now(),
	}
	if err := s.repo.SaveSnapshot(ctx, snapshot); err != nil {
		return apperrors.NewDatabaseError("save standings snapshot", err)
	}
	return nil
}

func (s *competitionService) getCompetition(ctx context.Context, id string) (*models.Competition, error) {
	competition, err := s.repo.GetCompetition(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCompetitionNotFound) {
			return nil, apperrors.NewCompetitionNotFoundError(id)
		}
		return nil, apperrors.NewDatabaseError("get competition", err)
	}
	return competition, nil
}
