package mapper

import (
	"fishing-tournament-backend/internal/features/competition/models"
	"fishing-tournament-backend/internal/features/competition/models/dto"
)

func ToCompetitionResponse(c *models.Competition) *dto.CompetitionResponse {
	return &dto.CompetitionResponse{
		ID:                   c.ID,
		Title:                c.Title,
		Description:          c.Description,
		ScoringType:          c.ScoringType,
		Phase:                c.Phase,
		RegistrationOpensAt:  c.RegistrationOpensAt,
		RegistrationClosesAt: c.RegistrationClosesAt,
		StartsAt:             c.StartsAt,
		EndsAt:               c.EndsAt,
		AwardsAt:             c.AwardsAt,
		MaxParticipants:      c.MaxParticipants,
		AllowWaitlist:        c.AllowWaitlist,
		TargetSpecies:        c.TargetSpecies,
		MinLengthCM:          c.MinLengthCM,
		MaxLengthCM:          c.MaxLengthCM,
		CatchLimitPerDay:     c.CatchLimitPerDay,
		PrizeTiers:           c.PrizeTiers,
		CreatedAt:            c.CreatedAt,
	}
}

func ToCompetitionResponses(competitions []*models.Competition) []*dto.CompetitionResponse {
	responses := make([]*dto.CompetitionResponse, 0, len(competitions))
	for _, c := range competitions {
		responses = append(responses, ToCompetitionResponse(c))
	}
	return responses
}
