package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "fishing-tournament-backend/internal/common/errors"
	"fishing-tournament-backend/internal/common/middleware"
	"fishing-tournament-backend/internal/features/competition/mapper"
	"fishing-tournament-backend/internal/features/competition/models"
	"fishing-tournament-backend/internal/features/competition/models/dto"
	"fishing-tournament-backend/internal/features/competition/service"
)

type Handler struct {
	service service.CompetitionService
}

func NewHandler(service service.CompetitionService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	competitions := router.Group("/competitions")
	{
		competitions.POST("", h.createCompetition)
		competitions.GET("", h.listCompetitions)
		competitions.GET("/:id", h.getCompetition)
		competitions.POST("/:id/cancel", h.cancelCompetition)
		competitions.POST("/:id/register", h.register)
		competitions.POST("/:id/entries", h.submitEntry)
		competitions.GET("/:id/leaderboard", h.getLeaderboard)
		competitions.GET("/:id/awards", h.getAwards)
		competitions.POST("/:id/close", h.closeJudging)
		competitions.POST("/:id/participants/:pid/disqualify", h.disqualify)
	}

	entries := router.Group("/entries")
	{
		entries.POST("/:id/review", h.reviewEntry)
	}
}

// @Summary Create a competition
// @Tags competitions
// @Accept json
// @Produce json
// @Param request body dto.CreateCompetitionRequest true "Competition"
// @Success 201 {object} dto.CompetitionResponse
// @Router /competitions [post]
func (h *Handler) createCompetition(c *gin.Context) {
	var req dto.CreateCompetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendError(c, apperrors.NewValidationError("body", err.Error()))
		return
	}

	competition, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		middleware.SendError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToCompetitionResponse(competition))
}

// @Summary List competitions
// @Tags competitions
// @Produce json
// @Param phase query string false "Filter by phase"
// @Success 200 {array} dto.CompetitionResponse
// @Router /competitions [get]
func (h *Handler) listCompetitions(c *gin.Context) {
	phase := models.Phase(c.Query("phase"))

	competitions, err := h.service.List(c.Request.Context(), phase)
	if err != nil {
		middleware.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToCompetitionResponses(competitions))
}

// @Summary Get a competition
// @Tags competitions
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {object} dto.CompetitionResponse
// @Router /competitions/{id} [get]
func (h *Handler) getCompetition(c *gin.Context) {
	competition, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToCompetitionResponse(competition))
}

// @Summary Cancel a competition
// @Tags competitions
// @Param id path string true "Competition ID"
// @Success 204
// @Router /competitions/{id}/cancel [post]
func (h *Handler) cancelCompetition(c *gin.Context) {
	if err := h.service.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		middleware.SendError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Register an angler
// @Tags competitions
// @Accept json
// @Produce json
// @Param id path string true "Competition ID"
// @Param request body dto.RegisterRequest true "Registration"
// @Success 201 {object} models.Participant
// @Router /competitions/{id}/register [post]
func (h *Handler) register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendError(c, apperrors.NewValidationError("body", err.Error()))
		return
	}

	participant, err := h.service.Register(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		middleware.SendError(c, err)
		return
	}

	c.JSON(http.StatusCreated, participant)
}

// @Summary Submit a catch
// @Tags entries
// @Accept json
// @Produce json
// @Param id path string true "Competition ID"
// @Param request body dto.SubmitEntryRequest true "Catch"
// @Success 201 {object} models.Entry
// @Router /competitions/{id}/entries [post]
func (h *Handler) submitEntry(c *gin.Context) {
	var req dto.SubmitEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendError(c, apperrors.NewValidationError("body", err.Error()))
		return
	}

	entry, err := h.service.SubmitEntry(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		middleware.SendError(c, err)
		return
	}

	status := http.StatusCreated
	if entry.State == models.VerificationManualReview {
		status = http.StatusAccepted
	}
	c.JSON(status, entry)
}

// @Summary Get the leaderboard
// @Tags competitions
// @Produce json
// @Param id path string true "Competition ID"
// @Param division query string false "Division ladder"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.LeaderboardResponse
// @Router /competitions/{id}/leaderboard [get]
func (h *Handler) getLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	division := models.Division(c.Query("division"))

	leaderboard, err := h.service.GetLeaderboard(c.Request.Context(), c.Param("id"), division, limit, offset)
	if err != nil {
		middleware.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, leaderboard)
}

// @Summary Get competition awards
// @Tags competitions
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {array} models.Award
// @Router /competitions/{id}/awards [get]
func (h *Handler) getAwards(c *gin.Context) {
	awards, err := h.service.GetAwards(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, awards)
}

// @Summary Review a manual-review entry
// @Tags entries
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param request body dto.ReviewEntryRequest true "Verdict"
// @Success 200 {object} models.Entry
// @Router /entries/{id}/review [post]
func (h *Handler) reviewEntry(c *gin.Context) {
	var req dto.ReviewEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendError(c, apperrors.NewValidationError("body", err.Error()))
		return
	}

	entry, err := h.service.ReviewEntry(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		middleware.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// @Summary Close judging early
// @Tags competitions
// @Param id path string true "Competition ID"
// @Success 204
// @Router /competitions/{id}/close [post]
func (h *Handler) closeJudging(c *gin.Context) {
	if err := h.service.CloseJudging(c.Request.Context(), c.Param("id")); err != nil {
		middleware.SendError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Disqualify a participant
// @Tags competitions
// @Param id path string true "Competition ID"
// @Param pid path string true "Participant ID"
// @Success 204
// @Router /competitions/{id}/participants/{pid}/disqualify [post]
func (h *Handler) disqualify(c *gin.Context) {
	if err := h.service.DisqualifyParticipant(c.Request.Context(), c.Param("id"), c.Param("pid")); err != nil {
		middleware.SendError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
