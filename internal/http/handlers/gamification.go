package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/botanica-backend/internal/http/response"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/services"
)

// GamificationHandler serves learning modules, badges and the customer journey.
type GamificationHandler struct {
	log      *logger.Logger
	learning services.LearningService
	badges   services.BadgeService
	journey  services.JourneyService
}

func NewGamificationHandler(log *logger.Logger, learning services.LearningService, badges services.BadgeService, journey services.JourneyService) *GamificationHandler {
	return &GamificationHandler{log: log, learning: learning, badges: badges, journey: journey}
}

// GET /api/learning-modules
func (h *GamificationHandler) ListModules(c *gin.Context) {
	out, err := h.learning.ListModules(c.Request.Context())
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/learning-modules/:id
func (h *GamificationHandler) GetModule(c *gin.Context) {
	m, err := h.learning.GetModule(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, m)
}

// GET /api/users/:userId/learning
func (h *GamificationHandler) UserLearning(c *gin.Context) {
	out, err := h.learning.UserProgress(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// PUT /api/users/:userId/learning/:moduleId
// body: { "progress": 0..100 }
func (h *GamificationHandler) RecordLearning(c *gin.Context) {
	var req struct {
		Progress int `json:"progress"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	p, err := h.learning.RecordProgress(c.Request.Context(), c.Param("userId"), c.Param("moduleId"), req.Progress)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, p)
}

// GET /api/badges
func (h *GamificationHandler) ListBadges(c *gin.Context) {
	out, err := h.badges.ListBadges(c.Request.Context())
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/users/:userId/badges
func (h *GamificationHandler) UserBadges(c *gin.Context) {
	out, err := h.badges.UserBadges(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/users/:userId/badges/eligible
func (h *GamificationHandler) EligibleBadges(c *gin.Context) {
	out, err := h.badges.Eligible(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/users/:userId/badges/:badgeId
// 201 on first award, 200 when the user already held the badge.
func (h *GamificationHandler) AwardBadge(c *gin.Context) {
	award, created, err := h.badges.Award(c.Request.Context(), c.Param("userId"), c.Param("badgeId"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, award)
}

// GET /api/journey-stages
func (h *GamificationHandler) Stages(c *gin.Context) {
	out, err := h.journey.Stages(c.Request.Context())
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/users/:userId/journey
func (h *GamificationHandler) Journey(c *gin.Context) {
	p, err := h.journey.Progress(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, p)
}

// GET /api/users/:userId/journey/can-advance
func (h *GamificationHandler) CanAdvance(c *gin.Context) {
	ev, err := h.journey.CanAdvance(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, ev)
}

// POST /api/users/:userId/journey/advance
func (h *GamificationHandler) Advance(c *gin.Context) {
	p, err := h.journey.Advance(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, p)
}
