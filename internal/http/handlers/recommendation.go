package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/http/response"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/services"
)

type RecommendationHandler struct {
	log             *logger.Logger
	recommendations services.RecommendationService
}

func NewRecommendationHandler(log *logger.Logger, recommendations services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{log: log, recommendations: recommendations}
}

// POST /api/recommendations
// body: { "healthGoals": [], "lifestyle": [], "preferredFormats": [], "budgetRange": "", "experienceLevel": "" }
func (h *RecommendationHandler) Generate(c *gin.Context) {
	var req domain.UserPreferences
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	out, err := h.recommendations.Generate(c.Request.Context(), sessionID(c), &req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, out)
}

// GET /api/recommendations
func (h *RecommendationHandler) Latest(c *gin.Context) {
	out, err := h.recommendations.Latest(c.Request.Context(), sessionID(c))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/user-preferences
func (h *RecommendationHandler) Preferences(c *gin.Context) {
	out, err := h.recommendations.LatestPreferences(c.Request.Context(), sessionID(c))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}
