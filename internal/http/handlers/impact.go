package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/domain/impact"
	"github.com/yungbote/botanica-backend/internal/http/response"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/services"
)

type ImpactHandler struct {
	log    *logger.Logger
	impact services.ImpactService
}

func NewImpactHandler(log *logger.Logger, impact services.ImpactService) *ImpactHandler {
	return &ImpactHandler{log: log, impact: impact}
}

// GET /api/community-projects?status=&category=
func (h *ImpactHandler) ListProjects(c *gin.Context) {
	var f store.ProjectFilter
	if v := queryString(c, "status"); v != nil {
		s := impact.ProjectStatus(*v)
		f.Status = &s
	}
	if v := queryString(c, "category"); v != nil {
		cat := impact.ProjectCategory(*v)
		f.Category = &cat
	}
	out, err := h.impact.ListProjects(c.Request.Context(), f)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/community-projects/stats
func (h *ImpactHandler) Stats(c *gin.Context) {
	out, err := h.impact.Stats(c.Request.Context())
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/community-projects/:id
func (h *ImpactHandler) GetProject(c *gin.Context) {
	p, err := h.impact.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, p)
}

// POST /api/community-projects
func (h *ImpactHandler) CreateProject(c *gin.Context) {
	var req domain.CommunityProject
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	req.ID = ""
	p, err := h.impact.CreateProject(c.Request.Context(), &req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, p)
}

// PATCH /api/community-projects/:id
// Progress, funding and completion changes are recorded as live updates and
// pushed to stream subscribers.
func (h *ImpactHandler) UpdateProject(c *gin.Context) {
	var req struct {
		Name                 *string                 `json:"name"`
		Description          *string                 `json:"description"`
		Location             *string                 `json:"location"`
		Community            *string                 `json:"community"`
		Category             *impact.ProjectCategory `json:"category"`
		Status               *impact.ProjectStatus   `json:"status"`
		Progress             *int                    `json:"progress"`
		FundingGoal          *string                 `json:"fundingGoal"`
		CurrentFunding       *string                 `json:"currentFunding"`
		Beneficiaries        *int                    `json:"beneficiaries"`
		ImageURL             *string                 `json:"imageUrl"`
		StartDate            *jsonTime               `json:"startDate"`
		TargetCompletionDate *jsonTime               `json:"targetCompletionDate"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	out, err := h.impact.UpdateProject(c.Request.Context(), c.Param("id"), store.ProjectPatch{
		Name:                 req.Name,
		Description:          req.Description,
		Location:             req.Location,
		Community:            req.Community,
		Category:             req.Category,
		Status:               req.Status,
		Progress:             req.Progress,
		FundingGoal:          req.FundingGoal,
		CurrentFunding:       req.CurrentFunding,
		Beneficiaries:        req.Beneficiaries,
		ImageURL:             req.ImageURL,
		StartDate:            req.StartDate.ptr(),
		TargetCompletionDate: req.TargetCompletionDate.ptr(),
	})
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/community-projects/:id/updates?limit=
func (h *ImpactHandler) ProjectLiveUpdates(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	out, err := h.impact.ProjectLiveUpdates(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/community-projects/:id/milestones
func (h *ImpactHandler) ProjectMilestones(c *gin.Context) {
	out, err := h.impact.ProjectMilestones(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/live-updates?projectId=&limit=
func (h *ImpactHandler) ListLiveUpdates(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	out, err := h.impact.ListLiveUpdates(c.Request.Context(), queryString(c, "projectId"), limit)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/live-updates
func (h *ImpactHandler) CreateLiveUpdate(c *gin.Context) {
	var req domain.LiveImpactUpdate
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	req.ID = ""
	u, err := h.impact.CreateLiveUpdate(c.Request.Context(), &req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, u)
}

// GET /api/impact-milestones?projectId=
func (h *ImpactHandler) ListMilestones(c *gin.Context) {
	out, err := h.impact.ListMilestones(c.Request.Context(), c.Query("projectId"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/impact-milestones
func (h *ImpactHandler) CreateMilestone(c *gin.Context) {
	var req domain.ImpactMilestone
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	req.ID = ""
	m, err := h.impact.CreateMilestone(c.Request.Context(), &req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, m)
}

// POST /api/impact-milestones/:id/achieve
// body (optional): { "celebrationMessage": "..." }
func (h *ImpactHandler) AchieveMilestone(c *gin.Context) {
	var req struct {
		CelebrationMessage *string `json:"celebrationMessage"`
	}
	if c.Request.ContentLength != 0 {
		if err := bindJSON(c, &req); err != nil {
			response.RespondErr(c, h.log, err)
			return
		}
	}
	m, err := h.impact.AchieveMilestone(c.Request.Context(), c.Param("id"), req.CelebrationMessage)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, m)
}
