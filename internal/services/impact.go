package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/domain/impact"
	impactrules "github.com/yungbote/botanica-backend/internal/modules/impact"
	"github.com/yungbote/botanica-backend/internal/observability"
	"github.com/yungbote/botanica-backend/internal/platform/apierr"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/platform/money"
	"github.com/yungbote/botanica-backend/internal/realtime"
)

const (
	DefaultLiveUpdateLimit = 20
	MaxLiveUpdateLimit     = 100
)

// Publisher is the outbound side of the realtime bus.
type Publisher interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
}

// ProjectView is a community project with its derived funding percentage.
type ProjectView struct {
	*domain.CommunityProject
	FundingPercentage float64 `json:"fundingPercentage"`
}

// ProjectUpdate is the outcome of a project patch: the new state and the feed
// entries the change produced.
type ProjectUpdate struct {
	Project *ProjectView               `json:"project"`
	Updates []*domain.LiveImpactUpdate `json:"updates"`
}

type ImpactService interface {
	ListProjects(ctx context.Context, f store.ProjectFilter) ([]*ProjectView, error)
	GetProject(ctx context.Context, id string) (*ProjectView, error)
	CreateProject(ctx context.Context, p *domain.CommunityProject) (*ProjectView, error)
	UpdateProject(ctx context.Context, id string, patch store.ProjectPatch) (*ProjectUpdate, error)
	Stats(ctx context.Context) (*domain.ImpactStats, error)

	ListLiveUpdates(ctx context.Context, projectID *string, limit int) ([]*domain.LiveImpactUpdate, error)
	ProjectLiveUpdates(ctx context.Context, projectID string, limit int) ([]*domain.LiveImpactUpdate, error)
	CreateLiveUpdate(ctx context.Context, u *domain.LiveImpactUpdate) (*domain.LiveImpactUpdate, error)

	ListMilestones(ctx context.Context, projectID string) ([]*domain.ImpactMilestone, error)
	ProjectMilestones(ctx context.Context, projectID string) ([]*domain.ImpactMilestone, error)
	CreateMilestone(ctx context.Context, m *domain.ImpactMilestone) (*domain.ImpactMilestone, error)
	AchieveMilestone(ctx context.Context, id string, celebration *string) (*domain.ImpactMilestone, error)
}

type impactService struct {
	log       *logger.Logger
	impact    store.ImpactStore
	publisher Publisher
	metrics   *observability.Metrics
}

func NewImpactService(log *logger.Logger, impactStore store.ImpactStore, publisher Publisher, metrics *observability.Metrics) ImpactService {
	return &impactService{
		log:       log.With("service", "ImpactService"),
		impact:    impactStore,
		publisher: publisher,
		metrics:   metrics,
	}
}

func view(p *domain.CommunityProject) *ProjectView {
	pct, _ := impactrules.FundingPercentage(p.CurrentFunding, p.FundingGoal)
	return &ProjectView{CommunityProject: p, FundingPercentage: pct}
}

func (s *impactService) ListProjects(ctx context.Context, f store.ProjectFilter) ([]*ProjectView, error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, invalid("unknown status %q", *f.Status)
	}
	if f.Category != nil && !f.Category.Valid() {
		return nil, invalid("unknown category %q", *f.Category)
	}
	list, err := s.impact.ListCommunityProjects(ctx, f)
	if err != nil {
		return nil, storeErr("list community projects", err)
	}
	out := make([]*ProjectView, 0, len(list))
	for _, p := range list {
		out = append(out, view(p))
	}
	return out, nil
}

func (s *impactService) GetProject(ctx context.Context, id string) (*ProjectView, error) {
	p, err := s.project(ctx, id)
	if err != nil {
		return nil, err
	}
	return view(p), nil
}

func (s *impactService) project(ctx context.Context, id string) (*domain.CommunityProject, error) {
	p, err := s.impact.GetCommunityProject(ctx, id)
	if err != nil {
		return nil, storeErr("get community project", err)
	}
	if p == nil {
		return nil, apierr.NotFound("community_project")
	}
	return p, nil
}

func (s *impactService) CreateProject(ctx context.Context, p *domain.CommunityProject) (*ProjectView, error) {
	if p == nil {
		return nil, invalid("project body required")
	}
	if err := required("name", p.Name); err != nil {
		return nil, err
	}
	if !p.Category.Valid() {
		return nil, invalid("unknown category %q", p.Category)
	}
	if p.Status != "" && !p.Status.Valid() {
		return nil, invalid("unknown status %q", p.Status)
	}
	if err := validMoney("fundingGoal", p.FundingGoal, true); err != nil {
		return nil, err
	}
	if err := validMoney("currentFunding", p.CurrentFunding, false); err != nil {
		return nil, err
	}
	created, err := s.impact.CreateCommunityProject(ctx, p)
	if err != nil {
		return nil, storeErr("create community project", err)
	}
	s.log.Info("Community project created", "project_id", created.ID, "category", created.Category)
	return view(created), nil
}

func (s *impactService) UpdateProject(ctx context.Context, id string, patch store.ProjectPatch) (*ProjectUpdate, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, invalid("unknown status %q", *patch.Status)
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return nil, invalid("unknown category %q", *patch.Category)
	}
	if patch.FundingGoal != nil {
		if err := validMoney("fundingGoal", *patch.FundingGoal, true); err != nil {
			return nil, err
		}
	}
	if patch.CurrentFunding != nil {
		if err := validMoney("currentFunding", *patch.CurrentFunding, true); err != nil {
			return nil, err
		}
	}
	before, after, err := s.impact.UpdateCommunityProject(ctx, id, patch)
	if err != nil {
		return nil, storeErr("update community project", err)
	}
	if after == nil {
		return nil, apierr.NotFound("community_project")
	}

	out := &ProjectUpdate{Project: view(after), Updates: []*domain.LiveImpactUpdate{}}
	for _, u := range impactrules.Changes(before, after) {
		created, err := s.impact.CreateLiveUpdate(ctx, u)
		if err != nil {
			return nil, storeErr("record live update", err)
		}
		out.Updates = append(out.Updates, created)
		s.metrics.IncLiveUpdate(string(created.UpdateType))
		s.publishUpdate(ctx, created)
	}
	s.publish(ctx, realtime.SSEMessage{
		Channel: realtime.ProjectChannel(after.ID),
		Event:   realtime.SSEEventProjectUpdated,
		Data:    out.Project,
	})
	return out, nil
}

func (s *impactService) Stats(ctx context.Context) (*domain.ImpactStats, error) {
	stats, err := s.impact.ImpactStats(ctx)
	if err != nil {
		return nil, storeErr("impact stats", err)
	}
	return stats, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLiveUpdateLimit
	case limit > MaxLiveUpdateLimit:
		return MaxLiveUpdateLimit
	}
	return limit
}

// ListLiveUpdates returns the public feed, newest first.
func (s *impactService) ListLiveUpdates(ctx context.Context, projectID *string, limit int) ([]*domain.LiveImpactUpdate, error) {
	out, err := s.impact.ListLiveUpdates(ctx, store.LiveUpdateFilter{
		ProjectID:  projectID,
		PublicOnly: true,
		Limit:      clampLimit(limit),
	})
	if err != nil {
		return nil, storeErr("list live updates", err)
	}
	return out, nil
}

func (s *impactService) ProjectLiveUpdates(ctx context.Context, projectID string, limit int) ([]*domain.LiveImpactUpdate, error) {
	if _, err := s.project(ctx, projectID); err != nil {
		return nil, err
	}
	return s.ListLiveUpdates(ctx, &projectID, limit)
}

func (s *impactService) CreateLiveUpdate(ctx context.Context, u *domain.LiveImpactUpdate) (*domain.LiveImpactUpdate, error) {
	if u == nil {
		return nil, invalid("live update body required")
	}
	if !u.UpdateType.Valid() {
		return nil, invalid("unknown updateType %q", u.UpdateType)
	}
	if err := required("title", u.Title); err != nil {
		return nil, err
	}
	if len(u.Metadata) > 0 && !json.Valid(u.Metadata) {
		return nil, invalid("metadata must be valid JSON")
	}
	if _, err := s.project(ctx, u.ProjectID); err != nil {
		return nil, err
	}
	created, err := s.impact.CreateLiveUpdate(ctx, u)
	if err != nil {
		return nil, storeErr("create live update", err)
	}
	s.metrics.IncLiveUpdate(string(created.UpdateType))
	s.publishUpdate(ctx, created)
	return created, nil
}

// ListMilestones lists milestones of one project, or of all projects when projectID is empty.
func (s *impactService) ListMilestones(ctx context.Context, projectID string) ([]*domain.ImpactMilestone, error) {
	out, err := s.impact.ListMilestones(ctx, strings.TrimSpace(projectID))
	if err != nil {
		return nil, storeErr("list milestones", err)
	}
	return out, nil
}

func (s *impactService) ProjectMilestones(ctx context.Context, projectID string) ([]*domain.ImpactMilestone, error) {
	if _, err := s.project(ctx, projectID); err != nil {
		return nil, err
	}
	return s.ListMilestones(ctx, projectID)
}

func (s *impactService) CreateMilestone(ctx context.Context, m *domain.ImpactMilestone) (*domain.ImpactMilestone, error) {
	if m == nil {
		return nil, invalid("milestone body required")
	}
	if err := required("title", m.Title); err != nil {
		return nil, err
	}
	if _, err := s.project(ctx, m.ProjectID); err != nil {
		return nil, err
	}
	created, err := s.impact.CreateMilestone(ctx, m)
	if err != nil {
		return nil, storeErr("create milestone", err)
	}
	return created, nil
}

// AchieveMilestone marks the milestone achieved. The first achievement also
// records a public milestone update; repeats return the milestone unchanged.
func (s *impactService) AchieveMilestone(ctx context.Context, id string, celebration *string) (*domain.ImpactMilestone, error) {
	all, err := s.impact.ListMilestones(ctx, "")
	if err != nil {
		return nil, storeErr("list milestones", err)
	}
	var before *domain.ImpactMilestone
	for _, m := range all {
		if m.ID == id {
			before = m
			break
		}
	}
	if before == nil {
		return nil, apierr.NotFound("impact_milestone")
	}
	m, err := s.impact.AchieveMilestone(ctx, id, celebration)
	if err != nil {
		return nil, storeErr("achieve milestone", err)
	}
	if m == nil {
		return nil, apierr.NotFound("impact_milestone")
	}
	if before.IsAchieved {
		return m, nil
	}

	message := fmt.Sprintf("Milestone reached: %s.", m.Title)
	if m.CelebrationMessage != nil && strings.TrimSpace(*m.CelebrationMessage) != "" {
		message = *m.CelebrationMessage
	}
	meta, _ := json.Marshal(map[string]string{"milestoneId": m.ID})
	created, err := s.impact.CreateLiveUpdate(ctx, &domain.LiveImpactUpdate{
		ProjectID:  m.ProjectID,
		UpdateType: impact.UpdateMilestone,
		Title:      m.Title,
		Message:    message,
		NewValue:   &m.TargetValue,
		IsPublic:   true,
		Metadata:   datatypes.JSON(meta),
	})
	if err != nil {
		return nil, storeErr("record milestone update", err)
	}
	s.metrics.IncLiveUpdate(string(created.UpdateType))
	s.publishUpdate(ctx, created)
	s.publish(ctx, realtime.SSEMessage{
		Channel: realtime.ProjectChannel(m.ProjectID),
		Event:   realtime.SSEEventMilestoneAchieved,
		Data:    m,
	})
	return m, nil
}

func (s *impactService) publishUpdate(ctx context.Context, u *domain.LiveImpactUpdate) {
	if !u.IsPublic {
		return
	}
	s.publish(ctx, realtime.SSEMessage{Channel: realtime.ChannelImpact, Event: realtime.SSEEventLiveUpdate, Data: u})
	s.publish(ctx, realtime.SSEMessage{Channel: realtime.ProjectChannel(u.ProjectID), Event: realtime.SSEEventLiveUpdate, Data: u})
}

// publish is best effort; the write already succeeded.
func (s *impactService) publish(ctx context.Context, msg realtime.SSEMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.log.Warn("Realtime publish failed", "channel", msg.Channel, "event", msg.Event, "error", err)
	}
}

func validMoney(field, v string, requiredField bool) error {
	if strings.TrimSpace(v) == "" {
		if requiredField {
			return invalid("%s is required", field)
		}
		return nil
	}
	d, err := money.Parse(v)
	if err != nil || d.IsNegative() {
		return invalid("%s must be a non-negative decimal, got %q", field, v)
	}
	return nil
}
