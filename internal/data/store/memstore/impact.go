package memstore

import (
	"context"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/domain/impact"
	impactrules "github.com/yungbote/botanica-backend/internal/modules/impact"
	"github.com/yungbote/botanica-backend/internal/platform/money"
)

func (s *Store) ListCommunityProjects(ctx context.Context, f store.ProjectFilter) ([]*domain.CommunityProject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects.list(f.Matches), nil
}

func (s *Store) GetCommunityProject(ctx context.Context, id string) (*domain.CommunityProject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects.get(id), nil
}

func (s *Store) CreateCommunityProject(ctx context.Context, p *domain.CommunityProject) (*domain.CommunityProject, error) {
	row := cloneProject(p)
	row.ID = store.EnsureID(row.ID)
	if row.Status == "" {
		row.Status = impact.StatusPlanning
	}
	row.FundingGoal = money.MustNormalize(row.FundingGoal)
	row.CurrentFunding = money.MustNormalize(row.CurrentFunding)
	if err := store.ValidateProject(row); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if row.Status == impact.StatusCompleted && row.CompletionDate == nil {
		row.CompletionDate = &now
	}
	if row.Status != impact.StatusCompleted {
		row.CompletionDate = nil
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.projects.ref(row.ID); exists {
		return nil, store.ErrConflict
	}
	s.projects.put(row.ID, row)
	return s.projects.get(row.ID), nil
}

func (s *Store) UpdateCommunityProject(ctx context.Context, id string, patch store.ProjectPatch) (*domain.CommunityProject, *domain.CommunityProject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.projects.ref(id)
	if !ok {
		return nil, nil, nil
	}
	before := cloneProject(current)
	next := cloneProject(current)
	patch.Apply(next, s.now().UTC())
	if err := store.ValidateProject(next); err != nil {
		return nil, nil, err
	}
	s.projects.put(id, next)
	return before, s.projects.get(id), nil
}

func (s *Store) ImpactStats(ctx context.Context) (*domain.ImpactStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := impactrules.Aggregate(s.projects.list(nil))
	return &stats, nil
}

func (s *Store) ListLiveUpdates(ctx context.Context, f store.LiveUpdateFilter) ([]*domain.LiveImpactUpdate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.liveUpdates.newest(f.Matches, f.Limit), nil
}

func (s *Store) CreateLiveUpdate(ctx context.Context, u *domain.LiveImpactUpdate) (*domain.LiveImpactUpdate, error) {
	row := cloneLiveUpdate(u)
	row.ID = store.EnsureID(row.ID)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.liveUpdates.ref(row.ID); exists {
		return nil, store.ErrConflict
	}
	s.liveUpdates.put(row.ID, row)
	return s.liveUpdates.get(row.ID), nil
}

func (s *Store) ListMilestones(ctx context.Context, projectID string) ([]*domain.ImpactMilestone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.milestones.list(func(m *domain.ImpactMilestone) bool {
		return projectID == "" || m.ProjectID == projectID
	}), nil
}

func (s *Store) CreateMilestone(ctx context.Context, m *domain.ImpactMilestone) (*domain.ImpactMilestone, error) {
	row := cloneMilestone(m)
	row.ID = store.EnsureID(row.ID)
	now := s.now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	if row.IsAchieved && row.AchievedDate == nil {
		row.AchievedDate = &now
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.milestones.ref(row.ID); exists {
		return nil, store.ErrConflict
	}
	s.milestones.put(row.ID, row)
	return s.milestones.get(row.ID), nil
}

func (s *Store) AchieveMilestone(ctx context.Context, id string, celebration *string) (*domain.ImpactMilestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.milestones.ref(id)
	if !ok {
		return nil, nil
	}
	if !m.IsAchieved {
		now := s.now().UTC()
		m.IsAchieved = true
		m.AchievedDate = &now
		if celebration != nil {
			m.CelebrationMessage = ptrCopy(celebration)
		}
	}
	return s.milestones.get(id), nil
}
