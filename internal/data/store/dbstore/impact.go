package dbstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/domain/impact"
	impactrules "github.com/yungbote/botanica-backend/internal/modules/impact"
	"github.com/yungbote/botanica-backend/internal/platform/money"
)

func (s *Store) ListCommunityProjects(ctx context.Context, f store.ProjectFilter) ([]*domain.CommunityProject, error) {
	p := &predicates{}
	if f.Status != nil {
		p.eq("status", *f.Status)
	}
	if f.Category != nil {
		p.eq("category", *f.Category)
	}
	var out []*domain.CommunityProject
	if err := p.apply(s.db.WithContext(ctx).Model(&domain.CommunityProject{})).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetCommunityProject(ctx context.Context, id string) (*domain.CommunityProject, error) {
	return s.getProject(s.db.WithContext(ctx), id)
}

func (s *Store) getProject(q *gorm.DB, id string) (*domain.CommunityProject, error) {
	if !validID(id) {
		return nil, nil
	}
	var p domain.CommunityProject
	found, err := first(q.Where("id = ?", id), &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateCommunityProject(ctx context.Context, p *domain.CommunityProject) (*domain.CommunityProject, error) {
	row := *p
	row.ID = store.EnsureID(row.ID)
	if row.Status == "" {
		row.Status = impact.StatusPlanning
	}
	row.FundingGoal = money.MustNormalize(row.FundingGoal)
	row.CurrentFunding = money.MustNormalize(row.CurrentFunding)
	if err := store.ValidateProject(&row); err != nil {
		return nil, err
	}
	now := s.clock()
	switch {
	case row.Status != impact.StatusCompleted:
		row.CompletionDate = nil
	case row.CompletionDate == nil:
		row.CompletionDate = &now
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, conflict(err)
	}
	return s.GetCommunityProject(ctx, row.ID)
}

func (s *Store) UpdateCommunityProject(ctx context.Context, id string, patch store.ProjectPatch) (*domain.CommunityProject, *domain.CommunityProject, error) {
	var before, after *domain.CommunityProject
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.getProject(s.locked(tx), id)
		if err != nil || current == nil {
			return err
		}
		next := *current
		patch.Apply(&next, s.clock())
		if err := store.ValidateProject(&next); err != nil {
			return err
		}
		// Select("*") so zero values and a cleared completion date are written.
		if err := tx.Model(&domain.CommunityProject{}).Where("id = ?", id).
			Select("*").Omit("id", "created_at").
			Updates(&next).Error; err != nil {
			return err
		}
		if after, err = s.getProject(tx, id); err != nil {
			return err
		}
		before = current
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return before, after, nil
}

func (s *Store) ImpactStats(ctx context.Context) (*domain.ImpactStats, error) {
	projects, err := s.ListCommunityProjects(ctx, store.ProjectFilter{})
	if err != nil {
		return nil, err
	}
	stats := impactrules.Aggregate(projects)
	return &stats, nil
}

func (s *Store) ListLiveUpdates(ctx context.Context, f store.LiveUpdateFilter) ([]*domain.LiveImpactUpdate, error) {
	out := []*domain.LiveImpactUpdate{}
	p := &predicates{}
	if f.ProjectID != nil {
		if !validID(*f.ProjectID) {
			return out, nil
		}
		p.eq("project_id", *f.ProjectID)
	}
	if f.PublicOnly {
		p.eq("is_public", true)
	}
	q := p.apply(s.db.WithContext(ctx).Model(&domain.LiveImpactUpdate{})).Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CreateLiveUpdate(ctx context.Context, u *domain.LiveImpactUpdate) (*domain.LiveImpactUpdate, error) {
	row := *u
	row.ID = store.EnsureID(row.ID)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.clock()
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, conflict(err)
	}
	var out domain.LiveImpactUpdate
	if err := s.db.WithContext(ctx).Where("id = ?", row.ID).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) ListMilestones(ctx context.Context, projectID string) ([]*domain.ImpactMilestone, error) {
	out := []*domain.ImpactMilestone{}
	q := s.db.WithContext(ctx).Model(&domain.ImpactMilestone{})
	if projectID != "" {
		if !validID(projectID) {
			return out, nil
		}
		q = q.Where("project_id = ?", projectID)
	}
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) getMilestone(q *gorm.DB, id string) (*domain.ImpactMilestone, error) {
	if !validID(id) {
		return nil, nil
	}
	var m domain.ImpactMilestone
	found, err := first(q.Where("id = ?", id), &m)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

func (s *Store) CreateMilestone(ctx context.Context, m *domain.ImpactMilestone) (*domain.ImpactMilestone, error) {
	row := *m
	row.ID = store.EnsureID(row.ID)
	now := s.clock()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	if row.IsAchieved && row.AchievedDate == nil {
		row.AchievedDate = &now
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, conflict(err)
	}
	return s.getMilestone(s.db.WithContext(ctx), row.ID)
}

// AchieveMilestone only flips rows still unachieved, so the first achieved date wins.
func (s *Store) AchieveMilestone(ctx context.Context, id string, celebration *string) (*domain.ImpactMilestone, error) {
	if !validID(id) {
		return nil, nil
	}
	updates := map[string]any{"is_achieved": true, "achieved_date": s.clock()}
	if celebration != nil {
		updates["celebration_message"] = *celebration
	}
	if err := s.db.WithContext(ctx).Model(&domain.ImpactMilestone{}).
		Where("id = ? AND is_achieved = ?", id, false).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.getMilestone(s.db.WithContext(ctx), id)
}
