package dbstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/domain/learning"
)

func (s *Store) ListLearningModules(ctx context.Context) ([]*domain.LearningModule, error) {
	var out []*domain.LearningModule
	if err := s.db.WithContext(ctx).
		Order("order_index ASC").
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetLearningModule(ctx context.Context, id string) (*domain.LearningModule, error) {
	if !validID(id) {
		return nil, nil
	}
	var m domain.LearningModule
	found, err := first(s.db.WithContext(ctx).Where("id = ?", id), &m)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

func (s *Store) ListUserLearningProgress(ctx context.Context, userID string) ([]*domain.UserLearningProgress, error) {
	out := []*domain.UserLearningProgress{}
	if !validID(userID) {
		return out, nil
	}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetUserLearningProgress(ctx context.Context, userID, moduleID string) (*domain.UserLearningProgress, error) {
	return s.getProgress(s.db.WithContext(ctx), userID, moduleID)
}

func (s *Store) getProgress(q *gorm.DB, userID, moduleID string) (*domain.UserLearningProgress, error) {
	if !validID(userID) || !validID(moduleID) {
		return nil, nil
	}
	var p domain.UserLearningProgress
	found, err := first(q.Where("user_id = ? AND module_id = ?", userID, moduleID), &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

func (s *Store) RecordLearningProgress(ctx context.Context, userID, moduleID string, pct int) (*domain.UserLearningProgress, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil || user == nil {
		return nil, err
	}
	module, err := s.GetLearningModule(ctx, moduleID)
	if err != nil || module == nil {
		return nil, err
	}

	var out *domain.UserLearningProgress
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.getProgress(s.locked(tx), userID, moduleID)
		if err != nil {
			return err
		}
		now := s.clock()
		if current == nil {
			row := &domain.UserLearningProgress{ID: store.EnsureID(""), UserID: userID, ModuleID: moduleID}
			row.Apply(pct, now)
			if err := tx.Create(row).Error; err != nil {
				return conflict(err)
			}
		} else if current.Apply(pct, now) {
			if err := tx.Model(&domain.UserLearningProgress{}).Where("id = ?", current.ID).Updates(map[string]any{
				"status":       current.Status,
				"progress":     current.Progress,
				"started_at":   current.StartedAt,
				"completed_at": current.CompletedAt,
				"updated_at":   current.UpdatedAt,
			}).Error; err != nil {
				return err
			}
		}
		out, err = s.getProgress(tx, userID, moduleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) modulesCompleted(q *gorm.DB, userID string) (int, error) {
	var n int64
	err := q.Model(&domain.UserLearningProgress{}).
		Where("user_id = ? AND status = ?", userID, learning.StatusCompleted).
		Count(&n).Error
	return int(n), err
}
