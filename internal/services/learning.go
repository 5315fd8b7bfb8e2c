package services

import (
	"context"
	"strings"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/domain/learning"
	"github.com/yungbote/botanica-backend/internal/platform/apierr"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
)

type LearningService interface {
	ListModules(ctx context.Context) ([]*domain.LearningModule, error)
	GetModule(ctx context.Context, id string) (*domain.LearningModule, error)
	UserProgress(ctx context.Context, userID string) ([]*domain.UserLearningProgress, error)
	// RecordProgress folds a completion percentage into the user's record. Starting
	// a module requires its prerequisites to be completed.
	RecordProgress(ctx context.Context, userID, moduleID string, pct int) (*domain.UserLearningProgress, error)
}

type learningService struct {
	log      *logger.Logger
	accounts store.AccountStore
	learning store.LearningStore
}

func NewLearningService(log *logger.Logger, accounts store.AccountStore, learning store.LearningStore) LearningService {
	return &learningService{
		log:      log.With("service", "LearningService"),
		accounts: accounts,
		learning: learning,
	}
}

func (s *learningService) ListModules(ctx context.Context) ([]*domain.LearningModule, error) {
	out, err := s.learning.ListLearningModules(ctx)
	if err != nil {
		return nil, storeErr("list learning modules", err)
	}
	return out, nil
}

func (s *learningService) GetModule(ctx context.Context, id string) (*domain.LearningModule, error) {
	m, err := s.learning.GetLearningModule(ctx, id)
	if err != nil {
		return nil, storeErr("get learning module", err)
	}
	if m == nil {
		return nil, apierr.NotFound("learning_module")
	}
	return m, nil
}

func (s *learningService) UserProgress(ctx context.Context, userID string) ([]*domain.UserLearningProgress, error) {
	if _, err := getUser(ctx, s.accounts, userID); err != nil {
		return nil, err
	}
	out, err := s.learning.ListUserLearningProgress(ctx, userID)
	if err != nil {
		return nil, storeErr("list learning progress", err)
	}
	return out, nil
}

func (s *learningService) RecordProgress(ctx context.Context, userID, moduleID string, pct int) (*domain.UserLearningProgress, error) {
	if pct < 0 || pct > 100 {
		return nil, invalid("progress must be between 0 and 100")
	}
	if _, err := getUser(ctx, s.accounts, userID); err != nil {
		return nil, err
	}
	m, err := s.GetModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if pct > 0 {
		missing, err := s.missingPrerequisites(ctx, userID, m)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			return nil, apierr.BadRequest("prerequisites_not_met", "complete %s first", strings.Join(missing, ", "))
		}
	}
	p, err := s.learning.RecordLearningProgress(ctx, userID, moduleID, pct)
	if err != nil {
		return nil, storeErr("record learning progress", err)
	}
	if p == nil {
		return nil, apierr.NotFound("learning_module")
	}
	if p.Status == learning.StatusCompleted {
		s.log.Info("Learning module completed", "user_id", userID, "module_id", moduleID)
	}
	return p, nil
}

func (s *learningService) missingPrerequisites(ctx context.Context, userID string, m *domain.LearningModule) ([]string, error) {
	var missing []string
	for _, pre := range m.Prerequisites {
		p, err := s.learning.GetUserLearningProgress(ctx, userID, pre)
		if err != nil {
			return nil, storeErr("get learning progress", err)
		}
		if p == nil || p.Status != learning.StatusCompleted {
			missing = append(missing, pre)
		}
	}
	return missing, nil
}
