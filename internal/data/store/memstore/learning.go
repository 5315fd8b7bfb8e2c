package memstore

import (
	"context"
	"sort"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/domain/learning"
)

func (s *Store) ListLearningModules(ctx context.Context) ([]*domain.LearningModule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.modules.list(nil)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (s *Store) GetLearningModule(ctx context.Context, id string) (*domain.LearningModule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modules.get(id), nil
}

func (s *Store) ListUserLearningProgress(ctx context.Context, userID string) ([]*domain.UserLearningProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress.list(func(p *domain.UserLearningProgress) bool { return p.UserID == userID }), nil
}

func (s *Store) GetUserLearningProgress(ctx context.Context, userID, moduleID string) (*domain.UserLearningProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress.get(pairKey(userID, moduleID)), nil
}

func (s *Store) RecordLearningProgress(ctx context.Context, userID, moduleID string, pct int) (*domain.UserLearningProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users.ref(userID); !ok {
		return nil, nil
	}
	if _, ok := s.modules.ref(moduleID); !ok {
		return nil, nil
	}
	key := pairKey(userID, moduleID)
	p, ok := s.progress.ref(key)
	if !ok {
		s.progress.put(key, &domain.UserLearningProgress{
			ID:       store.EnsureID(""),
			UserID:   userID,
			ModuleID: moduleID,
		})
		p, _ = s.progress.ref(key)
	}
	p.Apply(pct, s.now().UTC())
	return s.progress.get(key), nil
}

func (s *Store) modulesCompletedLocked(userID string) int {
	n := 0
	for _, p := range s.progress.list(func(p *domain.UserLearningProgress) bool { return p.UserID == userID }) {
		if p.Status == learning.StatusCompleted {
			n++
		}
	}
	return n
}
