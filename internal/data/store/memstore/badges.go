package memstore

import (
	"context"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
)

func (s *Store) ListBadges(ctx context.Context) ([]*domain.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.badges.list(nil), nil
}

func (s *Store) GetBadge(ctx context.Context, id string) (*domain.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.badges.get(id), nil
}

func (s *Store) ListUserBadges(ctx context.Context, userID string) ([]*domain.UserBadge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userBadges.list(func(ub *domain.UserBadge) bool { return ub.UserID == userID }), nil
}

func (s *Store) AwardBadge(ctx context.Context, userID, badgeID string) (*domain.UserBadge, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users.ref(userID); !ok {
		return nil, false, nil
	}
	if _, ok := s.badges.ref(badgeID); !ok {
		return nil, false, nil
	}
	key := pairKey(userID, badgeID)
	if existing := s.userBadges.get(key); existing != nil {
		return existing, false, nil
	}
	s.userBadges.put(key, &domain.UserBadge{
		ID:       store.EnsureID(""),
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: s.now().UTC(),
	})
	return s.userBadges.get(key), true, nil
}

func (s *Store) CheckBadgeEligibility(ctx context.Context, userID string) ([]*domain.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.badges.list(func(b *domain.Badge) bool {
		_, awarded := s.userBadges.ref(pairKey(userID, b.ID))
		return !awarded
	}), nil
}
