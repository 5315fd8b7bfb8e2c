package dbstore

import (
	"context"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
)

func (s *Store) ListBadges(ctx context.Context) ([]*domain.Badge, error) {
	var out []*domain.Badge
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetBadge(ctx context.Context, id string) (*domain.Badge, error) {
	if !validID(id) {
		return nil, nil
	}
	var b domain.Badge
	found, err := first(s.db.WithContext(ctx).Where("id = ?", id), &b)
	if err != nil || !found {
		return nil, err
	}
	return &b, nil
}

func (s *Store) ListUserBadges(ctx context.Context, userID string) ([]*domain.UserBadge, error) {
	out := []*domain.UserBadge{}
	if !validID(userID) {
		return out, nil
	}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) userBadge(ctx context.Context, userID, badgeID string) (*domain.UserBadge, error) {
	var ub domain.UserBadge
	found, err := first(s.db.WithContext(ctx).Where("user_id = ? AND badge_id = ?", userID, badgeID), &ub)
	if err != nil || !found {
		return nil, err
	}
	return &ub, nil
}

// AwardBadge leans on the (user, badge) unique index; a lost insert race
// resolves to the row the winner wrote.
func (s *Store) AwardBadge(ctx context.Context, userID, badgeID string) (*domain.UserBadge, bool, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil || user == nil {
		return nil, false, err
	}
	badge, err := s.GetBadge(ctx, badgeID)
	if err != nil || badge == nil {
		return nil, false, err
	}
	if existing, err := s.userBadge(ctx, userID, badgeID); err != nil || existing != nil {
		return existing, false, err
	}
	row := &domain.UserBadge{ID: store.EnsureID(""), UserID: userID, BadgeID: badgeID, EarnedAt: s.clock()}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if !isUniqueViolation(err) {
			return nil, false, err
		}
		existing, err := s.userBadge(ctx, userID, badgeID)
		return existing, false, err
	}
	return row, true, nil
}

func (s *Store) CheckBadgeEligibility(ctx context.Context, userID string) ([]*domain.Badge, error) {
	if !validID(userID) {
		return s.ListBadges(ctx)
	}
	awarded := s.db.WithContext(ctx).Model(&domain.UserBadge{}).Select("badge_id").Where("user_id = ?", userID)
	var out []*domain.Badge
	if err := s.db.WithContext(ctx).
		Where("id NOT IN (?)", awarded).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
