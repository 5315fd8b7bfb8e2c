package memstore

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/modules/journey"
)

func (s *Store) ListJourneyStages(ctx context.Context) ([]*domain.JourneyStage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return journey.Sorted(s.stages.list(nil)), nil
}

func (s *Store) GetJourneyStage(ctx context.Context, id string) (*domain.JourneyStage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stages.get(id), nil
}

func (s *Store) GetUserJourneyProgress(ctx context.Context, userID string) (*domain.UserJourneyProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.journeys.get(userID), nil
}

func (s *Store) StartJourney(ctx context.Context, userID string) (*domain.UserJourneyProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users.ref(userID); !ok {
		return nil, nil
	}
	return s.startJourneyLocked(userID), nil
}

func (s *Store) startJourneyLocked(userID string) *domain.UserJourneyProgress {
	if existing := s.journeys.get(userID); existing != nil {
		return existing
	}
	first := journey.First(s.stages.list(nil))
	if first == nil {
		return nil
	}
	p := journey.Start(userID, first, s.now().UTC())
	p.ID = store.EnsureID("")
	s.journeys.put(userID, p)
	return s.journeys.get(userID)
}

func (s *Store) UserStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userStatsLocked(userID), nil
}

func (s *Store) userStatsLocked(userID string) *domain.UserStats {
	u := s.users.get(userID)
	if u == nil {
		return nil
	}
	in := store.StatsInput{
		User:             u,
		PurchaseCount:    s.purchaseCountLocked(userID),
		ModulesCompleted: s.modulesCompletedLocked(userID),
		ModulesTotal:     s.modules.len(),
		BadgesEarned:     len(s.userBadges.list(func(ub *domain.UserBadge) bool { return ub.UserID == userID })),
	}
	if p, ok := s.journeys.ref(userID); ok {
		if st, ok := s.stages.ref(p.CurrentStageID); ok {
			in.StageOrder = st.OrderIndex
		}
	}
	return store.BuildUserStats(in)
}

func (s *Store) CanAdvanceJourneyStage(ctx context.Context, userID string) (*journey.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := s.userStatsLocked(userID)
	if stats == nil {
		return nil, nil
	}
	ev := journey.Evaluate(s.stages.list(nil), s.journeys.get(userID), *stats)
	return &ev, nil
}

func (s *Store) AdvanceJourneyStage(ctx context.Context, userID string) (*domain.UserJourneyProgress, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.userStatsLocked(userID)
	if stats == nil {
		return nil, false, nil
	}
	progress := s.startJourneyLocked(userID)
	if progress == nil {
		return nil, false, nil
	}
	ev := journey.Evaluate(s.stages.list(nil), progress, *stats)
	if !ev.CanAdvance {
		return progress, false, nil
	}
	journey.Advance(progress, ev.NextStage, s.now().UTC())
	s.journeys.put(userID, progress)
	if ev.NextStage.Rewards.LoyaltyPoints != 0 {
		if _, err := s.addUserRewardsLocked(userID, ev.NextStage.Rewards.LoyaltyPoints, decimal.Zero); err != nil {
			return nil, false, err
		}
	}
	return s.journeys.get(userID), true, nil
}
