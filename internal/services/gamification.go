package services

import (
	"context"
	"strings"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/modules/badges"
	"github.com/yungbote/botanica-backend/internal/modules/journey"
	"github.com/yungbote/botanica-backend/internal/observability"
	"github.com/yungbote/botanica-backend/internal/platform/apierr"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
)

type BadgeService interface {
	ListBadges(ctx context.Context) ([]*domain.Badge, error)
	UserBadges(ctx context.Context, userID string) ([]*domain.UserBadge, error)
	// Eligible annotates every badge the user does not hold yet.
	Eligible(ctx context.Context, userID string) ([]badges.Eligibility, error)
	// Award grants a badge whose requirement is met. created is false when the
	// user already held it.
	Award(ctx context.Context, userID, badgeID string) (award *domain.UserBadge, created bool, err error)
}

type badgeService struct {
	log      *logger.Logger
	accounts store.AccountStore
	badges   store.BadgeStore
	journey  store.JourneyStore
}

func NewBadgeService(log *logger.Logger, accounts store.AccountStore, badgeStore store.BadgeStore, journeyStore store.JourneyStore) BadgeService {
	return &badgeService{
		log:      log.With("service", "BadgeService"),
		accounts: accounts,
		badges:   badgeStore,
		journey:  journeyStore,
	}
}

func (s *badgeService) ListBadges(ctx context.Context) ([]*domain.Badge, error) {
	out, err := s.badges.ListBadges(ctx)
	if err != nil {
		return nil, storeErr("list badges", err)
	}
	return out, nil
}

func (s *badgeService) UserBadges(ctx context.Context, userID string) ([]*domain.UserBadge, error) {
	if _, err := getUser(ctx, s.accounts, userID); err != nil {
		return nil, err
	}
	out, err := s.badges.ListUserBadges(ctx, userID)
	if err != nil {
		return nil, storeErr("list user badges", err)
	}
	return out, nil
}

func (s *badgeService) stats(ctx context.Context, userID string) (*domain.UserStats, error) {
	if _, err := getUser(ctx, s.accounts, userID); err != nil {
		return nil, err
	}
	st, err := s.journey.UserStats(ctx, userID)
	if err != nil {
		return nil, storeErr("user stats", err)
	}
	if st == nil {
		return nil, apierr.NotFound("user")
	}
	return st, nil
}

func (s *badgeService) Eligible(ctx context.Context, userID string) ([]badges.Eligibility, error) {
	st, err := s.stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	pending, err := s.badges.CheckBadgeEligibility(ctx, userID)
	if err != nil {
		return nil, storeErr("check badge eligibility", err)
	}
	return badges.EvaluateAll(pending, *st), nil
}

func (s *badgeService) Award(ctx context.Context, userID, badgeID string) (*domain.UserBadge, bool, error) {
	st, err := s.stats(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	b, err := s.badges.GetBadge(ctx, badgeID)
	if err != nil {
		return nil, false, storeErr("get badge", err)
	}
	if b == nil {
		return nil, false, apierr.NotFound("badge")
	}
	if ev := badges.Evaluate(b, *st); !ev.RequirementMet {
		return nil, false, apierr.BadRequest("requirements_not_met", "%s requires %s %v, have %v", b.Name, b.Requirement.Type, ev.Target, ev.Current)
	}
	award, created, err := s.badges.AwardBadge(ctx, userID, badgeID)
	if err != nil {
		return nil, false, storeErr("award badge", err)
	}
	if award == nil {
		return nil, false, apierr.NotFound("badge")
	}
	if created {
		s.log.Info("Badge awarded", "user_id", userID, "badge_id", badgeID)
	}
	return award, created, nil
}

type JourneyService interface {
	Stages(ctx context.Context) ([]*domain.JourneyStage, error)
	Progress(ctx context.Context, userID string) (*domain.UserJourneyProgress, error)
	CanAdvance(ctx context.Context, userID string) (*journey.Evaluation, error)
	// Advance starts the journey when needed and moves the user one stage on.
	Advance(ctx context.Context, userID string) (*domain.UserJourneyProgress, error)
}

type journeyService struct {
	log      *logger.Logger
	accounts store.AccountStore
	journey  store.JourneyStore
	metrics  *observability.Metrics
}

func NewJourneyService(log *logger.Logger, accounts store.AccountStore, journeyStore store.JourneyStore, metrics *observability.Metrics) JourneyService {
	return &journeyService{
		log:      log.With("service", "JourneyService"),
		accounts: accounts,
		journey:  journeyStore,
		metrics:  metrics,
	}
}

func (s *journeyService) Stages(ctx context.Context) ([]*domain.JourneyStage, error) {
	out, err := s.journey.ListJourneyStages(ctx)
	if err != nil {
		return nil, storeErr("list journey stages", err)
	}
	return out, nil
}

func (s *journeyService) Progress(ctx context.Context, userID string) (*domain.UserJourneyProgress, error) {
	if _, err := getUser(ctx, s.accounts, userID); err != nil {
		return nil, err
	}
	p, err := s.journey.GetUserJourneyProgress(ctx, userID)
	if err != nil {
		return nil, storeErr("get journey progress", err)
	}
	if p == nil {
		return nil, apierr.NotFound("journey_progress")
	}
	return p, nil
}

func (s *journeyService) CanAdvance(ctx context.Context, userID string) (*journey.Evaluation, error) {
	if _, err := getUser(ctx, s.accounts, userID); err != nil {
		return nil, err
	}
	ev, err := s.journey.CanAdvanceJourneyStage(ctx, userID)
	if err != nil {
		return nil, storeErr("evaluate journey", err)
	}
	if ev == nil {
		return nil, apierr.NotFound("user")
	}
	return ev, nil
}

func (s *journeyService) Advance(ctx context.Context, userID string) (*domain.UserJourneyProgress, error) {
	if _, err := getUser(ctx, s.accounts, userID); err != nil {
		return nil, err
	}
	p, advanced, err := s.journey.AdvanceJourneyStage(ctx, userID)
	if err != nil {
		return nil, storeErr("advance journey", err)
	}
	if p == nil {
		return nil, apierr.NotFound("journey_stage")
	}
	s.metrics.ObserveJourneyAdvance(advanced)
	if !advanced {
		unmet := []string{"requirements"}
		if ev, err := s.journey.CanAdvanceJourneyStage(ctx, userID); err == nil && ev != nil && len(ev.Unmet) > 0 {
			unmet = ev.Unmet
		}
		return nil, apierr.BadRequest("requirements_not_met", "cannot advance journey: %s", strings.Join(unmet, ", "))
	}
	s.log.Info("Journey advanced", "user_id", userID, "stage_id", p.CurrentStageID)
	return p, nil
}
