package dbstore

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/modules/journey"
)

func (s *Store) ListJourneyStages(ctx context.Context) ([]*domain.JourneyStage, error) {
	return s.stages(s.db.WithContext(ctx))
}

func (s *Store) stages(q *gorm.DB) ([]*domain.JourneyStage, error) {
	var out []*domain.JourneyStage
	if err := q.Order("order_index ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetJourneyStage(ctx context.Context, id string) (*domain.JourneyStage, error) {
	if !validID(id) {
		return nil, nil
	}
	var st domain.JourneyStage
	found, err := first(s.db.WithContext(ctx).Where("id = ?", id), &st)
	if err != nil || !found {
		return nil, err
	}
	return &st, nil
}

func (s *Store) GetUserJourneyProgress(ctx context.Context, userID string) (*domain.UserJourneyProgress, error) {
	return s.journeyProgress(s.db.WithContext(ctx), userID)
}

func (s *Store) journeyProgress(q *gorm.DB, userID string) (*domain.UserJourneyProgress, error) {
	if !validID(userID) {
		return nil, nil
	}
	var p domain.UserJourneyProgress
	found, err := first(q.Where("user_id = ?", userID), &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

func (s *Store) StartJourney(ctx context.Context, userID string) (*domain.UserJourneyProgress, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil || user == nil {
		return nil, err
	}
	return s.startJourney(s.db.WithContext(ctx), userID)
}

// startJourney inserts first-stage progress unless a row already exists.
func (s *Store) startJourney(q *gorm.DB, userID string) (*domain.UserJourneyProgress, error) {
	if existing, err := s.journeyProgress(q, userID); err != nil || existing != nil {
		return existing, err
	}
	stages, err := s.stages(q)
	if err != nil {
		return nil, err
	}
	firstStage := journey.First(stages)
	if firstStage == nil {
		return nil, nil
	}
	row := journey.Start(userID, firstStage, s.clock())
	row.ID = store.EnsureID("")
	if err := q.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return s.journeyProgress(q, userID)
}

func (s *Store) UserStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	return s.userStats(s.db.WithContext(ctx), userID)
}

func (s *Store) userStats(q *gorm.DB, userID string) (*domain.UserStats, error) {
	user, err := s.getUser(q, userID)
	if err != nil || user == nil {
		return nil, err
	}
	in := store.StatsInput{User: user}
	if in.PurchaseCount, err = s.purchaseCount(q, userID); err != nil {
		return nil, err
	}
	if in.ModulesCompleted, err = s.modulesCompleted(q, userID); err != nil {
		return nil, err
	}
	var n int64
	if err := q.Model(&domain.LearningModule{}).Count(&n).Error; err != nil {
		return nil, err
	}
	in.ModulesTotal = int(n)
	if err := q.Model(&domain.UserBadge{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return nil, err
	}
	in.BadgesEarned = int(n)

	progress, err := s.journeyProgress(q, userID)
	if err != nil {
		return nil, err
	}
	if progress != nil {
		var st domain.JourneyStage
		found, err := first(q.Where("id = ?", progress.CurrentStageID), &st)
		if err != nil {
			return nil, err
		}
		if found {
			in.StageOrder = st.OrderIndex
		}
	}
	return store.BuildUserStats(in), nil
}

func (s *Store) CanAdvanceJourneyStage(ctx context.Context, userID string) (*journey.Evaluation, error) {
	q := s.db.WithContext(ctx)
	stats, err := s.userStats(q, userID)
	if err != nil || stats == nil {
		return nil, err
	}
	stages, err := s.stages(q)
	if err != nil {
		return nil, err
	}
	progress, err := s.journeyProgress(q, userID)
	if err != nil {
		return nil, err
	}
	ev := journey.Evaluate(stages, progress, *stats)
	return &ev, nil
}

// AdvanceJourneyStage starts the journey when needed, then moves one stage forward
// and credits the stage's loyalty reward in the same transaction. The move is a
// compare-and-swap on current_stage_id, so a lost race reports advanced=false.
func (s *Store) AdvanceJourneyStage(ctx context.Context, userID string) (*domain.UserJourneyProgress, bool, error) {
	var (
		out      *domain.UserJourneyProgress
		advanced bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stats, err := s.userStats(tx, userID)
		if err != nil || stats == nil {
			return err
		}
		if _, err := s.startJourney(tx, userID); err != nil {
			return err
		}
		progress, err := s.journeyProgress(tx, userID)
		if err != nil || progress == nil {
			return err
		}
		stages, err := s.stages(tx)
		if err != nil {
			return err
		}
		ev := journey.Evaluate(stages, progress, *stats)
		if !ev.CanAdvance {
			out = progress
			return nil
		}
		fromStage := progress.CurrentStageID
		journey.Advance(progress, ev.NextStage, s.clock())
		res := tx.Model(progress).
			Where("current_stage_id = ?", fromStage).
			Select("current_stage_id", "completed_stages", "total_xp", "level", "progress_to_next", "updated_at").
			Updates(progress)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Another request advanced first.
			out, err = s.journeyProgress(tx, userID)
			return err
		}
		if reward := ev.NextStage.Rewards.LoyaltyPoints; reward != 0 {
			if _, err := s.addUserRewards(tx, userID, reward, decimal.Zero); err != nil {
				return err
			}
		}
		if out, err = s.journeyProgress(tx, userID); err != nil {
			return err
		}
		advanced = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, advanced, nil
}
