// Package journey decides when a user may move to the next journey stage and
// applies the stage rewards when they do.
package journey

import (
	"sort"
	"time"

	"github.com/yungbote/botanica-backend/internal/domain/gamification"
)

// XPPerLevel is the experience needed to gain one level.
const XPPerLevel = 500

const (
	UnmetNotStarted       = "journeyNotStarted"
	UnmetFinalStage       = "finalStageReached"
	UnmetPurchases        = "minPurchases"
	UnmetLearningProgress = "minLearningProgress"
	UnmetLoyaltyPoints    = "minLoyaltyPoints"
)

type Evaluation struct {
	CanAdvance   bool                       `json:"canAdvance"`
	CurrentStage *gamification.JourneyStage `json:"currentStage,omitempty"`
	NextStage    *gamification.JourneyStage `json:"nextStage,omitempty"`
	Unmet        []string                   `json:"unmet,omitempty"`
}

// Sorted returns stages ordered by OrderIndex without modifying the input.
func Sorted(stages []*gamification.JourneyStage) []*gamification.JourneyStage {
	out := append([]*gamification.JourneyStage(nil), stages...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

func First(stages []*gamification.JourneyStage) *gamification.JourneyStage {
	s := Sorted(stages)
	if len(s) == 0 {
		return nil
	}
	return s[0]
}

// Neighbors finds the stage with currentID and the one that follows it.
func Neighbors(stages []*gamification.JourneyStage, currentID string) (current, next *gamification.JourneyStage) {
	s := Sorted(stages)
	for i, st := range s {
		if st.ID != currentID {
			continue
		}
		current = st
		if i+1 < len(s) {
			next = s[i+1]
		}
		return current, next
	}
	return nil, nil
}

// RequirementsMet checks every defined threshold; undefined thresholds pass.
func RequirementsMet(req gamification.StageRequirements, stats gamification.UserStats) (bool, []string) {
	var unmet []string
	if req.MinPurchases != nil && stats.PurchaseCount < *req.MinPurchases {
		unmet = append(unmet, UnmetPurchases)
	}
	if req.MinLearningProgress != nil && stats.LearningProgress < *req.MinLearningProgress {
		unmet = append(unmet, UnmetLearningProgress)
	}
	if req.MinLoyaltyPoints != nil && stats.LoyaltyPoints < *req.MinLoyaltyPoints {
		unmet = append(unmet, UnmetLoyaltyPoints)
	}
	return len(unmet) == 0, unmet
}

// Evaluate never mutates its inputs. A nil progress means the journey has not started.
func Evaluate(stages []*gamification.JourneyStage, progress *gamification.UserJourneyProgress, stats gamification.UserStats) Evaluation {
	if progress == nil {
		return Evaluation{NextStage: First(stages), Unmet: []string{UnmetNotStarted}}
	}
	current, next := Neighbors(stages, progress.CurrentStageID)
	if next == nil {
		return Evaluation{CurrentStage: current, Unmet: []string{UnmetFinalStage}}
	}
	ok, unmet := RequirementsMet(next.Requirements, stats)
	return Evaluation{CanAdvance: ok, CurrentStage: current, NextStage: next, Unmet: unmet}
}

// Start builds the initial progress record at the first stage.
func Start(userID string, first *gamification.JourneyStage, now time.Time) *gamification.UserJourneyProgress {
	p := &gamification.UserJourneyProgress{
		UserID:          userID,
		CompletedStages: []string{},
		Level:           1,
		UpdatedAt:       now,
	}
	if first != nil {
		p.CurrentStageID = first.ID
	}
	return p
}

// Advance moves progress onto next and applies its XP reward. Loyalty points are
// credited to the user record by the caller.
func Advance(progress *gamification.UserJourneyProgress, next *gamification.JourneyStage, now time.Time) {
	completed := append([]string(nil), progress.CompletedStages...)
	if progress.CurrentStageID != "" {
		completed = append(completed, progress.CurrentStageID)
	}
	progress.CompletedStages = completed
	progress.CurrentStageID = next.ID
	progress.TotalXP += next.Rewards.XP
	progress.Level, progress.ProgressToNext = Level(progress.TotalXP)
	progress.UpdatedAt = now
}

// Level derives the level and percentage towards the next level from total XP.
func Level(totalXP int) (level int, progressToNext int) {
	if totalXP < 0 {
		totalXP = 0
	}
	return 1 + totalXP/XPPerLevel, (totalXP % XPPerLevel) * 100 / XPPerLevel
}
