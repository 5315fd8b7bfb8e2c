package journey

import (
	"testing"
	"time"

	"github.com/yungbote/botanica-backend/internal/domain/gamification"
)

func intPtr(v int) *int { return &v }

func testStages() []*gamification.JourneyStage {
	return []*gamification.JourneyStage{
		{ID: "s3", Name: "Steward", OrderIndex: 3, Requirements: gamification.StageRequirements{
			MinPurchases: intPtr(5), MinLearningProgress: intPtr(50), MinLoyaltyPoints: intPtr(300),
		}, Rewards: gamification.StageRewards{XP: 500, LoyaltyPoints: 200}},
		{ID: "s1", Name: "Seedling", OrderIndex: 1},
		{ID: "s2", Name: "Sprout", OrderIndex: 2, Requirements: gamification.StageRequirements{
			MinPurchases: intPtr(1),
		}, Rewards: gamification.StageRewards{XP: 150, LoyaltyPoints: 50}},
	}
}

func TestEvaluate_NotStarted(t *testing.T) {
	ev := Evaluate(testStages(), nil, gamification.UserStats{})
	if ev.CanAdvance {
		t.Fatalf("expected canAdvance=false before the journey starts")
	}
	if ev.NextStage == nil || ev.NextStage.ID != "s1" {
		t.Fatalf("expected first stage as next, got %+v", ev.NextStage)
	}
}

func TestEvaluate_EachUnmetThresholdBlocks(t *testing.T) {
	progress := &gamification.UserJourneyProgress{CurrentStageID: "s2"}
	met := gamification.UserStats{PurchaseCount: 5, LearningProgress: 50, LoyaltyPoints: 300}
	if ev := Evaluate(testStages(), progress, met); !ev.CanAdvance {
		t.Fatalf("expected canAdvance=true when all thresholds are met, unmet=%v", ev.Unmet)
	}

	cases := map[string]gamification.UserStats{
		UnmetPurchases:        {PurchaseCount: 4, LearningProgress: 50, LoyaltyPoints: 300},
		UnmetLearningProgress: {PurchaseCount: 5, LearningProgress: 49, LoyaltyPoints: 300},
		UnmetLoyaltyPoints:    {PurchaseCount: 5, LearningProgress: 50, LoyaltyPoints: 299},
	}
	for want, stats := range cases {
		ev := Evaluate(testStages(), progress, stats)
		if ev.CanAdvance {
			t.Fatalf("expected canAdvance=false when %s is unmet", want)
		}
		if len(ev.Unmet) != 1 || ev.Unmet[0] != want {
			t.Fatalf("expected unmet=[%s], got %v", want, ev.Unmet)
		}
		if ev.NextStage == nil || ev.NextStage.ID != "s3" {
			t.Fatalf("expected next stage s3, got %+v", ev.NextStage)
		}
	}
}

func TestEvaluate_UndefinedThresholdsPass(t *testing.T) {
	stages := []*gamification.JourneyStage{{ID: "a", OrderIndex: 1}, {ID: "b", OrderIndex: 2}}
	ev := Evaluate(stages, &gamification.UserJourneyProgress{CurrentStageID: "a"}, gamification.UserStats{})
	if !ev.CanAdvance {
		t.Fatalf("expected canAdvance=true with no thresholds defined")
	}
}

func TestEvaluate_FinalStage(t *testing.T) {
	ev := Evaluate(testStages(), &gamification.UserJourneyProgress{CurrentStageID: "s3"}, gamification.UserStats{PurchaseCount: 100})
	if ev.CanAdvance || ev.NextStage != nil {
		t.Fatalf("expected no advancement past the final stage, got %+v", ev)
	}
}

func TestAdvance_AppliesRewards(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := Start("u1", First(testStages()), now)
	if p.CurrentStageID != "s1" || p.Level != 1 {
		t.Fatalf("unexpected start state: %+v", p)
	}
	_, next := Neighbors(testStages(), p.CurrentStageID)
	Advance(p, next, now)
	if p.CurrentStageID != "s2" {
		t.Fatalf("expected current stage s2, got %q", p.CurrentStageID)
	}
	if len(p.CompletedStages) != 1 || p.CompletedStages[0] != "s1" {
		t.Fatalf("expected completed=[s1], got %v", p.CompletedStages)
	}
	if p.TotalXP != 150 || p.Level != 1 || p.ProgressToNext != 30 {
		t.Fatalf("unexpected xp/level: xp=%d level=%d next=%d", p.TotalXP, p.Level, p.ProgressToNext)
	}
}

func TestLevel(t *testing.T) {
	cases := []struct{ xp, level, next int }{
		{0, 1, 0},
		{499, 1, 99},
		{500, 2, 0},
		{1250, 3, 50},
		{-10, 1, 0},
	}
	for _, tc := range cases {
		level, next := Level(tc.xp)
		if level != tc.level || next != tc.next {
			t.Fatalf("Level(%d): want=(%d,%d) got=(%d,%d)", tc.xp, tc.level, tc.next, level, next)
		}
	}
}
