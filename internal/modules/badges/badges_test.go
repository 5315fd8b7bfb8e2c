package badges

import (
	"testing"

	"github.com/yungbote/botanica-backend/internal/domain/gamification"
)

func badge(reqType string, value float64) *gamification.Badge {
	return &gamification.Badge{ID: reqType, Requirement: gamification.BadgeRequirement{Type: reqType, Value: value}}
}

func TestEvaluate_Thresholds(t *testing.T) {
	stats := gamification.UserStats{
		PurchaseCount:    3,
		TotalSpent:       "120.50",
		LoyaltyPoints:    80,
		ModulesCompleted: 2,
		LearningProgress: 40,
		StageOrder:       2,
		BadgesEarned:     1,
	}
	cases := []struct {
		b    *gamification.Badge
		want bool
	}{
		{badge(gamification.RequirementPurchases, 3), true},
		{badge(gamification.RequirementPurchases, 4), false},
		{badge(gamification.RequirementTotalSpent, 100), true},
		{badge(gamification.RequirementTotalSpent, 120.51), false},
		{badge(gamification.RequirementLoyaltyPoints, 80), true},
		{badge(gamification.RequirementModules, 3), false},
		{badge(gamification.RequirementLearning, 40), true},
		{badge(gamification.RequirementJourneyStage, 2), true},
		{badge(gamification.RequirementBadgesEarned, 2), false},
		{badge("community_votes", 0), false},
	}
	for _, tc := range cases {
		got := Evaluate(tc.b, stats)
		if got.RequirementMet != tc.want {
			t.Fatalf("%s >= %v: want=%v got=%v (current=%v)", tc.b.Requirement.Type, tc.b.Requirement.Value, tc.want, got.RequirementMet, got.Current)
		}
	}
}

func TestEvaluateAll_PreservesOrder(t *testing.T) {
	list := []*gamification.Badge{badge(gamification.RequirementPurchases, 1), badge(gamification.RequirementLoyaltyPoints, 1)}
	out := EvaluateAll(list, gamification.UserStats{LoyaltyPoints: 5})
	if len(out) != 2 || out[0].Badge != list[0] || out[1].Badge != list[1] {
		t.Fatalf("unexpected order: %+v", out)
	}
	if out[0].RequirementMet || !out[1].RequirementMet {
		t.Fatalf("unexpected results: %+v", out)
	}
}
