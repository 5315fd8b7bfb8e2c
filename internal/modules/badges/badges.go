// Package badges evaluates badge requirement predicates against a user's stats.
package badges

import (
	"strings"

	"github.com/yungbote/botanica-backend/internal/domain/gamification"
	"github.com/yungbote/botanica-backend/internal/platform/money"
)

// Eligibility annotates an unawarded badge with whether its requirement is satisfied.
type Eligibility struct {
	Badge          *gamification.Badge `json:"badge"`
	RequirementMet bool                `json:"requirementMet"`
	Current        float64             `json:"current"`
	Target         float64             `json:"target"`
}

// Measure returns the stat a requirement type is compared against. Unknown types report ok=false.
func Measure(reqType string, stats gamification.UserStats) (value float64, ok bool) {
	switch strings.ToLower(strings.TrimSpace(reqType)) {
	case gamification.RequirementPurchases:
		return float64(stats.PurchaseCount), true
	case gamification.RequirementTotalSpent:
		d, err := money.Parse(stats.TotalSpent)
		if err != nil {
			return 0, false
		}
		f, _ := d.Float64()
		return f, true
	case gamification.RequirementLoyaltyPoints:
		return float64(stats.LoyaltyPoints), true
	case gamification.RequirementModules:
		return float64(stats.ModulesCompleted), true
	case gamification.RequirementLearning:
		return float64(stats.LearningProgress), true
	case gamification.RequirementJourneyStage:
		return float64(stats.StageOrder), true
	case gamification.RequirementBadgesEarned:
		return float64(stats.BadgesEarned), true
	}
	return 0, false
}

// Evaluate reports whether stats satisfy the badge requirement. Timeframes are
// not windowed; requirements are measured against lifetime stats.
func Evaluate(b *gamification.Badge, stats gamification.UserStats) Eligibility {
	out := Eligibility{Badge: b}
	if b == nil {
		return out
	}
	out.Target = b.Requirement.Value
	current, ok := Measure(b.Requirement.Type, stats)
	out.Current = current
	out.RequirementMet = ok && current >= b.Requirement.Value
	return out
}

// EvaluateAll annotates each badge in order.
func EvaluateAll(list []*gamification.Badge, stats gamification.UserStats) []Eligibility {
	out := make([]Eligibility, 0, len(list))
	for _, b := range list {
		out = append(out, Evaluate(b, stats))
	}
	return out
}
