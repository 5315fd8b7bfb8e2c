// Package impact holds the funding arithmetic and live-update derivation for community projects.
package impact

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	domain "github.com/yungbote/botanica-backend/internal/domain/impact"
	"github.com/yungbote/botanica-backend/internal/platform/money"
)

var (
	ErrFundingExceedsGoal = errors.New("current funding exceeds funding goal")
	ErrNegativeFunding    = errors.New("funding values must not be negative")
	ErrProgressRange      = errors.New("progress must be between 0 and 100")
)

var hundred = decimal.NewFromInt(100)

// FundingPercentage is (current/goal)*100 rounded to two decimals; a zero goal yields 0.
func FundingPercentage(current, goal string) (float64, error) {
	c, err := money.Parse(current)
	if err != nil {
		return 0, err
	}
	g, err := money.Parse(goal)
	if err != nil {
		return 0, err
	}
	return percentage(c, g), nil
}

func percentage(current, goal decimal.Decimal) float64 {
	if goal.IsZero() {
		return 0
	}
	f, _ := current.Div(goal).Mul(hundred).Round(2).Float64()
	return f
}

// Validate checks the funding and progress invariants of a project.
func Validate(p *domain.CommunityProject) error {
	if p.Progress < 0 || p.Progress > 100 {
		return ErrProgressRange
	}
	c, err := money.Parse(p.CurrentFunding)
	if err != nil {
		return err
	}
	g, err := money.Parse(p.FundingGoal)
	if err != nil {
		return err
	}
	if c.IsNegative() || g.IsNegative() {
		return ErrNegativeFunding
	}
	if c.GreaterThan(g) {
		return fmt.Errorf("%w: %s > %s", ErrFundingExceedsGoal, money.Format(c), money.Format(g))
	}
	return nil
}

// Aggregate totals funding and beneficiaries across projects.
func Aggregate(projects []*domain.CommunityProject) domain.Stats {
	out := domain.Stats{ByStatus: map[domain.ProjectStatus]int{}}
	goal, funded := decimal.Zero, decimal.Zero
	for _, p := range projects {
		out.TotalProjects++
		out.ByStatus[p.Status]++
		out.TotalBeneficiaries += p.Beneficiaries
		if g, err := money.Parse(p.FundingGoal); err == nil {
			goal = goal.Add(g)
		}
		if c, err := money.Parse(p.CurrentFunding); err == nil {
			funded = funded.Add(c)
		}
	}
	out.TotalFundingGoal = money.Format(goal)
	out.TotalFunding = money.Format(funded)
	out.FundingPercentage = percentage(funded, goal)
	return out
}

// Changes derives the live feed entries describing the move from before to after.
// IDs and timestamps are left for the store to assign.
func Changes(before, after *domain.CommunityProject) []*domain.LiveImpactUpdate {
	if before == nil || after == nil {
		return nil
	}
	var out []*domain.LiveImpactUpdate
	if before.Progress != after.Progress {
		out = append(out, &domain.LiveImpactUpdate{
			ProjectID:     after.ID,
			UpdateType:    domain.UpdateProgress,
			Title:         after.Name + " progress update",
			Message:       fmt.Sprintf("%s is now %d%% complete.", after.Name, after.Progress),
			PreviousValue: strPtr(strconv.Itoa(before.Progress)),
			NewValue:      strPtr(strconv.Itoa(after.Progress)),
			IsPublic:      true,
		})
	}
	if money.MustNormalize(before.CurrentFunding) != money.MustNormalize(after.CurrentFunding) {
		pct, _ := FundingPercentage(after.CurrentFunding, after.FundingGoal)
		out = append(out, &domain.LiveImpactUpdate{
			ProjectID:     after.ID,
			UpdateType:    domain.UpdateFunding,
			Title:         after.Name + " funding update",
			Message:       fmt.Sprintf("%s has raised %s of %s (%.0f%%).", after.Name, money.MustNormalize(after.CurrentFunding), money.MustNormalize(after.FundingGoal), pct),
			PreviousValue: strPtr(money.MustNormalize(before.CurrentFunding)),
			NewValue:      strPtr(money.MustNormalize(after.CurrentFunding)),
			IsPublic:      true,
		})
	}
	if before.Status != domain.StatusCompleted && after.Status == domain.StatusCompleted {
		out = append(out, &domain.LiveImpactUpdate{
			ProjectID:     after.ID,
			UpdateType:    domain.UpdateCompletion,
			Title:         after.Name + " completed",
			Message:       fmt.Sprintf("%s has been completed, benefiting %d people.", after.Name, after.Beneficiaries),
			PreviousValue: strPtr(string(before.Status)),
			NewValue:      strPtr(string(after.Status)),
			IsPublic:      true,
		})
	}
	return out
}

func strPtr(s string) *string { return &s }
