package impact

import (
	"errors"
	"testing"

	domain "github.com/yungbote/botanica-backend/internal/domain/impact"
)

func TestFundingPercentage_Half(t *testing.T) {
	got, err := FundingPercentage("50.00", "100.00")
	if err != nil {
		t.Fatalf("FundingPercentage: %v", err)
	}
	if got != 50 {
		t.Fatalf("expected 50, got %v", got)
	}
}

func TestFundingPercentage_ZeroGoal(t *testing.T) {
	got, err := FundingPercentage("10.00", "0")
	if err != nil || got != 0 {
		t.Fatalf("expected 0 for zero goal, got %v err=%v", got, err)
	}
	if _, err := FundingPercentage("abc", "1"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	ok := &domain.CommunityProject{FundingGoal: "100.00", CurrentFunding: "100.00", Progress: 100}
	if err := Validate(ok); err != nil {
		t.Fatalf("expected valid project, got %v", err)
	}
	over := &domain.CommunityProject{FundingGoal: "100.00", CurrentFunding: "100.01"}
	if err := Validate(over); !errors.Is(err, ErrFundingExceedsGoal) {
		t.Fatalf("expected ErrFundingExceedsGoal, got %v", err)
	}
	if err := Validate(&domain.CommunityProject{FundingGoal: "1", Progress: 101}); !errors.Is(err, ErrProgressRange) {
		t.Fatalf("expected ErrProgressRange, got %v", err)
	}
	if err := Validate(&domain.CommunityProject{FundingGoal: "1", CurrentFunding: "-1"}); !errors.Is(err, ErrNegativeFunding) {
		t.Fatalf("expected ErrNegativeFunding, got %v", err)
	}
}

func TestAggregate(t *testing.T) {
	stats := Aggregate([]*domain.CommunityProject{
		{Status: domain.StatusActive, FundingGoal: "100.00", CurrentFunding: "25.00", Beneficiaries: 10},
		{Status: domain.StatusCompleted, FundingGoal: "300.00", CurrentFunding: "175.00", Beneficiaries: 5},
	})
	if stats.TotalProjects != 2 || stats.TotalBeneficiaries != 15 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.TotalFundingGoal != "400.00" || stats.TotalFunding != "200.00" || stats.FundingPercentage != 50 {
		t.Fatalf("unexpected funding: %+v", stats)
	}
	if stats.ByStatus[domain.StatusActive] != 1 || stats.ByStatus[domain.StatusCompleted] != 1 {
		t.Fatalf("unexpected status counts: %+v", stats.ByStatus)
	}
}

func TestChanges(t *testing.T) {
	before := &domain.CommunityProject{ID: "p", Name: "Well", Status: domain.StatusActive, Progress: 40, FundingGoal: "100.00", CurrentFunding: "40.00"}
	after := *before
	after.Progress = 100
	after.CurrentFunding = "100"
	after.Status = domain.StatusCompleted

	updates := Changes(before, &after)
	if len(updates) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(updates))
	}
	wantTypes := []domain.UpdateType{domain.UpdateProgress, domain.UpdateFunding, domain.UpdateCompletion}
	for i, u := range updates {
		if u.UpdateType != wantTypes[i] {
			t.Fatalf("update %d: want=%s got=%s", i, wantTypes[i], u.UpdateType)
		}
		if u.ProjectID != "p" || !u.IsPublic {
			t.Fatalf("unexpected update: %+v", u)
		}
	}
	if *updates[1].NewValue != "100.00" {
		t.Fatalf("expected normalized funding, got %q", *updates[1].NewValue)
	}

	if got := Changes(before, before); len(got) != 0 {
		t.Fatalf("expected no updates for an unchanged project, got %d", len(got))
	}
}
