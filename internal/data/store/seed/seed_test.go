package seed

import (
	"testing"
	"time"

	"github.com/yungbote/botanica-backend/internal/domain/impact"
	impactrules "github.com/yungbote/botanica-backend/internal/modules/impact"
)

func TestLoad_ParsesEmbeddedFixtures(t *testing.T) {
	fx, err := Load(time.Now())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(fx.Products) == 0 || len(fx.Products) != len(fx.Inventory) {
		t.Fatalf("expected one inventory row per product, got products=%d inventory=%d", len(fx.Products), len(fx.Inventory))
	}
	if len(fx.JourneyStages) < 2 || len(fx.Badges) == 0 || len(fx.LearningModules) == 0 || len(fx.GlobalPlants) == 0 {
		t.Fatalf("missing fixture sections: %+v", fx)
	}
	for _, p := range fx.CommunityProjects {
		if err := impactrules.Validate(p); err != nil {
			t.Fatalf("project %q violates invariants: %v", p.Name, err)
		}
		if (p.Status == impact.StatusCompleted) != (p.CompletionDate != nil) {
			t.Fatalf("project %q: completionDate must be set exactly when completed", p.Name)
		}
	}
	for _, u := range fx.Users {
		if u.Password == "" || u.Password == "botanica-demo" {
			t.Fatalf("expected hashed fixture password")
		}
	}
}

func TestLoad_StableIDs(t *testing.T) {
	a, err := Load(time.Now())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b, _ := Load(time.Now().Add(time.Hour))
	for i := range a.Products {
		if a.Products[i].ID != b.Products[i].ID {
			t.Fatalf("product ids must be stable across loads")
		}
	}
	if a.Products[0].ID != ID("product", "echinacea-immune-capsules") {
		t.Fatalf("unexpected product id derivation")
	}
}

func TestLoad_ResolvesPrerequisites(t *testing.T) {
	fx, err := Load(time.Now())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ids := map[string]bool{}
	for _, m := range fx.LearningModules {
		ids[m.ID] = true
	}
	for _, m := range fx.LearningModules {
		for _, p := range m.Prerequisites {
			if !ids[p] {
				t.Fatalf("module %q has unknown prerequisite %q", m.Title, p)
			}
		}
	}
}
