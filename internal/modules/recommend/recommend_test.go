package recommend

import (
	"fmt"
	"strings"
	"testing"

	"github.com/yungbote/botanica-backend/internal/domain/catalog"
	"github.com/yungbote/botanica-backend/internal/domain/personalization"
)

func product(id, name, material, productType, price string, compounds ...string) *catalog.Product {
	return &catalog.Product{
		ID:                 id,
		Name:               name,
		PlantMaterial:      material,
		ProductType:        productType,
		Price:              price,
		BioactiveCompounds: compounds,
	}
}

func TestScore_BaseOnly(t *testing.T) {
	s := Score(product("p1", "Plain", "Moss", "Spray", "10.00"), Preferences{})
	if s.Score != 0.5 {
		t.Fatalf("expected base score 0.5, got %v", s.Score)
	}
	if s.Priority != 1 {
		t.Fatalf("expected priority 1 with no goals, got %d", s.Priority)
	}
}

func TestScore_AccumulatesGoalFormatBudget(t *testing.T) {
	p := product("p1", "Calm Blend", "Ashwagandha", "Herbal Tea", "19.99")
	s := Score(p, Preferences{
		HealthGoals:      []string{"sleep", "stress"},
		PreferredFormats: []string{"tea"},
		BudgetRange:      "low",
	})
	// base 0.5 + stress 0.3 + tea 0.2 + budget 0.1 clamps to 1.0
	if s.Score != 1.0 {
		t.Fatalf("expected clamped score 1.0, got %v", s.Score)
	}
	if s.Priority != 2 {
		t.Fatalf("expected priority 2 (stress is the second goal), got %d", s.Priority)
	}
	if !strings.Contains(s.Reason, "stress") {
		t.Fatalf("expected reason to mention the matched goal, got %q", s.Reason)
	}
}

func TestScore_MatchesBioactiveCompounds(t *testing.T) {
	p := product("p1", "Golden Paste", "Root", "Powder", "30.00", "Curcumin")
	s := Score(p, Preferences{HealthGoals: []string{"Inflammation support"}})
	if s.Score != 0.8 {
		t.Fatalf("expected 0.8 from a compound match, got %v", s.Score)
	}
}

func TestScore_TopicalFormatKeywords(t *testing.T) {
	p := product("p1", "Healing Balm", "Calendula", "Lip Balm", "12.00")
	s := Score(p, Preferences{PreferredFormats: []string{"topical"}})
	if s.Score != 0.7 {
		t.Fatalf("expected 0.7 for a topical match, got %v", s.Score)
	}
}

func TestInBudget_Brackets(t *testing.T) {
	cases := []struct {
		price  string
		budget string
		want   bool
	}{
		{"24.99", "low", true},
		{"25.00", "low", false},
		{"25.00", "medium", true},
		{"50.00", "medium", true},
		{"50.01", "high", true},
		{"50.00", "high", false},
		{"75.00", "premium", true},
		{"74.99", "premium", false},
		{"10.00", "unknown", false},
		{"not-a-price", "low", false},
	}
	for _, tc := range cases {
		if got := inBudget(tc.price, tc.budget); got != tc.want {
			t.Fatalf("inBudget(%q, %q): want=%v got=%v", tc.price, tc.budget, tc.want, got)
		}
	}
}

func TestRank_TruncatesAndOrders(t *testing.T) {
	var products []*catalog.Product
	for i := 0; i < 10; i++ {
		products = append(products, product(fmt.Sprintf("id-%02d", i), fmt.Sprintf("Product %02d", i), "Moss", "Spray", "10.00"))
	}
	products = append(products, product("winner", "Zz Echinacea", "Echinacea", "Capsule", "10.00"))

	ranked := Rank(products, Preferences{HealthGoals: []string{"immunity"}, PreferredFormats: []string{"capsule"}})
	if len(ranked) != TopN {
		t.Fatalf("expected %d results, got %d", TopN, len(ranked))
	}
	if ranked[0].Product.ID != "winner" {
		t.Fatalf("expected highest score first, got %q", ranked[0].Product.ID)
	}
	for i := 2; i < len(ranked); i++ {
		if ranked[i-1].Product.Name > ranked[i].Product.Name {
			t.Fatalf("ties must be ordered by name: %q before %q", ranked[i-1].Product.Name, ranked[i].Product.Name)
		}
	}
}

func TestRank_PriorityBreaksScoreTies(t *testing.T) {
	a := product("a", "A Lavender", "Lavender", "Oil", "10.00") // sleep, goal 1
	b := product("b", "B Ginseng", "Ginseng", "Oil", "10.00")   // energy, goal 2
	ranked := Rank([]*catalog.Product{b, a}, Preferences{HealthGoals: []string{"sleep", "energy"}})
	if ranked[0].Product.ID != "a" || ranked[1].Product.ID != "b" {
		t.Fatalf("expected priority order a,b got %s,%s", ranked[0].Product.ID, ranked[1].Product.ID)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	products := []*catalog.Product{
		product("1", "Elderberry Syrup", "Elderberry", "Syrup", "18.00"),
		product("2", "Reishi Capsules", "Reishi", "Capsule", "32.00"),
		product("3", "Chamomile Tea", "Chamomile", "Tea", "9.50"),
		product("4", "Maca Powder", "Maca", "Powder", "27.00"),
		product("5", "Rosehip Serum", "Rosehip", "Face Serum", "44.00"),
		product("6", "Ginkgo Tincture", "Ginkgo", "Tincture", "21.00"),
		product("7", "Turmeric Gummies", "Turmeric", "Gummy", "15.00"),
	}
	prefs := Preferences{HealthGoals: []string{"immunity", "sleep"}, PreferredFormats: []string{"tea", "capsule"}, BudgetRange: "low"}

	first := Generate(products, prefs)
	for i := 0; i < 5; i++ {
		again := Generate(products, prefs)
		if len(again.Recommendations) != len(first.Recommendations) {
			t.Fatalf("length changed between calls")
		}
		for j := range again.Recommendations {
			if again.Recommendations[j].ProductID != first.Recommendations[j].ProductID {
				t.Fatalf("order changed at %d: %q vs %q", j, again.Recommendations[j].ProductID, first.Recommendations[j].ProductID)
			}
		}
	}
	if first.Explanation == "" || !strings.Contains(first.Explanation, "immunity and sleep") {
		t.Fatalf("explanation should mention the first two goals, got %q", first.Explanation)
	}
}

func TestConfidence_MeanRounded(t *testing.T) {
	recs := []personalization.ProductRecommendation{{Score: 1.0}, {Score: 0.5}, {Score: 0.5}}
	if got := Confidence(recs); got != 0.67 {
		t.Fatalf("expected 0.67, got %v", got)
	}
	if got := Confidence(nil); got != 0 {
		t.Fatalf("expected 0 for no recommendations, got %v", got)
	}
}
