// Package recommend ranks catalog products against a visitor's stated preferences.
// Scoring is a pure function of (product, preferences); identical inputs always
// produce the same ordering.
package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yungbote/botanica-backend/internal/domain/catalog"
	"github.com/yungbote/botanica-backend/internal/domain/personalization"
	"github.com/yungbote/botanica-backend/internal/platform/money"
)

type Preferences struct {
	HealthGoals      []string
	PreferredFormats []string
	BudgetRange      string
}

func FromUserPreferences(p *personalization.UserPreferences) Preferences {
	if p == nil {
		return Preferences{}
	}
	return Preferences{
		HealthGoals:      p.HealthGoals,
		PreferredFormats: p.PreferredFormats,
		BudgetRange:      p.BudgetRange,
	}
}

type Scored struct {
	Product  *catalog.Product
	Score    float64
	Priority int
	Reason   string
}

// Score evaluates one product. Priority is 1 + the index of the first matched
// health goal, or len(HealthGoals)+1 when none matched.
func Score(p *catalog.Product, prefs Preferences) Scored {
	tenths := baseTenths
	priority := len(prefs.HealthGoals) + 1
	var matchedGoals []string

	haystack := productText(p)
	for i, goal := range prefs.HealthGoals {
		if !matchesGoal(haystack, goal) {
			continue
		}
		tenths += goalTenths
		matchedGoals = append(matchedGoals, strings.TrimSpace(goal))
		if priority > i+1 {
			priority = i + 1
		}
	}

	format := matchedFormat(p.ProductType, prefs.PreferredFormats)
	if format != "" {
		tenths += formatTenths
	}

	budget := inBudget(p.Price, prefs.BudgetRange)
	if budget {
		tenths += budgetTenths
	}

	if tenths > maxTenths {
		tenths = maxTenths
	}
	return Scored{
		Product:  p,
		Score:    float64(tenths) / 10,
		Priority: priority,
		Reason:   reason(matchedGoals, format, budget),
	}
}

// Rank scores every product and returns the top TopN, ordered by score desc,
// priority asc, then name and id for a stable total order.
func Rank(products []*catalog.Product, prefs Preferences) []Scored {
	scored := make([]Scored, 0, len(products))
	for _, p := range products {
		if p == nil {
			continue
		}
		scored = append(scored, Score(p, prefs))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.Product.Name != b.Product.Name {
			return a.Product.Name < b.Product.Name
		}
		return a.Product.ID < b.Product.ID
	})
	if len(scored) > TopN {
		scored = scored[:TopN]
	}
	return scored
}

type Result struct {
	Recommendations []personalization.ProductRecommendation
	Confidence      float64
	Explanation     string
}

// Generate runs Rank and derives the confidence score and explanation.
func Generate(products []*catalog.Product, prefs Preferences) Result {
	ranked := Rank(products, prefs)
	recs := make([]personalization.ProductRecommendation, 0, len(ranked))
	for _, s := range ranked {
		recs = append(recs, personalization.ProductRecommendation{
			ProductID: s.Product.ID,
			Score:     s.Score,
			Reason:    s.Reason,
			Priority:  s.Priority,
		})
	}
	return Result{
		Recommendations: recs,
		Confidence:      Confidence(recs),
		Explanation:     Explain(prefs.HealthGoals, recs),
	}
}

// Confidence is the mean score rounded to two decimals; 0 for no recommendations.
func Confidence(recs []personalization.ProductRecommendation) float64 {
	if len(recs) == 0 {
		return 0
	}
	var sum float64
	for _, r := range recs {
		sum += r.Score
	}
	return math.Round(sum/float64(len(recs))*100) / 100
}

func Explain(goals []string, recs []personalization.ProductRecommendation) string {
	if len(recs) == 0 {
		return "We could not find products matching your preferences yet. Try broadening your goals or formats."
	}
	top := int(math.Round(recs[0].Score * 100))
	var focus string
	clean := make([]string, 0, 2)
	for _, g := range goals {
		if g = strings.TrimSpace(g); g != "" {
			clean = append(clean, g)
		}
		if len(clean) == 2 {
			break
		}
	}
	switch len(clean) {
	case 0:
		focus = "your overall wellness"
	case 1:
		focus = clean[0]
	default:
		focus = clean[0] + " and " + clean[1]
	}
	return fmt.Sprintf(
		"Based on your focus on %s, we selected %d products that best match your goals. Our top recommendation scored %d%% against your preferences.",
		focus, len(recs), top,
	)
}

func productText(p *catalog.Product) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(p.PlantMaterial))
	b.WriteByte(' ')
	b.WriteString(strings.ToLower(p.Name))
	for _, c := range p.BioactiveCompounds {
		b.WriteByte(' ')
		b.WriteString(strings.ToLower(c))
	}
	return b.String()
}

// matchesGoal resolves a free-form goal ("Stress relief") onto the keyword table.
func matchesGoal(haystack, goal string) bool {
	g := strings.ToLower(strings.TrimSpace(goal))
	if g == "" {
		return false
	}
	for _, key := range goalOrder {
		if !strings.Contains(g, key) {
			continue
		}
		for _, kw := range goalKeywords[key] {
			if strings.Contains(haystack, kw) {
				return true
			}
		}
	}
	return false
}

func matchedFormat(productType string, formats []string) string {
	pt := strings.ToLower(productType)
	if pt == "" {
		return ""
	}
	for _, f := range formats {
		key := strings.ToLower(strings.TrimSpace(f))
		if key == "" {
			continue
		}
		kws, ok := formatKeywords[key]
		if !ok {
			kws = []string{key}
		}
		for _, kw := range kws {
			if strings.Contains(pt, kw) {
				return key
			}
		}
	}
	return ""
}

var (
	twentyFive  = decimal.NewFromInt(25)
	fifty       = decimal.NewFromInt(50)
	seventyFive = decimal.NewFromInt(75)
)

func inBudget(price, budget string) bool {
	d, err := money.Parse(price)
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(budget)) {
	case "low":
		return d.LessThan(twentyFive)
	case "medium":
		return d.GreaterThanOrEqual(twentyFive) && d.LessThanOrEqual(fifty)
	case "high":
		return d.GreaterThan(fifty)
	case "premium":
		return d.GreaterThanOrEqual(seventyFive)
	}
	return false
}

func reason(goals []string, format string, budget bool) string {
	var parts []string
	if len(goals) > 0 {
		parts = append(parts, "supports "+strings.Join(goals, ", "))
	}
	if format != "" {
		parts = append(parts, "matches your preferred "+format+" format")
	}
	if budget {
		parts = append(parts, "fits your budget")
	}
	if len(parts) == 0 {
		return "Popular botanical choice"
	}
	s := strings.Join(parts, "; ")
	return strings.ToUpper(s[:1]) + s[1:]
}
