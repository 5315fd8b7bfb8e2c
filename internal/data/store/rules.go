package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/botanica-backend/internal/domain"
	impactrules "github.com/yungbote/botanica-backend/internal/modules/impact"
	"github.com/yungbote/botanica-backend/internal/platform/money"
)

// EnsureID returns id, or a fresh UUID when id is empty.
func EnsureID(id string) string {
	if strings.TrimSpace(id) == "" {
		return uuid.NewString()
	}
	return id
}

// ValidateProject reports funding and progress violations as ErrInvariant.
func ValidateProject(p *domain.CommunityProject) error {
	if err := impactrules.Validate(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvariant, err)
	}
	return nil
}

// ValidateStock enforces 0 <= reserved <= current.
func ValidateStock(current, reserved int) error {
	if current < 0 {
		return fmt.Errorf("%w: stock must not be negative (got %d)", ErrInvariant, current)
	}
	if reserved < 0 || reserved > current {
		return fmt.Errorf("%w: reserved stock %d outside [0, %d]", ErrInvariant, reserved, current)
	}
	return nil
}

// ValidateCartQuantity rejects negative quantities.
func ValidateCartQuantity(q int) error {
	if q < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvariant)
	}
	return nil
}

// NextRating folds one rating into an average over count prior ratings.
func NextRating(current string, count, rating int) string {
	avg, err := money.Parse(current)
	if err != nil {
		avg = decimal.Zero
	}
	total := avg.Mul(decimal.NewFromInt(int64(count))).Add(decimal.NewFromInt(int64(rating)))
	return total.Div(decimal.NewFromInt(int64(count + 1))).StringFixed(1)
}

// FilterOptions collects the distinct taxonomy values and price bounds of products.
func FilterOptions(products []*domain.Product) *domain.FilterOptions {
	cats, sectors, materials, types, certs := set{}, set{}, set{}, set{}, set{}
	var lo, hi *decimal.Decimal
	for _, p := range products {
		cats.add(p.Category)
		sectors.add(p.Sector)
		materials.add(p.PlantMaterial)
		types.add(p.ProductType)
		for _, c := range p.Certifications {
			certs.add(c)
		}
		price, err := money.Parse(p.Price)
		if err != nil {
			continue
		}
		if lo == nil || price.LessThan(*lo) {
			v := price
			lo = &v
		}
		if hi == nil || price.GreaterThan(*hi) {
			v := price
			hi = &v
		}
	}
	out := &domain.FilterOptions{
		Categories:     cats.sorted(),
		Sectors:        sectors.sorted(),
		PlantMaterials: materials.sorted(),
		ProductTypes:   types.sorted(),
		Certifications: certs.sorted(),
	}
	out.PriceRange.Min, out.PriceRange.Max = "0.00", "0.00"
	if lo != nil {
		out.PriceRange.Min = money.Format(*lo)
		out.PriceRange.Max = money.Format(*hi)
	}
	return out
}

// StatsInput is the raw material UserStats is computed from.
type StatsInput struct {
	User             *domain.User
	PurchaseCount    int
	ModulesCompleted int
	ModulesTotal     int
	BadgesEarned     int
	StageOrder       int
}

// BuildUserStats derives LearningProgress as the percentage of all modules completed.
func BuildUserStats(in StatsInput) *domain.UserStats {
	out := &domain.UserStats{
		UserID:           in.User.ID,
		PurchaseCount:    in.PurchaseCount,
		TotalSpent:       money.MustNormalize(in.User.TotalSpent),
		LoyaltyPoints:    in.User.LoyaltyPoints,
		ModulesCompleted: in.ModulesCompleted,
		BadgesEarned:     in.BadgesEarned,
		StageOrder:       in.StageOrder,
	}
	if in.ModulesTotal > 0 {
		out.LearningProgress = in.ModulesCompleted * 100 / in.ModulesTotal
	}
	return out
}

type set map[string]struct{}

func (s set) add(v string) {
	if v = strings.TrimSpace(v); v != "" {
		s[v] = struct{}{}
	}
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
