package store

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/domain/commerce"
	"github.com/yungbote/botanica-backend/internal/domain/impact"
	"github.com/yungbote/botanica-backend/internal/platform/money"
)

// Filter fields are optional; a nil field places no constraint.

type ProductFilter struct {
	Category      *string
	Sector        *string
	PlantMaterial *string // substring
	ProductType   *string
	InStock       *bool
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	Search        *string // substring over name, description and plant material
	Certification *string
}

func (f ProductFilter) Matches(p *domain.Product) bool {
	if f.Category != nil && !strings.EqualFold(p.Category, *f.Category) {
		return false
	}
	if f.Sector != nil && !strings.EqualFold(p.Sector, *f.Sector) {
		return false
	}
	if f.PlantMaterial != nil && !ContainsFold(p.PlantMaterial, *f.PlantMaterial) {
		return false
	}
	if f.ProductType != nil && !strings.EqualFold(p.ProductType, *f.ProductType) {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price, err := money.Parse(p.Price)
		if err != nil {
			return false
		}
		if f.MinPrice != nil && price.LessThan(*f.MinPrice) {
			return false
		}
		if f.MaxPrice != nil && price.GreaterThan(*f.MaxPrice) {
			return false
		}
	}
	if f.Search != nil {
		s := *f.Search
		if !ContainsFold(p.Name, s) && !ContainsFold(p.Description, s) && !ContainsFold(p.PlantMaterial, s) {
			return false
		}
	}
	if f.Certification != nil {
		found := false
		for _, c := range p.Certifications {
			if strings.EqualFold(c, *f.Certification) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type ProjectFilter struct {
	Status   *impact.ProjectStatus
	Category *impact.ProjectCategory
}

func (f ProjectFilter) Matches(p *domain.CommunityProject) bool {
	if f.Status != nil && p.Status != *f.Status {
		return false
	}
	if f.Category != nil && p.Category != *f.Category {
		return false
	}
	return true
}

// LiveUpdateFilter lists newest first. Limit <= 0 means no limit.
type LiveUpdateFilter struct {
	ProjectID  *string
	PublicOnly bool
	Limit      int
}

func (f LiveUpdateFilter) Matches(u *domain.LiveImpactUpdate) bool {
	if f.ProjectID != nil && u.ProjectID != *f.ProjectID {
		return false
	}
	if f.PublicOnly && !u.IsPublic {
		return false
	}
	return true
}

type InventoryFilter struct {
	LowStock *bool
}

func (f InventoryFilter) Matches(inv *domain.Inventory) bool {
	if f.LowStock != nil && inv.LowStock() != *f.LowStock {
		return false
	}
	return true
}

// PlantSearch is a conjunction of the provided criteria. Text fields match by
// substring, Continent and ConservationStatus by case-insensitive equality, and
// the Has* flags by presence of the nullable column.
type PlantSearch struct {
	Query                 *string // common or scientific name
	CommonName            *string
	ScientificName        *string
	Family                *string
	NativeRegion          *string
	Climate               *string
	TraditionalUse        *string
	ActiveCompound        *string
	Continent             *string
	ConservationStatus    *string
	HasResearch           *bool
	CommerciallyAvailable *bool
}

func (q PlantSearch) Matches(p *domain.GlobalIndigenousPlant) bool {
	if q.Query != nil && !ContainsFold(p.CommonName, *q.Query) && !ContainsFold(p.ScientificName, *q.Query) {
		return false
	}
	substr := []struct {
		want *string
		have string
	}{
		{q.CommonName, p.CommonName},
		{q.ScientificName, p.ScientificName},
		{q.Family, p.Family},
		{q.NativeRegion, p.NativeRegion},
		{q.Climate, p.Climate},
		{q.TraditionalUse, p.TraditionalUses},
		{q.ActiveCompound, p.ActiveCompounds},
	}
	for _, s := range substr {
		if s.want != nil && !ContainsFold(s.have, *s.want) {
			return false
		}
	}
	if q.Continent != nil && !strings.EqualFold(p.Continent, *q.Continent) {
		return false
	}
	if q.ConservationStatus != nil && !strings.EqualFold(p.ConservationStatus, *q.ConservationStatus) {
		return false
	}
	if q.HasResearch != nil && (p.ResearchReferences != nil) != *q.HasResearch {
		return false
	}
	if q.CommerciallyAvailable != nil && (p.CommercialAvailability != nil) != *q.CommerciallyAvailable {
		return false
	}
	return true
}

// MatchesRegion reports whether region names the plant's native region or continent.
func MatchesRegion(p *domain.GlobalIndigenousPlant, region string) bool {
	return ContainsFold(p.NativeRegion, region) || strings.EqualFold(p.Continent, region)
}

// ContainsFold is a case-insensitive substring test.
func ContainsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// Patches: nil fields leave the stored value unchanged.

type ProjectPatch struct {
	Name                 *string
	Description          *string
	Location             *string
	Community            *string
	Category             *impact.ProjectCategory
	Status               *impact.ProjectStatus
	Progress             *int
	FundingGoal          *string
	CurrentFunding       *string
	Beneficiaries        *int
	StartDate            *time.Time
	TargetCompletionDate *time.Time
	ImageURL             *string
}

// Apply writes the patch onto p and maintains CompletionDate: it is set when the
// status becomes completed and cleared when it leaves completed.
func (pp ProjectPatch) Apply(p *domain.CommunityProject, now time.Time) {
	wasCompleted := p.Status == impact.StatusCompleted
	setStr(&p.Name, pp.Name)
	setStr(&p.Description, pp.Description)
	setStr(&p.Location, pp.Location)
	setStr(&p.Community, pp.Community)
	setStr(&p.ImageURL, pp.ImageURL)
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.Status != nil {
		p.Status = *pp.Status
	}
	if pp.Progress != nil {
		p.Progress = *pp.Progress
	}
	if pp.FundingGoal != nil {
		p.FundingGoal = money.MustNormalize(*pp.FundingGoal)
	}
	if pp.CurrentFunding != nil {
		p.CurrentFunding = money.MustNormalize(*pp.CurrentFunding)
	}
	if pp.Beneficiaries != nil {
		p.Beneficiaries = *pp.Beneficiaries
	}
	if pp.StartDate != nil {
		t := *pp.StartDate
		p.StartDate = &t
	}
	if pp.TargetCompletionDate != nil {
		t := *pp.TargetCompletionDate
		p.TargetCompletionDate = &t
	}
	isCompleted := p.Status == impact.StatusCompleted
	switch {
	case isCompleted && !wasCompleted:
		t := now
		p.CompletionDate = &t
	case !isCompleted:
		p.CompletionDate = nil
	}
	p.UpdatedAt = now
}

type UserPatch struct {
	Username  *string
	Email     *string
	Password  *string // already hashed
	FirstName *string
	LastName  *string
}

func (up UserPatch) Apply(u *domain.User, now time.Time) {
	setStr(&u.Username, up.Username)
	setStr(&u.Email, up.Email)
	setStr(&u.Password, up.Password)
	setStr(&u.FirstName, up.FirstName)
	setStr(&u.LastName, up.LastName)
	u.UpdatedAt = now
}

// InventoryAdjustment sets on-hand stock absolutely (SetStock) or relatively (Delta).
// The resulting stock must stay >= reserved.
type InventoryAdjustment struct {
	SetStock     *int
	Delta        *int
	ReorderLevel *int
	Reason       string
}

// Resolve computes the new on-hand stock and the movement type for the adjustment.
func (a InventoryAdjustment) Resolve(current int) (int, commerce.MovementType) {
	next := current
	if a.SetStock != nil {
		next = *a.SetStock
	}
	if a.Delta != nil {
		next += *a.Delta
	}
	if next > current {
		return next, commerce.MovementRestock
	}
	return next, commerce.MovementAdjustment
}

func setStr(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
