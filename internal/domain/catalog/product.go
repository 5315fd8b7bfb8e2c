package catalog

import (
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/botanica-backend/internal/platform/money"
)

type ResearchPaper struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
	Year  int    `json:"year" yaml:"year"`
}

// Product is immutable once created apart from InStock and the rating aggregates.
type Product struct {
	ID                  string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name                string          `gorm:"not null;column:name" json:"name"`
	Description         string          `gorm:"type:text;column:description" json:"description"`
	DetailedDescription string          `gorm:"type:text;column:detailed_description" json:"detailedDescription"`
	Price               string          `gorm:"type:numeric(10,2);not null;column:price" json:"price"`
	Category            string          `gorm:"index;column:category" json:"category"`
	Sector              string          `gorm:"index;column:sector" json:"sector"`
	PlantMaterial       string          `gorm:"index;column:plant_material" json:"plantMaterial"`
	ProductType         string          `gorm:"index;column:product_type" json:"productType"`
	ImageURL            string          `gorm:"column:image_url" json:"imageUrl"`
	Rating              string          `gorm:"type:numeric(2,1);not null;default:0;column:rating" json:"rating"`
	ReviewCount         int             `gorm:"not null;default:0;column:review_count" json:"reviewCount"`
	BioactiveCompounds  []string        `gorm:"type:jsonb;serializer:json;column:bioactive_compounds" json:"bioactiveCompounds"`
	Certifications      []string        `gorm:"type:jsonb;serializer:json;column:certifications" json:"certifications"`
	ResearchPapers      []ResearchPaper `gorm:"type:jsonb;serializer:json;column:research_papers" json:"researchPapers"`
	InStock             bool            `gorm:"not null;column:in_stock" json:"inStock"`
	CreatedAt           time.Time       `gorm:"not null;column:created_at" json:"createdAt"`
}

func (Product) TableName() string { return "product" }

// Clone returns a copy that shares no slices with p.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	c.BioactiveCompounds = cloneSlice(p.BioactiveCompounds)
	c.Certifications = cloneSlice(p.Certifications)
	c.ResearchPapers = cloneSlice(p.ResearchPapers)
	return &c
}

// cloneSlice keeps nil and empty distinct so empty lists still encode as [].
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append(make([]T, 0, len(in)), in...)
}

// AfterFind keeps decimal columns in canonical form regardless of driver formatting.
func (p *Product) AfterFind(tx *gorm.DB) error {
	p.Price = money.MustNormalize(p.Price)
	if r, err := money.NormalizeRating(p.Rating); err == nil {
		p.Rating = r
	}
	return nil
}
