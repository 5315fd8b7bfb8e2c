package reference

import "time"

// GlobalIndigenousPlant is a read-mostly reference record. Text fields are free-form;
// search is substring matching over them.
type GlobalIndigenousPlant struct {
	ID                     string    `gorm:"type:uuid;primaryKey" json:"id"`
	CommonName             string    `gorm:"not null;column:common_name" json:"commonName"`
	ScientificName         string    `gorm:"not null;column:scientific_name" json:"scientificName"`
	Family                 string    `gorm:"column:family" json:"family"`
	NativeRegion           string    `gorm:"index;column:native_region" json:"nativeRegion"`
	Continent              string    `gorm:"index;column:continent" json:"continent"`
	Climate                string    `gorm:"column:climate" json:"climate"`
	TraditionalUses        string    `gorm:"type:text;column:traditional_uses" json:"traditionalUses"`
	CulturalSignificance   string    `gorm:"type:text;column:cultural_significance" json:"culturalSignificance"`
	ActiveCompounds        string    `gorm:"type:text;column:active_compounds" json:"activeCompounds"`
	PreparationMethods     string    `gorm:"type:text;column:preparation_methods" json:"preparationMethods"`
	SafetyNotes            string    `gorm:"type:text;column:safety_notes" json:"safetyNotes"`
	ConservationStatus     string    `gorm:"index;column:conservation_status" json:"conservationStatus"`
	ResearchReferences     *string   `gorm:"type:text;column:research_references" json:"researchReferences,omitempty"`
	CommercialAvailability *string   `gorm:"type:text;column:commercial_availability" json:"commercialAvailability,omitempty"`
	CreatedAt              time.Time `gorm:"not null;column:created_at" json:"createdAt"`
}

func (GlobalIndigenousPlant) TableName() string { return "global_indigenous_plant" }
