package catalog

// PriceRange is the inclusive min/max price across the catalog.
type PriceRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// FilterOptions lists the distinct taxonomy values a storefront can filter on.
type FilterOptions struct {
	Categories     []string   `json:"categories"`
	Sectors        []string   `json:"sectors"`
	PlantMaterials []string   `json:"plantMaterials"`
	ProductTypes   []string   `json:"productTypes"`
	Certifications []string   `json:"certifications"`
	PriceRange     PriceRange `json:"priceRange"`
}
