package catalog

import "testing"

func TestProductClone_PreservesEmptyLists(t *testing.T) {
	p := &Product{
		BioactiveCompounds: []string{},
		Certifications:     []string{},
		ResearchPapers:     []ResearchPaper{},
	}
	c := p.Clone()
	if c.BioactiveCompounds == nil || c.Certifications == nil || c.ResearchPapers == nil {
		t.Fatalf("empty lists became nil: %+v", c)
	}

	var bare Product
	if got := bare.Clone(); got.Certifications != nil {
		t.Fatalf("nil list became non-nil: %#v", got.Certifications)
	}
}

func TestProductClone_SharesNoBacking(t *testing.T) {
	p := &Product{Certifications: []string{"organic"}}
	c := p.Clone()
	c.Certifications[0] = "mutated"
	if p.Certifications[0] != "organic" {
		t.Fatalf("clone shares backing array with source")
	}
}
