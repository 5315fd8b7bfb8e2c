// Package seed loads the demo catalog shipped with the service. Fixture ids are
// derived from stable keys so both backends seed identical rows.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/domain/catalog"
	"github.com/yungbote/botanica-backend/internal/domain/gamification"
	"github.com/yungbote/botanica-backend/internal/domain/impact"
	"github.com/yungbote/botanica-backend/internal/domain/learning"
	"github.com/yungbote/botanica-backend/internal/platform/money"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

// Fixtures is the full seed data set in insertion order.
type Fixtures struct {
	Products          []*domain.Product
	Inventory         []*domain.Inventory
	CommunityProjects []*domain.CommunityProject
	LiveUpdates       []*domain.LiveImpactUpdate
	Milestones        []*domain.ImpactMilestone
	LearningModules   []*domain.LearningModule
	Badges            []*domain.Badge
	JourneyStages     []*domain.JourneyStage
	GlobalPlants      []*domain.GlobalIndigenousPlant
	Users             []*domain.User
}

// ID derives the fixture id for kind/key.
func ID(kind, key string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("botanica:"+kind+":"+key)).String()
}

type file struct {
	Products []struct {
		Key                 string                  `yaml:"key"`
		Name                string                  `yaml:"name"`
		Description         string                  `yaml:"description"`
		DetailedDescription string                  `yaml:"detailedDescription"`
		Price               string                  `yaml:"price"`
		Category            string                  `yaml:"category"`
		Sector              string                  `yaml:"sector"`
		PlantMaterial       string                  `yaml:"plantMaterial"`
		ProductType         string                  `yaml:"productType"`
		ImageURL            string                  `yaml:"imageUrl"`
		Rating              string                  `yaml:"rating"`
		ReviewCount         int                     `yaml:"reviewCount"`
		BioactiveCompounds  []string                `yaml:"bioactiveCompounds"`
		Certifications      []string                `yaml:"certifications"`
		ResearchPapers      []catalog.ResearchPaper `yaml:"researchPapers"`
		InStock             bool                    `yaml:"inStock"`
		Inventory           struct {
			CurrentStock int `yaml:"currentStock"`
			ReorderLevel int `yaml:"reorderLevel"`
		} `yaml:"inventory"`
	} `yaml:"products"`

	CommunityProjects []struct {
		Key                  string `yaml:"key"`
		Name                 string `yaml:"name"`
		Description          string `yaml:"description"`
		Location             string `yaml:"location"`
		Community            string `yaml:"community"`
		Category             string `yaml:"category"`
		Status               string `yaml:"status"`
		Progress             int    `yaml:"progress"`
		FundingGoal          string `yaml:"fundingGoal"`
		CurrentFunding       string `yaml:"currentFunding"`
		Beneficiaries        int    `yaml:"beneficiaries"`
		StartDate            string `yaml:"startDate"`
		TargetCompletionDate string `yaml:"targetCompletionDate"`
		CompletionDate       string `yaml:"completionDate"`
		ImageURL             string `yaml:"imageUrl"`
	} `yaml:"communityProjects"`

	LiveUpdates []struct {
		Project       string         `yaml:"project"`
		UpdateType    string         `yaml:"updateType"`
		Title         string         `yaml:"title"`
		Message       string         `yaml:"message"`
		PreviousValue *string        `yaml:"previousValue"`
		NewValue      *string        `yaml:"newValue"`
		IsPublic      bool           `yaml:"isPublic"`
		Metadata      map[string]any `yaml:"metadata"`
	} `yaml:"liveUpdates"`

	Milestones []struct {
		Project            string  `yaml:"project"`
		Title              string  `yaml:"title"`
		Description        string  `yaml:"description"`
		TargetValue        string  `yaml:"targetValue"`
		IsAchieved         bool    `yaml:"isAchieved"`
		CelebrationMessage *string `yaml:"celebrationMessage"`
	} `yaml:"milestones"`

	LearningModules []struct {
		Key              string                    `yaml:"key"`
		Title            string                    `yaml:"title"`
		Description      string                    `yaml:"description"`
		Category         string                    `yaml:"category"`
		Difficulty       string                    `yaml:"difficulty"`
		EstimatedMinutes int                       `yaml:"estimatedMinutes"`
		OrderIndex       int                       `yaml:"orderIndex"`
		XPReward         int                       `yaml:"xpReward"`
		Prerequisites    []string                  `yaml:"prerequisites"`
		Content          []learning.ContentSection `yaml:"content"`
	} `yaml:"learningModules"`

	Badges []struct {
		Key         string                        `yaml:"key"`
		Name        string                        `yaml:"name"`
		Description string                        `yaml:"description"`
		Icon        string                        `yaml:"icon"`
		Category    string                        `yaml:"category"`
		Rarity      string                        `yaml:"rarity"`
		Requirement gamification.BadgeRequirement `yaml:"requirement"`
		XPReward    int                           `yaml:"xpReward"`
	} `yaml:"badges"`

	JourneyStages []struct {
		Key          string                         `yaml:"key"`
		Name         string                         `yaml:"name"`
		Description  string                         `yaml:"description"`
		OrderIndex   int                            `yaml:"orderIndex"`
		Requirements gamification.StageRequirements `yaml:"requirements"`
		Rewards      gamification.StageRewards      `yaml:"rewards"`
	} `yaml:"journeyStages"`

	GlobalPlants []struct {
		Key                    string  `yaml:"key"`
		CommonName             string  `yaml:"commonName"`
		ScientificName         string  `yaml:"scientificName"`
		Family                 string  `yaml:"family"`
		NativeRegion           string  `yaml:"nativeRegion"`
		Continent              string  `yaml:"continent"`
		Climate                string  `yaml:"climate"`
		TraditionalUses        string  `yaml:"traditionalUses"`
		CulturalSignificance   string  `yaml:"culturalSignificance"`
		ActiveCompounds        string  `yaml:"activeCompounds"`
		PreparationMethods     string  `yaml:"preparationMethods"`
		SafetyNotes            string  `yaml:"safetyNotes"`
		ConservationStatus     string  `yaml:"conservationStatus"`
		ResearchReferences     *string `yaml:"researchReferences"`
		CommercialAvailability *string `yaml:"commercialAvailability"`
	} `yaml:"globalPlants"`

	Users []struct {
		Key       string `yaml:"key"`
		Username  string `yaml:"username"`
		Email     string `yaml:"email"`
		Password  string `yaml:"password"`
		FirstName string `yaml:"firstName"`
		LastName  string `yaml:"lastName"`
	} `yaml:"users"`
}

var (
	parseOnce sync.Once
	parsed    *file
	parseErr  error
	hashes    map[string]string
)

func parse() (*file, map[string]string, error) {
	parseOnce.Do(func() {
		var f file
		if err := yaml.Unmarshal(fixturesYAML, &f); err != nil {
			parseErr = fmt.Errorf("parse fixtures: %w", err)
			return
		}
		hashes = make(map[string]string, len(f.Users))
		for _, u := range f.Users {
			// MinCost keeps construction fast; the demo account is not a real credential.
			h, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.MinCost)
			if err != nil {
				parseErr = fmt.Errorf("hash fixture password: %w", err)
				return
			}
			hashes[u.Key] = string(h)
		}
		parsed = &f
	})
	return parsed, hashes, parseErr
}

// Load builds fresh fixture records. Timestamps ascend in file order, one minute
// apart and ending before now, so creation order matches insertion order.
func Load(now time.Time) (*Fixtures, error) {
	f, pw, err := parse()
	if err != nil {
		return nil, err
	}
	start := now.UTC().Add(-24 * time.Hour)
	tick := 0
	stamp := func() time.Time {
		tick++
		return start.Add(time.Duration(tick) * time.Minute)
	}

	out := &Fixtures{}
	for _, p := range f.Products {
		created := stamp()
		id := ID("product", p.Key)
		rating, err := money.NormalizeRating(p.Rating)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", p.Key, err)
		}
		price, err := money.Normalize(p.Price)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", p.Key, err)
		}
		out.Products = append(out.Products, &domain.Product{
			ID:                  id,
			Name:                p.Name,
			Description:         p.Description,
			DetailedDescription: p.DetailedDescription,
			Price:               price,
			Category:            p.Category,
			Sector:              p.Sector,
			PlantMaterial:       p.PlantMaterial,
			ProductType:         p.ProductType,
			ImageURL:            p.ImageURL,
			Rating:              rating,
			ReviewCount:         p.ReviewCount,
			BioactiveCompounds:  orEmpty(p.BioactiveCompounds),
			Certifications:      orEmpty(p.Certifications),
			ResearchPapers:      append([]catalog.ResearchPaper{}, p.ResearchPapers...),
			InStock:             p.InStock,
			CreatedAt:           created,
		})
		out.Inventory = append(out.Inventory, &domain.Inventory{
			ID:           ID("inventory", p.Key),
			ProductID:    id,
			CurrentStock: p.Inventory.CurrentStock,
			ReorderLevel: p.Inventory.ReorderLevel,
			UpdatedAt:    created,
		})
	}

	for _, p := range f.CommunityProjects {
		created := stamp()
		proj := &domain.CommunityProject{
			ID:             ID("project", p.Key),
			Name:           p.Name,
			Description:    p.Description,
			Location:       p.Location,
			Community:      p.Community,
			Category:       impact.ProjectCategory(p.Category),
			Status:         impact.ProjectStatus(p.Status),
			Progress:       p.Progress,
			FundingGoal:    money.MustNormalize(p.FundingGoal),
			CurrentFunding: money.MustNormalize(p.CurrentFunding),
			Beneficiaries:  p.Beneficiaries,
			ImageURL:       p.ImageURL,
			CreatedAt:      created,
			UpdatedAt:      created,
		}
		if proj.StartDate, err = date(p.StartDate); err != nil {
			return nil, fmt.Errorf("project %s: %w", p.Key, err)
		}
		if proj.TargetCompletionDate, err = date(p.TargetCompletionDate); err != nil {
			return nil, fmt.Errorf("project %s: %w", p.Key, err)
		}
		if proj.CompletionDate, err = date(p.CompletionDate); err != nil {
			return nil, fmt.Errorf("project %s: %w", p.Key, err)
		}
		out.CommunityProjects = append(out.CommunityProjects, proj)
	}

	for i, u := range f.LiveUpdates {
		var meta datatypes.JSON
		if len(u.Metadata) > 0 {
			raw, err := json.Marshal(u.Metadata)
			if err != nil {
				return nil, fmt.Errorf("live update %d metadata: %w", i, err)
			}
			meta = datatypes.JSON(raw)
		}
		out.LiveUpdates = append(out.LiveUpdates, &domain.LiveImpactUpdate{
			ID:            ID("live-update", fmt.Sprintf("%s-%d", u.Project, i)),
			ProjectID:     ID("project", u.Project),
			UpdateType:    impact.UpdateType(u.UpdateType),
			Title:         u.Title,
			Message:       u.Message,
			PreviousValue: u.PreviousValue,
			NewValue:      u.NewValue,
			IsPublic:      u.IsPublic,
			Metadata:      meta,
			CreatedAt:     stamp(),
		})
	}

	for i, m := range f.Milestones {
		created := stamp()
		ms := &domain.ImpactMilestone{
			ID:                 ID("milestone", fmt.Sprintf("%s-%d", m.Project, i)),
			ProjectID:          ID("project", m.Project),
			Title:              m.Title,
			Description:        m.Description,
			TargetValue:        m.TargetValue,
			IsAchieved:         m.IsAchieved,
			CelebrationMessage: m.CelebrationMessage,
			CreatedAt:          created,
		}
		if m.IsAchieved {
			t := created
			ms.AchievedDate = &t
		}
		out.Milestones = append(out.Milestones, ms)
	}

	for _, m := range f.LearningModules {
		prereqs := make([]string, 0, len(m.Prerequisites))
		for _, key := range m.Prerequisites {
			prereqs = append(prereqs, ID("module", key))
		}
		out.LearningModules = append(out.LearningModules, &domain.LearningModule{
			ID:               ID("module", m.Key),
			Title:            m.Title,
			Description:      m.Description,
			Category:         m.Category,
			Difficulty:       m.Difficulty,
			EstimatedMinutes: m.EstimatedMinutes,
			OrderIndex:       m.OrderIndex,
			Content:          append([]learning.ContentSection{}, m.Content...),
			Prerequisites:    prereqs,
			XPReward:         m.XPReward,
			CreatedAt:        stamp(),
		})
	}

	for _, b := range f.Badges {
		out.Badges = append(out.Badges, &domain.Badge{
			ID:          ID("badge", b.Key),
			Name:        b.Name,
			Description: b.Description,
			Icon:        b.Icon,
			Category:    b.Category,
			Rarity:      gamification.Rarity(b.Rarity),
			Requirement: b.Requirement,
			XPReward:    b.XPReward,
			CreatedAt:   stamp(),
		})
	}

	for _, s := range f.JourneyStages {
		out.JourneyStages = append(out.JourneyStages, &domain.JourneyStage{
			ID:           ID("stage", s.Key),
			Name:         s.Name,
			Description:  s.Description,
			OrderIndex:   s.OrderIndex,
			Requirements: s.Requirements,
			Rewards:      s.Rewards,
			CreatedAt:    stamp(),
		})
	}

	for _, p := range f.GlobalPlants {
		out.GlobalPlants = append(out.GlobalPlants, &domain.GlobalIndigenousPlant{
			ID:                     ID("plant", p.Key),
			CommonName:             p.CommonName,
			ScientificName:         p.ScientificName,
			Family:                 p.Family,
			NativeRegion:           p.NativeRegion,
			Continent:              p.Continent,
			Climate:                p.Climate,
			TraditionalUses:        p.TraditionalUses,
			CulturalSignificance:   p.CulturalSignificance,
			ActiveCompounds:        p.ActiveCompounds,
			PreparationMethods:     p.PreparationMethods,
			SafetyNotes:            p.SafetyNotes,
			ConservationStatus:     p.ConservationStatus,
			ResearchReferences:     p.ResearchReferences,
			CommercialAvailability: p.CommercialAvailability,
			CreatedAt:              stamp(),
		})
	}

	for _, u := range f.Users {
		created := stamp()
		out.Users = append(out.Users, &domain.User{
			ID:         ID("user", u.Key),
			Username:   u.Username,
			Email:      u.Email,
			Password:   pw[u.Key],
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			TotalSpent: "0.00",
			CreatedAt:  created,
			UpdatedAt:  created,
		})
	}
	return out, nil
}

func date(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return &t, nil
}

func orEmpty(in []string) []string {
	return append([]string{}, in...)
}
