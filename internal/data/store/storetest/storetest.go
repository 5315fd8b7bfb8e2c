// Package storetest is the behavioral contract every store.Storage backend must
// satisfy. Backends run it from their own tests against a freshly seeded store.
package storetest

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/data/store/seed"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/domain/commerce"
	"github.com/yungbote/botanica-backend/internal/domain/impact"
	"github.com/yungbote/botanica-backend/internal/domain/learning"
	"github.com/yungbote/botanica-backend/internal/modules/journey"
)

// Factory returns a store seeded from seed.Load(now()) that reads time from now.
type Factory func(t *testing.T, now func() time.Time) store.Storage

// Clock returns a clock starting at the current time and advancing one
// millisecond per call, so consecutive writes get distinct timestamps.
func Clock() func() time.Time {
	var (
		mu   sync.Mutex
		next = time.Now().UTC().Truncate(time.Millisecond)
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		next = next.Add(time.Millisecond)
		return next
	}
}

func Run(t *testing.T, factory Factory) {
	cases := []struct {
		name string
		fn   func(t *testing.T, s store.Storage, fx *seed.Fixtures)
	}{
		{"CatalogFilters", testCatalogFilters},
		{"CatalogLookups", testCatalogLookups},
		{"CatalogRating", testCatalogRating},
		{"Cart", testCart},
		{"CartConcurrentAdds", testCartConcurrentAdds},
		{"Projects", testProjects},
		{"LiveUpdates", testLiveUpdates},
		{"Milestones", testMilestones},
		{"Personalization", testPersonalization},
		{"Accounts", testAccounts},
		{"Orders", testOrders},
		{"Inventory", testInventory},
		{"Learning", testLearning},
		{"Badges", testBadges},
		{"Journey", testJourney},
		{"Plants", testPlants},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			now := Clock()
			s := factory(t, now)
			fx, err := seed.Load(now())
			require.NoError(t, err)
			tc.fn(t, s, fx)
		})
	}
}

func ptr[T any](v T) *T { return &v }

func productIDs(ps []*domain.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func expectedProducts(fx *seed.Fixtures, f store.ProductFilter) []string {
	var out []*domain.Product
	for _, p := range fx.Products {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return productIDs(out)
}

func newUser(t *testing.T, s store.Storage, name string) *domain.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), &domain.User{
		Username: name,
		Email:    name + "@example.com",
		Password: "hashed",
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

func testCatalogFilters(t *testing.T, s store.Storage, fx *seed.Fixtures) {
	ctx := context.Background()
	filters := map[string]store.ProductFilter{
		"all":           {},
		"category":      {Category: ptr("SUPPLEMENTS")},
		"material":      {PlantMaterial: ptr("roo")},
		"type":          {ProductType: ptr("capsule")},
		"inStock":       {InStock: ptr(true)},
		"outOfStock":    {InStock: ptr(false)},
		"priceRange":    {MinPrice: ptr(decimal.NewFromInt(25)), MaxPrice: ptr(decimal.NewFromInt(50))},
		"search":        {Search: ptr("tea")},
		"searchLiteral": {Search: ptr("100%")},
		"certification": {Certification: ptr("fair trade")},
		"combined":      {Category: ptr("supplements"), InStock: ptr(true)},
	}
	for name, f := range filters {
		got, err := s.ListProducts(ctx, f)
		require.NoError(t, err, name)
		require.Equal(t, expectedProducts(fx, f), productIDs(got), name)
	}

	all, err := s.ListProducts(ctx, store.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, len(fx.Products))

	byMaterial, err := s.GetProductsByPlantMaterial(ctx, "marula")
	require.NoError(t, err)
	require.Len(t, byMaterial, 1)
	require.Equal(t, "49.99", byMaterial[0].Price)

	opts, err := s.ProductFilterOptions(ctx)
	require.NoError(t, err)
	require.Equal(t, store.FilterOptions(fx.Products), opts)
}

func testCatalogLookups(t *testing.T, s store.Storage, fx *seed.Fixtures) {
	ctx := context.Background()
	want := fx.Products[0]
	got, err := s.GetProduct(ctx, want.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, want.Name, got.Name)
	require.Equal(t, want.Price, got.Price)
	require.Equal(t, want.Certifications, got.Certifications)
	require.Equal(t, want.ResearchPapers, got.ResearchPapers)

	missing, err := s.GetProduct(ctx, seed.ID("product", "missing"))
	require.NoError(t, err)
	require.Nil(t, missing)

	malformed, err := s.GetProduct(ctx, "not-a-uuid")
	require.NoError(t, err)
	require.Nil(t, malformed)

	created, err := s.CreateProduct(ctx, &domain.Product{
		Name:          "Kalahari Melon Oil",
		Price:         "18.5",
		Category:      "skincare",
		PlantMaterial: "Kalahari Melon",
		InStock:       true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "18.50", created.Price)
	require.Equal(t, "0.0", created.Rating)
	require.NotNil(t, created.Certifications)

	fetched, err := s.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	raw, err := json.Marshal(fetched)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"certifications":[]`)
	require.Contains(t, string(raw), `"bioactiveCompounds":[]`)
	require.Contains(t, string(raw), `"researchPapers":[]`)

	_, err = s.CreateProduct(ctx, &domain.Product{ID: created.ID, Name: "dup", Price: "1.00"})
	require.ErrorIs(t, err, store.ErrConflict)

	out, err := s.SetProductInStock(ctx, created.ID, false)
	require.NoError(t, err)
	require.False(t, out.InStock)

	none, err := s.SetProductInStock(ctx, seed.ID("product", "missing"), true)
	require.NoError(t, err)
	require.Nil(t, none)
}

func testCatalogRating(t *testing.T, s store.Storage, fx *seed.Fixtures) {
	ctx := context.Background()
	p, err := s.CreateProduct(ctx, &domain.Product{Name: "Test Salve", Price: "10.00"})
	require.NoError(t, err)

	p, err = s.AddProductRating(ctx, p.ID, 4)
	require.NoError(t, err)
	require.Equal(t, "4.0", p.Rating)
	require.Equal(t, 1, p.ReviewCount)

	p, err = s.AddProductRating(ctx, p.ID, 5)
	require.NoError(t, err)
	require.Equal(t, "4.5", p.Rating)
	require.Equal(t, 2, p.ReviewCount)

	missing, err := s.AddProductRating(ctx, seed.ID("product", "missing"), 5)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func testCart(t *testing.T, s store.Storage, fx *seed.Fixtures) {
	ctx := context.Background()
	product := fx.Products[3]

	first, err := s.AddToCart(ctx, &domain.CartItem{SessionID: "session-a", ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	merged, err := s.AddToCart(ctx, &domain.CartItem{SessionID: "session-a", ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, first.ID, merged.ID)
	require.Equal(t, 5, merged.Quantity)

	_, err = s.AddToCart(ctx, &domain.CartItem{SessionID: "session-a", ProductID: product.ID, Quantity: -1})
	require.ErrorIs(t, err, store.ErrInvariant)

	items, err := s.ListCartItems(ctx, "session-a")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)
	require.Equal(t, product.Price, items[0].Product.Price)

	other, err := s.ListCartItems(ctx, "session-b")
	require.NoError(t, err)
	require.Empty(t, other)

	foreign, err := s.GetCartItem(ctx, "session-b", first.ID)
	require.NoError(t, err)
	require.Nil(t, foreign, "cart lines are scoped to their session")

	updated, err := s.UpdateCartItem(ctx, "session-a", first.ID, 0)
	require.NoError(t, err)
	require.Equal(t, 0, updated.Quantity)

	_, err = s.UpdateCartItem(ctx, "session-a", first.ID, -4)
	require.ErrorIs(t, err, store.ErrInvariant)

	ok, err := s.RemoveFromCart(ctx, "session-b", first.ID)
	require.NoError(t, err)
	require.False(t, ok)
	ok, err = s.RemoveFromCart(ctx, "session-a", first.ID)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = s.RemoveFromCart(ctx, "session-a", first.ID)
	require.NoError(t, err)
	require.False(t, ok)

	for _, p := range fx.Products[:3] {
		_, err := s.AddToCart(ctx, &domain.CartItem{SessionID: "session-a", ProductID: p.ID, Quantity: 1})
		require.NoError(t, err)
	}
	require.NoError(t, s.ClearCart(ctx, "session-a"))
	items, err = s.ListCartItems(ctx, "session-a")
	require.NoError(t, err)
	require.Empty(t, items)
}

func testCartConcurrentAdds(t *testing.T, s store.Storage, fx *seed.Fixtures) {
	ctx := context.Background()
	product := fx.Products[0]
	const adders = 8

	var wg sync.WaitGroup
	errs := make(chan error, adders)
	for i := 0; i < adders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AddToCart(ctx, &domain.CartItem{SessionID: "session-race", ProductID: product.ID, Quantity: 1})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	items, err := s.ListCartItems(ctx, "session-race")
	require.NoError(t, err)
	require.Len(t, items, 1, "one line per product per session")
	require.Equal(t, adders, items[0].Quantity)
}

func testProjects(t *testing.T, s store.Storage, fx *seed.Fixtures) {
	ctx := context.Background()
	active, err := s.ListCommunityProjects(ctx, store.ProjectFilter{Status: ptr(impact.StatusActive)})
	require.NoError(t, err)
	require.Len(t, active, 2)

	health, err := s.ListCommunityProjects(ctx, store.ProjectFilter{Category: ptr(impact.CategoryHealthcare)})
	require.NoError(t, err)
	require.Len(t, health, 1)
	require.NotNil(t, health[0].CompletionDate)

	p := fx.CommunityProjects[0]
	_, _, err = s.UpdateCommunityProject(ctx, p.ID, store.ProjectPatch{CurrentFunding: ptr("999999.00")})
	require.ErrorIs(t, err, store.ErrInvariant)
	unchanged, err := s.GetCommunityProject(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.CurrentFunding, unchanged.CurrentFunding)

	_, _, err = s.UpdateCommunityProject(ctx, p.ID, store.ProjectPatch{Progress: ptr(101)})
	require.ErrorIs(t, err, store.ErrInvariant)

	before, after, err := s.UpdateCommunityProject(ctx, p.ID, store.ProjectPatch{
		Status:         ptr(impact.StatusCompleted),
		Progress:       ptr(100),
		CurrentFunding: ptr(p.FundingGoal),
	})
	require.NoError(t, err)
	require.Equal(t, impact.StatusActive, before.Status)
	require.Nil(t, before.CompletionDate)
	require.Equal(t, impact.StatusCompleted, after.Status)
	require.NotNil(t, after.CompletionDate)
	require.Equal(t, p.FundingGoal, after.CurrentFunding)

	_, reopened, err := s.UpdateCommunityProject(ctx, p.ID, store.ProjectPatch{Status: ptr(impact.StatusActive)})
	require.NoError(t, err)
	require.Nil(t, reopened.CompletionDate)

	b, a, err := s.UpdateCommunityProject(ctx, seed.ID("project", "missing"), store.ProjectPatch{})
	require.NoError(t, err)
	require.Nil(t, b)
	require.Nil(t, a)

	_, err = s.CreateCommunityProject(ctx, &domain.CommunityProject{
		Name:           "Overfunded",
		Category:       impact.CategoryEducation,
		FundingGoal:    "100.00",
		CurrentFunding: "150.00",
	})
	require.ErrorIs(t, err, store.ErrInvariant)

	created, err := s.CreateCommunityProject(ctx, &domain.CommunityProject{
		Name:        "Seed Library",
		Category:    impact.CategoryEnvironment,
		FundingGoal: "5000",
	})
	require.NoError(t, err)
	require.Equal(t, impact.StatusPlanning, created.Status)
	require.Equal(t, "0.00", created.CurrentFunding)
	require.Equal(t, "5000.00", created.FundingGoal)

	stats, err := s.ImpactStats(ctx)
	require.NoError(t, err)
	require.Equal(t, len(fx.CommunityProjects)+1, stats.TotalProjects)
}

func testLiveUpdates(t *testing.T, s store.Storage, fx *seed.Fixtures) {
	ctx := context.Background()
	all, err := s.ListLiveUpdates(ctx, store.LiveUpdateFilter{})
	require.NoError(t, err)
	require.Len(t, all, len(fx.LiveUpdates))
	for i := 1; i < len(all); i++ {
		require.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt), "newest first")
	}

	project := fx.CommunityProjects[1].ID
	created, err := s.CreateLiveUpdate(ctx, &domain.LiveImpactUpdate{
		ProjectID:  project,
		UpdateType: impact.UpdateMilestone,
		Title:      "Private note",
		IsPublic:   false,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	latest, err := s.ListLiveUpdates(ctx, store.LiveUpdateFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, latest, 1)
	require.Equal(t, created.ID, latest[0].ID)

	public, err := s.ListLiveUpdates(ctx, store.LiveUpdateFilter{PublicOnly: true})
	require.NoError(t, err)
	require.Len(t, public, len(fx.LiveUpdates))

	forProject, err := s.ListLiveUpdates(ctx, store.LiveUpdateFilter{ProjectID: &project})
	require.NoError(t, err)
	require.Len(t, forProject, 2)
}

func testMilestones(t *testing.T, s store.Storage, fx *seed.Fixtures) {
	ctx := context.Background()
	all, err := s.ListMilestones(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, len(fx.Milestones))

	garden, err := s.ListMilestones(ctx, fx.CommunityProjects[0].ID)
	require.NoError(t, err)
	require.Len(t, garden, 2)

	var pending *domain.ImpactMilestone
	for _, m := range garden {
		if !m.IsAchieved {
			pending = m
		}
	}
	require.NotNil(t, pending)

	achieved, err := s.AchieveMilestone(ctx, pending.ID, ptr("Harvest day!"))
	require.NoError(t, err)
	require.True(t, achieved.IsAchieved)
	require.NotNil(t, achieved.AchievedDate)
	require.Equal(t, "Harvest day!", *achieved.CelebrationMessage)

	again, err := s.AchieveMilestone(ctx, pending.ID, ptr("ignored"))
	require.NoError(t, err)
	require.True(t, achieved.AchievedDate.Equal(*again.AchievedDate), "first achieved date is kept")
	require.Equal(t, "Harvest day!", *again.CelebrationMessage)

	missing, err := s.AchieveMilestone(ctx, seed.ID("milestone", "missing"), nil)
	require.NoError(t, err)
	require.Nil(t, missing)

	created, err := s.CreateMilestone(ctx, &domain.ImpactMilestone{
		ProjectID:  fx.CommunityProjects[3].ID,
		Title:      "First slope replanted",
		IsAchieved: true,
	})
	require.NoError(t, err)
	require.NotNil(t, created.AchievedDate)
}

func testPersonalization(t *testing.T, s store.Storage, fx *seed.Fixtures) {
	ctx := context.Background()
	none, err := s.GetLatestUserPreferences(ctx, "visitor")
	require.NoError(t, err)
	require.Nil(t, none)

	_, err = s.CreateUserPreferences(ctx, &domain.UserPreferences{SessionID: "visitor", HealthGoals: []string{"sleep"}})
	require.NoError(t, err)
	second, err := s.CreateUserPreferences(ctx, &domain.UserPreferences{SessionID: "visitor", HealthGoals: []string{"immunity", "energy"}})
	require.NoError(t, err)

	latest, err := s.GetLatestUserPreferences(ctx, "visitor")
	require.NoError(t, err)
	require.Equal(t, second.ID, latest.ID)
	require.Equal(t, []string{"immunity", "energy"}, latest.HealthGoals)

	results, err := s.CreateRecommendationResults(ctx, &domain.RecommendationResults{
		SessionID:     "visitor",
		PreferencesID: second.ID,
		Recommendations: []domain.ProductRecommendation{
			{ProductID: fx.Products[0].ID, Score: 0.8, Reason: "Supports immunity", Priority: 1},
		},
		ConfidenceScore: 0.8,
		Explanation:     "Matched immunity",
	})
	require.NoError(t, err)

	got, err := s.GetLatestRecommendations(ctx, "visitor")
	require.NoError(t, err)
	require.Equal(t, results.ID, got.ID)
	require.Equal(t, results.Recommendations, got.Recommendations)

	other, err := s.GetLatestRecommendations(ctx, "someone-else")
	require.NoError(t, err)
	require.Nil(t, other)
}

func testAccounts(t *testing.T, s store.Storage, fx *seed.Fixtures) {
	ctx := context.Background()
	u := newUser(t, s, "thandi")
	require.Equal(t, "0.00", u.TotalSpent)
	require.Zero(t, u.LoyaltyPoints)

	_, err := s.CreateUser(ctx, &domain.User{Username: "other", Email: "THANDI@example.com", Password: "x"})
	require.ErrorIs(t, err, store.ErrConflict)
	_, err = s.CreateUser(ctx, &domain.User{Username: "thandi", Email: "new@example.com", Password: "x"})
	require.ErrorIs(t, err, store.ErrConflict)

	byEmail, err := s.GetUserByEmail(ctx, "Thandi@Example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	demo, err := s.GetUserByEmail(ctx, fx.Users[0].Email)
	require.NoError(t, err)
	require.NotNil(t, demo)

	updated, err := s.UpdateUser(ctx, u.ID, store.UserPatch{FirstName: ptr("Thandi"), LastName: ptr("Mokoena")})
	require.NoError(t, err)
	require.Equal(t, "Thandi", updated.FirstName)
	require.Equal(t, u.Email, updated.Email)

	_, err = s.UpdateUser(ctx, u.ID, store.UserPatch{Email: ptr(fx.Users[0].Email)})
	require.ErrorIs(t, err, store.ErrConflict)

	rewarded, err := s.AddUserRewards(ctx, u.ID, 40, decimal.RequireFromString("49.99"))
	require.NoError(t, err)
	require.Equal(t, 40, rewarded.LoyaltyPoints)
	require.Equal(t, "49.99", rewarded.TotalSpent)
	rewarded, err = s.AddUserRewards(ctx, u.ID, 10, decimal.RequireFromString("0.01"))
	require.NoError(t, err)
	require.Equal(t, 50, rewarded.LoyaltyPoints)
	require.Equal(t, "50.00", rewarded.TotalSpent)

	missing, err := s.AddUserRewards(ctx, seed.ID("user", "missing"), 1, decimal.Zero)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func testOrders(t *testing.T, s store.Storage, fx *seed.Fixtures) {
	ctx := context.Background()
	u := newUser(t, s, "sipho")
	first, err := s.CreateOrder(ctx, &domain.Order{UserID: u.ID, TotalAmount: "49.99", ShippingAddress: "1 Long St"},
		[]*domain.OrderItem{{ProductID: fx.Products[3].ID, Quantity: 1, Price: "49.99"}})
	require.NoError(t, err)
	require.Equal(t, commerce.OrderPending, first.Status)
	require.Len(t, first.Items, 1)
	require.Equal(t, "49.99", first.Items[0].Price)
	require.Equal(t, first.ID, first.Items[0].OrderID)

	second, err := s.CreateOrder(ctx, &domain.Order{UserID: u.ID, TotalAmount: "25"}, []*domain.OrderItem{
		{ProductID: fx.Products[1].ID, Quantity: 2, Price: "12.50"},
	})
	require.NoError(t, err)
	require.Equal(t, "25.00", second.TotalAmount)

	orders, err := s.ListUserOrders(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, second.ID, orders[0].ID, "newest first")

	o, ok, err := s.UpdateOrderStatus(ctx, first.ID, commerce.OrderPending, commerce.OrderConfirmed)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, commerce.OrderConfirmed, o.Status)

	o, ok, err = s.UpdateOrderStatus(ctx, first.ID, commerce.OrderPending, commerce.OrderCancelled)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, commerce.OrderConfirmed, o.Status)

	missing, err := s.GetOrder(ctx, seed.ID("order", "missing"))
	require.NoError(t, err)
	require.Nil(t, missing)

	stats, err := s.UserStats(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stats.PurchaseCount, "only confirmed orders count")
}

func testInventory(t *testing.T, s store.Storage, fx *seed.Fixtures) {
	ctx := context.Background()
	productID := fx.Products[3].ID
	start, err := s.GetInventory(ctx, productID)
	require.NoError(t, err)
	require.Equal(t, fx.Inventory[3].CurrentStock, start.CurrentStock)

	low, err := s.ListInventory(ctx, store.InventoryFilter{LowStock: ptr(true)})
	require.NoError(t, err)
	for _, inv := range low {
		require.True(t, inv.LowStock())
	}
	require.NotEmpty(t, low, "the out-of-stock fixture is low on stock")

	ok, err := s.ReserveStock(ctx, productID, start.CurrentStock+1, "")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = s.ReserveStock(ctx, productID, 5, "")
	require.NoError(t, err)
	require.True(t, ok)
	inv, _ := s.GetInventory(ctx, productID)
	require.Equal(t, 5, inv.ReservedStock)
	require.Equal(t, start.CurrentStock-5, inv.Available())

	_, err = s.AdjustInventory(ctx, productID, store.InventoryAdjustment{SetStock: ptr(2)})
	require.ErrorIs(t, err, store.ErrInvariant, "stock may not drop below reserved")

	ok, err = s.ReleaseStock(ctx, productID, 10, "")
	require.NoError(t, err)
	require.True(t, ok)
	inv, _ = s.GetInventory(ctx, productID)
	require.Zero(t, inv.ReservedStock, "release is floored at zero")

	ok, err = s.ReleaseStock(ctx, productID, 1, "")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = s.CommitStock(ctx, productID, 1, "")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = s.ReserveStock(ctx, productID, 3, "")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = s.CommitStock(ctx, productID, 3, "")
	require.NoError(t, err)
	require.True(t, ok)
	inv, _ = s.GetInventory(ctx, productID)
	require.Equal(t, start.CurrentStock-3, inv.CurrentStock)
	require.Zero(t, inv.ReservedStock)

	restocked, err := s.AdjustInventory(ctx, productID, store.InventoryAdjustment{Delta: ptr(10), ReorderLevel: ptr(25), Reason: "delivery"})
	require.NoError(t, err)
	require.Equal(t, start.CurrentStock+7, restocked.CurrentStock)
	require.Equal(t, 25, restocked.ReorderLevel)

	moves, err := s.ListInventoryMovements(ctx, productID)
	require.NoError(t, err)
	types := make([]commerce.MovementType, 0, len(moves))
	for _, m := range moves {
		types = append(types, m.MovementType)
	}
	require.Equal(t, []commerce.MovementType{
		commerce.MovementRestock,
		commerce.MovementSale,
		commerce.MovementReservation,
		commerce.MovementRelease,
		commerce.MovementReservation,
	}, types)
	require.Equal(t, -5, moves[3].Quantity)
	require.Equal(t, 5, moves[3].PreviousReserved)
	require.Equal(t, 0, moves[3].NewReserved)

	none, err := s.AdjustInventory(ctx, seed.ID("product", "missing"), store.InventoryAdjustment{Delta: ptr(1)})
	require.NoError(t, err)
	require.Nil(t, none)

	fresh, err := s.CreateProduct(ctx, &domain.Product{Name: "New Tincture", Price: "15.00"})
	require.NoError(t, err)
	created, err := s.AdjustInventory(ctx, fresh.ID, store.InventoryAdjustment{SetStock: ptr(12)})
	require.NoError(t, err)
	require.Equal(t, 12, created.CurrentStock)
}

func testLearning(t *testing.T, s store.Storage, fx *seed.Fixtures) {
	ctx := context.Background()
	modules, err := s.ListLearningModules(ctx)
	require.NoError(t, err)
	require.Len(t, modules, len(fx.LearningModules))
	for i := 1; i < len(modules); i++ {
		require.LessOrEqual(t, modules[i-1].OrderIndex, modules[i].OrderIndex)
	}

	u := newUser(t, s, "lerato")
	moduleID := modules[0].ID
	p, err := s.RecordLearningProgress(ctx, u.ID, moduleID, 40)
	require.NoError(t, err)
	require.Equal(t, learning.StatusInProgress, p.Status)
	require.NotNil(t, p.StartedAt)

	p, err = s.RecordLearningProgress(ctx, u.ID, moduleID, 20)
	require.NoError(t, err)
	require.Equal(t, 40, p.Progress, "progress never decreases")

	p, err = s.RecordLearningProgress(ctx, u.ID, moduleID, 150)
	require.NoError(t, err)
	require.Equal(t, 100, p.Progress)
	require.Equal(t, learning.StatusCompleted, p.Status)
	require.NotNil(t, p.CompletedAt)

	missing, err := s.RecordLearningProgress(ctx, u.ID, seed.ID("module", "missing"), 10)
	require.NoError(t, err)
	require.Nil(t, missing)

	all, err := s.ListUserLearningProgress(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)

	stats, err := s.UserStats(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stats.ModulesCompleted)
	require.Equal(t, 100/len(modules), stats.LearningProgress)
}

func testBadges(t *testing.T, s store.Storage, fx *seed.Fixtures) {
	ctx := context.Background()
	badges, err := s.ListBadges(ctx)
	require.NoError(t, err)
	require.Len(t, badges, len(fx.Badges))

	u := newUser(t, s, "anele")
	award, created, err := s.AwardBadge(ctx, u.ID, badges[0].ID)
	require.NoError(t, err)
	require.True(t, created)
	again, created, err := s.AwardBadge(ctx, u.ID, badges[0].ID)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, award.ID, again.ID)

	eligible, err := s.CheckBadgeEligibility(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, eligible, len(badges)-1)
	for _, b := range eligible {
		require.NotEqual(t, badges[0].ID, b.ID)
	}

	owned, err := s.ListUserBadges(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)

	none, created, err := s.AwardBadge(ctx, u.ID, seed.ID("badge", "missing"))
	require.NoError(t, err)
	require.False(t, created)
	require.Nil(t, none)
}

func testJourney(t *testing.T, s store.Storage, fx *seed.Fixtures) {
	ctx := context.Background()
	stages, err := s.ListJourneyStages(ctx)
	require.NoError(t, err)
	require.Len(t, stages, len(fx.JourneyStages))
	require.Equal(t, "Seedling", stages[0].Name)

	u := newUser(t, s, "naledi")
	ev, err := s.CanAdvanceJourneyStage(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, ev.CanAdvance)
	require.Equal(t, []string{journey.UnmetNotStarted}, ev.Unmet)

	progress, advanced, err := s.AdvanceJourneyStage(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, advanced)
	require.Equal(t, stages[0].ID, progress.CurrentStageID, "advancing starts the journey")

	again, err := s.StartJourney(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, progress.ID, again.ID)

	order, err := s.CreateOrder(ctx, &domain.Order{UserID: u.ID, TotalAmount: "12.50"}, nil)
	require.NoError(t, err)
	_, _, err = s.UpdateOrderStatus(ctx, order.ID, commerce.OrderPending, commerce.OrderConfirmed)
	require.NoError(t, err)

	ev, err = s.CanAdvanceJourneyStage(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, ev.CanAdvance)
	require.Equal(t, stages[1].ID, ev.NextStage.ID)

	progress, advanced, err = s.AdvanceJourneyStage(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, advanced)
	require.Equal(t, stages[1].ID, progress.CurrentStageID)
	require.Equal(t, []string{stages[0].ID}, progress.CompletedStages)
	require.Equal(t, stages[1].Rewards.XP, progress.TotalXP)

	user, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, stages[1].Rewards.LoyaltyPoints, user.LoyaltyPoints)

	stats, err := s.UserStats(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, stages[1].OrderIndex, stats.StageOrder)

	_, advanced, err = s.AdvanceJourneyStage(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, advanced, "bloom needs more purchases")

	nobody, err := s.CanAdvanceJourneyStage(ctx, seed.ID("user", "missing"))
	require.NoError(t, err)
	require.Nil(t, nobody)
}

func testPlants(t *testing.T, s store.Storage, fx *seed.Fixtures) {
	ctx := context.Background()
	all, err := s.ListGlobalPlants(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(fx.GlobalPlants))

	expect := func(match func(p *domain.GlobalIndigenousPlant) bool) []string {
		var out []string
		for _, p := range fx.GlobalPlants {
			if match(p) {
				out = append(out, p.ID)
			}
		}
		return out
	}
	ids := func(ps []*domain.GlobalIndigenousPlant) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	for _, region := range []string{"africa", "Cederberg", "oceania", "atlantis"} {
		got, err := s.ListGlobalPlantsByRegion(ctx, region)
		require.NoError(t, err)
		require.Equal(t, expect(func(p *domain.GlobalIndigenousPlant) bool { return store.MatchesRegion(p, region) }), ids(got), region)
	}

	searches := map[string]store.PlantSearch{
		"query":       {Query: ptr("basil")},
		"family":      {Family: ptr("fabaceae")},
		"use":         {TraditionalUse: ptr("digestive")},
		"compound":    {ActiveCompound: ptr("caffeine")},
		"continent":   {Continent: ptr("AFRICA")},
		"status":      {ConservationStatus: ptr("least concern")},
		"research":    {HasResearch: ptr(true)},
		"noResearch":  {HasResearch: ptr(false)},
		"commercial":  {CommerciallyAvailable: ptr(true), Continent: ptr("africa")},
		"climate":     {Climate: ptr("mediterranean")},
		"unmatchable": {CommonName: ptr("zz_%")},
	}
	for name, q := range searches {
		got, err := s.SearchPlants(ctx, q)
		require.NoError(t, err, name)
		require.Equal(t, expect(q.Matches), ids(got), name)
	}

	p, err := s.GetGlobalPlant(ctx, fx.GlobalPlants[0].ID)
	require.NoError(t, err)
	require.Equal(t, fx.GlobalPlants[0].ScientificName, p.ScientificName)
	require.NotNil(t, p.ResearchReferences)
}
