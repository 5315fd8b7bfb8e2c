package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/data/store/memstore"
	"github.com/yungbote/botanica-backend/internal/data/store/seed"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/domain/commerce"
	"github.com/yungbote/botanica-backend/internal/domain/learning"
	"github.com/yungbote/botanica-backend/internal/observability"
	"github.com/yungbote/botanica-backend/internal/platform/apierr"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/realtime"
)

const testSession = "7f1c2a9e-5b44-4a8e-9d59-0c1f3f0f6a10"

func newStore(t *testing.T) *memstore.Store {
	t.Helper()
	s, err := memstore.New()
	if err != nil {
		t.Fatalf("memstore.New: %v", err)
	}
	return s
}

func wantStatus(t *testing.T, err error, status int, code string) {
	t.Helper()
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("want apierr %d/%s, got %v", status, code, err)
	}
	if ae.Status != status || ae.Code != code {
		t.Fatalf("want %d/%s, got %d/%s (%v)", status, code, ae.Status, ae.Code, ae.Err)
	}
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (p *recordingPublisher) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) events(channel string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, m := range p.msgs {
		if m.Channel == channel {
			out = append(out, string(m.Event))
		}
	}
	return out
}

func TestCatalogService_Lookups(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(logger.Nop(), newStore(t))

	p, err := svc.GetProduct(ctx, seed.ID("product", "marula-face-oil"))
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if p.Price != "49.99" {
		t.Fatalf("price: want=49.99 got=%s", p.Price)
	}

	_, err = svc.GetProduct(ctx, "00000000-0000-0000-0000-000000000000")
	wantStatus(t, err, 404, "product_not_found")

	_, err = svc.AddReview(ctx, p.ID, 6)
	wantStatus(t, err, 400, "invalid_rating")
}

func TestCartService_AddMergesAndRejectsNegative(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	metrics := observability.NewMetrics()
	svc := NewCartService(logger.Nop(), s, s, metrics)
	productID := seed.ID("product", "marula-face-oil")

	if _, err := svc.Add(ctx, testSession, productID, 1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	item, err := svc.Add(ctx, testSession, productID, 2)
	if err != nil {
		t.Fatalf("Add again: %v", err)
	}
	if item.Quantity != 3 {
		t.Fatalf("merged quantity: want=3 got=%d", item.Quantity)
	}

	_, err = svc.Add(ctx, testSession, productID, -1)
	wantStatus(t, err, 400, "invalid_quantity")

	_, err = svc.Add(ctx, "", productID, 1)
	wantStatus(t, err, 400, "missing_session")

	lines, err := svc.List(ctx, testSession)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(lines) != 1 || lines[0].Product == nil || lines[0].Product.Price != "49.99" {
		t.Fatalf("unexpected cart: %+v", lines)
	}

	others, _ := svc.List(ctx, "another-session")
	if len(others) != 0 {
		t.Fatalf("cart leaked across sessions: %d lines", len(others))
	}

	wantStatus(t, svc.Remove(ctx, "another-session", item.ID), 404, "cart_item_not_found")
	if err := svc.Remove(ctx, testSession, item.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
}

func TestImpactService_FundingPercentageAndMilestone(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewImpactService(logger.Nop(), newStore(t), pub, nil)

	created, err := svc.CreateProject(ctx, &domain.CommunityProject{
		Name:           "Seed bank",
		Category:       "environment",
		FundingGoal:    "100.00",
		CurrentFunding: "50.00",
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if created.FundingPercentage != 50 {
		t.Fatalf("funding percentage: want=50 got=%v", created.FundingPercentage)
	}

	progress := 30
	funding := "75.00"
	res, err := svc.UpdateProject(ctx, created.ID, store.ProjectPatch{Progress: &progress, CurrentFunding: &funding})
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if len(res.Updates) != 2 {
		t.Fatalf("updates: want=2 got=%d", len(res.Updates))
	}
	if res.Project.FundingPercentage != 75 {
		t.Fatalf("funding percentage after patch: want=75 got=%v", res.Project.FundingPercentage)
	}
	if got := pub.events(realtime.ChannelImpact); len(got) != 2 || got[0] != "live_update" || got[1] != "live_update" {
		t.Fatalf("impact channel events: want=[live_update live_update] got=%v", got)
	}
	if got := pub.events(realtime.ProjectChannel(created.ID)); !slices.Contains(got, "project_updated") {
		t.Fatalf("project channel events: want project_updated in %v", got)
	}

	milestoneID := seed.ID("milestone", "cederberg-school-garden-1")
	m, err := svc.AchieveMilestone(ctx, milestoneID, nil)
	if err != nil {
		t.Fatalf("AchieveMilestone: %v", err)
	}
	if !m.IsAchieved || m.AchievedDate == nil {
		t.Fatalf("milestone not achieved: %+v", m)
	}
	feed, err := svc.ProjectLiveUpdates(ctx, m.ProjectID, 0)
	if err != nil {
		t.Fatalf("ProjectLiveUpdates: %v", err)
	}
	if len(feed) == 0 || feed[0].UpdateType != "milestone" {
		t.Fatalf("newest update should be the milestone, got %+v", feed)
	}

	if _, err := svc.AchieveMilestone(ctx, milestoneID, nil); err != nil {
		t.Fatalf("AchieveMilestone again: %v", err)
	}
	again, _ := svc.ProjectLiveUpdates(ctx, m.ProjectID, 0)
	if len(again) != len(feed) {
		t.Fatalf("repeat achievement added updates: %d -> %d", len(feed), len(again))
	}

	_, err = svc.AchieveMilestone(ctx, "00000000-0000-0000-0000-000000000000", nil)
	wantStatus(t, err, 404, "impact_milestone_not_found")
}

func TestImpactService_RejectsUnknownEnums(t *testing.T) {
	ctx := context.Background()
	svc := NewImpactService(logger.Nop(), newStore(t), nil, nil)
	_, err := svc.CreateProject(ctx, &domain.CommunityProject{Name: "x", Category: "space", FundingGoal: "1.00"})
	wantStatus(t, err, 400, "invalid_request")
}

func TestRecommendationService_GenerateAndLatest(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	svc := NewRecommendationService(logger.Nop(), s, s, nil)

	_, err := svc.Latest(ctx, testSession)
	wantStatus(t, err, 404, "recommendations_not_found")

	prefs := &domain.UserPreferences{HealthGoals: []string{"sleep"}, BudgetRange: "medium"}
	first, err := svc.Generate(ctx, testSession, prefs)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(first.Products) != len(first.Recommendations) {
		t.Fatalf("products/recommendations mismatch: %d vs %d", len(first.Products), len(first.Recommendations))
	}
	latest, err := svc.Latest(ctx, testSession)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.ID != first.ID {
		t.Fatalf("latest: want=%s got=%s", first.ID, latest.ID)
	}

	_, err = svc.Generate(ctx, testSession, &domain.UserPreferences{BudgetRange: "lavish"})
	wantStatus(t, err, 400, "invalid_request")
}

func TestOrderService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	svc := NewOrderService(logger.Nop(), s, s, s, nil)
	userID := seed.ID("user", "demo")
	marula := seed.ID("product", "marula-face-oil")
	ashwa := seed.ID("product", "ashwagandha-root-powder")

	o, err := svc.PlaceOrder(ctx, PlaceOrderInput{
		UserID: userID,
		Items:  []OrderLine{{ProductID: marula, Quantity: 2}, {ProductID: ashwa, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if o.Status != commerce.OrderPending || o.TotalAmount != "128.98" {
		t.Fatalf("order: status=%s total=%s", o.Status, o.TotalAmount)
	}
	inv, _ := s.GetInventory(ctx, ashwa)
	if inv.ReservedStock != 1 {
		t.Fatalf("reserved: want=1 got=%d", inv.ReservedStock)
	}

	_, err = svc.UpdateStatus(ctx, o.ID, commerce.OrderDelivered)
	wantStatus(t, err, 400, "invalid_transition")

	if _, err := svc.UpdateStatus(ctx, o.ID, commerce.OrderConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	after, _ := s.GetInventory(ctx, ashwa)
	if after.CurrentStock != inv.CurrentStock-1 || after.ReservedStock != 0 {
		t.Fatalf("commit: current %d->%d reserved=%d", inv.CurrentStock, after.CurrentStock, after.ReservedStock)
	}
	u, _ := s.GetUser(ctx, userID)
	if u.LoyaltyPoints != 128 || u.TotalSpent != "128.98" {
		t.Fatalf("rewards: points=%d spent=%s", u.LoyaltyPoints, u.TotalSpent)
	}
}

func TestOrderService_ConfirmRecordsMissingReservation(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	metrics := observability.NewMetrics()
	svc := NewOrderService(logger.Nop(), s, s, s, metrics)
	marula := seed.ID("product", "marula-face-oil")

	o, err := svc.PlaceOrder(ctx, PlaceOrderInput{UserID: seed.ID("user", "demo"), Items: []OrderLine{{ProductID: marula, Quantity: 2}}})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	before, _ := s.GetInventory(ctx, marula)
	if ok, err := s.ReleaseStock(ctx, marula, 2, o.ID); err != nil || !ok {
		t.Fatalf("ReleaseStock: ok=%v err=%v", ok, err)
	}

	if _, err := svc.UpdateStatus(ctx, o.ID, commerce.OrderConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	after, _ := s.GetInventory(ctx, marula)
	if after.CurrentStock != before.CurrentStock {
		t.Fatalf("stock sold without a reservation: %d->%d", before.CurrentStock, after.CurrentStock)
	}
	want := `
# HELP botanica_inventory_stock_commits_total Reserved stock committed at order confirmation by result.
# TYPE botanica_inventory_stock_commits_total counter
botanica_inventory_stock_commits_total{result="missing"} 1
`
	if err := testutil.GatherAndCompare(metrics.Registry(), strings.NewReader(want), "botanica_inventory_stock_commits_total"); err != nil {
		t.Fatalf("stock commit metric: %v", err)
	}
}

func TestOrderService_InsufficientStockReleasesEarlierLines(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	svc := NewOrderService(logger.Nop(), s, s, s, nil)
	marula := seed.ID("product", "marula-face-oil")
	ashwa := seed.ID("product", "ashwagandha-root-powder")
	ashwaInv, _ := s.GetInventory(ctx, ashwa)

	_, err := svc.PlaceOrder(ctx, PlaceOrderInput{
		UserID: seed.ID("user", "demo"),
		Items:  []OrderLine{{ProductID: marula, Quantity: 1}, {ProductID: ashwa, Quantity: ashwaInv.CurrentStock + 1}},
	})
	wantStatus(t, err, 400, "insufficient_stock")

	inv, _ := s.GetInventory(ctx, marula)
	if inv.ReservedStock != 0 {
		t.Fatalf("first line still reserved: %d", inv.ReservedStock)
	}
}

func TestOrderService_CancelReleases(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	svc := NewOrderService(logger.Nop(), s, s, s, nil)
	marula := seed.ID("product", "marula-face-oil")

	o, err := svc.PlaceOrder(ctx, PlaceOrderInput{UserID: seed.ID("user", "demo"), Items: []OrderLine{{ProductID: marula, Quantity: 3}}})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, o.ID, commerce.OrderCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	inv, _ := s.GetInventory(ctx, marula)
	if inv.ReservedStock != 0 {
		t.Fatalf("reserved after cancel: %d", inv.ReservedStock)
	}
	_, err = svc.UpdateStatus(ctx, o.ID, commerce.OrderConfirmed)
	wantStatus(t, err, 400, "invalid_transition")
}

func TestInventoryService_AdjustSyncsInStock(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	svc := NewInventoryService(logger.Nop(), s, s)
	marula := seed.ID("product", "marula-face-oil")

	zero := 0
	inv, err := svc.Adjust(ctx, marula, store.InventoryAdjustment{SetStock: &zero, Reason: "stocktake"})
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if inv.CurrentStock != 0 {
		t.Fatalf("current: want=0 got=%d", inv.CurrentStock)
	}
	p, _ := s.GetProduct(ctx, marula)
	if p.InStock {
		t.Fatalf("product should be out of stock")
	}

	_, err = svc.Adjust(ctx, marula, store.InventoryAdjustment{})
	wantStatus(t, err, 400, "invalid_request")

	moves, err := svc.Movements(ctx, marula)
	if err != nil {
		t.Fatalf("Movements: %v", err)
	}
	if len(moves) == 0 {
		t.Fatalf("expected a movement for the adjustment")
	}
}

func TestLearningService_Prerequisites(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	svc := NewLearningService(logger.Nop(), s, s)
	userID := seed.ID("user", "demo")

	_, err := svc.RecordProgress(ctx, userID, seed.ID("module", "adaptogens"), 10)
	wantStatus(t, err, 400, "prerequisites_not_met")

	p, err := svc.RecordProgress(ctx, userID, seed.ID("module", "botany-basics"), 100)
	if err != nil {
		t.Fatalf("RecordProgress: %v", err)
	}
	if p.Status != learning.StatusCompleted {
		t.Fatalf("status: want=completed got=%s", p.Status)
	}
	if _, err := svc.RecordProgress(ctx, userID, seed.ID("module", "adaptogens"), 10); err != nil {
		t.Fatalf("RecordProgress after prerequisite: %v", err)
	}

	lower, err := svc.RecordProgress(ctx, userID, seed.ID("module", "botany-basics"), 40)
	if err != nil {
		t.Fatalf("RecordProgress lower: %v", err)
	}
	if lower.Progress != 100 {
		t.Fatalf("progress regressed to %d", lower.Progress)
	}

	_, err = svc.RecordProgress(ctx, userID, seed.ID("module", "botany-basics"), 101)
	wantStatus(t, err, 400, "invalid_request")
}

func TestBadgeService_AwardRequiresEligibility(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	badgeSvc := NewBadgeService(logger.Nop(), s, s, s)
	orderSvc := NewOrderService(logger.Nop(), s, s, s, nil)
	userID := seed.ID("user", "demo")
	firstPurchase := seed.ID("badge", "first-purchase")

	_, _, err := badgeSvc.Award(ctx, userID, firstPurchase)
	wantStatus(t, err, 400, "requirements_not_met")

	o, err := orderSvc.PlaceOrder(ctx, PlaceOrderInput{UserID: userID, Items: []OrderLine{{ProductID: seed.ID("product", "rooibos-calm-tea"), Quantity: 1}}})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if _, err := orderSvc.UpdateStatus(ctx, o.ID, commerce.OrderConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	eligible, err := badgeSvc.Eligible(ctx, userID)
	if err != nil {
		t.Fatalf("Eligible: %v", err)
	}
	met := false
	for _, e := range eligible {
		if e.Badge.ID == firstPurchase {
			met = e.RequirementMet
		}
	}
	if !met {
		t.Fatalf("first purchase badge should be eligible")
	}

	_, created, err := badgeSvc.Award(ctx, userID, firstPurchase)
	if err != nil || !created {
		t.Fatalf("Award: created=%v err=%v", created, err)
	}
	_, created, err = badgeSvc.Award(ctx, userID, firstPurchase)
	if err != nil || created {
		t.Fatalf("second Award: created=%v err=%v", created, err)
	}
}

func TestJourneyService_Advance(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	svc := NewJourneyService(logger.Nop(), s, s, nil)
	orderSvc := NewOrderService(logger.Nop(), s, s, s, nil)
	userID := seed.ID("user", "demo")

	_, err := svc.Progress(ctx, userID)
	wantStatus(t, err, 404, "journey_progress_not_found")

	_, err = svc.Advance(ctx, userID)
	wantStatus(t, err, 400, "requirements_not_met")
	p, err := svc.Progress(ctx, userID)
	if err != nil {
		t.Fatalf("journey should have started: %v", err)
	}
	if p.CurrentStageID != seed.ID("stage", "seedling") {
		t.Fatalf("stage: want seedling got %s", p.CurrentStageID)
	}

	o, _ := orderSvc.PlaceOrder(ctx, PlaceOrderInput{UserID: userID, Items: []OrderLine{{ProductID: seed.ID("product", "rooibos-calm-tea"), Quantity: 1}}})
	if _, err := orderSvc.UpdateStatus(ctx, o.ID, commerce.OrderConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	ev, err := svc.CanAdvance(ctx, userID)
	if err != nil || !ev.CanAdvance {
		t.Fatalf("CanAdvance: %+v err=%v", ev, err)
	}
	advanced, err := svc.Advance(ctx, userID)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if advanced.CurrentStageID != seed.ID("stage", "sprout") {
		t.Fatalf("stage after advance: %s", advanced.CurrentStageID)
	}
}

func TestAccountService_RegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountService(logger.Nop(), newStore(t))

	u, err := svc.Register(ctx, RegisterInput{Username: "thandi", Email: "Thandi@Example.org", Password: "rooibos-dawn"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "thandi@example.org" {
		t.Fatalf("email not normalized: %s", u.Email)
	}

	_, err = svc.Register(ctx, RegisterInput{Username: "other", Email: "thandi@example.org", Password: "rooibos-dawn"})
	wantStatus(t, err, 409, "conflict")

	_, err = svc.Register(ctx, RegisterInput{Username: "short", Email: "short@example.org", Password: "abc"})
	wantStatus(t, err, 400, "invalid_request")

	if _, err := svc.Authenticate(ctx, "demo@botanica.example", "botanica-demo"); err != nil {
		t.Fatalf("Authenticate demo: %v", err)
	}
	_, err = svc.Authenticate(ctx, "demo@botanica.example", "wrong-password")
	wantStatus(t, err, 401, "invalid_credentials")
}

func TestPlantService_ByRegionAndSearch(t *testing.T) {
	ctx := context.Background()
	svc := NewPlantService(logger.Nop(), newStore(t))

	_, err := svc.ByRegion(ctx, " ")
	wantStatus(t, err, 400, "invalid_request")

	african, err := svc.ByRegion(ctx, "Africa")
	if err != nil {
		t.Fatalf("ByRegion: %v", err)
	}
	if len(african) != 3 {
		t.Fatalf("african plants: want=3 got=%d", len(african))
	}

	yes := true
	researched, err := svc.Search(ctx, store.PlantSearch{Continent: strPtr("Africa"), HasResearch: &yes})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(researched) != 2 {
		t.Fatalf("researched african plants: want=2 got=%d", len(researched))
	}

	_, err = svc.Get(ctx, "00000000-0000-0000-0000-000000000000")
	wantStatus(t, err, 404, "global_indigenous_plant_not_found")
}

func strPtr(s string) *string { return &s }
