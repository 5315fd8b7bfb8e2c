package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/botanica-backend/internal/data/store/memstore"
	"github.com/yungbote/botanica-backend/internal/data/store/seed"
	httpH "github.com/yungbote/botanica-backend/internal/http/handlers"
	httpMW "github.com/yungbote/botanica-backend/internal/http/middleware"
	"github.com/yungbote/botanica-backend/internal/observability"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/platform/sessiontoken"
	"github.com/yungbote/botanica-backend/internal/realtime"
	"github.com/yungbote/botanica-backend/internal/realtime/bus"
	"github.com/yungbote/botanica-backend/internal/services"
)

type testServer struct {
	engine *gin.Engine
	codec  *sessiontoken.Codec
	hub    *realtime.SSEHub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	s, err := memstore.New()
	if err != nil {
		t.Fatalf("memstore.New: %v", err)
	}
	codec, err := sessiontoken.NewCodec("router-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	metrics := observability.NewMetrics()
	hub := realtime.NewSSEHub(log)
	b := bus.NewLocalBus()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = b.Close()
	})
	if err := b.StartForwarder(ctx, hub.Broadcast); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}

	engine := NewRouter(RouterConfig{
		Log:                   log,
		Session:               httpMW.SessionConfig{Codec: codec},
		Metrics:               metrics,
		HealthHandler:         httpH.NewHealthHandler(s),
		CatalogHandler:        httpH.NewCatalogHandler(log, services.NewCatalogService(log, s)),
		CartHandler:           httpH.NewCartHandler(log, services.NewCartService(log, s, s, metrics)),
		ImpactHandler:         httpH.NewImpactHandler(log, services.NewImpactService(log, s, b, metrics)),
		RealtimeHandler:       httpH.NewRealtimeHandler(log, hub, metrics),
		RecommendationHandler: httpH.NewRecommendationHandler(log, services.NewRecommendationService(log, s, s, metrics)),
		AccountHandler: httpH.NewAccountHandler(log,
			services.NewAccountService(log, s),
			services.NewOrderService(log, s, s, s, metrics)),
		GamificationHandler: httpH.NewGamificationHandler(log,
			services.NewLearningService(log, s, s),
			services.NewBadgeService(log, s, s, s),
			services.NewJourneyService(log, s, s, metrics)),
		InventoryHandler: httpH.NewInventoryHandler(log, services.NewInventoryService(log, s, s)),
		PlantHandler:     httpH.NewPlantHandler(log, services.NewPlantService(log, s)),
	})
	return &testServer{engine: engine, codec: codec, hub: hub}
}

func (ts *testServer) token(t *testing.T) string {
	t.Helper()
	tok, err := ts.codec.Sign(uuid.NewString())
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return tok
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("X-Session-Token", token)
	}
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestCartScenario(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t)

	products := decode[[]map[string]any](t, ts.do(t, http.MethodGet, "/api/products", token, nil))
	if len(products) == 0 {
		t.Fatalf("expected seeded catalog")
	}
	productID := seed.ID("product", "marula-face-oil")

	rec := ts.do(t, http.MethodPost, "/api/cart", token, map[string]any{"productId": productID, "quantity": 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("add to cart: status=%d body=%s", rec.Code, rec.Body.String())
	}

	cart := decode[[]struct {
		ID       string `json:"id"`
		Quantity int    `json:"quantity"`
		Product  struct {
			Price string `json:"price"`
		} `json:"product"`
	}](t, ts.do(t, http.MethodGet, "/api/cart", token, nil))
	if len(cart) != 1 || cart[0].Quantity != 2 || cart[0].Product.Price != "49.99" {
		t.Fatalf("unexpected cart: %+v", cart)
	}

	if other := decode[[]any](t, ts.do(t, http.MethodGet, "/api/cart", ts.token(t), nil)); len(other) != 0 {
		t.Fatalf("cart visible to another session: %v", other)
	}

	if rec := ts.do(t, http.MethodDelete, "/api/cart", token, nil); rec.Code != http.StatusOK {
		t.Fatalf("clear cart: status=%d", rec.Code)
	}
	if after := decode[[]any](t, ts.do(t, http.MethodGet, "/api/cart", token, nil)); len(after) != 0 {
		t.Fatalf("cart not cleared: %v", after)
	}
}

func TestCartRejectsNegativeQuantity(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/api/cart", ts.token(t), map[string]any{
		"productId": seed.ID("product", "marula-face-oil"),
		"quantity":  -1,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", rec.Code)
	}
	body := decode[map[string]string](t, rec)
	if body["code"] != "invalid_quantity" || body["message"] == "" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestCartUpdateRequiresQuantity(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t)
	rec := ts.do(t, http.MethodPost, "/api/cart", token, map[string]any{
		"productId": seed.ID("product", "marula-face-oil"),
		"quantity":  2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add to cart: status=%d body=%s", rec.Code, rec.Body.String())
	}
	line := decode[struct {
		ID string `json:"id"`
	}](t, rec)

	rec = ts.do(t, http.MethodPatch, "/api/cart/"+line.ID, token, map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", rec.Code)
	}
	if body := decode[map[string]string](t, rec); body["code"] != "invalid_quantity" {
		t.Fatalf("unexpected error body: %v", body)
	}

	cart := decode[[]struct {
		Quantity int `json:"quantity"`
	}](t, ts.do(t, http.MethodGet, "/api/cart", token, nil))
	if len(cart) != 1 || cart[0].Quantity != 2 {
		t.Fatalf("quantity changed by empty patch: %+v", cart)
	}
}

func TestSessionIssuedWithoutToken(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/cart", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	if _, err := ts.codec.Verify(rec.Header().Get("X-Session-Token")); err != nil {
		t.Fatalf("no valid session issued: %v", err)
	}
}

func TestProjectFundingPercentage(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/api/community-projects", ts.token(t), map[string]any{
		"name":           "Seed library",
		"category":       "education",
		"fundingGoal":    "100.00",
		"currentFunding": "50.00",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project: status=%d body=%s", rec.Code, rec.Body.String())
	}
	created := decode[map[string]any](t, rec)
	if created["fundingPercentage"] != float64(50) {
		t.Fatalf("fundingPercentage: want=50 got=%v", created["fundingPercentage"])
	}

	got := decode[map[string]any](t, ts.do(t, http.MethodGet, "/api/community-projects/"+created["id"].(string), "", nil))
	if got["fundingPercentage"] != float64(50) {
		t.Fatalf("fundingPercentage on read: %v", got["fundingPercentage"])
	}
}

func TestProjectPatchReachesSubscribers(t *testing.T) {
	ts := newTestServer(t)
	client := ts.hub.NewSSEClient("observer")
	ts.hub.AddChannel(client, realtime.ChannelImpact)
	defer ts.hub.CloseClient(client)

	projectID := seed.ID("project", "cederberg-school-garden")
	rec := ts.do(t, http.MethodPatch, "/api/community-projects/"+projectID, ts.token(t), map[string]any{"progress": 70})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: status=%d body=%s", rec.Code, rec.Body.String())
	}

	select {
	case msg := <-client.Outbound:
		if msg.Event != realtime.SSEEventLiveUpdate {
			t.Fatalf("event: want=%s got=%s", realtime.SSEEventLiveUpdate, msg.Event)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no live update delivered")
	}
}

func TestNotFoundAndOps(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/products/"+uuid.NewString(), "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: want=404 got=%d", rec.Code)
	}
	if body := decode[map[string]string](t, rec); body["message"] != "Product not found" {
		t.Fatalf("unexpected body: %v", body)
	}

	if rec := ts.do(t, http.MethodGet, "/healthcheck", "", nil); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: %d %q", rec.Code, rec.Body.String())
	}
	if rec := ts.do(t, http.MethodGet, "/metrics", "", nil); !strings.Contains(rec.Body.String(), "botanica_api_requests_total") {
		t.Fatalf("metrics missing request counter")
	}
}

func TestLoginAndOrderFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t)

	rec := ts.do(t, http.MethodPost, "/api/users/login", token, map[string]string{"email": "demo@botanica.example", "password": "botanica-demo"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status=%d body=%s", rec.Code, rec.Body.String())
	}
	user := decode[map[string]any](t, rec)
	if _, leaked := user["password"]; leaked {
		t.Fatalf("password hash serialized")
	}
	userID := user["id"].(string)

	rec = ts.do(t, http.MethodPost, "/api/orders", token, map[string]any{
		"userId": userID,
		"items":  []map[string]any{{"productId": seed.ID("product", "rooibos-calm-tea"), "quantity": 2}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("place order: status=%d body=%s", rec.Code, rec.Body.String())
	}
	order := decode[map[string]any](t, rec)
	if order["totalAmount"] != "25.00" || order["status"] != "pending" {
		t.Fatalf("unexpected order: %v", order)
	}

	rec = ts.do(t, http.MethodPatch, "/api/orders/"+order["id"].(string)+"/status", token, map[string]string{"status": "shipped"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("skip transition: want=400 got=%d", rec.Code)
	}
	rec = ts.do(t, http.MethodPatch, "/api/orders/"+order["id"].(string)+"/status", token, map[string]string{"status": "confirmed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodPost, "/api/users/"+userID+"/badges/"+seed.ID("badge", "first-purchase"), token, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("award badge: status=%d body=%s", rec.Code, rec.Body.String())
	}
	rec = ts.do(t, http.MethodPost, "/api/users/"+userID+"/badges/"+seed.ID("badge", "first-purchase"), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat award: want=200 got=%d", rec.Code)
	}
}
