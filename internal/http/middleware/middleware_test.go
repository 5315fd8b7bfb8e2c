package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yungbote/botanica-backend/internal/observability"
	"github.com/yungbote/botanica-backend/internal/platform/ctxutil"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/platform/sessiontoken"
)

func sessionRouter(t *testing.T) (*gin.Engine, *sessiontoken.Codec) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	codec, err := sessiontoken.NewCodec("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	r := gin.New()
	r.Use(Session(logger.Nop(), SessionConfig{Codec: codec}))
	r.GET("/whoami", func(c *gin.Context) {
		sd := ctxutil.GetSessionData(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"sid": sd.SessionID, "issued": sd.Issued})
	})
	return r, codec
}

func TestSession_IssuesWhenMissing(t *testing.T) {
	r, codec := sessionRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	token := rec.Header().Get(headerSessionToken)
	if token == "" {
		t.Fatalf("no session token header")
	}
	sid, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if !strings.Contains(rec.Body.String(), sid) || !strings.Contains(rec.Body.String(), `"issued":true`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if cookie := rec.Header().Get("Set-Cookie"); !strings.HasPrefix(cookie, DefaultSessionCookie+"=") {
		t.Fatalf("unexpected Set-Cookie: %q", cookie)
	}
}

func TestSession_ReusesValidTokenFromHeaderOrCookie(t *testing.T) {
	r, codec := sessionRouter(t)
	sid := uuid.NewString()
	token, err := codec.Sign(sid)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	byHeader := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	byHeader.Header.Set(headerSessionToken, token)
	byCookie := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	byCookie.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: token})

	for name, req := range map[string]*http.Request{"header": byHeader, "cookie": byCookie} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if !strings.Contains(rec.Body.String(), sid) || !strings.Contains(rec.Body.String(), `"issued":false`) {
			t.Fatalf("%s: session not reused: %s", name, rec.Body.String())
		}
	}
}

func TestSession_ReplacesForgedToken(t *testing.T) {
	r, _ := sessionRouter(t)
	other, _ := sessiontoken.NewCodec("other-secret", time.Hour)
	forged, _ := other.Sign(uuid.NewString())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(headerSessionToken, forged)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), `"issued":true`) {
		t.Fatalf("forged token accepted: %s", rec.Body.String())
	}
	if rec.Header().Get(headerSessionToken) == forged {
		t.Fatalf("forged token echoed back")
	}
}

func TestAttachTraceContext_PropagatesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == nil || seen.RequestID != "req-123" || seen.TraceID == "" {
		t.Fatalf("unexpected trace data: %+v", seen)
	}
	if got := rec.Header().Get(headerRequestID); got != "req-123" {
		t.Fatalf("request id header: want=req-123 got=%q", got)
	}
}

func TestMetrics_ObservesRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/products/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/abc", nil))

	want := `botanica_api_requests_total{method="GET",route="/api/products/:id",status="404"} 1`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(
		"# HELP botanica_api_requests_total Total API requests by method/route/status.\n"+
			"# TYPE botanica_api_requests_total counter\n"+want+"\n"),
		"botanica_api_requests_total"); err != nil {
		t.Fatalf("metrics mismatch: %v", err)
	}
}

func TestAttachTraceContext_ReplacesUnsafeIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	for name, id := range map[string]string{
		"spaces":   "req 123",
		"newline":  "req\r\nSet-Cookie: x=1",
		"too long": strings.Repeat("a", maxCorrelationID+1),
	} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header[headerRequestID] = []string{id}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		got := rec.Header().Get(headerRequestID)
		if got == id || uuid.Validate(got) != nil {
			t.Fatalf("%s: want a generated id, got %q", name, got)
		}
	}
}

func TestMetrics_CountsIssuedSessionsAndSkipsScrapes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	codec, err := sessiontoken.NewCodec("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	m := observability.NewMetrics()
	r := gin.New()
	r.Use(Metrics(m, "/metrics"))
	r.GET("/metrics", gin.WrapH(m.Handler()))
	api := r.Group("/api")
	api.Use(Session(logger.Nop(), SessionConfig{Codec: codec}))
	api.GET("/cart", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	again := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	again.Header.Set(headerSessionToken, first.Header().Get(headerSessionToken))
	r.ServeHTTP(httptest.NewRecorder(), again)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

	want := `
# HELP botanica_session_issued_total Visitor sessions minted for requests without a valid token.
# TYPE botanica_session_issued_total counter
botanica_session_issued_total 1
# HELP botanica_api_requests_total Total API requests by method/route/status.
# TYPE botanica_api_requests_total counter
botanica_api_requests_total{method="GET",route="/api/cart",status="200"} 2
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(want),
		"botanica_session_issued_total", "botanica_api_requests_total"); err != nil {
		t.Fatalf("metrics mismatch: %v", err)
	}
}
