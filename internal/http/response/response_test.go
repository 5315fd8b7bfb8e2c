package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/botanica-backend/internal/platform/apierr"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
)

func run(t *testing.T, err error) (int, APIError) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) { RespondErr(c, logger.Nop(), err) })
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	var body APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return rec.Code, body
}

func TestRespondErr_APIError(t *testing.T) {
	status, body := run(t, fmt.Errorf("wrapped: %w", apierr.NotFound("product")))
	if status != http.StatusNotFound {
		t.Fatalf("status: want=404 got=%d", status)
	}
	if body.Message != "Product not found" || body.Code != "product_not_found" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestRespondErr_InternalHidesCause(t *testing.T) {
	status, body := run(t, errors.New("pq: connection refused"))
	if status != http.StatusInternalServerError {
		t.Fatalf("status: want=500 got=%d", status)
	}
	if body.Message != "Internal server error" || body.Code != "" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
