package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/botanica-backend/internal/observability"
	"github.com/yungbote/botanica-backend/internal/platform/ctxutil"
)

const unmatchedRoute = "unmatched"

// Metrics records API traffic by route pattern, plus the visitor sessions
// minted while serving it. Scrapes of the metrics endpoint itself are skipped.
func Metrics(m *observability.Metrics, skip ...string) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	skipped := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipped[p] = true
	}
	return func(c *gin.Context) {
		if skipped[c.FullPath()] {
			c.Next()
			return
		}
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
		if sd := ctxutil.GetSessionData(c.Request.Context()); sd != nil && sd.Issued {
			m.IncSessionIssued()
		}
	}
}
