package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yungbote/botanica-backend/internal/platform/apierr"
	"github.com/yungbote/botanica-backend/internal/platform/ctxutil"
)

func sessionID(c *gin.Context) string {
	return ctxutil.SessionID(c.Request.Context())
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apierr.BadRequest("invalid_request", "invalid request body: %v", err)
	}
	return nil
}

func queryString(c *gin.Context, key string) *string {
	v, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	v := queryString(c, key)
	if v == nil {
		return nil, nil
	}
	b, err := strconv.ParseBool(*v)
	if err != nil {
		return nil, apierr.BadRequest("invalid_request", "%s must be true or false", key)
	}
	return &b, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	v := queryString(c, key)
	if v == nil {
		return 0, nil
	}
	n, err := strconv.Atoi(*v)
	if err != nil {
		return 0, apierr.BadRequest("invalid_request", "%s must be an integer", key)
	}
	return n, nil
}

func queryDecimal(c *gin.Context, key string) (*decimal.Decimal, error) {
	v := queryString(c, key)
	if v == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*v)
	if err != nil {
		return nil, apierr.BadRequest("invalid_request", "%s must be a decimal", key)
	}
	return &d, nil
}
