package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/botanica-backend/internal/platform/ctxutil"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/platform/sessiontoken"
)

const (
	headerSessionToken   = "X-Session-Token"
	DefaultSessionCookie = "botanica_session"
)

type SessionConfig struct {
	Codec      *sessiontoken.Codec
	CookieName string
	Secure     bool
}

// Session attaches the visitor session to every request. A valid token from the
// cookie or the X-Session-Token header is reused; otherwise a new session is
// minted. The current token is always echoed back in both places.
func Session(log *logger.Logger, cfg SessionConfig) gin.HandlerFunc {
	name := strings.TrimSpace(cfg.CookieName)
	if name == "" {
		name = DefaultSessionCookie
	}
	maxAge := int(cfg.Codec.TTL().Seconds())
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(headerSessionToken))
		if token == "" {
			if v, err := c.Cookie(name); err == nil {
				token = v
			}
		}

		sd := &ctxutil.SessionData{}
		if token != "" {
			if sid, err := cfg.Codec.Verify(token); err == nil {
				sd.SessionID = sid
			}
		}
		if sd.SessionID == "" {
			sid, fresh, err := cfg.Codec.Issue()
			if err != nil {
				if log != nil {
					log.Error("Failed to issue session token", "error", err)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
				return
			}
			sd.SessionID, sd.Issued, token = sid, true, fresh
		}

		c.Request = c.Request.WithContext(ctxutil.WithSessionData(c.Request.Context(), sd))
		c.Set("session_id", sd.SessionID)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(name, token, maxAge, "/", "", cfg.Secure, true)
		c.Writer.Header().Set(headerSessionToken, token)
		c.Next()
	}
}
