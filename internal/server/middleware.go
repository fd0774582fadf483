package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/herroute/internal/view"
	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie carries the session id.
	SessionCookie = "herroute_session"

	controllerKey = "controller"
)

// RequestLogger logs every request once it has been served.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.InfoContext(c.Request.Context(), "Request processed",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"ip", c.ClientIP(),
			"duration", time.Since(start),
		)
	}
}

// withSession attaches the caller's view controller to the context, issuing a
// new session cookie when the request has none or an expired one.
func (s *Server) withSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(SessionCookie)
		lang := view.MatchLanguage(c.GetHeader("Accept-Language"))

		id, ctrl, created := s.sessions.Lookup(cookie, lang)
		if created {
			s.log.DebugContext(c.Request.Context(), "New session", "language", lang)
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, int(s.sessionTTL.Seconds()), "/", "", false, true)
		c.Set(controllerKey, ctrl)

		c.Next()
	}
}

func controller(c *gin.Context) *view.Controller {
	return c.MustGet(controllerKey).(*view.Controller)
}
