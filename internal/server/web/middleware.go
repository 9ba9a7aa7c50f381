package web

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/severity/internal/common"
	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// sessionGate lets requests with a valid, unrevoked session cookie through
// and redirects everything else to /login.
func (s *Server) sessionGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(common.SessionCookieName)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		claims, err := s.users.VerifySession(token)
		if err != nil {
			s.logger.Debug(c.Request.Context(), "session rejected", "error", err)
			s.clearSession(c)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		}
		if claims, ok := claimsFrom(c); ok {
			args = append(args, "user_id", claims.UserID)
		}
		s.logger.Info(c.Request.Context(), "http request", args...)
	}
}

func (s *Server) setSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, token, int(s.sessionValidity/time.Second), "/", "", s.secureCookies, true)
}

func (s *Server) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, "", -1, "/", "", s.secureCookies, true)
}
