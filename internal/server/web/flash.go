package web

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookieName = "severity_flash"

type flashKind string

const (
	flashSuccess flashKind = "success"
	flashError   flashKind = "error"
)

// flash is a one-shot message shown on the page after a redirect.
type flash struct {
	Kind flashKind
	Key  string
}

func (s *Server) setFlash(c *gin.Context, kind flashKind, key string) {
	v := base64.RawURLEncoding.EncodeToString([]byte(string(kind) + "\n" + key))
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName, v, 60, "/", "", s.secureCookies, true)
}

// popFlash reads and clears the pending flash. Unknown message keys are
// dropped.
func (s *Server) popFlash(c *gin.Context) *flash {
	raw, err := c.Cookie(flashCookieName)
	if err != nil {
		return nil
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName, "", -1, "/", "", s.secureCookies, true)

	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	kind, key, ok := strings.Cut(string(b), "\n")
	if !ok || !knownKeys[key] {
		return nil
	}
	switch flashKind(kind) {
	case flashSuccess, flashError:
		return &flash{Kind: flashKind(kind), Key: key}
	}
	return nil
}
