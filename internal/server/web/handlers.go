package web

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/severity/internal/common"
	"github.com/gin-gonic/gin"
)

func (s *Server) registerForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", s.newView(c))
}

func (s *Server) register(c *gin.Context) {
	ctx := c.Request.Context()
	username := c.PostForm("username")
	password := c.PostForm("password")

	if _, err := s.users.Register(ctx, username, password); err != nil {
		v := s.newView(c)
		v.setError(err)
		v.Values = map[string]string{"username": username}
		c.HTML(statusFor(err), "register.html", v)
		return
	}

	s.setFlash(c, flashSuccess, msgRegistered)
	c.Redirect(http.StatusFound, "/login")
}

func (s *Server) loginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", s.newView(c))
}

func (s *Server) login(c *gin.Context) {
	ctx := c.Request.Context()
	username := c.PostForm("username")

	sess, err := s.users.Login(ctx, username, c.PostForm("password"))
	if err != nil {
		v := s.newView(c)
		v.setError(err)
		v.Values = map[string]string{"username": username}
		c.HTML(statusFor(err), "login.html", v)
		return
	}

	s.setSession(c, sess.Token)
	s.setFlash(c, flashSuccess, msgLoginOK)
	c.Redirect(http.StatusFound, "/")
}

func (s *Server) logout(c *gin.Context) {
	claims, _ := claimsFrom(c)
	s.users.Logout(c.Request.Context(), claims)

	s.clearSession(c)
	s.setFlash(c, flashSuccess, msgLoggedOut)
	c.Redirect(http.StatusFound, "/login")
}

func (s *Server) home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", s.newView(c))
}

func (s *Server) predict(c *gin.Context) {
	ctx := c.Request.Context()
	claims, _ := claimsFrom(c)
	v := s.newView(c)

	features, values, err := parseFeatures(c)
	v.Values = values
	if err != nil {
		v.setError(err)
		c.HTML(statusFor(err), "index.html", v)
		return
	}

	p, err := s.predictions.Predict(ctx, claims.UserID, features)
	if err != nil {
		v.setError(err)
		c.HTML(statusFor(err), "index.html", v)
		return
	}

	v.Result = newResult(p)
	c.HTML(http.StatusOK, "index.html", v)
}

func (s *Server) history(c *gin.Context) {
	ctx := c.Request.Context()
	claims, _ := claimsFrom(c)
	v := s.newView(c)

	ps, err := s.predictions.List(ctx, claims.UserID)
	if err != nil {
		v.setError(err)
		c.HTML(statusFor(err), "history.html", v)
		return
	}

	v.Records = newRecords(ps)
	c.HTML(http.StatusOK, "history.html", v)
}

func (s *Server) deleteHistory(c *gin.Context) {
	ctx := c.Request.Context()
	claims, _ := claimsFrom(c)

	if _, err := s.predictions.DeleteAll(ctx, claims.UserID); err != nil {
		v := s.newView(c)
		v.setError(err)
		c.HTML(statusFor(err), "history.html", v)
		return
	}

	s.setFlash(c, flashSuccess, msgHistoryDeleted)
	c.Redirect(http.StatusFound, "/history")
}

// parseFeatures reads A1..A10 from the form. Any missing, non-numeric or
// non-finite value fails the whole request. The raw values are returned so
// the form can be re-rendered.
func parseFeatures(c *gin.Context) ([common.FeatureCount]float64, map[string]string, error) {
	var (
		features [common.FeatureCount]float64
		firstErr error
	)
	values := make(map[string]string, common.FeatureCount)

	for i := range features {
		name := fmt.Sprintf("A%d", i+1)
		raw, _ := c.GetPostForm(name)
		raw = strings.TrimSpace(raw)
		values[name] = raw
		if firstErr != nil {
			continue
		}
		if raw == "" {
			firstErr = &fieldError{field: name, key: msgFieldRequired}
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			firstErr = &fieldError{field: name, key: msgFieldNotNumber}
			continue
		}
		features[i] = f
	}
	return features, values, firstErr
}
