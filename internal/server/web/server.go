// Package web serves the browser UI: registration, login, the prediction
// form and the per-user prediction history.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/severity/internal/classifier"
	"github.com/dmitrijs2005/severity/internal/common"
	"github.com/dmitrijs2005/severity/internal/logging"
	"github.com/dmitrijs2005/severity/internal/server/auth"
	"github.com/dmitrijs2005/severity/internal/server/metrics"
	"github.com/dmitrijs2005/severity/internal/server/models"
	"github.com/dmitrijs2005/severity/internal/server/services"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.Session, error)
	VerifySession(token string) (*auth.Claims, error)
	Logout(ctx context.Context, claims *auth.Claims)
}

type PredictionService interface {
	Predict(ctx context.Context, userID int64, features [common.FeatureCount]float64) (*models.Prediction, error)
	List(ctx context.Context, userID int64) ([]*models.Prediction, error)
	DeleteAll(ctx context.Context, userID int64) (int64, error)
}

type Options struct {
	Address         string
	SecureCookies   bool
	SessionValidity time.Duration
	// Features describes A1..A10 for the form; categorical ones get a legend.
	Features []classifier.FeatureEncoding
}

type Server struct {
	address         string
	secureCookies   bool
	sessionValidity time.Duration
	fields          []field

	users       UserService
	predictions PredictionService
	metrics     *metrics.Metrics
	logger      logging.Logger

	engine *gin.Engine
}

func NewServer(o Options, l logging.Logger, us UserService, ps PredictionService, m *metrics.Metrics) *Server {
	s := &Server{
		address:         o.Address,
		secureCookies:   o.SecureCookies,
		sessionValidity: o.SessionValidity,
		fields:          formFields(o.Features),
		users:           us,
		predictions:     ps,
		metrics:         m,
		logger:          l.With("module", "web_server"),
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templatesFS, "templates/*.html")))
	r.Use(gin.Recovery(), s.requestLogger(), s.metrics.GinMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	r.GET("/register", s.registerForm)
	r.POST("/register", s.register)
	r.GET("/login", s.loginForm)
	r.POST("/login", s.login)

	gated := r.Group("/", s.sessionGate())
	{
		gated.GET("/", s.home)
		gated.POST("/predict", s.predict)
		gated.GET("/history", s.history)
		gated.POST("/delete_history", s.deleteHistory)
		gated.GET("/logout", s.logout)
	}
	return r
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listen)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
