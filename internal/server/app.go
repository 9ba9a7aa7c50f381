// Package server wires the severity application together: it loads the
// classifier, opens storage, and runs the web UI, the gRPC API and the
// metrics endpoint until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/severity/internal/artifactstore"
	"github.com/dmitrijs2005/severity/internal/classifier"
	"github.com/dmitrijs2005/severity/internal/logging"
	"github.com/dmitrijs2005/severity/internal/server/auth"
	"github.com/dmitrijs2005/severity/internal/server/config"
	"github.com/dmitrijs2005/severity/internal/server/metrics"
	"github.com/dmitrijs2005/severity/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/severity/internal/server/services"
	"github.com/dmitrijs2005/severity/internal/server/web"
	"github.com/dmitrijs2005/severity/internal/timex"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/severity/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	metrics     *metrics.Metrics

	web  *web.Server
	grpc *gs.GRPCServer
}

// NewApp loads the classifier and opens storage. A missing or malformed
// model is a startup error.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(c.LogFile, parseLevel(c.LogLevel))

	loc, err := timex.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone error: %w", err)
	}

	model, err := loadModel(ctx, c)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "Classifier loaded", "path", c.ModelPath, "classes", model.Classes, "created_at", model.CreatedAt)

	rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	mt := metrics.New()
	sessions := auth.NewSessions([]byte(c.SecretKey), c.SessionValidityDuration)
	us := services.NewUserService(rm, sessions, mt, logger)
	ps := services.NewPredictionService(rm, model, loc, mt, logger)

	webOpts := web.Options{
		Address:         c.EndpointAddrHTTP,
		SecureCookies:   c.SecureCookies,
		SessionValidity: sessions.Validity(),
		Features:        model.Features,
	}

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		metrics:     mt,
		web:         web.NewServer(webOpts, logger, us, ps, mt),
		grpc:        gs.NewGRPCServer(c.EndpointAddrGRPC, logger, us, ps, mt),
	}, nil
}

func loadModel(ctx context.Context, c *config.Config) (*classifier.Trained, error) {
	var store classifier.ObjectGetter
	if artifactstore.IsURI(c.ModelPath) {
		s, err := artifactstore.New(ctx, artifactstore.Options{
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("artifact store error: %w", err)
		}
		store = s
	}
	return classifier.Load(ctx, c.ModelPath, store)
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled, a shutdown signal arrives or one of
// the servers fails; the others are then stopped as well.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return app.web.Run(ctx) })
	g.Go(func() error { return app.grpc.Run(ctx) })
	if app.config.MetricsAddr != "" {
		g.Go(func() error { return app.metrics.Serve(ctx, app.config.MetricsAddr) })
	}

	err := g.Wait()

	if cerr := app.repomanager.Close(); cerr != nil {
		app.logger.Error(ctx, "db close error", "error", cerr)
	}

	if err != nil {
		app.logger.Error(ctx, "server error", "error", err)
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
