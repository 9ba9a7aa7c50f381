// Package grpc exposes registration, login and predictions as the
// severity.v1.SeverityService gRPC API.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/severity/internal/common"
	"github.com/dmitrijs2005/severity/internal/logging"
	"github.com/dmitrijs2005/severity/internal/server/auth"
	"github.com/dmitrijs2005/severity/internal/server/metrics"
	"github.com/dmitrijs2005/severity/internal/server/models"
	"github.com/dmitrijs2005/severity/internal/server/services"
	"google.golang.org/grpc"
)

type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.Session, error)
	VerifySession(token string) (*auth.Claims, error)
}

type PredictionService interface {
	Predict(ctx context.Context, userID int64, features [common.FeatureCount]float64) (*models.Prediction, error)
	List(ctx context.Context, userID int64) ([]*models.Prediction, error)
	DeleteAll(ctx context.Context, userID int64) (int64, error)
}

type GRPCServer struct {
	address     string
	users       UserService
	predictions PredictionService
	metrics     *metrics.Metrics
	logger      logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, us UserService, ps PredictionService, m *metrics.Metrics) *GRPCServer {
	return &GRPCServer{
		address:     a,
		logger:      l.With("module", "grpc_server"),
		users:       us,
		predictions: ps,
		metrics:     m,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.metrics.UnaryServerInterceptor(), s.accessTokenInterceptor))
	RegisterSeverityServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
