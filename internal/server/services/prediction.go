package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/severity/internal/classifier"
	"github.com/dmitrijs2005/severity/internal/common"
	"github.com/dmitrijs2005/severity/internal/dbx"
	"github.com/dmitrijs2005/severity/internal/logging"
	"github.com/dmitrijs2005/severity/internal/server/metrics"
	"github.com/dmitrijs2005/severity/internal/server/models"
	"github.com/dmitrijs2005/severity/internal/server/repositories/repomanager"
)

// PredictionService runs the classifier and keeps the per-user
// prediction log.
type PredictionService struct {
	repomanager repomanager.RepositoryManager
	predictor   classifier.Predictor
	location    *time.Location
	metrics     *metrics.Metrics
	log         logging.Logger

	now func() time.Time
}

func NewPredictionService(m repomanager.RepositoryManager, p classifier.Predictor, loc *time.Location, mt *metrics.Metrics, log logging.Logger) *PredictionService {
	if loc == nil {
		loc = time.UTC
	}
	return &PredictionService{
		repomanager: m,
		predictor:   p,
		location:    loc,
		metrics:     mt,
		log:         log.With("service", "predictions"),
		now:         time.Now,
	}
}

// Predict classifies features and stores the result for userID. Non-finite
// values are rejected with common.ErrInvalidInput before anything is stored.
func (s *PredictionService) Predict(ctx context.Context, userID int64, features [common.FeatureCount]float64) (*models.Prediction, error) {
	for i, v := range features {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: A%d is not a finite number", common.ErrInvalidInput, i+1)
		}
	}

	result := s.predictor.Predict(features)
	if result < common.MinSeverity || result > common.MaxSeverity {
		s.log.Error(ctx, "classifier returned out-of-range class", "result", result)
		return nil, common.ErrorInternal
	}

	p, err := s.Append(ctx, userID, features, result)
	if err != nil {
		return nil, err
	}

	s.metrics.ObservePrediction(result)
	return p, nil
}

// Append stores a record under the next local id of userID. The counter
// increment and the insert share one transaction, so concurrent appends of
// the same user get distinct ids.
func (s *PredictionService) Append(ctx context.Context, userID int64, features [common.FeatureCount]float64, result int) (*models.Prediction, error) {
	p := &models.Prediction{
		UserID:    userID,
		Features:  features,
		Result:    result,
		CreatedAt: s.now().In(s.location),
	}

	err := s.repomanager.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		seq, err := s.repomanager.Users(tx).NextPredictionSeq(ctx, userID)
		if err != nil {
			return err
		}
		p.LocalID = seq
		return s.repomanager.Predictions(tx).Create(ctx, p)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.log.Error(ctx, "store prediction failed", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}

	s.log.Info(ctx, "prediction stored", "user_id", userID, "local_id", p.LocalID, "result", result)
	return p, nil
}

// List returns the user's records, newest first, with timestamps in the
// configured zone.
func (s *PredictionService) List(ctx context.Context, userID int64) ([]*models.Prediction, error) {
	ps, err := s.repomanager.Predictions(s.repomanager.Conn()).ListByUser(ctx, userID)
	if err != nil {
		s.log.Error(ctx, "list predictions failed", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	for _, p := range ps {
		p.CreatedAt = p.CreatedAt.In(s.location)
	}
	return ps, nil
}

// DeleteAll removes every record of the user and restarts local ids at 1.
func (s *PredictionService) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := s.repomanager.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if n, err = s.repomanager.Predictions(tx).DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return s.repomanager.Users(tx).ResetPredictionSeq(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, common.ErrorUnauthorized
		}
		s.log.Error(ctx, "delete predictions failed", "user_id", userID, "error", err)
		return 0, common.ErrorInternal
	}

	s.log.Info(ctx, "prediction history deleted", "user_id", userID, "deleted", n)
	return n, nil
}
