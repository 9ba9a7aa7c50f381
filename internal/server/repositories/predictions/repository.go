package predictions

import (
	"context"

	"github.com/dmitrijs2005/severity/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Prediction) error
	// ListByUser returns the user's records, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*models.Prediction, error)
	// DeleteByUser removes every record of the user and returns how many.
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}
