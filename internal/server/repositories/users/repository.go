package users

import (
	"context"

	"github.com/dmitrijs2005/severity/internal/server/models"
)

type Repository interface {
	// Create stores a new user; a taken username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	// NextPredictionSeq increments and returns the user's prediction counter.
	NextPredictionSeq(ctx context.Context, userID int64) (int64, error)
	ResetPredictionSeq(ctx context.Context, userID int64) error
}
