package storage

import (
	"context"
	"errors"

	"github.com/xaenox/flatprice-bot/internal/models"
)

var ErrNotFound = errors.New("not found")

type Storage interface {
	SessionStorage
	EstimateStorage
	Close() error
}

// SessionStorage keeps the in-progress dialogue of each chat.
type SessionStorage interface {
	GetSession(ctx context.Context, chatID int64) (*models.Session, error)
	SaveSession(ctx context.Context, session *models.Session) error
	DeleteSession(ctx context.Context, chatID int64) error
}

// EstimateStorage keeps completed estimates, newest first on read.
type EstimateStorage interface {
	SaveEstimate(ctx context.Context, estimate *models.Estimate) error
	GetUserEstimates(ctx context.Context, userID int64, limit, offset int) ([]*models.Estimate, error)
}
