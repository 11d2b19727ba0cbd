// Package store persists verification records.
package store

import (
	"context"

	"github.com/google/uuid"

	"citeguard/internal/verification/models"
)

// Store is implemented by every verification store. Missing records are
// reported as sentinel.ErrNotFound and duplicate ids as sentinel.ErrConflict.
type Store interface {
	Save(ctx context.Context, v *models.Verification) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Verification, error)
}
