package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
)

// SessionRepository keeps server-side login sessions. Deleting a session
// revokes every token issued for it.
type SessionRepository interface {
	Save(ctx context.Context, s *entity.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	// Rotate replaces RefreshID only when it still equals oldRefreshID.
	Rotate(ctx context.Context, id, oldRefreshID, newRefreshID string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, id string) error
}
