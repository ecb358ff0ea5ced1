package ports

import (
	"context"

	"github.com/ewilliams-labs/typetune/internal/core/domain"
)

// ResultRepository persists shared inference results.
// GetByID returns domain.ErrNotFound when no result has the given id.
type ResultRepository interface {
	Save(ctx context.Context, r domain.SharedResult) error
	GetByID(ctx context.Context, id string) (domain.SharedResult, error)
	Ping(ctx context.Context) error
}
