package tier

import (
	"context"
)

// Repository defines the interface for tier persistence
type Repository interface {
	Create(ctx context.Context, tier *Tier) error
	Get(ctx context.Context, id string) (*Tier, error)
	List(ctx context.Context) ([]*Tier, error)
	Update(ctx context.Context, tier *Tier) error
	Delete(ctx context.Context, id string) error
}
