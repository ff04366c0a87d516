package trial

import (
	"context"
)

// Repository defines the interface for trial persistence
type Repository interface {
	Create(ctx context.Context, trial *Trial) error
	Get(ctx context.Context, id string) (*Trial, error)
	List(ctx context.Context) ([]*Trial, error)
	Update(ctx context.Context, trial *Trial) error
	Delete(ctx context.Context, id string) error
}
