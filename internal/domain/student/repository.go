package student

import (
	"context"

	"github.com/kivee/kivee/internal/domain/ledger"
)

// Repository defines the interface for student persistence
type Repository interface {
	Create(ctx context.Context, student *Student) error
	Get(ctx context.Context, id string) (*Student, error)
	// GetForUpdate locks the student row for the duration of the
	// surrounding transaction. Ledger reconciliation reads through this
	// so concurrent reconcilers cannot append duplicate cycles.
	GetForUpdate(ctx context.Context, id string) (*Student, error)
	List(ctx context.Context) ([]*Student, error)
	Update(ctx context.Context, student *Student) error
	// UpdateLedger replaces the student's ledger document
	UpdateLedger(ctx context.Context, id string, l ledger.Ledger) error
	Delete(ctx context.Context, id string) error
}
