package student

import (
	"fmt"
	"strings"
	"time"

	"github.com/kivee/kivee/internal/domain/ledger"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/types"
)

// Plan is a student's current plan assignment
type Plan struct {
	Type types.PlanType `json:"type"`
	ID   string         `json:"id"`

	// StartDate anchors the first billing cycle; nil means the
	// assignment date was used
	StartDate *time.Time `json:"start_date,omitempty"`
}

func (p *Plan) Validate() error {
	if err := p.Type.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		return ierr.NewError("plan id is required").
			WithHint("Plan info can not be empty").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Student is an enrolled member of the academy. The Ledger field is the
// full payment history, persisted as one JSONB document.
type Student struct {
	ID         string `db:"id" json:"id"`
	FirstName  string `db:"first_name" json:"first_name"`
	LastName   string `db:"last_name" json:"last_name"`
	Email      string `db:"email" json:"email,omitempty"`
	Phone      string `db:"phone" json:"phone,omitempty"`
	GroupID    string `db:"group_id" json:"group_id,omitempty"`
	LocationID string `db:"location_id" json:"location_id"`

	Plan   *Plan         `db:"plan,jsonb" json:"plan,omitempty"`
	Ledger ledger.Ledger `db:"ledger,jsonb" json:"ledger"`

	types.BaseModel
}

func (s *Student) FullName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", s.FirstName, s.LastName))
}

func (s *Student) Validate() error {
	if s.FirstName == "" {
		return ierr.NewError("student first name is required").
			WithHint("First name is required").
			Mark(ierr.ErrValidation)
	}
	if s.LocationID == "" {
		return ierr.NewError("student location is required").
			WithHint("A student must belong to a location").
			Mark(ierr.ErrValidation)
	}
	if s.Plan != nil {
		if err := s.Plan.Validate(); err != nil {
			return err
		}
	}
	return nil
}
