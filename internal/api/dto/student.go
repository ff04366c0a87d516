package dto

import (
	"context"
	"time"

	"github.com/kivee/kivee/internal/domain/student"
	"github.com/kivee/kivee/internal/types"
	"github.com/kivee/kivee/internal/validator"
)

type CreateStudentRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	GroupID    string `json:"group_id"`
	LocationID string `json:"location_id" validate:"required"`
}

func (r *CreateStudentRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateStudentRequest) ToStudent(ctx context.Context) *student.Student {
	return &student.Student{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_STUDENT),
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      r.Phone,
		GroupID:    r.GroupID,
		LocationID: r.LocationID,
		BaseModel:  types.GetDefaultBaseModel(ctx),
	}
}

type UpdateStudentRequest struct {
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty"`
	GroupID    *string `json:"group_id,omitempty"`
	LocationID *string `json:"location_id,omitempty"`
}

func (r *UpdateStudentRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *UpdateStudentRequest) Apply(s *student.Student) {
	if r.FirstName != nil {
		s.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		s.LastName = *r.LastName
	}
	if r.Email != nil {
		s.Email = *r.Email
	}
	if r.Phone != nil {
		s.Phone = *r.Phone
	}
	if r.GroupID != nil {
		s.GroupID = *r.GroupID
	}
	if r.LocationID != nil {
		s.LocationID = *r.LocationID
	}
}

type AssignPlanRequest struct {
	Type      types.PlanType `json:"type" validate:"required"`
	ID        string         `json:"id" validate:"required"`
	StartDate *time.Time     `json:"start_date,omitempty"`

	// BillingPeriod picks the cadence when the tier offers more than one
	// valid price variant at the student's location
	BillingPeriod *types.BillingPeriod `json:"billing_period,omitempty"`
}

func (r *AssignPlanRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.Type.Validate(); err != nil {
		return err
	}
	if r.BillingPeriod != nil {
		return r.BillingPeriod.Validate()
	}
	return nil
}

type RecordPaymentRequest struct {
	PaidAt        time.Time               `json:"paid_at" validate:"required"`
	PaymentMethod types.PaymentMethodType `json:"payment_method" validate:"required"`
}

func (r *RecordPaymentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.PaymentMethod.Validate()
}

type AddProductChargeRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

func (r *AddProductChargeRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// StudentResponse is a student plus display annotations. Expiry maps
// subscription charge ids to their advisory expiry classification.
type StudentResponse struct {
	*student.Student
	Expiry map[string]*types.ExpiryInfo `json:"expiry,omitempty"`
}

type ListStudentsResponse struct {
	Items []*StudentResponse `json:"items"`
	Total int                `json:"total"`
}
