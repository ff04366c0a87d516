package service

import (
	"context"
	"time"

	"github.com/kivee/kivee/internal/api/dto"
	"github.com/kivee/kivee/internal/domain/ledger"
	"github.com/kivee/kivee/internal/domain/student"
	"github.com/kivee/kivee/internal/domain/tier"
	"github.com/kivee/kivee/internal/domain/trial"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/logger"
	"github.com/kivee/kivee/internal/postgres"
	"github.com/kivee/kivee/internal/types"
	"github.com/samber/lo"
)

type StudentService interface {
	CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*dto.StudentResponse, error)

	// GetStudent reconciles the student's ledger before returning it,
	// so missed billing cycles appear as unpaid charges, and annotates
	// subscription charges with their expiry classification.
	GetStudent(ctx context.Context, id string) (*dto.StudentResponse, error)

	ListStudents(ctx context.Context) (*dto.ListStudentsResponse, error)
	UpdateStudent(ctx context.Context, id string, req dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	DeleteStudent(ctx context.Context, id string) error

	// AssignPlan puts the student on a tier or trial. Tier assignment
	// creates the first unpaid billing cycle; both kinds fail when the
	// plan has no price at the student's location.
	AssignPlan(ctx context.Context, id string, req dto.AssignPlanRequest) (*dto.StudentResponse, error)
}

type studentService struct {
	studentRepo student.Repository
	tierRepo    tier.Repository
	trialRepo   trial.Repository
	pricing     PricingService
	billing     BillingService
	client      postgres.IClient
	logger      *logger.Logger
}

func NewStudentService(
	client postgres.IClient,
	studentRepo student.Repository,
	tierRepo tier.Repository,
	trialRepo trial.Repository,
	pricing PricingService,
	billing BillingService,
	logger *logger.Logger,
) StudentService {
	return &studentService{
		client:      client,
		studentRepo: studentRepo,
		tierRepo:    tierRepo,
		trialRepo:   trialRepo,
		pricing:     pricing,
		billing:     billing,
		logger:      logger,
	}
}

func (s *studentService) CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	stu := req.ToStudent(ctx)
	if err := stu.Validate(); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Create(ctx, stu); err != nil {
		s.logger.Errorw("failed to create student",
			"error", err,
			"student_id", stu.ID,
		)
		return nil, err
	}

	return &dto.StudentResponse{Student: stu}, nil
}

func (s *studentService) GetStudent(ctx context.Context, id string) (*dto.StudentResponse, error) {
	if id == "" {
		return nil, ierr.NewError("student_id is required").
			WithHint("Student ID is required").
			Mark(ierr.ErrValidation)
	}

	stu, err := s.billing.ReconcileStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, stu), nil
}

func (s *studentService) ListStudents(ctx context.Context) (*dto.ListStudentsResponse, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ListStudentsResponse{
		Items: lo.Map(students, func(stu *student.Student, _ int) *dto.StudentResponse {
			return &dto.StudentResponse{Student: stu}
		}),
		Total: len(students),
	}, nil
}

func (s *studentService) UpdateStudent(ctx context.Context, id string, req dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	if id == "" {
		return nil, ierr.NewError("student_id is required").
			WithHint("Student ID is required").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	stu, err := s.studentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(stu)
	if err := stu.Validate(); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Update(ctx, stu); err != nil {
		s.logger.Errorw("failed to update student",
			"error", err,
			"student_id", stu.ID,
		)
		return nil, err
	}

	return &dto.StudentResponse{Student: stu}, nil
}

func (s *studentService) DeleteStudent(ctx context.Context, id string) error {
	if id == "" {
		return ierr.NewError("student_id is required").
			WithHint("Student ID is required").
			Mark(ierr.ErrValidation)
	}

	if _, err := s.studentRepo.Get(ctx, id); err != nil {
		return err
	}

	return s.studentRepo.Delete(ctx, id)
}

func (s *studentService) AssignPlan(ctx context.Context, id string, req dto.AssignPlanRequest) (*dto.StudentResponse, error) {
	if id == "" {
		return nil, ierr.NewError("student_id is required").
			WithHint("Student ID is required").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out *student.Student

	err := s.client.WithTx(ctx, func(ctx context.Context) error {
		stu, err := s.studentRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		start := time.Now().UTC()
		if req.StartDate != nil {
			start = req.StartDate.UTC()
		}

		switch req.Type {
		case types.PlanTypeTier:
			if err := s.assignTier(ctx, stu, req, start); err != nil {
				return err
			}
		case types.PlanTypeTrial:
			if err := s.assignTrial(ctx, stu, req); err != nil {
				return err
			}
		}

		stu.Plan = &student.Plan{
			Type:      req.Type,
			ID:        req.ID,
			StartDate: lo.ToPtr(start),
		}

		if err := s.studentRepo.Update(ctx, stu); err != nil {
			return err
		}
		if err := s.studentRepo.UpdateLedger(ctx, stu.ID, stu.Ledger); err != nil {
			return err
		}

		s.logger.Infow("assigned plan",
			"student_id", stu.ID,
			"plan_type", req.Type,
			"plan_id", req.ID,
		)
		out = stu
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, out), nil
}

// assignTier resolves the tier's price at the student's location and
// appends the first unpaid billing cycle anchored at start.
func (s *studentService) assignTier(ctx context.Context, stu *student.Student, req dto.AssignPlanRequest, start time.Time) error {
	t, err := s.tierRepo.Get(ctx, req.ID)
	if err != nil {
		return err
	}

	resolution := s.pricing.ResolvePrice(t, stu.LocationID)
	if resolution.None() {
		return ierr.NewError("no price set").
			WithHint("No price set for this location").
			WithReportableDetails(map[string]any{
				"tier_id":     t.ID,
				"location_id": stu.LocationID,
			}).
			Mark(ierr.ErrPriceNotSet)
	}

	variant, ok := resolution.Single()
	if !ok {
		// More than one cadence offered; the request must pick one
		if req.BillingPeriod == nil {
			return ierr.NewError("billing period is required").
				WithHint("This tier offers multiple billing periods, pick one").
				WithReportableDetails(map[string]any{
					"billing_periods": lo.Map(resolution.Variants, func(v tier.PriceVariant, _ int) types.BillingPeriod {
						return v.BillingPeriod
					}),
				}).
				Mark(ierr.ErrValidation)
		}

		variant, ok = lo.Find(resolution.Variants, func(v tier.PriceVariant) bool {
			return v.BillingPeriod == *req.BillingPeriod
		})
		if !ok {
			return ierr.NewError("billing period not offered").
				WithHint("The tier has no valid price for the requested billing period").
				WithReportableDetails(map[string]any{
					"billing_period": *req.BillingPeriod,
				}).
				Mark(ierr.ErrValidation)
		}
	}

	stu.Ledger = append(stu.Ledger, ledger.NewSubscriptionCharge(t.ID, t.Name, *variant.Price, start))
	return nil
}

// assignTrial checks the trial is priced at the student's location.
// Trials are time-boxed and do not open a billing cycle.
func (s *studentService) assignTrial(ctx context.Context, stu *student.Student, req dto.AssignPlanRequest) error {
	tr, err := s.trialRepo.Get(ctx, req.ID)
	if err != nil {
		return err
	}

	if _, ok := tr.PriceForLocation(stu.LocationID); !ok {
		return ierr.NewError("no price set").
			WithHint("No price set for this location").
			WithReportableDetails(map[string]any{
				"trial_id":    tr.ID,
				"location_id": stu.LocationID,
			}).
			Mark(ierr.ErrPriceNotSet)
	}
	return nil
}

// toResponse annotates subscription charges with expiry info. Annotation
// is advisory; lookup failures leave charges unannotated.
func (s *studentService) toResponse(ctx context.Context, stu *student.Student) *dto.StudentResponse {
	resp := &dto.StudentResponse{Student: stu}

	subs := stu.Ledger.Subscriptions()
	if len(subs) == 0 {
		return resp
	}

	tiers, err := s.tierRepo.List(ctx)
	if err != nil {
		s.logger.Warnw("skipping expiry annotations", "error", err, "student_id", stu.ID)
		return resp
	}
	catalog := lo.KeyBy(tiers, func(t *tier.Tier) string { return t.ID })

	now := time.Now().UTC()
	expiry := make(map[string]*types.ExpiryInfo)
	for _, c := range subs {
		if info, ok := s.billing.ClassifyExpiry(c, catalog[c.TierID], stu.LocationID, now); ok {
			expiry[c.ID] = info
		}
	}
	if len(expiry) > 0 {
		resp.Expiry = expiry
	}
	return resp
}
