package service

import (
	"context"
	"sort"
	"time"

	"github.com/kivee/kivee/internal/domain/ledger"
	"github.com/kivee/kivee/internal/domain/student"
	"github.com/kivee/kivee/internal/domain/tier"
	"github.com/kivee/kivee/internal/logger"
	"github.com/kivee/kivee/internal/postgres"
	"github.com/kivee/kivee/internal/types"
	"github.com/samber/lo"
)

type BillingService interface {
	// Reconcile appends unpaid subscription charges for every billing
	// cycle that has elapsed since the latest recorded due date, per
	// tier group. Tiers missing from the catalog are skipped. The
	// returned flag is true when anything was appended, so callers can
	// skip needless writes.
	Reconcile(l ledger.Ledger, catalog map[string]*tier.Tier, locationID string, now time.Time) (ledger.Ledger, bool)

	// ClassifyExpiry computes the effective expiry of a subscription
	// charge and its display status. The second return is false when
	// the tier or its pricing cannot be resolved.
	ClassifyExpiry(c *ledger.SubscriptionCharge, t *tier.Tier, locationID string, now time.Time) (*types.ExpiryInfo, bool)

	// ReconcileStudent runs Reconcile against a student's stored ledger
	// inside a single transaction, persisting only when cycles were
	// appended. The student row is locked for the duration so two
	// concurrent reconcilers cannot both append the same cycle.
	ReconcileStudent(ctx context.Context, studentID string) (*student.Student, error)
}

type billingService struct {
	studentRepo student.Repository
	tierRepo    tier.Repository
	pricing     PricingService
	client      postgres.IClient
	logger      *logger.Logger
}

func NewBillingService(
	client postgres.IClient,
	studentRepo student.Repository,
	tierRepo tier.Repository,
	pricing PricingService,
	logger *logger.Logger,
) BillingService {
	return &billingService{
		client:      client,
		studentRepo: studentRepo,
		tierRepo:    tierRepo,
		pricing:     pricing,
		logger:      logger,
	}
}

func (s *billingService) Reconcile(
	l ledger.Ledger,
	catalog map[string]*tier.Tier,
	locationID string,
	now time.Time,
) (ledger.Ledger, bool) {
	updated := make(ledger.Ledger, len(l))
	copy(updated, l)
	changed := false

	groups := l.SubscriptionsByTier()
	tierIDs := lo.Keys(groups)
	sort.Strings(tierIDs)

	for _, tierID := range tierIDs {
		charges := groups[tierID]

		t, ok := catalog[tierID]
		if !ok {
			// The referenced tier was deleted; leave the group as is
			s.logger.Debugw("skipping ledger group for missing tier", "tier_id", tierID)
			continue
		}

		sort.Slice(charges, func(i, j int) bool {
			return charges[i].DueDate.Before(charges[j].DueDate)
		})
		latest := charges[len(charges)-1]

		variant, ok := s.pickVariant(t, locationID, latest)
		if !ok {
			continue
		}
		cycle := variant.Cycle()
		if !cycle.Period.Advances() {
			continue
		}

		// Guard against duplicate cycles: one charge per calendar day
		// per tier group
		seen := map[string]bool{}
		for _, c := range charges {
			seen[dayKey(c.DueDate)] = true
		}

		cursor := latest.DueDate
		for {
			next, err := types.NextDueDate(cursor, cycle)
			if err != nil || next.After(now) {
				break
			}
			if !seen[dayKey(next)] {
				updated = append(updated, ledger.NewSubscriptionCharge(t.ID, t.Name, *variant.Price, next))
				seen[dayKey(next)] = true
				changed = true
			}
			cursor = next
		}
	}

	return updated, changed
}

// pickVariant resolves which price variant governs a tier group's cadence.
// Reconciliation uses the tier's current definition, not the pricing in
// effect when older cycles were created. With several valid variants the
// one matching the latest charge's amount wins; if none matches cleanly
// the group is left alone rather than guessed at.
func (s *billingService) pickVariant(t *tier.Tier, locationID string, latest *ledger.SubscriptionCharge) (tier.PriceVariant, bool) {
	resolution := s.pricing.ResolvePrice(t, locationID)
	if resolution.None() {
		return tier.PriceVariant{}, false
	}
	if v, ok := resolution.Single(); ok {
		return v, true
	}

	matches := lo.Filter(resolution.Variants, func(v tier.PriceVariant, _ int) bool {
		return v.Price != nil && v.Price.Equal(latest.Amount)
	})
	if len(matches) == 1 {
		return matches[0], true
	}

	s.logger.Debugw("ambiguous pricing for ledger group, not advancing",
		"tier_id", t.ID,
		"location_id", locationID,
		"valid_variants", len(resolution.Variants),
	)
	return tier.PriceVariant{}, false
}

func (s *billingService) ClassifyExpiry(
	c *ledger.SubscriptionCharge,
	t *tier.Tier,
	locationID string,
	now time.Time,
) (*types.ExpiryInfo, bool) {
	if c == nil || t == nil {
		return nil, false
	}

	variant, ok := s.pickVariant(t, locationID, c)
	if !ok {
		return nil, false
	}

	var expiry time.Time
	cycle := variant.Cycle()
	if cycle.Period == types.BILLING_PERIOD_CUSTOM_TERM && cycle.TermEnd != nil {
		// Term plans expire at the fixed term end regardless of due date
		expiry = *cycle.TermEnd
	} else {
		next, err := types.NextDueDate(c.DueDate, cycle)
		if err != nil {
			return nil, false
		}
		expiry = next
	}

	return &types.ExpiryInfo{
		EffectiveExpiry: expiry,
		Status:          classifyExpiryStatus(expiry, now),
	}, true
}

func classifyExpiryStatus(expiry, now time.Time) types.ExpiryStatus {
	until := expiry.Sub(now)
	switch {
	case until < 0:
		return types.ExpiryStatusExpired
	case until <= types.ExpirySoonWindow:
		return types.ExpiryStatusSoon
	default:
		return types.ExpiryStatusOK
	}
}

func (s *billingService) ReconcileStudent(ctx context.Context, studentID string) (*student.Student, error) {
	var out *student.Student

	err := s.client.WithTx(ctx, func(ctx context.Context) error {
		stu, err := s.studentRepo.GetForUpdate(ctx, studentID)
		if err != nil {
			return err
		}

		tiers, err := s.tierRepo.List(ctx)
		if err != nil {
			return err
		}
		catalog := lo.KeyBy(tiers, func(t *tier.Tier) string { return t.ID })

		updated, changed := s.Reconcile(stu.Ledger, catalog, stu.LocationID, time.Now().UTC())
		if changed {
			if err := s.studentRepo.UpdateLedger(ctx, stu.ID, updated); err != nil {
				return err
			}
			s.logger.Infow("appended missed billing cycles",
				"student_id", stu.ID,
				"appended", len(updated)-len(stu.Ledger),
			)
		}

		stu.Ledger = updated
		out = stu
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
