package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/kivee/kivee/internal/cache"
	"github.com/kivee/kivee/internal/domain/tier"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/logger"
	"github.com/kivee/kivee/internal/postgres"
	"github.com/kivee/kivee/internal/types"
)

type tierRepository struct {
	client postgres.IClient
	logger *logger.Logger
	cache  cache.Cache
}

func NewTierRepository(client postgres.IClient, logger *logger.Logger, cache cache.Cache) tier.Repository {
	return &tierRepository{client: client, logger: logger, cache: cache}
}

func (r *tierRepository) Create(ctx context.Context, t *tier.Tier) error {
	query := `
	INSERT INTO tiers (
		id, academy_id, name, classes_per_week, class_duration_minutes,
		requires_enrollment_fee, different_prices_by_location,
		default_price_variants, price_variants_by_location,
		created_at, updated_at, created_by, updated_by, status
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
	)
	`

	defaultVariantsJSON, err := json.Marshal(t.DefaultPriceVariants)
	if err != nil {
		return ierr.WithError(err).WithHint("Failed to encode price variants").Mark(ierr.ErrValidation)
	}
	locationVariantsJSON, err := json.Marshal(t.PriceVariantsByLocation)
	if err != nil {
		return ierr.WithError(err).WithHint("Failed to encode price variants").Mark(ierr.ErrValidation)
	}

	_, err = r.client.GetQuerier(ctx).ExecContext(ctx, query,
		t.ID,
		t.AcademyID,
		t.Name,
		t.ClassesPerWeek,
		t.ClassDurationMinutes,
		t.RequiresEnrollmentFee,
		t.DifferentPricesByLocation,
		defaultVariantsJSON,
		locationVariantsJSON,
		t.CreatedAt,
		t.UpdatedAt,
		t.CreatedBy,
		t.UpdatedBy,
		t.Status,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create tier").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *tierRepository) Get(ctx context.Context, id string) (*tier.Tier, error) {
	if t := r.getCache(ctx, id); t != nil {
		return t, nil
	}

	query := `
	SELECT
		id, academy_id, name, classes_per_week, class_duration_minutes,
		requires_enrollment_fee, different_prices_by_location,
		default_price_variants, price_variants_by_location,
		created_at, updated_at, created_by, updated_by, status
	FROM tiers
	WHERE id = $1 AND academy_id = $2 AND status != $3
	`

	row := r.client.GetQuerier(ctx).QueryRowContext(ctx, query, id, types.GetAcademyID(ctx), types.StatusDeleted)
	t, err := scanTier(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("tier not found").
				WithHint("Tier not found").
				WithReportableDetails(map[string]any{
					"tier_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get tier").
			Mark(ierr.ErrDatabase)
	}

	r.setCache(ctx, t)
	return t, nil
}

func (r *tierRepository) List(ctx context.Context) ([]*tier.Tier, error) {
	query := `
	SELECT
		id, academy_id, name, classes_per_week, class_duration_minutes,
		requires_enrollment_fee, different_prices_by_location,
		default_price_variants, price_variants_by_location,
		created_at, updated_at, created_by, updated_by, status
	FROM tiers
	WHERE academy_id = $1 AND status != $2
	ORDER BY created_at
	`

	rows, err := r.client.GetQuerier(ctx).QueryContext(ctx, query, types.GetAcademyID(ctx), types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list tiers").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var tiers []*tier.Tier
	for rows.Next() {
		t, err := scanTier(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to list tiers").
				Mark(ierr.ErrDatabase)
		}
		tiers = append(tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list tiers").
			Mark(ierr.ErrDatabase)
	}

	return tiers, nil
}

func (r *tierRepository) Update(ctx context.Context, t *tier.Tier) error {
	query := `
	UPDATE tiers SET
		name = $3,
		classes_per_week = $4,
		class_duration_minutes = $5,
		requires_enrollment_fee = $6,
		different_prices_by_location = $7,
		default_price_variants = $8,
		price_variants_by_location = $9,
		updated_at = NOW(),
		updated_by = $10,
		status = $11
	WHERE id = $1 AND academy_id = $2
	`

	defaultVariantsJSON, err := json.Marshal(t.DefaultPriceVariants)
	if err != nil {
		return ierr.WithError(err).WithHint("Failed to encode price variants").Mark(ierr.ErrValidation)
	}
	locationVariantsJSON, err := json.Marshal(t.PriceVariantsByLocation)
	if err != nil {
		return ierr.WithError(err).WithHint("Failed to encode price variants").Mark(ierr.ErrValidation)
	}

	result, err := r.client.GetQuerier(ctx).ExecContext(ctx, query,
		t.ID,
		types.GetAcademyID(ctx),
		t.Name,
		t.ClassesPerWeek,
		t.ClassDurationMinutes,
		t.RequiresEnrollmentFee,
		t.DifferentPricesByLocation,
		defaultVariantsJSON,
		locationVariantsJSON,
		types.GetUserID(ctx),
		t.Status,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update tier").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("tier not found").
			WithHint("Tier not found").
			WithReportableDetails(map[string]any{
				"tier_id": t.ID,
			}).
			Mark(ierr.ErrNotFound)
	}

	r.deleteCache(ctx, t.ID)
	return nil
}

func (r *tierRepository) Delete(ctx context.Context, id string) error {
	query := `
	UPDATE tiers SET status = $3, updated_at = NOW(), updated_by = $4
	WHERE id = $1 AND academy_id = $2
	`

	result, err := r.client.GetQuerier(ctx).ExecContext(ctx, query,
		id, types.GetAcademyID(ctx), types.StatusDeleted, types.GetUserID(ctx))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete tier").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("tier not found").
			WithHint("Tier not found").
			WithReportableDetails(map[string]any{
				"tier_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	r.deleteCache(ctx, id)
	return nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTier(row scanner) (*tier.Tier, error) {
	var t tier.Tier
	var defaultVariantsJSON, locationVariantsJSON []byte

	err := row.Scan(
		&t.ID,
		&t.AcademyID,
		&t.Name,
		&t.ClassesPerWeek,
		&t.ClassDurationMinutes,
		&t.RequiresEnrollmentFee,
		&t.DifferentPricesByLocation,
		&defaultVariantsJSON,
		&locationVariantsJSON,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.CreatedBy,
		&t.UpdatedBy,
		&t.Status,
	)
	if err != nil {
		return nil, err
	}

	if len(defaultVariantsJSON) > 0 {
		if err := json.Unmarshal(defaultVariantsJSON, &t.DefaultPriceVariants); err != nil {
			return nil, err
		}
	}
	if len(locationVariantsJSON) > 0 {
		if err := json.Unmarshal(locationVariantsJSON, &t.PriceVariantsByLocation); err != nil {
			return nil, err
		}
	}

	return &t, nil
}

func (r *tierRepository) setCache(ctx context.Context, t *tier.Tier) {
	key := cache.GenerateKey(cache.PrefixTier, types.GetAcademyID(ctx), t.ID)
	r.cache.Set(ctx, key, t, cache.ExpiryDefaultInMemory)
}

func (r *tierRepository) getCache(ctx context.Context, id string) *tier.Tier {
	key := cache.GenerateKey(cache.PrefixTier, types.GetAcademyID(ctx), id)
	if value, found := r.cache.Get(ctx, key); found {
		if t, ok := value.(*tier.Tier); ok {
			return t
		}
	}
	return nil
}

func (r *tierRepository) deleteCache(ctx context.Context, id string) {
	key := cache.GenerateKey(cache.PrefixTier, types.GetAcademyID(ctx), id)
	r.cache.Delete(ctx, key)
}
