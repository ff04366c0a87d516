package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/kivee/kivee/internal/domain/trial"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/logger"
	"github.com/kivee/kivee/internal/postgres"
	"github.com/kivee/kivee/internal/types"
)

type trialRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewTrialRepository(client postgres.IClient, logger *logger.Logger) trial.Repository {
	return &trialRepository{client: client, logger: logger}
}

func (r *trialRepository) Create(ctx context.Context, t *trial.Trial) error {
	query := `
	INSERT INTO trials (
		id, academy_id, name, duration_in_days, class_limit,
		prices_by_location, converts_to_tier_id,
		created_at, updated_at, created_by, updated_by, status
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
	)
	`

	pricesJSON, err := json.Marshal(t.PricesByLocation)
	if err != nil {
		return ierr.WithError(err).WithHint("Failed to encode trial prices").Mark(ierr.ErrValidation)
	}

	_, err = r.client.GetQuerier(ctx).ExecContext(ctx, query,
		t.ID,
		t.AcademyID,
		t.Name,
		t.DurationInDays,
		t.ClassLimit,
		pricesJSON,
		t.ConvertsToTierID,
		t.CreatedAt,
		t.UpdatedAt,
		t.CreatedBy,
		t.UpdatedBy,
		t.Status,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create trial").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *trialRepository) Get(ctx context.Context, id string) (*trial.Trial, error) {
	query := `
	SELECT
		id, academy_id, name, duration_in_days, class_limit,
		prices_by_location, converts_to_tier_id,
		created_at, updated_at, created_by, updated_by, status
	FROM trials
	WHERE id = $1 AND academy_id = $2 AND status != $3
	`

	row := r.client.GetQuerier(ctx).QueryRowContext(ctx, query, id, types.GetAcademyID(ctx), types.StatusDeleted)
	t, err := scanTrial(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("trial not found").
				WithHint("Trial not found").
				WithReportableDetails(map[string]any{
					"trial_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get trial").
			Mark(ierr.ErrDatabase)
	}

	return t, nil
}

func (r *trialRepository) List(ctx context.Context) ([]*trial.Trial, error) {
	query := `
	SELECT
		id, academy_id, name, duration_in_days, class_limit,
		prices_by_location, converts_to_tier_id,
		created_at, updated_at, created_by, updated_by, status
	FROM trials
	WHERE academy_id = $1 AND status != $2
	ORDER BY created_at
	`

	rows, err := r.client.GetQuerier(ctx).QueryContext(ctx, query, types.GetAcademyID(ctx), types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list trials").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var trials []*trial.Trial
	for rows.Next() {
		t, err := scanTrial(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to list trials").
				Mark(ierr.ErrDatabase)
		}
		trials = append(trials, t)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list trials").
			Mark(ierr.ErrDatabase)
	}

	return trials, nil
}

func (r *trialRepository) Update(ctx context.Context, t *trial.Trial) error {
	query := `
	UPDATE trials SET
		name = $3,
		duration_in_days = $4,
		class_limit = $5,
		prices_by_location = $6,
		converts_to_tier_id = $7,
		updated_at = NOW(),
		updated_by = $8,
		status = $9
	WHERE id = $1 AND academy_id = $2
	`

	pricesJSON, err := json.Marshal(t.PricesByLocation)
	if err != nil {
		return ierr.WithError(err).WithHint("Failed to encode trial prices").Mark(ierr.ErrValidation)
	}

	result, err := r.client.GetQuerier(ctx).ExecContext(ctx, query,
		t.ID,
		types.GetAcademyID(ctx),
		t.Name,
		t.DurationInDays,
		t.ClassLimit,
		pricesJSON,
		t.ConvertsToTierID,
		types.GetUserID(ctx),
		t.Status,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update trial").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("trial not found").
			WithHint("Trial not found").
			WithReportableDetails(map[string]any{
				"trial_id": t.ID,
			}).
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func (r *trialRepository) Delete(ctx context.Context, id string) error {
	query := `
	UPDATE trials SET status = $3, updated_at = NOW(), updated_by = $4
	WHERE id = $1 AND academy_id = $2
	`

	result, err := r.client.GetQuerier(ctx).ExecContext(ctx, query,
		id, types.GetAcademyID(ctx), types.StatusDeleted, types.GetUserID(ctx))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete trial").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("trial not found").
			WithHint("Trial not found").
			WithReportableDetails(map[string]any{
				"trial_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func scanTrial(row scanner) (*trial.Trial, error) {
	var t trial.Trial
	var pricesJSON []byte

	err := row.Scan(
		&t.ID,
		&t.AcademyID,
		&t.Name,
		&t.DurationInDays,
		&t.ClassLimit,
		&pricesJSON,
		&t.ConvertsToTierID,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.CreatedBy,
		&t.UpdatedBy,
		&t.Status,
	)
	if err != nil {
		return nil, err
	}

	if len(pricesJSON) > 0 {
		if err := json.Unmarshal(pricesJSON, &t.PricesByLocation); err != nil {
			return nil, err
		}
	}

	return &t, nil
}
