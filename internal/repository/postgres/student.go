package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/kivee/kivee/internal/domain/ledger"
	"github.com/kivee/kivee/internal/domain/student"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/logger"
	"github.com/kivee/kivee/internal/postgres"
	"github.com/kivee/kivee/internal/types"
)

const studentColumns = `
	id, academy_id, first_name, last_name, email, phone, group_id, location_id,
	plan, ledger, created_at, updated_at, created_by, updated_by, status
`

type studentRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewStudentRepository(client postgres.IClient, logger *logger.Logger) student.Repository {
	return &studentRepository{client: client, logger: logger}
}

func (r *studentRepository) Create(ctx context.Context, stu *student.Student) error {
	query := `
	INSERT INTO students (` + studentColumns + `) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
	)
	`

	planJSON, ledgerJSON, err := marshalStudentDocs(stu)
	if err != nil {
		return err
	}

	_, err = r.client.GetQuerier(ctx).ExecContext(ctx, query,
		stu.ID,
		stu.AcademyID,
		stu.FirstName,
		stu.LastName,
		stu.Email,
		stu.Phone,
		stu.GroupID,
		stu.LocationID,
		planJSON,
		ledgerJSON,
		stu.CreatedAt,
		stu.UpdatedAt,
		stu.CreatedBy,
		stu.UpdatedBy,
		stu.Status,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create student").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *studentRepository) Get(ctx context.Context, id string) (*student.Student, error) {
	query := `SELECT ` + studentColumns + `
	FROM students
	WHERE id = $1 AND academy_id = $2 AND status != $3
	`
	return r.getOne(ctx, query, id)
}

// GetForUpdate locks the student row until the surrounding transaction
// ends. Must run inside WithTx.
func (r *studentRepository) GetForUpdate(ctx context.Context, id string) (*student.Student, error) {
	query := `SELECT ` + studentColumns + `
	FROM students
	WHERE id = $1 AND academy_id = $2 AND status != $3
	FOR UPDATE
	`
	return r.getOne(ctx, query, id)
}

func (r *studentRepository) getOne(ctx context.Context, query, id string) (*student.Student, error) {
	row := r.client.GetQuerier(ctx).QueryRowContext(ctx, query, id, types.GetAcademyID(ctx), types.StatusDeleted)
	stu, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("student not found").
				WithHint("Student not found").
				WithReportableDetails(map[string]any{
					"student_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get student").
			Mark(ierr.ErrDatabase)
	}
	return stu, nil
}

func (r *studentRepository) List(ctx context.Context) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + `
	FROM students
	WHERE academy_id = $1 AND status != $2
	ORDER BY created_at
	`

	rows, err := r.client.GetQuerier(ctx).QueryContext(ctx, query, types.GetAcademyID(ctx), types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list students").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var students []*student.Student
	for rows.Next() {
		stu, err := scanStudent(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to list students").
				Mark(ierr.ErrDatabase)
		}
		students = append(students, stu)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list students").
			Mark(ierr.ErrDatabase)
	}

	return students, nil
}

func (r *studentRepository) Update(ctx context.Context, stu *student.Student) error {
	query := `
	UPDATE students SET
		first_name = $3,
		last_name = $4,
		email = $5,
		phone = $6,
		group_id = $7,
		location_id = $8,
		plan = $9,
		updated_at = NOW(),
		updated_by = $10,
		status = $11
	WHERE id = $1 AND academy_id = $2
	`

	planJSON, _, err := marshalStudentDocs(stu)
	if err != nil {
		return err
	}

	result, err := r.client.GetQuerier(ctx).ExecContext(ctx, query,
		stu.ID,
		types.GetAcademyID(ctx),
		stu.FirstName,
		stu.LastName,
		stu.Email,
		stu.Phone,
		stu.GroupID,
		stu.LocationID,
		planJSON,
		types.GetUserID(ctx),
		stu.Status,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update student").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("student not found").
			WithHint("Student not found").
			WithReportableDetails(map[string]any{
				"student_id": stu.ID,
			}).
			Mark(ierr.ErrNotFound)
	}

	return nil
}

// UpdateLedger replaces the ledger document in place
func (r *studentRepository) UpdateLedger(ctx context.Context, id string, l ledger.Ledger) error {
	query := `
	UPDATE students SET ledger = $3, updated_at = NOW(), updated_by = $4
	WHERE id = $1 AND academy_id = $2
	`

	ledgerJSON, err := json.Marshal(l)
	if err != nil {
		return ierr.WithError(err).WithHint("Failed to encode ledger").Mark(ierr.ErrValidation)
	}

	result, err := r.client.GetQuerier(ctx).ExecContext(ctx, query,
		id, types.GetAcademyID(ctx), ledgerJSON, types.GetUserID(ctx))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update ledger").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("student not found").
			WithHint("Student not found").
			WithReportableDetails(map[string]any{
				"student_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func (r *studentRepository) Delete(ctx context.Context, id string) error {
	query := `
	UPDATE students SET status = $3, updated_at = NOW(), updated_by = $4
	WHERE id = $1 AND academy_id = $2
	`

	result, err := r.client.GetQuerier(ctx).ExecContext(ctx, query,
		id, types.GetAcademyID(ctx), types.StatusDeleted, types.GetUserID(ctx))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete student").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("student not found").
			WithHint("Student not found").
			WithReportableDetails(map[string]any{
				"student_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func marshalStudentDocs(stu *student.Student) ([]byte, []byte, error) {
	var planJSON []byte
	if stu.Plan != nil {
		var err error
		planJSON, err = json.Marshal(stu.Plan)
		if err != nil {
			return nil, nil, ierr.WithError(err).WithHint("Failed to encode plan").Mark(ierr.ErrValidation)
		}
	}

	l := stu.Ledger
	if l == nil {
		l = ledger.Ledger{}
	}
	ledgerJSON, err := json.Marshal(l)
	if err != nil {
		return nil, nil, ierr.WithError(err).WithHint("Failed to encode ledger").Mark(ierr.ErrValidation)
	}

	return planJSON, ledgerJSON, nil
}

func scanStudent(row scanner) (*student.Student, error) {
	var stu student.Student
	var planJSON, ledgerJSON []byte

	err := row.Scan(
		&stu.ID,
		&stu.AcademyID,
		&stu.FirstName,
		&stu.LastName,
		&stu.Email,
		&stu.Phone,
		&stu.GroupID,
		&stu.LocationID,
		&planJSON,
		&ledgerJSON,
		&stu.CreatedAt,
		&stu.UpdatedAt,
		&stu.CreatedBy,
		&stu.UpdatedBy,
		&stu.Status,
	)
	if err != nil {
		return nil, err
	}

	if len(planJSON) > 0 {
		if err := json.Unmarshal(planJSON, &stu.Plan); err != nil {
			return nil, err
		}
	}
	if len(ledgerJSON) > 0 {
		if err := json.Unmarshal(ledgerJSON, &stu.Ledger); err != nil {
			return nil, err
		}
	}

	return &stu, nil
}
