package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/assignment"
	"github.com/cmlabs-hris/shift-engine-go/internal/pkg/database"
)

type assignmentRepository struct {
	db *database.DB
}

func NewAssignmentRepository(db *database.DB) assignment.AssignmentRepository {
	return &assignmentRepository{db: db}
}

const assignmentColumns = `
	id, company_id, employee_id, shift_template_id,
	effective_from, effective_to, reason,
	created_by, updated_by, created_at, updated_at
`

// WithTransaction runs fn inside one database transaction, carried on
// the context so every repository call in fn joins it.
func (r *assignmentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, "tx", tx))
	})
}

// LockEmployee takes a transaction-scoped advisory lock on the
// (company, employee) pair. Held until the surrounding WithTransaction
// commits, it serializes the overlap check and write against concurrent
// writers in other processes, beyond the in-process lock.
func (r *assignmentRepository) LockEmployee(ctx context.Context, companyID string, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1 || '|' || $2))`, companyID, employeeID)
	if err != nil {
		return fmt.Errorf("failed to lock employee assignments: %w", err)
	}
	return nil
}

func (r *assignmentRepository) Create(ctx context.Context, a assignment.ShiftAssignment) (assignment.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_assignments (
			id, company_id, employee_id, shift_template_id,
			effective_from, effective_to, reason, created_by, updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.ID, a.CompanyID, a.EmployeeID, a.ShiftTemplateID,
		a.EffectiveFrom, a.EffectiveTo, a.Reason, a.CreatedBy, a.UpdatedBy,
	).Scan(&a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		// 23P01 is the exclusion constraint on overlapping ranges, the
		// defense-in-depth backstop behind the application-level check.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
			return assignment.ShiftAssignment{}, assignment.ErrOverlappingAssignment
		}
		return assignment.ShiftAssignment{}, fmt.Errorf("failed to insert assignment: %w", err)
	}

	return a, nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string, companyID string) (assignment.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE id = $1 AND company_id = $2
	`

	a, err := scanAssignment(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assignment.ShiftAssignment{}, assignment.ErrAssignmentNotFound
		}
		return assignment.ShiftAssignment{}, fmt.Errorf("failed to get assignment: %w", err)
	}
	return a, nil
}

func (r *assignmentRepository) ListByEmployee(ctx context.Context, companyID string, employeeID string) ([]assignment.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE company_id = $1 AND employee_id = $2
		ORDER BY effective_from
	`

	rows, err := q.Query(ctx, query, companyID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	return collectAssignments(rows)
}

func (r *assignmentRepository) List(ctx context.Context, companyID string, filter assignment.AssignmentFilter) ([]assignment.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	where := "company_id = $1"
	args := []interface{}{companyID}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		where += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.ShiftTemplateID != nil {
		args = append(args, *filter.ShiftTemplateID)
		where += fmt.Sprintf(" AND shift_template_id = $%d", len(args))
	}
	if filter.ActiveOnly {
		where += " AND (effective_to IS NULL OR effective_to >= NOW())"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM shift_assignments
		WHERE %s
		ORDER BY effective_from
	`, assignmentColumns, where)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	return collectAssignments(rows)
}

func (r *assignmentRepository) Update(ctx context.Context, a assignment.ShiftAssignment) (assignment.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments SET
			shift_template_id = $3, effective_from = $4, effective_to = $5,
			reason = $6, updated_by = $7, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.ID, a.CompanyID,
		a.ShiftTemplateID, a.EffectiveFrom, a.EffectiveTo,
		a.Reason, a.UpdatedBy,
	).Scan(&a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assignment.ShiftAssignment{}, assignment.ErrAssignmentNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
			return assignment.ShiftAssignment{}, assignment.ErrOverlappingAssignment
		}
		return assignment.ShiftAssignment{}, fmt.Errorf("failed to update assignment: %w", err)
	}

	return a, nil
}

func (r *assignmentRepository) CloseOpenRows(ctx context.Context, companyID string, employeeID string, to time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	// GREATEST keeps a row that starts on or after the close date valid
	// by closing it at its own start.
	query := `
		UPDATE shift_assignments
		SET effective_to = GREATEST(effective_from, $3), updated_at = NOW()
		WHERE company_id = $1 AND employee_id = $2 AND effective_to IS NULL
	`

	commandTag, err := q.Exec(ctx, query, companyID, employeeID, to)
	if err != nil {
		return 0, fmt.Errorf("failed to close open assignments: %w", err)
	}
	return int(commandTag.RowsAffected()), nil
}

func (r *assignmentRepository) ListOpen(ctx context.Context) ([]assignment.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE effective_to IS NULL
		ORDER BY company_id, employee_id, effective_from
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list open assignments: %w", err)
	}
	defer rows.Close()

	return collectAssignments(rows)
}

func (r *assignmentRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM shift_assignments
		WHERE id = $1 AND company_id = $2
	`

	commandTag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return assignment.ErrAssignmentNotFound
	}
	return nil
}

func scanAssignment(row pgx.Row) (assignment.ShiftAssignment, error) {
	var a assignment.ShiftAssignment
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.EmployeeID, &a.ShiftTemplateID,
		&a.EffectiveFrom, &a.EffectiveTo, &a.Reason,
		&a.CreatedBy, &a.UpdatedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func collectAssignments(rows pgx.Rows) ([]assignment.ShiftAssignment, error) {
	var list []assignment.ShiftAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
