package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-engine-go/internal/pkg/database"
)

type shiftTemplateRepository struct {
	db *database.DB
}

func NewShiftTemplateRepository(db *database.DB) shift.ShiftTemplateRepository {
	return &shiftTemplateRepository{db: db}
}

const shiftTemplateColumns = `
	id, company_id, name, code, active, version,
	effective_from, effective_to,
	time_in, late_after, time_out, cross_midnight,
	breaks, scan_window, ot, days_of_week, exclude_holidays,
	created_at, updated_at, deleted_at
`

func (r *shiftTemplateRepository) Create(ctx context.Context, tpl shift.ShiftTemplate) (shift.ShiftTemplate, error) {
	q := GetQuerier(ctx, r.db)

	breaks, window, ot, days, err := marshalTemplateJSON(tpl)
	if err != nil {
		return shift.ShiftTemplate{}, err
	}

	query := `
		INSERT INTO shift_templates (
			id, company_id, name, code, active, version,
			effective_from, effective_to,
			time_in, late_after, time_out, cross_midnight,
			breaks, scan_window, ot, days_of_week, exclude_holidays
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		tpl.ID, tpl.CompanyID, tpl.Name, tpl.Code, tpl.Active, tpl.Version,
		tpl.EffectiveFrom, tpl.EffectiveTo,
		tpl.TimeIn, tpl.LateAfter, tpl.TimeOut, tpl.CrossMidnight,
		breaks, window, ot, days, tpl.ExcludeHolidays,
	).Scan(&tpl.CreatedAt, &tpl.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shift.ShiftTemplate{}, shift.ErrShiftTemplateNameExists
		}
		return shift.ShiftTemplate{}, fmt.Errorf("failed to insert shift template: %w", err)
	}

	return tpl, nil
}

func (r *shiftTemplateRepository) GetByID(ctx context.Context, id string, companyID string) (shift.ShiftTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftTemplateColumns + `
		FROM shift_templates
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	tpl, err := scanShiftTemplate(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftTemplate{}, shift.ErrShiftTemplateNotFound
		}
		return shift.ShiftTemplate{}, fmt.Errorf("failed to get shift template: %w", err)
	}
	return tpl, nil
}

func (r *shiftTemplateRepository) ListByCompany(ctx context.Context, companyID string, filter shift.ShiftTemplateFilter) ([]shift.ShiftTemplate, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "company_id = $1 AND deleted_at IS NULL"
	args := []interface{}{companyID}
	if filter.ActiveOnly {
		where += " AND active = TRUE"
	}
	if filter.Name != nil {
		args = append(args, "%"+*filter.Name+"%")
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM shift_templates WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shift templates: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM shift_templates
		WHERE %s
		ORDER BY created_at, name
		LIMIT $%d OFFSET $%d
	`, shiftTemplateColumns, where, len(args)-1, len(args))

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shift templates: %w", err)
	}
	defer rows.Close()

	var templates []shift.ShiftTemplate
	for rows.Next() {
		tpl, err := scanShiftTemplate(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan shift template: %w", err)
		}
		templates = append(templates, tpl)
	}
	return templates, total, rows.Err()
}

func (r *shiftTemplateRepository) ListActiveByCompany(ctx context.Context, companyID string) ([]shift.ShiftTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftTemplateColumns + `
		FROM shift_templates
		WHERE company_id = $1 AND active = TRUE AND deleted_at IS NULL
		ORDER BY name
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active shift templates: %w", err)
	}
	defer rows.Close()

	var templates []shift.ShiftTemplate
	for rows.Next() {
		tpl, err := scanShiftTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift template: %w", err)
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

func (r *shiftTemplateRepository) ExistsByName(ctx context.Context, companyID string, name string, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM shift_templates
			WHERE company_id = $1 AND LOWER(name) = LOWER($2)
			AND deleted_at IS NULL
			AND ($3 = '' OR id::text <> $3)
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, companyID, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check shift template name: %w", err)
	}
	return exists, nil
}

func (r *shiftTemplateRepository) Update(ctx context.Context, tpl shift.ShiftTemplate) (shift.ShiftTemplate, error) {
	q := GetQuerier(ctx, r.db)

	breaks, window, ot, days, err := marshalTemplateJSON(tpl)
	if err != nil {
		return shift.ShiftTemplate{}, err
	}

	query := `
		UPDATE shift_templates SET
			name = $3, code = $4, active = $5, version = $6,
			effective_from = $7, effective_to = $8,
			time_in = $9, late_after = $10, time_out = $11, cross_midnight = $12,
			breaks = $13, scan_window = $14, ot = $15, days_of_week = $16,
			exclude_holidays = $17, updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		tpl.ID, tpl.CompanyID,
		tpl.Name, tpl.Code, tpl.Active, tpl.Version,
		tpl.EffectiveFrom, tpl.EffectiveTo,
		tpl.TimeIn, tpl.LateAfter, tpl.TimeOut, tpl.CrossMidnight,
		breaks, window, ot, days, tpl.ExcludeHolidays,
	).Scan(&tpl.CreatedAt, &tpl.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftTemplate{}, shift.ErrShiftTemplateNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shift.ShiftTemplate{}, shift.ErrShiftTemplateNameExists
		}
		return shift.ShiftTemplate{}, fmt.Errorf("failed to update shift template: %w", err)
	}

	return tpl, nil
}

func (r *shiftTemplateRepository) SoftDelete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	// Deactivate only; historical attendance keeps resolving the row by ID.
	query := `
		UPDATE shift_templates
		SET active = FALSE, updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	commandTag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to soft delete shift template: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return shift.ErrShiftTemplateNotFound
	}
	return nil
}

func (r *shiftTemplateRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM shift_templates
		WHERE id = $1 AND company_id = $2
	`

	commandTag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete shift template: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return shift.ErrShiftTemplateNotFound
	}
	return nil
}

func marshalTemplateJSON(tpl shift.ShiftTemplate) (breaks, window, ot, days []byte, err error) {
	if breaks, err = json.Marshal(tpl.Breaks); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal breaks: %w", err)
	}
	if window, err = json.Marshal(tpl.Window); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal scan window: %w", err)
	}
	if ot, err = json.Marshal(tpl.OT); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal overtime policy: %w", err)
	}
	if days, err = json.Marshal(tpl.DaysOfWeek); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal days of week: %w", err)
	}
	return breaks, window, ot, days, nil
}

func scanShiftTemplate(row pgx.Row) (shift.ShiftTemplate, error) {
	var tpl shift.ShiftTemplate
	var breaks, window, ot, days []byte

	err := row.Scan(
		&tpl.ID, &tpl.CompanyID, &tpl.Name, &tpl.Code, &tpl.Active, &tpl.Version,
		&tpl.EffectiveFrom, &tpl.EffectiveTo,
		&tpl.TimeIn, &tpl.LateAfter, &tpl.TimeOut, &tpl.CrossMidnight,
		&breaks, &window, &ot, &days, &tpl.ExcludeHolidays,
		&tpl.CreatedAt, &tpl.UpdatedAt, &tpl.DeletedAt,
	)
	if err != nil {
		return shift.ShiftTemplate{}, err
	}

	if err := json.Unmarshal(breaks, &tpl.Breaks); err != nil {
		return shift.ShiftTemplate{}, fmt.Errorf("failed to unmarshal breaks: %w", err)
	}
	if err := json.Unmarshal(window, &tpl.Window); err != nil {
		return shift.ShiftTemplate{}, fmt.Errorf("failed to unmarshal scan window: %w", err)
	}
	if err := json.Unmarshal(ot, &tpl.OT); err != nil {
		return shift.ShiftTemplate{}, fmt.Errorf("failed to unmarshal overtime policy: %w", err)
	}
	if err := json.Unmarshal(days, &tpl.DaysOfWeek); err != nil {
		return shift.ShiftTemplate{}, fmt.Errorf("failed to unmarshal days of week: %w", err)
	}

	return tpl, nil
}
