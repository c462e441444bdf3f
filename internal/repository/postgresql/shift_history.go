package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/assignment"
	"github.com/cmlabs-hris/shift-engine-go/internal/pkg/database"
)

type historyRepository struct {
	db *database.DB
}

func NewHistoryRepository(db *database.DB) assignment.HistoryRepository {
	return &historyRepository{db: db}
}

const historyColumns = `
	id, company_id, employee_id, shift_template_id,
	effective_from, effective_to, created_at, updated_at
`

func (r *historyRepository) ListByEmployee(ctx context.Context, companyID string, employeeID string) ([]assignment.HistoryEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + historyColumns + `
		FROM shift_history
		WHERE company_id = $1 AND employee_id = $2
		ORDER BY effective_from
	`

	rows, err := q.Query(ctx, query, companyID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift history: %w", err)
	}
	defer rows.Close()

	var entries []assignment.HistoryEntry
	for rows.Next() {
		e, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *historyRepository) GetOpenEntry(ctx context.Context, companyID string, employeeID string) (assignment.HistoryEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + historyColumns + `
		FROM shift_history
		WHERE company_id = $1 AND employee_id = $2 AND effective_to IS NULL
		ORDER BY effective_from DESC
		LIMIT 1
	`

	e, err := scanHistoryEntry(q.QueryRow(ctx, query, companyID, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assignment.HistoryEntry{}, assignment.ErrEmployeeHistoryMissing
		}
		return assignment.HistoryEntry{}, fmt.Errorf("failed to get open history entry: %w", err)
	}
	return e, nil
}

func (r *historyRepository) CloseOpenEntries(ctx context.Context, companyID string, employeeID string, to time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_history
		SET effective_to = $3, updated_at = NOW()
		WHERE company_id = $1 AND employee_id = $2 AND effective_to IS NULL
	`

	commandTag, err := q.Exec(ctx, query, companyID, employeeID, to)
	if err != nil {
		return 0, fmt.Errorf("failed to close open history entries: %w", err)
	}
	return int(commandTag.RowsAffected()), nil
}

func (r *historyRepository) Append(ctx context.Context, entry assignment.HistoryEntry) (assignment.HistoryEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_history (
			id, company_id, employee_id, shift_template_id, effective_from, effective_to
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		entry.ID, entry.CompanyID, entry.EmployeeID,
		entry.ShiftTemplateID, entry.From, entry.To,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return assignment.HistoryEntry{}, fmt.Errorf("failed to append history entry: %w", err)
	}
	return entry, nil
}

func scanHistoryEntry(row pgx.Row) (assignment.HistoryEntry, error) {
	var e assignment.HistoryEntry
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.EmployeeID, &e.ShiftTemplateID,
		&e.From, &e.To, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}
