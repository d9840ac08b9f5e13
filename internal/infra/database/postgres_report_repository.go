// internal/infra/database/postgres_report_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"entitlement_healer/internal/domain/healing"

	"github.com/lib/pq" // For pq.Array and driver registration
)

// Custom errors specific to the report repository
var ErrReportNotFound = fmt.Errorf("healing report not found")

type PostgresReportRepository struct {
	db *sql.DB
}

func NewPostgresReportRepository(db *sql.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

func (r *PostgresReportRepository) CreateReport(ctx context.Context, record *healing.ReportRecord) error {
	query := `INSERT INTO healing_reports (ran_at, summary, grant_serials, errors, warnings)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		record.RanAt, record.Summary, pq.Array(record.GrantSerials), pq.Array(record.Errors), pq.Array(record.Warnings),
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating healing report: %w", err)
	}
	return nil
}

func (r *PostgresReportRepository) LatestReport(ctx context.Context) (*healing.ReportRecord, error) {
	query := `SELECT id, ran_at, summary, grant_serials, errors, warnings, created_at
               FROM healing_reports ORDER BY ran_at DESC LIMIT 1`
	record := &healing.ReportRecord{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&record.ID, &record.RanAt, &record.Summary,
		pq.Array(&record.GrantSerials), pq.Array(&record.Errors), pq.Array(&record.Warnings), &record.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("error getting latest healing report: %w", err)
	}
	return record, nil
}

func (r *PostgresReportRepository) ListRecentReports(ctx context.Context, limit int) ([]*healing.ReportRecord, error) {
	query := `SELECT id, ran_at, summary, grant_serials, errors, warnings, created_at
               FROM healing_reports ORDER BY ran_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing healing reports: %w", err)
	}
	defer rows.Close()

	records := make([]*healing.ReportRecord, 0)
	for rows.Next() {
		record := &healing.ReportRecord{}
		if err := rows.Scan(
			&record.ID, &record.RanAt, &record.Summary,
			pq.Array(&record.GrantSerials), pq.Array(&record.Errors), pq.Array(&record.Warnings), &record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning healing report: %w", err)
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating healing reports: %w", err)
	}
	return records, nil
}
