// internal/domain/healing/repository.go
package healing

import "context"

// Repository defines persistence operations for cycle report records.
type Repository interface {
	CreateReport(ctx context.Context, record *ReportRecord) error
	// LatestReport returns the most recently run report record.
	LatestReport(ctx context.Context) (*ReportRecord, error)
	// ListRecentReports returns up to limit records, newest first.
	ListRecentReports(ctx context.Context, limit int) ([]*ReportRecord, error)
}
