package app

import (
	"context"
	"fmt"
	"time"

	"entitlement_healer/internal/domain/healing"
)

// Custom application-level errors for admin operations
var ErrAdminNotAuthorized = fmt.Errorf("performing user is not authorized as an admin")

// AdminService backs the operator-facing commands: inspecting past healing
// reports and triggering an immediate cycle.
type AdminService struct {
	invoker         *HealingInvoker
	reportRepo      healing.Repository
	adminTelegramID int64
}

func NewAdminService(invoker *HealingInvoker, reportRepo healing.Repository, adminID int64) *AdminService {
	return &AdminService{
		invoker:         invoker,
		reportRepo:      reportRepo,
		adminTelegramID: adminID,
	}
}

// LatestReport returns the most recent persisted cycle record.
func (s *AdminService) LatestReport(ctx context.Context, performingAdminID int64) (*healing.ReportRecord, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}
	return s.reportRepo.LatestReport(ctx)
}

// RecentReports returns up to limit persisted cycle records, newest first.
func (s *AdminService) RecentReports(ctx context.Context, performingAdminID int64, limit int) ([]*healing.ReportRecord, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}
	return s.reportRepo.ListRecentReports(ctx, limit)
}

// TriggerHeal runs one healing cycle immediately, follows it with the
// standalone certificate refresh, persists the resulting record, and returns
// the cycle's report.
func (s *AdminService) TriggerHeal(ctx context.Context, performingAdminID int64) (*healing.Report, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}

	ranAt := time.Now()
	report := s.invoker.RunCycle(ctx)
	if err := s.invoker.RefreshNow(ctx); err != nil {
		report.AddWarning(fmt.Sprintf("post-cycle certificate refresh failed: %v", err))
	}

	if err := s.reportRepo.CreateReport(ctx, healing.NewRecordFromReport(ranAt, report)); err != nil {
		return report, fmt.Errorf("failed to persist healing report: %w", err)
	}
	return report, nil
}
