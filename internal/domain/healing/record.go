package healing

import "time"

// ReportRecord is the persisted form of one cycle's Report.
// Corresponds to the 'healing_reports' table.
type ReportRecord struct {
	ID           int64
	RanAt        time.Time
	Summary      string
	GrantSerials []string
	Errors       []string
	Warnings     []string
	CreatedAt    time.Time
}

// NewRecordFromReport flattens a cycle report for persistence.
func NewRecordFromReport(ranAt time.Time, report *Report) *ReportRecord {
	return &ReportRecord{
		RanAt:        ranAt,
		Summary:      report.Summary,
		GrantSerials: report.GrantSerials(),
		Errors:       report.ErrorStrings(),
		Warnings:     report.WarningStrings(),
	}
}
