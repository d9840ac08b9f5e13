// internal/domain/healing/report.go
package healing

import (
	"entitlement_healer/internal/domain/entitlement"
)

// Report accumulates the outcome of one healing cycle: the grants received
// from any remediation call made during the cycle, plus the errors and
// warnings encountered along the way. A Report is created fresh at the start
// of each cycle, owned by that cycle until it returns, and never merged
// across cycles.
//
// A cycle skipped because auto-heal is disabled and a cycle that checked and
// found coverage fully valid both produce an empty report. Callers that need
// to tell "healthy" from "checked, failed" must inspect Errors.
type Report struct {
	Grants   []entitlement.Grant
	Errors   []error
	Warnings []string
	// Summary is the human-readable outcome of the evaluation, empty when
	// the cycle was skipped before evaluating coverage.
	Summary string
}

func NewReport() *Report {
	return &Report{}
}

// AddGrants records grants received from a remediation call.
func (r *Report) AddGrants(grants []entitlement.Grant) {
	r.Grants = append(r.Grants, grants...)
}

// AddError records an error encountered during the cycle.
func (r *Report) AddError(err error) {
	r.Errors = append(r.Errors, err)
}

// AddWarning records a non-fatal anomaly observed during the cycle.
func (r *Report) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Healed reports whether any remediation produced grants this cycle.
func (r *Report) Healed() bool {
	return len(r.Grants) > 0
}

// GrantSerials returns the serials of all grants received this cycle.
func (r *Report) GrantSerials() []string {
	serials := make([]string, 0, len(r.Grants))
	for _, g := range r.Grants {
		serials = append(serials, g.Serial)
	}
	return serials
}

// ErrorStrings flattens the error list for persistence and display.
func (r *Report) ErrorStrings() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, err := range r.Errors {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

// WarningStrings returns a copy of the warning list for persistence and display.
func (r *Report) WarningStrings() []string {
	msgs := make([]string, 0, len(r.Warnings))
	msgs = append(msgs, r.Warnings...)
	return msgs
}
