// internal/app/healing_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"entitlement_healer/internal/domain/entitlement"
	"entitlement_healer/internal/domain/healing"
	"entitlement_healer/internal/domain/hook"

	"github.com/sirupsen/logrus"
)

// HealingService is the core of entitlement coverage healing.
//
// It asks the validity oracle whether coverage is valid today, and whether it
// will still be valid 24 hours from now. If either horizon shows a gap, it
// asks the entitlement service to auto-attach grants to close it, so that
// coverage never silently lapses between scheduled runs.
//
// At most one bind is issued per cycle: an invalid-today finding
// short-circuits the tomorrow check entirely, since fixing today may itself
// fix tomorrow and the next scheduled cycle re-evaluates anyway.
//
// Hooks fired around a remediation request:
//
//	pre_auto_attach
//	post_auto_attach
type HealingService struct {
	client      entitlement.Client
	oracle      healing.ValidityOracle
	hooks       hook.Dispatcher
	refresher   healing.CertificateRefresher
	accountUUID string
	now         func() time.Time
	logger      *logrus.Logger
}

func NewHealingService(
	client entitlement.Client,
	oracle healing.ValidityOracle,
	hooks hook.Dispatcher,
	refresher healing.CertificateRefresher,
	accountUUID string,
	logger *logrus.Logger,
) *HealingService {
	return &HealingService{
		client:      client,
		oracle:      oracle,
		hooks:       hooks,
		refresher:   refresher,
		accountUUID: accountUUID,
		now:         time.Now,
		logger:      logger,
	}
}

// Perform runs one healing decision cycle and returns its report. It never
// returns an error: any failure is recorded into the report's error list and
// the partially-built report is returned, so one failed cycle cannot crash
// the scheduler. The next scheduled cycle is the retry.
func (s *HealingService) Perform(ctx context.Context) *healing.Report {
	report := healing.NewReport()

	account, err := s.client.GetAccount(ctx, s.accountUUID)
	if err != nil {
		s.logger.WithError(err).Error("Error attempting to auto-heal: account lookup failed")
		report.AddError(err)
		return report
	}

	if !account.AutoHeal {
		s.logger.Warn("Auto-heal disabled on server, skipping.")
		return report
	}

	today := s.now().UTC()
	tomorrow := today.Add(24 * time.Hour)
	validToday := false
	validTomorrow := false

	// Check if we're invalid today and heal if so. If we are valid, see if
	// 24h from now is past our compliant-until instant, and heal for
	// tomorrow if so.
	if err := s.oracle.Refresh(ctx); err != nil {
		s.logger.WithError(err).Error("Error attempting to auto-heal: validity check failed")
		report.AddError(err)
		return report
	}

	if !s.oracle.IsValidAt(today) {
		s.logger.Warnf("Found invalid entitlements for today: %s", today.Format(time.RFC3339))
		if err := s.remediate(ctx, report, today); err != nil {
			s.logger.WithError(err).Error("Error attempting to auto-heal")
			report.AddError(err)
			return report
		}
		report.Summary = "healed for today"
	} else {
		validToday = true

		compliantUntil := s.oracle.CompliantUntil()
		switch {
		case compliantUntil == nil:
			// Shouldn't happen when we're valid today, but older servers
			// have been seen omitting the date.
			s.logger.Warn("Got valid status from server but no valid until date.")
			report.AddWarning("valid today but no compliant-until date reported")
			report.Summary = "valid today only"
		case tomorrow.After(*compliantUntil):
			s.logger.Warnf("Entitlements will be invalid by tomorrow: %s", tomorrow.Format(time.RFC3339))
			if err := s.remediate(ctx, report, tomorrow); err != nil {
				s.logger.WithError(err).Error("Error attempting to auto-heal")
				report.AddError(err)
				return report
			}
			report.Summary = "healed for tomorrow"
		default:
			validTomorrow = true
			report.Summary = "valid today and tomorrow"
		}
	}

	msg := "Entitlement auto healing was checked and entitlements"
	if validToday {
		msg += fmt.Sprintf(" are valid today %s", today.Format(time.RFC3339))
		if validTomorrow {
			msg += fmt.Sprintf(" and tomorrow %s", tomorrow.Format(time.RFC3339))
		}
	}
	s.logger.Debug(msg)
	s.logger.Debug("Auto-heal check complete.")

	return report
}

// remediate runs the pre-hook / bind / post-hook / refresh sequence for one
// gap. The bind's grants are recorded into the report as soon as they are
// received; a later hook failure aborts the remaining steps but the grants
// were attached server-side and stay in the report.
func (s *HealingService) remediate(ctx context.Context, report *healing.Report, entitleDate time.Time) error {
	if err := s.hooks.Run(ctx, hook.PreAutoAttach, hook.Context{AccountUUID: s.accountUUID}); err != nil {
		return &hook.Error{Hook: hook.PreAutoAttach, Err: err}
	}

	grants, err := s.client.Bind(ctx, s.accountUUID, entitleDate)
	if err != nil {
		return err
	}
	report.AddGrants(grants)

	if err := s.hooks.Run(ctx, hook.PostAutoAttach, hook.Context{AccountUUID: s.accountUUID, Grants: grants}); err != nil {
		return &hook.Error{Hook: hook.PostAutoAttach, Err: err}
	}

	// The refresher owns its own failure handling; the bind already landed
	// server-side, so a refresh failure does not fail the cycle.
	if err := s.refresher.RefreshCertificates(ctx); err != nil {
		s.logger.WithError(err).Warn("Certificate refresh after bind failed; will reconcile on next run.")
	}

	return nil
}
