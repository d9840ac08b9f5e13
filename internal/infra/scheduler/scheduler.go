package scheduler

import (
	"context"
	"time"

	"entitlement_healer/internal/app"
	"entitlement_healer/internal/domain/healing"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// HealScheduler drives the nightly healing job: one healing cycle, the
// standalone certificate refresh that must follow it, and persistence of the
// cycle's report.
type HealScheduler struct {
	cronEngine   *cron.Cron
	invoker      *app.HealingInvoker
	reportRepo   healing.Repository
	logger       *logrus.Logger
	cronSpecHeal string
}

func NewHealScheduler(
	invoker *app.HealingInvoker,
	reportRepo healing.Repository,
	logger *logrus.Logger,
	cronSpecHeal string, // e.g. "0 3 * * *" (3:00 AM nightly)
) *HealScheduler {
	return &HealScheduler{
		cronEngine:   cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		invoker:      invoker,
		reportRepo:   reportRepo,
		logger:       logger,
		cronSpecHeal: cronSpecHeal,
	}
}

func (s *HealScheduler) Start() error {
	s.logger.Info("Starting healing scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecHeal, func() {
		s.logger.Info("Cron job triggered for nightly healing cycle.")
		s.runHealingJob()
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.Info("Healing scheduler started.")
	return nil
}

// runHealingJob executes one complete scheduled pass. The certificate
// refresh runs strictly after the cycle returns; the invoker's lock keeps
// the two from ever interleaving.
func (s *HealScheduler) runHealingJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	ranAt := time.Now()
	report := s.invoker.RunCycle(ctx)

	if err := s.invoker.RefreshNow(ctx); err != nil {
		s.logger.WithError(err).Error("Post-cycle certificate refresh failed.")
		report.AddWarning("post-cycle certificate refresh failed: " + err.Error())
	}

	if len(report.Errors) > 0 {
		s.logger.WithField("errors", len(report.Errors)).Error("Healing cycle finished with errors.")
	} else {
		s.logger.WithField("grants", len(report.Grants)).Info("Healing cycle finished.")
	}

	record := healing.NewRecordFromReport(ranAt, report)
	if err := s.reportRepo.CreateReport(ctx, record); err != nil {
		s.logger.WithError(err).Error("Failed to persist healing report.")
		return
	}
	s.logger.WithField("report_id", record.ID).Debug("Healing report persisted.")
}

func (s *HealScheduler) Stop() {
	s.logger.Info("Stopping healing scheduler...")
	ctx := s.cronEngine.Stop() // Stops new jobs, waits for running ones.
	<-ctx.Done()
	s.logger.Info("Healing scheduler gracefully stopped.")
}
