// internal/app/healing_invoker.go
package app

import (
	"context"
	"sync"

	"entitlement_healer/internal/domain/healing"

	"github.com/sirupsen/logrus"
)

// HealingInvoker is the scheduler-facing entry point for healing.
//
// A single mutex serializes whole cycles end-to-end and also guards
// standalone certificate refresh runs, so local credential state is never
// reconciled while a cycle is mutating server-side entitlement state.
//
// NOTE: a cycle may update entitlement state on the server, but local
// certificates are only reconciled by the refresher. The scheduler must call
// RefreshNow after RunCycle returns, never concurrently with it. Otherwise
// the refresher can read half-updated entitlement state.
type HealingInvoker struct {
	mu        sync.Mutex
	service   *HealingService
	refresher healing.CertificateRefresher
	logger    *logrus.Logger
}

func NewHealingInvoker(service *HealingService, refresher healing.CertificateRefresher, logger *logrus.Logger) *HealingInvoker {
	return &HealingInvoker{
		service:   service,
		refresher: refresher,
		logger:    logger,
	}
}

// RunCycle runs exactly one healing cycle and returns its report. Cycles are
// serialized: a concurrent call blocks until the running cycle completes.
func (i *HealingInvoker) RunCycle(ctx context.Context) *healing.Report {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.logger.Debug("Starting healing cycle.")
	return i.service.Perform(ctx)
}

// RefreshNow runs a standalone certificate refresh behind the same lock that
// serializes healing cycles. Call it only after RunCycle has returned.
func (i *HealingInvoker) RefreshNow(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.logger.Debug("Starting standalone certificate refresh.")
	return i.refresher.RefreshCertificates(ctx)
}
