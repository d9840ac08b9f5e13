// internal/infra/validity/oracle.go
package validity

import (
	"context"
	"time"

	"entitlement_healer/internal/domain/entitlement"

	"github.com/sirupsen/logrus"
)

// ComplianceOracle answers validity questions from the server's compliance
// verdict. Refresh fetches the verdict once and caches it; IsValidAt and
// CompliantUntil read the cache, so a healing cycle that calls Refresh at its
// start performs exactly one compliance fetch.
type ComplianceOracle struct {
	client      entitlement.Client
	accountUUID string
	logger      *logrus.Logger

	status *entitlement.ComplianceStatus
}

func NewComplianceOracle(client entitlement.Client, accountUUID string, logger *logrus.Logger) *ComplianceOracle {
	return &ComplianceOracle{
		client:      client,
		accountUUID: accountUUID,
		logger:      logger,
	}
}

// Refresh fetches the current compliance status and replaces the cache.
func (o *ComplianceOracle) Refresh(ctx context.Context) error {
	status, err := o.client.GetCompliance(ctx, o.accountUUID)
	if err != nil {
		return err
	}
	o.status = status
	o.logger.WithFields(logrus.Fields{
		"compliant": status.Compliant,
		"status":    status.Status,
	}).Debug("Compliance status refreshed.")
	return nil
}

// IsValidAt reports whether cached coverage is valid at t. Before the first
// Refresh there is no known coverage, so it reports false.
func (o *ComplianceOracle) IsValidAt(t time.Time) bool {
	if o.status == nil || !o.status.Compliant {
		return false
	}
	if o.status.CompliantUntil != nil && t.After(*o.status.CompliantUntil) {
		return false
	}
	return true
}

// CompliantUntil returns the cached expiry instant, or nil when the server
// did not report one (or Refresh has not run).
func (o *ComplianceOracle) CompliantUntil() *time.Time {
	if o.status == nil || o.status.CompliantUntil == nil {
		return nil
	}
	until := *o.status.CompliantUntil
	return &until
}
