package healing

import (
	"context"
	"time"
)

// ValidityOracle answers whether the account's current coverage is valid and
// when it stops being valid. Refresh fetches the underlying state once;
// IsValidAt and CompliantUntil then read the cached state, so one cycle
// performs a single fetch no matter how often it asks.
type ValidityOracle interface {
	Refresh(ctx context.Context) error
	IsValidAt(t time.Time) bool
	// CompliantUntil returns the instant current coverage expires, or nil
	// when no expiry is known.
	CompliantUntil() *time.Time
}

// CertificateRefresher reconciles local credential material with the
// server-side entitlement state. It must only run while no healing cycle is
// in flight: either triggered from inside a cycle after a bind, or as a
// standalone run serialized behind the same lock (see app.HealingInvoker).
type CertificateRefresher interface {
	RefreshCertificates(ctx context.Context) error
}
