package entitlement

import (
	"context"
	"time"
)

// Client defines the operations the healer needs from the remote
// entitlement service. This decouples the application logic from the
// concrete HTTP transport.
type Client interface {
	// GetAccount fetches the account record, including the auto-heal flag.
	GetAccount(ctx context.Context, accountUUID string) (*Account, error)
	// Bind asks the server to attach new grants effective as of entitleDate
	// and returns the grants it attached.
	Bind(ctx context.Context, accountUUID string, entitleDate time.Time) ([]Grant, error)
	// GetCompliance fetches the server's compliance verdict for the account.
	GetCompliance(ctx context.Context, accountUUID string) (*ComplianceStatus, error)
	// ListGrants returns all grants currently attached to the account.
	ListGrants(ctx context.Context, accountUUID string) ([]Grant, error)
}
