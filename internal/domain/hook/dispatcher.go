// internal/domain/hook/dispatcher.go
package hook

import (
	"context"
	"fmt"

	"entitlement_healer/internal/domain/entitlement"
)

// Name identifies an extension point.
type Name string

const (
	// PreAutoAttach fires immediately before a remediation bind request.
	PreAutoAttach Name = "pre_auto_attach"
	// PostAutoAttach fires after a successful bind, with the returned grants.
	PostAutoAttach Name = "post_auto_attach"
)

// Context is the payload passed to hook functions. Grants is populated only
// for PostAutoAttach.
type Context struct {
	AccountUUID string
	Grants      []entitlement.Grant
}

// Dispatcher runs all functions registered for a named extension point.
type Dispatcher interface {
	Run(ctx context.Context, name Name, hc Context) error
}

// Error indicates a hook function failed at an extension point.
type Error struct {
	Hook Name
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("hook %s failed: %v", e.Hook, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
