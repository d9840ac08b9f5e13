// internal/infra/hooks/registry.go
package hooks

import (
	"context"

	"entitlement_healer/internal/domain/hook"

	"github.com/sirupsen/logrus"
)

// Func is a single hook function attached to an extension point.
type Func func(ctx context.Context, hc hook.Context) error

// Registry is an in-process hook.Dispatcher: hook functions are registered
// per extension point at startup and run in registration order. The first
// failure aborts the remaining functions for that dispatch.
type Registry struct {
	funcs  map[hook.Name][]Func
	logger *logrus.Logger
}

func NewRegistry(logger *logrus.Logger) *Registry {
	return &Registry{
		funcs:  make(map[hook.Name][]Func),
		logger: logger,
	}
}

// Register attaches fn to the named extension point. Not safe for concurrent
// use with Run; register everything during startup.
func (r *Registry) Register(name hook.Name, fn Func) {
	r.funcs[name] = append(r.funcs[name], fn)
}

func (r *Registry) Run(ctx context.Context, name hook.Name, hc hook.Context) error {
	fns := r.funcs[name]
	r.logger.WithFields(logrus.Fields{
		"hook":  string(name),
		"funcs": len(fns),
	}).Debug("Dispatching hook.")

	for _, fn := range fns {
		if err := fn(ctx, hc); err != nil {
			return err
		}
	}
	return nil
}
