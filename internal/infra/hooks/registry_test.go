package hooks

import (
	"context"
	"errors"
	"testing"

	"entitlement_healer/internal/domain/hook"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry() *Registry {
	log, _ := test.NewNullLogger()
	return NewRegistry(log)
}

func TestRun_ExecutesInRegistrationOrder(t *testing.T) {
	r := newRegistry()
	var order []string
	r.Register(hook.PreAutoAttach, func(ctx context.Context, hc hook.Context) error {
		order = append(order, "first")
		return nil
	})
	r.Register(hook.PreAutoAttach, func(ctx context.Context, hc hook.Context) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, r.Run(context.Background(), hook.PreAutoAttach, hook.Context{}))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestRun_FirstErrorAborts(t *testing.T) {
	r := newRegistry()
	boom := errors.New("boom")
	called := false
	r.Register(hook.PostAutoAttach, func(ctx context.Context, hc hook.Context) error {
		return boom
	})
	r.Register(hook.PostAutoAttach, func(ctx context.Context, hc hook.Context) error {
		called = true
		return nil
	})

	err := r.Run(context.Background(), hook.PostAutoAttach, hook.Context{})
	assert.ErrorIs(t, err, boom)
	assert.False(t, called, "functions after the failing one must not run")
}

func TestRun_UnknownHookIsNoOp(t *testing.T) {
	r := newRegistry()
	assert.NoError(t, r.Run(context.Background(), hook.PreAutoAttach, hook.Context{}))
}

func TestRun_PassesContextPayload(t *testing.T) {
	r := newRegistry()
	var got hook.Context
	r.Register(hook.PostAutoAttach, func(ctx context.Context, hc hook.Context) error {
		got = hc
		return nil
	})

	hc := hook.Context{AccountUUID: "acct-1"}
	require.NoError(t, r.Run(context.Background(), hook.PostAutoAttach, hc))
	assert.Equal(t, "acct-1", got.AccountUUID)
}
