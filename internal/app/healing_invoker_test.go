package app

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trackingRefresher counts how many callers are inside RefreshCertificates
// at once, so tests can prove the invoker serializes access.
type trackingRefresher struct {
	active  int32
	overlap int32
	calls   int32
}

func (r *trackingRefresher) RefreshCertificates(ctx context.Context) error {
	if atomic.AddInt32(&r.active, 1) > 1 {
		atomic.StoreInt32(&r.overlap, 1)
	}
	time.Sleep(5 * time.Millisecond)
	atomic.AddInt32(&r.active, -1)
	atomic.AddInt32(&r.calls, 1)
	return nil
}

func newInvokerFixture() (*HealingInvoker, *serviceFixture, *trackingRefresher) {
	fx := newServiceFixture()
	tracking := &trackingRefresher{}
	log, _ := test.NewNullLogger()
	return NewHealingInvoker(fx.service, tracking, log), fx, tracking
}

func TestRunCycle_ReturnsDecisionReport(t *testing.T) {
	invoker, fx, _ := newInvokerFixture()
	fx.client.account.AutoHeal = false

	report := invoker.RunCycle(context.Background())

	require.NotNil(t, report)
	assert.Empty(t, report.Grants)
	assert.Empty(t, report.Errors)
}

func TestRunCycleAndRefreshNow_NeverInterleave(t *testing.T) {
	invoker, fx, tracking := newInvokerFixture()
	// Make each cycle spend time inside the refresher so overlap would show.
	fx.oracle.validNow = false
	fx.service.refresher = tracking

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			invoker.RunCycle(context.Background())
		}()
		go func() {
			defer wg.Done()
			_ = invoker.RefreshNow(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(0), atomic.LoadInt32(&tracking.overlap), "cycles and refreshes must be serialized")
	assert.Equal(t, int32(8), atomic.LoadInt32(&tracking.calls))
}

func TestRefreshNow_PropagatesRefresherError(t *testing.T) {
	fx := newServiceFixture()
	fx.refresher.err = assert.AnError
	log, _ := test.NewNullLogger()
	invoker := NewHealingInvoker(fx.service, fx.refresher, log)

	err := invoker.RefreshNow(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
