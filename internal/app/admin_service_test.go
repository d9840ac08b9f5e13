package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"entitlement_healer/internal/domain/entitlement"
	"entitlement_healer/internal/domain/healing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportRepo struct {
	created   []*healing.ReportRecord
	latest    *healing.ReportRecord
	latestErr error
	recent    []*healing.ReportRecord
	lastLimit int
}

func (f *fakeReportRepo) CreateReport(ctx context.Context, record *healing.ReportRecord) error {
	f.created = append(f.created, record)
	return nil
}

func (f *fakeReportRepo) LatestReport(ctx context.Context) (*healing.ReportRecord, error) {
	return f.latest, f.latestErr
}

func (f *fakeReportRepo) ListRecentReports(ctx context.Context, limit int) ([]*healing.ReportRecord, error) {
	f.lastLimit = limit
	return f.recent, nil
}

const adminID int64 = 42

func newAdminFixture() (*AdminService, *serviceFixture, *fakeReportRepo) {
	fx := newServiceFixture()
	log, _ := test.NewNullLogger()
	invoker := NewHealingInvoker(fx.service, fx.refresher, log)
	repo := &fakeReportRepo{}
	return NewAdminService(invoker, repo, adminID), fx, repo
}

func TestLatestReport_RejectsNonAdmin(t *testing.T) {
	svc, _, _ := newAdminFixture()
	_, err := svc.LatestReport(context.Background(), adminID+1)
	assert.ErrorIs(t, err, ErrAdminNotAuthorized)
}

func TestLatestReport_ReturnsRecord(t *testing.T) {
	svc, _, repo := newAdminFixture()
	repo.latest = &healing.ReportRecord{ID: 7, Summary: "valid today and tomorrow"}

	record, err := svc.LatestReport(context.Background(), adminID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), record.ID)
}

func TestTriggerHeal_RejectsNonAdmin(t *testing.T) {
	svc, fx, repo := newAdminFixture()

	_, err := svc.TriggerHeal(context.Background(), adminID+1)
	assert.ErrorIs(t, err, ErrAdminNotAuthorized)
	assert.Empty(t, fx.events, "no cycle may run for an unauthorized caller")
	assert.Empty(t, repo.created)
}

func TestTriggerHeal_RunsCycleAndPersists(t *testing.T) {
	svc, fx, repo := newAdminFixture()
	fx.oracle.validNow = false
	fx.client.bindGrants = []entitlement.Grant{{ID: "ent-1", ProductName: "Premium", Serial: "1001"}}

	report, err := svc.TriggerHeal(context.Background(), adminID)
	require.NoError(t, err)
	assert.Equal(t, "healed for today", report.Summary)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "healed for today", repo.created[0].Summary)
	assert.Equal(t, []string{"1001"}, repo.created[0].GrantSerials)
}

func TestTriggerHeal_PersistsRefreshFailureWarning(t *testing.T) {
	svc, fx, repo := newAdminFixture()
	// Fully covered cycle, so the only refresher call is the standalone one.
	fx.oracle.validNow = true
	until := testNow.Add(48 * time.Hour)
	fx.oracle.compliantUntil = &until
	fx.refresher.err = errors.New("disk full")

	report, err := svc.TriggerHeal(context.Background(), adminID)
	require.NoError(t, err)
	assert.Empty(t, report.Errors)

	require.Len(t, repo.created, 1)
	require.NotEmpty(t, repo.created[0].Warnings, "refresh failure must land in the audit record")
	assert.Contains(t, repo.created[0].Warnings[0], "post-cycle certificate refresh failed")
}

func TestRecentReports_RejectsNonAdmin(t *testing.T) {
	svc, _, _ := newAdminFixture()
	_, err := svc.RecentReports(context.Background(), adminID+1, 10)
	assert.ErrorIs(t, err, ErrAdminNotAuthorized)
}

func TestRecentReports_ReturnsRecordsWithLimit(t *testing.T) {
	svc, _, repo := newAdminFixture()
	repo.recent = []*healing.ReportRecord{
		{ID: 2, Summary: "healed for tomorrow"},
		{ID: 1, Summary: "valid today and tomorrow"},
	}

	records, err := svc.RecentReports(context.Background(), adminID, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(2), records[0].ID)
	assert.Equal(t, 10, repo.lastLimit)
}
