package certs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"entitlement_healer/internal/domain/entitlement"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGrantClient struct {
	grants []entitlement.Grant
	err    error
}

func (f *fakeGrantClient) ListGrants(ctx context.Context, uuid string) ([]entitlement.Grant, error) {
	return f.grants, f.err
}

func (f *fakeGrantClient) GetAccount(ctx context.Context, uuid string) (*entitlement.Account, error) {
	return nil, errors.New("not used")
}

func (f *fakeGrantClient) Bind(ctx context.Context, uuid string, entitleDate time.Time) ([]entitlement.Grant, error) {
	return nil, errors.New("not used")
}

func (f *fakeGrantClient) GetCompliance(ctx context.Context, uuid string) (*entitlement.ComplianceStatus, error) {
	return nil, errors.New("not used")
}

func newRefresher(t *testing.T, client *fakeGrantClient) (*DirRefresher, string) {
	t.Helper()
	dir := t.TempDir()
	log, _ := test.NewNullLogger()
	return NewDirRefresher(client, "acct-1", dir, log), dir
}

func TestRefreshCertificates_WritesNewAndRemovesStale(t *testing.T) {
	client := &fakeGrantClient{grants: []entitlement.Grant{
		{Serial: "1001", Certificate: "-----BEGIN CERTIFICATE-----\nAAA\n-----END CERTIFICATE-----\n"},
		{Serial: "1002", Certificate: "-----BEGIN CERTIFICATE-----\nBBB\n-----END CERTIFICATE-----\n"},
	}}
	refresher, dir := newRefresher(t, client)

	stale := filepath.Join(dir, "9999.pem")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o600))

	require.NoError(t, refresher.RefreshCertificates(context.Background()))

	assert.NoFileExists(t, stale)
	for _, g := range client.grants {
		path := filepath.Join(dir, g.Serial+".pem")
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, g.Certificate, string(content))
	}
}

func TestRefreshCertificates_Idempotent(t *testing.T) {
	client := &fakeGrantClient{grants: []entitlement.Grant{
		{Serial: "1001", Certificate: "pem-data"},
	}}
	refresher, dir := newRefresher(t, client)

	require.NoError(t, refresher.RefreshCertificates(context.Background()))
	require.NoError(t, refresher.RefreshCertificates(context.Background()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRefreshCertificates_SkipsGrantsWithoutPayload(t *testing.T) {
	client := &fakeGrantClient{grants: []entitlement.Grant{
		{Serial: "1001"}, // server returned no certificate payload
	}}
	refresher, dir := newRefresher(t, client)

	require.NoError(t, refresher.RefreshCertificates(context.Background()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRefreshCertificates_ListFailure(t *testing.T) {
	client := &fakeGrantClient{err: errors.New("server down")}
	refresher, _ := newRefresher(t, client)

	err := refresher.RefreshCertificates(context.Background())
	assert.Error(t, err)
}
