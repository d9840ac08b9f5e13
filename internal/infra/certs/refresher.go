// internal/infra/certs/refresher.go
package certs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entitlement_healer/internal/domain/entitlement"

	"github.com/sirupsen/logrus"
)

const certFileExt = ".pem"

// DirRefresher reconciles a local certificate directory with the grants
// currently attached to the account: one <serial>.pem file per grant, stale
// files removed. It holds no lock of its own; callers serialize it against
// healing cycles (see app.HealingInvoker).
type DirRefresher struct {
	client      entitlement.Client
	accountUUID string
	dir         string
	logger      *logrus.Logger
}

func NewDirRefresher(client entitlement.Client, accountUUID, dir string, logger *logrus.Logger) *DirRefresher {
	return &DirRefresher{
		client:      client,
		accountUUID: accountUUID,
		dir:         dir,
		logger:      logger,
	}
}

// RefreshCertificates fetches the account's current grants and brings the
// local directory in line with them.
func (r *DirRefresher) RefreshCertificates(ctx context.Context) error {
	grants, err := r.client.ListGrants(ctx, r.accountUUID)
	if err != nil {
		return fmt.Errorf("failed to list grants for certificate refresh: %w", err)
	}

	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create certificate directory: %w", err)
	}

	wanted := make(map[string]entitlement.Grant, len(grants))
	for _, g := range grants {
		if g.Serial == "" {
			continue
		}
		wanted[g.Serial] = g
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("failed to read certificate directory: %w", err)
	}

	// Drop certificates whose grant is gone.
	existing := make(map[string]bool)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, certFileExt) {
			continue
		}
		serial := strings.TrimSuffix(name, certFileExt)
		if _, ok := wanted[serial]; !ok {
			if err := os.Remove(filepath.Join(r.dir, name)); err != nil {
				return fmt.Errorf("failed to remove stale certificate %s: %w", name, err)
			}
			r.logger.Infof("Removed stale certificate for serial %s.", serial)
			continue
		}
		existing[serial] = true
	}

	// Write certificates for grants we don't have yet.
	written := 0
	for serial, grant := range wanted {
		if existing[serial] || grant.Certificate == "" {
			continue
		}
		path := filepath.Join(r.dir, serial+certFileExt)
		if err := os.WriteFile(path, []byte(grant.Certificate), 0o600); err != nil {
			return fmt.Errorf("failed to write certificate for serial %s: %w", serial, err)
		}
		written++
	}

	r.logger.WithFields(logrus.Fields{
		"grants":  len(wanted),
		"written": written,
	}).Debug("Certificate directory reconciled.")
	return nil
}
