// internal/infra/telegram/announcer.go
package telegram

import (
	"context"
	"fmt"
	"strings"

	"entitlement_healer/internal/domain/hook"

	"github.com/sirupsen/logrus"
)

// AttachAnnouncer reports auto-attach activity to the admin chat. Its
// methods are registered on the pre/post_auto_attach extension points.
//
// Send failures are logged and swallowed: an unreachable Telegram API must
// never abort a remediation that is already in flight.
type AttachAnnouncer struct {
	client      Client
	adminChatID int64
	logger      *logrus.Logger
}

func NewAttachAnnouncer(client Client, adminChatID int64, logger *logrus.Logger) *AttachAnnouncer {
	return &AttachAnnouncer{
		client:      client,
		adminChatID: adminChatID,
		logger:      logger,
	}
}

// PreAutoAttach announces that a remediation request is about to be sent.
func (a *AttachAnnouncer) PreAutoAttach(ctx context.Context, hc hook.Context) error {
	msg := fmt.Sprintf("Healing: coverage gap detected for account %s, requesting auto-attach...", hc.AccountUUID)
	if err := a.client.SendMessage(a.adminChatID, msg, nil); err != nil {
		a.logger.WithError(err).Warn("Failed to send pre_auto_attach announcement.")
	}
	return nil
}

// PostAutoAttach announces the grants the server attached.
func (a *AttachAnnouncer) PostAutoAttach(ctx context.Context, hc hook.Context) error {
	products := make([]string, 0, len(hc.Grants))
	for _, g := range hc.Grants {
		products = append(products, g.ProductName)
	}
	msg := fmt.Sprintf("Healing: auto-attach for account %s completed, %d grant(s) received.", hc.AccountUUID, len(hc.Grants))
	if len(products) > 0 {
		msg += " Products: " + strings.Join(products, ", ")
	}
	if err := a.client.SendMessage(a.adminChatID, msg, nil); err != nil {
		a.logger.WithError(err).Warn("Failed to send post_auto_attach announcement.")
	}
	return nil
}
