package telegram

import (
	"context"
	"fmt"
	"strings"

	"entitlement_healer/internal/app"
	idb "entitlement_healer/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// historyLimit caps how many past cycles /history renders in one message.
const historyLimit = 10

// RegisterAdminHandlers registers handlers for admin commands.
// It requires the bot instance, admin service, and the configured admin Telegram ID.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, adminService *app.AdminService, adminTelegramID int64, baseLogger *logrus.Entry) {
	b.Handle("/status", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/status",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not authorized to run this command.")
		}

		record, err := adminService.LatestReport(ctx, c.Sender().ID)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch err {
			case app.ErrAdminNotAuthorized:
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send("Error: you are not authorized to run this command.")
			case idb.ErrReportNotFound:
				logWithError.Info("No healing reports recorded yet")
				return c.Send("No healing cycles have run yet.")
			default:
				logWithError.Error("Failed to fetch latest healing report")
				return c.Send(fmt.Sprintf("Error fetching latest report: %s", err.Error()))
			}
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Last healing cycle: %s\n", record.RanAt.Format("2006-01-02 15:04:05 MST"))
		if record.Summary != "" {
			fmt.Fprintf(&sb, "Outcome: %s\n", record.Summary)
		} else {
			sb.WriteString("Outcome: skipped or no evaluation recorded\n")
		}
		fmt.Fprintf(&sb, "Grants attached: %d\n", len(record.GrantSerials))
		if len(record.Errors) > 0 {
			fmt.Fprintf(&sb, "Errors (%d):\n", len(record.Errors))
			for _, msg := range record.Errors {
				fmt.Fprintf(&sb, "  - %s\n", msg)
			}
		} else {
			sb.WriteString("Errors: none\n")
		}
		if len(record.Warnings) > 0 {
			fmt.Fprintf(&sb, "Warnings (%d):\n", len(record.Warnings))
			for _, msg := range record.Warnings {
				fmt.Fprintf(&sb, "  - %s\n", msg)
			}
		}
		return c.Send(sb.String())
	})

	b.Handle("/history", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/history",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not authorized to run this command.")
		}

		records, err := adminService.RecentReports(ctx, c.Sender().ID, historyLimit)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			if err == app.ErrAdminNotAuthorized {
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send("Error: you are not authorized to run this command.")
			}
			logWithError.Error("Failed to list recent healing reports")
			return c.Send(fmt.Sprintf("Error fetching healing history: %s", err.Error()))
		}
		if len(records) == 0 {
			return c.Send("No healing cycles have run yet.")
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Last %d healing cycle(s):\n", len(records))
		for _, record := range records {
			summary := record.Summary
			if summary == "" {
				summary = "skipped"
			}
			fmt.Fprintf(&sb, "%s: %s (grants: %d, errors: %d, warnings: %d)\n",
				record.RanAt.Format("2006-01-02 15:04"), summary,
				len(record.GrantSerials), len(record.Errors), len(record.Warnings))
		}
		return c.Send(sb.String())
	})

	b.Handle("/heal", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/heal",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Error: you are not authorized to run this command.")
		}

		if err := c.Send("Running healing cycle..."); err != nil {
			handlerLogger.WithError(err).Warn("Failed to send acknowledgement")
		}

		report, err := adminService.TriggerHeal(ctx, c.Sender().ID)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			if err == app.ErrAdminNotAuthorized {
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send("Error: you are not authorized to run this command.")
			}
			// The cycle itself may still have run; report what we have.
			logWithError.Error("Healing cycle trigger finished with an error")
		}
		if report == nil {
			return c.Send("Healing cycle could not be started.")
		}

		handlerLogger.WithFields(logrus.Fields{
			"grants": len(report.Grants),
			"errors": len(report.Errors),
		}).Info("Healing cycle finished")

		summary := report.Summary
		if summary == "" {
			summary = "skipped (auto-heal disabled or evaluation aborted)"
		}
		msg := fmt.Sprintf("Healing cycle finished: %s. Grants attached: %d, errors: %d.",
			summary, len(report.Grants), len(report.Errors))
		return c.Send(msg)
	})
}
