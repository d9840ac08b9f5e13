package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"entitlement_healer/internal/app"
	"entitlement_healer/internal/domain/hook"
	"entitlement_healer/internal/infra/certs"
	"entitlement_healer/internal/infra/config"
	idb "entitlement_healer/internal/infra/database"
	entclient "entitlement_healer/internal/infra/entitlement"
	"entitlement_healer/internal/infra/hooks"
	"entitlement_healer/internal/infra/logger"
	"entitlement_healer/internal/infra/scheduler"
	"entitlement_healer/internal/infra/telegram"
	"entitlement_healer/internal/infra/validity"

	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Entitlement healer starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Account: %s", cfg.LogLevel, cfg.Environment, cfg.AccountUUID)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	reportRepo := idb.NewPostgresReportRepository(db)
	log.Info("Healing report repository initialized.")

	// Remote entitlement service client and its consumers
	client := entclient.NewHTTPClient(cfg.EntitlementAPIURL, cfg.EntitlementAPIToken)
	oracle := validity.NewComplianceOracle(client, cfg.AccountUUID, log)
	refresher := certs.NewDirRefresher(client, cfg.AccountUUID, cfg.CertDir, log)
	hookRegistry := hooks.NewRegistry(log)

	// Optional Telegram admin bot
	var bot *telebot.Bot
	if cfg.TelegramToken != "" {
		pref := telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) {
				log.WithError(err).Error("telebot error")
			},
		}
		bot, err = telebot.NewBot(pref)
		if err != nil {
			log.Fatalf("FATAL: Could not create Telegram bot: %v", err)
		}

		announcer := telegram.NewAttachAnnouncer(telegram.NewTelebotAdapter(bot), cfg.AdminTelegramID, log)
		hookRegistry.Register(hook.PreAutoAttach, announcer.PreAutoAttach)
		hookRegistry.Register(hook.PostAutoAttach, announcer.PostAutoAttach)
		log.Info("Telegram auto-attach announcer registered.")
	} else {
		log.Info("TELEGRAM_TOKEN not set; admin bot disabled.")
	}

	// Core healing services
	healingService := app.NewHealingService(client, oracle, hookRegistry, refresher, cfg.AccountUUID, log)
	invoker := app.NewHealingInvoker(healingService, refresher, log)
	log.Info("Healing service initialized.")

	// Scheduler
	healScheduler := scheduler.NewHealScheduler(invoker, reportRepo, log, cfg.CronSpecHeal)
	if err := healScheduler.Start(); err != nil {
		log.Fatalf("FATAL: Could not start healing scheduler: %v", err)
	}

	// Admin command handlers
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()
	if bot != nil {
		adminService := app.NewAdminService(invoker, reportRepo, cfg.AdminTelegramID)
		telegram.RegisterAdminHandlers(rootCtx, bot, adminService, cfg.AdminTelegramID, log.WithField("component", "telegram"))
		log.Info("Admin command handlers registered.")
		go bot.Start()
	}

	log.Info("Application setup complete. Scheduler is running.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	rootCancel()
	if bot != nil {
		bot.Stop()
	}
	healScheduler.Stop()
	log.Info("Application shut down gracefully.")
}
