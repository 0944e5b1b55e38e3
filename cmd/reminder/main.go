package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subminder_reminder/internal/app"
	"subminder_reminder/internal/infra/config"
	idb "subminder_reminder/internal/infra/database"
	"subminder_reminder/internal/infra/fcm"
	"subminder_reminder/internal/infra/firebase"
	"subminder_reminder/internal/infra/logger"
	"subminder_reminder/internal/infra/scheduler"
	"subminder_reminder/internal/infra/telegram"

	firebasesdk "firebase.google.com/go/v4"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("SubMinder reminder job starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.Environment)
	mainLogger := logger.Component("main")
	mainLogger.WithFields(logrus.Fields{
		"store_driver": cfg.StoreDriver,
		"time_zone":    cfg.HomeTimeZone.String(),
		"cron_spec":    cfg.CronSpecDailyReminder,
		"environment":  cfg.Environment,
	}).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fbApp, err := firebase.NewApp(ctx, firebase.Credentials{
		ProjectID:  cfg.FirebaseProjectID,
		File:       cfg.GoogleApplicationCredentials,
		JSONBase64: cfg.FirebaseServiceAccountJSONBase64,
	})
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not initialize Firebase app")
	}

	deps, closeStore, err := buildStore(ctx, cfg, fbApp)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not initialize record store")
	}
	defer closeStore()
	mainLogger.Info("Record store initialized.")

	messagingClient, err := fbApp.Messaging(ctx)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not initialize Firebase messaging client")
	}
	deps.Push = fcm.NewGateway(messagingClient, logger.Component("fcm"))
	mainLogger.Info("Push gateway initialized.")

	var (
		bot       *telebot.Bot
		observers []app.RunObserver
	)
	if cfg.TelegramToken != "" {
		bot, err = newBot(cfg.TelegramToken, logger.Component("telebot"))
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not create Telegram bot")
		}
		observers = append(observers, telegram.NewReportNotifier(
			telegram.NewTelebotAdapter(bot), cfg.OperatorTelegramID, logger.Component("report_notifier")))
	}

	reminderService := app.NewReminderService(deps, app.ReminderOptions{
		HomeZone:    cfg.HomeTimeZone,
		Concurrency: cfg.FanoutConcurrency,
		Icon:        cfg.PushIcon,
		Composer:    app.MessageComposer{Mode: app.CurrencySymbolMode(cfg.CurrencySymbolMode)},
		Observers:   observers,
	}, logger.Component("reminder_service"))

	reminderScheduler := scheduler.NewReminderScheduler(
		reminderService,
		logger.Component("scheduler"),
		cfg.HomeTimeZone,
		cfg.CronSpecDailyReminder,
		cfg.RunTimeout,
	)
	if err := reminderScheduler.Start(ctx); err != nil {
		mainLogger.WithError(err).Fatal("Could not start scheduler")
	}
	if cfg.RunOnStart {
		mainLogger.Info("RUN_ON_START is set, running reminders now.")
		go reminderScheduler.RunOnce(ctx)
	}

	if bot != nil {
		adminService := app.NewAdminService(reminderService, cfg.OperatorTelegramID)
		handlerLogger := logger.Component("telegram_handlers")
		telegram.RegisterAdminHandlers(ctx, bot, adminService, cfg.RunTimeout, handlerLogger)
		telegram.RegisterBotCommands(bot, cfg.OperatorTelegramID, handlerLogger)
		go bot.Start()
		mainLogger.Info("Operator bot started.")
	}

	mainLogger.Info("Application setup complete. Waiting for scheduled runs...")
	<-ctx.Done()

	mainLogger.Info("Shutting down application...")
	reminderScheduler.Stop()
	if bot != nil {
		bot.Stop()
	}
	mainLogger.Info("Application shut down gracefully.")
}

// buildStore wires the record store selected by STORE_DRIVER. The returned
// func releases its connections.
func buildStore(ctx context.Context, cfg *config.AppConfig, fbApp *firebasesdk.App) (app.ReminderDeps, func(), error) {
	var deps app.ReminderDeps

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL, idb.DefaultPoolConfig(), logger.Component("database"))
		if err != nil {
			return deps, nil, err
		}
		if err := idb.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return deps, nil, err
		}
		deps.Subscriptions = idb.NewPostgresSubscriptionRepository(db)
		deps.Devices = idb.NewPostgresDeviceRepository(db)
		deps.Notifications = idb.NewPostgresNotificationRepository(db)
		if cfg.DedupeReminders {
			deps.Ledger = idb.NewPostgresLedger(db)
		}
		return deps, func() { db.Close() }, nil

	default:
		client, err := fbApp.Firestore(ctx)
		if err != nil {
			return deps, nil, fmt.Errorf("firestore client: %w", err)
		}
		deps.Subscriptions = firebase.NewFirestoreSubscriptionRepository(client, logger.Component("firestore"))
		deps.Devices = firebase.NewFirestoreTokenRepository(client)
		deps.Notifications = firebase.NewFirestoreNotificationRepository(client)
		if cfg.DedupeReminders {
			deps.Ledger = firebase.NewFirestoreLedger(client)
		}
		return deps, func() { client.Close() }, nil
	}
}

func newBot(token string, log *logrus.Entry) (*telebot.Bot, error) {
	return telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			entry := log.WithError(err)
			if c != nil && c.Sender() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID)
			}
			entry.Error("Telegram handler error")
		},
	})
}
