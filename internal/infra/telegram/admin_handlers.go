package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"subminder_reminder/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const msgNotAuthorized = "Error: you are not allowed to run this command."

// OperatorService is what the operator commands need from app.AdminService.
type OperatorService interface {
	RunNow(ctx context.Context, performingID int64) (*app.RunReport, error)
	LastRun(performingID int64) (*app.RunReport, error)
}

// RegisterAdminHandlers registers the operator commands.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, admin OperatorService, runTimeout time.Duration, baseLogger *logrus.Entry) {
	b.Handle("/run_reminders", runRemindersHandler(ctx, admin, runTimeout, baseLogger))
	b.Handle("/last_run", lastRunHandler(admin, baseLogger))
}

func runRemindersHandler(ctx context.Context, admin OperatorService, runTimeout time.Duration, baseLogger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/run_reminders",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		runCtx, cancel := context.WithTimeout(ctx, runTimeout)
		defer cancel()

		report, err := admin.RunNow(runCtx, c.Sender().ID)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch {
			case errors.Is(err, app.ErrOperatorNotAuthorized):
				logWithError.Warn("Unauthorized access attempt")
				return c.Send(msgNotAuthorized)
			case errors.Is(err, app.ErrRunInProgress):
				logWithError.Warn("Run already in progress")
				return c.Send("A reminder run is already in progress. Try /last_run once it finishes.")
			default:
				logWithError.Error("Manual reminder run failed")
				return c.Send(fmt.Sprintf("Reminder run failed, no reminders were sent: %s", err.Error()))
			}
		}

		handlerLogger.WithFields(logrus.Fields{
			"run_id": report.RunID,
			"state":  report.State,
		}).Info("Manual reminder run finished")
		return c.Send(fmt.Sprintf("Reminder run %s finished: %s, %d matched.", report.RunID, report.State, report.Matched))
	}
}

func lastRunHandler(admin OperatorService, baseLogger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/last_run",
			"sender_id": c.Sender().ID,
		})

		report, err := admin.LastRun(c.Sender().ID)
		switch {
		case errors.Is(err, app.ErrOperatorNotAuthorized):
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(msgNotAuthorized)
		case errors.Is(err, app.ErrNoRunYet):
			return c.Send("No reminder run has finished since the job started.")
		case err != nil:
			handlerLogger.WithError(err).Error("Failed to read last run")
			return c.Send("Could not read the last run report.")
		}
		return c.Send(report.Summary())
	}
}
