// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func RegisterBotCommands(b *telebot.Bot, operatorID int64, baseLogger *logrus.Entry) {
	b.Handle("/start", startHandler(operatorID, baseLogger))
	b.Handle("/help", helpHandler(operatorID, baseLogger))
}

func startHandler(operatorID int64, baseLogger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		logCtx := baseLogger.WithField("command", "/start").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Processing /start command")

		if c.Sender().ID == operatorID {
			return c.Send("Hi " + c.Sender().FirstName + "! You will get a summary here after every reminder run. Use /help for commands.")
		}
		logCtx.Info("User is unknown")
		return c.Send("This bot only reports to the SubMinder operator.")
	}
}

func helpHandler(operatorID int64, baseLogger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		baseLogger.WithField("command", "/help").WithField("sender_id", c.Sender().ID).Info("Processing /help command")

		if c.Sender().ID != operatorID {
			return c.Send("No commands are available to you.")
		}
		var helpText strings.Builder
		helpText.WriteString("Operator commands:\n\n")
		helpText.WriteString("`/run_reminders`\n - Run the reminder scan now for today's date.\n\n")
		helpText.WriteString("`/last_run`\n - Show the report of the most recent run.\n\n")
		helpText.WriteString("`/help`\n - Show this message.")
		return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	}
}
