package telegram

import (
	"context"
	"strings"

	"cpghub_cleanup/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const unauthorizedReply = "Error: you are not allowed to run this command."

// RegisterAdminHandlers registers the operator commands.
// Only adminTelegramID may trigger a cleanup run.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, runner app.CleanupRunner, adminTelegramID int64, baseLogger *logrus.Entry) {
	b.Handle("/run_cleanup", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/run_cleanup",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedReply)
		}

		if err := c.Send("Running expired job cleanup..."); err != nil {
			handlerLogger.WithError(err).Warn("Failed to acknowledge command")
		}

		result, err := runner.Run(context.WithoutCancel(ctx))
		if err != nil {
			handlerLogger.WithError(err).Error("On-demand cleanup failed")
		} else {
			handlerLogger.WithFields(logrus.Fields{
				"run_id":    result.RunID,
				"processed": result.Processed,
				"deleted":   result.Deleted,
			}).Info("On-demand cleanup completed")
		}
		return c.Send(FormatSummary("manual", result, err))
	})

	b.Handle("/help", func(c telebot.Context) error {
		if c.Sender().ID != adminTelegramID {
			return c.Send("No commands are available for you.")
		}
		var helpText strings.Builder
		helpText.WriteString("Available commands:\n\n")
		helpText.WriteString("/run_cleanup - remove job posts older than 30 days and email their posters now.\n")
		helpText.WriteString("/help - show this message.")
		return c.Send(helpText.String())
	})
}
