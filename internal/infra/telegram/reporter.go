package telegram

import (
	"fmt"
	"strings"

	"cpghub_cleanup/internal/app"
	domainTelegram "cpghub_cleanup/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// maxListedErrors keeps summaries well under Telegram's message size limit.
const maxListedErrors = 10

// RunReporter sends run summaries to the operator chat.
type RunReporter struct {
	client  domainTelegram.Client
	adminID int64
	logger  *logrus.Entry
}

func NewRunReporter(client domainTelegram.Client, adminID int64, logger *logrus.Entry) *RunReporter {
	return &RunReporter{client: client, adminID: adminID, logger: logger}
}

// ReportRun never fails the run: delivery errors are only logged.
func (r *RunReporter) ReportRun(source string, result *app.Result, runErr error) {
	if err := r.client.SendText(r.adminID, FormatSummary(source, result, runErr)); err != nil {
		r.logger.WithError(err).WithField("admin_id", r.adminID).Error("Failed to send cleanup summary to admin")
	}
}

// FormatSummary renders a run outcome as plain text.
func FormatSummary(source string, result *app.Result, runErr error) string {
	var b strings.Builder
	if runErr != nil {
		fmt.Fprintf(&b, "Expired job cleanup (%s) FAILED\n%s", source, runErr.Error())
		return b.String()
	}

	fmt.Fprintf(&b, "Expired job cleanup (%s) finished\n", source)
	if result.RunID != "" {
		fmt.Fprintf(&b, "Run: %s\n", result.RunID)
	}
	fmt.Fprintf(&b, "Processed: %d\nEmails sent: %d\nDeleted: %d\nErrors: %d",
		result.Processed, result.EmailsSent, result.Deleted, len(result.Errors))

	for i, e := range result.Errors {
		if i == maxListedErrors {
			fmt.Fprintf(&b, "\n... and %d more", len(result.Errors)-maxListedErrors)
			break
		}
		b.WriteString("\n- ")
		b.WriteString(e)
	}
	return b.String()
}
