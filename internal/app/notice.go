package app

import (
	"bytes"
	"fmt"
	"html/template"

	"cpghub_cleanup/internal/domain/mail"
	"cpghub_cleanup/internal/domain/profile"
)

const removalNoticeSubject = "Your job post has been removed."

var removalNoticeTemplate = template.Must(template.New("removal_notice").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; color: #1f2937; line-height: 1.5;">
    <h2 style="color: #111827;">Your job post has been removed</h2>
    <p>Hi {{.Name}},</p>
    <p>Your job post <strong>{{.JobTitle}}</strong> on CPG Hub was automatically removed because it has been listed for more than 30 days.</p>
    <p>If the role is still open, you can post it again at any time from your dashboard.</p>
    <p>Thanks for using CPG Hub!</p>
    <p style="font-size: 12px; color: #6b7280;">The CPG Hub Team</p>
  </body>
</html>
`))

// buildRemovalNotice renders the removal email for a poster with an address on file.
func buildRemovalNotice(from string, user *profile.UserProfile, jobTitle string) (mail.Message, error) {
	var buf bytes.Buffer
	err := removalNoticeTemplate.Execute(&buf, struct {
		Name     string
		JobTitle string
	}{
		Name:     user.DisplayName(),
		JobTitle: jobTitle,
	})
	if err != nil {
		return mail.Message{}, fmt.Errorf("render removal notice: %w", err)
	}
	return mail.Message{
		From:    from,
		To:      []string{*user.Email},
		Subject: removalNoticeSubject,
		HTML:    buf.String(),
	}, nil
}
