// internal/domain/mail/mailer.go
package mail

import "context"

// Message is a single transactional email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Mailer delivers transactional email. Implementations make one attempt per call.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
