package interfaces

import "context"

// MailerService sends plain-text mail through the relay provider's HTTP API.
// When no credentials are configured the service is disabled and Send is a
// logged no-op.
type MailerService interface {
	Enabled() bool
	Send(ctx context.Context, to, subject, textBody string) error
}
