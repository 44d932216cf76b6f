package command

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/customeros/mailsherpa/mailvalidate"
	"github.com/opentracing/opentracing-go"

	"github.com/snapstack/snapstack/interfaces"
	"github.com/snapstack/snapstack/internal/logger"
	"github.com/snapstack/snapstack/internal/tracing"
)

// Notification is a composed reply to the original sender.
type Notification struct {
	To      string
	Subject string
	Body    string
}

// Notifier builds and delivers human-readable confirmations for executed
// commands. Delivery failures are logged and swallowed; the webhook response
// never depends on them.
type Notifier struct {
	mailer interfaces.MailerService
	log    logger.Logger
}

func NewNotifier(mailer interfaces.MailerService, log logger.Logger) *Notifier {
	return &Notifier{
		mailer: mailer,
		log:    log,
	}
}

// Compose builds the reply for an execution result. It returns nil when
// there is nobody to reply to, when the sender address does not parse, or
// when the outcome warrants no reply (plain no-ops).
func (n *Notifier) Compose(cmd Command, result *Result, execErr error, sender string) *Notification {
	to := extractAddress(sender)
	if to == "" {
		return nil
	}

	validation := mailvalidate.ValidateEmailSyntax(to)
	if !validation.IsValid {
		n.log.Warnf("sender address %q failed syntax validation, skipping reply", to)
		return nil
	}

	if execErr != nil {
		return &Notification{
			To:      to,
			Subject: fmt.Sprintf("Your %s command failed", cmd.Kind()),
			Body:    fmt.Sprintf("Something went wrong while processing your email: %s\n\nPlease try again later.", execErr.Error()),
		}
	}

	subject, body := templateFor(result)
	if subject == "" {
		return nil
	}

	return &Notification{To: to, Subject: subject, Body: body}
}

// Notify composes and delivers in one step.
func (n *Notifier) Notify(ctx context.Context, cmd Command, result *Result, execErr error, sender string) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Notifier.Notify")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	notification := n.Compose(cmd, result, execErr, sender)
	if notification == nil {
		return
	}

	if !n.mailer.Enabled() {
		n.log.Warn("outbound mail disabled, skipping confirmation email")
		return
	}

	if err := n.mailer.Send(ctx, notification.To, notification.Subject, notification.Body); err != nil {
		tracing.TraceErr(span, err)
		n.log.Errorf("could not send confirmation to %s: %v", notification.To, err)
	}
}

func templateFor(result *Result) (subject, body string) {
	switch result.Outcome {
	case OutcomePostCreated:
		return "Your photo was posted",
			fmt.Sprintf("Your photo is live.\n\n%s", dataLine(result, "imageUrl"))
	case OutcomePostDeleted:
		return "Post deleted",
			fmt.Sprintf("Post %v was deleted.", result.Data["postId"])
	case OutcomePostUpdated:
		return "Post updated",
			fmt.Sprintf("Post %v now has %v = %v.", result.Data["postId"], result.Data["attribute"], result.Data["value"])
	case OutcomePostNotFound:
		return "Post not found", "That post does not exist; nothing was changed."
	case OutcomeCollectionAdded:
		return "Collection created",
			fmt.Sprintf("Collection %v was created with id %v.", result.Data["name"], result.Data["collectionId"])
	case OutcomeCollectionSaved:
		return "Collection updated",
			fmt.Sprintf("Collection %v now has %v = %v.", result.Data["collectionId"], result.Data["attribute"], result.Data["value"])
	case OutcomeCollectionGone:
		return "Collection deleted",
			fmt.Sprintf("Collection %v and its links were removed.", result.Data["collectionId"])
	case OutcomeLinkAdded:
		return "Post added to collection",
			fmt.Sprintf("Post %v is now in collection %v.", result.Data["postId"], result.Data["collectionId"])
	case OutcomeLinkExists:
		return "Already in collection",
			fmt.Sprintf("Post %v was already in collection %v; nothing was changed.", result.Data["postId"], result.Data["collectionId"])
	case OutcomeLinkRemoved:
		return "Post removed from collection",
			fmt.Sprintf("Post %v was removed from collection %v.", result.Data["postId"], result.Data["collectionId"])
	case OutcomeLinkAcknowledged:
		return "Nothing to update",
			"Associations have no editable fields; your command was accepted but nothing changed."
	case OutcomeInvalidAttribute:
		return "Invalid attribute",
			"That attribute cannot be updated by email; no action was taken."
	default:
		// Plain no-ops (including emails with no attachment) get no reply.
		return "", ""
	}
}

func dataLine(result *Result, key string) string {
	if v, ok := result.Data[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// extractAddress pulls the bare address out of a From header value like
// `Jane Doe <jane@example.com>`.
func extractAddress(sender string) string {
	sender = strings.TrimSpace(sender)
	if sender == "" {
		return ""
	}
	if addr, err := mail.ParseAddress(sender); err == nil {
		return addr.Address
	}
	return sender
}
