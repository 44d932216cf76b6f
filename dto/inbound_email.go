package dto

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/jhillyerd/enmime"
	"github.com/pkg/errors"

	"github.com/snapstack/snapstack/internal/utils"
)

// InboundEmail is the normalized form of a Mailgun inbound webhook
// delivery. Mailgun posts forwarded messages as multipart form data and
// stored messages with an event-data JSON envelope; both end up here.
type InboundEmail struct {
	Sender          string
	From            string
	Recipient       string
	Subject         string
	MessageID       string
	BodyPlain       string
	StrippedText    string
	Timestamp       string
	Token           string
	Signature       string
	EventData       string
	AttachmentCount int
	Attachments     []InboundAttachment
}

// IsDeliveryEvent reports whether this payload is a relay status
// notification rather than a forwarded message.
func (e *InboundEmail) IsDeliveryEvent() bool {
	return e.EventData != ""
}

type InboundAttachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// CommandLine is the subject line the command parser consumes.
func (e *InboundEmail) CommandLine() string {
	return strings.TrimSpace(e.Subject)
}

// ParseInboundForm builds an InboundEmail from a Mailgun multipart POST.
// Mailgun is inconsistent about header-field casing between routes, so
// every lookup tries both variants.
func ParseInboundForm(form *multipart.Form) (*InboundEmail, error) {
	if form == nil {
		return nil, errors.New("empty form payload")
	}

	email := &InboundEmail{
		Sender:       formValue(form, "sender", "Sender"),
		From:         formValue(form, "from", "From"),
		Recipient:    formValue(form, "recipient", "To"),
		Subject:      formValue(form, "subject", "Subject"),
		MessageID:    utils.NormalizeMessageID(formValue(form, "Message-Id", "message-id")),
		BodyPlain:    formValue(form, "body-plain"),
		StrippedText: formValue(form, "stripped-text"),
		Timestamp:    formValue(form, "timestamp"),
		Token:        formValue(form, "token"),
		Signature:    formValue(form, "signature"),
		EventData:    formValue(form, "event-data"),
	}
	if email.Sender == "" {
		email.Sender = email.From
	}

	if count := formValue(form, "attachment-count"); count != "" {
		n, err := strconv.Atoi(count)
		if err == nil {
			email.AttachmentCount = n
		}
	}

	attachments, err := readAttachments(form, email.AttachmentCount)
	if err != nil {
		return nil, err
	}
	email.Attachments = attachments
	email.AttachmentCount = len(attachments)

	// Routes configured with store() deliver the raw MIME instead of
	// individual attachment parts.
	if len(email.Attachments) == 0 {
		if raw := formValue(form, "body-mime"); raw != "" {
			mimeAttachments, err := attachmentsFromMIME(raw)
			if err != nil {
				return nil, err
			}
			email.Attachments = mimeAttachments
			email.AttachmentCount = len(mimeAttachments)
		}
	}

	return email, nil
}

func formValue(form *multipart.Form, keys ...string) string {
	for _, key := range keys {
		if values, ok := form.Value[key]; ok && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

func readAttachments(form *multipart.Form, count int) ([]InboundAttachment, error) {
	var attachments []InboundAttachment

	appendFile := func(header *multipart.FileHeader) error {
		file, err := header.Open()
		if err != nil {
			return errors.Wrapf(err, "failed to open attachment %s", header.Filename)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return errors.Wrapf(err, "failed to read attachment %s", header.Filename)
		}
		attachments = append(attachments, InboundAttachment{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
		return nil
	}

	// Mailgun names file parts attachment-1 .. attachment-N.
	for i := 1; i <= count; i++ {
		headers, ok := form.File[fmt.Sprintf("attachment-%d", i)]
		if !ok || len(headers) == 0 {
			continue
		}
		if err := appendFile(headers[0]); err != nil {
			return nil, err
		}
	}

	// Some test clients post a bare "attachment" part instead.
	if len(attachments) == 0 {
		for _, headers := range form.File {
			for _, header := range headers {
				if err := appendFile(header); err != nil {
					return nil, err
				}
			}
		}
	}

	return attachments, nil
}

func attachmentsFromMIME(raw string) ([]InboundAttachment, error) {
	envelope, err := enmime.ReadEnvelope(strings.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse mime body")
	}

	var attachments []InboundAttachment
	for _, part := range envelope.Attachments {
		attachments = append(attachments, InboundAttachment{
			Name:        part.FileName,
			ContentType: part.ContentType,
			Data:        part.Content,
		})
	}
	for _, part := range envelope.Inlines {
		if part.FileName == "" {
			continue
		}
		attachments = append(attachments, InboundAttachment{
			Name:        part.FileName,
			ContentType: part.ContentType,
			Data:        part.Content,
		})
	}
	return attachments, nil
}
