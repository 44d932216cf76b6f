package dto

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildForm(t *testing.T, fields map[string]string, files map[string][]byte) *multipart.Form {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for name, data := range files {
		part, err := writer.CreateFormFile(name, name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(10 << 20)
	require.NoError(t, err)
	return form
}

func TestParseInboundForm_BasicFields(t *testing.T) {
	form := buildForm(t, map[string]string{
		"subject":    "@Paris@ dinner",
		"from":       "Jane Doe <jane@example.com>",
		"recipient":  "post@snapstack.example.com",
		"Message-Id": "<abc@mail.example.com>",
		"body-plain": "sent from my phone",
	}, nil)

	email, err := ParseInboundForm(form)

	require.NoError(t, err)
	assert.Equal(t, "@Paris@ dinner", email.Subject)
	assert.Equal(t, "Jane Doe <jane@example.com>", email.From)
	assert.Equal(t, "post@snapstack.example.com", email.Recipient)
	assert.Equal(t, "abc@mail.example.com", email.MessageID)
	assert.Equal(t, "sent from my phone", email.BodyPlain)
	// Sender falls back to From when absent
	assert.Equal(t, "Jane Doe <jane@example.com>", email.Sender)
}

func TestParseInboundForm_CapitalizedHeaderVariants(t *testing.T) {
	form := buildForm(t, map[string]string{
		"Subject": "hello",
		"From":    "jane@example.com",
	}, nil)

	email, err := ParseInboundForm(form)

	require.NoError(t, err)
	assert.Equal(t, "hello", email.Subject)
	assert.Equal(t, "jane@example.com", email.From)
}

func TestParseInboundForm_NumberedAttachments(t *testing.T) {
	form := buildForm(t, map[string]string{
		"subject":          "photo",
		"attachment-count": "2",
	}, map[string][]byte{
		"attachment-1": []byte("first"),
		"attachment-2": []byte("second"),
	})

	email, err := ParseInboundForm(form)

	require.NoError(t, err)
	require.Len(t, email.Attachments, 2)
	assert.Equal(t, 2, email.AttachmentCount)
	assert.Equal(t, []byte("first"), email.Attachments[0].Data)
	assert.Equal(t, []byte("second"), email.Attachments[1].Data)
}

func TestParseInboundForm_BareAttachmentPart(t *testing.T) {
	form := buildForm(t, map[string]string{
		"subject": "photo",
	}, map[string][]byte{
		"attachment": []byte("image-bytes"),
	})

	email, err := ParseInboundForm(form)

	require.NoError(t, err)
	require.Len(t, email.Attachments, 1)
	assert.Equal(t, 1, email.AttachmentCount)
}

func TestParseInboundForm_MIMEBodyFallback(t *testing.T) {
	raw := "From: jane@example.com\r\n" +
		"To: post@snapstack.example.com\r\n" +
		"Subject: photo\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/mixed; boundary=\"XXBOUND\"\r\n" +
		"\r\n" +
		"--XXBOUND\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"see attached\r\n" +
		"--XXBOUND\r\n" +
		"Content-Type: image/jpeg\r\n" +
		"Content-Disposition: attachment; filename=\"cat.jpg\"\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"\r\n" +
		"aW1hZ2UtYnl0ZXM=\r\n" +
		"--XXBOUND--\r\n"

	form := buildForm(t, map[string]string{
		"subject":   "photo",
		"body-mime": raw,
	}, nil)

	email, err := ParseInboundForm(form)

	require.NoError(t, err)
	require.Len(t, email.Attachments, 1)
	assert.Equal(t, "cat.jpg", email.Attachments[0].Name)
	assert.Equal(t, []byte("image-bytes"), email.Attachments[0].Data)
}

func TestParseInboundForm_NilForm(t *testing.T) {
	_, err := ParseInboundForm(nil)
	assert.Error(t, err)
}
