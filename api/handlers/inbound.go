package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/snapstack/snapstack/config"
	"github.com/snapstack/snapstack/dto"
	"github.com/snapstack/snapstack/internal/models"
	"github.com/snapstack/snapstack/internal/repository"
	"github.com/snapstack/snapstack/internal/tracing"
	"github.com/snapstack/snapstack/internal/utils"
	"github.com/snapstack/snapstack/services"
	"github.com/snapstack/snapstack/services/attachments"
	"github.com/snapstack/snapstack/services/command"
)

// InboundHandler receives Mailgun webhook deliveries and runs the email
// command pipeline: record, parse, resolve attachment, execute, reply.
type InboundHandler struct {
	repos      *repository.Repositories
	svc        *services.Services
	signingKey string
}

func NewInboundHandler(repos *repository.Repositories, svc *services.Services, mailgunConfig *config.MailgunConfig) *InboundHandler {
	signingKey := ""
	if mailgunConfig != nil {
		signingKey = mailgunConfig.SigningKey
	}
	return &InboundHandler{
		repos:      repos,
		svc:        svc,
		signingKey: signingKey,
	}
}

// Probe answers route verification checks from the email provider.
func (h *InboundHandler) Probe() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "Email webhook endpoint is active")
	}
}

// Preflight answers CORS preflight requests.
func (h *InboundHandler) Preflight() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusOK)
	}
}

// Receive processes an inbound email delivery.
func (h *InboundHandler) Receive() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "InboundHandler.Receive")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		form, err := c.MultipartForm()
		if err != nil {
			tracing.TraceErr(span, err)
			h.fail(c, errors.Wrap(err, "failed to parse webhook payload"))
			return
		}

		email, err := dto.ParseInboundForm(form)
		if err != nil {
			tracing.TraceErr(span, err)
			h.fail(c, err)
			return
		}

		if h.signingKey != "" && !h.verifySignature(email) {
			tracing.TraceErr(span, errors.New("invalid webhook signature"))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
			return
		}

		if email.IsDeliveryEvent() {
			// Status notifications carry event-data instead of a message.
			span.SetTag("delivery_event", true)
			c.JSON(http.StatusOK, gin.H{
				"success":   true,
				"message":   "Delivery event acknowledged",
				"timestamp": utils.Now(),
			})
			return
		}

		record := &models.InboundEmail{
			MessageID:       email.MessageID,
			Sender:          email.Sender,
			Recipients:      pq.StringArray{email.Recipient},
			Subject:         email.Subject,
			AttachmentCount: email.AttachmentCount,
			ReceivedAt:      utils.Now(),
		}
		created, err := h.repos.InboundEmailRepository.Create(ctx, record)
		if err != nil {
			tracing.TraceErr(span, err)
			h.fail(c, err)
			return
		}
		if !created {
			// Mailgun retries deliveries; the first one already ran.
			c.JSON(http.StatusOK, gin.H{
				"success":   true,
				"message":   "Duplicate delivery ignored",
				"timestamp": utils.Now(),
			})
			return
		}

		_, cmd, _ := h.svc.CommandParser.Parse(email.CommandLine())
		span.SetTag("command", string(cmd.Kind()))

		imageURL := ""
		if _, isCreate := cmd.(command.CreatePost); isCreate {
			imageURL, err = h.svc.AttachmentResolver.Resolve(ctx, toResolverAttachments(email.Attachments))
			if err != nil {
				tracing.TraceErr(span, err)
				h.recordOutcome(ctx, record.ID, cmd, "storage upload failed")
				h.fail(c, err)
				return
			}
		}

		result, err := h.svc.CommandExecutor.Execute(ctx, cmd, imageURL)
		if err != nil {
			tracing.TraceErr(span, err)
			h.recordOutcome(ctx, record.ID, cmd, "failed: "+err.Error())
			h.svc.Notifier.Notify(ctx, cmd, nil, err, email.From)
			h.fail(c, err)
			return
		}

		h.recordOutcome(ctx, record.ID, cmd, string(result.Outcome))
		h.svc.Notifier.Notify(ctx, cmd, result, nil, email.From)

		response := gin.H{
			"success":   true,
			"message":   result.Message,
			"timestamp": utils.Now(),
		}
		if len(result.Data) > 0 {
			response["data"] = result.Data
		}
		c.JSON(http.StatusOK, response)
	}
}

// fail answers with the webhook error envelope. The provider disables
// routes that keep failing, so 500 is reserved for real faults.
func (h *InboundHandler) fail(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Failed to process email",
		"details": gin.H{
			"message":   err.Error(),
			"timestamp": utils.Now(),
		},
	})
}

func (h *InboundHandler) recordOutcome(ctx context.Context, id string, cmd command.Command, outcome string) {
	if err := h.repos.InboundEmailRepository.SetOutcome(ctx, id, string(cmd.Kind()), outcome); err != nil {
		span := opentracing.SpanFromContext(ctx)
		if span != nil {
			tracing.TraceErr(span, err)
		}
	}
}

// verifySignature checks the HMAC Mailgun computes over timestamp+token.
func (h *InboundHandler) verifySignature(email *dto.InboundEmail) bool {
	mac := hmac.New(sha256.New, []byte(h.signingKey))
	mac.Write([]byte(email.Timestamp + email.Token))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(email.Signature))
}

func toResolverAttachments(in []dto.InboundAttachment) []attachments.Attachment {
	out := make([]attachments.Attachment, 0, len(in))
	for _, a := range in {
		out = append(out, attachments.Attachment{
			Name:        a.Name,
			ContentType: a.ContentType,
			Data:        a.Data,
		})
	}
	return out
}
