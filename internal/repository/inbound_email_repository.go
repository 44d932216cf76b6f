package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/snapstack/snapstack/interfaces"
	"github.com/snapstack/snapstack/internal/models"
	"github.com/snapstack/snapstack/internal/tracing"
	"github.com/snapstack/snapstack/internal/utils"
)

type inboundEmailRepository struct {
	db *gorm.DB
}

func NewInboundEmailRepository(db *gorm.DB) interfaces.InboundEmailRepository {
	return &inboundEmailRepository{
		db: db,
	}
}

// Create records a webhook delivery. The relay may deliver the same message
// more than once; an existing message_id makes this a no-op and the caller
// learns about it through the returned flag.
func (r *inboundEmailRepository) Create(ctx context.Context, email *models.InboundEmail) (bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "inboundEmailRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	messageID, synthetic := normalizeDedupeKey(email.MessageID)
	email.MessageID = messageID

	if synthetic {
		span.SetTag("synthetic_message_id", true)
	} else {
		// Check if the message was already seen before creating
		existing := &models.InboundEmail{}
		err := r.db.WithContext(ctx).
			Where("message_id = ?", email.MessageID).
			First(existing).Error

		if err == nil {
			span.SetTag("duplicate", true)
			email.ID = existing.ID
			return false, nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			tracing.TraceErr(span, err)
			return false, err
		}
	}

	if email.ReceivedAt.IsZero() {
		email.ReceivedAt = utils.Now()
	}

	result := r.db.WithContext(ctx).Create(email)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return false, result.Error
	}

	return true, nil
}

// normalizeDedupeKey strips the angle brackets relays wrap around
// Message-Id values. A delivery without a Message-Id at all cannot be
// deduped; it gets a synthetic key so the unique index stays satisfied
// and unrelated headerless deliveries never collide with each other.
func normalizeDedupeKey(messageID string) (string, bool) {
	id := strings.Trim(messageID, "<>")
	if id == "" {
		return utils.GenerateNanoIDWithPrefix("local", 21), true
	}
	return id, false
}

// List returns the delivery log, newest first.
func (r *inboundEmailRepository) List(ctx context.Context) ([]*models.InboundEmail, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "inboundEmailRepository.List")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var emails []*models.InboundEmail
	if err := r.db.WithContext(ctx).
		Order("received_at DESC").
		Find(&emails).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return emails, nil
}

func (r *inboundEmailRepository) SetOutcome(ctx context.Context, id, command, outcome string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "inboundEmailRepository.SetOutcome")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagEntity(span, id)

	result := r.db.WithContext(ctx).
		Model(&models.InboundEmail{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"command": command, "outcome": outcome})
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}

	return nil
}
