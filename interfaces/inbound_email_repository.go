package interfaces

import (
	"context"

	"github.com/snapstack/snapstack/internal/models"
)

type InboundEmailRepository interface {
	// Create records the delivery. It returns false when a record with the
	// same message id already exists, which is how duplicate webhook
	// deliveries are detected.
	Create(ctx context.Context, email *models.InboundEmail) (bool, error)
	SetOutcome(ctx context.Context, id, command, outcome string) error
	// List returns the delivery log, newest first.
	List(ctx context.Context) ([]*models.InboundEmail, error)
}
