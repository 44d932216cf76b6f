package attachments

import (
	"context"
	"fmt"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/snapstack/snapstack/interfaces"
	"github.com/snapstack/snapstack/internal/logger"
	"github.com/snapstack/snapstack/internal/tracing"
	"github.com/snapstack/snapstack/internal/utils"
)

// Attachment is one file part of the inbound email.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Resolver uploads the first attachment of an email to object storage and
// hands back its public URL.
type Resolver struct {
	storage interfaces.StorageService
	log     logger.Logger
}

func NewResolver(storage interfaces.StorageService, log logger.Logger) *Resolver {
	return &Resolver{
		storage: storage,
		log:     log,
	}
}

// Resolve considers only the first attachment; the rest are ignored. No
// attachment yields an empty URL and no error. A storage failure is a real
// error the webhook surfaces as a 500.
func (r *Resolver) Resolve(ctx context.Context, atts []Attachment) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Resolver.Resolve")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	if len(atts) == 0 {
		return "", nil
	}

	att := atts[0]
	key := fmt.Sprintf("%d-%s", utils.Now().UnixMilli(), att.Name)
	span.SetTag("storage.key", key)

	// Upload refuses to overwrite an existing key.
	if err := r.storage.Upload(ctx, key, att.Data, att.ContentType); err != nil {
		tracing.TraceErr(span, err)
		return "", errors.Wrapf(err, "upload %s", key)
	}

	url := r.storage.GetPublicURL(key)
	if url == "" {
		// An empty URL would read as "no attachment" downstream and
		// orphan the object that was just stored.
		err := errors.Errorf("no public url for stored object %s", key)
		tracing.TraceErr(span, err)
		return "", err
	}
	r.log.Infof("stored attachment %s (%d bytes) as %s", att.Name, len(att.Data), key)

	return url, nil
}
