package mailer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/snapstack/snapstack/config"
	"github.com/snapstack/snapstack/interfaces"
	"github.com/snapstack/snapstack/internal/logger"
	"github.com/snapstack/snapstack/internal/tracing"
)

// mailgunService sends plain-text mail through the Mailgun messages API.
// Without a domain and API key the service stays disabled: sends become
// logged no-ops rather than errors.
type mailgunService struct {
	log    logger.Logger
	cfg    *config.MailgunConfig
	client *http.Client
}

func NewMailgunService(log logger.Logger, cfg *config.MailgunConfig) interfaces.MailerService {
	s := &mailgunService{
		log: log,
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	if !s.Enabled() {
		log.Warn("mailgun credentials not configured, outbound mail disabled")
	}
	return s
}

func (s *mailgunService) Enabled() bool {
	return s.cfg.APIKey != "" && s.cfg.Domain != ""
}

func (s *mailgunService) Send(ctx context.Context, to, subject, textBody string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MailgunService.Send")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	if !s.Enabled() {
		s.log.Warnf("outbound mail disabled, dropping message to %s", to)
		return nil
	}

	from := s.cfg.ReplyFrom
	if from == "" {
		from = "snapstack <noreply@" + s.cfg.Domain + ">"
	}

	form := url.Values{}
	form.Set("from", from)
	form.Set("to", to)
	form.Set("subject", subject)
	form.Set("text", textBody)

	endpoint := fmt.Sprintf("%s/%s/messages", strings.TrimRight(s.cfg.BaseURL, "/"), s.cfg.Domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	req.SetBasicAuth("api", s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "mailgun request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		err = errors.Errorf("mailgun returned %d: %s", resp.StatusCode, string(body))
		tracing.TraceErr(span, err)
		return err
	}

	s.log.Infof("sent confirmation email to %s", to)
	return nil
}
