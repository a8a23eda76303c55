package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultSendTimeout = 5 * time.Second

// Sender delivers one plain-text message.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// EmailReporter mails incidents to a fixed recipient list. Sends run in the
// background with their own timeout so a slow mail service never holds up a
// write; Wait blocks until they finish.
type EmailReporter struct {
	sender     Sender
	recipients []string
	timeout    time.Duration
	wg         sync.WaitGroup
}

func NewEmailReporter(sender Sender, recipients []string) *EmailReporter {
	cleaned := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			cleaned = append(cleaned, r)
		}
	}
	return &EmailReporter{sender: sender, recipients: cleaned, timeout: defaultSendTimeout}
}

// WithTimeout overrides the per-message send timeout.
func (r *EmailReporter) WithTimeout(timeout time.Duration) *EmailReporter {
	if timeout > 0 {
		r.timeout = timeout
	}
	return r
}

func (r *EmailReporter) Report(ctx context.Context, incident Incident) error {
	if r == nil || r.sender == nil {
		return errors.New("email reporter has no sender")
	}
	if len(r.recipients) == 0 {
		return nil
	}

	subject := "[leaguedesk] " + incident.Subject
	body := incident.Body()
	for _, recipient := range r.recipients {
		r.wg.Add(1)
		go func(recipient string) {
			defer r.wg.Done()
			sendCtx, cancel := context.WithTimeout(context.Background(), r.timeout)
			defer cancel()
			if err := r.sender.Send(sendCtx, recipient, subject, body); err != nil {
				log.Error().
					Err(err).
					Str("recipient", recipient).
					Str("kind", incident.Kind).
					Msg("Failed to send incident email")
			}
		}(recipient)
	}
	return nil
}

// Wait blocks until every queued send has finished or timed out.
func (r *EmailReporter) Wait() {
	r.wg.Wait()
}
