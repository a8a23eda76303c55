// Package notify reports incidents the league engine cannot resolve on its
// own: failed result propagation and standings drift.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	KindPropagationFailure = "propagation_failure"
	KindStandingsDrift     = "standings_drift"
)

type Incident struct {
	Kind       string
	Subject    string
	Detail     string
	Collection string
	DocumentID string
	OccurredAt time.Time
}

// Body renders the plain-text form used in e-mails.
func (i Incident) Body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", i.Subject)
	fmt.Fprintf(&b, "Kind: %s\n", i.Kind)
	if i.Collection != "" {
		fmt.Fprintf(&b, "Collection: %s\n", i.Collection)
	}
	if i.DocumentID != "" {
		fmt.Fprintf(&b, "Document: %s\n", i.DocumentID)
	}
	if !i.OccurredAt.IsZero() {
		fmt.Fprintf(&b, "Occurred: %s\n", i.OccurredAt.UTC().Format(time.RFC3339))
	}
	if i.Detail != "" {
		fmt.Fprintf(&b, "\n%s\n", i.Detail)
	}
	return b.String()
}

type Reporter interface {
	Report(ctx context.Context, incident Incident) error
}

// LogReporter writes incidents to the context logger, falling back to the
// global one.
type LogReporter struct{}

func (LogReporter) Report(ctx context.Context, incident Incident) error {
	logger := log.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = &log.Logger
	}
	logger.Warn().
		Str("kind", incident.Kind).
		Str("collection", incident.Collection).
		Str("document_id", incident.DocumentID).
		Str("detail", incident.Detail).
		Msg(incident.Subject)
	return nil
}

// Multi fans an incident out to every reporter and joins their errors.
type Multi []Reporter

func (m Multi) Report(ctx context.Context, incident Incident) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Report(ctx, incident); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
