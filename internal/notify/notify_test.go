package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/codr1/leaguedesk/internal/config"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []string
	subjects []string
	delay    time.Duration
	ctxErrCh chan error
}

func (f *fakeSender) Send(ctx context.Context, recipient, subject, body string) error {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			select {
			case f.ctxErrCh <- ctx.Err():
			default:
			}
			return ctx.Err()
		case <-time.After(f.delay):
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, recipient)
	f.subjects = append(f.subjects, subject)
	return nil
}

type failingReporter struct{ err error }

func (f failingReporter) Report(context.Context, Incident) error { return f.err }

func TestEmailReporterSendsToEveryRecipient(t *testing.T) {
	sender := &fakeSender{}
	reporter := NewEmailReporter(sender, []string{"ops@example.com", "  ", " admin@example.com "})

	err := reporter.Report(context.Background(), Incident{Kind: KindStandingsDrift, Subject: "Standings drift detected"})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	reporter.Wait()

	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 sends, got %v", sender.sent)
	}
	for _, subject := range sender.subjects {
		if subject != "[leaguedesk] Standings drift detected" {
			t.Fatalf("unexpected subject %q", subject)
		}
	}
}

func TestEmailReporterTimesOutSlowSends(t *testing.T) {
	sender := &fakeSender{delay: time.Second, ctxErrCh: make(chan error, 1)}
	reporter := NewEmailReporter(sender, []string{"ops@example.com"}).WithTimeout(20 * time.Millisecond)

	if err := reporter.Report(context.Background(), Incident{Subject: "slow"}); err != nil {
		t.Fatalf("report: %v", err)
	}
	reporter.Wait()

	select {
	case err := <-sender.ctxErrCh:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
	default:
		t.Fatalf("expected send to observe the timeout")
	}
}

func TestEmailReporterWithoutSender(t *testing.T) {
	reporter := NewEmailReporter(nil, []string{"ops@example.com"})
	if err := reporter.Report(context.Background(), Incident{}); err == nil {
		t.Fatalf("expected error without a sender")
	}
}

func TestMultiJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	multi := Multi{LogReporter{}, nil, failingReporter{err: boom}}

	err := multi.Report(context.Background(), Incident{Subject: "x"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error to contain boom, got %v", err)
	}
}

func TestIncidentBody(t *testing.T) {
	body := Incident{
		Kind:       KindPropagationFailure,
		Subject:    "Game result was not applied",
		Detail:     "update team t1: document not found",
		Collection: "games",
		DocumentID: "g1",
		OccurredAt: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
	}.Body()

	for _, want := range []string{"Game result was not applied", "Kind: propagation_failure", "Document: g1", "2026-03-01T18:00:00Z", "document not found"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}

func TestFromConfig(t *testing.T) {
	reporter, wait, err := FromConfig(context.Background(), config.NotificationsConfig{})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if _, ok := reporter.(LogReporter); !ok {
		t.Fatalf("expected LogReporter when notifications are off, got %T", reporter)
	}
	wait()

	_, _, err = FromConfig(context.Background(), config.NotificationsConfig{
		Recipients: []string{"ops@example.com"},
		SES:        config.SESConfig{Region: "us-east-1", Sender: "league@example.com"},
	})
	if err == nil {
		t.Fatalf("expected error without SES credentials")
	}
}
