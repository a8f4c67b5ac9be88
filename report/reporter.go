// Package report provides the error-reporting handle shared by the session and the
// client. Nothing in this package touches process-wide state: every reporter is created
// explicitly and passed to the components that use it.
package report

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Reporter receives failures worth forwarding to an error tracker
type Reporter interface {
	CaptureException(err error)
	CaptureMessage(msg string)
	// Flush waits until buffered events are sent or the timeout expires
	Flush(timeout time.Duration) bool
}

// Nop discards everything
type Nop struct{}

func (Nop) CaptureException(error) {}

func (Nop) CaptureMessage(string) {}

func (Nop) Flush(time.Duration) bool { return true }

// SentryOptions configures a Sentry reporter
type SentryOptions struct {
	DSN         string
	Release     string
	Environment string
}

// Sentry forwards events through its own sentry hub
type Sentry struct {
	hub *sentry.Hub
}

// NewSentry creates a reporter bound to a dedicated sentry client.
// An empty DSN yields a client that drops every event.
func NewSentry(opts SentryOptions) (*Sentry, error) {
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         opts.DSN,
		Release:     opts.Release,
		Environment: opts.Environment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sentry client: %w", err)
	}

	return &Sentry{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// CaptureException sends err as an exception event
func (s *Sentry) CaptureException(err error) {
	if err == nil {
		return
	}
	s.hub.CaptureException(err)
}

// CaptureMessage sends msg as a message event
func (s *Sentry) CaptureMessage(msg string) {
	s.hub.CaptureMessage(msg)
}

// Flush waits for queued events
func (s *Sentry) Flush(timeout time.Duration) bool {
	return s.hub.Flush(timeout)
}
