package tryfi

import (
	"github.com/s0up4200/tryfi/report"
	"github.com/s0up4200/tryfi/session"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	session       Session
	sessionOpts   []session.Option
	reporter      report.Reporter
	strictRefresh bool
}

func defaultOptions() options {
	return options{
		reporter: report.Nop{},
	}
}

// WithSession runs the client on an existing session instead of creating one.
// WithSessionOptions is ignored when it is set.
func WithSession(s Session) Option {
	return func(o *options) {
		o.session = s
	}
}

// WithSessionOptions configures the session created by New.
func WithSessionOptions(opts ...session.Option) Option {
	return func(o *options) {
		o.sessionOpts = append(o.sessionOpts, opts...)
	}
}

// WithReporter sets the reporter that receives failures of the client and of the session
// it creates.
func WithReporter(r report.Reporter) Option {
	return func(o *options) {
		if r != nil {
			o.reporter = r
		}
	}
}

// WithStrictRefresh makes UpdatePets skip pets without a device, as New does.
func WithStrictRefresh(strict bool) Option {
	return func(o *options) {
		o.strictRefresh = strict
	}
}
