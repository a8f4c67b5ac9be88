package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/s0up4200/tryfi/report"
)

// Option configures a Session.
type Option func(*options)

type options struct {
	baseURL   string
	client    Doer
	timeout   time.Duration
	userAgent string
	reporter  report.Reporter
}

func defaultOptions() options {
	return options{
		baseURL:   DefaultBaseURL,
		timeout:   30 * time.Second,
		userAgent: DefaultUserAgent(),
		reporter:  report.Nop{},
	}
}

// WithBaseURL overrides the API host.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the transport used for every request.
// The caller owns cookie handling when a custom client is supplied.
func WithHTTPClient(client Doer) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithTimeout sets the timeout of the default HTTP client.
// It has no effect together with WithHTTPClient.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		o.userAgent = userAgent
	}
}

// WithReporter sets the reporter that receives login failures.
func WithReporter(r report.Reporter) Option {
	return func(o *options) {
		if r != nil {
			o.reporter = r
		}
	}
}

var _ Doer = (*http.Client)(nil)
