package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"

	"github.com/s0up4200/tryfi/report"
)

// Session owns the login state and default headers of a TryFi account.
// It is not safe for concurrent use.
type Session struct {
	baseURL   string
	client    Doer
	userAgent string
	reporter  report.Reporter
	logger    zerolog.Logger

	// sendCookies is set when the transport has no cookie jar of its own
	sendCookies bool

	headers       http.Header
	cookies       []*http.Cookie
	userID        string
	sessionID     string
	authenticated bool
}

// New creates an unauthenticated session
func New(logger zerolog.Logger, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if _, err := url.ParseRequestURI(o.baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid base URL %q: %v", ErrInvalidConfig, o.baseURL, err)
	}

	s := &Session{
		baseURL:   o.baseURL,
		client:    o.client,
		userAgent: o.userAgent,
		reporter:  o.reporter,
		logger:    logger,
		headers:   make(http.Header),
	}

	if s.client == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		s.client = &http.Client{Timeout: o.timeout, Jar: jar}
	} else if hc, ok := s.client.(*http.Client); !ok || hc.Jar == nil {
		s.sendCookies = true
	}

	return s, nil
}

// Login submits the credentials and stores the negotiated user and session ids.
func (s *Session) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", ErrInvalidConfig)
	}

	endpoint := s.baseURL + loginPath
	form := url.Values{
		"email":    {username},
		"password": {password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	s.logger.Debug().Str("url", endpoint).Msg("Logging into TryFi")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error().Err(err).Msg("Cannot login")
		return &TransportError{Op: http.MethodPost, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: http.MethodPost, URL: endpoint, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	result, decodeErr := decodeLoginResult(body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(string(body))
		if failure, ok := result.(LoginFailure); ok {
			message = failure.Message
		}
		return s.loginFailed(&AuthenticationError{StatusCode: resp.StatusCode, Message: message})
	}
	if decodeErr != nil {
		return s.loginFailed(&AuthenticationError{StatusCode: resp.StatusCode, Message: decodeErr.Error()})
	}

	switch r := result.(type) {
	case LoginFailure:
		return s.loginFailed(&AuthenticationError{StatusCode: resp.StatusCode, Message: r.Message})
	case LoginOK:
		s.userID = r.UserID
		s.sessionID = r.SessionID
	}

	// the jar (if any) already holds these; they are kept for callers and jar-less transports
	s.cookies = resp.Cookies()
	s.authenticated = true

	s.logger.Debug().Str("user_id", s.userID).Msg("Successfully logged in")
	return nil
}

func (s *Session) loginFailed(err *AuthenticationError) error {
	s.logger.Error().
		Int("status", err.StatusCode).
		Str("message", err.Message).
		Msg("Cannot login")
	s.reporter.CaptureException(err)
	return err
}

// ApplyDefaultHeaders sets the headers sent with every query.
// It must only be called after a successful Login.
func (s *Session) ApplyDefaultHeaders() error {
	if !s.authenticated {
		return ErrNotAuthenticated
	}

	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	headers.Set("User-Agent", s.userAgent)
	s.headers = headers

	return nil
}

// Query runs a GraphQL document and decodes its data object into out.
func (s *Session) Query(ctx context.Context, document string, out any) error {
	if !s.authenticated {
		return ErrNotAuthenticated
	}

	endpoint := s.baseURL + graphQLPath
	params := url.Values{"query": {document}}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range s.headers {
		req.Header[key] = append([]string(nil), values...)
	}
	if s.sendCookies {
		for _, c := range s.cookies {
			req.AddCookie(c)
		}
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	s.logger.Debug().
		Str("request_id", requestID).
		Str("url", endpoint).
		Msg("Making TryFi API request")

	resp, err := s.client.Do(req)
	if err != nil {
		return &TransportError{Op: http.MethodGet, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: http.MethodGet, URL: endpoint, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	return decodeGraphQL(resp.StatusCode, body, out)
}

// UserID returns the user id negotiated at login
func (s *Session) UserID() string {
	return s.userID
}

// SessionID returns the session id negotiated at login
func (s *Session) SessionID() string {
	return s.sessionID
}

// Authenticated reports whether Login succeeded
func (s *Session) Authenticated() bool {
	return s.authenticated
}

// Cookies returns the cookies set by the login response
func (s *Session) Cookies() []*http.Cookie {
	return append([]*http.Cookie(nil), s.cookies...)
}

// Headers returns a copy of the default headers
func (s *Session) Headers() http.Header {
	return s.headers.Clone()
}
