package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Version is the library version reported in the User-Agent header.
const Version = "0.4.0"

const (
	// DefaultBaseURL is the TryFi API host
	DefaultBaseURL = "https://api.tryfi.com"

	loginPath   = "/auth/login"
	graphQLPath = "/graphql"
)

// DefaultUserAgent returns the client identifier sent after login
func DefaultUserAgent() string {
	return "tryfi-go/" + Version
}

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// LoginResult is the decoded body of the login endpoint: either LoginOK or LoginFailure.
type LoginResult interface {
	isLoginResult()
}

// LoginOK is returned for accepted credentials
type LoginOK struct {
	UserID    string
	SessionID string
}

// LoginFailure is returned when the body carries an error payload
type LoginFailure struct {
	Message string
}

func (LoginOK) isLoginResult()      {}
func (LoginFailure) isLoginResult() {}

type loginResponse struct {
	UserID    string          `json:"userId"`
	SessionID string          `json:"sessionId"`
	Error     *loginErrorBody `json:"error,omitempty"`
}

type loginErrorBody struct {
	Message string `json:"message"`
}

// decodeLoginResult converts a raw login body into a LoginResult.
// A body without an error payload must carry a user id.
func decodeLoginResult(body []byte) (LoginResult, error) {
	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}

	if resp.Error != nil {
		return LoginFailure{Message: resp.Error.Message}, nil
	}

	if resp.UserID == "" {
		return LoginFailure{Message: "login response carries no user id"}, nil
	}

	return LoginOK{UserID: resp.UserID, SessionID: resp.SessionID}, nil
}

// graphQLResponse is the envelope of every query response
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// decodeGraphQL unwraps the response envelope. GraphQL errors are reported as APIError
// even when the HTTP status is 200.
func decodeGraphQL(statusCode int, body []byte, out any) error {
	var envelope graphQLResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return &APIError{StatusCode: statusCode, Message: strings.Join(messages, "; ")}
	}

	if out == nil || len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}
	return nil
}
