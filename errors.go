package kimicheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/openai/openai-go"
)

var (
	// ErrEmptyCredential is returned when no API key was given.
	ErrEmptyCredential = errors.New("API key must not be empty")

	// ErrUnexpectedPrefix is the soft warning raised for keys that do not
	// start with CredentialPrefix. The user may choose to continue.
	ErrUnexpectedPrefix = fmt.Errorf("API key does not start with %q", CredentialPrefix)

	// ErrAborted is returned when the user declined to continue after a warning.
	ErrAborted = errors.New("aborted by user")

	// ErrAuthentication is returned when the API rejected the key (HTTP 401).
	ErrAuthentication = errors.New("invalid API key")

	// ErrNoReply is returned when a chat response had no message content.
	ErrNoReply = errors.New("response did not contain a reply")

	// ErrChecksFailed is returned by the driver when at least one check failed.
	ErrChecksFailed = errors.New("one or more checks failed")
)

// StatusError is returned for any non-200 response other than 401.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d: %s", e.Code, http.StatusText(e.Code))
}

// NetworkError wraps a transport level failure: timeouts, DNS errors,
// refused connections and the like.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a 200 response body could not be parsed.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// classify maps an error returned by the API client onto the error taxonomy
// used by the checks. A nil error stays nil.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w (HTTP %d)", ErrAuthentication, apiErr.StatusCode)
		}
		return &StatusError{Code: apiErr.StatusCode, Body: apiErr.RawJSON()}
	}

	var (
		urlErr *url.Error
		netErr net.Error
	)
	switch {
	case errors.As(err, &urlErr),
		errors.As(err, &netErr),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return &NetworkError{Err: err}
	}

	return &DecodeError{Err: err}
}
