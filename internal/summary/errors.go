package summary

import (
	"context"
	"errors"
	"net"
)

// Kind classifies completion failures so callers can react per cause.
type Kind string

const (
	KindAuth           Kind = "auth"
	KindRateLimit      Kind = "rate_limit"
	KindInvalidRequest Kind = "invalid_request"
	KindTimeout        Kind = "timeout"
	KindUpstream       Kind = "upstream"
)

// Error is returned by the completion client. Message is safe to show to users.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func statusError(status int, upstreamMessage string) *Error {
	e := &Error{StatusCode: status, Err: errors.New(upstreamMessage)}
	switch {
	case status == 401:
		e.Kind = KindAuth
		e.Message = "OpenAI API authentication failed. Please check your API key."
	case status == 429:
		e.Kind = KindRateLimit
		e.Message = "OpenAI API rate limit exceeded. Please try again later."
	case status == 400:
		e.Kind = KindInvalidRequest
		e.Message = "OpenAI API request was invalid. Please check the request format."
	case status == 408 || status == 504:
		e.Kind = KindTimeout
		e.Message = "OpenAI API request timed out. Please try again later."
	default:
		e.Kind = KindUpstream
		e.Message = "OpenAI API error: " + upstreamMessage
	}
	return e
}

func transportError(err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{
			Kind:    KindTimeout,
			Message: "OpenAI API request timed out. Please try again later.",
			Err:     err,
		}
	}
	return &Error{
		Kind:    KindUpstream,
		Message: "OpenAI API error: " + err.Error(),
		Err:     err,
	}
}
