package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client sends one composed prompt to an inference endpoint and returns the
// generated text.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TransportError means the request never produced a response body, usually
// because the endpoint is not running.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError means a body arrived but carried no usable text.
type MalformedResponseError struct {
	Status int
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed response: " + e.Reason
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsMalformed reports whether err is a MalformedResponseError.
func IsMalformed(err error) bool {
	var me *MalformedResponseError
	return errors.As(err, &me)
}
