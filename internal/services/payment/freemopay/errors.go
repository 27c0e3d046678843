package freemopay

import (
	"errors"
	"fmt"
)

// ErrMissingReference is returned when a status check is asked for an empty reference
var ErrMissingReference = errors.New("payment reference is required")

var errNotAnObject = errors.New("response body is not a JSON object")

// ConfigurationError reports a required client setting that was left empty
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("freemopay: %s is required", e.Field)
}

// TransportError reports a request that could not complete or that the
// server answered with a status of 400 or above. Body holds the raw response
// text in the latter case.
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("http request failed: %v", e.Err)
	}
	return fmt.Sprintf("http error %d: %s", e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports a successful response whose body is not a JSON object
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("error decoding JSON response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// AuthenticationError reports a token response without a usable token.
// Message carries the server's error text when it sent one.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return "error generating access token: no token in response"
	}
	return "error generating access token: " + e.Message
}

// PaymentError wraps any failure of Pay
type PaymentError struct {
	Err error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("error processing payment: %v", e.Err)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// StatusCheckError wraps any failure of CheckStatus
type StatusCheckError struct {
	Reference string
	Err       error
}

func (e *StatusCheckError) Error() string {
	return fmt.Sprintf("error checking payment status: %v", e.Err)
}

func (e *StatusCheckError) Unwrap() error {
	return e.Err
}
