package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindConfig     Kind = "config"
	KindProvider   Kind = "provider"
	KindNoAudio    Kind = "noaudio"
	KindPlayback   Kind = "playback"
	KindTransport  Kind = "transport"
	KindBootstrap  Kind = "bootstrap"
	KindUnknown    Kind = "unknown"
)

type Error struct {
	Kind    Kind
	Op      string
	Message string
	// Status carries the upstream HTTP status for provider errors.
	// Zero means no upstream status is known.
	Status int
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(kind Kind, op, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
	}
}

func Wrap(kind Kind, op, message string, err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Cause:   err,
	}
}

// Upstream builds a provider error that preserves the upstream HTTP status.
func Upstream(op, message string, status int) *Error {
	return &Error{
		Kind:    KindProvider,
		Op:      op,
		Message: message,
		Status:  status,
	}
}

// IsKind checks whether any error in the chain matches the provided kind.
func IsKind(err error, kind Kind) bool {
	var target *Error
	for err != nil {
		if errors.As(err, &target) {
			return target.Kind == kind
		}
		err = errors.Unwrap(err)
	}
	return false
}

// HTTPStatus maps an error to the status code the transport should answer
// with. Provider errors keep the upstream status when one was recorded.
func HTTPStatus(err error) int {
	var typed *Error
	if !errors.As(err, &typed) {
		return http.StatusInternalServerError
	}

	switch typed.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindProvider:
		if typed.Status > 0 {
			return typed.Status
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
