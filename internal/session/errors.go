package session

import (
	"errors"
	"fmt"
)

// Kind classifies session failures so callers (HTTP layer, boundary) can map
// them without string matching.
type Kind string

const (
	KindInvalidArgument    Kind = "invalid_argument"
	KindNotFound           Kind = "not_found"
	KindMalformedFormat    Kind = "malformed_format"
	KindUnsupportedVersion Kind = "unsupported_version"
	KindResourceExhausted  Kind = "resource_exhausted"
	KindNotLoaded          Kind = "not_loaded"
	KindUnavailable        Kind = "unavailable"
	KindCanceled           Kind = "canceled"
)

type sessionError struct {
	kind Kind
	msg  string
	err  error
}

func (e *sessionError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *sessionError) Unwrap() error { return e.err }

// Kind reports the failure class.
func (e *sessionError) Kind() Kind { return e.kind }

func ErrInvalidArgument(msg string) error {
	return &sessionError{kind: KindInvalidArgument, msg: "invalid argument: " + msg}
}

func ErrNotFound(path string, err error) error {
	return &sessionError{kind: KindNotFound, msg: "model not found: " + path, err: err}
}

func ErrMalformedFormat(path, reason string) error {
	return &sessionError{kind: KindMalformedFormat, msg: fmt.Sprintf("malformed model %s: %s", path, reason)}
}

func ErrUnsupportedVersion(path string, version uint32) error {
	return &sessionError{kind: KindUnsupportedVersion, msg: fmt.Sprintf("unsupported model version %d: %s", version, path)}
}

func ErrResourceExhausted(msg string, err error) error {
	return &sessionError{kind: KindResourceExhausted, msg: "resource exhausted: " + msg, err: err}
}

// ErrNotLoaded is returned by Embed when the policy requires a loaded model.
var ErrNotLoaded error = &sessionError{kind: KindNotLoaded, msg: "no model loaded"}

// ErrUnavailable signals an engine that is not built into this binary.
func ErrUnavailable(msg string) error {
	return &sessionError{kind: KindUnavailable, msg: msg}
}

// ErrCanceled wraps a context error; errors.Is still sees the cause.
func ErrCanceled(err error) error {
	return &sessionError{kind: KindCanceled, msg: "canceled", err: err}
}

// KindOf returns the kind of err, or "" when err did not originate here.
func KindOf(err error) Kind {
	var se *sessionError
	if errors.As(err, &se) {
		return se.kind
	}
	return ""
}

func IsInvalidArgument(err error) bool    { return KindOf(err) == KindInvalidArgument }
func IsNotFound(err error) bool           { return KindOf(err) == KindNotFound }
func IsMalformedFormat(err error) bool    { return KindOf(err) == KindMalformedFormat }
func IsUnsupportedVersion(err error) bool { return KindOf(err) == KindUnsupportedVersion }
func IsResourceExhausted(err error) bool  { return KindOf(err) == KindResourceExhausted }
func IsNotLoaded(err error) bool          { return KindOf(err) == KindNotLoaded }
func IsUnavailable(err error) bool        { return KindOf(err) == KindUnavailable }
func IsCanceled(err error) bool           { return KindOf(err) == KindCanceled }
