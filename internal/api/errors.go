package api

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies what went wrong with a remote call. The kind is decided
// here, at the boundary that has the actual status and body, so callers
// never have to guess from message prose.
type Kind int

const (
	// KindValidation: a client-side precondition failed; nothing was sent.
	KindValidation Kind = iota + 1
	// KindTransport: the network call or JSON decoding failed.
	KindTransport
	// KindUnauthorized: the backend rejected the bearer token or credentials
	// with a 401.
	KindUnauthorized
	// KindServerDeclared: the transport succeeded but the payload declared
	// success:false. Message carries the server's text verbatim.
	KindServerDeclared
)

// FailureCode refines declared failures whose message matches a phrase the
// backends are known to emit, in either English or Spanish. Matching
// happens exactly once, here.
type FailureCode int

const (
	CodeNone FailureCode = iota
	CodeUserNotFound
	CodeBadCredentials
	CodeEmailTaken
)

// Error is the failure shape returned by every client in this package.
type Error struct {
	Kind    Kind
	Code    FailureCode
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the failure kind, or zero for non-API errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}

// CodeOf extracts the refined failure code, or CodeNone.
func CodeOf(err error) FailureCode {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeNone
}

// IsUnauthorized reports whether err is a 401 from a backend. Callers use
// this to demote a stale session instead of trusting it forever.
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

// Message returns the user-presentable text of an API error, or a fallback.
func Message(err error, fallback string) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}

const emailTakenMessage = "User with this email already exists"

func classify(message string) FailureCode {
	if message == emailTakenMessage {
		return CodeEmailTaken
	}
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "not found") || strings.Contains(lower, "no encontrado"):
		return CodeUserNotFound
	case strings.Contains(lower, "password") || strings.Contains(lower, "contraseña") ||
		strings.Contains(lower, "credential") || strings.Contains(lower, "credencial"):
		return CodeBadCredentials
	}
	return CodeNone
}
