package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures of the external collaborators.
type ErrorKind int

const (
	KindTransport ErrorKind = iota + 1
	KindAuth
	KindNotFound
	KindParse
	KindDispatch
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not found"
	case KindParse:
		return "parse"
	case KindDispatch:
		return "dispatch"
	default:
		return "unknown"
	}
}

// Error is returned by the review server client, the build trigger and the
// poll orchestrator. It records what was attempted and against which URL.
type Error struct {
	Kind ErrorKind
	Op   string
	URL  string
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error during %s", e.Kind, e.Op)
	if e.URL != "" {
		msg += " (" + e.URL + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a kind sentinel matching e, so that
// errors.Is(err, core.ErrNotFound) works at any wrapping depth.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Op == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrTransport = &Error{Kind: KindTransport}
	ErrAuth      = &Error{Kind: KindAuth}
	ErrNotFound  = &Error{Kind: KindNotFound}
	ErrParse     = &Error{Kind: KindParse}
	ErrDispatch  = &Error{Kind: KindDispatch}
)

// NewError wraps err with a kind, the operation name and the URL involved.
func NewError(kind ErrorKind, op, url string, err error) *Error {
	return &Error{Kind: kind, Op: op, URL: url, Err: err}
}
