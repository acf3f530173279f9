package internal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies every failure the client reports to its callers
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindMalformedRegistryPath
	KindUpstreamMalformed
	KindAuthorizationPending
	KindDeviceCodeExpired
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
	KindUnprocessable
	KindInternalError
	KindUnexpectedStatus
	KindResponseDecode
	KindTimeout
	KindPEPAlreadyExists
)

var kindNames = map[ErrorKind]string{
	KindUnknown:               "unknown",
	KindMalformedRegistryPath: "malformed registry path",
	KindUpstreamMalformed:     "malformed upstream response",
	KindAuthorizationPending:  "authorization pending",
	KindDeviceCodeExpired:     "device code expired",
	KindNotFound:              "not found",
	KindConflict:              "conflict",
	KindUnauthorized:          "unauthorized",
	KindForbidden:             "forbidden",
	KindUnprocessable:         "unprocessable entity",
	KindInternalError:         "internal server error",
	KindUnexpectedStatus:      "unexpected status",
	KindResponseDecode:        "response decode error",
	KindTimeout:               "timeout",
	KindPEPAlreadyExists:      "PEP already exists",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// HubError represents a failure talking to the hub or the identity provider
type HubError struct {
	Kind       ErrorKind
	Op         string // "pull", "push", "device code", ...
	StatusCode int    // 0 when no HTTP status applies
	Message    string
	Err        error
}

func (e *HubError) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *HubError) Unwrap() error {
	return e.Err
}

// Is matches another *HubError by kind, so sentinels like ErrNotFound work with errors.Is
func (e *HubError) Is(target error) bool {
	var t *HubError
	if !errors.As(target, &t) {
		return false
	}
	return t.Op == "" && t.StatusCode == 0 && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is
var (
	ErrUpstreamMalformed    = &HubError{Kind: KindUpstreamMalformed}
	ErrAuthorizationPending = &HubError{Kind: KindAuthorizationPending}
	ErrDeviceCodeExpired    = &HubError{Kind: KindDeviceCodeExpired}
	ErrNotFound             = &HubError{Kind: KindNotFound}
	ErrConflict             = &HubError{Kind: KindConflict}
	ErrUnauthorized         = &HubError{Kind: KindUnauthorized}
	ErrForbidden            = &HubError{Kind: KindForbidden}
	ErrUnprocessable        = &HubError{Kind: KindUnprocessable}
	ErrInternalError        = &HubError{Kind: KindInternalError}
	ErrUnexpectedStatus     = &HubError{Kind: KindUnexpectedStatus}
	ErrResponseDecode       = &HubError{Kind: KindResponseDecode}
	ErrTimeout              = &HubError{Kind: KindTimeout}
)

// MalformedRegistryPathError is returned when user input is not a registry path
type MalformedRegistryPathError struct {
	Input  string
	Reason string
}

func (e *MalformedRegistryPathError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("malformed registry path %q", e.Input)
	}
	return fmt.Sprintf("malformed registry path %q: %s", e.Input, e.Reason)
}

// PEPAlreadyExistsError lists every file that would be overwritten without --force
type PEPAlreadyExistsError struct {
	Paths []string
}

func (e *PEPAlreadyExistsError) Error() string {
	return fmt.Sprintf("PEP already exists, files won't be updated without force: %s", strings.Join(e.Paths, ", "))
}

// KindOf returns the kind of the first classified error in err's chain
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var hubErr *HubError
	if errors.As(err, &hubErr) {
		return hubErr.Kind
	}
	var rpErr *MalformedRegistryPathError
	if errors.As(err, &rpErr) {
		return KindMalformedRegistryPath
	}
	var existsErr *PEPAlreadyExistsError
	if errors.As(err, &existsErr) {
		return KindPEPAlreadyExists
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// IsNotFound reports whether err is a hub 404
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}

// IsConflict reports whether err is a hub 409
func IsConflict(err error) bool {
	return IsKind(err, KindConflict)
}

// IsAuthorizationPending reports whether a device code exchange should be retried
func IsAuthorizationPending(err error) bool {
	return IsKind(err, KindAuthorizationPending)
}

// IsTimeout reports whether a request ran past its deadline
func IsTimeout(err error) bool {
	return IsKind(err, KindTimeout)
}

func upstreamMalformed(op string, err error) *HubError {
	return &HubError{Kind: KindUpstreamMalformed, Op: op, Message: "the response looks incorrect and must be verified manually", Err: err}
}
