package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failed gateway call. It is the only error surface the
// layers above the gateway are allowed to depend on; raw transport errors
// never leave this package.
type Kind uint8

const (
	// KindNetwork covers unreachable hosts, timeouts and cancelled calls.
	KindNetwork Kind = iota + 1
	// KindAuthRejected covers 401/403 responses: invalid credentials or an
	// identifier the backend no longer accepts.
	KindAuthRejected
	// KindServerError covers 5xx responses and business-rule rejections.
	KindServerError
	// KindMalformedResponse covers undecodable or schema-mismatched payloads.
	KindMalformedResponse
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "Network"
	case KindAuthRejected:
		return "AuthRejected"
	case KindServerError:
		return "ServerError"
	case KindMalformedResponse:
		return "MalformedResponse"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Error is the normalized form of any failed backend call.
type Error struct {
	Kind       Kind
	StatusCode int // 0 when the request never completed
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("gateway: %s [%d]: %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gateway: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the classification of err, or 0 if err did not originate
// from a gateway call.
func KindOf(err error) Kind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return 0
}

// IsAuthRejected reports whether err is an authentication rejection. This is
// the class that must always propagate up to session invalidation.
func IsAuthRejected(err error) bool { return KindOf(err) == KindAuthRejected }

func newError(kind Kind, status int, msg string, cause error) *Error {
	return &Error{Kind: kind, StatusCode: status, Message: msg, Err: cause}
}

// errorMessage extracts a human-readable message from an error payload. The
// backend is inconsistent about its error shapes (a string under "error", an
// object, sometimes "message" or "detail") so all variants are normalized
// here.
func errorMessage(body []byte, fallback string) string {
	var withError struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Detail  string          `json:"detail"`
	}
	if err := json.Unmarshal(body, &withError); err == nil {
		if len(withError.Error) > 0 {
			var s string
			if err := json.Unmarshal(withError.Error, &s); err == nil {
				return s
			}
			return string(withError.Error)
		}
		if withError.Message != "" {
			return withError.Message
		}
		if withError.Detail != "" {
			return withError.Detail
		}
	}
	var plain string
	if err := json.Unmarshal(body, &plain); err == nil && plain != "" {
		return plain
	}
	return fallback
}
