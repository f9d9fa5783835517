package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind discriminates the failure classes the transport can produce.
type Kind int

const (
	// KindNetwork means the request never produced a response.
	KindNetwork Kind = iota
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP
	// KindRefreshFailed means a 401 retry was attempted but the session
	// could not be renewed.
	KindRefreshFailed
)

// Error is the single error shape produced at the transport boundary.
// The server's ad-hoc payloads ({detail}, {errors:[{detail}]}, bare field
// maps) are folded into it once, here, so callers never re-parse bodies.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Fields  map[string][]string
	cause   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTP:
		if e.Message != "" {
			return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
		}
		return fmt.Sprintf("api status %d", e.Status)
	case KindRefreshFailed:
		return fmt.Sprintf("session refresh failed: %s", e.Message)
	default:
		return fmt.Sprintf("request failed: %s", e.Message)
	}
}

func (e *Error) Unwrap() error { return e.cause }

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error(), cause: err}
}

// httpError builds a tagged error from a failure response body. It tries,
// in order: a top-level detail string, the first entry of a structured
// errors array, then per-field validation lists.
func httpError(status int, body []byte) *Error {
	e := &Error{Kind: KindHTTP, Status: status}
	if len(body) == 0 {
		return e
	}

	var payload struct {
		Detail string `json:"detail"`
		Code   string `json:"code"`
		Errors []struct {
			Detail string `json:"detail"`
			Code   string `json:"code"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		e.Code = payload.Code
		if payload.Detail != "" {
			e.Message = payload.Detail
			return e
		}
		if len(payload.Errors) > 0 && payload.Errors[0].Detail != "" {
			e.Message = payload.Errors[0].Detail
			if e.Code == "" {
				e.Code = payload.Errors[0].Code
			}
			return e
		}
	}

	// Bare field map, e.g. {"email": ["already taken"]}.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		parsed := make(map[string][]string)
		for name, raw := range fields {
			var list []string
			if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
				parsed[name] = list
			}
		}
		if len(parsed) > 0 {
			e.Fields = parsed
			if e.Message == "" {
				for _, name := range sortedKeys(parsed) {
					e.Message = fmt.Sprintf("%s: %s", name, parsed[name][0])
					break
				}
			}
		}
	}
	return e
}

// MessageFrom extracts the most specific human-readable message from any
// error returned by this package, falling back to the plain error text.
func MessageFrom(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// IsStatus reports whether err is a tagged HTTP error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindHTTP && apiErr.Status == status
}

// tokenExpired recognizes the refresh-token-expiry payload that makes the
// session unrecoverable without a fresh login.
func tokenExpired(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code == "token_not_valid" {
		return true
	}
	return strings.Contains(strings.ToLower(apiErr.Message), "expired")
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
