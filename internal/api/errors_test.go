package api

import (
	"errors"
	"fmt"
	"testing"
)

func TestHTTPError_MessageExtractionOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"detail wins", `{"detail": "no such rose"}`, "no such rose"},
		{"first structured error", `{"errors": [{"detail": "bad page"}, {"detail": "ignored"}]}`, "bad page"},
		{"field map", `{"email": ["already registered"], "username": ["too short"]}`, "email: already registered"},
		{"empty body", ``, ""},
		{"unparseable body", `<html>busted</html>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := httpError(400, []byte(tt.body))
			if e.Kind != KindHTTP || e.Status != 400 {
				t.Fatalf("error = %#v, want KindHTTP status 400", e)
			}
			if e.Message != tt.message {
				t.Fatalf("Message = %q, want %q", e.Message, tt.message)
			}
		})
	}
}

func TestHTTPError_FieldsPassThrough(t *testing.T) {
	t.Parallel()

	e := httpError(400, []byte(`{"password": ["too common", "too short"]}`))
	if got := e.Fields["password"]; len(got) != 2 || got[0] != "too common" {
		t.Fatalf("Fields[password] = %v, want both messages", got)
	}
}

func TestMessageFrom(t *testing.T) {
	t.Parallel()

	if got := MessageFrom(httpError(500, []byte(`{"detail": "boom"}`))); got != "boom" {
		t.Fatalf("MessageFrom = %q, want boom", got)
	}
	wrapped := fmt.Errorf("outer: %w", httpError(404, []byte(`{"detail": "gone"}`)))
	if got := MessageFrom(wrapped); got != "gone" {
		t.Fatalf("MessageFrom(wrapped) = %q, want gone", got)
	}
	plain := errors.New("connection refused")
	if got := MessageFrom(plain); got != "connection refused" {
		t.Fatalf("MessageFrom(plain) = %q, want the error text", got)
	}
	if got := MessageFrom(nil); got != "" {
		t.Fatalf("MessageFrom(nil) = %q, want empty", got)
	}
}

func TestTokenExpired(t *testing.T) {
	t.Parallel()

	byCode := httpError(401, []byte(`{"detail": "Token is invalid", "code": "token_not_valid"}`))
	if !tokenExpired(byCode) {
		t.Fatalf("tokenExpired = false for token_not_valid code")
	}
	byText := httpError(401, []byte(`{"detail": "Refresh token expired"}`))
	if !tokenExpired(byText) {
		t.Fatalf("tokenExpired = false for expired detail text")
	}
	other := httpError(401, []byte(`{"detail": "bad credentials"}`))
	if tokenExpired(other) {
		t.Fatalf("tokenExpired = true for unrelated 401")
	}
	if tokenExpired(errors.New("plain")) {
		t.Fatalf("tokenExpired = true for non-api error")
	}
}
