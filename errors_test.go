package gcli

import (
	"errors"
	"fmt"
	"testing"
)

func TestTransportErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &TransportError{URL: "https://example.com", Reason: inner}
	if !errors.Is(err, inner) {
		t.Error("errors.Is did not find the wrapped reason")
	}
	if err.Error() == "" {
		t.Error("Error() returned an empty string")
	}
}

func TestLocalIOErrorUnwrap(t *testing.T) {
	inner := errors.New("permission denied")
	err := &LocalIOError{Path: "/tmp/asset", Reason: inner}
	if !errors.Is(err, inner) {
		t.Error("errors.Is did not find the wrapped reason")
	}
}

func TestHTTPErrorMessage(t *testing.T) {
	err := &HTTPError{URL: "https://example.com/x", StatusCode: 404, Message: "not found"}
	want := "request to https://example.com/x failed with code 404: API error: not found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorsAsDiscriminatesCategory(t *testing.T) {
	var err error = &DecodeError{Func: "github.parse_issue", Reason: "unexpected end of stream"}

	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatal("errors.As failed to match *DecodeError")
	}

	var he *HTTPError
	if errors.As(err, &he) {
		t.Error("errors.As incorrectly matched *HTTPError")
	}
}

func TestDispatchErrorIsAWrappedError(t *testing.T) {
	err := fmt.Errorf("issue_close: %w", &DispatchError{Op: "issue_close", Backend: ForgeBugzilla})
	var de *DispatchError
	if !errors.As(err, &de) {
		t.Fatal("errors.As failed to unwrap to *DispatchError")
	}
	if de.Backend != ForgeBugzilla {
		t.Errorf("Backend = %q, want bugzilla", de.Backend)
	}
}
