package services_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"astrogen/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrUpstream, "fetching", "subsector", "Regina (J)", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"fetching", "subsector", "Regina (J)", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "build failure") {
		t.Fatalf("expected default detail, got %q", err.Error())
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{services.Wrap(services.ErrUnsupportedFormat, "validating", "format", "pdf", nil), http.StatusBadRequest},
		{services.Wrap(services.ErrValidation, "validating", "sector", "empty", nil), http.StatusBadRequest},
		{services.Wrap(services.ErrBusy, "locking", "", "", nil), http.StatusConflict},
		{services.Wrap(services.ErrUpstream, "fetching", "", "", errors.New("io")), http.StatusBadGateway},
		{services.Wrap(services.ErrEmission, "formatting", "", "", errors.New("disk")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := services.HTTPStatus(tt.err); got != tt.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestExitCodeMapping(t *testing.T) {
	if code := services.ExitCode(nil); code != 0 {
		t.Fatalf("expected 0 for nil, got %d", code)
	}
	if code := services.ExitCode(services.Wrap(services.ErrUnsupportedFormat, "", "", "x", nil)); code != 2 {
		t.Fatalf("expected 2 for unsupported format, got %d", code)
	}
	if code := services.ExitCode(services.Wrap(services.ErrBusy, "", "", "x", nil)); code != 3 {
		t.Fatalf("expected 3 for busy, got %d", code)
	}
	if code := services.ExitCode(errors.New("other")); code != 1 {
		t.Fatalf("expected 1 for generic error, got %d", code)
	}
}
