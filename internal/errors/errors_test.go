package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigurationError_Error(t *testing.T) {
	err := NewConfigurationError(KindUnresolvedSlot, "headerStart", "missingButton")

	msg := err.Error()
	if !strings.Contains(msg, "unresolved-slot") {
		t.Errorf("Error() = %q, want it to contain the kind", msg)
	}
	if !strings.Contains(msg, `"headerStart" -> "missingButton"`) {
		t.Errorf("Error() = %q, want it to contain id and ref", msg)
	}

	withMsg := NewConfigurationError(KindDuplicateID, "zoom", "").WithMessage("declared twice")
	if !strings.HasSuffix(withMsg.Error(), ": declared twice") {
		t.Errorf("Error() = %q, want message suffix", withMsg.Error())
	}
}

func TestIsConfigurationInvalid(t *testing.T) {
	wrapped := fmt.Errorf("build registry: %w", NewConfigurationError(KindDuplicateID, "a", ""))

	if !IsConfigurationInvalid(wrapped) {
		t.Error("IsConfigurationInvalid() = false for wrapped ConfigurationError")
	}
	if IsConfigurationInvalid(errors.New("other")) {
		t.Error("IsConfigurationInvalid() = true for plain error")
	}
	if IsConfigurationInvalid(nil) {
		t.Error("IsConfigurationInvalid(nil) = true")
	}
}

func TestEngineError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := NewEngineError("A.pdf", "parse", cause)

	if !Is(err, ErrEngineLoad) {
		t.Error("EngineError should match ErrEngineLoad")
	}
	if !Is(err, cause) {
		t.Error("EngineError should unwrap to its cause")
	}
	if !IsEngineFailure(Wrap(err, "mount")) {
		t.Error("IsEngineFailure() = false for wrapped EngineError")
	}
	if got := err.Error(); got != `engine parse "A.pdf": unexpected EOF` {
		t.Errorf("Error() = %q", got)
	}
}

func TestNodeErrorAndPanic(t *testing.T) {
	err := NewNodeError("zoomButton", "project", PanicError("boom"))

	if !Is(err, ErrNodePanic) {
		t.Error("NodeError built from PanicError should match ErrNodePanic")
	}
	if GetSeverity(err) != SeverityWarning {
		t.Errorf("GetSeverity() = %v, want warning", GetSeverity(err))
	}

	inner := errors.New("bad props")
	if !Is(PanicError(inner), inner) {
		t.Error("PanicError should keep an error panic value in the chain")
	}
}

func TestGetSeverity(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Severity
	}{
		{"nil", nil, SeverityDebug},
		{"not ready", Wrap(ErrNotReady, "zoom"), SeverityDebug},
		{"configuration", NewConfigurationError(KindDuplicateID, "a", ""), SeverityError},
		{"plain", errors.New("x"), SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetSeverity(tt.err); got != tt.want {
				t.Errorf("GetSeverity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "x") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "x %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}
	err := Wrapf(ErrNotReady, "capability %s", "zoom")
	if err.Error() != "capability zoom: not ready" {
		t.Errorf("Wrapf() = %q", err.Error())
	}
	if !IsNotReady(err) {
		t.Error("IsNotReady() = false for wrapped ErrNotReady")
	}
}
