package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "validation", err: Validation("file must be an audio file"), want: KindValidation},
		{name: "unavailable", err: Unavailable("models not loaded"), want: KindUnavailable},
		{name: "not found", err: NotFound("session ID not found: %s", "abc"), want: KindNotFound},
		{name: "upstream", err: Upstream("error processing audio", errors.New("boom")), want: KindUpstream},
		{name: "wrapped", err: fmt.Errorf("handler: %w", NotFound("session ID not found: x")), want: KindNotFound},
		{name: "plain error", err: errors.New("boom"), want: KindInternal},
		{name: "nil unwraps to internal", err: errors.New(""), want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpstreamMessageIncludesCause(t *testing.T) {
	err := Upstream("error during chat", errors.New("runner timeout"))
	if err.Error() != "error during chat: runner timeout" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, err.Err) {
		t.Error("cause not reachable via errors.Is")
	}
}

func TestNotFoundNamesTheId(t *testing.T) {
	err := NotFound("session ID not found: %s", "deadbeef")
	if err.Error() != "session ID not found: deadbeef" {
		t.Errorf("Error() = %q", err.Error())
	}
}
