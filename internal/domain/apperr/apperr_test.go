package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	sentinel := Forbidden("trip is locked")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"sentinel", sentinel, KindForbidden},
		{"wrapped with detail", Wrap(sentinel, "status %s", "APPROVED"), KindForbidden},
		{"wrapped twice", fmt.Errorf("outer: %w", Wrap(NotFound("x"), "y")), KindNotFound},
		{"plain error", errors.New("boom"), KindInternal},
		{"nil", nil, KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrap_KeepsSentinelIdentity(t *testing.T) {
	sentinel := Conflict("period locked")
	err := Wrap(sentinel, "period %s", "2024-12-P1")
	if !errors.Is(err, sentinel) {
		t.Fatalf("errors.Is lost the sentinel: %v", err)
	}
	if want := "period locked: period 2024-12-P1"; err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
	if !IsConflict(err) || IsNotFound(err) {
		t.Fatalf("kind helpers disagree for %v", err)
	}
}
