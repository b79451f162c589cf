package id

import (
	"encoding/hex"
	"regexp"
	"testing"
)

var (
	reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)
	reCode  = regexp.MustCompile(`^[A-Z0-9]+$`)
)

func TestNewID32_FormatAndDecode(t *testing.T) {
	got := NewID32()

	if !reHex32.MatchString(got) {
		t.Fatalf("not 32-char lowercase hex: %q", got)
	}
	b, err := hex.DecodeString(got)
	if err != nil {
		t.Fatalf("hex.DecodeString error: %v", err)
	}
	if len(b) != 16 {
		t.Fatalf("decoded bytes = %d, want 16", len(b))
	}
}

func TestNewID32_Uniqueness(t *testing.T) {
	const n = 200
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		v := NewID32()
		if _, ok := seen[v]; ok {
			t.Fatalf("duplicate id after %d iterations: %q", i, v)
		}
		seen[v] = struct{}{}
	}
}

func TestRandomCode(t *testing.T) {
	for _, n := range []int{0, 1, 4, 12} {
		got := RandomCode(n)
		if len(got) != n {
			t.Fatalf("RandomCode(%d) length = %d", n, len(got))
		}
		if n > 0 && !reCode.MatchString(got) {
			t.Fatalf("RandomCode(%d) = %q, want only [A-Z0-9]", n, got)
		}
	}
}
