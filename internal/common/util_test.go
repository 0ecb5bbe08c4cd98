package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want string
	}{
		{"first wins", []string{"a", "b"}, "a"},
		{"skips blanks", []string{"", "  ", "c"}, "c"},
		{"all blank", []string{"", " "}, ""},
		{"none", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstNonEmpty(tt.in...); got != tt.want {
				t.Fatalf("FirstNonEmpty(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSentinels_WrapAndMatch(t *testing.T) {
	err := fmt.Errorf("create job: %w", ErrUnauthorized)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected wrapped error to match ErrUnauthorized")
	}
	if errors.Is(err, ErrRemoteRejected) {
		t.Fatalf("unexpected match with ErrRemoteRejected")
	}
}
