package idgen

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateSecureID(t *testing.T) {
	tests := []struct {
		name       string
		prefix     string
		length     int
		wantErr    bool
		wantPrefix string
	}{
		{name: "request id", prefix: "req", length: 16, wantPrefix: "req_"},
		{name: "short id", prefix: "test", length: 4, wantPrefix: "test_"},
		{name: "zero length", prefix: "test", length: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateSecureID(tt.prefix, tt.length)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GenerateSecureID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("GenerateSecureID() = %v, want prefix %v", got, tt.wantPrefix)
			}
			if len(got) != len(tt.wantPrefix)+tt.length {
				t.Errorf("GenerateSecureID() length = %d, want %d", len(got), len(tt.wantPrefix)+tt.length)
			}
			for _, ch := range strings.TrimPrefix(got, tt.wantPrefix) {
				if !strings.ContainsRune(charset, ch) {
					t.Errorf("GenerateSecureID() contains invalid char %q", ch)
				}
			}
		})
	}
}

func TestGenerateCallID(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	got, err := GenerateCallID(now)
	if err != nil {
		t.Fatalf("GenerateCallID() error = %v", err)
	}
	if !strings.HasPrefix(got, "session_1700000000123_") {
		t.Errorf("GenerateCallID() = %v, want session_1700000000123_ prefix", got)
	}
	if !IsCallID(got) {
		t.Errorf("IsCallID(%q) = false", got)
	}

	other, err := GenerateCallID(now)
	if err != nil {
		t.Fatalf("GenerateCallID() error = %v", err)
	}
	if other == got {
		t.Errorf("GenerateCallID() produced duplicate %v", got)
	}
}

func TestIsCallID(t *testing.T) {
	tests := map[string]bool{
		"session_1700000000123_abc12345": true,
		"session_1700000000123_":         false,
		"session_abc_abc12345":           false,
		"room_1700000000123_abc12345":    false,
		"":                               false,
	}
	for id, want := range tests {
		if got := IsCallID(id); got != want {
			t.Errorf("IsCallID(%q) = %v, want %v", id, got, want)
		}
	}
}
