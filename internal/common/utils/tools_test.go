package utils

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if len(id) != 12 {
			t.Fatalf("id length = %d, want 12", len(id))
		}
		for _, r := range id {
			if !strings.ContainsRune(AlphaNum, r) {
				t.Fatalf("id %s contains unexpected rune %c", id, r)
			}
		}
		seen[id] = true
	}
	if len(seen) < 90 {
		t.Fatalf("ids not random enough, %d unique of 100", len(seen))
	}
}

func TestGeneratePasscode(t *testing.T) {
	confusable := "0O1Il"
	for i := 0; i < 200; i++ {
		code := GeneratePasscode()
		if len(code) != 6 {
			t.Fatalf("passcode length = %d, want 6", len(code))
		}
		for _, r := range code {
			if strings.ContainsRune(confusable, r) {
				t.Fatalf("passcode %s contains confusable rune %c", code, r)
			}
			if !strings.ContainsRune(PasscodeAlphabet, r) {
				t.Fatalf("passcode %s contains rune %c outside alphabet", code, r)
			}
		}
	}
}

func TestNewReqID(t *testing.T) {
	a := NewReqID()
	b := NewReqID()
	if a == "" || b == "" {
		t.Fatal("empty request id")
	}
	if a == b {
		t.Fatalf("request ids not unique: %s", a)
	}
}
