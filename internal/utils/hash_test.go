package utils

import (
	"encoding/base64"
	"testing"
)

func TestGenerateRandomToken(t *testing.T) {
	first, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if first == second {
		t.Fatal("tokens should differ")
	}
	raw, err := base64.RawURLEncoding.DecodeString(first)
	if err != nil {
		t.Fatalf("token is not base64url: %v", err)
	}
	if len(raw) != 32 {
		t.Fatalf("decoded length = %d, want 32", len(raw))
	}
}

func TestHashTokenIsStable(t *testing.T) {
	if HashToken("abc") != HashToken("abc") {
		t.Fatal("digest should be deterministic")
	}
	if HashToken("abc") == HashToken("abd") {
		t.Fatal("different tokens should not share a digest")
	}
	if HashToken("abc") == "abc" {
		t.Fatal("digest must not equal the raw token")
	}
}

func TestNormalizeEmailKeepsCase(t *testing.T) {
	if got := NormalizeEmail("  Jane@Example.com \n"); got != "Jane@Example.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}
