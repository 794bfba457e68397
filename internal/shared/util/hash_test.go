package util

import "testing"

func TestSHA256Hex(t *testing.T) {
	got := SHA256Hex("system: parse\n\nuser: John Doe")
	if got != SHA256Hex("system: parse\n\nuser: John Doe") {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	if SHA256Hex("") != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Fatalf("unexpected digest for empty input")
	}
}
