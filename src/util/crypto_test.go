package util

import (
	"strings"
	"testing"
)

func TestSharableAccountIDDeterministic(t *testing.T) {
	a := SharableAccountID("secret", "acct-123")
	b := SharableAccountID("secret", "acct-123")
	if a != b {
		t.Errorf("same input produced different sharable ids: %q vs %q", a, b)
	}
}

func TestSharableAccountIDVariesByInputAndKey(t *testing.T) {
	base := SharableAccountID("secret", "acct-123")
	if other := SharableAccountID("secret", "acct-124"); other == base {
		t.Error("different account ids produced the same sharable id")
	}
	if other := SharableAccountID("other-secret", "acct-123"); other == base {
		t.Error("different secrets produced the same sharable id")
	}
}

func TestSharableAccountIDDoesNotLeakAccountID(t *testing.T) {
	accountID := "acct-sensitive-456"
	sharable := SharableAccountID("secret", accountID)
	if strings.Contains(sharable, accountID) {
		t.Error("sharable id contains the raw account id")
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	sealed, err := SealSecret("key", "123-45-6789")
	if err != nil {
		t.Fatalf("SealSecret() error: %v", err)
	}
	if sealed == "123-45-6789" {
		t.Fatal("sealed value equals plaintext")
	}

	opened, err := OpenSecret("key", sealed)
	if err != nil {
		t.Fatalf("OpenSecret() error: %v", err)
	}
	if opened != "123-45-6789" {
		t.Errorf("OpenSecret() = %q, want original plaintext", opened)
	}
}

func TestSealProducesFreshCiphertexts(t *testing.T) {
	// Random nonce per call: two seals of the same value must differ.
	a, _ := SealSecret("key", "value")
	b, _ := SealSecret("key", "value")
	if a == b {
		t.Error("two seals of the same value are identical")
	}
}

func TestOpenSecretRejectsWrongKey(t *testing.T) {
	sealed, err := SealSecret("key", "value")
	if err != nil {
		t.Fatalf("SealSecret() error: %v", err)
	}
	if _, err := OpenSecret("other-key", sealed); err == nil {
		t.Error("expected error opening with the wrong key")
	}
}

func TestOpenSecretRejectsGarbage(t *testing.T) {
	if _, err := OpenSecret("key", "not base64!!"); err == nil {
		t.Error("expected error for undecodable input")
	}
	if _, err := OpenSecret("key", "AAAA"); err == nil {
		t.Error("expected error for truncated input")
	}
}

func TestExtractCustomerIDFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://rail.test/customers/cus-abc123", "cus-abc123"},
		{"https://rail.test/customers/cus-abc123/", "cus-abc123"},
		{"cus-plain", "cus-plain"},
	}
	for _, tt := range tests {
		if got := ExtractCustomerIDFromURL(tt.url); got != tt.want {
			t.Errorf("ExtractCustomerIDFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
