package util

import (
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// SharableAccountID derives the display-safe identifier for a bank
// account from its raw aggregator account id. The transform is a keyed
// HMAC: deterministic, so the same account always maps to the same
// sharable id, and one-way without the secret.
func SharableAccountID(secret, accountID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(accountID))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// SealSecret encrypts a sensitive field for storage at rest. Output is
// base64(nonce || ciphertext).
func SealSecret(key, plaintext string) (string, error) {
	aead, err := newRecordAEAD(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// OpenSecret reverses SealSecret.
func OpenSecret(key, sealed string) (string, error) {
	aead, err := newRecordAEAD(key)
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decode sealed value: %w", err)
	}
	if len(raw) < aead.NonceSize() {
		return "", errors.New("sealed value too short")
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("open sealed value: %w", err)
	}
	return string(plaintext), nil
}

func newRecordAEAD(key string) (cipher.AEAD, error) {
	// Keys come from the environment as arbitrary strings; hash down to
	// the 32 bytes chacha20poly1305 requires.
	sum := sha256.Sum256([]byte(key))
	return chacha20poly1305.NewX(sum[:])
}

// ExtractCustomerIDFromURL pulls the customer id out of a payment-rail
// customer resource URL (the trailing path segment).
func ExtractCustomerIDFromURL(customerURL string) string {
	trimmed := strings.TrimRight(customerURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return trimmed
	}
	return trimmed[idx+1:]
}
