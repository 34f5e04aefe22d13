// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSession = errors.New("invalid session token")
	ErrEmptySalt      = errors.New("signing salt is empty")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// SealSession encodes v as JSON and signs it with an HMAC so it can be
// handed to a client and trusted when it comes back.
// Format: base64url(json) "." base64url(hmac-sha256)
func SealSession(v any, salt string) (string, error) {
	if salt == "" {
		return "", ErrEmptySalt
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}

	body := base64.RawURLEncoding.EncodeToString(payload)
	return body + "." + sign(body, salt), nil
}

// OpenSession verifies a token from SealSession and decodes it into v
func OpenSession(token, salt string, v any) error {
	if salt == "" {
		return ErrEmptySalt
	}

	body, mac, ok := strings.Cut(token, ".")
	if !ok || body == "" || mac == "" {
		return ErrInvalidSession
	}

	expected := sign(body, salt)
	if !hmac.Equal([]byte(mac), []byte(expected)) {
		return ErrInvalidSession
	}

	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return nil
}

func sign(body, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(body))
	// URL-safe base64 without padding for cleaner tokens
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
