package utils

import (
	"crypto/rand"
	"encoding/hex"
	"net/url"
	"strings"
)

// NewResetToken returns a random hex token for password reset links.
func NewResetToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// ResetLink appends the token to the front-end reset page.
func ResetLink(base, token string) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(token)
}

// Fold normalises handles and emails, which are unique case-insensitively.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
