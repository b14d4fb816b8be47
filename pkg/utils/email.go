package utils

import "strings"

// NormalizeEmail canonicalizes an address for rate limit keys and token
// records so casing and stray whitespace never split one sender across
// multiple buckets.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
