// Package utm normalizes campaign parameters carried in mini-app start
// parameters. Campaigns arrive either as plain tokens or base64-encoded
// (standard or URL-safe alphabet, with or without padding).
package utm

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// Decode returns the decoded campaign parameter when s is base64-encoded,
// otherwise it returns s unchanged. Decoding never fails: anything that does
// not round-trip cleanly is treated as a plain token.
func Decode(s string) string {
	if s == "" {
		return s
	}

	decoded, ok := tryDecode(s)
	if !ok {
		return s
	}
	return decoded
}

// IsEncoded reports whether s is a base64 encoding of a printable token.
func IsEncoded(s string) bool {
	_, ok := tryDecode(s)
	return ok
}

func tryDecode(s string) (string, bool) {
	// Normalize URL-safe alphabet and padding before decoding.
	normalized := strings.ReplaceAll(s, "-", "+")
	normalized = strings.ReplaceAll(normalized, "_", "/")
	if rem := len(normalized) % 4; rem != 0 {
		normalized += strings.Repeat("=", 4-rem)
	}

	raw, err := base64.StdEncoding.DecodeString(normalized)
	if err != nil || len(raw) == 0 {
		return "", false
	}

	decoded := string(raw)
	if !utf8.ValidString(decoded) || !printable(decoded) {
		return "", false
	}

	// Require a strict round-trip so short plain tokens that happen to be
	// valid base64 of binary junk are left alone.
	if base64.StdEncoding.EncodeToString(raw) != normalized {
		return "", false
	}

	return decoded, true
}

func printable(s string) bool {
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}
