package slug

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"unicode"
)

const maxLen = 80

// Make lowercases s and keeps ASCII letters and digits, joining runs of anything
// else with a single hyphen.
func Make(s string) string {
	var sb strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingDash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingDash = false
			sb.WriteRune(r)
		default:
			pendingDash = true
		}
		if sb.Len() >= maxLen {
			break
		}
	}
	out := sb.String()
	if len(out) > maxLen {
		out = out[:maxLen]
	}
	return strings.Trim(out, "-")
}

// WithSuffix appends 8 random hex chars so repeated titles do not collide.
func WithSuffix(s string) string {
	base := Make(s)
	var b [4]byte
	_, _ = rand.Read(b[:])
	suffix := hex.EncodeToString(b[:])
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
