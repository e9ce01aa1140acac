package notify

import "strings"

// NormalizeLK turns a Sri Lankan mobile number (0771234567, 94771234567,
// +94771234567, 771234567) into +94 form. ok is false when the result does
// not look like a +94 number.
func NormalizeLK(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	n := b.String()

	switch {
	case n == "":
		return "", false
	case strings.HasPrefix(n, "+"):
	case strings.HasPrefix(n, "94"):
		n = "+" + n
	case strings.HasPrefix(n, "0"):
		n = "+94" + n[1:]
	case len(n) >= 9 && len(n) <= 10:
		n = "+94" + n
	}

	if !strings.HasPrefix(n, "+94") || len(n) < 12 || len(n) > 16 {
		return "", false
	}
	return n, true
}
