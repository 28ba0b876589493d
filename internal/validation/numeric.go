package validation

import "strconv"

// extractDigits returns the decimal digits of s in their original order,
// ignoring everything else. "min. 7 0 %" yields "70": digits are
// concatenated positionally, never summed, matching how percentage fields
// are read out of the raw template text.
func extractDigits(s string) string {
	var out []byte
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, byte(r))
		}
	}
	return string(out)
}

// hasDigits reports whether s contains at least one decimal digit.
func hasDigits(s string) bool {
	return extractDigits(s) != ""
}

// concatDigits parses the positionally concatenated digits of s. ok is
// false when s contains no digits at all.
func concatDigits(s string) (n int, ok bool) {
	d := extractDigits(s)
	if d == "" {
		return 0, false
	}
	n, err := strconv.Atoi(d)
	if err != nil {
		// more digits than fit an int; no percentage field is that long
		return 0, false
	}
	return n, true
}
