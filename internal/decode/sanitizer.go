package decode

import (
	"strings"
	"unicode/utf8"
)

// sampleLimit caps how many leading runes the misread detector inspects.
const sampleLimit = 256

// Sanitize strips the debris a wrong encoding guess leaves behind, producing
// text that is safe to hand to a JSON parser. It is deterministic, total and
// never fails.
func Sanitize(text string) string {
	text = stripLeadingBOM(text)

	if hasMisreadSignature(text) {
		text = stripRunes(text, true)
	} else {
		text = stripRunes(text, false)
	}

	// A replacement character can survive the targeted strip when the
	// misread detector did not trigger.
	text = strings.ReplaceAll(text, string(utf8.RuneError), "")

	return strings.TrimSpace(text)
}

// stripLeadingBOM removes a byte order mark in any of its common decoded
// forms, including the wrong-endian misread of one.
func stripLeadingBOM(text string) string {
	for {
		r, size := utf8.DecodeRuneInString(text)
		if r == '\uFEFF' || r == '\uFFFE' {
			text = text[size:]
			continue
		}
		return text
	}
}

// hasMisreadSignature reports whether text looks like 16-bit data that was
// read through an 8-bit decoder: a leading replacement character, or a large
// share of zero character codes at odd or even positions.
func hasMisreadSignature(text string) bool {
	runes := []rune(text)
	if len(runes) > 0 && runes[0] == utf8.RuneError {
		return true
	}
	if len(runes) <= 10 {
		return false
	}
	if len(runes) > sampleLimit {
		runes = runes[:sampleLimit]
	}

	var oddZeros, evenZeros, odd, even int
	for i, r := range runes {
		if i%2 == 0 {
			even++
			if r == 0 {
				evenZeros++
			}
		} else {
			odd++
			if r == 0 {
				oddZeros++
			}
		}
	}
	return (odd > 0 && float64(oddZeros)/float64(odd) > 0.3) ||
		(even > 0 && float64(evenZeros)/float64(even) > 0.3)
}

// stripRunes drops NUL bytes and control characters. In aggressive mode it
// also drops C1 controls and replacement characters left over from a misread.
func stripRunes(text string, aggressive bool) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == 0:
			continue
		case r == '\t' || r == '\n' || r == '\r':
			// JSON-legal whitespace stays.
		case r < 0x20 || r == 0x7F:
			continue
		case aggressive && r >= 0x80 && r <= 0x9F:
			continue
		case aggressive && r == utf8.RuneError:
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
