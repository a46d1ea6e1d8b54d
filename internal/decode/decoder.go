package decode

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Decode converts a raw feed payload into text, best effort.
//
// The upstream feed is served through proxies and CDNs that are known to
// relabel or mis-transcode its charset, so the declared content type is
// treated as a hint only. The whole procedure is heuristic: it never fails,
// and in the worst case returns garbled text for the sanitizer and parser
// to deal with.
func Decode(data []byte, contentType string) string {
	if len(data) == 0 {
		return ""
	}

	if declares16Bit(contentType) {
		// Trust the declared width but not the byte order. A byte order
		// mark settles the order outright.
		if order, ok := sniffByteOrder(data); ok {
			return decodeUTF16(data, order)
		}
		text := decodeUTF16(data, unicode.LittleEndian)
		if looksLikeJSON(text) {
			return text
		}
		return decodeUTF16(data, unicode.BigEndian)
	}

	text := decodeUTF8(data)
	if !looksGarbled(text) {
		return text
	}

	// Replacement characters or embedded NULs are the classic symptom of
	// 16-bit data pushed through an 8-bit decoder. Check for a byte order
	// mark before guessing.
	if order, ok := sniffByteOrder(data); ok {
		return decodeUTF16(data, order)
	}

	// No mark present: little-endian is the common case in the wild.
	le := decodeUTF16(data, unicode.LittleEndian)
	if looksLikeJSON(le) && !looksGarbled(le) {
		return le
	}
	be := decodeUTF16(data, unicode.BigEndian)
	if looksLikeJSON(be) && !looksGarbled(be) {
		return be
	}
	if !looksGarbled(le) && !implausiblyShort(le, len(data)) {
		return le
	}
	if !looksGarbled(be) && !implausiblyShort(be, len(data)) {
		return be
	}
	return text
}

// sniffByteOrder reports the byte order named by a leading byte order mark.
func sniffByteOrder(data []byte) (unicode.Endianness, bool) {
	if len(data) >= 2 {
		switch {
		case data[0] == 0xFF && data[1] == 0xFE:
			return unicode.LittleEndian, true
		case data[0] == 0xFE && data[1] == 0xFF:
			return unicode.BigEndian, true
		}
	}
	return unicode.LittleEndian, false
}

// declares16Bit reports whether the content type names a 16-bit encoding.
func declares16Bit(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "utf-16") ||
		strings.Contains(ct, "utf16") ||
		strings.Contains(ct, "ucs-2")
}

func decodeUTF8(data []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(out)
}

func decodeUTF16(data []byte, endianness unicode.Endianness) string {
	dec := unicode.UTF16(endianness, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(out)
}

// looksLikeJSON reports whether text plausibly starts a JSON document.
func looksLikeJSON(text string) bool {
	trimmed := strings.TrimSpace(text)
	return strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{")
}

// looksGarbled reports whether text carries decode damage.
func looksGarbled(text string) bool {
	return strings.ContainsRune(text, utf8.RuneError) ||
		strings.ContainsRune(text, 0)
}

// implausiblyShort reports whether a decode collapsed most of the input,
// another sign of a wrong encoding guess.
func implausiblyShort(text string, rawLen int) bool {
	return len(text) < rawLen/4
}
