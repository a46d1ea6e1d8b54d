package feed

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// offendingCharPattern matches the character encoding/json names in its
// syntax errors. Matching error text is fragile across parser versions, so
// the repair step that depends on it is best-effort and skipped whenever the
// message is not in this shape.
var offendingCharPattern = regexp.MustCompile(`invalid character '((?:\\.|[^'])+)'`)

// ParseEvents parses sanitized feed text into a JSON array. The upstream
// feed has reproducible encoding corruption (stray bytes left by charset
// mis-detection), so a direct parse failure triggers a bounded sequence of
// repairs: remove the single character the parser choked on, then extract
// the greedy [...] substring. The goal is to recover the array payload
// around a handful of corrupted bytes, not to validate the feed.
func ParseEvents(text string) ([]any, error) {
	value, firstErr := parseJSON(text)
	if firstErr == nil {
		return requireArray(value, "payload is not a JSON array")
	}

	if ch, ok := offendingChar(firstErr); ok {
		repaired := strings.ReplaceAll(text, string(ch), "")
		if value, err := parseJSON(repaired); err == nil {
			if arr, ok := value.([]any); ok {
				return arr, nil
			}
		}
	}

	if start, end := strings.Index(text, "["), strings.LastIndex(text, "]"); start >= 0 && end > start {
		if value, err := parseJSON(text[start : end+1]); err == nil {
			return requireArray(value, firstErr.Error())
		}
	}

	return nil, &ParseError{Msg: firstErr.Error(), Err: firstErr}
}

func parseJSON(text string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, err
	}
	return value, nil
}

func requireArray(value any, msg string) ([]any, error) {
	arr, ok := value.([]any)
	if !ok {
		return nil, &ParseError{Msg: msg}
	}
	return arr, nil
}

// offendingChar recovers the single character named in a JSON syntax error,
// if the message is recognizable.
func offendingChar(err error) (rune, bool) {
	m := offendingCharPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0, false
	}
	quoted, err2 := strconv.Unquote("'" + m[1] + "'")
	if err2 != nil || quoted == "" {
		return 0, false
	}
	return []rune(quoted)[0], true
}
