package feed

import "fmt"

// NetworkError covers connection failures, timeouts and non-2xx responses
// from the upstream feed.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("feed request to %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("feed request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError means the payload could not be recovered as a JSON array even
// after the repair attempts. Msg carries the original parser error.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	return "feed payload unparseable: " + e.Msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
