package verdict

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/eldadfux/isAWSback/internal/feed"
)

// Status is the tri-state health signal.
type Status int

const (
	StatusUnknown Status = iota
	StatusOperational
	StatusDegraded
)

func (s Status) String() string {
	switch s {
	case StatusOperational:
		return "operational"
	case StatusDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Answer is the value consumers see: "yes" means the platform is back
// (operational), "no" means it is degraded.
func (s Status) Answer() string {
	switch s {
	case StatusOperational:
		return "yes"
	case StatusDegraded:
		return "no"
	default:
		return "unknown"
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(s.Answer())), nil
}

func (s *Status) UnmarshalJSON(data []byte) error {
	answer, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	switch answer {
	case "yes":
		*s = StatusOperational
	case "no":
		*s = StatusDegraded
	default:
		*s = StatusUnknown
	}
	return nil
}

// Verdict is the derived health signal served to consumers. LastUpdated is
// the acquisition time, not any feed-reported time; the feed's own
// timestamps are unreliable for "now".
type Verdict struct {
	Status      Status `json:"status"`
	LastUpdated string `json:"lastUpdated"`
	Details     string `json:"details"`
}

const detailsAllOperational = "All services operational"

// Evaluate reduces normalized events to a verdict. It always succeeds: the
// platform counts as degraded iff at least one impacted service across all
// events reports a current impact greater than zero. Severity and scope are
// deliberately not distinguished; one regional impact reads the same as a
// global outage.
func Evaluate(events []feed.Event, now time.Time) Verdict {
	impacted := map[string]struct{}{}
	for _, ev := range events {
		for _, svc := range ev.ImpactedServices {
			n, err := strconv.Atoi(strings.TrimSpace(svc.Current))
			if err == nil && n > 0 {
				impacted[svc.ServiceName] = struct{}{}
			}
		}
	}

	v := Verdict{
		Status:      StatusOperational,
		LastUpdated: timestamp(now),
		Details:     detailsAllOperational,
	}
	if len(impacted) > 0 {
		v.Status = StatusDegraded
		v.Details = pluralize(len(impacted))
	}
	return v
}

// Unavailable builds the verdict served when acquisition failed and no
// usable cached verdict exists.
func Unavailable(now time.Time, reason string) Verdict {
	return Verdict{
		Status:      StatusUnknown,
		LastUpdated: timestamp(now),
		Details:     reason,
	}
}

func pluralize(count int) string {
	if count == 1 {
		return "1 service impacted"
	}
	return fmt.Sprintf("%d services impacted", count)
}

func timestamp(now time.Time) string {
	return now.UTC().Format(time.RFC3339)
}
