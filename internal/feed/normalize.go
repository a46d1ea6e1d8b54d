package feed

import (
	"math"
	"strconv"
)

// Normalize coerces the loosely-typed records a feed parse produces into
// fully-populated events. Elements that are not objects are dropped rather
// than failing the batch; the dropped count is returned so callers can log
// or count it. Normalization itself is total and never fails.
func Normalize(raw []any) ([]Event, int) {
	events := make([]Event, 0, len(raw))
	dropped := 0
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			dropped++
			continue
		}
		events = append(events, normalizeEvent(obj))
	}
	return events, dropped
}

func normalizeEvent(obj map[string]any) Event {
	ev := Event{
		Date:             asString(lookup(obj, "date")),
		ARN:              asString(lookup(obj, "arn")),
		RegionName:       asString(lookup(obj, "region_name", "regionName")),
		Status:           asString(lookup(obj, "status")),
		Service:          asString(lookup(obj, "service")),
		ServiceName:      asString(lookup(obj, "service_name", "serviceName")),
		Summary:          asString(lookup(obj, "summary")),
		EventLog:         []LogEntry{},
		ImpactedServices: map[string]ImpactedService{},
	}

	if entries, ok := lookup(obj, "event_log", "eventLog").([]any); ok {
		for _, entry := range entries {
			m, _ := entry.(map[string]any)
			ev.EventLog = append(ev.EventLog, LogEntry{
				Summary:   asString(lookup(m, "summary")),
				Message:   asString(lookup(m, "message")),
				Status:    int(asInt64(lookup(m, "status"))),
				Timestamp: asInt64(lookup(m, "timestamp")),
			})
		}
	}

	if services, ok := lookup(obj, "impacted_services", "impactedServices").(map[string]any); ok {
		for key, value := range services {
			m, _ := value.(map[string]any)
			ev.ImpactedServices[key] = ImpactedService{
				ServiceName: asString(lookup(m, "service_name", "serviceName")),
				Current:     asString(lookup(m, "current")),
				Max:         asString(lookup(m, "max")),
			}
		}
	}

	return ev
}

// lookup returns the first present key. The feed has been observed using
// both snake_case and camelCase for the same fields.
func lookup(obj map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			return v
		}
	}
	return nil
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// Numeric fields like "current" occasionally arrive unquoted.
		if s == math.Trunc(s) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case string:
		if parsed, err := strconv.ParseInt(n, 10, 64); err == nil {
			return parsed
		}
	}
	return 0
}
