package feed

// Event is one incident record after normalization. Every field is
// populated: strings default to "", numbers to 0 and containers to empty,
// so downstream logic never checks for absence.
type Event struct {
	Date             string                     `json:"date"`
	ARN              string                     `json:"arn"`
	RegionName       string                     `json:"region_name"`
	Status           string                     `json:"status"`
	Service          string                     `json:"service"`
	ServiceName      string                     `json:"service_name"`
	Summary          string                     `json:"summary"`
	EventLog         []LogEntry                 `json:"event_log"`
	ImpactedServices map[string]ImpactedService `json:"impacted_services"`
}

// LogEntry is one entry of an incident's event log.
type LogEntry struct {
	Summary   string `json:"summary"`
	Message   string `json:"message"`
	Status    int    `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// ImpactedService describes the current impact on a single service.
// Current and Max arrive as string-encoded integers and are kept as strings;
// the verdict engine parses them and treats non-numeric values as benign.
type ImpactedService struct {
	ServiceName string `json:"service_name"`
	Current     string `json:"current"`
	Max         string `json:"max"`
}
