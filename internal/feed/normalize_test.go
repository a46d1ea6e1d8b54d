package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmptyObject(t *testing.T) {
	events, dropped := Normalize([]any{map[string]any{}})
	require.Len(t, events, 1)
	assert.Zero(t, dropped)

	ev := events[0]
	assert.Equal(t, "", ev.Date)
	assert.Equal(t, "", ev.ARN)
	assert.Equal(t, "", ev.RegionName)
	assert.Equal(t, "", ev.Status)
	assert.Equal(t, "", ev.Service)
	assert.Equal(t, "", ev.ServiceName)
	assert.Equal(t, "", ev.Summary)
	assert.NotNil(t, ev.EventLog)
	assert.Empty(t, ev.EventLog)
	assert.NotNil(t, ev.ImpactedServices)
	assert.Empty(t, ev.ImpactedServices)
}

func TestNormalizeDropsNonObjects(t *testing.T) {
	events, dropped := Normalize([]any{
		"a string",
		42.0,
		nil,
		[]any{"nested"},
		map[string]any{"service": "s3"},
	})
	assert.Len(t, events, 1)
	assert.Equal(t, 4, dropped)
	assert.Equal(t, "s3", events[0].Service)
}

func TestNormalizeFullEvent(t *testing.T) {
	events, dropped := Normalize([]any{map[string]any{
		"date":         "2021-12-07",
		"arn":          "arn:aws:health:us-east-1::event/x",
		"region_name":  "us-east-1",
		"status":       "open",
		"service":      "ec2",
		"service_name": "EC2",
		"summary":      "API errors",
		"event_log": []any{
			map[string]any{
				"summary":   "investigating",
				"message":   "elevated error rates",
				"status":    1.0,
				"timestamp": 1638878400.0,
			},
			"not an object",
		},
		"impacted_services": map[string]any{
			"ec2": map[string]any{
				"service_name": "EC2",
				"current":      "3",
				"max":          "5",
			},
			"broken": "not an object",
		},
	}})
	require.Len(t, events, 1)
	assert.Zero(t, dropped)

	ev := events[0]
	assert.Equal(t, "2021-12-07", ev.Date)
	assert.Equal(t, "us-east-1", ev.RegionName)
	assert.Equal(t, "EC2", ev.ServiceName)

	require.Len(t, ev.EventLog, 2)
	assert.Equal(t, "investigating", ev.EventLog[0].Summary)
	assert.Equal(t, 1, ev.EventLog[0].Status)
	assert.Equal(t, int64(1638878400), ev.EventLog[0].Timestamp)
	// Non-object log entries normalize to a fully defaulted entry.
	assert.Equal(t, LogEntry{}, ev.EventLog[1])

	require.Len(t, ev.ImpactedServices, 2)
	assert.Equal(t, ImpactedService{ServiceName: "EC2", Current: "3", Max: "5"}, ev.ImpactedServices["ec2"])
	assert.Equal(t, ImpactedService{}, ev.ImpactedServices["broken"])
}

func TestNormalizeCamelCaseKeys(t *testing.T) {
	events, _ := Normalize([]any{map[string]any{
		"regionName":  "eu-west-1",
		"serviceName": "S3",
		"impactedServices": map[string]any{
			"s3": map[string]any{"serviceName": "S3", "current": "1", "max": "2"},
		},
	}})
	require.Len(t, events, 1)
	assert.Equal(t, "eu-west-1", events[0].RegionName)
	assert.Equal(t, "S3", events[0].ImpactedServices["s3"].ServiceName)
}

func TestNormalizeWrongTypedContainers(t *testing.T) {
	events, _ := Normalize([]any{map[string]any{
		"event_log":         "should be an array",
		"impacted_services": []any{"should be an object"},
	}})
	require.Len(t, events, 1)
	assert.Empty(t, events[0].EventLog)
	assert.Empty(t, events[0].ImpactedServices)
}

func TestNormalizeNumericCurrent(t *testing.T) {
	// "current" is documented as a string-encoded integer but has been
	// seen unquoted.
	events, _ := Normalize([]any{map[string]any{
		"impacted_services": map[string]any{
			"s3": map[string]any{"service_name": "S3", "current": 2.0, "max": 5.0},
		},
	}})
	require.Len(t, events, 1)
	assert.Equal(t, "2", events[0].ImpactedServices["s3"].Current)
}

func TestNormalizeNeverPanics(t *testing.T) {
	inputs := [][]any{
		nil,
		{},
		{nil, nil, nil},
		{map[string]any{"event_log": []any{nil}, "impacted_services": map[string]any{"x": nil}}},
	}
	for _, in := range inputs {
		_, _ = Normalize(in)
	}
}
