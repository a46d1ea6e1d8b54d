package feed

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/eldadfux/isAWSback/internal/decode"
)

// Acquirer produces the current normalized incident list. Two
// implementations exist: the full pipeline with defensive decoding and
// layered parse repair, and a deliberately minimal fallback used when the
// full pipeline itself fails.
type Acquirer interface {
	Name() string
	Acquire(ctx context.Context) ([]Event, error)
}

// Pipeline is the rich acquisition path:
// fetch -> decode -> sanitize -> parse -> normalize.
type Pipeline struct {
	client  *Client
	logger  *zap.Logger
	dropped prometheus.Counter
}

// NewPipeline builds the rich acquirer. dropped counts records discarded by
// normalization and may be nil.
func NewPipeline(client *Client, logger *zap.Logger, dropped prometheus.Counter) *Pipeline {
	return &Pipeline{client: client, logger: logger, dropped: dropped}
}

func (p *Pipeline) Name() string { return "pipeline" }

func (p *Pipeline) Acquire(ctx context.Context) ([]Event, error) {
	body, contentType, err := p.client.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	text := decode.Sanitize(decode.Decode(body, contentType))

	raw, err := ParseEvents(text)
	if err != nil {
		return nil, err
	}

	events, dropped := Normalize(raw)
	if dropped > 0 {
		if p.dropped != nil {
			p.dropped.Add(float64(dropped))
		}
		p.logger.Debug("Dropped malformed feed records",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(events)),
		)
	}
	return events, nil
}

// Minimal is the dumbed-down fallback acquirer. It only recognizes an empty
// body or an empty JSON array as "no incidents"; anything else is reported
// as ambiguous so the caller falls back to its cached verdict instead of
// guessing.
type Minimal struct {
	client *Client
}

func NewMinimal(client *Client) *Minimal {
	return &Minimal{client: client}
}

func (m *Minimal) Name() string { return "minimal" }

func (m *Minimal) Acquire(ctx context.Context) ([]Event, error) {
	body, _, err := m.client.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(decode.Sanitize(string(body)))
	if trimmed == "" || trimmed == "[]" {
		return []Event{}, nil
	}
	return nil, &ParseError{Msg: "ambiguous non-empty payload"}
}
