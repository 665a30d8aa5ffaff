package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/fairway/competitions/internal/domain"
	"github.com/fairway/competitions/internal/metrics"
)

// Publisher receives domain events after the unit of work that produced them committed.
type Publisher interface {
	Publish(ctx context.Context, events ...domain.Event)
}

// LogPublisher writes each event as a structured log line and counts it.
type LogPublisher struct {
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewLogPublisher(log zerolog.Logger, m *metrics.Metrics) *LogPublisher {
	return &LogPublisher{log: log, metrics: m}
}

func (p *LogPublisher) Publish(_ context.Context, events ...domain.Event) {
	for _, ev := range events {
		if ev == nil {
			continue
		}
		p.log.Info().
			Str("event", ev.EventName()).
			Str("aggregate_id", ev.AggregateID().String()).
			Time("occurred_at", ev.OccurredAt()).
			Msg("domain event")
		p.metrics.IncEvent(ev.EventName())
	}
}

// Recorder keeps published events in memory.
type Recorder struct {
	Events []domain.Event
}

func (r *Recorder) Publish(_ context.Context, events ...domain.Event) {
	for _, ev := range events {
		if ev != nil {
			r.Events = append(r.Events, ev)
		}
	}
}

// Names lists the recorded event names in order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.Events))
	for i, ev := range r.Events {
		names[i] = ev.EventName()
	}
	return names
}
