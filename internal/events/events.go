// Package events publishes domain events for downstream consumers.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	VideoPublished      = "video.published"
	VideoDeleted        = "video.deleted"
	UserDeleted         = "user.deleted"
	SubscriptionCreated = "subscription.created"
	SubscriptionDeleted = "subscription.deleted"
)

type Event struct {
	Type      string    `json:"type"`
	ActorID   string    `json:"actorId"`
	SubjectID string    `json:"subjectId"`
	At        time.Time `json:"at"`
}

func New(eventType, actorID, subjectID string) Event {
	return Event{Type: eventType, ActorID: actorID, SubjectID: subjectID, At: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Emit publishes e and logs instead of failing the caller.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		slog.Warn("event publish failed", "type", e.Type, "subject", e.SubjectID, "error", err)
	}
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                        { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}
