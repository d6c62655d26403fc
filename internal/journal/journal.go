// Package journal keeps an append-only log of wizard transitions and placed
// orders in the embedded JetStream stream.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/drapery/internal/flow"
	"github.com/mark3labs/drapery/internal/logger"
	"github.com/mark3labs/drapery/internal/nats"
	"github.com/mark3labs/drapery/internal/order"
	"github.com/nats-io/nats.go/jetstream"
)

// Event is one journal entry.
type Event struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Session   string          `json:"session"`
	Type      string          `json:"type"`   // transition, order
	Action    string          `json:"action"` // wizard event or "placed"
	Meta      json.RawMessage `json:"meta,omitempty"`
	Data      string          `json:"data"`
}

type transitionMeta struct {
	From string `json:"from"`
	To   string `json:"to"`
	Item string `json:"item,omitempty"`
}

// Journal publishes one wizard session's events.
type Journal struct {
	js      jetstream.JetStream
	stream  jetstream.Stream
	session string
	now     func() time.Time
}

// New returns a journal for a fresh session id.
func New(js jetstream.JetStream, stream jetstream.Stream) *Journal {
	return &Journal{
		js:      js,
		stream:  stream,
		session: uuid.NewString(),
		now:     time.Now,
	}
}

// Session is the id every event from this journal carries.
func (j *Journal) Session() string { return j.session }

// Publish appends an event under drapery.<session>.<type>.
func (j *Journal) Publish(ctx context.Context, ev Event) (*jetstream.PubAck, error) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = j.now().UTC()
	}
	if ev.Session == "" {
		ev.Session = j.session
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshaling event: %w", err)
	}

	subject := nats.SubjectForEvent(ev.Session, ev.Type)
	ack, err := j.js.Publish(ctx, subject, data)
	if err != nil {
		logger.Error("Failed to publish event to subject %s: %v", subject, err)
		return nil, fmt.Errorf("publishing event: %w", err)
	}
	logger.Debug("Journal event published: type=%s action=%s seq=%d", ev.Type, ev.Action, ack.Sequence)
	return ack, nil
}

// RecordTransition logs a wizard step change.
func (j *Journal) RecordTransition(ctx context.Context, t flow.Transition) error {
	meta := transitionMeta{From: t.From.String(), To: t.To.String()}
	if t.State.Item != nil {
		meta.Item = t.State.Item.ID
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshaling transition: %w", err)
	}
	_, err = j.Publish(ctx, Event{
		Type:   nats.EventTypeTransition,
		Action: string(t.Event),
		Meta:   raw,
		Data:   t.To.String(),
	})
	return err
}

// RecordOrder logs a placed order. The full order is the event data.
func (j *Journal) RecordOrder(ctx context.Context, o order.Order) error {
	raw, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshaling order: %w", err)
	}
	_, err = j.Publish(ctx, Event{
		Type:   nats.EventTypeOrder,
		Action: "placed",
		Data:   string(raw),
	})
	return err
}

// History is the state of one session rebuilt from its events.
type History struct {
	Session     string
	Transitions int
	LastStep    string
	Orders      []order.Order
}

// Apply folds one event into the history.
func (h *History) Apply(ev Event) {
	switch ev.Type {
	case nats.EventTypeTransition:
		h.Transitions++
		h.LastStep = ev.Data
	case nats.EventTypeOrder:
		var o order.Order
		if err := json.Unmarshal([]byte(ev.Data), &o); err != nil {
			logger.Warn("Skipping unreadable order event %s: %v", ev.ID, err)
			return
		}
		h.Orders = append(h.Orders, o)
	}
}

// LoadHistory replays one session's events.
func LoadHistory(ctx context.Context, stream jetstream.Stream, session string) (*History, error) {
	h := &History{Session: session}
	err := replay(ctx, stream, nats.SubjectForSession(session), h.Apply)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Orders returns every placed order across sessions, newest first.
func Orders(ctx context.Context, stream jetstream.Stream) ([]order.Order, error) {
	h := &History{}
	if err := replay(ctx, stream, nats.SubjectForType(nats.EventTypeOrder), h.Apply); err != nil {
		return nil, err
	}
	sort.SliceStable(h.Orders, func(i, k int) bool {
		return h.Orders[i].PlacedAt.After(h.Orders[k].PlacedAt)
	})
	return h.Orders, nil
}

// replay feeds every stored event matching filter to fn, in stream order.
// Malformed messages are acknowledged and skipped.
func replay(ctx context.Context, stream jetstream.Stream, filter string, fn func(Event)) error {
	consumer, err := nats.ReplayConsumer(ctx, stream, filter)
	if err != nil {
		return fmt.Errorf("creating consumer: %w", err)
	}

	const batchSize = 500
	malformed := 0
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		count := 0
		for msg := range msgs.Messages() {
			count++
			var ev Event
			if err := json.Unmarshal(msg.Data(), &ev); err != nil {
				malformed++
				_ = msg.Ack()
				continue
			}
			if ev.ID == "" {
				if meta, err := msg.Metadata(); err == nil {
					ev.ID = fmt.Sprintf("%d", meta.Sequence.Stream)
				}
			}
			fn(ev)
			_ = msg.Ack()
		}
		if count < batchSize {
			break
		}
	}

	if malformed > 0 {
		logger.Warn("Skipped %d malformed journal events", malformed)
	}
	return nil
}
