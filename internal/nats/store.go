package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	// StreamName is the JetStream stream holding every drapery event.
	StreamName = "drapery_events"

	subjectRoot = "drapery"

	// Retention keeps order history for a year.
	Retention = 365 * 24 * time.Hour

	// Event types
	EventTypeTransition = "transition"
	EventTypeOrder      = "order"
)

// SubjectForSession returns the wildcard subject for all events of one
// wizard session, e.g. "drapery.<session>.>".
func SubjectForSession(session string) string {
	return fmt.Sprintf("%s.%s.>", subjectRoot, session)
}

// SubjectForEvent returns the subject for one event type in a session,
// e.g. "drapery.<session>.order".
func SubjectForEvent(session, eventType string) string {
	return fmt.Sprintf("%s.%s.%s", subjectRoot, session, eventType)
}

// SubjectForType matches one event type across all sessions.
func SubjectForType(eventType string) string {
	return fmt.Sprintf("%s.*.%s", subjectRoot, eventType)
}

// SetupStream creates or updates the event stream.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{subjectRoot + ".>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   Retention,
	})
}

// ReplayConsumer creates an ephemeral consumer that delivers every stored
// message matching filter from the start of the stream.
func ReplayConsumer(ctx context.Context, stream jetstream.Stream, filter string) (jetstream.Consumer, error) {
	return stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: filter,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
}
