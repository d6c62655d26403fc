package journal

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/drapery/internal/catalog"
	"github.com/mark3labs/drapery/internal/flow"
	"github.com/mark3labs/drapery/internal/measure"
	"github.com/mark3labs/drapery/internal/nats"
	"github.com/mark3labs/drapery/internal/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startNATS(t *testing.T) *nats.Embedded {
	t.Helper()
	e, err := nats.Start(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func placeAt(t *testing.T, id string, at time.Time) order.Order {
	t.Helper()
	item := catalog.MustDefault().Items()[0]
	m := measure.Measurements{Width: 150, Height: 220, RoomType: "bedroom", InstallationType: "wall"}
	o, err := order.Placer{
		Now:    func() time.Time { return at },
		NextID: func() string { return id },
	}.Place(&item, &m, order.Extras{Heading: "eyelet"})
	require.NoError(t, err)
	return o
}

func TestJournal_RecordsTransitionsAndOrders(t *testing.T) {
	e := startNATS(t)
	ctx := context.Background()
	j := New(e.JS, e.Stream)

	m := flow.New()
	m.OnTransition(func(tr flow.Transition) {
		require.NoError(t, j.RecordTransition(ctx, tr))
	})

	item := catalog.MustDefault().Items()[0]
	_, err := m.Select(item)
	require.NoError(t, err)
	_, err = m.Continue()
	require.NoError(t, err)
	_, err = m.Submit(measure.Measurements{Width: 150, Height: 220, RoomType: "bedroom", InstallationType: "wall"})
	require.NoError(t, err)

	o := placeAt(t, "ONE", time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, j.RecordOrder(ctx, o))

	h, err := LoadHistory(ctx, e.Stream, j.Session())
	require.NoError(t, err)
	assert.Equal(t, 3, h.Transitions)
	assert.Equal(t, "summary", h.LastStep)
	require.Len(t, h.Orders, 1)
	assert.Equal(t, "CRT-ONE", h.Orders[0].Number)
	assert.Equal(t, "eyelet", h.Orders[0].Extras.Heading)
	assert.InDelta(t, 838.75, h.Orders[0].Breakdown.Total, 1e-9)
	assert.True(t, o.PlacedAt.Equal(h.Orders[0].PlacedAt))
}

func TestOrders_AcrossSessionsNewestFirst(t *testing.T) {
	e := startNATS(t)
	ctx := context.Background()

	first := New(e.JS, e.Stream)
	second := New(e.JS, e.Stream)
	require.NotEqual(t, first.Session(), second.Session())

	require.NoError(t, first.RecordOrder(ctx, placeAt(t, "OLD", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, second.RecordOrder(ctx, placeAt(t, "NEW", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))))

	orders, err := Orders(ctx, e.Stream)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "CRT-NEW", orders[0].Number)
	assert.Equal(t, "CRT-OLD", orders[1].Number)
}

func TestOrders_SkipsMalformed(t *testing.T) {
	e := startNATS(t)
	ctx := context.Background()
	j := New(e.JS, e.Stream)

	_, err := e.JS.Publish(ctx, nats.SubjectForEvent(j.Session(), nats.EventTypeOrder), []byte("{not json"))
	require.NoError(t, err)
	_, err = j.Publish(ctx, Event{Type: nats.EventTypeOrder, Action: "placed", Data: "also not json"})
	require.NoError(t, err)
	require.NoError(t, j.RecordOrder(ctx, placeAt(t, "OK", time.Now())))

	orders, err := Orders(ctx, e.Stream)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "CRT-OK", orders[0].Number)
}

func TestLoadHistory_EmptySession(t *testing.T) {
	e := startNATS(t)
	h, err := LoadHistory(context.Background(), e.Stream, "nobody")
	require.NoError(t, err)
	assert.Zero(t, h.Transitions)
	assert.Empty(t, h.Orders)
}
