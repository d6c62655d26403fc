package wizard

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/drapery/internal/flow"
	"github.com/mark3labs/drapery/internal/hooks"
	"github.com/mark3labs/drapery/internal/journal"
	"github.com/mark3labs/drapery/internal/nats"
	"github.com/mark3labs/drapery/internal/order"
	"github.com/mark3labs/drapery/internal/tui/testfixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startJournal(t *testing.T) (*nats.Embedded, *journal.Journal) {
	t.Helper()
	e, err := nats.Start(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e, journal.New(e.JS, e.Stream)
}

func placedOrder(t *testing.T) order.Order {
	t.Helper()
	item, m := testfixtures.Silk(), testfixtures.Window()
	o, err := testfixtures.FixedPlacer().Place(&item, &m, order.Extras{})
	require.NoError(t, err)
	return o
}

func TestServices_WithoutCollaborators(t *testing.T) {
	var svc Services
	assert.Nil(t, svc.recordTransition(flow.Transition{}))
	assert.Nil(t, svc.captureSaved(CaptureSavedMsg{}))
	assert.Equal(t, HooksRanMsg{}, svc.orderPlaced(placedOrder(t))())
}

func TestServices_OrderPlacedJournalsAndRunsHooks(t *testing.T) {
	e, j := startJournal(t)
	svc := Services{
		Journal: j,
		WorkDir: t.TempDir(),
		Hooks: &hooks.Config{Hooks: hooks.HooksConfig{
			OrderPlaced: []*hooks.HookConfig{
				{Command: "echo placed {{order}} {{fabric}} {{total}}"},
			},
		}},
	}
	o := placedOrder(t)

	msg, ok := svc.orderPlaced(o)().(HooksRanMsg)
	require.True(t, ok)
	assert.Equal(t, "placed CRT-TESTORDER01 Silk Elegance 838.75", strings.TrimSpace(msg.Output))

	orders, err := journal.Orders(context.Background(), e.Stream)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, o.Number, orders[0].Number)
}

func TestServices_RecordTransition(t *testing.T) {
	e, j := startJournal(t)
	svc := Services{Journal: j}
	item := testfixtures.Silk()

	cmd := svc.recordTransition(flow.Transition{
		Event: flow.EventSelect,
		From:  flow.StepSelection,
		To:    flow.StepPreview,
		State: flow.State{Step: flow.StepPreview, Item: &item},
	})
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())

	history, err := journal.LoadHistory(context.Background(), e.Stream, j.Session())
	require.NoError(t, err)
	assert.Equal(t, 1, history.Transitions)
	assert.Equal(t, flow.StepPreview.String(), history.LastStep)
}

func TestServices_CaptureHook(t *testing.T) {
	dir := t.TempDir()
	svc := Services{
		WorkDir: dir,
		Hooks: &hooks.Config{Hooks: hooks.HooksConfig{
			CaptureSaved: []*hooks.HookConfig{
				{Command: "cp {{path}} copy.png"},
			},
		}},
	}
	src := filepath.Join(dir, "preview.png")
	require.NoError(t, os.WriteFile(src, []byte("png"), 0644))

	cmd := svc.captureSaved(CaptureSavedMsg{Path: src, Item: testfixtures.Silk()})
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
	assert.FileExists(t, filepath.Join(dir, "copy.png"))
}
