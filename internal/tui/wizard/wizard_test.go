package wizard

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/mark3labs/drapery/internal/catalog"
	"github.com/mark3labs/drapery/internal/flow"
	"github.com/mark3labs/drapery/internal/measure"
	"github.com/mark3labs/drapery/internal/metrics"
	"github.com/mark3labs/drapery/internal/preview"
	"github.com/mark3labs/drapery/internal/tui"
	"github.com/mark3labs/drapery/internal/tui/testfixtures"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	enterKey = tea.KeyPressMsg{Code: tea.KeyEnter}
	escKey   = tea.KeyPressMsg{Code: tea.KeyEscape}
	tabKey   = tea.KeyPressMsg{Code: tea.KeyTab}
	rightKey = tea.KeyPressMsg{Code: tea.KeyRight}
	leftKey  = tea.KeyPressMsg{Code: tea.KeyLeft}
	downKey  = tea.KeyPressMsg{Code: tea.KeyDown}
	upKey    = tea.KeyPressMsg{Code: tea.KeyUp}
)

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func ctrlKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

// typeText feeds s to update one key at a time.
func typeText(update func(tea.Msg) tea.Cmd, s string) {
	for _, r := range s {
		update(keyRune(r))
	}
}

func plain(s string) string { return ansi.Strip(s) }

func newTestSession(r *testfixtures.MockRenderer) *preview.Session {
	return preview.NewSession(r, preview.Assets{
		Model:    "curtain.glb",
		Target:   "window.mind",
		Swatches: []string{"silk.png", "linen.png"},
		FPS:      120,
	})
}

func newTestWizard(t *testing.T, svc Services) *WizardModel {
	t.Helper()
	if svc.LoadCatalog == nil {
		svc.LoadCatalog = catalog.Default
	}
	if svc.Placer.NextID == nil {
		svc.Placer = testfixtures.FixedPlacer()
	}
	if svc.CaptureDir == "" {
		svc.CaptureDir = t.TempDir()
	}
	m := New(svc)
	t.Cleanup(m.shutdown)
	_ = m.Init()
	// Tall enough for the whole quote to fit in the summary viewport.
	m.Update(tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: 3 * testfixtures.TestTermHeight})
	m.Update(CatalogLoadedMsg{Catalog: catalog.MustDefault()})
	return m
}

// send runs msg through the wizard and returns the command it produced.
func send(m *WizardModel, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

// sendAndFollow runs msg through the wizard, executes the resulting
// command once and feeds its message back.
func sendAndFollow(t *testing.T, m *WizardModel, msg tea.Msg) tea.Msg {
	t.Helper()
	cmd := send(m, msg)
	require.NotNil(t, cmd, "expected a command for %T", msg)
	out := cmd()
	send(m, out)
	return out
}

func wizardView(m *WizardModel) string {
	return plain(m.renderModal(m.stepView()))
}

func wizardUpdate(m *WizardModel) func(tea.Msg) tea.Cmd {
	return func(msg tea.Msg) tea.Cmd { return send(m, msg) }
}

// advanceToIntake selects Silk Elegance and continues past the preview.
func advanceToIntake(t *testing.T, m *WizardModel) {
	t.Helper()
	typeText(wizardUpdate(m), "silk")
	sendAndFollow(t, m, enterKey)
	require.Equal(t, flow.StepPreview, m.Step())
	sendAndFollow(t, m, enterKey)
	require.Equal(t, flow.StepIntake, m.Step())
}

// fillWindow enters a valid 150 x 220 cm bedroom window with a wall mount.
func fillWindow(m *WizardModel) {
	update := wizardUpdate(m)
	typeText(update, "150")
	update(tabKey)
	typeText(update, "220")
	update(tabKey)
	update(rightKey) // living room
	update(rightKey) // bedroom
	update(tabKey)
	update(rightKey) // ceiling
	update(rightKey) // wall
}

func TestWizard_StartsAtSelection(t *testing.T) {
	m := newTestWizard(t, Services{})

	assert.Equal(t, flow.StepSelection, m.Step())
	assert.Equal(t, "Drapery - Step 1 of 4: Choose Fabric", m.Title())
	assert.False(t, m.State().HasItem())
	assert.Contains(t, wizardView(m), "Silk Elegance")
}

func TestWizard_FullFlow(t *testing.T) {
	m := newTestWizard(t, Services{})
	advanceToIntake(t, m)

	state := m.State()
	require.True(t, state.HasItem())
	assert.Equal(t, "1", state.Item.ID)

	fillWindow(m)
	msg := sendAndFollow(t, m, enterKey)
	submitted, ok := msg.(MeasurementsSubmittedMsg)
	require.True(t, ok, "expected MeasurementsSubmittedMsg, got %T", msg)
	assert.Equal(t, 150.0, submitted.Measurements.Width)
	assert.Equal(t, 220.0, submitted.Measurements.Height)
	assert.Equal(t, "bedroom", submitted.Measurements.RoomType)
	assert.Equal(t, "wall", submitted.Measurements.InstallationType)
	assert.Equal(t, "pencil-pleat", submitted.Extras.Heading)

	require.Equal(t, flow.StepSummary, m.Step())
	assert.Equal(t, "Drapery - Step 4 of 4: Order Summary", m.Title())
	assert.Contains(t, plain(m.summaryStep.View()), "$838.75")

	sendAndFollow(t, m, enterKey)
	require.Len(t, m.Result().Orders, 1)
	placed := m.Result().Orders[0]
	assert.Equal(t, "CRT-"+testfixtures.FixedOrderID, placed.Number)
	assert.InDelta(t, 838.75, placed.Breakdown.Total, 1e-9)
	assert.Contains(t, plain(m.summaryStep.View()), placed.Number)

	// After placement esc stays on the confirmation.
	assert.Nil(t, send(m, escKey))
	assert.Equal(t, flow.StepSummary, m.Step())

	sendAndFollow(t, m, enterKey)
	assert.Equal(t, flow.StepSelection, m.Step())
	assert.False(t, m.State().HasItem())
	assert.False(t, m.State().HasMeasurements())
	assert.Len(t, m.Result().Orders, 1)
}

func TestWizard_EscGoesBack(t *testing.T) {
	m := newTestWizard(t, Services{})
	advanceToIntake(t, m)
	fillWindow(m)
	sendAndFollow(t, m, enterKey)
	require.Equal(t, flow.StepSummary, m.Step())

	send(m, escKey)
	require.Equal(t, flow.StepIntake, m.Step())
	// The form keeps what was typed.
	assert.Equal(t, "150", m.intakeStep.Form().Width)
	assert.Equal(t, "bedroom", m.intakeStep.Form().RoomType)
	assert.True(t, m.State().HasMeasurements())

	send(m, escKey)
	require.Equal(t, flow.StepPreview, m.Step())
	send(m, escKey)
	require.Equal(t, flow.StepSelection, m.Step())
	assert.True(t, m.State().HasItem(), "going back keeps the selected item")
	assert.False(t, m.Cancelled())

	cmd := send(m, escKey)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Cancelled())
}

func TestWizard_CtrlCQuits(t *testing.T) {
	m := newTestWizard(t, Services{})
	advanceToIntake(t, m)

	cmd := send(m, ctrlKey('c'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Cancelled())
}

func TestWizard_InvalidFormStaysOnIntake(t *testing.T) {
	m := newTestWizard(t, Services{})
	advanceToIntake(t, m)

	assert.Nil(t, send(m, enterKey))
	assert.Equal(t, flow.StepIntake, m.Step())
	assert.True(t, m.intakeStep.Errors().Has(measure.FieldWidth))
	assert.True(t, m.intakeStep.Errors().Has(measure.FieldRoomType))
	assert.Contains(t, wizardView(m), "invalid width")
}

func TestWizard_ARStopsWhenLeavingPreview(t *testing.T) {
	renderer := testfixtures.NewMockRenderer()
	session := newTestSession(renderer)
	m := newTestWizard(t, Services{AR: session})

	typeText(wizardUpdate(m), "silk")
	sendAndFollow(t, m, enterKey)
	require.Equal(t, flow.StepPreview, m.Step())
	assert.Empty(t, m.previewStep.ARDisabled())

	require.NotNil(t, send(m, keyRune('a')))
	require.NoError(t, session.Start(context.Background()))
	send(m, ARStartedMsg{Gen: m.previewStep.gen})
	require.True(t, m.previewStep.AROn())
	require.True(t, session.Running())

	send(m, escKey)
	assert.Equal(t, flow.StepSelection, m.Step())
	assert.False(t, session.Running())
	assert.Equal(t, 1, renderer.ClosedCount())
}

func TestWizard_LateARStartIsStopped(t *testing.T) {
	renderer := testfixtures.NewMockRenderer()
	session := newTestSession(renderer)
	m := newTestWizard(t, Services{AR: session})

	typeText(wizardUpdate(m), "silk")
	sendAndFollow(t, m, enterKey)
	send(m, keyRune('a'))
	sendAndFollow(t, m, enterKey)
	require.Equal(t, flow.StepIntake, m.Step())

	// The session finishes loading after the user moved on.
	require.NoError(t, session.Start(context.Background()))
	send(m, ARStartedMsg{Gen: m.previewStep.gen})
	assert.False(t, session.Running())
}

func TestWizard_LateARStartAfterReselectIsStopped(t *testing.T) {
	renderer := testfixtures.NewMockRenderer()
	session := newTestSession(renderer)
	t.Cleanup(session.Stop)
	m := newTestWizard(t, Services{AR: session})

	typeText(wizardUpdate(m), "silk")
	sendAndFollow(t, m, enterKey)
	send(m, keyRune('a'))
	first := m.previewStep.gen

	send(m, escKey)
	require.Equal(t, flow.StepSelection, m.Step())
	sendAndFollow(t, m, enterKey)
	require.Equal(t, flow.StepPreview, m.Step())
	require.NotEqual(t, first, m.previewStep.gen)

	// The first preview's session finishes loading on the new preview.
	require.NoError(t, session.Start(context.Background()))
	send(m, ARStartedMsg{Gen: first})
	assert.False(t, session.Running())
	assert.False(t, m.previewStep.AROn())
	assert.Contains(t, plain(m.previewStep.View()), "AR: off")

	// A failed late start does not disable AR on the new preview.
	send(m, ARStartedMsg{Gen: first, Err: errors.New("model not found")})
	assert.Empty(t, m.previewStep.ARDisabled())

	// The new preview can still start its own session.
	require.NotNil(t, send(m, keyRune('a')))
	require.NoError(t, session.Start(context.Background()))
	send(m, ARStartedMsg{Gen: m.previewStep.gen})
	assert.True(t, m.previewStep.AROn())
	assert.True(t, session.Running())

	// A stale start arriving now leaves the running session alone.
	send(m, ARStartedMsg{Gen: first})
	assert.True(t, session.Running())
	assert.True(t, m.previewStep.AROn())
}

func TestWizard_Metrics(t *testing.T) {
	reg := metrics.NewRegistry()
	m := newTestWizard(t, Services{Metrics: reg})
	advanceToIntake(t, m)
	fillWindow(m)
	sendAndFollow(t, m, enterKey)
	sendAndFollow(t, m, enterKey)

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Orders))
	assert.Equal(t, 3, testutil.CollectAndCount(reg.Transitions))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Transitions.WithLabelValues(string(flow.EventSubmit), flow.StepSummary.String())))

	// Continue from the summary is not a legal transition.
	send(m, ContinueMsg{})
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.GuardRejects.WithLabelValues(string(flow.EventContinue))))
}

func TestWizard_CaptureCounted(t *testing.T) {
	reg := metrics.NewRegistry()
	m := newTestWizard(t, Services{Metrics: reg})
	typeText(wizardUpdate(m), "silk")
	sendAndFollow(t, m, enterKey)

	msg := sendAndFollow(t, m, keyRune('c'))
	saved, ok := msg.(CaptureSavedMsg)
	require.True(t, ok)
	require.NoError(t, saved.Err)
	assert.FileExists(t, saved.Path)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Captures))
	assert.Contains(t, plain(m.previewStep.View()), "Saved ")
}

func TestWizard_RestartKeepsBrowsePreferences(t *testing.T) {
	m := newTestWizard(t, Services{Browse: catalog.Query{Sort: catalog.SortPriceLow}})
	require.Equal(t, catalog.SortPriceLow, m.catalogStep.Query().Sort)

	send(m, ctrlKey('f'))
	category := m.catalogStep.Query().Category
	send(m, StartOverMsg{})

	send(m, CatalogLoadedMsg{Catalog: catalog.MustDefault()})
	assert.Equal(t, catalog.SortPriceLow, m.catalogStep.Query().Sort)
	assert.Equal(t, category, m.catalogStep.Query().Category)
}

func TestWizard_Toasts(t *testing.T) {
	m := newTestWizard(t, Services{})
	advanceToIntake(t, m)
	fillWindow(m)
	sendAndFollow(t, m, enterKey)
	sendAndFollow(t, m, enterKey)

	assert.Equal(t, "Order CRT-"+testfixtures.FixedOrderID+" placed", m.toast.Message())
	canvas := uv.NewScreenBuffer(m.width, m.height)
	m.drawToast(canvas)
	assert.Contains(t, plain(canvas.Render()), "Order CRT-")

	// A dismissal scheduled for an older toast does not hide a newer one.
	send(m, CaptureSavedMsg{Err: errors.New("disk full")})
	assert.Equal(t, "Capture failed", m.toast.Message())
	send(m, tui.ToastDismissMsg{ID: 1})
	assert.True(t, m.toast.IsVisible())
	send(m, tui.ToastDismissMsg{ID: 2})
	assert.False(t, m.toast.IsVisible())
}
