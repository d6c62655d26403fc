package wizard

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/drapery/internal/catalog"
	"github.com/mark3labs/drapery/internal/flow"
	"github.com/mark3labs/drapery/internal/logger"
	"github.com/mark3labs/drapery/internal/order"
	"github.com/mark3labs/drapery/internal/tui"
)

// WizardResult is what a finished shopping session produced.
type WizardResult struct {
	Orders []order.Order // orders placed during the session, oldest first
	Browse catalog.Query // catalog filter in effect when the wizard ended
}

// WizardModel is the root Bubble Tea model. It owns the step machine and
// forwards input to the view for the current step.
type WizardModel struct {
	svc       Services
	machine   *flow.Machine
	pending   []flow.Transition
	cancelled bool
	result    WizardResult
	width     int
	height    int
	toast     *tui.Toast

	catalogStep *CatalogStep
	previewStep *PreviewStep
	intakeStep  *IntakeStep
	summaryStep *SummaryStep
}

// New creates the wizard at the fabric selection step.
func New(svc Services) *WizardModel {
	m := &WizardModel{
		svc:     svc,
		machine: flow.New(),
		toast:   tui.NewToast(),
	}
	m.machine.OnTransition(func(t flow.Transition) {
		logger.Debug("Wizard %s: %s -> %s", t.Event, t.From, t.To)
		if svc.Metrics != nil {
			svc.Metrics.ObserveTransition(t)
		}
		m.pending = append(m.pending, t)
	})
	m.catalogStep = m.newCatalogStep()
	return m
}

func (m *WizardModel) newCatalogStep() *CatalogStep {
	step := NewCatalogStep(m.svc.LoadCatalog)
	step.Restore(m.svc.Browse)
	return step
}

// RunWizard runs the wizard full screen until the user quits.
func RunWizard(svc Services) (*WizardResult, error) {
	m := New(svc)
	defer m.shutdown()

	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}
	wizModel, ok := finalModel.(*WizardModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	wizModel.result.Browse = wizModel.catalogStep.Query()
	return &wizModel.result, nil
}

// Step returns the current wizard step.
func (m *WizardModel) Step() flow.Step { return m.machine.Step() }

// State returns a snapshot of the wizard state.
func (m *WizardModel) State() flow.State { return m.machine.State() }

// Result returns the orders placed so far.
func (m *WizardModel) Result() WizardResult { return m.result }

// Cancelled reports whether the user quit.
func (m *WizardModel) Cancelled() bool { return m.cancelled }

// Init initializes the wizard model.
func (m *WizardModel) Init() tea.Cmd {
	return m.catalogStep.Init()
}

// Update handles messages for the wizard.
func (m *WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.flushTransitions())
}

func (m *WizardModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			m.shutdown()
			return tea.Quit
		case "esc":
			return m.back()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateStepSizes()
		return nil

	case ItemSelectedMsg:
		if _, err := m.machine.Select(msg.Item); err != nil {
			m.reject(flow.EventSelect, err)
			return nil
		}
		m.previewStep = NewPreviewStep(msg.Item, m.svc.AR, m.svc.CaptureDir)
		m.updateStepSizes()
		return m.previewStep.Init()

	case ContinueMsg:
		if _, err := m.machine.Continue(); err != nil {
			m.reject(flow.EventContinue, err)
			return nil
		}
		m.previewStep.StopAR()
		if m.intakeStep == nil {
			m.intakeStep = NewIntakeStep()
			m.updateStepSizes()
		}
		return m.intakeStep.Init()

	case MeasurementsSubmittedMsg:
		st, err := m.machine.Submit(msg.Measurements)
		if err != nil {
			m.reject(flow.EventSubmit, err)
			return nil
		}
		m.summaryStep = NewSummaryStep(*st.Item, *st.Measurements, msg.Extras)
		m.updateStepSizes()
		return m.summaryStep.Init()

	case PlaceOrderMsg:
		return m.placeOrder(msg)

	case StartOverMsg:
		return m.restart()

	case ARStartedMsg:
		if m.svc.Metrics != nil {
			m.svc.Metrics.ObserveAR(msg.Err)
		}
		onPreview := m.machine.Step() == flow.StepPreview && m.previewStep != nil
		if onPreview && m.previewStep.OwnsARStart(msg) {
			return m.previewStep.Update(msg)
		}
		// The user left the preview, or came back to a new one, while the
		// session was loading. A preview that started its own session keeps it.
		if msg.Err == nil && m.svc.AR != nil && !(onPreview && m.previewStep.ARBusy()) {
			m.svc.AR.Stop()
		}
		return nil

	case CaptureSavedMsg:
		if m.previewStep != nil {
			m.previewStep.Update(msg)
		}
		if msg.Err != nil {
			return m.toast.ShowError("Capture failed")
		}
		if m.svc.Metrics != nil {
			m.svc.Metrics.Captures.Inc()
		}
		return tea.Batch(m.toast.Show("Saved "+filepath.Base(msg.Path)), m.svc.captureSaved(msg))

	case tui.ToastDismissMsg:
		return m.toast.Update(msg)
	}

	switch m.machine.Step() {
	case flow.StepSelection:
		return m.catalogStep.Update(msg)
	case flow.StepPreview:
		if m.previewStep != nil {
			return m.previewStep.Update(msg)
		}
	case flow.StepIntake:
		if m.intakeStep != nil {
			return m.intakeStep.Update(msg)
		}
	case flow.StepSummary:
		if m.summaryStep != nil {
			return m.summaryStep.Update(msg)
		}
	}
	return nil
}

// back handles esc: quit on the first step, otherwise step back. After an
// order is placed there is nothing to go back to.
func (m *WizardModel) back() tea.Cmd {
	step := m.machine.Step()
	if step == flow.StepSelection {
		m.cancelled = true
		m.shutdown()
		return tea.Quit
	}
	if step == flow.StepSummary && m.summaryStep != nil && m.summaryStep.Placed() != nil {
		return nil
	}
	if step == flow.StepPreview && m.previewStep != nil {
		m.previewStep.StopAR()
	}
	if _, err := m.machine.Back(); err != nil {
		m.reject(flow.EventBack, err)
		return nil
	}
	if m.machine.Step() == flow.StepIntake && m.intakeStep != nil {
		return m.intakeStep.Init()
	}
	return nil
}

func (m *WizardModel) placeOrder(msg PlaceOrderMsg) tea.Cmd {
	if m.summaryStep == nil || m.summaryStep.Placed() != nil {
		return nil
	}
	st := m.machine.State()
	if st.Step != flow.StepSummary || !st.HasItem() || !st.HasMeasurements() {
		m.reject(flow.EventSubmit, flow.ErrMissingMeasurements)
		return nil
	}

	o, err := m.svc.Placer.Place(st.Item, st.Measurements, msg.Extras)
	if err != nil {
		logger.Error("Placing order failed: %v", err)
		return m.toast.ShowError("Order could not be placed")
	}
	logger.Info("Order %s placed: %s, total %.2f", o.Number, o.Item.Name, o.Breakdown.Total)
	if m.svc.Metrics != nil {
		m.svc.Metrics.ObserveOrder(o)
	}
	m.result.Orders = append(m.result.Orders, o)
	m.summaryStep.SetPlaced(o)
	return tea.Batch(m.toast.Show(fmt.Sprintf("Order %s placed", o.Number)), m.svc.orderPlaced(o))
}

// restart discards the session's choices and returns to the catalog.
func (m *WizardModel) restart() tea.Cmd {
	if m.previewStep != nil {
		m.previewStep.StopAR()
	}
	if _, err := m.machine.Restart(); err != nil {
		m.reject(flow.EventRestart, err)
		return nil
	}
	m.previewStep = nil
	m.intakeStep = nil
	m.summaryStep = nil
	browse := m.catalogStep.Query()
	m.catalogStep = m.newCatalogStep()
	m.catalogStep.Restore(browse)
	m.updateStepSizes()
	return m.catalogStep.Init()
}

// reject logs and counts a transition refused by the machine.
func (m *WizardModel) reject(ev flow.Event, err error) {
	if errors.Is(err, flow.ErrInvalidTransition) || errors.Is(err, flow.ErrMissingItem) || errors.Is(err, flow.ErrMissingMeasurements) {
		logger.Error("Wizard refused %s: %v", ev, err)
	} else {
		logger.Warn("Wizard %s failed: %v", ev, err)
	}
	if m.svc.Metrics != nil {
		m.svc.Metrics.ObserveReject(ev)
	}
}

// flushTransitions turns queued transitions into journal writes.
func (m *WizardModel) flushTransitions() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(m.pending))
	for _, t := range m.pending {
		cmds = append(cmds, m.svc.recordTransition(t))
	}
	m.pending = m.pending[:0]
	return tea.Sequence(cmds...)
}

// shutdown releases the AR session. Safe to call more than once.
func (m *WizardModel) shutdown() {
	if m.previewStep != nil {
		m.previewStep.StopAR()
	}
	if m.svc.AR != nil {
		m.svc.AR.Stop()
	}
}

// contentSize is the area available to a step inside the modal.
func (m *WizardModel) contentSize() (int, int) {
	contentWidth := m.modalWidth() - 6
	contentHeight := m.height - 10
	if contentHeight < 10 {
		contentHeight = 10
	}
	return contentWidth, contentHeight
}

func (m *WizardModel) modalWidth() int {
	w := m.width - 10
	if w < 60 {
		w = 60
	}
	if w > 110 {
		w = 110 // Max width for readability
	}
	return w
}

// updateStepSizes pushes the content size to every live step.
func (m *WizardModel) updateStepSizes() {
	w, h := m.contentSize()
	if m.catalogStep != nil {
		m.catalogStep.SetSize(w, h)
	}
	if m.previewStep != nil {
		m.previewStep.SetSize(w, h)
	}
	if m.intakeStep != nil {
		m.intakeStep.SetSize(w, h)
	}
	if m.summaryStep != nil {
		m.summaryStep.SetSize(w, h)
	}
}

// View renders the wizard UI.
func (m *WizardModel) View() tea.View {
	var view tea.View
	view.AltScreen = true

	content := m.renderModal(m.stepView())

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})
	m.drawToast(canvas)

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// drawToast draws the toast over the bottom-right corner, one cell in.
func (m *WizardModel) drawToast(scr uv.Screen) {
	content := m.toast.View(m.width / 2)
	if content == "" {
		return
	}
	w, h := lipgloss.Width(content), lipgloss.Height(content)
	x := max(m.width-w-1, 0)
	y := max(m.height-h-1, 0)
	uv.NewStyledString(content).Draw(scr, uv.Rectangle{
		Min: uv.Position{X: x, Y: y},
		Max: uv.Position{X: x + w, Y: y + h},
	})
}

func (m *WizardModel) stepView() string {
	switch m.machine.Step() {
	case flow.StepSelection:
		return m.catalogStep.View()
	case flow.StepPreview:
		if m.previewStep != nil {
			return m.previewStep.View()
		}
	case flow.StepIntake:
		if m.intakeStep != nil {
			return m.intakeStep.View()
		}
	case flow.StepSummary:
		if m.summaryStep != nil {
			return m.summaryStep.View()
		}
	}
	return ""
}

// Title is the modal heading for the current step.
func (m *WizardModel) Title() string {
	step := m.machine.Step()
	return fmt.Sprintf("Drapery - Step %d of %d: %s", step.Index()+1, flow.StepCount, step.Title())
}

// renderModal wraps the step content in a modal container with title.
func (m *WizardModel) renderModal(stepContent string) string {
	s := styles()
	sections := []string{
		s.ModalTitle.Render(m.Title()),
		"",
		stepContent,
	}
	modal := s.ModalContainer.Width(m.modalWidth()).Render(strings.Join(sections, "\n"))

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		modal,
	)
}
