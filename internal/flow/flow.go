// Package flow is the four-step ordering state machine. Every change to the
// wizard state goes through a Machine method; views only ever see State
// snapshots.
package flow

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/drapery/internal/catalog"
	"github.com/mark3labs/drapery/internal/measure"
)

// Step is a wizard stage.
type Step int

const (
	StepSelection Step = iota
	StepPreview
	StepIntake
	StepSummary
)

// StepCount is the number of wizard stages.
const StepCount = 4

var stepNames = [StepCount]string{"selection", "preview", "intake", "summary"}

var stepTitles = [StepCount]string{
	"Choose Fabric",
	"Preview",
	"Measurements",
	"Order Summary",
}

func (s Step) String() string {
	if s < 0 || int(s) >= StepCount {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// Title is the heading shown for the step.
func (s Step) Title() string {
	if s < 0 || int(s) >= StepCount {
		return ""
	}
	return stepTitles[s]
}

// Index is the zero-based position of the step.
func (s Step) Index() int { return int(s) }

var (
	// ErrInvalidTransition is returned when an event is not allowed from the
	// current step.
	ErrInvalidTransition = errors.New("invalid wizard transition")
	// ErrMissingItem is returned when a step that needs a fabric has none.
	ErrMissingItem = errors.New("no fabric selected")
	// ErrMissingMeasurements is returned when the summary has no measurements.
	ErrMissingMeasurements = errors.New("no measurements provided")
	// ErrInvalidMeasurements is returned when submitted measurements have a
	// non-positive dimension or an unlisted room or installation type.
	ErrInvalidMeasurements = errors.New("invalid measurements")
)

// State is a value snapshot of the wizard. Pointers are never shared with
// the machine.
type State struct {
	Step         Step
	Item         *catalog.Item
	Measurements *measure.Measurements
}

// HasItem reports whether a fabric is selected.
func (s State) HasItem() bool { return s.Item != nil }

// HasMeasurements reports whether validated measurements are present.
func (s State) HasMeasurements() bool { return s.Measurements != nil }

// Event names the action that caused a transition.
type Event string

const (
	EventSelect   Event = "select"
	EventContinue Event = "continue"
	EventSubmit   Event = "submit"
	EventBack     Event = "back"
	EventRestart  Event = "restart"
)

// Transition describes one successful state change.
type Transition struct {
	From  Step
	To    Step
	Event Event
	State State
}

// Observer is notified after each successful transition.
type Observer func(Transition)

// Machine owns the wizard state.
type Machine struct {
	mu        sync.Mutex
	step      Step
	item      *catalog.Item
	measures  *measure.Measurements
	observers []Observer
}

// New returns a machine at the selection step.
func New() *Machine {
	return &Machine{step: StepSelection}
}

// OnTransition registers an observer. Observers run synchronously, in
// registration order, after the machine lock is released.
func (m *Machine) OnTransition(fn Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// State returns a snapshot of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// Step returns the current step.
func (m *Machine) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// Select records the chosen fabric and moves to the preview.
func (m *Machine) Select(item catalog.Item) (State, error) {
	return m.apply(EventSelect, func() error {
		if m.step != StepSelection {
			return m.invalid(EventSelect)
		}
		it := item
		m.item = &it
		m.step = StepPreview
		return nil
	})
}

// Continue moves from the preview to the measurement form.
func (m *Machine) Continue() (State, error) {
	return m.apply(EventContinue, func() error {
		if m.step != StepPreview {
			return m.invalid(EventContinue)
		}
		if m.item == nil {
			return ErrMissingItem
		}
		m.step = StepIntake
		return nil
	})
}

// Submit records validated measurements and moves to the summary.
func (m *Machine) Submit(ms measure.Measurements) (State, error) {
	return m.apply(EventSubmit, func() error {
		if m.step != StepIntake {
			return m.invalid(EventSubmit)
		}
		if m.item == nil {
			return ErrMissingItem
		}
		if !ms.Valid() {
			return ErrInvalidMeasurements
		}
		v := ms
		m.measures = &v
		m.step = StepSummary
		return nil
	})
}

// Back moves to the previous step. It is a no-op at the selection step.
// Collected data is kept so going forward again shows the same choices.
func (m *Machine) Back() (State, error) {
	return m.apply(EventBack, func() error {
		if m.step == StepSelection {
			return errNoop
		}
		m.step--
		return nil
	})
}

// Restart returns to the selection step and discards all collected data.
func (m *Machine) Restart() (State, error) {
	return m.apply(EventRestart, func() error {
		m.step = StepSelection
		m.item = nil
		m.measures = nil
		return nil
	})
}

var errNoop = errors.New("noop")

func (m *Machine) invalid(ev Event) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, m.step)
}

// apply runs fn under the lock. When fn or the invariant check fails the
// machine is rolled back to where it was.
func (m *Machine) apply(ev Event, fn func() error) (State, error) {
	m.mu.Lock()
	from, item, measures := m.step, m.item, m.measures
	err := fn()
	if err == nil {
		err = m.checkInvariants()
	}
	if err != nil && !errors.Is(err, errNoop) {
		m.step, m.item, m.measures = from, item, measures
	}
	st := m.snapshot()
	observers := append([]Observer(nil), m.observers...)
	m.mu.Unlock()

	if errors.Is(err, errNoop) {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	t := Transition{From: from, To: st.Step, Event: ev, State: st}
	for _, o := range observers {
		o(t)
	}
	return st, nil
}

// checkInvariants holds the per-step data requirements. Caller holds mu.
func (m *Machine) checkInvariants() error {
	switch m.step {
	case StepPreview, StepIntake:
		if m.item == nil {
			return ErrMissingItem
		}
	case StepSummary:
		if m.item == nil {
			return ErrMissingItem
		}
		if m.measures == nil {
			return ErrMissingMeasurements
		}
		if !m.measures.Valid() {
			return ErrInvalidMeasurements
		}
	}
	return nil
}

func (m *Machine) snapshot() State {
	st := State{Step: m.step}
	if m.item != nil {
		it := *m.item
		st.Item = &it
	}
	if m.measures != nil {
		ms := *m.measures
		st.Measurements = &ms
	}
	return st
}
