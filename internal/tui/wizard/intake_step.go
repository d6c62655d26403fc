package wizard

import (
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/editor"
	"github.com/mark3labs/drapery/internal/logger"
	"github.com/mark3labs/drapery/internal/measure"
	"github.com/mark3labs/drapery/internal/order"
	"github.com/mark3labs/drapery/internal/pricing"
	"github.com/mark3labs/drapery/internal/tui"
)

// intake form fields in focus order
const (
	focusWidth = iota
	focusHeight
	focusRoom
	focusInstall
	focusHeading
	focusNotes
	focusCount
)

var focusFields = [focusCount]measure.Field{
	measure.FieldWidth,
	measure.FieldHeight,
	measure.FieldRoomType,
	measure.FieldInstallationType,
	measure.FieldHeading,
	measure.FieldNotes,
}

// optionSelect is a left/right cycling choice over a fixed option list.
// idx -1 means nothing chosen yet.
type optionSelect struct {
	options []measure.Option
	idx     int
}

func (o *optionSelect) value() string {
	if o.idx < 0 || o.idx >= len(o.options) {
		return ""
	}
	return o.options[o.idx].Value
}

func (o *optionSelect) set(value string) {
	o.idx = -1
	for i, opt := range o.options {
		if opt.Value == value {
			o.idx = i
		}
	}
}

// step moves the choice; from "none" either direction lands on an end.
func (o *optionSelect) step(delta int) {
	n := len(o.options)
	if n == 0 {
		return
	}
	if o.idx < 0 {
		if delta < 0 {
			o.idx = n - 1
		} else {
			o.idx = 0
		}
		return
	}
	o.idx = (o.idx + delta + n) % n
}

// IntakeStep is the measurement form with the live fabric calculator.
type IntakeStep struct {
	widthInput  textinput.Model
	heightInput textinput.Model
	notesInput  textinput.Model
	room        optionSelect
	install     optionSelect
	heading     optionSelect
	focusIndex  int
	errors      measure.FieldErrors
	tmpFile     string
	width       int
	height      int
}

// NewIntakeStep creates an empty form. The heading defaults to the first
// style; room and installation must be chosen.
func NewIntakeStep() *IntakeStep {
	notes := newInput("Optional notes for the workroom (ctrl+e for editor)", 40)
	notes.CharLimit = 500

	width := newInput("e.g. 150", 12)
	width.CharLimit = 8
	height := newInput("e.g. 220", 12)
	height.CharLimit = 8

	return &IntakeStep{
		widthInput:  width,
		heightInput: height,
		notesInput:  notes,
		room:        optionSelect{options: measure.RoomTypes, idx: -1},
		install:     optionSelect{options: measure.InstallationTypes, idx: -1},
		heading:     optionSelect{options: measure.HeadingStyles, idx: 0},
		errors:      measure.FieldErrors{},
		width:       60,
		height:      20,
	}
}

// Init focuses the width input.
func (s *IntakeStep) Init() tea.Cmd {
	s.focusIndex = focusWidth
	return s.updateFocus()
}

// SetSize updates the dimensions for the intake step.
func (s *IntakeStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	notesWidth := width - 20
	if notesWidth < 20 {
		notesWidth = 20
	}
	s.notesInput.SetWidth(notesWidth)
}

// Form returns the raw form values.
func (s *IntakeStep) Form() measure.Form {
	return measure.Form{
		Width:            s.widthInput.Value(),
		Height:           s.heightInput.Value(),
		RoomType:         s.room.value(),
		InstallationType: s.install.value(),
		Heading:          s.heading.value(),
		Notes:            s.notesInput.Value(),
	}
}

// SetForm fills the form, e.g. when revisiting the step.
func (s *IntakeStep) SetForm(f measure.Form) {
	s.widthInput.SetValue(f.Width)
	s.heightInput.SetValue(f.Height)
	s.room.set(f.RoomType)
	s.install.set(f.InstallationType)
	if f.Heading != "" {
		s.heading.set(f.Heading)
	}
	s.notesInput.SetValue(f.Notes)
}

// Errors returns the current validation errors.
func (s *IntakeStep) Errors() measure.FieldErrors { return s.errors }

// Update handles messages for the intake step.
func (s *IntakeStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotesEditedMsg:
		s.notesInput.SetValue(msg.Notes)
		s.errors.Clear(measure.FieldNotes)
		s.cleanupTmp()
		return nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "tab", "down":
			s.focusIndex = (s.focusIndex + 1) % focusCount
			return s.updateFocus()
		case "shift+tab", "up":
			s.focusIndex = (s.focusIndex - 1 + focusCount) % focusCount
			return s.updateFocus()
		case "enter":
			return s.submit()
		case "ctrl+e":
			return s.openEditor()
		}

		if sel := s.focusedSelect(); sel != nil {
			switch msg.String() {
			case "left", "h":
				sel.step(-1)
			case "right", "l", "space":
				sel.step(1)
			default:
				return nil
			}
			s.errors.Clear(focusFields[s.focusIndex])
			return nil
		}
	}

	input := s.focusedInput()
	if input == nil {
		return nil
	}
	before := input.Value()
	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	if input.Value() != before {
		s.errors.Clear(focusFields[s.focusIndex])
	}
	return cmd
}

func (s *IntakeStep) submit() tea.Cmd {
	form := s.Form()
	ms, errs := measure.Validate(form)
	if len(errs) > 0 {
		s.errors = errs
		logger.Debug("Intake form invalid: %v", errs.Fields())
		return nil
	}
	s.errors = measure.FieldErrors{}
	extras := order.Extras{Heading: form.Heading, Notes: strings.TrimSpace(form.Notes)}
	return func() tea.Msg {
		return MeasurementsSubmittedMsg{Measurements: ms, Extras: extras}
	}
}

func (s *IntakeStep) focusedInput() *textinput.Model {
	switch s.focusIndex {
	case focusWidth:
		return &s.widthInput
	case focusHeight:
		return &s.heightInput
	case focusNotes:
		return &s.notesInput
	}
	return nil
}

func (s *IntakeStep) focusedSelect() *optionSelect {
	switch s.focusIndex {
	case focusRoom:
		return &s.room
	case focusInstall:
		return &s.install
	case focusHeading:
		return &s.heading
	}
	return nil
}

// updateFocus focuses the current text input and blurs the others.
func (s *IntakeStep) updateFocus() tea.Cmd {
	s.widthInput.Blur()
	s.heightInput.Blur()
	s.notesInput.Blur()
	if input := s.focusedInput(); input != nil {
		return input.Focus()
	}
	return nil
}

// openEditor launches $EDITOR on the notes.
func (s *IntakeStep) openEditor() tea.Cmd {
	tmpfile, err := os.CreateTemp("", "drapery_notes_*.txt")
	if err != nil {
		logger.Warn("Cannot create notes file: %v", err)
		return nil
	}
	if _, err := tmpfile.WriteString(s.notesInput.Value()); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return nil
	}
	_ = tmpfile.Close()
	s.tmpFile = tmpfile.Name()

	cmd, err := editor.Command("drapery", tmpfile.Name())
	if err != nil {
		s.cleanupTmp()
		return nil
	}

	path := tmpfile.Name()
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		return NotesEditedMsg{Notes: strings.Join(strings.Fields(string(content)), " ")}
	})
}

func (s *IntakeStep) cleanupTmp() {
	if s.tmpFile != "" {
		_ = os.Remove(s.tmpFile)
		s.tmpFile = ""
	}
}

// View renders the intake step.
func (s *IntakeStep) View() string {
	form := s.renderForm()
	side := s.renderCalculator() + "\n\n" + s.renderTips()

	var b strings.Builder
	if s.width >= 90 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, form, "    ", side))
	} else {
		b.WriteString(form)
		b.WriteString("\n")
		b.WriteString(side)
	}
	b.WriteString("\n\n")
	b.WriteString(renderHintBar(
		tui.KeyTab, "next field",
		"←/→", "choose",
		"ctrl+e", "edit notes",
		tui.KeyEnter, "review order",
		tui.KeyEsc, "back",
	))
	return b.String()
}

func (s *IntakeStep) renderForm() string {
	var b strings.Builder
	st := styles()

	label := func(idx int, text string) {
		l := st.Label
		if s.focusIndex == idx {
			l = st.Selected
		}
		b.WriteString(l.Render(text))
		b.WriteString("\n")
	}
	errLine := func(f measure.Field) {
		if msg, ok := s.errors[f]; ok {
			b.WriteString(renderError(msg))
			b.WriteString("\n")
		}
	}

	label(focusWidth, "Window width (cm)")
	b.WriteString(s.widthInput.View())
	b.WriteString("\n")
	errLine(measure.FieldWidth)

	label(focusHeight, "Window height (cm)")
	b.WriteString(s.heightInput.View())
	b.WriteString("\n")
	errLine(measure.FieldHeight)

	label(focusRoom, "Room type")
	b.WriteString(s.renderSelect(&s.room, s.focusIndex == focusRoom, "Select room type"))
	b.WriteString("\n")
	errLine(measure.FieldRoomType)

	label(focusInstall, "Installation type")
	b.WriteString(s.renderRadio(&s.install, s.focusIndex == focusInstall))
	errLine(measure.FieldInstallationType)

	label(focusHeading, "Heading style")
	b.WriteString(s.renderSelect(&s.heading, s.focusIndex == focusHeading, ""))
	b.WriteString("\n")

	label(focusNotes, "Notes")
	b.WriteString(s.notesInput.View())
	return b.String()
}

func (s *IntakeStep) renderSelect(sel *optionSelect, focused bool, placeholder string) string {
	st := styles()
	text := st.Muted.Render(placeholder)
	if sel.idx >= 0 {
		text = st.Text.Render(sel.options[sel.idx].Label)
	}
	if focused {
		return st.Selected.Render("‹ ") + text + st.Selected.Render(" ›")
	}
	return "  " + text
}

func (s *IntakeStep) renderRadio(sel *optionSelect, focused bool) string {
	st := styles()
	var b strings.Builder
	for i, opt := range sel.options {
		mark := "( )"
		name := st.Text
		if i == sel.idx {
			mark = "(•)"
			if focused {
				name = st.Selected
			}
		}
		b.WriteString(st.Label.Render(mark) + " " + name.Render(opt.Label))
		b.WriteString(st.Muted.Render("  " + opt.Description))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *IntakeStep) renderCalculator() string {
	st := styles()
	var b strings.Builder
	b.WriteString(st.HeaderTitle.Render("Fabric calculator"))
	b.WriteString("\n")

	w, h := s.widthInput.Value(), s.heightInput.Value()
	if !measure.Ready(w, h) {
		b.WriteString(st.Label.Render("Enter width and height to see\nhow much fabric you need."))
		return st.Panel.Render(b.String())
	}

	f := measure.Estimate(w, h)
	fmt.Fprintf(&b, "%s %s\n", st.Label.Render("Fabric width:"), st.Text.Render(fmt.Sprintf("%g cm", f.Width)))
	fmt.Fprintf(&b, "%s %s\n", st.Label.Render("Fabric drop: "), st.Text.Render(fmt.Sprintf("%g cm", f.Drop)))
	fmt.Fprintf(&b, "%s %s", st.Label.Render("Total fabric:"), st.Price.Render(pricing.Area(f.Area)))
	return st.Panel.Render(b.String())
}

func (s *IntakeStep) renderTips() string {
	st := styles()
	var b strings.Builder
	b.WriteString(st.Info.Render("Measuring tips"))
	for _, tip := range measure.Tips {
		b.WriteString("\n")
		b.WriteString(st.Label.Render("• " + tip))
	}
	return b.String()
}

// MeasurementsSubmittedMsg carries a valid form.
type MeasurementsSubmittedMsg struct {
	Measurements measure.Measurements
	Extras       order.Extras
}

// NotesEditedMsg is sent when the external editor returns.
type NotesEditedMsg struct {
	Notes string
}
