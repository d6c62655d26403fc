package wizard

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/drapery/internal/catalog"
	"github.com/mark3labs/drapery/internal/preview"
	"github.com/mark3labs/drapery/internal/pricing"
	"github.com/mark3labs/drapery/internal/tui/theme"
)

const (
	refreshDelay = 600 * time.Millisecond
	poseInterval = 250 * time.Millisecond
)

// previewGen numbers preview steps so an AR start can be matched to the
// step that asked for it.
var previewGen atomic.Uint64

// PreviewStep shows the fabric over a room backdrop and drives the
// optional AR session.
type PreviewStep struct {
	gen        uint64
	scene      preview.Scene
	view       sceneView
	ar         *preview.Session // nil when AR is disabled
	arDisabled string           // reason the AR toggle is unavailable
	arStarting bool
	arOn       bool
	pose       preview.Pose
	swatch     string
	status     string
	statusErr  bool
	refreshing bool
	captureDir string
	spinner    spinner.Model
	width      int
	height     int
}

// NewPreviewStep creates the preview for item. ar may be nil.
func NewPreviewStep(item catalog.Item, ar *preview.Session, captureDir string) *PreviewStep {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Primary))

	p := &PreviewStep{
		gen:        previewGen.Add(1),
		scene:      preview.NewScene(item),
		ar:         ar,
		captureDir: captureDir,
		spinner:    s,
		width:      60,
		height:     20,
	}
	switch {
	case ar == nil:
		p.arDisabled = "AR preview is turned off"
	default:
		if err := ar.Supported(); err != nil {
			p.arDisabled = err.Error()
		}
		p.swatch = ar.Swatch()
	}
	return p
}

// Init initializes the preview step.
func (p *PreviewStep) Init() tea.Cmd {
	return nil
}

// SetSize updates the dimensions for the preview step.
func (p *PreviewStep) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Scene returns the current scene.
func (p *PreviewStep) Scene() preview.Scene { return p.scene }

// AROn reports whether the AR session is running.
func (p *PreviewStep) AROn() bool { return p.arOn }

// ARDisabled returns why AR cannot be used, or "".
func (p *PreviewStep) ARDisabled() string { return p.arDisabled }

// OwnsARStart reports whether msg answers this step's pending AR toggle.
func (p *PreviewStep) OwnsARStart(msg ARStartedMsg) bool {
	return msg.Gen == p.gen && p.arStarting
}

// ARBusy reports whether this step has AR running or starting.
func (p *PreviewStep) ARBusy() bool { return p.arOn || p.arStarting }

// StopAR stops a running session. It is safe to call at any time.
func (p *PreviewStep) StopAR() {
	if p.ar != nil {
		p.ar.Stop()
	}
	p.arOn = false
	p.arStarting = false
}

// Update handles messages for the preview step.
func (p *PreviewStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ARStartedMsg:
		if !p.OwnsARStart(msg) {
			return nil
		}
		p.arStarting = false
		if msg.Err != nil {
			p.arOn = false
			p.arDisabled = msg.Err.Error()
			return nil
		}
		p.arOn = true
		p.setStatus("AR preview running", false)
		return p.poseTick()

	case poseTickMsg:
		if !p.arOn || p.ar == nil {
			return nil
		}
		if !p.ar.Running() {
			// The frame loop stopped on its own.
			p.arOn = false
			if err := p.ar.Err(); err != nil {
				p.arDisabled = err.Error()
			}
			return nil
		}
		p.pose = p.ar.Pose()
		return p.poseTick()

	case SwatchChangedMsg:
		if msg.Err != nil {
			p.setStatus(msg.Err.Error(), true)
			return nil
		}
		p.swatch = msg.Swatch
		p.setStatus("Swatch: "+filepath.Base(msg.Swatch), false)
		return nil

	case CaptureSavedMsg:
		if msg.Err != nil {
			p.setStatus("Capture failed: "+msg.Err.Error(), true)
			return nil
		}
		p.setStatus("Saved "+msg.Path, false)
		return nil

	case refreshDoneMsg:
		p.refreshing = false
		p.view = sceneView{}
		return nil

	case spinner.TickMsg:
		if p.refreshing || p.arStarting {
			var cmd tea.Cmd
			p.spinner, cmd = p.spinner.Update(msg)
			return cmd
		}
		return nil

	case tea.KeyPressMsg:
		if p.refreshing {
			return nil
		}
		switch msg.String() {
		case "r":
			p.scene = p.scene.NextRoom()
		case "s":
			p.scene.Style = p.scene.Style.Toggle()
		case "a":
			return p.toggleAR()
		case "n":
			if p.arOn {
				return p.nextSwatch()
			}
		case "c":
			return p.capture()
		case "ctrl+r":
			p.refreshing = true
			return tea.Batch(p.spinner.Tick, tea.Tick(refreshDelay, func(time.Time) tea.Msg {
				return refreshDoneMsg{}
			}))
		case "enter":
			return func() tea.Msg { return ContinueMsg{} }
		}
	}
	return nil
}

func (p *PreviewStep) setStatus(s string, isErr bool) {
	p.status = s
	p.statusErr = isErr
}

func (p *PreviewStep) toggleAR() tea.Cmd {
	if p.arDisabled != "" || p.arStarting {
		return nil
	}
	if p.arOn {
		p.StopAR()
		p.setStatus("AR preview stopped", false)
		return nil
	}
	p.arStarting = true
	session, gen := p.ar, p.gen
	return tea.Batch(p.spinner.Tick, func() tea.Msg {
		return ARStartedMsg{Gen: gen, Err: session.Start(context.Background())}
	})
}

func (p *PreviewStep) nextSwatch() tea.Cmd {
	session := p.ar
	return func() tea.Msg {
		swatch, err := session.NextSwatch(context.Background())
		return SwatchChangedMsg{Swatch: swatch, Err: err}
	}
}

func (p *PreviewStep) capture() tea.Cmd {
	scene, dir := p.scene, p.captureDir
	return func() tea.Msg {
		path, err := preview.Capture(scene, dir)
		return CaptureSavedMsg{Path: path, Item: scene.Item, Err: err}
	}
}

func (p *PreviewStep) poseTick() tea.Cmd {
	return tea.Tick(poseInterval, func(time.Time) tea.Msg { return poseTickMsg{} })
}

// View renders the preview step.
func (p *PreviewStep) View() string {
	var b strings.Builder
	s := styles()
	item := p.scene.Item

	b.WriteString(s.Selected.Render(item.Name))
	b.WriteString(s.Label.Render(fmt.Sprintf("  %s · %s per m²", item.Material, pricing.Money(item.Price))))
	b.WriteString("\n\n")

	if p.refreshing {
		b.WriteString(p.spinner.View())
		b.WriteString(" Refreshing preview...\n")
		return b.String()
	}

	cols := p.width
	if cols > 64 {
		cols = 64
	}
	rows := p.height - 12
	if rows > 12 {
		rows = 12
	}
	if rows < 4 {
		rows = 4
	}
	b.WriteString(p.view.View(p.scene, cols, rows))
	b.WriteString("\n")
	b.WriteString(s.Text.Render(p.scene.Room.Name))
	b.WriteString(s.Label.Render(" - " + p.scene.Room.Description))
	b.WriteString("\n")
	b.WriteString(s.Label.Render("Style: ") + s.Text.Render(p.scene.Style.Label()))
	b.WriteString("\n\n")

	b.WriteString(p.arLine())
	b.WriteString("\n")
	if p.status != "" {
		if p.statusErr {
			b.WriteString(renderError(p.status))
		} else {
			b.WriteString(s.Success.Render("✓ " + p.status))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	pairs := []string{"r", "room", "s", "style"}
	if p.arDisabled == "" {
		pairs = append(pairs, "a", "AR")
	}
	if p.arOn {
		pairs = append(pairs, "n", "swatch")
	}
	pairs = append(pairs, "c", "capture", "ctrl+r", "refresh", "enter", "continue", "esc", "back")
	b.WriteString(renderHintBar(pairs...))
	return b.String()
}

func (p *PreviewStep) arLine() string {
	s := styles()
	label := s.Label.Render("AR: ")
	switch {
	case p.arDisabled != "":
		return label + s.Muted.Render("unavailable ("+p.arDisabled+")")
	case p.arStarting:
		return label + p.spinner.View() + " starting..."
	case p.arOn:
		line := s.Success.Render("on") + s.Label.Render(fmt.Sprintf("  scale %.1f  sway %+.3f rad", p.pose.Scale, p.pose.Rotation))
		if p.swatch != "" {
			line += s.Label.Render("  swatch " + filepath.Base(p.swatch))
		}
		return label + line
	default:
		return label + s.Text.Render("off")
	}
}

// ARStartedMsg reports the outcome of starting the AR session. Gen
// identifies the preview step that asked for it.
type ARStartedMsg struct {
	Gen uint64
	Err error
}

// SwatchChangedMsg is sent after cycling the AR texture.
type SwatchChangedMsg struct {
	Swatch string
	Err    error
}

// CaptureSavedMsg is sent after writing a preview image.
type CaptureSavedMsg struct {
	Path string
	Item catalog.Item
	Err  error
}

// ContinueMsg is sent when the user moves on to measurements.
type ContinueMsg struct{}

type poseTickMsg struct{}

type refreshDoneMsg struct{}
