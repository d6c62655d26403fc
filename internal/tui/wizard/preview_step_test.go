package wizard

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/drapery/internal/preview"
	"github.com/mark3labs/drapery/internal/tui/testfixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewStep_Defaults(t *testing.T) {
	step := NewPreviewStep(testfixtures.Silk(), nil, t.TempDir())

	assert.Equal(t, "living", step.Scene().Room.ID)
	assert.Equal(t, preview.StyleGathered, step.Scene().Style)
	assert.Equal(t, "AR preview is turned off", step.ARDisabled())

	view := plain(step.View())
	assert.Contains(t, view, "Silk Elegance")
	assert.Contains(t, view, "$89.00 per m²")
	assert.Contains(t, view, "Living Room")
	assert.Contains(t, view, "Style: Gathered")
	assert.Contains(t, view, "unavailable (AR preview is turned off)")
	assert.NotContains(t, view, "a AR")
}

func TestPreviewStep_RoomAndStyle(t *testing.T) {
	step := NewPreviewStep(testfixtures.Silk(), nil, t.TempDir())

	step.Update(keyRune('r'))
	assert.Equal(t, "bedroom", step.Scene().Room.ID)
	step.Update(keyRune('r'))
	step.Update(keyRune('r'))
	assert.Equal(t, "living", step.Scene().Room.ID)

	step.Update(keyRune('s'))
	assert.Equal(t, preview.StyleStraight, step.Scene().Style)
	assert.Contains(t, plain(step.View()), "Style: Straight")
	step.Update(keyRune('s'))
	assert.Equal(t, preview.StyleGathered, step.Scene().Style)
}

func TestPreviewStep_ARToggleDisabled(t *testing.T) {
	step := NewPreviewStep(testfixtures.Silk(), nil, t.TempDir())
	assert.Nil(t, step.Update(keyRune('a')))
	assert.False(t, step.AROn())

	renderer := testfixtures.NewMockRenderer()
	renderer.AvailableError = errors.New("no camera")
	step = NewPreviewStep(testfixtures.Silk(), newTestSession(renderer), t.TempDir())
	assert.Equal(t, "no camera", step.ARDisabled())
	assert.Nil(t, step.Update(keyRune('a')))
	assert.Contains(t, plain(step.View()), "unavailable (no camera)")
}

func TestPreviewStep_AROnAndOff(t *testing.T) {
	renderer := testfixtures.NewMockRenderer()
	session := newTestSession(renderer)
	t.Cleanup(session.Stop)
	step := NewPreviewStep(testfixtures.Silk(), session, t.TempDir())
	require.Empty(t, step.ARDisabled())

	cmd := step.Update(keyRune('a'))
	require.NotNil(t, cmd)
	assert.Contains(t, plain(step.View()), "starting...")
	// A second press while starting is ignored.
	assert.Nil(t, step.Update(keyRune('a')))

	require.NoError(t, session.Start(context.Background()))
	require.NotNil(t, step.Update(ARStartedMsg{Gen: step.gen}))
	assert.True(t, step.AROn())
	view := plain(step.View())
	assert.Contains(t, view, "AR: on")
	assert.Contains(t, view, "swatch silk.png")
	assert.Contains(t, view, "n swatch")

	cmd = step.Update(keyRune('n'))
	require.NotNil(t, cmd)
	msg, ok := cmd().(SwatchChangedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, "linen.png", msg.Swatch)
	assert.Equal(t, "linen.png", renderer.LastTexture())
	step.Update(msg)
	assert.Contains(t, plain(step.View()), "Swatch: linen.png")

	step.Update(poseTickMsg{})
	assert.Equal(t, preview.CurtainScale, step.pose.Scale)

	assert.Nil(t, step.Update(keyRune('a')))
	assert.False(t, step.AROn())
	assert.False(t, session.Running())
	assert.Contains(t, plain(step.View()), "AR: off")
}

func TestPreviewStep_ARStartFailure(t *testing.T) {
	renderer := testfixtures.NewMockRenderer()
	renderer.ModelError = errors.New("model not found")
	session := newTestSession(renderer)
	step := NewPreviewStep(testfixtures.Silk(), session, t.TempDir())

	step.Update(keyRune('a'))
	err := session.Start(context.Background())
	require.Error(t, err)
	step.Update(ARStartedMsg{Gen: step.gen, Err: err})

	assert.False(t, step.AROn())
	assert.Contains(t, step.ARDisabled(), "model not found")
	assert.Nil(t, step.Update(keyRune('a')))
}

func TestPreviewStep_IgnoresForeignARStart(t *testing.T) {
	session := newTestSession(testfixtures.NewMockRenderer())
	step := NewPreviewStep(testfixtures.Silk(), session, t.TempDir())

	// Nothing pending.
	assert.Nil(t, step.Update(ARStartedMsg{Gen: step.gen}))
	assert.False(t, step.AROn())

	step.Update(keyRune('a'))
	assert.Nil(t, step.Update(ARStartedMsg{Gen: step.gen + 1000, Err: errors.New("boom")}))
	assert.Empty(t, step.ARDisabled())
	assert.True(t, step.ARBusy())
}

func TestPreviewStep_LoopStopDetected(t *testing.T) {
	renderer := testfixtures.NewMockRenderer()
	session := newTestSession(renderer)
	step := NewPreviewStep(testfixtures.Silk(), session, t.TempDir())

	step.Update(keyRune('a'))
	require.NoError(t, session.Start(context.Background()))
	step.Update(ARStartedMsg{Gen: step.gen})
	session.Stop()

	assert.Nil(t, step.Update(poseTickMsg{}))
	assert.False(t, step.AROn())
}

func TestPreviewStep_Capture(t *testing.T) {
	dir := t.TempDir()
	step := NewPreviewStep(testfixtures.Silk(), nil, dir)

	cmd := step.Update(keyRune('c'))
	require.NotNil(t, cmd)
	msg, ok := cmd().(CaptureSavedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, filepath.Join(dir, "curtain-preview-silk-elegance.png"), msg.Path)
	assert.FileExists(t, msg.Path)

	step.Update(msg)
	assert.Contains(t, plain(step.View()), "Saved "+msg.Path)

	step.Update(CaptureSavedMsg{Err: errors.New("disk full")})
	assert.Contains(t, plain(step.View()), "Capture failed: disk full")
}

func TestPreviewStep_Refresh(t *testing.T) {
	step := NewPreviewStep(testfixtures.Silk(), nil, t.TempDir())

	require.NotNil(t, step.Update(ctrlKey('r')))
	assert.Contains(t, plain(step.View()), "Refreshing preview...")
	// Keys are ignored while refreshing.
	assert.Nil(t, step.Update(enterKey))

	step.Update(refreshDoneMsg{})
	assert.NotContains(t, plain(step.View()), "Refreshing")
}

func TestPreviewStep_Continue(t *testing.T) {
	step := NewPreviewStep(testfixtures.Silk(), nil, t.TempDir())
	cmd := step.Update(enterKey)
	require.NotNil(t, cmd)
	assert.IsType(t, ContinueMsg{}, cmd())
}

func TestSceneView_HalfBlocks(t *testing.T) {
	var v sceneView
	scene := preview.NewScene(testfixtures.Silk())

	out := v.View(scene, 32, 6)
	lines := strings.Split(plain(out), "\n")
	require.Len(t, lines, 6)
	for _, line := range lines {
		assert.Equal(t, 32, strings.Count(line, "▀"))
	}

	// Same scene and size reuse the cached rendering.
	key := v.key
	assert.Equal(t, out, v.View(scene, 32, 6))
	assert.Equal(t, key, v.key)

	v.View(scene.NextRoom(), 32, 6)
	assert.NotEqual(t, key, v.key)
	assert.Empty(t, v.View(scene, 0, 6))
}
