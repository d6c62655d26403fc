// Package testfixtures provides mock implementations and test utilities for TUI testing.
//
// MockRenderer stands in for the AR renderer so preview tests can drive the
// session lifecycle without real assets.
package testfixtures

import (
	"context"
	"sync"

	"github.com/mark3labs/drapery/internal/preview"
)

// MockRenderer is a controllable preview.AssetRenderer.
// All methods are safe for concurrent use.
type MockRenderer struct {
	mu sync.Mutex

	// Error to return from Available
	AvailableError error
	// Error to return from LoadModel
	ModelError error
	// Error to return from LoadTexture
	TextureError error
	// Error to return from RenderFrame
	FrameError error

	// Counters for verification
	LoadModelCalls int
	Textures       []string
	Frames         int
	Closed         int
}

// NewMockRenderer creates a renderer that succeeds at everything.
func NewMockRenderer() *MockRenderer {
	return &MockRenderer{}
}

var _ preview.AssetRenderer = (*MockRenderer)(nil)

func (m *MockRenderer) Available() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.AvailableError
}

func (m *MockRenderer) LoadModel(ctx context.Context, modelPath, targetPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadModelCalls++
	return m.ModelError
}

func (m *MockRenderer) LoadTexture(ctx context.Context, swatchPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TextureError != nil {
		return m.TextureError
	}
	m.Textures = append(m.Textures, swatchPath)
	return nil
}

func (m *MockRenderer) RenderFrame(pose preview.Pose) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames++
	return m.FrameError
}

func (m *MockRenderer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed++
	return nil
}

// ClosedCount returns how many times Close was called.
func (m *MockRenderer) ClosedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Closed
}

// LastTexture returns the most recently loaded swatch, or "".
func (m *MockRenderer) LastTexture() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Textures) == 0 {
		return ""
	}
	return m.Textures[len(m.Textures)-1]
}
