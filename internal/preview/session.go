package preview

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/mark3labs/drapery/internal/logger"
)

const (
	// CurtainScale is the uniform scale of the anchored model.
	CurtainScale = 0.5
	// SwayAmplitude is the peak z rotation in radians.
	SwayAmplitude = 0.05
	// SwayStep is the phase advance per frame.
	SwayStep = 0.01
	// DefaultFPS is used when Assets.FPS is not set.
	DefaultFPS = 30
)

// ErrNoSwatches is returned when a session has no texture to apply.
var ErrNoSwatches = errors.New("no fabric swatches configured")

// Assets locates everything an AR session loads.
type Assets struct {
	Model    string
	Target   string
	Swatches []string
	FPS      int
}

// Session is one AR viewing session. A Session can be started and stopped
// repeatedly; at most one frame loop runs at a time.
type Session struct {
	renderer AssetRenderer
	assets   Assets
	log      *logger.Logger

	starting sync.Mutex // serializes Start

	mu      sync.Mutex
	swatch  int
	phase   float64
	cancel  context.CancelFunc
	done    chan struct{}
	lastErr error
}

// NewSession returns a stopped session.
func NewSession(r AssetRenderer, a Assets) *Session {
	if a.FPS <= 0 {
		a.FPS = DefaultFPS
	}
	return &Session{
		renderer: r,
		assets:   a,
		log:      logger.Default.With("ar"),
	}
}

// Supported reports whether the renderer can run at all.
func (s *Session) Supported() error {
	return s.renderer.Available()
}

// Start loads the model and current swatch and begins the frame loop. Any
// running loop is stopped first, including one begun by a concurrent Start.
// On error the session stays stopped.
func (s *Session) Start(ctx context.Context) error {
	s.starting.Lock()
	defer s.starting.Unlock()
	s.Stop()

	if err := s.renderer.Available(); err != nil {
		return s.fail(err)
	}
	if len(s.assets.Swatches) == 0 {
		return s.fail(ErrNoSwatches)
	}
	if err := s.renderer.LoadModel(ctx, s.assets.Model, s.assets.Target); err != nil {
		return s.fail(fmt.Errorf("loading curtain model: %w", err))
	}

	s.mu.Lock()
	swatch := s.assets.Swatches[s.swatch]
	s.mu.Unlock()
	if err := s.renderer.LoadTexture(ctx, swatch); err != nil {
		_ = s.renderer.Close()
		return s.fail(fmt.Errorf("loading fabric texture: %w", err))
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.lastErr = nil
	s.phase = 0
	s.mu.Unlock()

	go s.loop(loopCtx, done)
	s.log.Info("session started with %s", swatch)
	return nil
}

// Stop halts the frame loop and waits for it to exit. Stopping a stopped
// session does nothing.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	if err := s.renderer.Close(); err != nil {
		s.log.Warn("closing renderer: %v", err)
	}
	s.log.Info("session stopped")
}

// Running reports whether a frame loop is active.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Err returns the error that last stopped or prevented the session.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Swatch returns the path of the selected swatch.
func (s *Session) Swatch() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.assets.Swatches) == 0 {
		return ""
	}
	return s.assets.Swatches[s.swatch]
}

// NextSwatch selects the following swatch, wrapping around, and applies it
// to the running model.
func (s *Session) NextSwatch(ctx context.Context) (string, error) {
	s.mu.Lock()
	if len(s.assets.Swatches) == 0 {
		s.mu.Unlock()
		return "", ErrNoSwatches
	}
	s.swatch = (s.swatch + 1) % len(s.assets.Swatches)
	swatch := s.assets.Swatches[s.swatch]
	running := s.cancel != nil
	s.mu.Unlock()

	if !running {
		return swatch, nil
	}
	if err := s.renderer.LoadTexture(ctx, swatch); err != nil {
		return swatch, fmt.Errorf("changing fabric texture: %w", err)
	}
	return swatch, nil
}

// Pose returns the transform for the current sway phase.
func (s *Session) Pose() Pose {
	s.mu.Lock()
	defer s.mu.Unlock()
	return poseAt(s.phase)
}

func poseAt(phase float64) Pose {
	return Pose{Scale: CurtainScale, Rotation: SwayAmplitude * math.Sin(phase)}
}

// tick advances the sway by one frame and returns the new pose.
func (s *Session) tick() Pose {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase += SwayStep
	return poseAt(s.phase)
}

func (s *Session) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Second / time.Duration(s.assets.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.renderer.RenderFrame(s.tick()); err != nil {
				s.mu.Lock()
				s.lastErr = err
				cancel := s.cancel
				s.cancel = nil
				s.done = nil
				s.mu.Unlock()
				if cancel != nil {
					cancel()
				}
				_ = s.renderer.Close()
				s.log.Error("frame failed, stopping session: %v", err)
				return
			}
		}
	}
}

func (s *Session) fail(err error) error {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.log.Warn("AR unavailable: %v", err)
	return err
}
