package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"sync/atomic"
)

var (
	// ErrRendererUnavailable is returned when no AR capable renderer exists.
	ErrRendererUnavailable = errors.New("AR renderer unavailable")
	// ErrInvalidModel is returned for a curtain model that is not binary glTF.
	ErrInvalidModel = errors.New("invalid curtain model")
	// ErrInvalidTexture is returned for a swatch that cannot be decoded.
	ErrInvalidTexture = errors.New("invalid fabric texture")
	// ErrMissingTarget is returned when the image-target descriptor is absent.
	ErrMissingTarget = errors.New("AR image target not found")
)

// Pose is the per-frame transform applied to the anchored curtain.
type Pose struct {
	Scale    float64
	Rotation float64 // radians about the z axis
}

// AssetRenderer is the capability the AR session drives. Implementations
// wrap a tracking and rendering engine; the session only loads assets and
// pushes one pose per frame.
type AssetRenderer interface {
	// Available reports why the renderer cannot run, or nil.
	Available() error
	// LoadModel loads the curtain model anchored to the image target.
	LoadModel(ctx context.Context, modelPath, targetPath string) error
	// LoadTexture applies a fabric swatch to every mesh of the model.
	LoadTexture(ctx context.Context, swatchPath string) error
	// RenderFrame draws one frame with the given pose.
	RenderFrame(p Pose) error
	// Close releases anything the renderer holds.
	Close() error
}

// Unavailable is the renderer used when AR is disabled or unsupported.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Available() error {
	if u.Reason == "" {
		return ErrRendererUnavailable
	}
	return fmt.Errorf("%w: %s", ErrRendererUnavailable, u.Reason)
}

func (u Unavailable) LoadModel(context.Context, string, string) error { return u.Available() }
func (u Unavailable) LoadTexture(context.Context, string) error       { return u.Available() }
func (u Unavailable) RenderFrame(Pose) error                          { return u.Available() }
func (u Unavailable) Close() error                                    { return nil }

// glbMagic opens every binary glTF file.
var glbMagic = []byte("glTF")

// FileRenderer validates the on-disk assets and counts frames. It stands in
// for an engine in terminals, where nothing can be drawn in 3D.
type FileRenderer struct {
	modelLoaded atomic.Bool
	texture     atomic.Value // string
	frames      atomic.Int64
	lastPose    atomic.Value // Pose
}

// NewFileRenderer returns a renderer that checks assets on disk.
func NewFileRenderer() *FileRenderer {
	return &FileRenderer{}
}

func (r *FileRenderer) Available() error { return nil }

func (r *FileRenderer) LoadModel(ctx context.Context, modelPath, targetPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(targetPath); err != nil {
		return fmt.Errorf("%w: %s", ErrMissingTarget, targetPath)
	}
	f, err := os.Open(modelPath)
	if err != nil {
		return fmt.Errorf("opening curtain model: %w", err)
	}
	defer f.Close()

	head := make([]byte, len(glbMagic))
	if _, err := io.ReadFull(f, head); err != nil || !bytes.Equal(head, glbMagic) {
		return fmt.Errorf("%w: %s", ErrInvalidModel, modelPath)
	}
	r.modelLoaded.Store(true)
	return nil
}

func (r *FileRenderer) LoadTexture(ctx context.Context, swatchPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !r.modelLoaded.Load() {
		return fmt.Errorf("%w: model not loaded", ErrInvalidModel)
	}
	f, err := os.Open(swatchPath)
	if err != nil {
		return fmt.Errorf("opening swatch: %w", err)
	}
	defer f.Close()

	if _, _, err := image.DecodeConfig(f); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidTexture, swatchPath, err)
	}
	r.texture.Store(swatchPath)
	return nil
}

func (r *FileRenderer) RenderFrame(p Pose) error {
	r.frames.Add(1)
	r.lastPose.Store(p)
	return nil
}

func (r *FileRenderer) Close() error {
	r.modelLoaded.Store(false)
	return nil
}

// Frames returns how many frames have been rendered.
func (r *FileRenderer) Frames() int64 { return r.frames.Load() }

// Texture returns the swatch currently applied.
func (r *FileRenderer) Texture() string {
	s, _ := r.texture.Load().(string)
	return s
}

// LastPose returns the most recent frame's pose.
func (r *FileRenderer) LastPose() Pose {
	p, _ := r.lastPose.Load().(Pose)
	return p
}
