package engine

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"pong/internal/logger"
)

// frameState tracks where the renderer is in the begin/end cycle.
type frameState int

const (
	stateIdle frameState = iota
	stateRecording
)

// Renderer is the immediate-mode drawing facade. One begin/end pair renders
// and presents one frame; draw calls are only legal between the two. The
// renderer owns the GPU handles (through its backend), the frame batch and
// the viewport size, and performs no game logic: every call receives fully
// resolved values.
//
// The renderer is single-threaded: one frame executes to completion on the
// calling thread before the next may start.
type Renderer struct {
	backend renderBackend
	log     *logger.Logger
	font    *Font

	width  int
	height int

	// Resizes arriving mid-frame are deferred to the next BeginDrawing.
	pendingWidth  int
	pendingHeight int
	resizePending bool

	state frameState
	batch FrameBatch
	clear Color
}

// NewRenderer initializes the GPU for the given window and returns the
// drawing facade. The font must be fully built before rendering begins; its
// atlas is uploaded once here.
func NewRenderer(window *glfw.Window, font *Font, vsync bool, log *logger.Logger) (*Renderer, error) {
	width, height := window.GetFramebufferSize()

	backend, err := newWGPUBackend(window, font, width, height, vsync)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gpu backend: %v", err)
	}

	log.Infof("Renderer initialized (%dx%d, vsync=%v)", width, height, vsync)
	return newRenderer(backend, font, log, width, height), nil
}

// newRenderer wires a renderer around any backend; tests pass a fake.
func newRenderer(backend renderBackend, font *Font, log *logger.Logger, width, height int) *Renderer {
	return &Renderer{
		backend: backend,
		log:     log,
		font:    font,
		width:   width,
		height:  height,
		clear:   RGBA(0, 0, 0, 1),
	}
}

// Size returns the current viewport size in pixels, for caller-side layout
// math. The renderer never auto-centers anything itself.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// Resize absorbs a surface size change. Mid-frame resizes are deferred until
// the next BeginDrawing so the surface is never reconfigured while a frame
// is being recorded.
func (r *Renderer) Resize(width, height int) {
	if r.state == stateRecording {
		r.pendingWidth, r.pendingHeight = width, height
		r.resizePending = true
		r.log.Debugf("Resize to %dx%d deferred until end of frame", width, height)
		return
	}
	r.applyResize(width, height)
}

func (r *Renderer) applyResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
	r.backend.resize(width, height)
}

// BeginDrawing opens a frame: applies any deferred resize and resets the
// accumulation state. Calling it while a frame is already open returns
// ErrFrameState.
func (r *Renderer) BeginDrawing() error {
	if r.state != stateIdle {
		return fmt.Errorf("%w: BeginDrawing called while a frame is open", ErrFrameState)
	}
	if r.resizePending {
		r.applyResize(r.pendingWidth, r.pendingHeight)
		r.resizePending = false
	}
	r.batch.reset()
	r.state = stateRecording
	return nil
}

// ClearColor sets the pending render-pass clear value. It enqueues no
// geometry; it may be called at any time before EndDrawing's flush, and the
// last call wins.
func (r *Renderer) ClearColor(c Color) {
	r.clear = c
}

// DrawRectangle draws a filled rectangle with its origin at the given corner,
// rotated about that corner. Negative dimensions are clamped to zero.
func (r *Renderer) DrawRectangle(origin Vec2, width, height float32, col Color, rotation Angle) {
	if !r.recording("DrawRectangle") {
		return
	}
	corners := TessellateRectangle(origin, width, height, rotation)
	r.batch.addFan(r.toClip(corners[:]), col)
}

// DrawTriangle draws a filled triangle rotated about its centroid.
func (r *Renderer) DrawTriangle(v1, v2, v3 Vec2, col Color, rotation Angle) {
	if !r.recording("DrawTriangle") {
		return
	}
	centroid := V2((v1.X+v2.X+v3.X)/3, (v1.Y+v2.Y+v3.Y)/3)
	points := []Vec2{
		v1.Sub(centroid).Rotated(rotation).Add(centroid),
		v2.Sub(centroid).Rotated(rotation).Add(centroid),
		v3.Sub(centroid).Rotated(rotation).Add(centroid),
	}
	r.batch.addFan(r.toClip(points), col)
}

// DrawCircle draws a filled circle. A negative radius is clamped to zero.
func (r *Renderer) DrawCircle(center Vec2, radius float32, col Color) {
	if !r.recording("DrawCircle") {
		return
	}
	r.batch.addFan(r.toClip(TessellateCircle(center, radius)), col)
}

// DrawText draws text anchored at origin (top-left of the first line). A nil
// color draws white. Runes missing from the font's atlas are skipped, never
// fatal.
func (r *Renderer) DrawText(text string, origin Vec2, pixelSize, lineHeight float32, col *Color) {
	if !r.recording("DrawText") {
		return
	}
	c := White
	if col != nil {
		c = *col
	}
	for _, q := range r.font.Layout(text, origin, pixelSize, lineHeight, c) {
		corners := [4][2]float32{
			r.toNDC(q.Pos),
			r.toNDC(q.Pos.Add(V2(q.Size.X, 0))),
			r.toNDC(q.Pos.Add(q.Size)),
			r.toNDC(q.Pos.Add(V2(0, q.Size.Y))),
		}
		r.batch.addGlyph(r.font, q, corners)
	}
}

// MeasureText returns the text's bounding width at the requested pixel size,
// using the same metrics table DrawText draws with, so measured layout math
// (centering, right-aligning) always matches the drawn result. Valid at any
// time, inside or outside a frame.
func (r *Renderer) MeasureText(text string, pixelSize, lineHeight float32) float32 {
	width, _ := r.font.Measure(text, pixelSize, lineHeight)
	return width
}

// EndDrawing flushes the frame: the batched geometry is submitted in a
// single render pass (cleared to the pending clear color, solid geometry
// first, then text) and presented. Calling it without an open frame returns
// ErrFrameState. A returned ErrSurfaceLost is recoverable by reconfiguring
// via Resize; ErrDeviceLost requires recreating the renderer.
func (r *Renderer) EndDrawing() error {
	if r.state != stateRecording {
		return fmt.Errorf("%w: EndDrawing called without BeginDrawing", ErrFrameState)
	}
	r.state = stateIdle

	if err := r.backend.submit(&r.batch, r.clear); err != nil {
		return fmt.Errorf("failed to present frame: %w", err)
	}
	return nil
}

// Close releases all GPU resources. The renderer must be Idle.
func (r *Renderer) Close() {
	r.backend.close()
}

// recording reports whether a frame is open, logging the violation when not.
// Draw calls outside a frame are dropped: loud in the log, harmless at
// runtime.
func (r *Renderer) recording(op string) bool {
	if r.state == stateRecording {
		return true
	}
	r.log.Errorf("%s called outside BeginDrawing/EndDrawing: %v", op, ErrFrameState)
	return false
}

// toNDC converts a pixel-space point (origin top-left, y down) to clip
// space (origin center, y up).
func (r *Renderer) toNDC(p Vec2) [2]float32 {
	return [2]float32{
		2*p.X/float32(r.width) - 1,
		-(2*p.Y/float32(r.height) - 1),
	}
}

func (r *Renderer) toClip(points []Vec2) [][2]float32 {
	clip := make([][2]float32, len(points))
	for i, p := range points {
		clip[i] = r.toNDC(p)
	}
	return clip
}
