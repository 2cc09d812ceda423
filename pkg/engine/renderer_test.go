package engine

import (
	"errors"
	"fmt"
	"testing"

	"pong/internal/logger"
)

// recordedFrame is one submitted frame, deep-copied out of the batch.
type recordedFrame struct {
	clear         Color
	solidVertices []solidVertex
	solidIndices  []uint16
	glyphVertices int
	glyphIndices  int
}

// fakeBackend records submissions instead of touching a GPU.
type fakeBackend struct {
	frames   []recordedFrame
	resizes  [][2]int
	closed   bool
	failWith error
}

func (f *fakeBackend) submit(batch *FrameBatch, clear Color) error {
	if f.failWith != nil {
		return f.failWith
	}
	frame := recordedFrame{
		clear:         clear,
		solidVertices: append([]solidVertex(nil), batch.solidVertices...),
		solidIndices:  append([]uint16(nil), batch.solidIndices...),
	}
	for _, g := range batch.textGroups {
		frame.glyphVertices += len(g.vertices)
		frame.glyphIndices += len(g.indices)
	}
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeBackend) resize(width, height int) {
	f.resizes = append(f.resizes, [2]int{width, height})
}

func (f *fakeBackend) close() {
	f.closed = true
}

func newTestRenderer(t *testing.T) (*Renderer, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{}
	r := newRenderer(backend, newTestFont(t), logger.NewLogger("fatal"), 640, 480)
	return r, backend
}

func TestBeginDrawing_TwiceFails(t *testing.T) {
	r, _ := newTestRenderer(t)

	if err := r.BeginDrawing(); err != nil {
		t.Fatalf("first BeginDrawing: %v", err)
	}
	if err := r.BeginDrawing(); !errors.Is(err, ErrFrameState) {
		t.Fatalf("second BeginDrawing = %v, want ErrFrameState", err)
	}
}

func TestEndDrawing_WithoutBeginFails(t *testing.T) {
	r, backend := newTestRenderer(t)

	if err := r.EndDrawing(); !errors.Is(err, ErrFrameState) {
		t.Fatalf("EndDrawing = %v, want ErrFrameState", err)
	}
	if len(backend.frames) != 0 {
		t.Errorf("a frame was submitted despite the lifecycle violation")
	}
}

func TestDrawOutsideFrame_IsDropped(t *testing.T) {
	r, backend := newTestRenderer(t)

	// Must not panic, must not leak into the next frame.
	r.DrawRectangle(V2(0, 0), 10, 10, White, Deg(0))
	r.DrawCircle(V2(5, 5), 3, White)
	r.DrawText("x", V2(0, 0), 32, 32, nil)

	if err := r.BeginDrawing(); err != nil {
		t.Fatal(err)
	}
	if err := r.EndDrawing(); err != nil {
		t.Fatal(err)
	}

	frame := backend.frames[0]
	if len(frame.solidIndices) != 0 || frame.glyphIndices != 0 {
		t.Errorf("out-of-frame draws leaked into the next frame: %+v", frame)
	}
}

// One rectangle ends up as exactly one solid submission: 4 unique vertices,
// 2 triangles, cleared to the requested color.
func TestEndDrawing_SingleRectangle(t *testing.T) {
	r, backend := newTestRenderer(t)

	if err := r.BeginDrawing(); err != nil {
		t.Fatal(err)
	}
	r.ClearColor(RGBA(0.1, 0.1, 0.1, 1))
	r.DrawRectangle(V2(0, 0), 100, 20, RGB(1, 0, 0), Deg(0))
	if err := r.EndDrawing(); err != nil {
		t.Fatal(err)
	}

	if len(backend.frames) != 1 {
		t.Fatalf("got %d submissions, want 1", len(backend.frames))
	}
	frame := backend.frames[0]

	if frame.clear != RGBA(0.1, 0.1, 0.1, 1) {
		t.Errorf("clear = %v", frame.clear)
	}
	if len(frame.solidVertices) != 4 {
		t.Errorf("got %d vertices, want 4", len(frame.solidVertices))
	}
	if len(frame.solidIndices) != 6 {
		t.Errorf("got %d indices, want 6 (2 triangles)", len(frame.solidIndices))
	}

	// Pixel (0,0) is clip-space (-1, 1) in a y-down viewport.
	if got := frame.solidVertices[0].pos; got != [2]float32{-1, 1} {
		t.Errorf("top-left corner in clip space = %v, want (-1, 1)", got)
	}
	for _, v := range frame.solidVertices {
		if v.color != [4]float32{1, 0, 0, 1} {
			t.Errorf("vertex color = %v, want red", v.color)
		}
	}
}

func TestEndDrawing_SecondRectangleIndicesOffset(t *testing.T) {
	r, backend := newTestRenderer(t)

	if err := r.BeginDrawing(); err != nil {
		t.Fatal(err)
	}
	r.DrawRectangle(V2(0, 0), 10, 10, White, Deg(0))
	r.DrawRectangle(V2(20, 0), 10, 10, White, Deg(0))
	if err := r.EndDrawing(); err != nil {
		t.Fatal(err)
	}

	frame := backend.frames[0]
	if len(frame.solidVertices) != 8 || len(frame.solidIndices) != 12 {
		t.Fatalf("got %d vertices / %d indices, want 8 / 12",
			len(frame.solidVertices), len(frame.solidIndices))
	}
	for _, idx := range frame.solidIndices[6:] {
		if idx < 4 {
			t.Fatalf("second rectangle references first rectangle's vertex %d", idx)
		}
	}
}

func TestDrawText_BatchesGlyphQuads(t *testing.T) {
	r, backend := newTestRenderer(t)

	if err := r.BeginDrawing(); err != nil {
		t.Fatal(err)
	}
	r.DrawText("AB", V2(10, 10), 32, 32, nil)
	if err := r.EndDrawing(); err != nil {
		t.Fatal(err)
	}

	frame := backend.frames[0]
	if frame.glyphVertices != 8 || frame.glyphIndices != 12 {
		t.Errorf("got %d glyph vertices / %d indices, want 8 / 12",
			frame.glyphVertices, frame.glyphIndices)
	}
}

func TestEndDrawing_SurfaceLostIsRecoverable(t *testing.T) {
	r, backend := newTestRenderer(t)
	backend.failWith = fmt.Errorf("%w: outdated", ErrSurfaceLost)

	if err := r.BeginDrawing(); err != nil {
		t.Fatal(err)
	}
	err := r.EndDrawing()
	if !errors.Is(err, ErrSurfaceLost) {
		t.Fatalf("EndDrawing = %v, want ErrSurfaceLost", err)
	}

	// The renderer must be Idle again: the next frame proceeds normally.
	backend.failWith = nil
	r.Resize(r.Size())
	if err := r.BeginDrawing(); err != nil {
		t.Fatalf("BeginDrawing after dropped frame: %v", err)
	}
	if err := r.EndDrawing(); err != nil {
		t.Fatalf("EndDrawing after dropped frame: %v", err)
	}
}

func TestResize_DeferredWhileRecording(t *testing.T) {
	r, backend := newTestRenderer(t)

	if err := r.BeginDrawing(); err != nil {
		t.Fatal(err)
	}
	r.Resize(800, 600)

	if w, h := r.Size(); w != 640 || h != 480 {
		t.Errorf("size changed mid-frame to %dx%d", w, h)
	}
	if len(backend.resizes) != 0 {
		t.Errorf("surface reconfigured mid-frame")
	}

	if err := r.EndDrawing(); err != nil {
		t.Fatal(err)
	}
	if err := r.BeginDrawing(); err != nil {
		t.Fatal(err)
	}

	if w, h := r.Size(); w != 800 || h != 600 {
		t.Errorf("deferred resize not applied, size = %dx%d", w, h)
	}
	if len(backend.resizes) != 1 || backend.resizes[0] != [2]int{800, 600} {
		t.Errorf("backend resizes = %v", backend.resizes)
	}
	if err := r.EndDrawing(); err != nil {
		t.Fatal(err)
	}
}

func TestClearColor_LastCallWins(t *testing.T) {
	r, backend := newTestRenderer(t)

	if err := r.BeginDrawing(); err != nil {
		t.Fatal(err)
	}
	r.ClearColor(RGB(1, 0, 0))
	r.ClearColor(RGB(0, 1, 0))
	if err := r.EndDrawing(); err != nil {
		t.Fatal(err)
	}

	if got := backend.frames[0].clear; got != RGB(0, 1, 0) {
		t.Errorf("clear = %v, want the last ClearColor value", got)
	}
}

func TestMeasureText_ValidOutsideFrame(t *testing.T) {
	r, _ := newTestRenderer(t)

	if w := r.MeasureText("Pong", 32, 32); w <= 0 {
		t.Errorf("MeasureText = %v, want > 0", w)
	}
}
