package engine

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// InputHandler tracks keyboard state across frames so callers can tell keys
// held down from keys that changed state this frame.
type InputHandler struct {
	window       *glfw.Window
	tracked      []glfw.Key
	currentKeys  map[glfw.Key]bool
	previousKeys map[glfw.Key]bool
}

// NewInputHandler creates a handler polling the given keys each Update.
func NewInputHandler(window *glfw.Window, tracked ...glfw.Key) *InputHandler {
	return &InputHandler{
		window:       window,
		tracked:      tracked,
		currentKeys:  make(map[glfw.Key]bool, len(tracked)),
		previousKeys: make(map[glfw.Key]bool, len(tracked)),
	}
}

// Update snapshots the tracked keys. Call once per frame, after polling
// window events.
func (ih *InputHandler) Update() {
	ih.currentKeys, ih.previousKeys = ih.previousKeys, ih.currentKeys
	for _, key := range ih.tracked {
		ih.currentKeys[key] = ih.window.GetKey(key) == glfw.Press
	}
}

// IsKeyDown reports whether the key is currently held.
func (ih *InputHandler) IsKeyDown(key glfw.Key) bool {
	return ih.currentKeys[key]
}

// IsKeyPressed reports whether the key went down this frame.
func (ih *InputHandler) IsKeyPressed(key glfw.Key) bool {
	return ih.currentKeys[key] && !ih.previousKeys[key]
}

// IsKeyReleased reports whether the key went up this frame.
func (ih *InputHandler) IsKeyReleased(key glfw.Key) bool {
	return !ih.currentKeys[key] && ih.previousKeys[key]
}
