package engine

import "errors"

// Error kinds surfaced by the frame lifecycle. Callers classify them with
// errors.Is; EndDrawing wraps them with context.
var (
	// ErrFrameState reports BeginDrawing/EndDrawing called out of order, or
	// a draw call issued outside a frame. This is a programmer error and is
	// always reported, never silently swallowed.
	ErrFrameState = errors.New("frame lifecycle violation")

	// ErrSurfaceLost reports a lost or outdated presentation surface.
	// Recoverable: reconfigure the surface (Resize) and retry next frame.
	ErrSurfaceLost = errors.New("presentation surface lost")

	// ErrDeviceLost reports a lost GPU device. Fatal: the renderer must be
	// torn down and recreated.
	ErrDeviceLost = errors.New("gpu device lost")
)
