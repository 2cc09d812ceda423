package engine

// renderBackend is the narrow GPU interface behind the Renderer facade. The
// production implementation is the WebGPU backend in backend_wgpu.go; tests
// substitute a recording fake so the frame lifecycle and batching logic run
// without a device.
type renderBackend interface {
	// submit encodes and presents one frame: it acquires the next surface
	// texture, clears it to clear, draws the batch (solid geometry first,
	// then each text group in insertion order), submits and presents.
	// Returns ErrSurfaceLost or ErrDeviceLost wrapped with context.
	submit(batch *FrameBatch, clear Color) error

	// resize reconfigures the presentation surface. Only called between
	// frames; the renderer defers mid-frame resizes.
	resize(width, height int)

	close()
}
