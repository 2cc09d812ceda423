package engine

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Initial GPU buffer capacities, in elements. Buffers grow on demand when a
// frame's batch outgrows them.
const (
	initialVertexCapacity = 1024
	initialIndexCapacity  = 1536
)

// wgpuBackend owns the WebGPU handles for one window surface: device, queue,
// the two render pipelines, the per-pipeline vertex/index buffers, and the
// glyph atlas texture. All GPU work happens inside submit.
type wgpuBackend struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	config   *wgpu.SurfaceConfiguration

	solidPipeline *wgpu.RenderPipeline
	glyphPipeline *wgpu.RenderPipeline

	font          *Font
	atlasTexture  *wgpu.Texture
	atlasView     *wgpu.TextureView
	atlasSampler  *wgpu.Sampler
	atlasBindings *wgpu.BindGroup

	solidVB *growableBuffer
	solidIB *growableBuffer
	glyphVB *growableBuffer
	glyphIB *growableBuffer
}

// newWGPUBackend initializes the GPU for the given window: instance,
// adapter, device and queue, surface configuration, the glyph atlas upload,
// and both pipelines.
func newWGPUBackend(window *glfw.Window, font *Font, width, height int, vsync bool) (*wgpuBackend, error) {
	b := &wgpuBackend{font: font}

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: b.surface,
	})
	if err != nil {
		b.close()
		return nil, fmt.Errorf("failed to request adapter: %v", err)
	}
	b.adapter = adapter

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		b.close()
		return nil, fmt.Errorf("failed to request device: %v", err)
	}
	b.device = device
	b.queue = device.GetQueue()

	caps := b.surface.GetCapabilities(adapter)
	presentMode := wgpu.PresentModeFifo
	if !vsync {
		presentMode = wgpu.PresentModeImmediate
	}
	b.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: presentMode,
		AlphaMode:   caps.AlphaModes[0],
	}
	b.surface.Configure(b.adapter, b.device, b.config)

	if err := b.initAtlas(); err != nil {
		b.close()
		return nil, err
	}
	if err := b.initPipelines(); err != nil {
		b.close()
		return nil, err
	}

	b.solidVB = newGrowableBuffer(device, "Solid Vertex Buffer",
		wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst, initialVertexCapacity*solidVertexStride)
	b.solidIB = newGrowableBuffer(device, "Solid Index Buffer",
		wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst, initialIndexCapacity*2)
	b.glyphVB = newGrowableBuffer(device, "Glyph Vertex Buffer",
		wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst, initialVertexCapacity*glyphVertexStride)
	b.glyphIB = newGrowableBuffer(device, "Glyph Index Buffer",
		wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst, initialIndexCapacity*2)

	return b, nil
}

// Vertex strides in bytes, matching batch.go layouts and the WGSL inputs.
const (
	solidVertexStride = 6 * 4
	glyphVertexStride = 8 * 4
)

// initAtlas uploads the font atlas and builds its sampler and bind group.
func (b *wgpuBackend) initAtlas() error {
	atlas := b.font.Atlas()
	bounds := atlas.Bounds()
	w, h := uint32(bounds.Dx()), uint32(bounds.Dy())

	texture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Glyph Atlas",
		Size:          wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create atlas texture: %v", err)
	}
	b.atlasTexture = texture

	err = b.queue.WriteTexture(
		texture.AsImageCopy(),
		atlas.Pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(atlas.Stride),
			RowsPerImage: h,
		},
		&wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("failed to upload atlas texture: %v", err)
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("failed to create atlas view: %v", err)
	}
	b.atlasView = view

	sampler, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Glyph Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create atlas sampler: %v", err)
	}
	b.atlasSampler = sampler

	return nil
}

// initPipelines compiles both WGSL shaders and builds the solid and glyph
// render pipelines with premultiplied-style alpha blending.
func (b *wgpuBackend) initPipelines() error {
	alphaBlend := &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}

	solidShader, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Solid Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: solidShaderSource},
	})
	if err != nil {
		return fmt.Errorf("failed to compile solid shader: %v", err)
	}
	defer solidShader.Release()

	solidPipeline, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Solid Pipeline",
		Vertex: wgpu.VertexState{
			Module:     solidShader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: solidVertexStride,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1},
				},
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
		Fragment: &wgpu.FragmentState{
			Module:     solidShader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    b.config.Format,
				Blend:     alphaBlend,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create solid pipeline: %v", err)
	}
	b.solidPipeline = solidPipeline

	glyphShader, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Glyph Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: glyphShaderSource},
	})
	if err != nil {
		return fmt.Errorf("failed to compile glyph shader: %v", err)
	}
	defer glyphShader.Release()

	bindLayout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Glyph Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create glyph bind group layout: %v", err)
	}
	defer bindLayout.Release()

	bindings, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Glyph Bind Group",
		Layout: bindLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: b.atlasView},
			{Binding: 1, Sampler: b.atlasSampler},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create glyph bind group: %v", err)
	}
	b.atlasBindings = bindings

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Glyph Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create glyph pipeline layout: %v", err)
	}
	defer pipelineLayout.Release()

	glyphPipeline, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Glyph Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     glyphShader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: glyphVertexStride,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
		Fragment: &wgpu.FragmentState{
			Module:     glyphShader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    b.config.Format,
				Blend:     alphaBlend,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create glyph pipeline: %v", err)
	}
	b.glyphPipeline = glyphPipeline

	return nil
}

// submit encodes the frame: acquire the surface texture, clear, draw solids,
// draw each text group, then submit and present.
func (b *wgpuBackend) submit(batch *FrameBatch, clear Color) error {
	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		// Outdated/lost surfaces recover after a reconfigure next frame.
		return fmt.Errorf("%w: %v", ErrSurfaceLost, err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceLost, err)
	}
	defer view.Release()

	if err := b.upload(batch); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceLost, err)
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceLost, err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: float64(clear.R),
				G: float64(clear.G),
				B: float64(clear.B),
				A: float64(clear.A),
			},
		}},
	})

	if len(batch.solidIndices) > 0 {
		pass.SetPipeline(b.solidPipeline)
		pass.SetVertexBuffer(0, b.solidVB.buffer, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(b.solidIB.buffer, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
		pass.DrawIndexed(uint32(len(batch.solidIndices)), 1, 0, 0, 0)
	}

	var firstIndex, baseVertex uint32
	for _, g := range batch.textGroups {
		if len(g.indices) == 0 || g.font != b.font {
			continue
		}
		pass.SetPipeline(b.glyphPipeline)
		pass.SetBindGroup(0, b.atlasBindings, nil)
		pass.SetVertexBuffer(0, b.glyphVB.buffer, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(b.glyphIB.buffer, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
		pass.DrawIndexed(uint32(len(g.indices)), 1, firstIndex, int32(baseVertex), 0)
		firstIndex += uint32(len(g.indices))
		baseVertex += uint32(len(g.vertices))
	}

	pass.End()
	pass.Release()

	commands, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceLost, err)
	}
	defer commands.Release()

	b.queue.Submit(commands)
	b.surface.Present()

	return nil
}

// upload writes the batch's vertex and index data into the GPU buffers,
// growing them when needed. Index slices are padded to an even count so the
// u16 writes stay aligned to the 4-byte write granularity.
func (b *wgpuBackend) upload(batch *FrameBatch) error {
	if len(batch.solidIndices) > 0 {
		if err := b.solidVB.write(b.queue, wgpu.ToBytes(batch.solidVertices)); err != nil {
			return err
		}
		if err := b.solidIB.write(b.queue, wgpu.ToBytes(padIndices(batch.solidIndices))); err != nil {
			return err
		}
	}

	var glyphVertices []glyphVertex
	var glyphIndices []uint16
	for _, g := range batch.textGroups {
		if g.font != b.font {
			continue
		}
		glyphVertices = append(glyphVertices, g.vertices...)
		glyphIndices = append(glyphIndices, g.indices...)
	}
	if len(glyphIndices) > 0 {
		if err := b.glyphVB.write(b.queue, wgpu.ToBytes(glyphVertices)); err != nil {
			return err
		}
		if err := b.glyphIB.write(b.queue, wgpu.ToBytes(padIndices(glyphIndices))); err != nil {
			return err
		}
	}

	return nil
}

// padIndices returns the slice padded with one trailing index when its
// length is odd, keeping u16 buffer writes 4-byte aligned.
func padIndices(indices []uint16) []uint16 {
	if len(indices)%2 == 0 {
		return indices
	}
	return append(indices, 0)
}

// resize reconfigures the surface for a new framebuffer size.
func (b *wgpuBackend) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	b.config.Width = uint32(width)
	b.config.Height = uint32(height)
	b.surface.Configure(b.adapter, b.device, b.config)
}

// close releases all GPU resources in reverse creation order.
func (b *wgpuBackend) close() {
	for _, buf := range []*growableBuffer{b.glyphIB, b.glyphVB, b.solidIB, b.solidVB} {
		if buf != nil {
			buf.release()
		}
	}
	if b.glyphPipeline != nil {
		b.glyphPipeline.Release()
	}
	if b.solidPipeline != nil {
		b.solidPipeline.Release()
	}
	if b.atlasBindings != nil {
		b.atlasBindings.Release()
	}
	if b.atlasSampler != nil {
		b.atlasSampler.Release()
	}
	if b.atlasView != nil {
		b.atlasView.Release()
	}
	if b.atlasTexture != nil {
		b.atlasTexture.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}

// growableBuffer is a GPU buffer that doubles its capacity whenever a write
// outgrows it, so steady-state frames never reallocate.
type growableBuffer struct {
	device *wgpu.Device
	label  string
	usage  wgpu.BufferUsage
	size   uint64
	buffer *wgpu.Buffer
}

func newGrowableBuffer(device *wgpu.Device, label string, usage wgpu.BufferUsage, size uint64) *growableBuffer {
	return &growableBuffer{device: device, label: label, usage: usage, size: size}
}

func (g *growableBuffer) write(queue *wgpu.Queue, data []byte) error {
	needed := uint64(len(data))
	if g.buffer == nil || needed > g.size {
		for needed > g.size {
			g.size *= 2
		}
		if g.buffer != nil {
			g.buffer.Release()
		}
		buffer, err := g.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: g.label,
			Size:  g.size,
			Usage: g.usage,
		})
		if err != nil {
			return fmt.Errorf("failed to create %s: %v", g.label, err)
		}
		g.buffer = buffer
	}
	return queue.WriteBuffer(g.buffer, 0, data)
}

func (g *growableBuffer) release() {
	if g.buffer != nil {
		g.buffer.Release()
		g.buffer = nil
	}
}
