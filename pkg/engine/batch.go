package engine

// solidVertex matches the solid pipeline's vertex layout: clip-space
// position followed by an RGBA fill color.
type solidVertex struct {
	pos   [2]float32
	color [4]float32
}

// glyphVertex matches the glyph pipeline's vertex layout: clip-space
// position, atlas texture coordinates, then the text color.
type glyphVertex struct {
	pos   [2]float32
	uv    [2]float32
	color [4]float32
}

// textGroup batches the glyph quads that share one font atlas, so the whole
// group can be drawn with a single bind and a single indexed draw.
type textGroup struct {
	font     *Font
	vertices []glyphVertex
	indices  []uint16
}

// FrameBatch is the mutable accumulation state for one frame: one growable
// vertex/index group per GPU pipeline. It is reset at BeginDrawing,
// populated by draw calls in call order (alpha blending is order-sensitive,
// so geometry is never reordered within a group), and consumed at
// EndDrawing. Solid geometry flushes before text.
type FrameBatch struct {
	solidVertices []solidVertex
	solidIndices  []uint16
	textGroups    []*textGroup
}

// reset clears the batch for a new frame while keeping allocated capacity.
func (b *FrameBatch) reset() {
	b.solidVertices = b.solidVertices[:0]
	b.solidIndices = b.solidIndices[:0]
	for _, g := range b.textGroups {
		g.vertices = g.vertices[:0]
		g.indices = g.indices[:0]
	}
}

// addFan appends a convex polygon given by its perimeter points (already in
// clip space) as a triangle fan anchored at the first point.
func (b *FrameBatch) addFan(points [][2]float32, col Color) {
	if len(points) < 3 {
		return
	}

	base := uint16(len(b.solidVertices))
	c := [4]float32{col.R, col.G, col.B, col.A}
	for _, p := range points {
		b.solidVertices = append(b.solidVertices, solidVertex{pos: p, color: c})
	}
	for i := 1; i < len(points)-1; i++ {
		b.solidIndices = append(b.solidIndices, base, base+uint16(i), base+uint16(i+1))
	}
}

// addGlyph appends one glyph quad (corners already in clip space, ordered
// top-left, top-right, bottom-right, bottom-left) to the group for its atlas.
func (b *FrameBatch) addGlyph(font *Font, q GlyphQuad, corners [4][2]float32) {
	g := b.groupFor(font)

	base := uint16(len(g.vertices))
	c := [4]float32{q.Color.R, q.Color.G, q.Color.B, q.Color.A}
	uvs := [4][2]float32{
		{q.U0, q.V0},
		{q.U1, q.V0},
		{q.U1, q.V1},
		{q.U0, q.V1},
	}
	for i := range corners {
		g.vertices = append(g.vertices, glyphVertex{pos: corners[i], uv: uvs[i], color: c})
	}
	g.indices = append(g.indices, base, base+1, base+2, base, base+2, base+3)
}

// groupFor finds or creates the text group for a font atlas.
func (b *FrameBatch) groupFor(font *Font) *textGroup {
	for _, g := range b.textGroups {
		if g.font == font {
			return g
		}
	}
	g := &textGroup{font: font}
	b.textGroups = append(b.textGroups, g)
	return g
}

// empty reports whether the batch holds no geometry at all.
func (b *FrameBatch) empty() bool {
	if len(b.solidIndices) > 0 {
		return false
	}
	for _, g := range b.textGroups {
		if len(g.indices) > 0 {
			return false
		}
	}
	return true
}
