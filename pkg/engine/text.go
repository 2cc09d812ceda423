package engine

import "github.com/chewxy/math32"

// GlyphQuad is the positioned rectangle of atlas texture used to render one
// character. Quads are produced by layout, consumed by the frame batch, and
// never retained past the frame.
type GlyphQuad struct {
	Pos            Vec2
	Size           Vec2
	U0, V0, U1, V1 float32
	Color          Color
}

// Measure walks the text and returns its bounding width and height at the
// requested pixel size. '\n' is an explicit line break; width is the widest
// line and height is lineHeight times the number of lines, so an empty
// string still reports one line's height. Runes outside the atlas advance by
// the fallback width and are otherwise ignored.
//
// Measure and Layout read the same metrics table, so centering or
// right-aligning with a measured width always matches the drawn result.
func (f *Font) Measure(text string, pixelSize, lineHeight float32) (width, height float32) {
	scale := pixelSize / f.baseSize

	lines := 1
	var lineWidth float32
	for _, r := range text {
		if r == '\n' {
			width = math32.Max(width, lineWidth)
			lineWidth = 0
			lines++
			continue
		}
		lineWidth += f.glyph(r).advance * scale
	}
	width = math32.Max(width, lineWidth)

	return width, lineHeight * float32(lines)
}

// Layout produces one positioned quad per visible character, anchored at
// origin (the top-left corner of the first line), with each successive line
// offset downward by lineHeight. Advances come from the same metrics table
// as Measure. Glyphs with no visible mask (spaces, runes outside the atlas)
// advance the pen but emit no quad.
func (f *Font) Layout(text string, origin Vec2, pixelSize, lineHeight float32, col Color) []GlyphQuad {
	scale := pixelSize / f.baseSize

	quads := make([]GlyphQuad, 0, len(text))
	penX := origin.X
	baseline := origin.Y + f.ascent*scale

	for _, r := range text {
		if r == '\n' {
			penX = origin.X
			baseline += lineHeight
			continue
		}

		info := f.glyph(r)
		if info.width > 0 && info.height > 0 {
			quads = append(quads, GlyphQuad{
				Pos: Vec2{
					X: penX + info.bearingX*scale,
					Y: baseline + info.bearingY*scale,
				},
				Size:  Vec2{X: info.width * scale, Y: info.height * scale},
				U0:    info.u0,
				V0:    info.v0,
				U1:    info.u1,
				V1:    info.v1,
				Color: col,
			})
		}
		penX += info.advance * scale
	}

	return quads
}
