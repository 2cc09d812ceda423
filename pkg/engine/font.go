package engine

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/chewxy/math32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Printable ASCII range covered by the atlas.
const (
	atlasFirstRune = ' '
	atlasLastRune  = '~'
	atlasColumns   = 16
	atlasPadding   = 2
)

// glyphInfo is one glyph's placement data at the font's base pixel size.
type glyphInfo struct {
	// Atlas texture region in normalized [0,1] coordinates.
	u0, v0, u1, v1 float32

	// Quad size in pixels. Zero for glyphs with no visible mask (space).
	width, height float32

	// Offset from the pen position (on the baseline) to the quad's
	// top-left corner. bearingY is negative for glyphs above the baseline.
	bearingX, bearingY float32

	advance float32
}

// Font is a rasterized glyph atlas plus the metrics table that both text
// measurement and text drawing read, so the two can never disagree. It is
// built once at startup and never touched by the frame loop.
type Font struct {
	baseSize float32
	ascent   float32
	glyphs   map[rune]glyphInfo
	fallback float32 // advance for runes outside the atlas
	atlas    *image.RGBA
}

// DefaultFont builds a Font from the embedded Go Regular face.
func DefaultFont(basePixelSize float32) (*Font, error) {
	return NewFont(goregular.TTF, basePixelSize)
}

// NewFont parses a TTF and rasterizes the printable ASCII range into an RGBA
// atlas at basePixelSize. Layout at other pixel sizes scales these metrics
// linearly.
func NewFont(ttf []byte, basePixelSize float32) (*Font, error) {
	if basePixelSize <= 0 {
		return nil, fmt.Errorf("invalid font base size %v", basePixelSize)
	}

	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(basePixelSize),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %v", err)
	}
	defer face.Close()

	metrics := face.Metrics()
	ascent := fixedToFloat(metrics.Ascent)
	descent := fixedToFloat(metrics.Descent)

	// First pass: find the widest glyph box and the largest left overhang
	// so every mask fits its atlas cell.
	var maxWidth, maxOverhang float32
	for r := rune(atlasFirstRune); r <= atlasLastRune; r++ {
		bounds, _, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		w := fixedToFloat(bounds.Max.X - bounds.Min.X)
		maxWidth = math32.Max(maxWidth, w)
		maxOverhang = math32.Max(maxOverhang, -fixedToFloat(bounds.Min.X))
	}

	cellW := int(math32.Ceil(maxWidth+maxOverhang)) + 2*atlasPadding
	cellH := int(math32.Ceil(ascent+descent)) + 2*atlasPadding

	glyphCount := int(atlasLastRune-atlasFirstRune) + 1
	rows := (glyphCount + atlasColumns - 1) / atlasColumns
	atlasW := atlasColumns * cellW
	atlasH := rows * cellH

	atlas := image.NewRGBA(image.Rect(0, 0, atlasW, atlasH))
	white := image.NewUniform(color.RGBA{255, 255, 255, 255})

	f := &Font{
		baseSize: basePixelSize,
		ascent:   ascent,
		glyphs:   make(map[rune]glyphInfo, glyphCount),
		atlas:    atlas,
	}

	// Second pass: draw each glyph mask into its cell and record where it
	// landed relative to the pen position.
	for i, r := 0, rune(atlasFirstRune); r <= atlasLastRune; i, r = i+1, r+1 {
		cellX := (i % atlasColumns) * cellW
		cellY := (i / atlasColumns) * cellH
		penX := cellX + atlasPadding + int(math32.Ceil(maxOverhang))
		penY := cellY + atlasPadding + int(math32.Ceil(ascent))

		dot := fixed.P(penX, penY)
		dr, mask, maskp, advance, ok := face.Glyph(dot, r)
		if !ok {
			continue
		}

		info := glyphInfo{advance: fixedToFloat(advance)}
		if !dr.Empty() {
			draw.DrawMask(atlas, dr, white, image.Point{}, mask, maskp, draw.Over)
			info.u0 = float32(dr.Min.X) / float32(atlasW)
			info.v0 = float32(dr.Min.Y) / float32(atlasH)
			info.u1 = float32(dr.Max.X) / float32(atlasW)
			info.v1 = float32(dr.Max.Y) / float32(atlasH)
			info.width = float32(dr.Dx())
			info.height = float32(dr.Dy())
			info.bearingX = float32(dr.Min.X - penX)
			info.bearingY = float32(dr.Min.Y - penY)
		}
		f.glyphs[r] = info
	}

	if space, ok := f.glyphs[' ']; ok {
		f.fallback = space.advance
	} else {
		f.fallback = basePixelSize / 2
	}

	return f, nil
}

// Atlas returns the rasterized glyph atlas image for GPU upload.
func (f *Font) Atlas() *image.RGBA {
	return f.atlas
}

// glyph looks up a rune's metrics. Runes outside the atlas report the
// fallback advance and no visible quad; a missing glyph is never an error.
func (f *Font) glyph(r rune) glyphInfo {
	if info, ok := f.glyphs[r]; ok {
		return info
	}
	return glyphInfo{advance: f.fallback}
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
