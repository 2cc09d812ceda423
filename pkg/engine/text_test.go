package engine

import (
	"testing"

	"github.com/chewxy/math32"
)

func newTestFont(t *testing.T) *Font {
	t.Helper()
	font, err := DefaultFont(64)
	if err != nil {
		t.Fatalf("DefaultFont: %v", err)
	}
	return font
}

func TestMeasure_EmptyString(t *testing.T) {
	font := newTestFont(t)

	width, height := font.Measure("", 32, 32)
	if width != 0 {
		t.Errorf("width = %v, want 0", width)
	}
	if height != 32 {
		t.Errorf("height = %v, want one line height", height)
	}
}

func TestMeasure_Newlines(t *testing.T) {
	font := newTestFont(t)

	width, height := font.Measure("Pong\nGame", 32, 32)
	if height != 64 {
		t.Errorf("height = %v, want 2 line heights", height)
	}

	w1, _ := font.Measure("Pong", 32, 32)
	w2, _ := font.Measure("Game", 32, 32)
	if want := math32.Max(w1, w2); math32.Abs(width-want) > 1e-3 {
		t.Errorf("width = %v, want widest line %v", width, want)
	}
}

func TestMeasure_AdvancesAreAdditive(t *testing.T) {
	font := newTestFont(t)

	whole, _ := font.Measure("P1: 7", 32, 32)
	var sum float32
	for _, r := range "P1: 7" {
		w, _ := font.Measure(string(r), 32, 32)
		sum += w
	}
	if math32.Abs(whole-sum) > 1e-2 {
		t.Errorf("measure = %v, sum of per-rune measures = %v", whole, sum)
	}
}

// Layout must derive every pen position from the same advance table Measure
// sums, so a caller centering with MeasureText gets pixel-identical results.
func TestLayoutMatchesMeasureAdvances(t *testing.T) {
	font := newTestFont(t)
	const size, lineHeight = 32, 32

	tests := []string{"Pong", "P2: 10", "a b c", "Pong\nGame"}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			origin := V2(100, 50)
			quads := font.Layout(text, origin, size, lineHeight, White)
			scale := float32(size) / font.baseSize

			penX := origin.X
			baseline := origin.Y + font.ascent*scale
			q := 0
			for _, r := range text {
				if r == '\n' {
					penX = origin.X
					baseline += lineHeight
					continue
				}
				info := font.glyph(r)
				if info.width > 0 && info.height > 0 {
					wantX := penX + info.bearingX*scale
					wantY := baseline + info.bearingY*scale
					if math32.Abs(quads[q].Pos.X-wantX) > 1e-3 || math32.Abs(quads[q].Pos.Y-wantY) > 1e-3 {
						t.Fatalf("quad %d at %v, want (%v, %v)", q, quads[q].Pos, wantX, wantY)
					}
					q++
				}
				penX += info.advance * scale
			}
			if q != len(quads) {
				t.Fatalf("layout produced %d quads, walked %d", len(quads), q)
			}

			// The final pen advance on the widest line is the measured width.
			width, _ := font.Measure(text, size, lineHeight)
			if maxPen := widestLinePen(font, text, scale); math32.Abs(width-maxPen) > 1e-3 {
				t.Errorf("measured width %v, advance walk %v", width, maxPen)
			}
		})
	}
}

func widestLinePen(font *Font, text string, scale float32) float32 {
	var pen, max float32
	for _, r := range text {
		if r == '\n' {
			max = math32.Max(max, pen)
			pen = 0
			continue
		}
		pen += font.glyph(r).advance * scale
	}
	return math32.Max(max, pen)
}

func TestLayout_SecondLineOffset(t *testing.T) {
	font := newTestFont(t)

	one := font.Layout("A", V2(0, 0), 32, 48, White)
	two := font.Layout("\nA", V2(0, 0), 32, 48, White)
	if len(one) != 1 || len(two) != 1 {
		t.Fatalf("quad counts = %d, %d, want 1 and 1", len(one), len(two))
	}
	if dy := two[0].Pos.Y - one[0].Pos.Y; math32.Abs(dy-48) > 1e-3 {
		t.Errorf("second line offset = %v, want line height 48", dy)
	}
}

func TestLayout_SpacesEmitNoQuads(t *testing.T) {
	font := newTestFont(t)

	quads := font.Layout("A B", V2(0, 0), 32, 32, White)
	if len(quads) != 2 {
		t.Errorf("got %d quads, want 2 (space draws nothing)", len(quads))
	}
}

func TestLayout_MissingGlyphIsBlank(t *testing.T) {
	font := newTestFont(t)

	// 'é' is outside the ASCII atlas: it advances but draws nothing, and
	// layout must not abort.
	quads := font.Layout("abécd", V2(0, 0), 32, 32, White)
	if len(quads) != 4 {
		t.Errorf("got %d quads, want 4 visible glyphs", len(quads))
	}

	with, _ := font.Measure("abécd", 32, 32)
	without, _ := font.Measure("abcd", 32, 32)
	if with <= without {
		t.Errorf("missing glyph did not advance: with=%v without=%v", with, without)
	}
}

func TestMeasure_ScalesWithPixelSize(t *testing.T) {
	font := newTestFont(t)

	small, _ := font.Measure("Pong", 16, 16)
	large, _ := font.Measure("Pong", 32, 32)
	if math32.Abs(large-2*small) > 1e-2 {
		t.Errorf("width at 32px = %v, want twice width at 16px (%v)", large, small)
	}
}
