package draw

import (
	"strings"
	"testing"
)

func countPixels(c *Canvas) int {
	n := 0
	for _, set := range c.pixels {
		if set {
			n++
		}
	}
	return n
}

func TestShadeLevelEndpoints(t *testing.T) {
	if got := ShadeLevel(-0.5); got != Shades[0] {
		t.Errorf("ShadeLevel(-0.5) = %q, want %q", got, Shades[0])
	}
	if got := ShadeLevel(0); got != Shades[0] {
		t.Errorf("ShadeLevel(0) = %q, want %q", got, Shades[0])
	}
	if got := ShadeLevel(1); got != Shades[len(Shades)-1] {
		t.Errorf("ShadeLevel(1) = %q, want %q", got, Shades[len(Shades)-1])
	}
	if got := ShadeLevel(2); got != Shades[len(Shades)-1] {
		t.Errorf("ShadeLevel(2) = %q, want %q", got, Shades[len(Shades)-1])
	}
}

func TestDrawCircleSetsOutline(t *testing.T) {
	c := NewCanvas(40, 20)
	c.DrawCircle(Point{X: 20, Y: 20}, 10, false)
	if countPixels(c) == 0 {
		t.Fatal("circle outline set no pixels")
	}

	filled := NewCanvas(40, 20)
	filled.DrawCircle(Point{X: 20, Y: 20}, 10, true)
	if countPixels(filled) <= countPixels(c) {
		t.Errorf("filled circle pixels %d not greater than outline %d", countPixels(filled), countPixels(c))
	}
}

func TestDrawEllipseStaysWithinAxes(t *testing.T) {
	c := NewCanvas(60, 30)
	c.DrawEllipse(Point{X: 30, Y: 30}, 20, 10)

	if countPixels(c) == 0 {
		t.Fatal("ellipse set no pixels")
	}
	for y := 0; y < c.subPixelHeight; y++ {
		for x := 0; x < c.termWidth; x++ {
			if !c.pixels[y*c.termWidth+x] {
				continue
			}
			if x < 30-21 || x > 30+21 {
				t.Fatalf("pixel (%d,%d) outside horizontal semi-axis", x, y)
			}
			if y < 30-11 || y > 30+11 {
				t.Fatalf("pixel (%d,%d) outside vertical semi-axis", x, y)
			}
		}
	}
}

func TestLogicalToTerminalHalvesRows(t *testing.T) {
	c := NewCanvas(80, 24)
	col, row := c.LogicalToTerminal(10, 20)
	if col != 11 {
		t.Errorf("col = %d, want 11", col)
	}
	// Sub-pixel y=20 lands on terminal row 11 (two sub-pixels per row).
	if row != 11 {
		t.Errorf("row = %d, want 11", row)
	}
}

func TestRenderUsesHalfBlocks(t *testing.T) {
	c := NewCanvas(10, 4)
	c.Set(2, 0) // top half of row 1
	c.Set(3, 1) // bottom half of row 1
	c.Set(4, 2)
	c.Set(4, 3) // both halves of row 2

	var sb strings.Builder
	c.Render(&sb)
	out := sb.String()

	for _, ch := range []rune{BlockUpperHalf, BlockLowerHalf, BlockFull} {
		if !strings.ContainsRune(out, ch) {
			t.Errorf("render output missing %q", ch)
		}
	}
}

func TestRenderBorderNeedsOffset(t *testing.T) {
	c := NewCanvas(10, 4)

	var sb strings.Builder
	c.RenderBorder(&sb)
	if sb.Len() != 0 {
		t.Errorf("border drawn with zero offset: %q", sb.String())
	}

	c.SetOffset(2, 1)
	c.RenderBorder(&sb)
	out := sb.String()
	for _, s := range []string{"┌", "┐", "└", "┘", "│", "─"} {
		if !strings.Contains(out, s) {
			t.Errorf("border output missing %q", s)
		}
	}
}

func TestChunkWriterAppliesOffset(t *testing.T) {
	var sb strings.Builder
	cw := NewChunkWriter(&sb, 5, 3)
	cw.WriteAt(1, 1, "x")
	if err := cw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := sb.String(); !strings.Contains(got, "\033[4;6H") {
		t.Errorf("output %q missing offset cursor move", got)
	}
}
