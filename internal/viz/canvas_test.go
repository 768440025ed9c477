package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)

	c.Set(3, 5)
	if !c.IsSet(3, 5) {
		t.Error("expected pixel to be set")
	}
	if c.IsSet(2, 5) {
		t.Error("neighbouring pixel should be clear")
	}

	// out of bounds writes are ignored
	c.Set(-1, 0)
	c.Set(100, 100)
	if c.IsSet(-1, 0) || c.IsSet(100, 100) {
		t.Error("out of bounds pixels must never report as set")
	}
}

func TestCanvasDisc(t *testing.T) {
	c := NewCanvas(20, 10)
	c.Disc(20, 20, 5)

	if !c.IsSet(20, 20) {
		t.Error("centre must be lit")
	}
	if !c.IsSet(23, 20) || !c.IsSet(20, 16) {
		t.Error("points inside the radius must be lit")
	}
	if c.IsSet(27, 20) || c.IsSet(20, 27) {
		t.Error("points outside the radius must stay clear")
	}
}

func TestCanvasDiscClipped(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Disc(-1e6, 10, 1e6+3)

	if !c.IsSet(1, 10) {
		t.Error("the on-canvas edge of a huge off-canvas disc must be lit")
	}
	if c.IsSet(5, 10) {
		t.Error("points beyond the disc edge must stay clear")
	}
}

func TestCanvasTinyDiscVisible(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Disc(3.9, 2.2, MinRadius)

	if !c.IsSet(3, 2) {
		t.Error("a disc with the minimum radius must still light its centre")
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(3, 2)
	c.DrawLine(0, 0, 5, 7)
	c.Clear()

	w, h := c.SubSize()
	if w != 6 || h != 8 {
		t.Fatalf("expected sub-size 6x8, got %dx%d", w, h)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.IsSet(x, y) {
				t.Fatalf("pixel (%d, %d) survived Clear", x, y)
			}
		}
	}

	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Errorf("expected 2 rows, got %d", len(lines))
	}
}
