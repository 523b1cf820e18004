package coord

import (
	"testing"

	"github.com/ComfyFluffy/rplace-2023/codec"
)

func TestToTextureBijective(t *testing.T) {
	for _, x := range []int16{-1500, -1, 0, 1, 1499} {
		for _, y := range []int16{-1000, -1, 0, 1, 999} {
			u, v := ToTexture(x, y)
			if !InBounds(u, v) {
				t.Fatalf("ToTexture(%d,%d) = (%d,%d), out of canvas bounds", x, y, u, v)
			}
			gotX := int16(u - 1500)
			gotY := int16(1000 - v - 1)
			if gotX != x || gotY != y {
				t.Fatalf("ToTexture(%d,%d) = (%d,%d)\nhave inverse (%d,%d)\nwant (%d,%d)", x, y, u, v, gotX, gotY, x, y)
			}
		}
	}
}

func TestToTextureKnownPoints(t *testing.T) {
	cases := []struct {
		x, y int16
		u, v int
	}{
		{0, 0, 1500, 999},
		{-1500, -1000, 0, 1999},
		{1499, 999, 2999, 0},
	}
	for _, c := range cases {
		u, v := ToTexture(c.x, c.y)
		if u != c.u || v != c.v {
			t.Fatalf("ToTexture(%d,%d)\nhave (%d,%d)\nwant (%d,%d)", c.x, c.y, u, v, c.u, c.v)
		}
	}
}

func TestPixelsPoint(t *testing.T) {
	px := Pixels(codec.PointShape(0, 0))
	if len(px) != 1 || px[0] != (Pixel{1500, 999}) {
		t.Fatalf("Pixels(Point{0,0})\nhave %v\nwant [{1500 999}]", px)
	}
}

func TestPixelsPointOutOfBounds(t *testing.T) {
	// x beyond the valid logical range maps to u >= Width.
	px := Pixels(codec.PointShape(2000, 0))
	if px != nil {
		t.Fatalf("Pixels(Point{2000,0})\nhave %v\nwant nil (clipped)", px)
	}
}

func TestPixelsRect(t *testing.T) {
	px := Pixels(codec.RectShape(-2, -2, 2, 2))
	if len(px) != 16 {
		t.Fatalf("Pixels(Rect{-2,-2,2,2})\nhave %d pixels\nwant 16", len(px))
	}
	seen := make(map[Pixel]bool, len(px))
	for _, p := range px {
		seen[p] = true
	}
	// u maps straight through to [1498,1502); v is flipped, so the
	// half-open logical range y in [-2,2) lands on the texture-space
	// range v in [998,1001], not [997,1000].
	if seen[Pixel{1498, 997}] {
		t.Fatalf("Pixels(Rect) painted spurious row v=997")
	}
	if !seen[Pixel{1498, 1001}] {
		t.Fatalf("Pixels(Rect) missing expected pixel (1498,1001)")
	}
	if !seen[Pixel{1501, 998}] {
		t.Fatalf("Pixels(Rect) missing expected pixel (1501,998)")
	}
}

func TestPixelsRectNegativeAreaIsNoop(t *testing.T) {
	px := Pixels(codec.RectShape(2, 2, -2, -2))
	if px != nil {
		t.Fatalf("Pixels(negative-area Rect)\nhave %v\nwant nil", px)
	}
}

func TestPixelsDisc(t *testing.T) {
	px := Pixels(codec.DiscShape(0, 0, 3))
	cu, cv := ToTexture(0, 0)
	want := make(map[Pixel]bool)
	for v := cv - 3; v <= cv+3; v++ {
		for u := cu - 3; u <= cu+3; u++ {
			du, dv := u-cu, v-cv
			if du*du+dv*dv < 9 {
				want[Pixel{u, v}] = true
			}
		}
	}
	if len(px) != len(want) {
		t.Fatalf("Pixels(Disc{r=3})\nhave %d pixels\nwant %d", len(px), len(want))
	}
	for _, p := range px {
		if !want[p] {
			t.Fatalf("Pixels(Disc{r=3}) produced unexpected pixel %v", p)
		}
	}
	// The boundary itself (distance^2 == r^2) must be excluded.
	if want[Pixel{cu + 3, cv}] {
		t.Fatalf("disc boundary pixel (%d,%d) should not satisfy strict '<'", cu+3, cv)
	}
}

func TestPixelsDiscClippedAtEdge(t *testing.T) {
	// Center the disc at the canvas corner so most of it falls off-canvas.
	px := Pixels(codec.DiscShape(-1500, 999, 5))
	for _, p := range px {
		if !InBounds(p.U, p.V) {
			t.Fatalf("Pixels(Disc) produced out-of-bounds pixel %v", p)
		}
	}
}

func TestPixelsUnknownTag(t *testing.T) {
	s := codec.PointShape(0, 0)
	s.Tag = 99
	if px := Pixels(s); px != nil {
		t.Fatalf("Pixels(unknown tag)\nhave %v\nwant nil", px)
	}
}
