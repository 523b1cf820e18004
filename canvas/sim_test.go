package canvas

import (
	"math/rand"
	"testing"

	"github.com/ComfyFluffy/rplace-2023/codec"
	"github.com/ComfyFluffy/rplace-2023/coord"
)

func TestScenarioAPoint(t *testing.T) {
	c := NewReferenceCanvas()
	c.Apply(codec.PixelEvent{TMs: 0, Shape: codec.PointShape(0, 0), Color: codec.Color{255, 0, 0}})

	if got := c.At(1500, 999); got != (codec.Color{255, 0, 0}) {
		t.Fatalf("painted pixel\nhave %v\nwant {255 0 0}", got)
	}
	if got := c.At(0, 0); got != (codec.Color{255, 255, 255}) {
		t.Fatalf("untouched pixel\nhave %v\nwant white", got)
	}
}

func TestScenarioBTieBreakByTimestamp(t *testing.T) {
	c := NewReferenceCanvas()
	red := codec.PixelEvent{TMs: 10, Shape: codec.PointShape(0, 0), Color: codec.Color{255, 0, 0}}
	blue := codec.PixelEvent{TMs: 5, Shape: codec.PointShape(0, 0), Color: codec.Color{0, 0, 255}}

	// Submitted in the same batch; order must not matter.
	c.ApplyBatch([]codec.PixelEvent{blue, red})
	if got := c.At(1500, 999); got != (codec.Color{255, 0, 0}) {
		t.Fatalf("blue-then-red\nhave %v\nwant red", got)
	}

	c2 := NewReferenceCanvas()
	c2.ApplyBatch([]codec.PixelEvent{red, blue})
	if got := c2.At(1500, 999); got != (codec.Color{255, 0, 0}) {
		t.Fatalf("red-then-blue\nhave %v\nwant red", got)
	}
}

func TestScenarioCRect(t *testing.T) {
	c := NewReferenceCanvas()
	c.Apply(codec.PixelEvent{TMs: 1, Shape: codec.RectShape(-2, -2, 2, 2), Color: codec.Color{0, 255, 0}})

	n := 0
	for _, p := range coord.Pixels(codec.RectShape(-2, -2, 2, 2)) {
		if got := c.At(p.U, p.V); got != (codec.Color{0, 255, 0}) {
			t.Fatalf("rect pixel %v\nhave %v\nwant green", p, got)
		}
		n++
	}
	if n != 16 {
		t.Fatalf("painted pixel count\nhave %d\nwant 16", n)
	}
	if got := c.At(0, 0); got != (codec.Color{255, 255, 255}) {
		t.Fatalf("outside rect\nhave %v\nwant white", got)
	}

	// Pin absolute texture coordinates so a v-axis off-by-one in
	// coord.Pixels can't cancel out against this test's own use of it.
	if got := c.At(1498, 1001); got != (codec.Color{0, 255, 0}) {
		t.Fatalf("rect corner (1498,1001)\nhave %v\nwant green", got)
	}
	if got := c.At(1498, 997); got != (codec.Color{255, 255, 255}) {
		t.Fatalf("spurious row (1498,997)\nhave %v\nwant white", got)
	}
}

func TestScenarioDDisc(t *testing.T) {
	c := NewReferenceCanvas()
	c.Apply(codec.PixelEvent{TMs: 1, Shape: codec.DiscShape(0, 0, 3), Color: codec.Color{0, 0, 255}})

	cu, cv := coord.ToTexture(0, 0)
	for v := cv - 4; v <= cv+4; v++ {
		for u := cu - 4; u <= cu+4; u++ {
			du, dv := u-cu, v-cv
			want := codec.Color{255, 255, 255}
			if du*du+dv*dv < 9 {
				want = codec.Color{0, 0, 255}
			}
			if got := c.At(u, v); got != want {
				t.Fatalf("pixel (%d,%d)\nhave %v\nwant %v", u, v, got, want)
			}
		}
	}
}

func TestScenarioEMinMaxEndpoints(t *testing.T) {
	c := NewReferenceCanvas()
	c.Apply(codec.PixelEvent{TMs: 0, Shape: codec.PointShape(-1500, -1000), Color: codec.Color{1, 1, 1}})
	c.Apply(codec.PixelEvent{TMs: 1, Shape: codec.PointShape(1499, 999), Color: codec.Color{2, 2, 2}})

	if got := c.At(0, 1999); got != (codec.Color{1, 1, 1}) {
		t.Fatalf("min-corner pixel (0,1999)\nhave %v\nwant {1 1 1}", got)
	}
	if got := c.At(2999, 0); got != (codec.Color{2, 2, 2}) {
		t.Fatalf("max-corner pixel (2999,0)\nhave %v\nwant {2 2 2}", got)
	}
}

func TestScenarioFEmptyLogStaysWhite(t *testing.T) {
	c := NewReferenceCanvas()
	c.ApplyBatch(nil)
	for _, p := range []coord.Pixel{{0, 0}, {1500, 999}, {2999, 1999}} {
		if got := c.At(p.U, p.V); got != (codec.Color{255, 255, 255}) {
			t.Fatalf("pixel %v\nhave %v\nwant white", p, got)
		}
	}
}

func TestClippingOutsideCanvasIsNoop(t *testing.T) {
	c := NewReferenceCanvas()
	before := make([]codec.Color, len(c.pixel))
	copy(before, c.pixel)

	// A disc entirely off the right edge of the canvas.
	c.Apply(codec.PixelEvent{TMs: 1, Shape: codec.DiscShape(5000, 0, 10), Color: codec.Color{9, 9, 9}})

	for i, want := range before {
		if c.pixel[i] != want {
			t.Fatalf("pixel index %d changed after fully-clipped event\nhave %v\nwant %v", i, c.pixel[i], want)
		}
	}
}

// TestLastWriterWinsPermutationInvariant is Property 5: for any
// permutation of a batch of events all targeting the same pixel, the
// post-state colour equals that of the event with the largest t_ms.
func TestLastWriterWinsPermutationInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const n = 1024

	// Distinct timestamps, so the "largest t_ms" event is unambiguous
	// and the permutation-invariant result is a single known colour.
	tmsPool := rng.Perm(n * 4)

	events := make([]codec.PixelEvent, n)
	maxTMs := uint32(0)
	var maxColor codec.Color
	for i := range events {
		tms := uint32(tmsPool[i])
		col := codec.Color{R: byte(rng.Intn(256)), G: byte(rng.Intn(256)), B: byte(rng.Intn(256))}
		events[i] = codec.PixelEvent{TMs: tms, Shape: codec.PointShape(10, 10), Color: col}
		if tms >= maxTMs {
			maxTMs = tms
			maxColor = col
		}
	}

	for trial := 0; trial < 8; trial++ {
		perm := rng.Perm(n)
		shuffled := make([]codec.PixelEvent, n)
		for i, p := range perm {
			shuffled[i] = events[p]
		}
		c := NewReferenceCanvas()
		c.ApplyBatch(shuffled)
		u, v := coord.ToTexture(10, 10)
		if got := c.At(u, v); got != maxColor {
			t.Fatalf("trial %d: permuted batch result\nhave %v\nwant %v (t_ms=%d)", trial, got, maxColor, maxTMs)
		}
	}
}
