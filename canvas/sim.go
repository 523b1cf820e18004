package canvas

import (
	"github.com/ComfyFluffy/rplace-2023/codec"
	"github.com/ComfyFluffy/rplace-2023/coord"
)

// ReferenceCanvas is a single-threaded reimplementation of the
// update-texture compute shader's per-pixel ordering rule, used to
// check GPU output against a known-good model. It has no concurrency
// of its own, but applies exactly the same atomicMax-then-conditional-
// write discipline the shader uses, so the two must agree regardless
// of what order a GPU batch's invocations actually race in.
type ReferenceCanvas struct {
	stamp []uint32
	pixel []codec.Color
}

// NewReferenceCanvas returns a canvas cleared to opaque white with a
// zeroed timestamp map, matching the shader's first-dispatch clear
// policy.
func NewReferenceCanvas() *ReferenceCanvas {
	n := coord.Width * coord.Height
	c := &ReferenceCanvas{
		stamp: make([]uint32, n),
		pixel: make([]codec.Color, n),
	}
	for i := range c.pixel {
		c.pixel[i] = codec.Color{R: 255, G: 255, B: 255}
	}
	return c
}

// Apply applies a single event's affected pixel set to the canvas,
// using the same per-pixel rule as the shader: the stored timestamp
// becomes max(old, t_ms); the colour is overwritten iff t_ms >= old.
func (c *ReferenceCanvas) Apply(e codec.PixelEvent) {
	for _, p := range coord.Pixels(e.Shape) {
		idx := p.V*coord.Width + p.U
		old := c.stamp[idx]
		if e.TMs >= old {
			c.pixel[idx] = e.Color
		}
		if e.TMs > old {
			c.stamp[idx] = e.TMs
		}
	}
}

// ApplyBatch applies every event in a batch. Because Apply's ordering
// rule is permutation-invariant at a given pixel (see Property 5),
// the order events are supplied in within a batch does not affect the
// result, matching the GPU dispatch's lack of an invocation order
// guarantee.
func (c *ReferenceCanvas) ApplyBatch(events []codec.PixelEvent) {
	for _, e := range events {
		c.Apply(e)
	}
}

// At returns the colour currently stored at texture coordinate (u,v).
func (c *ReferenceCanvas) At(u, v int) codec.Color {
	return c.pixel[v*coord.Width+u]
}

// Timestamp returns the timestamp map value at texture coordinate
// (u,v), for tests that want to assert on the auxiliary buffer too.
func (c *ReferenceCanvas) Timestamp(u, v int) uint32 {
	return c.stamp[v*coord.Width+u]
}
