// Package coord converts logical event-log coordinates (centered
// origin, y-axis up) into canvas texture coordinates (top-left
// origin, v-axis down), and enumerates the set of texture pixels a
// Point, Rect, or Disc affects.
package coord

import "github.com/ComfyFluffy/rplace-2023/codec"

// Canvas dimensions, fixed for the lifetime of the system.
const (
	Width  = 3000
	Height = 2000
)

// ToTexture maps a logical coordinate to texture space. It is a pure
// coordinate transform with no bounds checking; callers that need
// clipping use Pixels below.
func ToTexture(x, y int16) (u, v int) {
	return int(x) + 1500, 1000 - int(y) - 1
}

// InBounds reports whether (u,v) lies within the canvas raster.
func InBounds(u, v int) bool {
	return u >= 0 && u < Width && v >= 0 && v < Height
}

// Pixel is a single affected texture-space coordinate.
type Pixel struct {
	U, V int
}

// Pixels returns every canvas pixel affected by shape, already mapped
// to texture space and clipped to [0,Width)×[0,Height). Order is
// unspecified beyond being deterministic for a given shape.
func Pixels(s codec.Shape) []Pixel {
	switch s.Tag {
	case 0: // Point
		u, v := ToTexture(s.Point.X, s.Point.Y)
		if InBounds(u, v) {
			return []Pixel{{u, v}}
		}
		return nil
	case 1: // Rect
		return rectPixels(s.Rect)
	case 2: // Disc
		return discPixels(s.Disc)
	default:
		return nil
	}
}

// rectPixels implements the half-open rect rule: after mapping, the
// vertical axis is flipped, so y1 and y2 swap roles relative to the
// logical rect's own lower/upper bound. A logical rect with x1<=x2
// and y1<=y2 maps to a texture-space rect iterated as [uLo,uHi) along
// u, but [vLo+1,vHi] along v: the flip turns the logical half-open
// upper bound y2 into the texture-space lower bound, so the row that
// stays excluded is the one adjacent to vLo, not vHi.
//
// Negative-area input (x1>x2 or y1>y2 after mapping) is a no-op: this
// mirrors the source behaviour of silently dropping malformed rects
// rather than guessing an orientation.
func rectPixels(r codec.Rect) []Pixel {
	uLo, vHi := ToTexture(r.X1, r.Y1)
	uHi, vLo := ToTexture(r.X2, r.Y2)
	vLo++
	if uLo >= uHi || vLo > vHi {
		return nil
	}
	if uLo < 0 {
		uLo = 0
	}
	if vLo < 0 {
		vLo = 0
	}
	if uHi > Width {
		uHi = Width
	}
	if vHi >= Height {
		vHi = Height - 1
	}
	if uLo >= uHi || vLo > vHi {
		return nil
	}
	px := make([]Pixel, 0, (uHi-uLo)*(vHi-vLo+1))
	for v := vLo; v <= vHi; v++ {
		for u := uLo; u < uHi; u++ {
			px = append(px, Pixel{u, v})
		}
	}
	return px
}

// discPixels enumerates the integer pixels strictly inside the open
// disc of radius r around the mapped center, clipped to canvas
// bounds. The boundary circle itself (distance^2 == r^2) is excluded.
func discPixels(d codec.Disc) []Pixel {
	cu, cv := ToTexture(d.X, d.Y)
	r := int(d.R)
	if r <= 0 {
		return nil
	}
	r2 := r * r

	uLo, uHi := cu-r, cu+r
	vLo, vHi := cv-r, cv+r
	if uLo < 0 {
		uLo = 0
	}
	if vLo < 0 {
		vLo = 0
	}
	if uHi >= Width {
		uHi = Width - 1
	}
	if vHi >= Height {
		vHi = Height - 1
	}

	var px []Pixel
	for v := vLo; v <= vHi; v++ {
		dv := v - cv
		for u := uLo; u <= uHi; u++ {
			du := u - cu
			if du*du+dv*dv < r2 {
				px = append(px, Pixel{u, v})
			}
		}
	}
	return px
}
