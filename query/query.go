// Package query implements offline, read-only analyses over a binary
// event log: observed Point coordinate bounds, never-written pixels,
// and large Disc/Rect placements. It follows "unwrap-equivalent"
// (fatal-on-first-error) semantics: a malformed log aborts the scan
// rather than skipping the bad event.
package query

import (
	"errors"
	"fmt"
	"io"

	"github.com/ComfyFluffy/rplace-2023/codec"
	"github.com/ComfyFluffy/rplace-2023/coord"
	"github.com/ComfyFluffy/rplace-2023/internal/bitm"
)

// largeDiscR is the Disc radius threshold: events with R greater than
// this are reported as "large".
const largeDiscR = 10

// largeRectSide is the Rect side-length threshold on both axes.
const largeRectSide = 10

// Reader is the minimal event-source interface a scan consumes;
// satisfied by *codec.Reader.
type Reader interface {
	Next() (codec.PixelEvent, error)
}

// Report collects the result of a single pass over a log.
type Report struct {
	// PointCount is the number of Point-shaped events observed.
	PointCount int
	// MinPoint and MaxPoint bound every observed Point event by X then
	// by Y independently (not necessarily from the same event). Zero
	// value if PointCount is 0.
	MinPoint, MaxPoint codec.Point

	// LargeDiscs lists every Disc event with R > 10.
	LargeDiscs []codec.PixelEvent
	// LargeRects lists every Rect event wider and taller than 10 on
	// both axes.
	LargeRects []codec.PixelEvent

	// NeverWritten is the number of canvas pixels that no event in the
	// log ever touched. A Rect event with either endpoint mapping
	// outside the canvas is skipped entirely and touches no pixel.
	NeverWritten int
}

// Scan reads every event from r until exhaustion (io.EOF) and builds a
// Report. Any non-EOF error aborts the scan and is returned wrapped
// (errors.Is still matches the original error).
func Scan(r Reader) (*Report, error) {
	rep := &Report{}
	touched := &bitm.Bitm[uint64]{}
	touched.Grow((coord.Width*coord.Height + 63) / 64)

	first := true
	for {
		e, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("query: scan: %w", err)
		}

		switch e.Shape.Tag {
		case 0: // Point
			rep.PointCount++
			p := e.Shape.Point
			if first {
				rep.MinPoint, rep.MaxPoint = p, p
				first = false
			} else {
				if p.X < rep.MinPoint.X {
					rep.MinPoint.X = p.X
				}
				if p.Y < rep.MinPoint.Y {
					rep.MinPoint.Y = p.Y
				}
				if p.X > rep.MaxPoint.X {
					rep.MaxPoint.X = p.X
				}
				if p.Y > rep.MaxPoint.Y {
					rep.MaxPoint.Y = p.Y
				}
			}
		case 1: // Rect
			rt := e.Shape.Rect
			if rectSide(rt.X1, rt.X2) > largeRectSide && rectSide(rt.Y1, rt.Y2) > largeRectSide {
				rep.LargeRects = append(rep.LargeRects, e)
			}
			u1, v1 := coord.ToTexture(rt.X1, rt.Y1)
			u2, v2 := coord.ToTexture(rt.X2, rt.Y2)
			if !coord.InBounds(u1, v1) || !coord.InBounds(u2, v2) {
				continue
			}
		case 2: // Disc
			if e.Shape.Disc.R > largeDiscR {
				rep.LargeDiscs = append(rep.LargeDiscs, e)
			}
		}

		for _, p := range coord.Pixels(e.Shape) {
			touched.Set(p.V*coord.Width + p.U)
		}
	}

	rep.NeverWritten = touched.Rem()
	return rep, nil
}

func rectSide(a, b int16) int {
	d := int(b) - int(a)
	if d < 0 {
		return -d
	}
	return d
}
