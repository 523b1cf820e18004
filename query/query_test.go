package query

import (
	"errors"
	"io"
	"testing"

	"github.com/ComfyFluffy/rplace-2023/codec"
	"github.com/ComfyFluffy/rplace-2023/coord"
)

// sliceReader replays a fixed slice of events, then io.EOF, matching
// the Reader interface Scan consumes.
type sliceReader struct {
	events []codec.PixelEvent
	i      int
}

func (r *sliceReader) Next() (codec.PixelEvent, error) {
	if r.i >= len(r.events) {
		return codec.PixelEvent{}, io.EOF
	}
	e := r.events[r.i]
	r.i++
	return e, nil
}

type errReader struct{ err error }

func (r *errReader) Next() (codec.PixelEvent, error) { return codec.PixelEvent{}, r.err }

func TestScanPointBounds(t *testing.T) {
	rep, err := Scan(&sliceReader{events: []codec.PixelEvent{
		{TMs: 0, Shape: codec.PointShape(-100, 50)},
		{TMs: 1, Shape: codec.PointShape(200, -400)},
		{TMs: 2, Shape: codec.PointShape(10, 10)},
	}})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if rep.PointCount != 3 {
		t.Fatalf("PointCount\nhave %d\nwant 3", rep.PointCount)
	}
	if rep.MinPoint != (codec.Point{X: -100, Y: -400}) {
		t.Fatalf("MinPoint\nhave %+v\nwant {-100,-400}", rep.MinPoint)
	}
	if rep.MaxPoint != (codec.Point{X: 200, Y: 50}) {
		t.Fatalf("MaxPoint\nhave %+v\nwant {200,50}", rep.MaxPoint)
	}
}

func TestScanLargeDiscsAndRects(t *testing.T) {
	events := []codec.PixelEvent{
		{Shape: codec.DiscShape(0, 0, 5)},  // not large
		{Shape: codec.DiscShape(0, 0, 11)}, // large
		{Shape: codec.RectShape(0, 0, 5, 5)},   // not large (5x5)
		{Shape: codec.RectShape(0, 0, 20, 20)}, // large
		{Shape: codec.RectShape(0, 0, 20, 5)},  // one axis short: not large
	}
	rep, err := Scan(&sliceReader{events: events})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(rep.LargeDiscs) != 1 || rep.LargeDiscs[0].Shape.Disc.R != 11 {
		t.Fatalf("LargeDiscs\nhave %+v", rep.LargeDiscs)
	}
	if len(rep.LargeRects) != 1 || rep.LargeRects[0].Shape.Rect.X2 != 20 {
		t.Fatalf("LargeRects\nhave %+v", rep.LargeRects)
	}
}

func TestScanNeverWritten(t *testing.T) {
	rep, err := Scan(&sliceReader{events: []codec.PixelEvent{
		{Shape: codec.PointShape(0, 999)}, // maps to texture (1500,0)
	}})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := coord.Width*coord.Height - 1
	if rep.NeverWritten != want {
		t.Fatalf("NeverWritten\nhave %d\nwant %d", rep.NeverWritten, want)
	}
}

func TestScanEmptyLog(t *testing.T) {
	rep, err := Scan(&sliceReader{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if rep.PointCount != 0 || rep.NeverWritten != coord.Width*coord.Height {
		t.Fatalf("empty-log report: have %+v", rep)
	}
}

func TestScanPropagatesNonEOFError(t *testing.T) {
	wantErr := errors.New("boom")
	_, err := Scan(&errReader{err: wantErr})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Scan error\nhave %v\nwant wrapping %v", err, wantErr)
	}
}
