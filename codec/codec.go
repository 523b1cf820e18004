// Package codec implements the binary on-disk format for the replay
// log: a gzip envelope containing a concatenation of encoded events
// with no outer framing. Decoding proceeds until end-of-stream.
package codec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Shape tags.
const (
	tagPoint byte = 0
	tagRect  byte = 1
	tagDisc  byte = 2
)

// Color is an RGB triple, one byte per channel.
type Color struct {
	R, G, B uint8
}

// Point is a single logical-space coordinate.
type Point struct {
	X, Y int16
}

// Rect is a logical-space rectangle, inclusive of the lower bound and
// exclusive of the upper bound, normalized so that X1<=X2 and Y1<=Y2
// is the expected (but not enforced) case — see the coord package for
// how negative-area rects are handled.
type Rect struct {
	X1, Y1, X2, Y2 int16
}

// Disc is a logical-space disc: all integer pixels (i,j) satisfying
// (i-X)^2+(j-Y)^2 < R^2 are affected.
type Disc struct {
	X, Y, R int16
}

// Shape is the closed sum of the three paint primitives a PixelEvent
// can carry. Exactly one of Point, Rect, Disc is meaningful, selected
// by Tag.
type Shape struct {
	Tag   byte
	Point Point
	Rect  Rect
	Disc  Disc
}

// PointShape builds a Shape holding a Point.
func PointShape(x, y int16) Shape { return Shape{Tag: tagPoint, Point: Point{x, y}} }

// RectShape builds a Shape holding a Rect.
func RectShape(x1, y1, x2, y2 int16) Shape {
	return Shape{Tag: tagRect, Rect: Rect{x1, y1, x2, y2}}
}

// DiscShape builds a Shape holding a Disc.
func DiscShape(x, y, r int16) Shape { return Shape{Tag: tagDisc, Disc: Disc{x, y, r}} }

// PixelEvent is the atomic unit of canvas state change.
type PixelEvent struct {
	// TMs is milliseconds since the first event's wall-clock
	// timestamp. Monotonic non-decreasing across a well-formed log.
	TMs   uint32
	Shape Shape
	Color Color
}

// ErrTruncated means the stream ended in the middle of an event,
// as opposed to cleanly between events.
var ErrTruncated = errors.New("codec: truncated event")

// ErrUnknownShape means a shape_tag byte did not match any of the
// three known discriminators.
var ErrUnknownShape = errors.New("codec: unknown shape tag")

// Encode writes e to w in the wire format: compact-int t_ms, 1-byte
// shape tag, tag-defined i16 fields, 3 colour bytes.
func Encode(w io.Writer, e PixelEvent) error {
	var hdr [5]byte
	n := putUvarint(hdr[:], uint64(e.TMs))
	if _, err := w.Write(hdr[:n]); err != nil {
		return fmt.Errorf("codec: write t_ms: %w", err)
	}
	if _, err := w.Write([]byte{e.Shape.Tag}); err != nil {
		return fmt.Errorf("codec: write shape tag: %w", err)
	}
	var fields []int16
	switch e.Shape.Tag {
	case tagPoint:
		fields = []int16{e.Shape.Point.X, e.Shape.Point.Y}
	case tagRect:
		r := e.Shape.Rect
		fields = []int16{r.X1, r.Y1, r.X2, r.Y2}
	case tagDisc:
		d := e.Shape.Disc
		fields = []int16{d.X, d.Y, d.R}
	default:
		return ErrUnknownShape
	}
	buf := make([]byte, 2*len(fields))
	for i, f := range fields {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(f))
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("codec: write shape fields: %w", err)
	}
	if _, err := w.Write([]byte{e.Color.R, e.Color.G, e.Color.B}); err != nil {
		return fmt.Errorf("codec: write colour: %w", err)
	}
	return nil
}

// putUvarint is the same encoding as encoding/binary.PutUvarint, which
// it wraps; Decoder reads the value back with binary.ReadUvarint.
func putUvarint(buf []byte, x uint64) int {
	return binary.PutUvarint(buf, x)
}

// Decoder decodes a sequence of PixelEvent from an underlying byte
// stream, with no outer framing between events.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder wraps r for event-at-a-time decoding.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Decode reads the next event. At a clean end of stream (no bytes
// consumed toward the next event) it returns io.EOF. Any other short
// read returns ErrTruncated.
func (d *Decoder) Decode() (PixelEvent, error) {
	var e PixelEvent

	tMs, err := binary.ReadUvarint(d.r)
	if err != nil {
		if err == io.EOF {
			return e, io.EOF
		}
		return e, fmt.Errorf("%w: t_ms: %v", ErrTruncated, err)
	}
	e.TMs = uint32(tMs)

	tag, err := d.r.ReadByte()
	if err != nil {
		return e, fmt.Errorf("%w: shape tag: %v", ErrTruncated, err)
	}
	e.Shape.Tag = tag

	var nFields int
	switch tag {
	case tagPoint:
		nFields = 2
	case tagRect:
		nFields = 4
	case tagDisc:
		nFields = 3
	default:
		return e, fmt.Errorf("%w: tag %d", ErrUnknownShape, tag)
	}

	fieldBuf := make([]byte, 2*nFields)
	if _, err := io.ReadFull(d.r, fieldBuf); err != nil {
		return e, fmt.Errorf("%w: shape fields: %v", ErrTruncated, err)
	}
	fields := make([]int16, nFields)
	for i := range fields {
		fields[i] = int16(binary.LittleEndian.Uint16(fieldBuf[2*i:]))
	}
	switch tag {
	case tagPoint:
		e.Shape.Point = Point{fields[0], fields[1]}
	case tagRect:
		e.Shape.Rect = Rect{fields[0], fields[1], fields[2], fields[3]}
	case tagDisc:
		e.Shape.Disc = Disc{fields[0], fields[1], fields[2]}
	}

	var colorBuf [3]byte
	if _, err := io.ReadFull(d.r, colorBuf[:]); err != nil {
		return e, fmt.Errorf("%w: colour: %v", ErrTruncated, err)
	}
	e.Color = Color{colorBuf[0], colorBuf[1], colorBuf[2]}

	return e, nil
}
