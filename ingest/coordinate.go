// Package ingest compacts the original CSV pixel-placement history
// into the binary event log the rest of this module consumes,
// reimplementing the reference project's parser in Go idiom rather
// than translating it line for line.
package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ComfyFluffy/rplace-2023/codec"
)

// ErrBadCoordinate means a coordinate field matched none of the three
// textual forms the source data uses.
type ErrBadCoordinate struct{ Text string }

func (e *ErrBadCoordinate) Error() string {
	return fmt.Sprintf("ingest: bad coordinate %q", e.Text)
}

// ParseCoordinate parses one of the three textual coordinate forms
// found in the CSV history into a codec.Shape:
//
//	"X,Y"             -> Point
//	"X1,Y1,X2,Y2"     -> Rect
//	"{X: x, Y: y, R: r}" -> Disc
func ParseCoordinate(s string) (codec.Shape, error) {
	if strings.HasPrefix(s, "{") {
		return parseDisc(s)
	}
	parts := strings.Split(s, ",")
	vals := make([]int16, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 16)
		if err != nil {
			return codec.Shape{}, &ErrBadCoordinate{s}
		}
		vals[i] = int16(n)
	}
	switch len(vals) {
	case 2:
		return codec.PointShape(vals[0], vals[1]), nil
	case 4:
		return codec.RectShape(vals[0], vals[1], vals[2], vals[3]), nil
	default:
		return codec.Shape{}, &ErrBadCoordinate{s}
	}
}

// parseDisc parses the brace form, e.g. "{X: 424, Y: 336, R: 3}".
func parseDisc(s string) (codec.Shape, error) {
	body := strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
	fields := strings.Split(body, ",")
	if len(fields) != 3 {
		return codec.Shape{}, &ErrBadCoordinate{s}
	}
	vals := make([]int16, 3)
	for i, f := range fields {
		_, val, ok := strings.Cut(f, ":")
		if !ok {
			return codec.Shape{}, &ErrBadCoordinate{s}
		}
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 16)
		if err != nil {
			return codec.Shape{}, &ErrBadCoordinate{s}
		}
		vals[i] = int16(n)
	}
	return codec.DiscShape(vals[0], vals[1], vals[2]), nil
}
