package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ComfyFluffy/rplace-2023/codec"
)

// ErrBadColor means a colour field was not a well-formed "#RRGGBB"
// hex triple.
type ErrBadColor struct{ Text string }

func (e *ErrBadColor) Error() string {
	return fmt.Sprintf("ingest: bad colour %q", e.Text)
}

// ParseColor parses a "#RRGGBB" hex colour into a codec.Color.
func ParseColor(s string) (codec.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return codec.Color{}, &ErrBadColor{s}
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return codec.Color{}, &ErrBadColor{s}
	}
	return codec.Color{
		R: uint8(n >> 16),
		G: uint8(n >> 8),
		B: uint8(n),
	}, nil
}
