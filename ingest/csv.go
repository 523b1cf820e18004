package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/ComfyFluffy/rplace-2023/codec"
)

// Epoch is the timestamp of the first recorded pixel placement, the
// anchor every TMs value in the binary log is measured from.
var Epoch = mustParseEpoch("2023-07-20 13:00:26.088 UTC")

func mustParseEpoch(s string) time.Time {
	t, err := parseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return t
}

// parseTimestamp parses the CSV history's timestamp column, which is
// RFC 3339 with a literal " UTC" suffix instead of the "Z" designator.
func parseTimestamp(s string) (time.Time, error) {
	fixed := s
	if len(s) >= 4 && s[len(s)-4:] == " UTC" {
		fixed = s[:len(s)-4] + "Z"
	}
	t, err := time.Parse("2006-01-02 15:04:05.999Z", fixed)
	if err != nil {
		return time.Time{}, fmt.Errorf("ingest: bad timestamp %q: %w", s, err)
	}
	return t, nil
}

// csvHeader is the expected column order of the source CSV files.
var csvHeader = []string{"timestamp", "user", "coordinate", "pixel_color"}

// recordToEvent converts one CSV row (after the header) into a
// PixelEvent, measuring TMs from epoch. The "user" column is read but
// discarded, matching the source format: it plays no part in replay.
func recordToEvent(row []string, epoch time.Time) (codec.PixelEvent, error) {
	if len(row) != len(csvHeader) {
		return codec.PixelEvent{}, fmt.Errorf("ingest: row has %d fields, want %d", len(row), len(csvHeader))
	}

	ts, err := parseTimestamp(row[0])
	if err != nil {
		return codec.PixelEvent{}, err
	}
	elapsed := ts.Sub(epoch)
	if elapsed < 0 {
		return codec.PixelEvent{}, fmt.Errorf("ingest: timestamp %q is before epoch %q", row[0], epoch)
	}

	shape, err := ParseCoordinate(row[2])
	if err != nil {
		return codec.PixelEvent{}, err
	}
	color, err := ParseColor(row[3])
	if err != nil {
		return codec.PixelEvent{}, err
	}

	return codec.PixelEvent{
		TMs:   uint32(elapsed.Milliseconds()),
		Shape: shape,
		Color: color,
	}, nil
}

// Convert reads header-bearing CSV history from r and writes the
// corresponding sequence of binary-encoded events to w (unframed; the
// caller supplies whatever envelope, e.g. gzip, wraps w).
func Convert(r io.Reader, w io.Writer, epoch time.Time) error {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	if _, err := cr.Read(); err != nil {
		return fmt.Errorf("ingest: read header: %w", err)
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("ingest: read record: %w", err)
		}
		e, err := recordToEvent(row, epoch)
		if err != nil {
			return err
		}
		if err := codec.Encode(w, e); err != nil {
			return fmt.Errorf("ingest: encode event: %w", err)
		}
	}
}
