package codec

import (
	"bytes"
	"io"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	events := []PixelEvent{
		{TMs: 0, Shape: PointShape(0, 0), Color: Color{255, 0, 0}},
		{TMs: 10, Shape: RectShape(-2, -2, 2, 2), Color: Color{0, 255, 0}},
		{TMs: 300000, Shape: DiscShape(0, 0, 3), Color: Color{0, 0, 255}},
		{TMs: 1<<32 - 1, Shape: PointShape(-1500, -1000), Color: Color{0, 0, 0}},
		{TMs: 5, Shape: PointShape(1499, 999), Color: Color{255, 255, 255}},
	}
	for i, e := range events {
		var buf bytes.Buffer
		if err := Encode(&buf, e); err != nil {
			t.Fatalf("event %d: Encode: %v", i, err)
		}
		got, err := NewDecoder(&buf).Decode()
		if err != nil {
			t.Fatalf("event %d: Decode: %v", i, err)
		}
		if got != e {
			t.Fatalf("event %d\nhave %+v\nwant %+v", i, got, e)
		}
	}
}

func TestReaderTermination(t *testing.T) {
	const k = 7
	var buf bytes.Buffer
	for i := 0; i < k; i++ {
		e := PixelEvent{TMs: uint32(i), Shape: PointShape(int16(i), int16(-i)), Color: Color{byte(i), 0, 0}}
		if err := Encode(&buf, e); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}
	dec := NewDecoder(&buf)
	for i := 0; i < k; i++ {
		e, err := dec.Decode()
		if err != nil {
			t.Fatalf("event %d: Decode: %v", i, err)
		}
		if e.TMs != uint32(i) {
			t.Fatalf("event %d: TMs\nhave %d\nwant %d", i, e.TMs, i)
		}
	}
	if _, err := dec.Decode(); err != io.EOF {
		t.Fatalf("final Decode\nhave %v\nwant io.EOF", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, PixelEvent{Shape: RectShape(0, 0, 1, 1)}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// Chop off the last three bytes (the colour), leaving a partial
	// event rather than a clean boundary.
	truncated := buf.Bytes()[:buf.Len()-3]
	if _, err := NewDecoder(bytes.NewReader(truncated)).Decode(); err == nil {
		t.Fatal("Decode: want error on truncated stream, got nil")
	}
}

func TestDecodeUnknownShape(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, PixelEvent{Shape: PointShape(0, 0)}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	raw := buf.Bytes()
	raw[1] = 99 // corrupt the shape tag byte (after the 1-byte t_ms varint)
	if _, err := NewDecoder(bytes.NewReader(raw)).Decode(); err == nil {
		t.Fatal("Decode: want error on unknown shape tag, got nil")
	}
}
