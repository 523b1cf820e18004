package codec

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"testing"
)

func writeGzLog(t *testing.T, events []PixelEvent) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "*.rplace")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()
	gw := gzip.NewWriter(f)
	for _, e := range events {
		if err := Encode(gw, e); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip Close: %v", err)
	}
	return f.Name()
}

func TestReaderNext(t *testing.T) {
	want := []PixelEvent{
		{TMs: 0, Shape: PointShape(1, 1), Color: Color{1, 2, 3}},
		{TMs: 40, Shape: DiscShape(0, 0, 5), Color: Color{4, 5, 6}},
		{TMs: 41, Shape: RectShape(-1, -1, 1, 1), Color: Color{7, 8, 9}},
	}
	path := writeGzLog(t, want)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	for i, e := range want {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("event %d: Next: %v", i, err)
		}
		if got != e {
			t.Fatalf("event %d\nhave %+v\nwant %+v", i, got, e)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("final Next\nhave %v\nwant io.EOF", err)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("sticky Next\nhave %v\nwant io.EOF", err)
	}
}

func TestReaderNotGzip(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "*.rplace")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	f.Write([]byte("not a gzip stream"))
	f.Close()

	if _, err := Open(f.Name()); err == nil {
		t.Fatal("Open: want error for non-gzip file, got nil")
	}
}

func TestReaderStickyOnTruncation(t *testing.T) {
	var enc bytes.Buffer
	Encode(&enc, PixelEvent{Shape: RectShape(0, 0, 1, 1)})
	b := enc.Bytes()

	var raw bytes.Buffer
	gw := gzip.NewWriter(&raw)
	gw.Write(b[:len(b)-2])
	gw.Close()

	f, err := os.CreateTemp(t.TempDir(), "*.rplace")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	f.Write(raw.Bytes())
	f.Close()

	r, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	_, err1 := r.Next()
	if err1 == nil {
		t.Fatal("Next: want error on truncated gzip payload, got nil")
	}
	_, err2 := r.Next()
	if err2 != err1 {
		t.Fatalf("sticky Next\nhave %v\nwant %v", err2, err1)
	}
}
