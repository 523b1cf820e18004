package ingest

import "testing"

func TestParseCoordinatePoint(t *testing.T) {
	s, err := ParseCoordinate("424,336")
	if err != nil {
		t.Fatalf("ParseCoordinate: %v", err)
	}
	if s.Tag != 0 || s.Point.X != 424 || s.Point.Y != 336 {
		t.Fatalf("have %+v, want Point{424,336}", s)
	}
}

func TestParseCoordinateRect(t *testing.T) {
	s, err := ParseCoordinate("424,336,425,337")
	if err != nil {
		t.Fatalf("ParseCoordinate: %v", err)
	}
	if s.Tag != 1 || s.Rect.X1 != 424 || s.Rect.Y2 != 337 {
		t.Fatalf("have %+v, want Rect{424,336,425,337}", s)
	}
}

func TestParseCoordinateDisc(t *testing.T) {
	s, err := ParseCoordinate("{X: 424, Y: 336, R: 3}")
	if err != nil {
		t.Fatalf("ParseCoordinate: %v", err)
	}
	if s.Tag != 2 || s.Disc.X != 424 || s.Disc.Y != 336 || s.Disc.R != 3 {
		t.Fatalf("have %+v, want Disc{424,336,3}", s)
	}
}

func TestParseCoordinateUnknownFormat(t *testing.T) {
	if _, err := ParseCoordinate("424,336,425,337,3"); err == nil {
		t.Fatal("expected error for 5-field coordinate")
	}
}

func TestParseCoordinateNotANumber(t *testing.T) {
	if _, err := ParseCoordinate("abc,def"); err == nil {
		t.Fatal("expected error for non-numeric coordinate")
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#FFA500")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	if c.R != 0xFF || c.G != 0xA5 || c.B != 0x00 {
		t.Fatalf("have %+v, want {255,165,0}", c)
	}
}

func TestParseColorBadLength(t *testing.T) {
	if _, err := ParseColor("#FFF"); err == nil {
		t.Fatal("expected error for short colour string")
	}
}
