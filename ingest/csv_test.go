package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ComfyFluffy/rplace-2023/codec"
)

func TestParseTimestampUTCSuffix(t *testing.T) {
	ts, err := parseTimestamp("2023-07-20 13:00:26.088 UTC")
	if err != nil {
		t.Fatalf("parseTimestamp: %v", err)
	}
	if !ts.Equal(Epoch) {
		t.Fatalf("have %v, want Epoch %v", ts, Epoch)
	}
}

func TestConvertProducesEventsInOrder(t *testing.T) {
	csv := "timestamp,user,coordinate,pixel_color\n" +
		"2023-07-20 13:00:26.088 UTC,u1,\"424,336\",#FFA500\n" +
		"2023-07-20 13:00:27.088 UTC,u2,\"{X: 1, Y: 2, R: 3}\",#000000\n"

	var out bytes.Buffer
	if err := Convert(strings.NewReader(csv), &out, Epoch); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	dec := codec.NewDecoder(&out)
	e1, err := dec.Decode()
	if err != nil {
		t.Fatalf("decode first event: %v", err)
	}
	if e1.TMs != 0 || e1.Shape.Tag != 0 || e1.Color.R != 0xFF {
		t.Fatalf("first event: have %+v", e1)
	}

	e2, err := dec.Decode()
	if err != nil {
		t.Fatalf("decode second event: %v", err)
	}
	if e2.TMs != 1000 || e2.Shape.Tag != 2 || e2.Shape.Disc.R != 3 {
		t.Fatalf("second event: have %+v", e2)
	}

	if _, err := dec.Decode(); err == nil {
		t.Fatal("expected EOF after two events")
	}
}

func TestConvertRejectsTimestampBeforeEpoch(t *testing.T) {
	csv := "timestamp,user,coordinate,pixel_color\n" +
		"2023-07-20 13:00:25.000 UTC,u1,\"1,2\",#000000\n"
	var out bytes.Buffer
	if err := Convert(strings.NewReader(csv), &out, Epoch); err == nil {
		t.Fatal("expected error for pre-epoch timestamp")
	}
}
