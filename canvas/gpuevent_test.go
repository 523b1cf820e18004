package canvas

import (
	"encoding/binary"
	"testing"

	"github.com/ComfyFluffy/rplace-2023/codec"
	"github.com/ComfyFluffy/rplace-2023/coord"
)

func TestMarshalEventPoint(t *testing.T) {
	e := codec.PixelEvent{TMs: 42, Shape: codec.PointShape(-5, 7), Color: codec.Color{1, 2, 3}}
	buf := marshalEvent(e)

	if got := binary.LittleEndian.Uint32(buf[0:4]); got != 42 {
		t.Fatalf("t_ms\nhave %d\nwant 42", got)
	}
	if got := binary.LittleEndian.Uint32(buf[4:8]); got != 0 {
		t.Fatalf("shape_tag\nhave %d\nwant 0", got)
	}
	gotU := int32(binary.LittleEndian.Uint32(buf[16:20]))
	gotV := int32(binary.LittleEndian.Uint32(buf[20:24]))
	wantU, wantV := coord.ToTexture(-5, 7)
	if gotU != int32(wantU) || gotV != int32(wantV) {
		t.Fatalf("shape_data\nhave (%d,%d)\nwant (%d,%d)", gotU, gotV, wantU, wantV)
	}
	if buf[32] != 1 || buf[36] != 2 || buf[40] != 3 {
		t.Fatalf("colour\nhave (%d,%d,%d)\nwant (1,2,3)", buf[32], buf[36], buf[40])
	}
}

func TestMarshalEventRect(t *testing.T) {
	e := codec.PixelEvent{Shape: codec.RectShape(-2, -2, 2, 2)}
	buf := marshalEvent(e)
	if got := binary.LittleEndian.Uint32(buf[4:8]); got != 1 {
		t.Fatalf("shape_tag\nhave %d\nwant 1", got)
	}

	uLo, vHi := coord.ToTexture(-2, -2)
	uHi, vLo := coord.ToTexture(2, 2)
	vLo++
	want := []int32{int32(uLo), int32(vLo), int32(uHi), int32(vHi)}
	for i, w := range want {
		got := int32(binary.LittleEndian.Uint32(buf[16+4*i : 20+4*i]))
		if got != w {
			t.Fatalf("shape_data[%d]\nhave %d\nwant %d", i, got, w)
		}
	}
}

func TestMarshalBatchLength(t *testing.T) {
	events := make([]codec.PixelEvent, 10)
	buf := MarshalBatch(events)
	if len(buf) != 10*GpuEventSize {
		t.Fatalf("len(MarshalBatch)\nhave %d\nwant %d", len(buf), 10*GpuEventSize)
	}
}
