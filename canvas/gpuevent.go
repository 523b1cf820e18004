package canvas

import (
	"encoding/binary"

	"github.com/ComfyFluffy/rplace-2023/codec"
	"github.com/ComfyFluffy/rplace-2023/coord"
)

// GpuEventSize is the byte size of the Event struct as laid out for
// the update-texture compute shader: two leading u32 scalars, padded
// to a 16-byte boundary, followed by a uvec4 payload and a vec3
// colour (itself padded to 16 bytes, matching std140 array-element
// alignment rules).
const GpuEventSize = 48

// marshalEvent packs e into the wire layout the update-texture shader
// expects. Shape coordinates are mapped from logical event-log space
// into canvas texture space with coord.ToTexture before packing,
// matching the original's GpuCoordinate::from
// (_examples/original_source/src/renderer/data.rs:12-18) and keeping
// the compute shader itself free of any coordinate-system knowledge:
// it only ever sees texture-space u/v. Mapped values are stored as
// their two's complement bit pattern, which the shader recovers with
// bitcast<i32>.
func marshalEvent(e codec.PixelEvent) [GpuEventSize]byte {
	var buf [GpuEventSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], e.TMs)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(e.Shape.Tag))
	// buf[8:16] is alignment padding ahead of the uvec4 payload.

	var data [4]uint32
	switch e.Shape.Tag {
	case 0: // Point
		u, v := coord.ToTexture(e.Shape.Point.X, e.Shape.Point.Y)
		data[0], data[1] = bits(u), bits(v)
	case 1: // Rect
		// The v-axis flip swaps which logical bound becomes the
		// texture-space lower/upper bound; see coord.rectPixels. vLo
		// is incremented the same way, so the shader's loop can stay
		// a plain [uLo,uHi) x [vLo,vHi] walk.
		r := e.Shape.Rect
		uLo, vHi := coord.ToTexture(r.X1, r.Y1)
		uHi, vLo := coord.ToTexture(r.X2, r.Y2)
		vLo++
		data[0], data[1], data[2], data[3] = bits(uLo), bits(vLo), bits(uHi), bits(vHi)
	case 2: // Disc
		d := e.Shape.Disc
		cu, cv := coord.ToTexture(d.X, d.Y)
		data[0], data[1], data[2] = bits(cu), bits(cv), bits(int(d.R))
	}
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[16+4*i:20+4*i], v)
	}

	binary.LittleEndian.PutUint32(buf[32:36], uint32(e.Color.R))
	binary.LittleEndian.PutUint32(buf[36:40], uint32(e.Color.G))
	binary.LittleEndian.PutUint32(buf[40:44], uint32(e.Color.B))
	// buf[44:48] is the vec3-as-vec4 array-stride padding.

	return buf
}

func bits(v int) uint32 { return uint32(int32(v)) }

// MarshalBatch packs events into a single staging buffer payload,
// ready for a host-visible buffer write followed by a dispatch of
// len(events)/WorkgroupSize workgroups.
func MarshalBatch(events []codec.PixelEvent) []byte {
	buf := make([]byte, GpuEventSize*len(events))
	for i, e := range events {
		ev := marshalEvent(e)
		copy(buf[i*GpuEventSize:], ev[:])
	}
	return buf
}
