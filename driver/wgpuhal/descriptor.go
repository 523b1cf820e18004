package wgpuhal

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/ComfyFluffy/rplace-2023/driver"
)

// DescHeap implements driver.DescHeap on top of a single hal
// BindGroupLayout. Each driver.Descriptor slot maps to one binding
// number, assigned in the order given to NewDescHeap. Because wgpu
// bind groups are immutable once created, a "heap copy" is realized
// as a distinct hal.BindGroup, rebuilt whenever its bindings change.
type DescHeap struct {
	gpu     *GPU
	layout  hal.BindGroupLayout
	entries []gputypes.BindGroupLayoutEntry
	descs   []driver.Descriptor

	groups  []hal.BindGroup
	binding []gputypes.BindGroupEntry // last-set resource per binding, per copy
}

// NewDescHeap implements driver.GPU.
func (g *GPU) NewDescHeap(ds []driver.Descriptor) (driver.DescHeap, error) {
	entries := make([]gputypes.BindGroupLayoutEntry, len(ds))
	for i, d := range ds {
		entries[i] = gputypes.BindGroupLayoutEntry{
			Binding:    uint32(i),
			Visibility: stageToHAL(d.Stages),
		}
		switch d.Type {
		case driver.DBuffer:
			entries[i].Buffer = &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}
		case driver.DConstant:
			entries[i].Buffer = &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}
		case driver.DImage:
			entries[i].StorageTexture = &gputypes.StorageTextureBindingLayout{
				Access: gputypes.StorageTextureAccessWriteOnly,
				Format: gputypes.TextureFormatRGBA8Unorm,
			}
		case driver.DTexture:
			entries[i].Texture = &gputypes.TextureBindingLayout{}
		case driver.DSampler:
			entries[i].Sampler = &gputypes.SamplerBindingLayout{}
		}
	}
	layout, err := g.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{Entries: entries})
	if err != nil {
		return nil, err
	}
	return &DescHeap{gpu: g, layout: layout, entries: entries, descs: append([]driver.Descriptor(nil), ds...)}, nil
}

func stageToHAL(s driver.Stage) gputypes.ShaderStage {
	var out gputypes.ShaderStage
	if s&driver.SCompute != 0 {
		out |= gputypes.ShaderStageCompute
	}
	if s&driver.SVertex != 0 {
		out |= gputypes.ShaderStageVertex
	}
	if s&driver.SFragment != 0 {
		out |= gputypes.ShaderStageFragment
	}
	return out
}

func (h *DescHeap) Destroy() {
	h.New(0)
	h.gpu.device.DestroyBindGroupLayout(h.layout)
}

// New implements driver.DescHeap.
func (h *DescHeap) New(n int) error {
	for _, g := range h.groups {
		if g != nil {
			h.gpu.device.DestroyBindGroup(g)
		}
	}
	h.groups = make([]hal.BindGroup, n)
	h.binding = make([]gputypes.BindGroupEntry, n*len(h.descs))
	return nil
}

func (h *DescHeap) Count() int { return len(h.groups) }

func (h *DescHeap) slot(cpy, nr int) int { return cpy*len(h.descs) + nr }

// SetBuffer implements driver.DescHeap.
func (h *DescHeap) SetBuffer(cpy, nr, start int, buf []driver.Buffer, off, size []int64) {
	for i, b := range buf {
		nb := b.(*Buffer)
		o, s := int64(0), nb.Cap()
		if off != nil {
			o = off[i]
		}
		if size != nil {
			s = size[i]
		}
		h.binding[h.slot(cpy, nr)] = gputypes.BindGroupEntry{
			Binding: uint32(nr),
			Resource: gputypes.BufferBinding{
				Buffer: nb.NativeHandle(),
				Offset: uint64(o),
				Size:   uint64(s),
			},
		}
	}
	h.rebuild(cpy)
}

// SetImage implements driver.DescHeap.
func (h *DescHeap) SetImage(cpy, nr, start int, iv []driver.ImageView) {
	for _, v := range iv {
		niv := v.(*ImageView)
		h.binding[h.slot(cpy, nr)] = gputypes.BindGroupEntry{
			Binding:  uint32(nr),
			Resource: gputypes.TextureViewBinding{View: niv.NativeHandle()},
		}
	}
	h.rebuild(cpy)
}

// SetSampler implements driver.DescHeap.
func (h *DescHeap) SetSampler(cpy, nr, start int, splr []driver.Sampler) {
	for _, s := range splr {
		ns := s.(*Sampler)
		h.binding[h.slot(cpy, nr)] = gputypes.BindGroupEntry{
			Binding:  uint32(nr),
			Resource: gputypes.SamplerBinding{Sampler: ns.native},
		}
	}
	h.rebuild(cpy)
}

func (h *DescHeap) rebuild(cpy int) {
	entries := h.binding[cpy*len(h.descs) : (cpy+1)*len(h.descs)]
	if old := h.groups[cpy]; old != nil {
		h.gpu.device.DestroyBindGroup(old)
	}
	bg, err := h.gpu.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Layout:  h.layout,
		Entries: append([]gputypes.BindGroupEntry(nil), entries...),
	})
	if err != nil {
		// Descriptor updates happen outside the CmdBuffer error path;
		// a failure here indicates a programming error in the caller
		// (e.g. an incomplete set of bindings), so it is not silently
		// swallowed: the next dispatch against this heap will fail
		// to bind and surface the problem.
		h.groups[cpy] = nil
		return
	}
	h.groups[cpy] = bg
}

// DescTable implements driver.DescTable: an ordered list of heaps,
// each bound to a distinct wgpu bind group index.
type DescTable struct {
	gpu    *GPU
	heaps  []*DescHeap
	layout hal.PipelineLayout
}

// NewDescTable implements driver.GPU.
func (g *GPU) NewDescTable(dh []driver.DescHeap) (driver.DescTable, error) {
	heaps := make([]*DescHeap, len(dh))
	layouts := make([]hal.BindGroupLayout, len(dh))
	for i, h := range dh {
		nh, ok := h.(*DescHeap)
		if !ok {
			return nil, fmt.Errorf("wgpuhal: foreign descriptor heap")
		}
		heaps[i] = nh
		layouts[i] = nh.layout
	}
	layout, err := g.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, err
	}
	return &DescTable{gpu: g, heaps: heaps, layout: layout}, nil
}

func (t *DescTable) Destroy() { t.gpu.device.DestroyPipelineLayout(t.layout) }
