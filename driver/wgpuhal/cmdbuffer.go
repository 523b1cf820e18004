package wgpuhal

import (
	"errors"
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/ComfyFluffy/rplace-2023/driver"
)

// CmdBuffer implements driver.CmdBuffer by recording directly into a
// hal.CommandEncoder. Because wgpu-hal encoders do not support
// re-recording, Reset discards the encoder and starts a new one.
type CmdBuffer struct {
	gpu *GPU
	enc hal.CommandEncoder

	compute hal.ComputePass
	render  hal.RenderPass
	pending driver.Pipeline
	table   [2]*DescTable // [SCompute-ish slot, SVertex/SFragment slot]
	native  hal.CommandBuffer
}

const (
	tableCompute = 0
	tableGraph   = 1
)

func (c *CmdBuffer) Destroy() {
	if c.native != nil {
		c.gpu.device.DestroyCommandBuffer(c.native)
	}
}

func (c *CmdBuffer) Begin() error {
	return c.enc.BeginEncoding("rplace2023")
}

func (c *CmdBuffer) BeginPass(pass driver.RenderPass, fb driver.Framebuf, clear []driver.ClearValue) {
	rp, _ := pass.(*RenderPass)
	f, _ := fb.(*Framebuf)
	colorAtt := make([]hal.RenderPassColorAttachment, len(f.views))
	for i, v := range f.views {
		var cv [4]float32
		if i < len(clear) {
			cv = clear[i].Color
		}
		colorAtt[i] = hal.RenderPassColorAttachment{
			View:    v,
			LoadOp:  "clear",
			StoreOp: "store",
			ClearValue: [4]float64{
				float64(cv[0]), float64(cv[1]), float64(cv[2]), float64(cv[3]),
			},
		}
	}
	c.render = c.enc.BeginRenderPass(&hal.RenderPassDescriptor{
		ColorAttachments: colorAtt,
	})
	_ = rp
}

func (c *CmdBuffer) NextSubpass() {
	// Single-subpass render passes are all the presentation pipeline
	// needs; multi-subpass rendering is not exercised.
}

func (c *CmdBuffer) EndPass() {
	c.render.End()
	c.render = nil
}

func (c *CmdBuffer) BeginWork(wait bool) {
	c.compute = c.enc.BeginComputePass(&hal.ComputePassDescriptor{Label: "rplace2023-compute"})
}

func (c *CmdBuffer) EndWork() {
	c.compute.End()
	c.compute = nil
}

func (c *CmdBuffer) BeginBlit(wait bool) {
	// Copy commands in hal are encoder-level, not pass-scoped; nothing
	// to begin.
}

func (c *CmdBuffer) EndBlit() {}

func (c *CmdBuffer) SetPipeline(pl driver.Pipeline) {
	p := pl.(*Pipeline)
	c.pending = pl
	if c.compute != nil && p.compute != nil {
		c.compute.SetPipeline(p.compute)
	}
	if c.render != nil && p.render != nil {
		c.render.SetPipeline(p.render)
	}
}

func (c *CmdBuffer) SetViewport(vp []driver.Viewport) {
	if c.render == nil || len(vp) == 0 {
		return
	}
	v := vp[0]
	c.render.SetViewport(v.X, v.Y, v.Width, v.Height, v.Znear, v.Zfar)
}

func (c *CmdBuffer) SetScissor(sciss []driver.Scissor) {
	if c.render == nil || len(sciss) == 0 {
		return
	}
	s := sciss[0]
	c.render.SetScissorRect(uint32(s.X), uint32(s.Y), uint32(s.Width), uint32(s.Height))
}

func (c *CmdBuffer) SetVertexBuf(start int, buf []driver.Buffer, off []int64) {
	for i, b := range buf {
		nb := b.(*Buffer)
		o := int64(0)
		if off != nil {
			o = off[i]
		}
		c.render.SetVertexBuffer(uint32(start+i), nb.NativeHandle(), uint64(o))
	}
}

func (c *CmdBuffer) SetDescTableComp(table driver.DescTable, start int, heapCopy []int) {
	t := table.(*DescTable)
	c.table[tableCompute] = t
	for i, h := range t.heaps {
		cpy := 0
		if i < len(heapCopy) {
			cpy = heapCopy[i]
		}
		if cpy < len(h.groups) && h.groups[cpy] != nil {
			c.compute.SetBindGroup(uint32(i), h.groups[cpy], nil)
		}
	}
}

func (c *CmdBuffer) SetDescTableGraph(table driver.DescTable, start int, heapCopy []int) {
	t := table.(*DescTable)
	c.table[tableGraph] = t
	for i, h := range t.heaps {
		cpy := 0
		if i < len(heapCopy) {
			cpy = heapCopy[i]
		}
		if cpy < len(h.groups) && h.groups[cpy] != nil {
			c.render.SetBindGroup(uint32(i), h.groups[cpy], nil)
		}
	}
}

func (c *CmdBuffer) Draw(vertCount, instCount, baseVert, baseInst int) {
	c.render.Draw(uint32(vertCount), uint32(instCount), uint32(baseVert), uint32(baseInst))
}

func (c *CmdBuffer) Dispatch(grpCountX, grpCountY, grpCountZ int) {
	c.compute.Dispatch(uint32(grpCountX), uint32(grpCountY), uint32(grpCountZ))
}

func (c *CmdBuffer) CopyBuffer(param *driver.BufferCopy) {
	from := param.From.(*Buffer)
	to := param.To.(*Buffer)
	c.enc.CopyBufferToBuffer(from.NativeHandle(), to.NativeHandle(), []hal.BufferCopy{
		{SrcOffset: uint64(param.FromOff), DstOffset: uint64(param.ToOff), Size: uint64(param.Size)},
	})
}

func (c *CmdBuffer) CopyBufToImg(param *driver.BufImgCopy) {
	buf := param.Buf.(*Buffer)
	img := param.Img.(*Image)
	c.enc.CopyBufferToTexture(buf.NativeHandle(), img.native, hal.TextureCopy{
		OriginX: uint32(param.ImgOff.X),
		OriginY: uint32(param.ImgOff.Y),
		OriginZ: uint32(param.ImgOff.Z),
		Width:   uint32(param.Size.Width),
		Height:  uint32(param.Size.Height),
		Depth:   uint32(param.Size.Depth),
		Layer:   uint32(param.Layer),
		Level:   uint32(param.Level),
	}, uint64(param.BufOff))
}

func (c *CmdBuffer) CopyImgToBuf(param *driver.BufImgCopy) {
	buf := param.Buf.(*Buffer)
	img := param.Img.(*Image)
	c.enc.CopyTextureToBuffer(img.native, hal.TextureCopy{
		OriginX: uint32(param.ImgOff.X),
		OriginY: uint32(param.ImgOff.Y),
		OriginZ: uint32(param.ImgOff.Z),
		Width:   uint32(param.Size.Width),
		Height:  uint32(param.Size.Height),
		Depth:   uint32(param.Size.Depth),
		Layer:   uint32(param.Layer),
		Level:   uint32(param.Level),
	}, buf.NativeHandle(), uint64(param.BufOff))
}

func (c *CmdBuffer) Fill(buf driver.Buffer, off int64, value byte, size int64) {
	// wgpu-hal has no native fill primitive and this backend does not
	// implement Fill; it panics. canvas.Clear, which zeroes the
	// timestamp buffer with Fill, is its only caller.
	panic(errors.New("wgpuhal: Fill is not implemented"))
}

func (c *CmdBuffer) Barrier(b []driver.Barrier) {
	// Vulkan-level pipeline barriers with no layout change are left to
	// the hal backend's own automatic hazard tracking between encoder
	// passes.
}

func (c *CmdBuffer) Transition(t []driver.Transition) {
	for _, tr := range t {
		img := tr.Img.(*Image)
		c.enc.TransitionTexture(img.native, layoutToHAL(tr.LayoutBefore), layoutToHAL(tr.LayoutAfter))
	}
}

func layoutToHAL(l driver.Layout) string {
	switch l {
	case driver.LShaderStore:
		return "general"
	case driver.LShaderRead:
		return "shader-read-only"
	case driver.LCopySrc:
		return "copy-src"
	case driver.LCopyDst:
		return "copy-dst"
	case driver.LColorTarget:
		return "color-attachment"
	case driver.LPresent:
		return "present"
	default:
		return "undefined"
	}
}

func (c *CmdBuffer) End() error {
	native, err := c.enc.EndEncoding()
	if err != nil {
		return err
	}
	c.native = native
	return nil
}

func (c *CmdBuffer) finish() (hal.CommandBuffer, error) {
	if c.native == nil {
		return nil, fmt.Errorf("wgpuhal: command buffer not ended")
	}
	return c.native, nil
}

func (c *CmdBuffer) Reset() error {
	if c.native != nil {
		c.gpu.device.DestroyCommandBuffer(c.native)
		c.native = nil
	}
	enc, err := c.gpu.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "rplace2023"})
	if err != nil {
		return err
	}
	c.enc = enc
	return nil
}
