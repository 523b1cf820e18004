package canvas

import (
	"fmt"
	"math"

	"github.com/ComfyFluffy/rplace-2023/driver"
)

// Presenter samples the canvas image through a nearest sampler onto a
// two-triangle-strip quad fit to the current window aspect ratio.
// Vertex positions are recomputed only when the window's aspect ratio
// changes, via Resize.
type Presenter struct {
	gpu driver.GPU

	pass    driver.RenderPass
	heap    driver.DescHeap
	table   driver.DescTable
	pipe    driver.Pipeline
	vs, fs  driver.ShaderCode
	sampler driver.Sampler
	vbuf    driver.Buffer

	windowAspect float32
}

// NewPresenter builds the presentation pipeline against a render pass
// targeting format (the swapchain's pixel format) and canvasView (the
// canvas image's sampled view).
func NewPresenter(gpu driver.GPU, format driver.PixelFmt, canvasView driver.ImageView) (*Presenter, error) {
	p := &Presenter{gpu: gpu, windowAspect: TextureAspect}

	pass, err := gpu.NewRenderPass(
		[]driver.Attachment{{Format: format, Samples: 1, Load: driver.LClear, Store: driver.SStore}},
		[]driver.Subpass{{Color: []int{0}}},
	)
	if err != nil {
		return nil, fmt.Errorf("canvas: create presentation render pass: %w", err)
	}
	p.pass = pass

	vs, err := gpu.NewShaderCode(presentVS)
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("canvas: compile presentation vertex shader: %w", err)
	}
	p.vs = vs
	fs, err := gpu.NewShaderCode(presentFS)
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("canvas: compile presentation fragment shader: %w", err)
	}
	p.fs = fs

	sampler, err := gpu.NewSampler(&driver.Sampling{
		Min: driver.FNearest, Mag: driver.FNearest,
		AddrU: driver.AClamp, AddrV: driver.AClamp,
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("canvas: create sampler: %w", err)
	}
	p.sampler = sampler

	heap, err := gpu.NewDescHeap([]driver.Descriptor{
		{Type: driver.DTexture, Stages: driver.SFragment, Nr: 0, Len: 1},
		{Type: driver.DSampler, Stages: driver.SFragment, Nr: 1, Len: 1},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("canvas: create presentation descriptor heap: %w", err)
	}
	p.heap = heap
	if err := heap.New(1); err != nil {
		p.Destroy()
		return nil, fmt.Errorf("canvas: allocate presentation descriptor heap copy: %w", err)
	}
	heap.SetImage(0, 0, 0, []driver.ImageView{canvasView})
	heap.SetSampler(0, 1, 0, []driver.Sampler{sampler})

	table, err := gpu.NewDescTable([]driver.DescHeap{heap})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("canvas: create presentation descriptor table: %w", err)
	}
	p.table = table

	pipe, err := gpu.NewPipeline(&driver.GraphState{
		VertFunc: driver.ShaderFunc{Code: vs, Name: "main"},
		FragFunc: driver.ShaderFunc{Code: fs, Name: "main"},
		Desc:     table,
		Input: []driver.VertexIn{
			{Format: driver.Float32x2, Stride: 16, Nr: 0, Name: "position"},
			{Format: driver.Float32x2, Stride: 16, Nr: 1, Name: "uv"},
		},
		Topology: driver.TTriStrip,
		Samples:  1,
		Blend:    driver.ColorBlend{Blend: false, WriteMask: driver.CAll},
		Pass:     pass,
		Subpass:  0,
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("canvas: create presentation pipeline: %w", err)
	}
	p.pipe = pipe

	vbuf, err := gpu.NewBuffer(4*16, true, driver.UVertexData|driver.UCopyDst)
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("canvas: create vertex buffer: %w", err)
	}
	p.vbuf = vbuf
	p.writeQuad()

	return p, nil
}

// Resize updates the window aspect ratio and, if it changed enough to
// matter, rewrites the vertex buffer with a newly fit quad.
func (p *Presenter) Resize(width, height int) {
	if height == 0 {
		return
	}
	aspect := float32(width) / float32(height)
	if aspect == p.windowAspect {
		return
	}
	p.windowAspect = aspect
	p.writeQuad()
}

func (p *Presenter) writeQuad() {
	quad := Quad(p.windowAspect, TextureAspect)
	buf := p.vbuf.Bytes()
	for i, v := range quad {
		off := i * 16
		putF32(buf[off:], v.X)
		putF32(buf[off+4:], v.Y)
		putF32(buf[off+8:], v.U)
		putF32(buf[off+12:], v.V)
	}
}

func putF32(b []byte, f float32) {
	bits := math.Float32bits(f)
	b[0] = byte(bits)
	b[1] = byte(bits >> 8)
	b[2] = byte(bits >> 16)
	b[3] = byte(bits >> 24)
}

// Draw records the presentation pass into cb, rendering the
// letterboxed canvas quad into fb using clearColor as the backdrop.
func (p *Presenter) Draw(cb driver.CmdBuffer, fb driver.Framebuf, clearColor [4]float32) {
	cb.BeginPass(p.pass, fb, []driver.ClearValue{{Color: clearColor}})
	cb.SetPipeline(p.pipe)
	cb.SetDescTableGraph(p.table, 0, []int{0})
	cb.SetVertexBuf(0, []driver.Buffer{p.vbuf, p.vbuf}, []int64{0, 8})
	cb.Draw(4, 1, 0, 0)
	cb.EndPass()
}

// Destroy releases every GPU resource the presenter owns.
func (p *Presenter) Destroy() {
	for _, d := range []driver.Destroyer{p.vbuf, p.pipe, p.table, p.heap, p.sampler, p.fs, p.vs, p.pass} {
		if d != nil {
			d.Destroy()
		}
	}
}
