package wgpuhal

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/ComfyFluffy/rplace-2023/driver"
)

// Pipeline implements driver.Pipeline, wrapping either a compute or a
// render pipeline handle.
type Pipeline struct {
	gpu     *GPU
	compute hal.ComputePipeline
	render  hal.RenderPipeline
}

func (p *Pipeline) Destroy() {
	if p.compute != nil {
		p.gpu.device.DestroyComputePipeline(p.compute)
	}
	if p.render != nil {
		p.gpu.device.DestroyRenderPipeline(p.render)
	}
}

// NewPipeline implements driver.GPU.
func (g *GPU) NewPipeline(state any) (driver.Pipeline, error) {
	switch s := state.(type) {
	case *driver.CompState:
		return g.newComputePipeline(s)
	case *driver.GraphState:
		return g.newGraphicsPipeline(s)
	default:
		return nil, fmt.Errorf("wgpuhal: unsupported pipeline state %T", state)
	}
}

func (g *GPU) newComputePipeline(s *driver.CompState) (driver.Pipeline, error) {
	code, ok := s.Func.Code.(*shaderCode)
	if !ok {
		return nil, fmt.Errorf("wgpuhal: foreign shader code")
	}
	table, ok := s.Desc.(*DescTable)
	if !ok {
		return nil, fmt.Errorf("wgpuhal: foreign descriptor table")
	}
	cp, err := g.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Layout: table.layout,
		Compute: hal.ComputeState{
			Module:     code.mod,
			EntryPoint: s.Func.Name,
		},
	})
	if err != nil {
		return nil, err
	}
	return &Pipeline{gpu: g, compute: cp}, nil
}

func (g *GPU) newGraphicsPipeline(s *driver.GraphState) (driver.Pipeline, error) {
	// The presentation pipeline (a two-triangle-strip full quad with a
	// nearest-neighbor sampler) needs no vertex buffers: the quad's
	// corners are derived from gl_VertexIndex in the vertex shader, as
	// is conventional for full-screen blits. Vertex/index buffer state
	// is therefore not modeled here.
	vert, ok := s.VertFunc.Code.(*shaderCode)
	if !ok {
		return nil, fmt.Errorf("wgpuhal: foreign vertex shader")
	}
	frag, ok := s.FragFunc.Code.(*shaderCode)
	if !ok {
		return nil, fmt.Errorf("wgpuhal: foreign fragment shader")
	}
	table, ok := s.Desc.(*DescTable)
	if !ok {
		return nil, fmt.Errorf("wgpuhal: foreign descriptor table")
	}
	rp, err := g.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Layout: table.layout,
		Vertex: hal.VertexState{
			Module:     vert.mod,
			EntryPoint: s.VertFunc.Name,
		},
		Fragment: &hal.FragmentState{
			Module:     frag.mod,
			EntryPoint: s.FragFunc.Name,
		},
		Primitive: topologyToHAL(s.Topology),
	})
	if err != nil {
		return nil, err
	}
	return &Pipeline{gpu: g, render: rp}, nil
}

func topologyToHAL(t driver.Topology) hal.PrimitiveState {
	switch t {
	case driver.TTriStrip:
		return hal.PrimitiveState{Topology: "triangle-strip"}
	default:
		return hal.PrimitiveState{Topology: "triangle-list"}
	}
}

// NewRenderPass implements driver.GPU. wgpu has no explicit render
// pass object outside of a command encoder's render pass description,
// so the render pass carries just enough static configuration
// (attachment formats and subpass color indices) to build that
// description when Framebuf and clear values become available at
// BeginPass time.
func (g *GPU) NewRenderPass(att []driver.Attachment, sub []driver.Subpass) (driver.RenderPass, error) {
	return &RenderPass{
		gpu:  g,
		att:  append([]driver.Attachment(nil), att...),
		sub:  append([]driver.Subpass(nil), sub...),
	}, nil
}

// RenderPass implements driver.RenderPass.
type RenderPass struct {
	gpu *GPU
	att []driver.Attachment
	sub []driver.Subpass
}

func (p *RenderPass) Destroy() {}

// NewFB implements driver.RenderPass.
func (p *RenderPass) NewFB(iv []driver.ImageView, width, height, layers int) (driver.Framebuf, error) {
	views := make([]hal.TextureView, len(iv))
	for i, v := range iv {
		niv, ok := v.(*ImageView)
		if !ok {
			return nil, fmt.Errorf("wgpuhal: foreign image view")
		}
		views[i] = niv.NativeHandle()
	}
	return &Framebuf{views: views, width: width, height: height}, nil
}

// Framebuf implements driver.Framebuf.
type Framebuf struct {
	views  []hal.TextureView
	width  int
	height int
}

func (*Framebuf) Destroy() {}
