package wgpuhal

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/ComfyFluffy/rplace-2023/driver"
)

// GPU implements driver.GPU.
type GPU struct {
	drv     *Driver
	adapter hal.Adapter
	device  hal.Device
	queue   hal.Queue
	limits  driver.Limits
}

// Driver implements driver.GPU.
func (g *GPU) Driver() driver.Driver { return g.drv }

// Limits implements driver.GPU.
func (g *GPU) Limits() driver.Limits { return g.limits }

// Commit implements driver.GPU. Each WorkItem's command buffer is
// submitted with its own fence, and Done receives the wait result.
func (g *GPU) Commit(work []driver.WorkItem) error {
	for _, w := range work {
		cb, ok := w.CmdBuffer.(*CmdBuffer)
		if !ok {
			return fmt.Errorf("wgpuhal: foreign command buffer")
		}
		native, err := cb.finish()
		if err != nil {
			if w.Done != nil {
				w.Done <- err
			}
			return err
		}
		fence, err := g.device.CreateFence()
		if err != nil {
			return err
		}
		if err := g.queue.Submit([]hal.CommandBuffer{native}, fence, 1); err != nil {
			g.device.DestroyFence(fence)
			return err
		}
		go func(fence hal.Fence, done chan<- error) {
			_, err := g.device.Wait(fence, 1, waitForever)
			g.device.DestroyFence(fence)
			if done != nil {
				done <- err
			}
		}(fence, w.Done)
	}
	return nil
}

const waitForever = 1 << 40 // A very long timeout; hal.Device.Wait has no infinite sentinel.

// NewCmdBuffer implements driver.GPU.
func (g *GPU) NewCmdBuffer() (driver.CmdBuffer, error) {
	enc, err := g.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "rplace2023"})
	if err != nil {
		return nil, err
	}
	return &CmdBuffer{gpu: g, enc: enc}, nil
}

// NewShaderCode implements driver.GPU. wgsl is compiled lazily by the
// hal backend on CreateShaderModule.
func (g *GPU) NewShaderCode(wgsl string) (driver.ShaderCode, error) {
	mod, err := g.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Source: hal.ShaderSource{WGSL: wgsl},
	})
	if err != nil {
		return nil, err
	}
	return &shaderCode{gpu: g, mod: mod}, nil
}

type shaderCode struct {
	gpu *GPU
	mod hal.ShaderModule
}

func (s *shaderCode) Destroy() { s.gpu.device.DestroyShaderModule(s.mod) }

// NewBuffer implements driver.GPU.
func (g *GPU) NewBuffer(size int64, visible bool, usg driver.Usage) (driver.Buffer, error) {
	native, err := g.device.CreateBuffer(&hal.BufferDescriptor{
		Size:  uint64(size),
		Usage: usageToBuffer(usg, visible),
	})
	if err != nil {
		return nil, err
	}
	b := &Buffer{gpu: g, native: native, size: size, visible: visible}
	if visible {
		mapped, err := g.device.MapBuffer(native, 0, uint64(size))
		if err != nil {
			g.device.DestroyBuffer(native)
			return nil, err
		}
		b.mapped = mapped
	}
	return b, nil
}

func usageToBuffer(u driver.Usage, visible bool) gputypes.BufferUsage {
	var out gputypes.BufferUsage
	if u&driver.UShaderRead != 0 || u&driver.UShaderWrite != 0 {
		out |= gputypes.BufferUsageStorage
	}
	if u&driver.UShaderConst != 0 {
		out |= gputypes.BufferUsageUniform
	}
	if u&driver.UCopySrc != 0 {
		out |= gputypes.BufferUsageCopySrc
	}
	if u&driver.UCopyDst != 0 {
		out |= gputypes.BufferUsageCopyDst
	}
	if visible {
		out |= gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst
	}
	return out
}

// NewImage implements driver.GPU.
func (g *GPU) NewImage(pf driver.PixelFmt, size driver.Dim3D, layers, levels, samples int, usg driver.Usage) (driver.Image, error) {
	native, err := g.device.CreateTexture(&hal.TextureDescriptor{
		Size: gputypes.Extent3D{
			Width:              uint32(size.Width),
			Height:             uint32(size.Height),
			DepthOrArrayLayers: uint32(max(layers, 1)),
		},
		MipLevelCount: uint32(max(levels, 1)),
		SampleCount:   uint32(max(samples, 1)),
		Format:        formatToHAL(pf),
		Usage:         usageToTexture(usg),
	})
	if err != nil {
		return nil, err
	}
	return &Image{gpu: g, native: native, format: pf, size: size}, nil
}

func formatToHAL(pf driver.PixelFmt) gputypes.TextureFormat {
	switch pf {
	case driver.BGRA8Unorm:
		return gputypes.TextureFormatBGRA8Unorm
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}

func usageToTexture(u driver.Usage) gputypes.TextureUsage {
	var out gputypes.TextureUsage
	if u&driver.UShaderRead != 0 || u&driver.UShaderWrite != 0 {
		out |= gputypes.TextureUsageStorageBinding
	}
	if u&driver.UShaderSample != 0 {
		out |= gputypes.TextureUsageTextureBinding
	}
	if u&driver.UCopySrc != 0 {
		out |= gputypes.TextureUsageCopySrc
	}
	if u&driver.UCopyDst != 0 {
		out |= gputypes.TextureUsageCopyDst
	}
	if u&driver.URenderTarget != 0 {
		out |= gputypes.TextureUsageRenderAttachment
	}
	return out
}

// NewSampler implements driver.GPU.
func (g *GPU) NewSampler(spln *driver.Sampling) (driver.Sampler, error) {
	native, err := g.device.CreateSampler(&hal.SamplerDescriptor{
		MinFilter: filterToHAL(spln.Min),
		MagFilter: filterToHAL(spln.Mag),
		AddressModeU: addrToHAL(spln.AddrU),
		AddressModeV: addrToHAL(spln.AddrV),
	})
	if err != nil {
		return nil, err
	}
	return &Sampler{gpu: g, native: native}, nil
}

func filterToHAL(f driver.Filter) gputypes.FilterMode {
	if f == driver.FLinear {
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}

func addrToHAL(a driver.AddrMode) gputypes.AddressMode {
	if a == driver.AWrap {
		return gputypes.AddressModeRepeat
	}
	return gputypes.AddressModeClampToEdge
}

// Sampler implements driver.Sampler.
type Sampler struct {
	gpu    *GPU
	native hal.Sampler
}

func (s *Sampler) Destroy() { s.gpu.device.DestroySampler(s.native) }

// NewRenderPass, NewDescHeap, NewDescTable and NewPipeline are
// implemented in descriptor.go and pipeline.go.
