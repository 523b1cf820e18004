package wgpuhal

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/ComfyFluffy/rplace-2023/driver"
)

// Image implements driver.Image.
type Image struct {
	gpu    *GPU
	native hal.Texture
	format driver.PixelFmt
	size   driver.Dim3D
}

func (i *Image) Destroy() { i.gpu.device.DestroyTexture(i.native) }

// NewView implements driver.Image.
func (i *Image) NewView(typ driver.ViewType, layer, layers, level, levels int) (driver.ImageView, error) {
	native, err := i.gpu.device.CreateTextureView(i.native, &hal.TextureViewDescriptor{
		Format:         formatToHAL(i.format),
		Dimension:      gputypes.TextureViewDimension2D,
		BaseArrayLayer: uint32(layer),
		ArrayLayerCount: uint32(max(layers, 1)),
		BaseMipLevel:   uint32(level),
		MipLevelCount:  uint32(max(levels, 1)),
	})
	if err != nil {
		return nil, err
	}
	return &ImageView{gpu: i.gpu, native: native}, nil
}

// ImageView implements driver.ImageView.
type ImageView struct {
	gpu    *GPU
	native hal.TextureView
}

func (v *ImageView) Destroy() { v.gpu.device.DestroyTextureView(v.native) }

// NativeHandle returns the underlying hal.TextureView.
func (v *ImageView) NativeHandle() hal.TextureView { return v.native }
