package wgpuhal

import (
	"fmt"
	"runtime"

	gglfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/ComfyFluffy/rplace-2023/driver"
	"github.com/ComfyFluffy/rplace-2023/wsi"
	wsiglfw "github.com/ComfyFluffy/rplace-2023/wsi/glfw"
)

// surfaceDescriptor extracts the native window/display handles a
// wgpu-hal Vulkan surface needs. Only the X11 desktop path is wired;
// Windows, macOS and Wayland would need the analogous native
// accessors GLFW exposes for each (GetWin32Window, GetCocoaWindow,
// GetWaylandWindow/Display).
func surfaceDescriptor(win wsi.Window) (hal.SurfaceDescriptor, error) {
	if runtime.GOOS != "linux" {
		return hal.SurfaceDescriptor{}, fmt.Errorf("surface creation not wired for GOOS=%s", runtime.GOOS)
	}
	handle := wsiglfw.Handle(win)
	return hal.SurfaceDescriptor{
		Xlib: &hal.XlibSurfaceDescriptor{
			Display: gglfw.GetX11Display(),
			Window:  uintptr(handle.GetX11Window()),
		},
	}, nil
}

// NewSwapchain implements driver.Presenter. win must come from the
// wsi/glfw backend, the only one this module wires up; any other
// wsi.Window implementation makes Handle panic.
func (g *GPU) NewSwapchain(win wsi.Window, imageCount int) (driver.Swapchain, error) {
	desc, err := surfaceDescriptor(win)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", driver.ErrWindow, err)
	}

	surface, err := g.drv.Instance().CreateSurface(desc)
	if err != nil {
		return nil, fmt.Errorf("%w: create surface: %v", driver.ErrWindow, err)
	}

	caps, err := surface.Capabilities(g.adapter)
	if err != nil || len(caps.Formats) == 0 {
		surface.Destroy()
		return nil, fmt.Errorf("%w: no compatible surface format", driver.ErrCompositor)
	}

	sc := &Swapchain{
		gpu:        g,
		surface:    surface,
		win:        win,
		imageCount: imageCount,
		format:     formatFromHAL(caps.Formats[0]),
	}
	if err := sc.configure(); err != nil {
		surface.Destroy()
		return nil, err
	}
	return sc, nil
}

func formatFromHAL(f gputypes.TextureFormat) driver.PixelFmt {
	if f == gputypes.TextureFormatBGRA8Unorm {
		return driver.BGRA8Unorm
	}
	return driver.RGBA8Unorm
}

// Swapchain implements driver.Swapchain over a wgpu-hal surface
// configured with a fixed number of owned images, mirroring the
// traditional acquire/present model of a Vulkan swapchain: the image
// set is fixed at configuration time and Next/Present cycle through
// it by index rather than handing back a fresh texture every call.
type Swapchain struct {
	gpu        *GPU
	surface    hal.Surface
	win        wsi.Window
	imageCount int

	format driver.PixelFmt
	images []hal.Texture
	views  []driver.ImageView
}

func (sc *Swapchain) configure() error {
	w, h := sc.win.Width(), sc.win.Height()
	if w == 0 || h == 0 {
		return fmt.Errorf("%w: zero-area window", driver.ErrSwapchain)
	}

	cfg := &hal.SurfaceConfiguration{
		Usage:       gputypes.TextureUsageRenderAttachment,
		Format:      formatToHAL(sc.format),
		Width:       uint32(w),
		Height:      uint32(h),
		PresentMode: gputypes.PresentModeFifo,
		ImageCount:  uint32(sc.imageCount),
	}
	images, err := sc.surface.Configure(sc.gpu.device, cfg)
	if err != nil {
		return fmt.Errorf("%w: configure surface: %v", driver.ErrSwapchain, err)
	}

	views := make([]driver.ImageView, len(images))
	for i, img := range images {
		native, err := sc.gpu.device.CreateTextureView(img, &hal.TextureViewDescriptor{
			Format:          cfg.Format,
			Dimension:       gputypes.TextureViewDimension2D,
			BaseArrayLayer:  0,
			ArrayLayerCount: 1,
			BaseMipLevel:    0,
			MipLevelCount:   1,
		})
		if err != nil {
			for _, v := range views[:i] {
				v.(*ImageView).Destroy()
			}
			return fmt.Errorf("%w: create swapchain image view: %v", driver.ErrSwapchain, err)
		}
		views[i] = &ImageView{gpu: sc.gpu, native: native}
	}

	sc.images = images
	sc.views = views
	return nil
}

func (sc *Swapchain) destroyViews() {
	for _, v := range sc.views {
		v.Destroy()
	}
	sc.views = nil
	sc.images = nil
}

// Views implements driver.Swapchain.
func (sc *Swapchain) Views() []driver.ImageView { return sc.views }

// Format implements driver.Swapchain.
func (sc *Swapchain) Format() driver.PixelFmt { return sc.format }

// Next implements driver.Swapchain.
func (sc *Swapchain) Next(cb driver.CmdBuffer) (int, error) {
	idx, status, err := sc.surface.AcquireNextImage()
	if err != nil {
		return -1, fmt.Errorf("%w: %v", driver.ErrSwapchain, err)
	}
	switch status {
	case hal.SurfaceStatusGood, hal.SurfaceStatusSuboptimal:
		return int(idx), nil
	case hal.SurfaceStatusTimeout:
		return -1, driver.ErrNoBackbuffer
	default:
		return -1, driver.ErrSwapchain
	}
}

// Present implements driver.Swapchain.
func (sc *Swapchain) Present(index int, cb driver.CmdBuffer) error {
	if err := sc.surface.Present(uint32(index)); err != nil {
		return fmt.Errorf("%w: %v", driver.ErrSwapchain, err)
	}
	return nil
}

// Recreate implements driver.Swapchain. It reconfigures the surface
// against the window's current size, replacing every image view.
func (sc *Swapchain) Recreate() error {
	sc.surface.Unconfigure(sc.gpu.device)
	sc.destroyViews()
	return sc.configure()
}

// Destroy implements driver.Swapchain.
func (sc *Swapchain) Destroy() {
	sc.destroyViews()
	sc.surface.Unconfigure(sc.gpu.device)
	sc.surface.Destroy()
}

