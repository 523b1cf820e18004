// Package wgpuhal implements the driver package's interfaces on top of
// the wgpu-hal bindings provided by github.com/gogpu/wgpu/hal and
// github.com/gogpu/gputypes. It targets the Vulkan backend exposed by
// that library.
package wgpuhal

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/vulkan"
	"github.com/gogpu/wgpu/hal/vulkan/vk"

	"github.com/ComfyFluffy/rplace-2023/driver"
)

func init() {
	driver.Register(&Driver{})
}

// Driver implements driver.Driver using the Vulkan wgpu-hal backend.
type Driver struct {
	mu       sync.Mutex
	instance hal.Instance
	gpu      *GPU
}

// Instance exposes the underlying hal.Instance to package-internal
// callers that need it (surface creation), without making it part of
// the driver.Driver interface.
func (d *Driver) Instance() hal.Instance { return d.instance }

// Name implements driver.Driver.
func (*Driver) Name() string { return "wgpuhal/vulkan" }

// Open implements driver.Driver.
func (d *Driver) Open() (driver.GPU, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.gpu != nil {
		return d.gpu, nil
	}
	if err := vk.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", driver.ErrNotInstalled, err)
	}

	backend := vulkan.Backend{}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{
		Backends: gputypes.BackendsVulkan,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", driver.ErrNotInstalled, err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, driver.ErrNoDevice
	}

	open, err := adapters[0].Adapter.Open(0, adapters[0].Capabilities.Limits)
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: %v", driver.ErrNoDevice, err)
	}

	d.instance = instance
	d.gpu = &GPU{
		drv:     d,
		adapter: adapters[0].Adapter,
		device:  open.Device,
		queue:   open.Queue,
		limits:  limitsFrom(adapters[0].Capabilities.Limits),
	}
	return d.gpu, nil
}

// Close implements driver.Driver.
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gpu == nil {
		return
	}
	d.gpu.device.WaitIdle()
	d.gpu.device.Destroy()
	d.instance.Destroy()
	d.gpu = nil
}

func limitsFrom(l gputypes.Limits) driver.Limits {
	return driver.Limits{
		MaxImage2D:      int(l.MaxTextureDimension2D),
		MaxDBufferRange: int64(l.MaxStorageBufferBindingSize),
		MaxDispatch: [3]int{
			int(l.MaxComputeWorkgroupsPerDimension),
			int(l.MaxComputeWorkgroupsPerDimension),
			int(l.MaxComputeWorkgroupsPerDimension),
		},
	}
}

// ErrUnsupported reports an operation that wgpuhal does not implement.
// No function in this package currently returns it.
var ErrUnsupported = errors.New("wgpuhal: unsupported operation")
