package wgpuhal

import "github.com/gogpu/wgpu/hal"

// Buffer implements driver.Buffer.
type Buffer struct {
	gpu     *GPU
	native  hal.Buffer
	size    int64
	visible bool
	mapped  []byte
}

func (b *Buffer) Destroy() {
	if b.visible {
		b.gpu.device.UnmapBuffer(b.native)
	}
	b.gpu.device.DestroyBuffer(b.native)
}

func (b *Buffer) Visible() bool { return b.visible }

func (b *Buffer) Bytes() []byte {
	if !b.visible {
		return nil
	}
	return b.mapped
}

func (b *Buffer) Cap() int64 { return b.size }

// NativeHandle returns the underlying hal.Buffer, for use by
// descriptor.go and cmdbuffer.go within this package.
func (b *Buffer) NativeHandle() hal.Buffer { return b.native }
