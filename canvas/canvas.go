// Package canvas owns the GPU-resident 3000x2000 raster and the
// compute and presentation pipelines that mutate and display it: the
// update-texture pipeline applies a batch of events with a per-pixel
// atomic-max ordering rule, and the presentation pipeline samples the
// result into the window's swapchain image with aspect-preserving
// letterboxing.
package canvas

import (
	"fmt"

	"github.com/ComfyFluffy/rplace-2023/codec"
	"github.com/ComfyFluffy/rplace-2023/coord"
	"github.com/ComfyFluffy/rplace-2023/driver"
)

// Width and Height mirror coord.Width/coord.Height; re-exported here
// since this package is the natural place callers reach for canvas
// dimensions alongside the pipeline that owns them.
const (
	Width  = coord.Width
	Height = coord.Height
)

// StagingBufSize is the maximum byte size of the host-visible staging
// buffer the update-texture pipeline writes batches through. At
// GpuEventSize bytes per event this bounds a batch to 128MiB/48 ~=
// 2.80M events, well below the 65535*256 ~= 16.78M workgroup-count
// ceiling a single dispatch can express, so the staging buffer
// governs in practice.
const StagingBufSize = 128 * 1024 * 1024

// MaxDispatchEvents is the largest batch a single Dispatch call can
// cover, bounded by the maximum workgroup count (65535) at
// WorkgroupSize events per group.
const MaxDispatchEvents = 65535 * WorkgroupSize

// Canvas owns the canvas image, its timestamp auxiliary buffer, the
// update-texture compute pipeline, and the staging buffer batches are
// written through before a dispatch.
type Canvas struct {
	gpu driver.GPU

	image     driver.Image
	imageView driver.ImageView
	timestamp driver.Buffer
	staging   driver.Buffer
	sizeBuf   driver.Buffer

	heap     driver.DescHeap
	table    driver.DescTable
	pipeline driver.Pipeline
	code     driver.ShaderCode
}

// New allocates the canvas image and timestamp buffer and builds the
// update-texture pipeline, but performs no clearing; call Clear before
// the first Update.
func New(gpu driver.GPU) (*Canvas, error) {
	c := &Canvas{gpu: gpu}

	img, err := gpu.NewImage(driver.RGBA8Unorm, driver.Dim3D{Width: Width, Height: Height, Depth: 1},
		1, 1, 1, driver.UShaderWrite|driver.UShaderSample|driver.UCopyDst)
	if err != nil {
		return nil, fmt.Errorf("canvas: create image: %w", err)
	}
	view, err := img.NewView(driver.IView2D, 0, 1, 0, 1)
	if err != nil {
		img.Destroy()
		return nil, fmt.Errorf("canvas: create image view: %w", err)
	}
	c.image, c.imageView = img, view

	tsSize := int64(Width*Height) * 4
	ts, err := gpu.NewBuffer(tsSize, false, driver.UShaderWrite|driver.UCopyDst)
	if err != nil {
		c.Destroy()
		return nil, fmt.Errorf("canvas: create timestamp buffer: %w", err)
	}
	c.timestamp = ts

	staging, err := gpu.NewBuffer(StagingBufSize, true, driver.UShaderRead|driver.UCopyDst)
	if err != nil {
		c.Destroy()
		return nil, fmt.Errorf("canvas: create staging buffer: %w", err)
	}
	c.staging = staging

	if err := c.buildPipeline(); err != nil {
		c.Destroy()
		return nil, err
	}
	return c, nil
}

func (c *Canvas) buildPipeline() error {
	code, err := c.gpu.NewShaderCode(updateTextureWGSL)
	if err != nil {
		return fmt.Errorf("canvas: compile update-texture shader: %w", err)
	}
	c.code = code

	heap, err := c.gpu.NewDescHeap([]driver.Descriptor{
		{Type: driver.DBuffer, Stages: driver.SCompute, Nr: 0, Len: 1},
		{Type: driver.DImage, Stages: driver.SCompute, Nr: 1, Len: 1},
		{Type: driver.DBuffer, Stages: driver.SCompute, Nr: 2, Len: 1},
		{Type: driver.DConstant, Stages: driver.SCompute, Nr: 3, Len: 1},
	})
	if err != nil {
		return fmt.Errorf("canvas: create descriptor heap: %w", err)
	}
	c.heap = heap
	if err := heap.New(1); err != nil {
		return fmt.Errorf("canvas: allocate descriptor heap copy: %w", err)
	}
	heap.SetBuffer(0, 0, 0, []driver.Buffer{c.staging}, []int64{0}, []int64{StagingBufSize})
	heap.SetImage(0, 1, 0, []driver.ImageView{c.imageView})
	heap.SetBuffer(0, 2, 0, []driver.Buffer{c.timestamp}, []int64{0}, []int64{int64(Width * Height * 4)})
	// canvas_size is a tiny uniform; the staging buffer at a nonzero
	// offset would work equally well, but keeping it as its own
	// buffer makes the descriptor wiring legible.
	sizeBuf, err := c.gpu.NewBuffer(16, true, driver.UShaderConst|driver.UCopyDst)
	if err != nil {
		return fmt.Errorf("canvas: create canvas-size buffer: %w", err)
	}
	c.sizeBuf = sizeBuf
	binaryPutCanvasSize(sizeBuf.Bytes(), Width, Height)
	heap.SetBuffer(0, 3, 0, []driver.Buffer{sizeBuf}, []int64{0}, []int64{16})

	table, err := c.gpu.NewDescTable([]driver.DescHeap{heap})
	if err != nil {
		return fmt.Errorf("canvas: create descriptor table: %w", err)
	}
	c.table = table

	pl, err := c.gpu.NewPipeline(&driver.CompState{
		Func: driver.ShaderFunc{Code: code, Name: "main"},
		Desc: table,
	})
	if err != nil {
		return fmt.Errorf("canvas: create compute pipeline: %w", err)
	}
	c.pipeline = pl
	return nil
}

func binaryPutCanvasSize(b []byte, w, h int) {
	put32 := func(off int, v int) {
		b[off] = byte(v)
		b[off+1] = byte(v >> 8)
		b[off+2] = byte(v >> 16)
		b[off+3] = byte(v >> 24)
	}
	put32(0, w)
	put32(4, h)
}

// imageBytes is the byte size of the full canvas image, used both to
// size the white-fill staging write and the copy-to-image extent.
const imageBytes = int64(Width * Height * 4)

// Clear records commands that reset the canvas image to opaque white
// and the timestamp map to zero, matching the first-dispatch clear
// policy. It borrows the front of the staging buffer to stage the
// white fill, which is safe because Clear always runs before the
// first Update call populates that buffer with event data. cb must be
// between Begin and End.
func (c *Canvas) Clear(cb driver.CmdBuffer) error {
	if imageBytes > int64(len(c.staging.Bytes())) {
		return fmt.Errorf("canvas: staging buffer too small to stage a full-canvas clear")
	}
	white := c.staging.Bytes()[:imageBytes]
	for i := range white {
		white[i] = 0xFF
	}

	cb.BeginBlit(false)
	cb.CopyBufToImg(&driver.BufImgCopy{
		Buf:  c.staging,
		Size: driver.Dim3D{Width: Width, Height: Height, Depth: 1},
		Img:  c.image,
	})
	cb.Fill(c.timestamp, 0, 0, imageBytes)
	cb.EndBlit()
	return nil
}

// ImageView exposes the canvas image's sampled view for the
// presentation pipeline.
func (c *Canvas) ImageView() driver.ImageView { return c.imageView }

// Update writes a batch of events into the staging buffer and records
// a dispatch over them. len(events) must be a multiple of
// WorkgroupSize: the events binding spans the whole staging buffer,
// so the shader's arrayLength bound does not stop invocations past
// len(events) from reading stale staging data. The caller is responsible for keeping len(events) within
// MaxDispatchEvents and the staging buffer's capacity.
func (c *Canvas) Update(cb driver.CmdBuffer, events []codec.PixelEvent) error {
	if len(events) == 0 {
		return nil
	}
	payload := MarshalBatch(events)
	if len(payload) > len(c.staging.Bytes()) {
		return fmt.Errorf("canvas: batch of %d events exceeds staging buffer capacity", len(events))
	}
	copy(c.staging.Bytes(), payload)

	groups := (len(events) + WorkgroupSize - 1) / WorkgroupSize
	cb.BeginWork(false)
	cb.SetPipeline(c.pipeline)
	cb.SetDescTableComp(c.table, 0, []int{0})
	cb.Dispatch(groups, 1, 1)
	cb.EndWork()
	return nil
}

// Destroy releases every GPU resource the canvas owns.
func (c *Canvas) Destroy() {
	for _, d := range []driver.Destroyer{c.pipeline, c.table, c.heap, c.code, c.sizeBuf, c.staging, c.timestamp, c.imageView, c.image} {
		if d != nil {
			d.Destroy()
		}
	}
}
