// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package driver defines a set of interfaces encompassing common GPU
// functionality: device acquisition, buffers and images, compute and
// graphics pipelines, and command recording/submission. It is designed
// to allow a platform-specific or library-backed implementation to be
// plugged in with no change to client code.
package driver

// GPU is the main interface to an underlying driver implementation.
// It is used to create other types and to execute commands.
// A GPU is obtained from a call to Driver.Open.
type GPU interface {
	// Driver returns the Driver that owns the GPU.
	Driver() Driver

	// Commit commits a batch of command buffers to the GPU for
	// execution. Command buffers in cb cannot be used for recording
	// until the corresponding WorkItem completes.
	Commit(work []WorkItem) error

	// NewCmdBuffer creates a new command buffer.
	NewCmdBuffer() (CmdBuffer, error)

	// NewRenderPass creates a new render pass.
	NewRenderPass(att []Attachment, sub []Subpass) (RenderPass, error)

	// NewShaderCode creates a new shader binary from WGSL source.
	NewShaderCode(wgsl string) (ShaderCode, error)

	// NewDescHeap creates a new descriptor heap.
	NewDescHeap(ds []Descriptor) (DescHeap, error)

	// NewDescTable creates a new descriptor table.
	NewDescTable(dh []DescHeap) (DescTable, error)

	// NewPipeline creates a new pipeline. state must be a pointer to
	// a GraphState or a pointer to a CompState.
	NewPipeline(state any) (Pipeline, error)

	// NewBuffer creates a new buffer of the given size.
	NewBuffer(size int64, visible bool, usg Usage) (Buffer, error)

	// NewImage creates a new image.
	NewImage(pf PixelFmt, size Dim3D, layers, levels, samples int, usg Usage) (Image, error)

	// NewSampler creates a new sampler.
	NewSampler(spln *Sampling) (Sampler, error)

	// Limits returns the implementation limits. They are immutable
	// for the lifetime of the GPU.
	Limits() Limits
}

// WorkItem pairs a recorded command buffer with the channel that
// receives its completion status.
type WorkItem struct {
	CmdBuffer CmdBuffer
	Done      chan<- error
}

// Destroyer is the interface that wraps the Destroy method. Types
// that implement this interface may allocate external memory that is
// not managed by the GC, so Destroy must be called explicitly.
type Destroyer interface {
	Destroy()
}

// CmdBuffer is the interface that defines a command buffer. Commands
// are recorded into logical blocks of rendering, compute or copy
// work, any number of which may be recorded into a single buffer:
//
//	Begin()
//	BeginWork(wait) / Dispatch... / EndWork()
//	BeginPass(...) / Draw... / EndPass()
//	BeginBlit(wait) / Copy.../Fill / EndBlit()
//	End()
//
// Then GPU.Commit executes the recorded work.
type CmdBuffer interface {
	Destroyer

	// Begin prepares the command buffer for recording.
	Begin() error

	// BeginPass begins the first subpass of a render pass.
	BeginPass(pass RenderPass, fb Framebuf, clear []ClearValue)

	// NextSubpass ends the current subpass and begins the next one.
	NextSubpass()

	// EndPass ends the current render pass.
	EndPass()

	// BeginWork begins compute work. If wait is set, it only starts
	// once all previously recorded work in this buffer completes.
	BeginWork(wait bool)

	// EndWork ends the current compute work.
	EndWork()

	// BeginBlit begins data transfer work.
	BeginBlit(wait bool)

	// EndBlit ends the current data transfer work.
	EndBlit()

	// SetPipeline sets the pipeline. There is a separate binding
	// point for each type of pipeline.
	SetPipeline(pl Pipeline)

	// SetViewport sets the bounds of one or more viewports.
	SetViewport(vp []Viewport)

	// SetScissor sets one or more scissor rectangles.
	SetScissor(sciss []Scissor)

	// SetVertexBuf sets one or more vertex buffers.
	SetVertexBuf(start int, buf []Buffer, off []int64)

	// SetDescTableGraph sets a descriptor table range for graphics
	// pipelines.
	SetDescTableGraph(table DescTable, start int, heapCopy []int)

	// SetDescTableComp sets a descriptor table range for compute
	// pipelines.
	SetDescTableComp(table DescTable, start int, heapCopy []int)

	// Draw draws primitives. Valid only within a render pass.
	Draw(vertCount, instCount, baseVert, baseInst int)

	// Dispatch dispatches compute work groups. Valid only within
	// compute work.
	Dispatch(grpCountX, grpCountY, grpCountZ int)

	// CopyBuffer copies data between buffers. Valid only within data
	// transfer work.
	CopyBuffer(param *BufferCopy)

	// CopyBufToImg copies data from a buffer to an image. Valid only
	// within data transfer work.
	CopyBufToImg(param *BufImgCopy)

	// CopyImgToBuf copies data from an image to a buffer. Valid only
	// within data transfer work.
	CopyImgToBuf(param *BufImgCopy)

	// Fill fills a buffer range with copies of a byte value. off and
	// size must be aligned to 4 bytes.
	Fill(buf Buffer, off int64, value byte, size int64)

	// Barrier inserts global synchronization barriers.
	Barrier(b []Barrier)

	// Transition inserts image layout transitions.
	Transition(t []Transition)

	// End ends command recording and prepares the buffer for
	// execution. Recording is not allowed again until the buffer is
	// executed or reset.
	End() error

	// Reset discards all recorded commands.
	Reset() error
}

// BufferCopy describes a copy between two buffers.
type BufferCopy struct {
	From    Buffer
	FromOff int64
	To      Buffer
	ToOff   int64
	Size    int64
}

// BufImgCopy describes a copy between a buffer and an image.
type BufImgCopy struct {
	Buf Buffer
	// BufOff is the byte offset into Buf.
	BufOff int64
	// RowStrd and SlcStrd give the addressing of image data in the
	// buffer, in pixels (0 means tightly packed).
	RowStrd, SlcStrd int
	Img              Image
	ImgOff           Off3D
	Layer            int
	Level            int
	Size             Dim3D
}

// Sync is the type of a synchronization scope.
type Sync int

// Synchronization scopes.
const (
	SNone Sync = 0
	SAll  Sync = 1 << iota
	SComputeShading
	SFragmentShading
	SColorOutput
	SCopy
)

// Access is the type of a memory access scope.
type Access int

// Memory access scopes.
const (
	ANone Access = 0
	AShaderRead Access = 1 << iota
	AShaderWrite
	AColorWrite
	ACopyRead
	ACopyWrite
)

// Layout is the type of an image layout.
type Layout int

// Image layouts.
const (
	LUndefined Layout = iota
	LGeneral
	LColorTarget
	LShaderRead
	LShaderStore
	LCopySrc
	LCopyDst
	LPresent
)

// Barrier represents a synchronization barrier.
type Barrier struct {
	SyncBefore   Sync
	SyncAfter    Sync
	AccessBefore Access
	AccessAfter  Access
}

// Transition represents a layout transition on an image.
type Transition struct {
	Barrier
	LayoutBefore Layout
	LayoutAfter  Layout
	Img          Image
	Layers       int
	Levels       int
}

// LoadOp is the type of an attachment's load operation.
type LoadOp int

// Load operations.
const (
	LDontCare LoadOp = iota
	LClear
	LLoad
)

// StoreOp is the type of an attachment's store operation.
type StoreOp int

// Store operations.
const (
	SDontCare StoreOp = iota
	SStore
)

// Attachment describes a single render target for use in a render pass.
type Attachment struct {
	Format  PixelFmt
	Samples int
	Load    LoadOp
	Store   StoreOp
}

// Subpass defines a subpass of a render pass. Color contains indices
// into the render pass' attachment list.
type Subpass struct {
	Color []int
}

// RenderPass is the interface that defines a render pass into which
// draw commands operate.
type RenderPass interface {
	Destroyer

	// NewFB creates a new framebuffer. Each view in iv corresponds to
	// the render pass' attachment of the same index.
	NewFB(iv []ImageView, width, height, layers int) (Framebuf, error)
}

// Framebuf is the interface that defines the render targets of a
// render pass.
type Framebuf interface {
	Destroyer
}

// ClearValue defines a clear value for a render target.
type ClearValue struct {
	Color [4]float32
}

// ShaderCode is the interface that defines a compiled shader binary.
type ShaderCode interface {
	Destroyer
}

// ShaderFunc names an entry point within a shader binary.
type ShaderFunc struct {
	Code ShaderCode
	Name string
}

// Stage is a mask of programmable stages.
type Stage int

// Stages.
const (
	SVertex Stage = 1 << iota
	SFragment
	SCompute
)

// DescType is the type of a descriptor.
type DescType int

// Descriptor types.
const (
	// Read/write buffer.
	DBuffer DescType = iota
	// Read/write image.
	DImage
	// Constant (uniform) buffer.
	DConstant
	// Sampled texture.
	DTexture
	// Texture sampler.
	DSampler
)

// Descriptor describes data for use in shaders.
type Descriptor struct {
	Type   DescType
	Stages Stage
	Nr     int
	Len    int
}

// DescHeap is the interface that defines a set of descriptors for use
// in programmable pipeline stages.
type DescHeap interface {
	Destroyer

	// New creates storage for n copies of each descriptor. Calling
	// New(0) frees all storage.
	New(n int) error

	// SetBuffer updates the buffer ranges referred by the given
	// descriptor of the given heap copy.
	SetBuffer(cpy, nr, start int, buf []Buffer, off, size []int64)

	// SetImage updates the image views referred by the given
	// descriptor of the given heap copy.
	SetImage(cpy, nr, start int, iv []ImageView)

	// SetSampler updates the samplers referred by the given
	// descriptor of the given heap copy.
	SetSampler(cpy, nr, start int, splr []Sampler)

	// Count returns the number of heap copies created by New.
	Count() int
}

// DescTable is the interface that defines the bindings between a
// number of descriptor heaps and the shaders in a pipeline.
type DescTable interface {
	Destroyer
}

// VertexFmt describes the format of a vertex input.
type VertexFmt int

// Vertex formats.
const (
	Float32x2 VertexFmt = iota
	Float32x3
	Float32x4
)

// VertexIn describes a vertex input.
type VertexIn struct {
	Format VertexFmt
	Stride int
	Nr     int
	Name   string
}

// Topology is the type of primitive topologies.
type Topology int

// Primitive topologies.
const (
	TTriangle Topology = iota
	TTriStrip
)

// Viewport defines the bounds of a viewport.
type Viewport struct {
	X, Y, Width, Height, Znear, Zfar float32
}

// Scissor defines a scissor rectangle.
type Scissor struct {
	X, Y, Width, Height int
}

// ColorMask is the type of a color write mask.
type ColorMask int

// Color write masks.
const (
	CRed ColorMask = 1 << iota
	CGreen
	CBlue
	CAlpha
	CAll ColorMask = 1<<iota - 1
)

// ColorBlend defines a render target's blend parameters.
type ColorBlend struct {
	Blend     bool
	WriteMask ColorMask
}

// GraphState defines the combination of programmable and fixed stages
// of a graphics pipeline.
type GraphState struct {
	VertFunc ShaderFunc
	FragFunc ShaderFunc
	Desc     DescTable
	Input    []VertexIn
	Topology Topology
	Samples  int
	Blend    ColorBlend
	Pass     RenderPass
	Subpass  int
}

// CompState defines the state of a compute pipeline: a single compute
// shader and the descriptor table describing the resources it accesses.
type CompState struct {
	Func ShaderFunc
	Desc DescTable
}

// Pipeline is the interface that defines a GPU pipeline.
type Pipeline interface {
	Destroyer
}

// Usage is a mask indicating valid uses for a resource.
type Usage int

// Usage flags for Buffer and Image.
const (
	// The resource can be read in shaders (storage read).
	UShaderRead Usage = 1 << iota
	// The resource can be written in shaders (storage read/write).
	UShaderWrite
	// The resource can provide constant (uniform) data for shaders.
	UShaderConst
	// The resource can be sampled in shaders. Valid only for Image.
	UShaderSample
	// The resource can provide vertex data for draw calls. Valid
	// only for Buffer.
	UVertexData
	// The resource can be used as a copy source.
	UCopySrc
	// The resource can be used as a copy destination.
	UCopyDst
	// The resource can be used as a render target. Valid only for
	// Image.
	URenderTarget
)

// Buffer is the interface that defines a GPU buffer. The size of the
// buffer is fixed; a larger buffer requires creating a new one and
// copying the data explicitly.
type Buffer interface {
	Destroyer

	// Visible returns whether the buffer is host visible.
	Visible() bool

	// Bytes returns a slice of length Cap referring to the
	// underlying data, or nil if the buffer is not host visible.
	Bytes() []byte

	// Cap returns the capacity of the buffer in bytes.
	Cap() int64
}

// PixelFmt describes the format of a pixel.
type PixelFmt int

// Pixel formats.
const (
	RGBA8Unorm PixelFmt = iota
	BGRA8Unorm
)

// Size returns the size in bytes of one pixel in format f.
func (f PixelFmt) Size() int {
	switch f {
	case RGBA8Unorm, BGRA8Unorm:
		return 4
	}
	return 0
}

// Dim3D is a three-dimensional size.
type Dim3D struct {
	Width, Height, Depth int
}

// Off3D is a three-dimensional offset.
type Off3D struct {
	X, Y, Z int
}

// Image is the interface that defines a GPU image. Images are always
// GPU-private; copying data to/from them requires a staging buffer.
type Image interface {
	Destroyer

	// NewView creates a new image view.
	NewView(typ ViewType, layer, layers, level, levels int) (ImageView, error)
}

// ViewType is the type of a resource view.
type ViewType int

// View types.
const (
	IView2D ViewType = iota
)

// ImageView is the interface that defines a typed view of an Image.
type ImageView interface {
	Destroyer
}

// Filter is the type of sampler filters.
type Filter int

// Filters.
const (
	FNearest Filter = iota
	FLinear
)

// AddrMode is the type of sampler address modes.
type AddrMode int

// Address modes.
const (
	AClamp AddrMode = iota
	AWrap
)

// Sampler is the interface that defines an image sampler.
type Sampler interface {
	Destroyer
}

// Sampling describes image sampler state.
type Sampling struct {
	Min, Mag Filter
	AddrU    AddrMode
	AddrV    AddrMode
}

// Limits describes implementation limits, immutable for the lifetime
// of the GPU.
type Limits struct {
	// MaxImage2D is the maximum width/height of a 2D image.
	MaxImage2D int
	// MaxDBufferRange is the maximum range of a buffer descriptor.
	MaxDBufferRange int64
	// MaxDispatch is the maximum dispatch count per dimension.
	MaxDispatch [3]int
}
