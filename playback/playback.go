// Package playback implements the wall-clock scheduler that decides,
// on every redraw, how many pending events from the log are due to be
// applied to the canvas.
package playback

import (
	"time"

	"github.com/ComfyFluffy/rplace-2023/codec"
)

// WorkgroupSize must match canvas.WorkgroupSize; duplicated here
// (rather than imported) to keep this package free of a dependency on
// the GPU-facing canvas package, matching spec.md's data flow, where
// the scheduler only knows about event counts and batch alignment,
// not about GPU resources.
const WorkgroupSize = 256

// MaxBatchEvents bounds a single drained batch from above: the number
// of 48-byte GpuEvents that fit in 128MiB, rounded down to a multiple
// of WorkgroupSize (2,796,032), and never more than the dispatch
// ceiling of 65535 workgroups.
const (
	gpuEventSize    = 48
	stagingBufBytes = 128 * 1024 * 1024
	dispatchCeiling = 65535 * WorkgroupSize
)

var MaxBatchEvents = min(stagingBufBytes/gpuEventSize/WorkgroupSize*WorkgroupSize, dispatchCeiling)

// Scheduler tracks a pending queue of events read from the log but
// not yet applied to the canvas, draining it in wall-clock order.
//
// Deviation from the original source (documented, not silent): the
// original's pending buffer grows without bound if the reader
// outruns the renderer. This implementation still buffers without
// bound internally (Push never blocks or drops), but Drain applies an
// explicit high-water mark of MaxBatchEvents per call, so a single
// redraw can never hand the update-texture pipeline more than one
// dispatch ceiling's worth of events. Events beyond that stay queued
// for the next redraw instead of being submitted in an oversized,
// invalid dispatch.
type Scheduler struct {
	speed   uint32
	start   time.Time
	pending []codec.PixelEvent
}

// New creates a scheduler anchored at start, replaying at speed times
// wall-clock rate. speed must be >= 1.
func New(start time.Time, speed uint32) *Scheduler {
	if speed == 0 {
		speed = 1
	}
	return &Scheduler{speed: speed, start: start}
}

// ElapsedMs returns the playback-speed-scaled milliseconds elapsed
// since the scheduler's anchor, as of now.
func (s *Scheduler) ElapsedMs(now time.Time) uint32 {
	return uint32(now.Sub(s.start).Milliseconds()) * s.speed
}

// Push appends an event read from the log to the pending queue. The
// caller is expected to keep reading ahead of playback time so Drain
// always has enough lookahead to find the boundary event whose
// TMs exceeds the current elapsed time.
func (s *Scheduler) Push(e codec.PixelEvent) {
	s.pending = append(s.pending, e)
}

// Drain removes and returns every pending event whose TMs is at or
// before elapsedMs, aligned down to a multiple of WorkgroupSize and
// capped at MaxBatchEvents. Events left over after the cap, or whose
// TMs is still in the future, remain queued.
func (s *Scheduler) Drain(elapsedMs uint32) []codec.PixelEvent {
	due := 0
	for due < len(s.pending) && s.pending[due].TMs <= elapsedMs {
		due++
	}
	if due > MaxBatchEvents {
		due = MaxBatchEvents
	}
	due = due / WorkgroupSize * WorkgroupSize
	if due == 0 {
		return nil
	}

	batch := make([]codec.PixelEvent, due)
	copy(batch, s.pending[:due])

	remaining := len(s.pending) - due
	copy(s.pending, s.pending[due:])
	s.pending = s.pending[:remaining]

	return batch
}

// Pending returns the number of events currently queued.
func (s *Scheduler) Pending() int { return len(s.pending) }
