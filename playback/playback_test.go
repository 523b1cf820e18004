package playback

import (
	"testing"
	"time"

	"github.com/ComfyFluffy/rplace-2023/codec"
)

func TestDrainAlignsToWorkgroupSize(t *testing.T) {
	s := New(time.Now(), 1)
	for i := 0; i < 300; i++ {
		s.Push(codec.PixelEvent{TMs: 0})
	}
	batch := s.Drain(0)
	if len(batch) != 256 {
		t.Fatalf("len(Drain)\nhave %d\nwant 256", len(batch))
	}
	if s.Pending() != 44 {
		t.Fatalf("Pending after drain\nhave %d\nwant 44", s.Pending())
	}
}

func TestDrainOnlyTakesDueEvents(t *testing.T) {
	s := New(time.Now(), 1)
	for i := 0; i < 512; i++ {
		tms := uint32(0)
		if i >= 300 {
			tms = 1000
		}
		s.Push(codec.PixelEvent{TMs: tms})
	}
	// Only the first 300 are due at elapsed=0; aligned down to 256.
	batch := s.Drain(0)
	if len(batch) != 256 {
		t.Fatalf("len(Drain)\nhave %d\nwant 256", len(batch))
	}
	for _, e := range batch {
		if e.TMs != 0 {
			t.Fatalf("drained a not-yet-due event: TMs=%d", e.TMs)
		}
	}
	if s.Pending() != 256 {
		t.Fatalf("Pending after drain\nhave %d\nwant 256", s.Pending())
	}
}

func TestDrainBelowWorkgroupSizeYieldsNothing(t *testing.T) {
	s := New(time.Now(), 1)
	for i := 0; i < 100; i++ {
		s.Push(codec.PixelEvent{TMs: 0})
	}
	if batch := s.Drain(0); batch != nil {
		t.Fatalf("Drain with <256 due events\nhave %d events\nwant nil", len(batch))
	}
	if s.Pending() != 100 {
		t.Fatalf("Pending\nhave %d\nwant 100 (untouched)", s.Pending())
	}
}

func TestDrainEmptyQueue(t *testing.T) {
	s := New(time.Now(), 1)
	if batch := s.Drain(1_000_000); batch != nil {
		t.Fatalf("Drain on empty queue\nhave %v\nwant nil", batch)
	}
}

func TestDrainRespectsBatchCeiling(t *testing.T) {
	s := New(time.Now(), 1)
	for i := 0; i < MaxBatchEvents+512; i++ {
		s.Push(codec.PixelEvent{TMs: 0})
	}
	batch := s.Drain(0)
	if len(batch) != MaxBatchEvents {
		t.Fatalf("len(Drain)\nhave %d\nwant %d", len(batch), MaxBatchEvents)
	}
	if s.Pending() != 512 {
		t.Fatalf("Pending after drain\nhave %d\nwant 512", s.Pending())
	}
}

func TestSchedulerElapsedMsScalesWithSpeed(t *testing.T) {
	start := time.Now().Add(-2 * time.Second)
	s := New(start, 4)
	elapsed := s.ElapsedMs(start.Add(2 * time.Second))
	if elapsed < 7900 || elapsed > 8100 {
		t.Fatalf("ElapsedMs\nhave %d\nwant ~8000 (2000ms * 4x speed)", elapsed)
	}
}

func TestSchedulerZeroSpeedDefaultsToOne(t *testing.T) {
	s := New(time.Now(), 0)
	if s.speed != 1 {
		t.Fatalf("speed\nhave %d\nwant 1", s.speed)
	}
}
