package rerror

import (
	"errors"
	"testing"
)

func TestWrapIsMatchesSentinel(t *testing.T) {
	err := Wrap(Codec, errors.New("truncated event"))
	if !errors.Is(err, ErrCodec) {
		t.Fatalf("errors.Is(err, ErrCodec) = false, want true")
	}
	if errors.Is(err, ErrIo) {
		t.Fatalf("errors.Is(err, ErrIo) = true, want false")
	}
}

func TestWrapNilIsNil(t *testing.T) {
	if Wrap(Io, nil) != nil {
		t.Fatal("Wrap(kind, nil) should be nil")
	}
}

func TestWrapUnwrapsUnderlyingError(t *testing.T) {
	underlying := errors.New("disk full")
	err := Wrap(Io, underlying)
	if !errors.Is(err, underlying) {
		t.Fatal("errors.Is should see through to the wrapped error")
	}
}
