// Package rerror classifies the errors rplace2023's subcommands can
// surface into spec.md's small taxonomy, in the same sentinel-error
// style driver.ErrFatal/driver.ErrNoDeviceMemory use rather than a
// third-party error-wrapping library.
package rerror

import (
	"errors"
	"fmt"
)

// Kind classifies a RenderError.
type Kind int

const (
	Io Kind = iota
	Codec
	Csv
	DeviceLost
	OutOfMemory
	TransientRender
)

func (k Kind) String() string {
	switch k {
	case Io:
		return "io"
	case Codec:
		return "codec"
	case Csv:
		return "csv"
	case DeviceLost:
		return "device lost"
	case OutOfMemory:
		return "out of memory"
	case TransientRender:
		return "transient render"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per Kind, suitable for errors.Is comparisons
// against a value returned by Wrap.
var (
	ErrIo              = errors.New("io error")
	ErrCodec           = errors.New("codec error")
	ErrCsv             = errors.New("csv error")
	ErrDeviceLost      = errors.New("device lost")
	ErrOutOfMemory     = errors.New("out of memory")
	ErrTransientRender = errors.New("transient render error")
)

func sentinelFor(k Kind) error {
	switch k {
	case Io:
		return ErrIo
	case Codec:
		return ErrCodec
	case Csv:
		return ErrCsv
	case DeviceLost:
		return ErrDeviceLost
	case OutOfMemory:
		return ErrOutOfMemory
	case TransientRender:
		return ErrTransientRender
	default:
		return nil
	}
}

// RenderError pairs an underlying error with the Kind it falls under.
type RenderError struct {
	Kind Kind
	Err  error
}

func (e *RenderError) Error() string { return fmt.Sprintf("%s: %v", e.Kind, e.Err) }

func (e *RenderError) Unwrap() error { return e.Err }

// Is reports whether target is this error's Kind's sentinel, so
// errors.Is(err, rerror.ErrCodec) works without string-matching.
func (e *RenderError) Is(target error) bool { return target == sentinelFor(e.Kind) }

// Wrap classifies err under kind. Wrap(kind, nil) returns nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &RenderError{Kind: kind, Err: err}
}
