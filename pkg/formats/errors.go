package formats

import (
	"errors"
	"fmt"
)

// HDR format errors. They are wrapped by FormatError.
var (
	ErrNotRLE            = errors.New("missing FORMAT=32-bit_rle_rgbe header")
	ErrMissingResolution = errors.New("missing resolution line")
	ErrScanlineWidth     = errors.New("scanline width mismatch")
	ErrBadRun            = errors.New("bad scanline run")
	ErrTruncated         = errors.New("truncated pixel data")
)

// ParseError reports malformed mesh text.
type ParseError struct {
	Line int // 1-based, 0 when not tied to a line
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("obj: line %d: %s", e.Line, msg)
	}
	return "obj: " + msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FormatError reports a Radiance HDR stream that cannot be decoded.
type FormatError struct {
	Scanline int // -1 for header errors
	Err      error
}

func (e *FormatError) Error() string {
	if e.Scanline >= 0 {
		return fmt.Sprintf("hdr: scanline %d: %v", e.Scanline, e.Err)
	}
	return fmt.Sprintf("hdr: %v", e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
