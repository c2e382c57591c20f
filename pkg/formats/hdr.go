package formats

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// HDR header constants.
const (
	hdrMaxHeaderLines = 20
	hdrFormatRLE      = "FORMAT=32-bit_rle_rgbe"

	// hdrMaxDimension is the widest scanline the RLE marker can encode.
	hdrMaxDimension = 0x7fff
	// hdrMaxRun is the longest repeat a single run pair can produce.
	hdrMaxRun = 127
)

var (
	hdrExposurePattern   = regexp.MustCompile(`EXPOSURE=\s*([0-9]*[.]?[0-9]*)`)
	hdrResolutionPattern = regexp.MustCompile(`-Y ([0-9]+) \+X ([0-9]+)`)
)

// HDRImage is a decoded Radiance image as 8-bit RGBA.
// Rows are in file order, which is bottom-up relative to a standard
// top-down image; callers flip before upload when they need top-down.
type HDRImage struct {
	Width    int
	Height   int
	Exposure float32 // From the EXPOSURE header, 1 when absent. Not applied.
	Pixels   []byte  // len == Width*Height*4
}

// LoadHDR reads and decodes a Radiance .hdr file.
func LoadHDR(path string) (*HDRImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return DecodeHDR(data)
}

// DecodeHDR decodes a run-length encoded Radiance RGBE stream.
// Only FORMAT=32-bit_rle_rgbe input is accepted.
func DecodeHDR(data []byte) (*HDRImage, error) {
	r := &hdrReader{data: data}

	hdr, err := r.readHeader()
	if err != nil {
		return nil, err
	}
	if err := r.checkSize(hdr.Width, hdr.Height); err != nil {
		return nil, err
	}

	rgbe := make([]byte, hdr.Width*hdr.Height*4)
	if err := r.readPixels(rgbe, hdr.Width, hdr.Height); err != nil {
		return nil, err
	}

	hdr.Pixels = rgbe
	rgbeToRGBA(hdr.Pixels)
	return hdr, nil
}

// hdrReader walks the byte stream.
type hdrReader struct {
	data []byte
	pos  int
}

// readLine returns bytes up to the next newline, consuming the newline.
func (r *hdrReader) readLine() string {
	start := r.pos
	for r.pos < len(r.data) {
		if r.data[r.pos] == '\n' {
			line := string(r.data[start:r.pos])
			r.pos++
			return line
		}
		r.pos++
	}
	return string(r.data[start:])
}

func (r *hdrReader) readHeader() (*HDRImage, error) {
	hdr := &HDRImage{Exposure: 1}
	rle := false

	for i := 0; i < hdrMaxHeaderLines && r.pos < len(r.data); i++ {
		line := r.readLine()

		switch {
		case strings.Contains(line, "#?RADIANCE"), strings.Contains(line, "#?RGBE"):
		case strings.Contains(line, hdrFormatRLE):
			rle = true
		case hdrExposurePattern.MatchString(line):
			m := hdrExposurePattern.FindStringSubmatch(line)
			if e, err := strconv.ParseFloat(m[1], 32); err == nil {
				hdr.Exposure = float32(e)
			}
		case strings.HasPrefix(line, "#"):
		case hdrResolutionPattern.MatchString(line):
			m := hdrResolutionPattern.FindStringSubmatch(line)
			h, errH := strconv.Atoi(m[1])
			w, errW := strconv.Atoi(m[2])
			if errH != nil || errW != nil || h > hdrMaxDimension || w > hdrMaxDimension {
				return nil, &FormatError{
					Scanline: -1,
					Err:      fmt.Errorf("%w: %q exceeds %d", ErrMissingResolution, line, hdrMaxDimension),
				}
			}
			hdr.Height, hdr.Width = h, w
		}

		if hdr.Width > 0 || hdr.Height > 0 {
			break
		}
	}

	if !rle {
		return nil, &FormatError{Scanline: -1, Err: ErrNotRLE}
	}
	if hdr.Width <= 0 || hdr.Height <= 0 {
		return nil, &FormatError{Scanline: -1, Err: ErrMissingResolution}
	}
	return hdr, nil
}

// checkSize rejects images whose remaining data cannot hold even the
// most compact encoding of every scanline, before anything is allocated.
func (r *hdrReader) checkSize(width, height int) error {
	flat := 4 * width
	rle := 4 + 4*2*((width+hdrMaxRun-1)/hdrMaxRun)
	need := height * min(flat, rle)
	if have := len(r.data) - r.pos; have < need {
		return &FormatError{
			Scanline: 0,
			Err:      fmt.Errorf("%w: %dx%d needs at least %d bytes, have %d", ErrTruncated, width, height, need, have),
		}
	}
	return nil
}

// readPixels fills dst with RGBE quadruples, one scanline at a time.
func (r *hdrReader) readPixels(dst []byte, width, height int) error {
	scanline := make([]byte, 4*width)
	offset := 0

	for y := 0; y < height; y++ {
		if len(r.data)-r.pos < 4 {
			return &FormatError{Scanline: y, Err: ErrTruncated}
		}
		marker := r.data[r.pos : r.pos+4]

		if marker[0] != 2 || marker[1] != 2 || marker[2]&0x80 != 0 {
			// Not run length encoded: the rest of the image is flat RGBE,
			// and the marker is the first pixel.
			remaining := len(dst) - offset
			if len(r.data)-r.pos < remaining {
				return &FormatError{Scanline: y, Err: ErrTruncated}
			}
			copy(dst[offset:], r.data[r.pos:r.pos+remaining])
			r.pos += remaining
			return nil
		}
		r.pos += 4

		encodedWidth := int(marker[2])<<8 | int(marker[3])
		if encodedWidth != width {
			return &FormatError{
				Scanline: y,
				Err:      fmt.Errorf("%w: got %d, expected %d", ErrScanlineWidth, encodedWidth, width),
			}
		}

		if err := r.readRLEScanline(scanline, width); err != nil {
			return &FormatError{Scanline: y, Err: err}
		}

		// Channels are stored planar; interleave back to RGBE per pixel.
		for x := 0; x < width; x++ {
			dst[offset] = scanline[x]
			dst[offset+1] = scanline[x+width]
			dst[offset+2] = scanline[x+2*width]
			dst[offset+3] = scanline[x+3*width]
			offset += 4
		}
	}

	return nil
}

// readRLEScanline decodes the four planar channels of one scanline.
func (r *hdrReader) readRLEScanline(buf []byte, width int) error {
	ptr := 0
	for ch := 0; ch < 4; ch++ {
		end := (ch + 1) * width
		for ptr < end {
			if len(r.data)-r.pos < 2 {
				return ErrTruncated
			}
			count := int(r.data[r.pos])
			value := r.data[r.pos+1]
			r.pos += 2

			if count > 128 {
				// A run of the same value.
				count -= 128
				if count > end-ptr {
					return fmt.Errorf("%w: run of %d overflows %d remaining", ErrBadRun, count, end-ptr)
				}
				for i := 0; i < count; i++ {
					buf[ptr] = value
					ptr++
				}
				continue
			}

			// A literal span; the pair's value byte is the first literal.
			if count == 0 {
				return fmt.Errorf("%w: zero-length span", ErrBadRun)
			}
			if count > end-ptr {
				return fmt.Errorf("%w: span of %d overflows %d remaining", ErrBadRun, count, end-ptr)
			}
			buf[ptr] = value
			ptr++
			if rest := count - 1; rest > 0 {
				if len(r.data)-r.pos < rest {
					return ErrTruncated
				}
				copy(buf[ptr:ptr+rest], r.data[r.pos:r.pos+rest])
				r.pos += rest
				ptr += rest
			}
		}
	}
	return nil
}

// rgbeToRGBA converts RGBE quadruples in place to 8-bit RGBA,
// scaling each mantissa by 2^(E-128) and forcing alpha opaque.
func rgbeToRGBA(px []byte) {
	for i := 0; i+3 < len(px); i += 4 {
		f := math.Ldexp(1, int(px[i+3])-128)
		px[i] = scaleChannel(px[i], f)
		px[i+1] = scaleChannel(px[i+1], f)
		px[i+2] = scaleChannel(px[i+2], f)
		px[i+3] = 255
	}
}

func scaleChannel(c byte, f float64) byte {
	v := float64(c) / 255 * f
	if v > 1 {
		v = 1
	}
	return byte(math.Round(v * 255))
}
