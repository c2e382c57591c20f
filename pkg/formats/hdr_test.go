package formats

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

// createTestHDR builds a Radiance stream with the given header lines,
// a resolution line and raw pixel payload.
func createTestHDR(header []string, width, height int, payload []byte) []byte {
	buf := new(bytes.Buffer)
	for _, l := range header {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	fmt.Fprintf(buf, "-Y %d +X %d\n", height, width)
	buf.Write(payload)
	return buf.Bytes()
}

// rawHDR builds a stream with a literal resolution line and a small body.
func rawHDR(resolution string) []byte {
	return []byte("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n" + resolution + "\n\x80\x80\x80\x81")
}

// paddedHDR puts n comment lines between the format and resolution lines.
func paddedHDR(n int) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n")
	for i := 0; i < n; i++ {
		buf.WriteString("# padding\n")
	}
	buf.WriteString("-Y 1 +X 1\n")
	buf.Write(rleScanline(1, 128, 128, 128, 129))
	return buf.Bytes()
}

var rleHeader = []string{"#?RADIANCE", "# made by a test", "FORMAT=32-bit_rle_rgbe"}

// rleScanline encodes one scanline with a run per channel.
func rleScanline(width int, r, g, b, e byte) []byte {
	out := []byte{2, 2, byte(width >> 8), byte(width)}
	for _, v := range []byte{r, g, b, e} {
		out = append(out, byte(128+width), v)
	}
	return out
}

func TestDecodeHDR_SinglePixel(t *testing.T) {
	payload := []byte{2, 2, 0, 1, 129, 255, 129, 0, 129, 0, 129, 128}
	img, err := DecodeHDR(createTestHDR(rleHeader, 1, 1, payload))
	if err != nil {
		t.Fatalf("DecodeHDR failed: %v", err)
	}

	if img.Width != 1 || img.Height != 1 {
		t.Errorf("expected 1x1, got %dx%d", img.Width, img.Height)
	}
	want := []byte{255, 0, 0, 255}
	if !bytes.Equal(img.Pixels, want) {
		t.Errorf("expected pixels %v, got %v", want, img.Pixels)
	}
	if img.Exposure != 1 {
		t.Errorf("expected default exposure 1, got %f", img.Exposure)
	}
}

func TestDecodeHDR_RunsAndLiterals(t *testing.T) {
	// 3 wide, 2 high. Row 0 uses literal spans, row 1 runs.
	row0 := []byte{2, 2, 0, 3,
		3, 10, 20, 30, // R literals
		131, 0, // G run
		1, 40, 2, 50, 60, // B: literal of 1 then literal of 2
		131, 128, // E run, f = 1
	}
	row1 := rleScanline(3, 200, 100, 0, 129) // f = 2

	img, err := DecodeHDR(createTestHDR(rleHeader, 3, 2, append(row0, row1...)))
	if err != nil {
		t.Fatalf("DecodeHDR failed: %v", err)
	}

	want := []byte{
		10, 0, 40, 255,
		20, 0, 50, 255,
		30, 0, 60, 255,
		255, 200, 0, 255, // 200*2 clamps, 100*2 = 200
		255, 200, 0, 255,
		255, 200, 0, 255,
	}
	if !bytes.Equal(img.Pixels, want) {
		t.Errorf("pixels mismatch\nwant %v\ngot  %v", want, img.Pixels)
	}
}

func TestDecodeHDR_ExponentScaling(t *testing.T) {
	// E=127 halves the mantissa.
	img, err := DecodeHDR(createTestHDR(rleHeader, 1, 1, rleScanline(1, 200, 50, 4, 127)))
	if err != nil {
		t.Fatalf("DecodeHDR failed: %v", err)
	}
	want := []byte{100, 25, 2, 255}
	if !bytes.Equal(img.Pixels, want) {
		t.Errorf("expected %v, got %v", want, img.Pixels)
	}
}

func TestDecodeHDR_Exposure(t *testing.T) {
	header := append([]string{}, rleHeader...)
	header = append(header, "EXPOSURE=  0.75")

	img, err := DecodeHDR(createTestHDR(header, 1, 1, rleScanline(1, 1, 1, 1, 128)))
	if err != nil {
		t.Fatalf("DecodeHDR failed: %v", err)
	}
	if img.Exposure != 0.75 {
		t.Errorf("expected exposure 0.75, got %f", img.Exposure)
	}
}

func TestDecodeHDR_MagicOptional(t *testing.T) {
	header := []string{"FORMAT=32-bit_rle_rgbe"}
	if _, err := DecodeHDR(createTestHDR(header, 1, 1, rleScanline(1, 1, 2, 3, 128))); err != nil {
		t.Fatalf("DecodeHDR without magic failed: %v", err)
	}
}

func TestDecodeHDR_FlatFallback(t *testing.T) {
	// First scanline is RLE, the rest is stored flat.
	payload := rleScanline(2, 255, 0, 0, 128)
	payload = append(payload,
		0, 255, 0, 128,
		0, 0, 255, 128,
		10, 10, 10, 128,
		20, 20, 20, 128,
	)

	img, err := DecodeHDR(createTestHDR(rleHeader, 2, 3, payload))
	if err != nil {
		t.Fatalf("DecodeHDR failed: %v", err)
	}

	want := []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 255, 0, 255, 0, 0, 255, 255,
		10, 10, 10, 255, 20, 20, 20, 255,
	}
	if !bytes.Equal(img.Pixels, want) {
		t.Errorf("pixels mismatch\nwant %v\ngot  %v", want, img.Pixels)
	}
}

func TestDecodeHDR_HeaderWindow(t *testing.T) {
	// Magic, format and 17 comments leave the resolution on line 20.
	img, err := DecodeHDR(paddedHDR(17))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Width != 1 || img.Height != 1 || len(img.Pixels) != 4 {
		t.Errorf("expected 1x1 with 4 bytes, got %dx%d with %d", img.Width, img.Height, len(img.Pixels))
	}
}

func TestDecodeHDR_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		want     error
		scanline int
	}{
		{
			name:     "missing format",
			data:     createTestHDR([]string{"#?RADIANCE"}, 1, 1, rleScanline(1, 0, 0, 0, 128)),
			want:     ErrNotRLE,
			scanline: -1,
		},
		{
			name:     "missing resolution",
			data:     []byte("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n"),
			want:     ErrMissingResolution,
			scanline: -1,
		},
		{
			name:     "width mismatch",
			data:     createTestHDR(rleHeader, 2, 1, rleScanline(3, 0, 0, 0, 128)),
			want:     ErrScanlineWidth,
			scanline: 0,
		},
		{
			name:     "zero count",
			data:     createTestHDR(rleHeader, 1, 1, []byte{2, 2, 0, 1, 0, 5}),
			want:     ErrBadRun,
			scanline: 0,
		},
		{
			name:     "run overflow",
			data:     createTestHDR(rleHeader, 2, 1, []byte{2, 2, 0, 2, 131, 5, 0, 0}),
			want:     ErrBadRun,
			scanline: 0,
		},
		{
			name:     "literal overflow",
			data:     createTestHDR(rleHeader, 2, 1, []byte{2, 2, 0, 2, 3, 1, 2, 3}),
			want:     ErrBadRun,
			scanline: 0,
		},
		{
			name:     "truncated scanline",
			data:     createTestHDR(rleHeader, 1, 1, []byte{2, 2, 0, 1, 129, 255}),
			want:     ErrTruncated,
			scanline: 0,
		},
		{
			name:     "missing second scanline",
			data:     createTestHDR(rleHeader, 1, 2, rleScanline(1, 0, 0, 0, 128)),
			want:     ErrTruncated,
			scanline: 1,
		},
		{
			name:     "truncated flat data",
			data:     createTestHDR(rleHeader, 2, 1, []byte{1, 1, 1, 128, 2, 2}),
			want:     ErrTruncated,
			scanline: 0,
		},
		{
			name:     "width overflows allocation",
			data:     rawHDR("-Y 1 +X 6917529027641081856"),
			want:     ErrMissingResolution,
			scanline: -1,
		},
		{
			name:     "width wraps to zero pixels",
			data:     rawHDR("-Y 1 +X 4611686018427387904"),
			want:     ErrMissingResolution,
			scanline: -1,
		},
		{
			name:     "height overflows int",
			data:     rawHDR("-Y 99999999999999999999999 +X 1"),
			want:     ErrMissingResolution,
			scanline: -1,
		},
		{
			name:     "width beyond scanline marker",
			data:     createTestHDR(rleHeader, 0x8000, 1, rleScanline(1, 0, 0, 0, 128)),
			want:     ErrMissingResolution,
			scanline: -1,
		},
		{
			name:     "large image with little data",
			data:     createTestHDR(rleHeader, 0x7fff, 0x7fff, rleScanline(1, 0, 0, 0, 128)),
			want:     ErrTruncated,
			scanline: 0,
		},
		{
			name:     "resolution past header window",
			data:     paddedHDR(19),
			want:     ErrMissingResolution,
			scanline: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeHDR(tt.data)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FormatError, got %T", err)
			}
			if fe.Scanline != tt.scanline {
				t.Errorf("expected scanline %d, got %d", tt.scanline, fe.Scanline)
			}
		})
	}
}
