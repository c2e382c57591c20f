// Package debug writes frame captures and cubemap faces to disk.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"
)

// Format selects the image encoding for written files.
type Format int

const (
	FormatPNG Format = iota
	FormatWebP
)

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	if f == FormatWebP {
		return ".webp"
	}
	return ".png"
}

// FormatFromPath picks the format from a file extension, defaulting to PNG.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".webp") {
		return FormatWebP
	}
	return FormatPNG
}

// Encode writes img in the given format. WebP output is lossless.
func Encode(w io.Writer, img image.Image, f Format) error {
	if f == FormatWebP {
		return nativewebp.Encode(w, img, nil)
	}
	return png.Encode(w, img)
}

// WriteImage encodes img to path, creating parent directories. The
// format follows the extension.
func WriteImage(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := Encode(file, img, FormatFromPath(path)); err != nil {
		file.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return file.Close()
}

// FromPixels converts a bottom-up RGBA readback into a top-down image.
func FromPixels(pixels []byte, width, height int) (*image.NRGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

// ScreenshotCapture writes timestamped captures into a directory.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	format    Format
	now       func() time.Time
}

// NewScreenshotCapture creates a capture handler writing PNG files.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		format:    FormatPNG,
		now:       time.Now,
	}
}

// SetFormat changes the encoding of later captures.
func (sc *ScreenshotCapture) SetFormat(f Format) {
	sc.format = f
}

// CaptureFromPixels saves a bottom-up RGBA readback of width*height*4
// bytes and returns the file written.
func (sc *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	img, err := FromPixels(pixels, width, height)
	if err != nil {
		return "", err
	}
	return sc.CaptureFromImage(img)
}

// CaptureFromImage saves an already top-down image.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	filename := sc.GenerateFilename()
	if err := WriteImage(filename, img); err != nil {
		return "", err
	}
	return filename, nil
}

// GenerateFilename returns the name the next capture would use.
func (sc *ScreenshotCapture) GenerateFilename() string {
	timestamp := sc.now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s%s", sc.prefix, timestamp, sc.format.Ext())
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}
