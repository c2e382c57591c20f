// hdrtool inspects Radiance HDR panoramas and exports previews and cube
// faces without a GPU.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/gl-playground/internal/engine/debug"
	"github.com/Faultbox/gl-playground/internal/engine/ibl"
	"github.com/Faultbox/gl-playground/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "preview":
		cmdPreview(args)
	case "faces":
		cmdFaces(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`hdrtool - Radiance HDR panorama utility

Usage:
  hdrtool <command> [options]

Commands:
  info <file.hdr>                        Show image information
  preview [-exposure N] <file.hdr> <out> Write the panorama as .png or .webp
  faces [-size N] [-format F] <file.hdr> [output]
                                         Project six cube faces (png or webp)

Examples:
  hdrtool info sky.hdr
  hdrtool preview -exposure 1.5 sky.hdr sky.webp
  hdrtool faces -size 256 sky.hdr ./faces`)
}

func load(path string) *formats.HDRImage {
	img, err := formats.LoadHDR(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return img
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: hdrtool info <file.hdr>")
		os.Exit(1)
	}

	img := load(args[0])

	var sum [3]uint64
	for i := 0; i < len(img.Pixels); i += 4 {
		sum[0] += uint64(img.Pixels[i])
		sum[1] += uint64(img.Pixels[i+1])
		sum[2] += uint64(img.Pixels[i+2])
	}
	n := uint64(img.Width * img.Height)
	if n == 0 {
		n = 1
	}

	fmt.Printf("File:     %s\n", args[0])
	fmt.Printf("Size:     %d x %d\n", img.Width, img.Height)
	fmt.Printf("Aspect:   %.2f\n", float64(img.Width)/float64(max(img.Height, 1)))
	fmt.Printf("Exposure: %g\n", img.Exposure)
	fmt.Printf("Mean RGB: %d %d %d\n", sum[0]/n, sum[1]/n, sum[2]/n)
}

func cmdPreview(args []string) {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	exposure := fs.Float64("exposure", 1, "Scale applied to every channel")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: hdrtool preview [-exposure N] <file.hdr> <out.png|out.webp>")
		os.Exit(1)
	}

	img := load(fs.Arg(0))
	out := fs.Arg(1)
	if err := debug.WriteImage(out, ibl.Panorama(img, float32(*exposure))); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%dx%d)\n", out, img.Width, img.Height)
}

func cmdFaces(args []string) {
	fs := flag.NewFlagSet("faces", flag.ExitOnError)
	size := fs.Int("size", 512, "Face size in pixels")
	format := fs.String("format", "webp", "Output format: png or webp")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: hdrtool faces [-size N] [-format png|webp] <file.hdr> [output_dir]")
		os.Exit(1)
	}
	if *size <= 0 {
		fmt.Fprintf(os.Stderr, "Invalid size: %d\n", *size)
		os.Exit(1)
	}

	var f debug.Format
	switch strings.ToLower(*format) {
	case "png":
		f = debug.FormatPNG
	case "webp":
		f = debug.FormatWebP
	default:
		fmt.Fprintf(os.Stderr, "Unknown format: %s\n", *format)
		os.Exit(1)
	}

	src := fs.Arg(0)
	outputDir := "."
	if fs.NArg() > 1 {
		outputDir = fs.Arg(1)
	}

	img := load(src)
	prefix := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	paths, err := debug.ExportFaces(outputDir, prefix, ibl.ProjectCube(img, *size), f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, p := range paths {
		fmt.Println(p)
	}
}
