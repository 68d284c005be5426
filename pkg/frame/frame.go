// Package frame models the preprocessed camera frame fed to the classifier.
//
// The firmware captures a 32x32 single-channel frame; until a camera source is
// wired in, Synthetic produces the same deterministic ramp the device emits.
package frame

import (
	"image"

	"github.com/nfnt/resize"
)

const (
	Width  = 32
	Height = 32
	Size   = Width * Height
)

// Frame is a grayscale frame stored row-major.
type Frame struct {
	Pixels []uint8
	Width  int
	Height int
}

// Synthetic returns the 32x32 ramp frame: pixel i has value i & 0xFF.
func Synthetic() Frame {
	px := make([]uint8, Size)
	for i := range px {
		px[i] = uint8(i & 0xFF)
	}
	return Frame{Pixels: px, Width: Width, Height: Height}
}

// Sum adds every pixel value.
func (f Frame) Sum() uint32 {
	var acc uint32
	for _, p := range f.Pixels {
		acc += uint32(p)
	}
	return acc
}

// Image returns the frame as an *image.Gray sharing no memory with f.
func (f Frame) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+f.Width], f.Pixels[y*f.Width:(y+1)*f.Width])
	}
	return img
}

// Resize scales the frame to size x size using Lanczos3 resampling.
// A size equal to the current dimensions returns a copy.
func (f Frame) Resize(size int) Frame {
	if size == f.Width && size == f.Height {
		px := make([]uint8, len(f.Pixels))
		copy(px, f.Pixels)
		return Frame{Pixels: px, Width: f.Width, Height: f.Height}
	}

	scaled := resize.Resize(uint(size), uint(size), f.Image(), resize.Lanczos3)
	bounds := scaled.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	px := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := scaled.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			px[y*w+x] = uint8(r >> 8)
		}
	}
	return Frame{Pixels: px, Width: w, Height: h}
}

// Normalize maps pixels to float32 values in [0, 1].
func (f Frame) Normalize() []float32 {
	out := make([]float32, len(f.Pixels))
	for i, p := range f.Pixels {
		out[i] = float32(p) / 255.0
	}
	return out
}
