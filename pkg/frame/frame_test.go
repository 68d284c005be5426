package frame

import "testing"

func TestSynthetic(t *testing.T) {
	f := Synthetic()

	if len(f.Pixels) != Size {
		t.Fatalf("len(Pixels) = %d, want %d", len(f.Pixels), Size)
	}
	if f.Pixels[0] != 0 || f.Pixels[255] != 255 || f.Pixels[256] != 0 || f.Pixels[1023] != 255 {
		t.Errorf("ramp pattern broken: %d %d %d %d", f.Pixels[0], f.Pixels[255], f.Pixels[256], f.Pixels[1023])
	}
}

func TestFrame_Sum(t *testing.T) {
	// four repetitions of 0..255
	want := uint32(4 * 255 * 256 / 2)
	if got := Synthetic().Sum(); got != want {
		t.Errorf("Sum() = %d, want %d", got, want)
	}
}

func TestFrame_Image(t *testing.T) {
	f := Synthetic()
	img := f.Image()

	if img.Bounds().Dx() != Width || img.Bounds().Dy() != Height {
		t.Fatalf("bounds = %v, want %dx%d", img.Bounds(), Width, Height)
	}
	if got := img.GrayAt(5, 1).Y; got != f.Pixels[Width+5] {
		t.Errorf("GrayAt(5,1) = %d, want %d", got, f.Pixels[Width+5])
	}
}

func TestFrame_Resize(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"same size", 32},
		{"upscale", 48},
		{"downscale", 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Synthetic().Resize(tt.size)
			if got.Width != tt.size || got.Height != tt.size {
				t.Errorf("dims = %dx%d, want %dx%d", got.Width, got.Height, tt.size, tt.size)
			}
			if len(got.Pixels) != tt.size*tt.size {
				t.Errorf("len(Pixels) = %d, want %d", len(got.Pixels), tt.size*tt.size)
			}
		})
	}
}

func TestFrame_ResizeSameSizeCopies(t *testing.T) {
	f := Synthetic()
	g := f.Resize(Width)
	g.Pixels[0] = 42

	if f.Pixels[0] != 0 {
		t.Error("Resize() with equal size shares pixel memory")
	}
}

func TestFrame_Normalize(t *testing.T) {
	for i, v := range Synthetic().Normalize() {
		if v < 0 || v > 1 {
			t.Fatalf("Normalize()[%d] = %v, want within [0,1]", i, v)
		}
	}
}
