package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode sample: %v", err)
	}
	return buf.Bytes()
}

func decodeSize(t *testing.T, buf *bytes.Buffer) (int, int) {
	t.Helper()
	cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return cfg.Width, cfg.Height
}

func TestThumbnailCropsToSquare(t *testing.T) {
	out, err := Thumbnail(samplePNG(t, 640, 360), PosterSize)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if w, h := decodeSize(t, out); w != PosterSize || h != PosterSize {
		t.Fatalf("size: want=%dx%d got=%dx%d", PosterSize, PosterSize, w, h)
	}
}

func TestCircleAndInitials(t *testing.T) {
	out, err := Circle(samplePNG(t, 100, 200), 64)
	if err != nil {
		t.Fatalf("Circle: %v", err)
	}
	if w, h := decodeSize(t, out); w != 64 || h != 64 {
		t.Fatalf("circle size: got=%dx%d", w, h)
	}

	r, err := NewRenderer("")
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	av, err := r.Initials("ada lovelace", "seed")
	if err != nil {
		t.Fatalf("Initials: %v", err)
	}
	if w, _ := decodeSize(t, av); w != AvatarSize {
		t.Fatalf("avatar size: got=%d", w)
	}
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	if _, err := Thumbnail([]byte("not an image"), 10); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestComputeInitials(t *testing.T) {
	cases := map[string]string{
		"ada lovelace":         "AL",
		"alan mathison turing": "AM",
		"":                     "?",
		"émile":                "É",
	}
	for in, want := range cases {
		if got := ComputeInitials(in); got != want {
			t.Fatalf("ComputeInitials(%q): want=%q got=%q", in, want, got)
		}
	}
}
