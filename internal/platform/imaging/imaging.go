package imaging

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
)

const (
	PosterSize = 300
	AvatarSize = 512
)

var palette = []color.NRGBA{
	{R: 0x1E, G: 0x88, B: 0xE5, A: 0xFF},
	{R: 0x43, G: 0xA0, B: 0x47, A: 0xFF},
	{R: 0xF4, G: 0x51, B: 0x1E, A: 0xFF},
	{R: 0x8E, G: 0x24, B: 0xAA, A: 0xFF},
	{R: 0x00, G: 0x89, B: 0x7B, A: 0xFF},
	{R: 0xFB, G: 0x8C, B: 0x00, A: 0xFF},
	{R: 0x39, G: 0x49, B: 0xAB, A: 0xFF},
	{R: 0xD8, G: 0x1B, B: 0x60, A: 0xFF},
}

// Renderer draws initials avatars. A nil font face falls back to gg's built-in face.
type Renderer struct {
	face font.Face
}

func NewRenderer(fontPath string) (*Renderer, error) {
	fontPath = strings.TrimSpace(fontPath)
	if fontPath == "" {
		return &Renderer{}, nil
	}
	face, err := loadFontFace(fontPath, 206)
	if err != nil {
		return nil, err
	}
	return &Renderer{face: face}, nil
}

// Initials renders a circular PNG with up to two initials of name on a
// background color derived from seed.
func (r *Renderer) Initials(name, seed string) (*bytes.Buffer, error) {
	const size = AvatarSize
	dc := gg.NewContext(size, size)

	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	dc.SetColor(pickColor(seed))
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	if r != nil && r.face != nil {
		dc.SetFontFace(r.face)
	}
	dc.SetColor(color.White)
	dc.DrawStringAnchored(ComputeInitials(name), float64(size)/2, float64(size)/2, 0.5, 0.35)

	buf := &bytes.Buffer{}
	if err := dc.EncodePNG(buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

// Thumbnail center-crops raw to a square and scales it to size x size.
func Thumbnail(raw []byte, size int) (*bytes.Buffer, error) {
	dst, err := cropScale(raw, size)
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	dc := gg.NewContextForRGBA(dst)
	if err := dc.EncodePNG(buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf, nil
}

// Circle is Thumbnail clipped to a circle.
func Circle(raw []byte, size int) (*bytes.Buffer, error) {
	dst, err := cropScale(raw, size)
	if err != nil {
		return nil, err
	}
	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	buf := &bytes.Buffer{}
	if err := dc.EncodePNG(buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf, nil
}

func cropScale(raw []byte, size int) (*image.RGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid size %d", size)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	side := w
	if h < w {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)
	return dst, nil
}

// ComputeInitials takes the first letter of the first two words, or "?".
func ComputeInitials(name string) string {
	out := ""
	for _, part := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(part)
		if r == utf8.RuneError {
			continue
		}
		out += string(unicode.ToUpper(r))
		if utf8.RuneCountInString(out) == 2 {
			break
		}
	}
	if out == "" {
		return "?"
	}
	return out
}

func pickColor(seed string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	return palette[int(h.Sum32()%uint32(len(palette)))]
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
