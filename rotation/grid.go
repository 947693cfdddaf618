package rotation

import (
	"image"

	"golang.org/x/image/draw"
)

// Grid is an RGB image whose pixels are kept flattened in row-major order.
type Grid struct {
	Width  int
	Height int
	// Pix holds the pixels; the pixel at (x, y) is Pix[y*Width+x].
	Pix []Pixel
}

func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{
		Width:  width,
		Height: height,
		Pix:    make([]Pixel, width*height),
	}
}

// GridFromImage converts img to a 3-channel grid. Colors are read
// non-premultiplied and alpha is discarded.
func GridFromImage(img image.Image) *Grid {
	b := img.Bounds()
	g := NewGrid(b.Dx(), b.Dy())

	src, ok := img.(*image.NRGBA)
	if !ok {
		src = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(src, src.Bounds(), img, b.Min, draw.Src)
	}

	sb := src.Bounds()
	for y := range g.Height {
		row := src.Pix[src.PixOffset(sb.Min.X, sb.Min.Y+y):]
		for x := range g.Width {
			g.Pix[y*g.Width+x] = Pixel{row[x*4], row[x*4+1], row[x*4+2]}
		}
	}
	return g
}

// Image returns an opaque copy of g.
func (g *Grid) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for i, px := range g.Pix {
		copy(img.Pix[i*4:], px[:])
		img.Pix[i*4+3] = 0xFF
	}
	return img
}

func (g *Grid) At(x, y int) Pixel {
	return g.Pix[y*g.Width+x]
}

func (g *Grid) Set(x, y int, px Pixel) {
	g.Pix[y*g.Width+x] = px
}

func (g *Grid) Len() int {
	return len(g.Pix)
}

func (g *Grid) Clone() *Grid {
	c := &Grid{
		Width:  g.Width,
		Height: g.Height,
		Pix:    make([]Pixel, len(g.Pix)),
	}
	copy(c.Pix, g.Pix)
	return c
}

// SameSize reports whether g and o have identical dimensions.
func (g *Grid) SameSize(o *Grid) bool {
	return g.Width == o.Width && g.Height == o.Height
}
