package display

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Font sizes in pixels.
const (
	Size11 = 11
	Size12 = 12
	Size14 = 14
	Size20 = 20
)

var (
	facesOnce sync.Once
	faces     map[int]font.Face
	facesErr  error
)

func loadFaces() (map[int]font.Face, error) {
	facesOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			facesErr = fmt.Errorf("parse font: %w", err)
			return
		}
		faces = make(map[int]font.Face)
		for _, size := range []int{Size11, Size12, Size14, Size20} {
			face, err := opentype.NewFace(f, &opentype.FaceOptions{
				Size:    float64(size),
				DPI:     72,
				Hinting: font.HintingFull,
			})
			if err != nil {
				facesErr = fmt.Errorf("load font size %d: %w", size, err)
				return
			}
			faces[size] = face
		}
	})
	return faces, facesErr
}

// Canvas is one 1-bit frame.
type Canvas struct {
	img   *image1bit.VerticalLSB
	faces map[int]font.Face
}

// NewCanvas returns a blank canvas of the given size.
func NewCanvas(w, h int) (*Canvas, error) {
	f, err := loadFaces()
	if err != nil {
		return nil, err
	}
	return &Canvas{img: image1bit.NewVerticalLSB(image.Rect(0, 0, w, h)), faces: f}, nil
}

// Image exposes the frame buffer.
func (c *Canvas) Image() *image1bit.VerticalLSB { return c.img }

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.img.Rect.Dx() }

func (c *Canvas) face(size int) font.Face {
	face, ok := c.faces[size]
	if !ok {
		panic(fmt.Sprintf("display: unsupported font size %d", size))
	}
	return face
}

// TextWidth measures s in the given font size.
func (c *Canvas) TextWidth(s string, size int) int {
	return font.MeasureString(c.face(size), s).Ceil()
}

// Text draws s with its top-left corner at (x, y).
func (c *Canvas) Text(x, y int, s string, size int) {
	face := c.face(size)
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(image1bit.On),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// CenterText draws s horizontally centered at row y.
func (c *Canvas) CenterText(y int, s string, size int) {
	c.Text((c.Width()-c.TextWidth(s, size))/2, y, s, size)
}

// Fill sets every pixel of r to b.
func (c *Canvas) Fill(r image.Rectangle, b image1bit.Bit) {
	r = r.Intersect(c.img.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c.img.SetBit(x, y, b)
		}
	}
}

// Outline draws a one pixel border just inside r and clears its interior.
func (c *Canvas) Outline(r image.Rectangle) {
	c.Fill(r, image1bit.On)
	c.Fill(r.Inset(1), image1bit.Off)
}

// Bitmap draws an icon with its top-left corner at p.
func (c *Canvas) Bitmap(p image.Point, icon Icon) {
	for y, row := range icon {
		for x, px := range row {
			if px != ' ' {
				pt := p.Add(image.Pt(x, y))
				if pt.In(c.img.Rect) {
					c.img.SetBit(pt.X, pt.Y, image1bit.On)
				}
			}
		}
	}
}

// Lit reports whether the pixel at (x, y) is on.
func (c *Canvas) Lit(x, y int) bool {
	return bool(c.img.BitAt(x, y))
}
