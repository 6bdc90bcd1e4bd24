package bitmap

import (
	"image"
	"image/color"
)

// Image adapts a Bitmap to image.Image and draw.Image. It shares the
// bitmap's bytes, which hold non-premultiplied channels.
type Image struct {
	b *Bitmap
}

func (b *Bitmap) Image() *Image { return &Image{b: b} }

func (m *Image) ColorModel() color.Model { return color.NRGBAModel }

func (m *Image) Bounds() image.Rectangle { return image.Rect(0, 0, m.b.width, m.b.height) }

func (m *Image) At(x, y int) color.Color {
	return m.NRGBAAt(x, y)
}

// NRGBAAt returns the pixel at (x, y), or transparent black outside the
// bounds. Layouts without alpha are opaque.
func (m *Image) NRGBAAt(x, y int) color.NRGBA {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return color.NRGBA{}
	}
	c := ToChannels(m.b.Pixel(x, y).ARGB())
	return color.NRGBA{R: c[1], G: c[2], B: c[3], A: c[0]}
}

func (m *Image) Set(x, y int, c color.Color) {
	m.SetNRGBA(x, y, color.NRGBAModel.Convert(c).(color.NRGBA))
}

func (m *Image) SetNRGBA(x, y int, c color.NRGBA) {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return
	}
	m.b.Pixel(x, y).SetARGB(FromChannels([4]uint8{c.A, c.R, c.G, c.B}))
}

func (m *Image) Opaque() bool {
	if !m.b.layout.hasAlpha {
		return true
	}
	for px := range m.b.All() {
		if *px.A() != 0xFF {
			return false
		}
	}
	return true
}
