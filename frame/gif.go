package frame

import (
	"image"
	"image/gif"
	"io"
	"time"

	"framediff/bitmap"
	"framediff/ppm"

	"golang.org/x/image/draw"
)

// defaultGIFDelay is used when a GIF does not specify a frame delay,
// which most players render at about 10 frames per second.
const defaultGIFDelay = 10

type gifSource struct {
	g      *gif.GIF
	canvas *image.RGBA
	saved  *image.RGBA
	scaler *Scaler
	pos    int
}

func newGIFSource(r io.Reader, s *Scaler) (*gifSource, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() && len(g.Image) > 0 {
		bounds = g.Image[0].Bounds()
	}
	return &gifSource{
		g:      g,
		canvas: image.NewRGBA(bounds),
		scaler: s,
	}, nil
}

// Rate derives the frame rate from the first frame's delay, in
// hundredths of a second.
func (s *gifSource) Rate() Rate {
	delay := defaultGIFDelay
	if len(s.g.Delay) > 0 && s.g.Delay[0] > 0 {
		delay = s.g.Delay[0]
	}
	return NewRate(100, delay)
}

func (s *gifSource) Next() (*Frame, error) {
	if s.pos >= len(s.g.Image) {
		return nil, io.EOF
	}
	i := s.pos
	s.pos++

	img := s.g.Image[i]
	disposal := byte(0)
	if i < len(s.g.Disposal) {
		disposal = s.g.Disposal[i]
	}
	if disposal == gif.DisposalPrevious {
		if s.saved == nil {
			s.saved = image.NewRGBA(s.canvas.Rect)
		}
		copy(s.saved.Pix, s.canvas.Pix)
	}

	draw.Draw(s.canvas, img.Bounds(), img, img.Bounds().Min, draw.Over)
	f, err := s.scaler.Scale(s.canvas)
	if err != nil {
		return nil, err
	}
	f.Index = i
	if i < len(s.g.Delay) {
		delay := s.g.Delay[i]
		if delay <= 0 {
			delay = defaultGIFDelay
		}
		f.Delay = time.Duration(delay) * 10 * time.Millisecond
	}

	switch disposal {
	case gif.DisposalBackground:
		draw.Draw(s.canvas, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	case gif.DisposalPrevious:
		copy(s.canvas.Pix, s.saved.Pix)
	}
	return f, nil
}

func (s *gifSource) Close() error {
	s.g = &gif.GIF{}
	return nil
}

type ppmSource struct {
	stillSource
}

func newPPMSource(r io.Reader, s *Scaler) (*ppmSource, error) {
	width, height, data, err := ppm.Decode(r)
	if err != nil {
		return nil, err
	}
	return &ppmSource{stillSource{
		img:    bitmap.New(data, width, height, bitmap.RGB24).Image(),
		scaler: s,
	}}, nil
}
