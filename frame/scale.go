package frame

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/draw"
)

// Scaler turns decoded images into packed frame buffers, optionally
// resizing them. The zero value keeps the source size and writes RGB24.
type Scaler struct {
	// Width and Height bound the output size; 0 keeps the source
	// dimension.
	Width  int
	Height int
	// Crop cuts the source to the destination aspect ratio. Without it
	// the picture is fitted inside the box, either shrinking the box or,
	// when Fill is set, padding it with Fill.
	Crop   bool
	Fill   color.Color
	Filter draw.Interpolator
	Format PixelFormat
}

var filters = map[string]draw.Interpolator{
	"nearest":        draw.NearestNeighbor,
	"approxbilinear": draw.ApproxBiLinear,
	"bilinear":       draw.BiLinear,
	"catmullrom":     draw.CatmullRom,
}

func ParseFilter(name string) (draw.Interpolator, error) {
	if f, ok := filters[strings.ToLower(name)]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("unknown scaling filter %q", name)
}

// Scale draws img into a new buffer in s.Format.
func (s *Scaler) Scale(img image.Image) (*Frame, error) {
	srcBounds := img.Bounds()
	if srcBounds.Empty() {
		return nil, fmt.Errorf("empty source image %v", srcBounds)
	}

	destSize, destBounds, srcBounds, fill := s.fit(srcBounds)

	f := &Frame{
		Data:   make([]byte, destSize.Dx()*destSize.Dy()*s.Format.BytesPerPixel()),
		Width:  destSize.Dx(),
		Height: destSize.Dy(),
		Format: s.Format,
	}
	b, err := f.Bitmap()
	if err != nil {
		return nil, err
	}
	dest := b.Image()

	if fill {
		draw.Draw(dest, destSize, image.NewUniform(s.Fill), image.Point{}, draw.Src)
	}
	if destBounds.Size() == srcBounds.Size() {
		draw.Draw(dest, destBounds, img, srcBounds.Min, draw.Src)
		return f, nil
	}

	filter := s.Filter
	if filter == nil {
		filter = draw.BiLinear
	}
	filter.Scale(dest, destBounds, img, srcBounds, draw.Src, nil)
	return f, nil
}

// fit computes the output size, the region of it the picture lands in and
// the region of the source that is used.
func (s *Scaler) fit(src image.Rectangle) (destSize, destBounds, srcBounds image.Rectangle, fill bool) {
	srcBounds = src
	srcWidth := float64(src.Dx())
	srcHeight := float64(src.Dy())

	destWidth := float64(s.Width)
	if destWidth == 0 {
		destWidth = srcWidth
	}
	destHeight := float64(s.Height)
	if destHeight == 0 {
		destHeight = srcHeight
	}

	destSize = image.Rect(0, 0, int(destWidth), int(destHeight))
	destBounds = destSize
	if (srcWidth == destWidth) && (srcHeight == destHeight) {
		return destSize, destBounds, srcBounds, false
	}

	srcAR := srcWidth / srcHeight
	destAR := destWidth / destHeight
	if s.Crop {
		if srcAR < destAR {
			dh := int(math.Round((srcHeight - srcWidth/destAR) / 2))
			srcBounds.Min.Y += dh
			srcBounds.Max.Y -= dh
		} else if srcAR > destAR {
			dw := int(math.Round((srcWidth - srcHeight*destAR) / 2))
			srcBounds.Min.X += dw
			srcBounds.Max.X -= dw
		}
		return destSize, destBounds, srcBounds, false
	}

	if srcAR < destAR {
		dw := destHeight * srcAR
		if s.Fill == nil {
			destSize.Max.X = max(1, int(math.Round(dw)))
			destBounds.Max.X = destSize.Max.X
		} else if fill = destWidth > dw; fill {
			idw := int(math.Round((destWidth - dw) / 2))
			destBounds.Min.X += idw
			destBounds.Max.X -= idw
		}
	} else if srcAR > destAR {
		dh := destWidth / srcAR
		if s.Fill == nil {
			destSize.Max.Y = max(1, int(math.Round(dh)))
			destBounds.Max.Y = destSize.Max.Y
		} else if fill = destHeight > dh; fill {
			idh := int(math.Round((destHeight - dh) / 2))
			destBounds.Min.Y += idh
			destBounds.Max.Y -= idh
		}
	}
	return destSize, destBounds, srcBounds, fill
}

// ParseHexColor reads #RGB, #RGBA, #RRGGBB or #RRGGBBAA.
func ParseHexColor(s string) (color.Color, error) {
	var c color.NRGBA
	switch len(s) {
	case 4:
		if _, err := fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B); err != nil {
			return nil, fmt.Errorf("could not read color: %w", err)
		}
		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A = 0xFF
	case 5:
		if _, err := fmt.Sscanf(s, "#%1x%1x%1x%1x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return nil, fmt.Errorf("could not read color: %w", err)
		}
		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A |= c.A << 4
	case 7:
		if _, err := fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B); err != nil {
			return nil, fmt.Errorf("could not read color: %w", err)
		}
		c.A = 0xFF
	case 9:
		if _, err := fmt.Sscanf(s, "#%2x%2x%2x%2x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return nil, fmt.Errorf("could not read color: %w", err)
		}
	default:
		return nil, fmt.Errorf("invalid color %q, should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA", s)
	}
	return c, nil
}
