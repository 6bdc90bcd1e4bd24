package frame

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"
	"time"

	"framediff/bitmap"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type PixelFormat int

const (
	RGB24 PixelFormat = iota
	BGR24
	ARGB32
	BGRA32
	RGBA32
)

var formatNames = map[PixelFormat]string{
	RGB24:  "rgb24",
	BGR24:  "bgr24",
	ARGB32: "argb32",
	BGRA32: "bgra32",
	RGBA32: "rgba32",
}

func (f PixelFormat) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("PixelFormat(%d)", int(f))
}

func ParsePixelFormat(s string) (PixelFormat, error) {
	for f, name := range formatNames {
		if strings.EqualFold(s, name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unsupported pixel format %q", s)
}

// Layout returns the byte layout buffers of this format are written in.
func (f PixelFormat) Layout() bitmap.Layout {
	switch f {
	case BGR24:
		return bitmap.BGR24
	case ARGB32:
		return bitmap.ARGB32
	case BGRA32:
		return bitmap.BGRA32
	case RGBA32:
		return bitmap.RGBA32
	default:
		return bitmap.RGB24
	}
}

func (f PixelFormat) BytesPerPixel() int { return f.Layout().Size() }

// Frame is one decoded picture as a tightly packed buffer.
type Frame struct {
	Data   []byte
	Width  int
	Height int
	Format PixelFormat
	// Index is the position of the frame in its source, starting at 0.
	Index int
	// Delay is how long the frame is displayed, if the source knows.
	Delay time.Duration
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	c := *f
	c.Data = bytes.Clone(f.Data)
	return &c
}

// Bitmap views the frame's buffer through the layout of its format.
func (f *Frame) Bitmap() (*bitmap.Bitmap, error) {
	return bitmap.FromBytes(f.Data, f.Width, f.Height, f.Format.Layout())
}

// Rate is a frame rate expressed as Num/Den frames per second.
type Rate struct {
	Num int
	Den int
}

func NewRate(num, den int) Rate {
	if den == 0 {
		return Rate{Num: num, Den: 1}
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs(num), den)
	if g > 1 {
		num, den = num/g, den/g
	}
	return Rate{Num: num, Den: den}
}

func (r Rate) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

func (r Rate) String() string { return fmt.Sprintf("%d/%d", r.Num, r.Den) }

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// Source produces decoded frames. Next returns io.EOF after the last
// frame.
type Source interface {
	Next() (*Frame, error)
	Rate() Rate
	Close() error
}

var ErrUnsupported = errors.New("unsupported input")

// Open decodes the file at path and returns its frames scaled by s.
// Animated GIFs yield one frame per image; PPM and any still image format
// registered with the image package yield a single frame.
func Open(path string, s *Scaler) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read input %q: %w", path, err)
	}
	if s == nil {
		s = &Scaler{}
	}

	switch {
	case bytes.HasPrefix(data, []byte("GIF8")):
		src, err := newGIFSource(bytes.NewReader(data), s)
		if err != nil {
			return nil, fmt.Errorf("could not decode GIF %q: %w", path, err)
		}
		return src, nil
	case bytes.HasPrefix(data, []byte("P6")):
		src, err := newPPMSource(bytes.NewReader(data), s)
		if err != nil {
			return nil, fmt.Errorf("could not decode PPM %q: %w", path, err)
		}
		return src, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %q", ErrUnsupported, path)
		}
		return nil, fmt.Errorf("could not decode image %q: %w", path, err)
	}
	return &stillSource{img: img, scaler: s}, nil
}

type stillSource struct {
	img    image.Image
	scaler *Scaler
	done   bool
}

func (s *stillSource) Next() (*Frame, error) {
	if s.done {
		return nil, io.EOF
	}
	s.done = true
	return s.scaler.Scale(s.img)
}

func (s *stillSource) Rate() Rate { return Rate{Num: 1, Den: 1} }

func (s *stillSource) Close() error {
	s.img = nil
	return nil
}
