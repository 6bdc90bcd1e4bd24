// Package bitmap reinterprets raw byte buffers as grids of pixels without
// copying them. The physical byte order of a pixel is described by a
// Layout, so the same code handles RGB24, BGRA32 and any other ordering
// decoders hand out.
package bitmap

import (
	"errors"
	"fmt"
)

type Channel int

const (
	Alpha Channel = iota
	Red
	Green
	Blue
)

func (c Channel) String() string {
	switch c {
	case Alpha:
		return "alpha"
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

var ErrInvalidLayout = errors.New("invalid channel layout")

// Layout maps the four logical channels to byte offsets within a pixel
// unit. The zero value is not usable; build one with NewARGB or NewRGB.
type Layout struct {
	size     int
	offsets  [4]int // indexed by Channel
	hasAlpha bool
}

var (
	RGB24  = MustRGB(0, 1, 2)
	BGR24  = MustRGB(2, 1, 0)
	ARGB32 = MustARGB(0, 1, 2, 3)
	BGRA32 = MustARGB(3, 2, 1, 0)
	RGBA32 = MustARGB(3, 0, 1, 2)
)

// NewARGB returns a 4-byte layout with an independent byte per channel.
func NewARGB(a, r, g, b int) (Layout, error) {
	l := Layout{size: 4, offsets: [4]int{a, r, g, b}, hasAlpha: true}
	if err := l.validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// NewRGB returns a 3-byte layout. There is no alpha byte: the alpha
// channel aliases the red byte and packed values always report it opaque.
func NewRGB(r, g, b int) (Layout, error) {
	l := Layout{size: 3, offsets: [4]int{r, r, g, b}}
	if err := l.validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

func MustARGB(a, r, g, b int) Layout {
	l, err := NewARGB(a, r, g, b)
	if err != nil {
		panic(err)
	}
	return l
}

func MustRGB(r, g, b int) Layout {
	l, err := NewRGB(r, g, b)
	if err != nil {
		panic(err)
	}
	return l
}

func (l Layout) validate() error {
	for c, off := range l.offsets {
		if off < 0 || off >= l.size {
			return fmt.Errorf("%w: %s offset %d outside pixel of %d bytes", ErrInvalidLayout, Channel(c), off, l.size)
		}
	}
	return nil
}

// Size is the number of bytes in one pixel unit.
func (l Layout) Size() int { return l.size }

func (l Layout) HasAlpha() bool { return l.hasAlpha }

func (l Layout) Offset(c Channel) int { return l.offsets[c] }

func (l Layout) String() string {
	if l.hasAlpha {
		return fmt.Sprintf("argb[a%d r%d g%d b%d]", l.offsets[Alpha], l.offsets[Red], l.offsets[Green], l.offsets[Blue])
	}
	return fmt.Sprintf("rgb[r%d g%d b%d]", l.offsets[Red], l.offsets[Green], l.offsets[Blue])
}

func (l Layout) packed(p []byte) uint32 {
	a := uint8(0xFF)
	if l.hasAlpha {
		a = p[l.offsets[Alpha]]
	}
	return FromChannels([4]uint8{a, p[l.offsets[Red]], p[l.offsets[Green]], p[l.offsets[Blue]]})
}

func (l Layout) setPacked(p []byte, argb uint32) {
	c := ToChannels(argb)
	if l.hasAlpha {
		p[l.offsets[Alpha]] = c[0]
	}
	p[l.offsets[Red]] = c[1]
	p[l.offsets[Green]] = c[2]
	p[l.offsets[Blue]] = c[3]
}
