package bitmap

import (
	"errors"
	"fmt"
	"iter"
	"unsafe"
)

var (
	// ErrInvalidBuffer is wrapped by every FromBytes failure.
	ErrInvalidBuffer     = errors.New("invalid pixel buffer")
	ErrBufferTooSmall    = fmt.Errorf("%w: buffer too small", ErrInvalidBuffer)
	ErrMisaligned        = fmt.Errorf("%w: length not a multiple of the pixel size", ErrInvalidBuffer)
	ErrInvalidDimensions = fmt.Errorf("%w: negative dimensions", ErrInvalidBuffer)
)

// Bitmap is a row-major, unpadded grid of pixel units over a borrowed
// byte buffer. It never copies or resizes the buffer.
//
// A Bitmap is an exclusive view: while it is in use nothing else may
// write to the buffer, and the buffer must not shrink. Bitmaps are not
// safe for concurrent use.
type Bitmap struct {
	data          []byte
	width, height int
	layout        Layout
}

// New wraps data, which the caller guarantees holds exactly width*height
// pixel units of layout. Nothing is validated; a short buffer makes
// Pixel panic on access.
func New(data []byte, width, height int, layout Layout) *Bitmap {
	return &Bitmap{data: data, width: width, height: height, layout: layout}
}

// FromBytes views data as a width×height bitmap. It fails when data is
// shorter than width*height pixel units or when len(data) is not a whole
// number of pixel units. Errors wrap ErrInvalidBuffer.
func FromBytes(data []byte, width, height int, layout Layout) (*Bitmap, error) {
	size := layout.Size()
	if size == 0 {
		return nil, fmt.Errorf("%w: zero layout", ErrInvalidLayout)
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	// Compared by division so huge dimensions cannot wrap the product.
	if width > 0 && height > len(data)/size/width {
		return nil, fmt.Errorf("%w: %dx%d pixels of %d bytes, have %d", ErrBufferTooSmall, width, height, size, len(data))
	}
	n := width * height * size
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes, pixel is %d", ErrMisaligned, len(data), size)
	}
	return &Bitmap{data: data[:n:n], width: width, height: height, layout: layout}, nil
}

func (b *Bitmap) Width() int     { return b.width }
func (b *Bitmap) Height() int    { return b.height }
func (b *Bitmap) Layout() Layout { return b.layout }

// Bytes returns the viewed region of the underlying buffer.
func (b *Bitmap) Bytes() []byte { return b.data }

func (b *Bitmap) String() string {
	return fmt.Sprintf("Bitmap(%dx%d %s)", b.width, b.height, b.layout)
}

// Pixel returns the pixel at (x, y). It panics if the coordinates are
// outside the bitmap; wrapping into the next row would silently touch
// the wrong pixel.
func (b *Bitmap) Pixel(x, y int) Pixel {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		panic(fmt.Sprintf("bitmap: pixel (%d,%d) out of bounds %dx%d", x, y, b.width, b.height))
	}
	return b.at(x + y*b.width)
}

func (b *Bitmap) at(i int) Pixel {
	size := b.layout.size
	off := i * size
	return Pixel{p: b.data[off : off+size : off+size], layout: b.layout}
}

func (b *Bitmap) Len() int { return b.width * b.height }

// All yields every pixel in row-major order.
func (b *Bitmap) All() iter.Seq[Pixel] {
	return func(yield func(Pixel) bool) {
		for i := range b.Len() {
			if !yield(b.at(i)) {
				return
			}
		}
	}
}

func (b *Bitmap) ForEach(f func(Pixel)) {
	for px := range b.All() {
		f(px)
	}
}

// CloneBy walks b and dst in lockstep and calls f(dstPixel, srcPixel)
// for every position, with b as the source. f is expected to write into
// dst only.
//
// It returns false and does nothing when the dimensions differ or when
// the two bitmaps share bytes. The layouts may differ.
func (b *Bitmap) CloneBy(dst *Bitmap, f func(dst, src Pixel)) bool {
	if b.width != dst.width || b.height != dst.height {
		return false
	}
	if overlaps(b.data, dst.data) {
		return false
	}
	for i := range b.Len() {
		f(dst.at(i), b.at(i))
	}
	return true
}

func overlaps(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	a0 := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	b0 := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	return a0 < b0+uintptr(len(b)) && b0 < a0+uintptr(len(a))
}
