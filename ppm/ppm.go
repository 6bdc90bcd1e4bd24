// Package ppm reads and writes binary portable pixmaps (P6, maxval 255).
package ppm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"framediff/bitmap"
)

var (
	ErrFormat = errors.New("ppm: not a binary P6 pixmap")
	ErrMaxVal = errors.New("ppm: only maxval 255 is supported")
)

// WriteHeader writes "P6\n<width> <height>\n255\n".
func WriteHeader(w io.Writer, width, height int) error {
	_, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", width, height)
	return err
}

// Encode writes b as a P6 pixmap. Pixels are emitted as red, green, blue;
// any alpha byte in the bitmap is skipped.
func Encode(w io.Writer, b *bitmap.Bitmap) error {
	if err := WriteHeader(w, b.Width(), b.Height()); err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}

	if b.Layout() == bitmap.RGB24 {
		if err := writeAll(w, b.Bytes()); err != nil {
			return fmt.Errorf("could not write pixels: %w", err)
		}
		return nil
	}

	row := make([]byte, 0, b.Width()*3)
	for y := range b.Height() {
		row = row[:0]
		for x := range b.Width() {
			px := b.Pixel(x, y)
			row = append(row, *px.R(), *px.G(), *px.B())
		}
		if err := writeAll(w, row); err != nil {
			return fmt.Errorf("could not write row %d: %w", y, err)
		}
	}
	return nil
}

func writeAll(w io.Writer, p []byte) error {
	n, err := w.Write(p)
	if err != nil {
		return err
	} else if n != len(p) {
		return fmt.Errorf("wrote only %d/%d bytes", n, len(p))
	}
	return nil
}

// Decode reads a P6 pixmap and returns its pixels as tightly packed
// RGB24.
func Decode(r io.Reader) (width, height int, data []byte, err error) {
	br := bufio.NewReader(r)

	magic := make([]byte, 2)
	if _, err = io.ReadFull(br, magic); err != nil {
		return 0, 0, nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if string(magic) != "P6" {
		return 0, 0, nil, ErrFormat
	}

	var fields [3]int
	for i := range fields {
		if fields[i], err = readHeaderInt(br); err != nil {
			return 0, 0, nil, err
		}
	}
	width, height = fields[0], fields[1]
	if fields[2] != 255 {
		return 0, 0, nil, fmt.Errorf("%w: got %d", ErrMaxVal, fields[2])
	}
	if width <= 0 || height <= 0 {
		return 0, 0, nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrFormat, width, height)
	}

	need := int64(width) * int64(height) * 3
	if need > math.MaxInt {
		return 0, 0, nil, fmt.Errorf("%w: %dx%d is too large", ErrFormat, width, height)
	}
	// The header alone never decides the allocation size.
	data, err = io.ReadAll(io.LimitReader(br, need))
	if err != nil {
		return 0, 0, nil, fmt.Errorf("could not read %dx%d pixels: %w", width, height, err)
	}
	if int64(len(data)) < need {
		return 0, 0, nil, fmt.Errorf("%w: %dx%d pixels need %d bytes, got %d: %w",
			ErrFormat, width, height, need, len(data), io.ErrUnexpectedEOF)
	}
	return width, height, data, nil
}

// readHeaderInt skips whitespace and '#' comments, then parses a decimal
// number and consumes the single whitespace byte that ends it.
func readHeaderInt(br *bufio.Reader) (int, error) {
	var c byte
	var err error
	for {
		if c, err = br.ReadByte(); err != nil {
			return 0, fmt.Errorf("%w: truncated header: %w", ErrFormat, err)
		}
		if c == '#' {
			if _, err = br.ReadString('\n'); err != nil {
				return 0, fmt.Errorf("%w: truncated comment: %w", ErrFormat, err)
			}
			continue
		}
		if !isSpace(c) {
			break
		}
	}

	n, digits := 0, 0
	for ; c >= '0' && c <= '9'; digits++ {
		n = n*10 + int(c-'0')
		if n > 1<<24 {
			return 0, fmt.Errorf("%w: header value too large", ErrFormat)
		}
		if c, err = br.ReadByte(); err != nil {
			return 0, fmt.Errorf("%w: truncated header: %w", ErrFormat, err)
		}
	}
	if digits == 0 || !isSpace(c) {
		return 0, fmt.Errorf("%w: unexpected byte %q in header", ErrFormat, c)
	}
	return n, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
