package diff

import (
	"bufio"
	"errors"
	"fmt"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"framediff/bitmap"
	"framediff/ppm"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var outputFormats = []string{"ppm", "ppm.zst", "png", "bmp", "tiff"}

func sequenceDir(outDir string, index uint32) string {
	return filepath.Join(outDir, fmt.Sprintf("video_%04d", index))
}

func framePath(dir string, index int, format string) string {
	return filepath.Join(dir, fmt.Sprintf("frame%d.%s", index, format))
}

// exists reports whether something is already stored at path.
func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("cannot stat destination file %q: %w", path, err)
}

// save encodes b into path through a temporary file in the same folder,
// so an interrupted run never leaves a truncated frame behind.
func save(b *bitmap.Bitmap, format, path string) (err error) {
	dir, name := filepath.Split(path)
	outFile, err := os.CreateTemp(dir, name+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", name, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", name, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", name, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), path); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", name, defErr)
			}
		}
		if err != nil {
			_ = os.Remove(outFile.Name())
		}
	}()

	w := bufio.NewWriter(outFile)
	if err = encode(w, b, format); err != nil {
		return fmt.Errorf("could not encode %s destination %q: %w", format, name, err)
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("could not write destination %q: %w", name, err)
	}

	canRename = true
	return nil
}

func encode(w io.Writer, b *bitmap.Bitmap, format string) error {
	switch format {
	case "ppm":
		return ppm.Encode(w, b)
	case "ppm.zst":
		zw, err := zstd.NewWriter(w,
			zstd.WithEncoderConcurrency(1),
			zstd.WithEncoderLevel(zstd.SpeedDefault),
		)
		if err != nil {
			return err
		}
		if err := ppm.Encode(zw, b); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestSpeed,
			BufferPool:       pngPool,
		}
		return enc.Encode(w, b.Image())
	case "bmp":
		return bmp.Encode(w, b.Image())
	case "tiff":
		return tiff.Encode(w, b.Image(), nil)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
