package imgio

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"chanrot/rotation"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// LosslessFormats lists the formats Encode can write.
func LosslessFormats() []string {
	return []string{"png", "bmp", "tiff"}
}

// Encode writes g to w in the given format.
func Encode(w io.Writer, g *rotation.Grid, format string) error {
	img := g.Image()
	switch format {
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		if err := enc.Encode(w, img); err != nil {
			return fmt.Errorf("could not encode PNG: %w", err)
		}
	case "bmp":
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("could not encode BMP: %w", err)
		}
	case "tiff":
		if err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return fmt.Errorf("could not encode TIFF: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
	return nil
}

// Save writes g to path through a temporary file in the same folder, which
// is renamed into place once fully written.
func Save(g *rotation.Grid, format, path string, overwrite bool) (err error) {
	if !overwrite {
		if err := checkDest(path); err != nil {
			return err
		}
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	outFile, err := os.CreateTemp(dir, name)
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
			if rmErr := os.Remove(outFile.Name()); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				slog.Error("could not remove temporary file", "name", outFile.Name(), "error", rmErr)
			}
		}
	}()

	if err = Encode(outFile, g, format); err != nil {
		return fmt.Errorf("%q: %w", path, err)
	}

	canRename = true
	return nil
}

func checkDest(dest string) error {
	info, err := os.Stat(dest)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot stat destination file %q: %w", dest, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrDestinationExists, info.Name())
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
