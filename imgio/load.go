package imgio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"

	"chanrot/rotation"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/riff"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrLossyFormat       = errors.New("lossy or palette based image format")
	ErrDestinationExists = errors.New("destination file already exists")
)

var readable = map[string]bool{
	"png":  true,
	"bmp":  true,
	"tiff": true,
	"webp": true,
}

// Decode reads an image from r and converts it to an RGB grid. Only formats
// which keep exact channel values are accepted.
func Decode(r io.Reader) (*rotation.Grid, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("could not read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image: %w", err)
	}

	if !readable[format] || (format == "webp" && !isLosslessWebP(data)) {
		return nil, format, fmt.Errorf("%w: %s", ErrLossyFormat, format)
	}

	return rotation.GridFromImage(img), format, nil
}

// Load decodes the image stored at path.
func Load(path string) (*rotation.Grid, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("could not open image %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close image", "file", path, "error", closeErr)
		}
	}()

	g, format, err := Decode(f)
	if err != nil {
		return nil, format, fmt.Errorf("%q: %w", path, err)
	}
	return g, format, nil
}

// Config returns the dimensions and format of the image at path without
// decoding its pixels.
func Config(path string) (image.Config, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", fmt.Errorf("could not open image %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close image", "file", path, "error", closeErr)
		}
	}()

	conf, format, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, "", fmt.Errorf("could not read image %q: %w", path, err)
	}
	return conf, format, nil
}

var (
	webpType = riff.FourCC{'W', 'E', 'B', 'P'}
	vp8Type  = riff.FourCC{'V', 'P', '8', ' '}
	vp8lType = riff.FourCC{'V', 'P', '8', 'L'}
)

// isLosslessWebP walks the RIFF chunks of a WebP file looking for a VP8L
// bitstream. Files holding a lossy VP8 chunk are rejected.
func isLosslessWebP(data []byte) bool {
	formType, rd, err := riff.NewReader(bytes.NewReader(data))
	if err != nil || formType != webpType {
		return false
	}

	lossless := false
	for {
		id, _, _, err := rd.Next()
		if err != nil {
			return lossless && err == io.EOF
		}
		switch id {
		case vp8Type:
			return false
		case vp8lType:
			lossless = true
		}
	}
}
