package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"

	_ "golang.org/x/image/webp"
)

var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

var ErrUnsupportedImage = errors.New("upload a valid image. The file you uploaded was either not an image or a corrupted image")

// ImageInfo describes a decoded image header.
type ImageInfo struct {
	Format string
	Width  int
	Height int
}

// InspectImage checks that filename has an allowed extension and that data
// decodes as an image. It returns a reader that replays the consumed bytes.
func InspectImage(filename string, data io.Reader) (ImageInfo, io.Reader, error) {
	ext := strings.ToLower(path.Ext(filename))

	allowed := false
	for _, e := range ImageExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return ImageInfo{}, nil, fmt.Errorf("%w: extension %q is not allowed", ErrUnsupportedImage, ext)
	}

	var head bytes.Buffer
	cfg, format, err := image.DecodeConfig(io.TeeReader(data, &head))
	if err != nil {
		return ImageInfo{}, nil, ErrUnsupportedImage
	}

	info := ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}
	return info, io.MultiReader(&head, data), nil
}
