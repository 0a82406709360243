// Package texture provides the file-backed 2D texture asset type.
package texture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"

	// Decoders for the formats the loader accepts.
	_ "image/jpeg"
	_ "image/png"

	"github.com/vk/assetgridgo/internal/assets"
)

// Texture is a decoded-header image asset. Data keeps the encoded bytes;
// decoding the full pixel grid is left to the consumer (typically an
// upload to GPU memory, which wants the compressed form anyway).
type Texture struct {
	Width  int
	Height int
	Format string
	Data   []byte
}

// Load reads and validates the image file behind path, then stores the
// Texture under the same path. Registered as the type's load callback.
func Load(ctx context.Context, srv *assets.Server, path string) error {
	data, err := os.ReadFile(srv.AbsPath(path))
	if err != nil {
		return fmt.Errorf("texture %q: %w", path, err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("texture %q: decoding header: %w", path, err)
	}

	return assets.Add(srv, path, Texture{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
		Data:   data,
	})
}

// Module implements the assets.Module interface for this package.
type Module struct{}

// Register registers the texture asset type with the server.
func (m *Module) Register(srv *assets.Server) {
	assets.Register[Texture](srv, "texture", Load)
}
