// Package mesh provides the file-backed triangle mesh asset type, read from
// a minimal subset of the Wavefront OBJ format (v and f statements).
package mesh

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vk/assetgridgo/internal/assets"
)

// Vec3 is a single vertex position.
type Vec3 struct {
	X, Y, Z float32
}

// Mesh is a parsed geometry asset.
type Mesh struct {
	Positions []Vec3
	FaceCount int
}

// Load parses the OBJ file behind path and stores the Mesh under the same
// path. Registered as the type's load callback.
func Load(ctx context.Context, srv *assets.Server, path string) error {
	f, err := os.Open(srv.AbsPath(path))
	if err != nil {
		return fmt.Errorf("mesh %q: %w", path, err)
	}
	defer f.Close()

	var m Mesh
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return fmt.Errorf("mesh %q: line %d: vertex needs 3 coordinates", path, line)
			}
			var v Vec3
			coords := []*float32{&v.X, &v.Y, &v.Z}
			for i, dst := range coords {
				val, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return fmt.Errorf("mesh %q: line %d: %w", path, line, err)
				}
				*dst = float32(val)
			}
			m.Positions = append(m.Positions, v)
		case "f":
			m.FaceCount++
		}
		// Normals, texcoords and groups are ignored.
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("mesh %q: %w", path, err)
	}
	if len(m.Positions) == 0 {
		return fmt.Errorf("mesh %q: no vertices found", path)
	}

	return assets.Add(srv, path, m)
}

// Module implements the assets.Module interface for this package.
type Module struct{}

// Register registers the mesh asset type with the server.
func (m *Module) Register(srv *assets.Server) {
	assets.Register[Mesh](srv, "mesh", Load)
}
