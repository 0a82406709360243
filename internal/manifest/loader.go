package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/assetgridgo/internal/ctxlog"
	"github.com/vk/assetgridgo/internal/fsutil"
)

// Preload lists the asset paths to warm for one registered type name.
type Preload struct {
	Type  string
	Paths []string
}

// Model is the merged, file-order content of every manifest file found.
type Model struct {
	Preloads []*Preload
}

// PathCount returns the total number of paths across all preload blocks.
func (m *Model) PathCount() int {
	total := 0
	for _, p := range m.Preloads {
		total += len(p.Paths)
	}
	return total
}

// fileRoot decodes the top-level blocks of a single manifest file. Unknown
// blocks are tolerated via Remain so manifests can carry future sections.
type fileRoot struct {
	Preloads []*preloadBlock `hcl:"preload,block"`
	Remain   hcl.Body        `hcl:",remain"`
}

type preloadBlock struct {
	Type  string   `hcl:"type,label"`
	Paths []string `hcl:"paths"`
}

// Load parses every .hcl file under path (a single file or a directory) and
// merges their preload blocks into one Model. Blocks for the same type name
// are kept separate and applied in discovery order.
func Load(ctx context.Context, path string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("manifest: discovering files under %q: %w", path, err)
	}
	if len(files) == 0 {
		logger.Warn("No .hcl manifest files found.", "path", path)
		return &Model{}, nil
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	parser := hclparse.NewParser()
	model := &Model{}

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("manifest: failed to parse %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("manifest: failed to decode %s: %w", file, diags)
		}

		for _, block := range root.Preloads {
			model.Preloads = append(model.Preloads, &Preload{
				Type:  block.Type,
				Paths: block.Paths,
			})
		}
		logger.Debug("Loaded manifest file.", "file", file, "preload_blocks", len(root.Preloads))
	}

	logger.Debug("Manifest loading complete.",
		"blocks", len(model.Preloads), "paths", model.PathCount())
	return model, nil
}
