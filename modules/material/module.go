// Package material provides the material asset type: a derived asset
// described by an HCL file that references textures by path and carries
// free-form numeric parameters.
//
// A material file looks like:
//
//	textures = {
//	  diffuse = "textures/bronze_d.png"
//	  normal  = "textures/bronze_n.png"
//	}
//
//	params = {
//	  shininess = 0.4
//	  metallic  = 1
//	}
//
// Loading a material eagerly loads every referenced texture and stores the
// resulting Handles, so a material in the registry is always fully usable.
package material

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/assetgridgo/internal/assets"
	"github.com/vk/assetgridgo/modules/texture"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Material is a derived asset: it owns no file payload of its own beyond
// its description, only Handles to the textures it was derived from.
type Material struct {
	Textures map[string]assets.Handle
	Params   map[string]float64
}

// materialFile is the HCL shape of a material description.
type materialFile struct {
	Textures map[string]string `hcl:"textures,optional"`
	Params   cty.Value         `hcl:"params,optional"`
}

// Load parses the material description behind path, forces a load of every
// referenced texture, and stores the Material as a derived asset whose
// tracker records the texture Handles as its dependencies.
func Load(ctx context.Context, srv *assets.Server, path string) error {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(srv.AbsPath(path))
	if diags.HasErrors() {
		return fmt.Errorf("material %q: failed to parse: %w", path, diags)
	}

	var mf materialFile
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &mf); diags.HasErrors() {
		return fmt.Errorf("material %q: failed to decode: %w", path, diags)
	}

	mat := Material{
		Textures: make(map[string]assets.Handle, len(mf.Textures)),
		Params:   make(map[string]float64),
	}

	deps := make([]assets.Handle, 0, len(mf.Textures))
	for slot, texPath := range mf.Textures {
		h, err := assets.NewHandle[texture.Texture](ctx, srv, texPath)
		if err != nil {
			return fmt.Errorf("material %q: texture %q: %w", path, texPath, err)
		}
		mat.Textures[slot] = h
		deps = append(deps, h)
	}

	if mf.Params != cty.NilVal && !mf.Params.IsNull() && mf.Params.CanIterateElements() {
		for name, val := range mf.Params.AsValueMap() {
			num, err := convert.Convert(val, cty.Number)
			if err != nil {
				return fmt.Errorf("material %q: param %q is not numeric: %w", path, name, err)
			}
			f, _ := num.AsBigFloat().Float64()
			mat.Params[name] = f
		}
	}

	assets.AddDerived(srv, path, mat, deps...)
	return nil
}

// Module implements the assets.Module interface for this package.
type Module struct{}

// Register registers the material asset type with the server.
func (m *Module) Register(srv *assets.Server) {
	assets.Register[Material](srv, "material", Load)
}
