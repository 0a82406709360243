package app

import (
	"github.com/vk/assetgridgo/internal/assets"
	"github.com/vk/assetgridgo/modules/material"
	"github.com/vk/assetgridgo/modules/mesh"
	"github.com/vk/assetgridgo/modules/texture"
)

// coreModules is the definitive list of asset-type modules compiled into
// the assetgridgo binary.
var coreModules = []assets.Module{
	&texture.Module{},
	&mesh.Module{},
	&material.Module{},
}
