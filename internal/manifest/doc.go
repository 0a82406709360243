// Package manifest loads HCL preload manifests. A manifest names the assets
// the application wants resident before the first frame:
//
//	preload "texture" {
//	  paths = ["ui/button.png", "ui/panel.png"]
//	}
//
//	preload "mesh" {
//	  paths = ["models/crate.obj"]
//	}
//
// The block label must match a type name registered with the asset server;
// that check happens at preload time, not parse time, because the manifest
// is parsed before modules may have finished registering.
package manifest
