// Package presets provides named map layouts embedded at build time.
package presets

import "embed"

// layoutFS embeds all YAML layouts from this directory.
//
//go:embed *.yaml
var layoutFS embed.FS
