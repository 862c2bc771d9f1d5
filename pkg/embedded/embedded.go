package embedded

import (
	"embed"
)

// Preset scale and keymap documents shipped with the binary
//
//go:embed data/scales/*.scl data/keymaps/*.kbm
var Presets embed.FS

const (
	// ScalesDir holds .scl presets inside Presets
	ScalesDir = "data/scales"
	// KeymapsDir holds .kbm presets inside Presets
	KeymapsDir = "data/keymaps"
)
