// Package classify assigns a coarse Kind to a file based on its extension
// alone (the file's directory is not consulted), used to populate
// Document.Kind (spec §3).
package classify

import (
	"path/filepath"
	"strings"

	"github.com/EricA1019/godot-mcp-index/pkg/types"
)

var codeExt = map[string]struct{}{
	".gd":    {},
	".cs":    {},
	".rs":    {},
	".go":    {},
	".c":     {},
	".h":     {},
	".cpp":   {},
	".hpp":   {},
	".py":    {},
	".js":    {},
	".ts":    {},
	".shader": {},
	".gdshader": {},
}

var sceneExt = map[string]struct{}{
	".tscn": {},
	".scn":  {},
	".tres": {},
}

var configExt = map[string]struct{}{
	".cfg":    {},
	".ini":    {},
	".toml":   {},
	".yaml":   {},
	".yml":    {},
	".json":   {},
	".godot":  {},
	".import": {},
}

var assetExt = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
	".svg":  {},
	".ttf":  {},
	".otf":  {},
	".ogg":  {},
	".wav":  {},
	".mp3":  {},
	".glb":  {},
	".gltf":  {},
}

// Kind classifies path by extension, falling back to types.KindOther.
func Kind(path string) types.Kind {
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".md" || ext == ".markdown" {
		return types.KindMarkdown
	}
	if _, ok := codeExt[ext]; ok {
		return types.KindCode
	}
	if _, ok := sceneExt[ext]; ok {
		return types.KindScene
	}
	if _, ok := configExt[ext]; ok {
		return types.KindConfig
	}
	if _, ok := assetExt[ext]; ok {
		return types.KindAsset
	}
	return types.KindOther
}
