package classify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EricA1019/godot-mcp-index/pkg/types"
)

func TestKind(t *testing.T) {
	cases := map[string]types.Kind{
		"README.md":            types.KindMarkdown,
		"docs/notes.markdown":  types.KindMarkdown,
		"player.gd":            types.KindCode,
		"Enemy.cs":             types.KindCode,
		"main.rs":              types.KindCode,
		"world.tscn":           types.KindScene,
		"theme.tres":           types.KindScene,
		"project.godot":        types.KindConfig,
		"settings.cfg":         types.KindConfig,
		"sprite.png":           types.KindAsset,
		"hit.wav":              types.KindAsset,
		"LICENSE":              types.KindOther,
		"data.unknownext12345": types.KindOther,
	}

	for path, want := range cases {
		require.Equalf(t, want, Kind(path), "path %s", path)
	}
}

func TestKind_IsCaseInsensitiveOnExtension(t *testing.T) {
	require.Equal(t, types.KindMarkdown, Kind("NOTES.MD"))
	require.Equal(t, types.KindCode, Kind("Main.GD"))
}
