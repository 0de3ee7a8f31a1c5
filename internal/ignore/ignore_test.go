package ignore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchPath_FixedDirsAnywhereInPath(t *testing.T) {
	s := NewSet(DefaultDirs, nil, "")

	require.True(t, s.MatchPath(".git/HEAD"))
	require.True(t, s.MatchPath("addons/vendor/lib/thing.gd"))
	require.True(t, s.MatchPath("project/.godot/cache/foo"))
	require.False(t, s.MatchPath("scripts/player.gd"))
}

func TestMatchPath_ExcludesIndexDir(t *testing.T) {
	s := NewSet(DefaultDirs, nil, ".godotmcp-index")

	require.True(t, s.MatchPath(".godotmcp-index/segments/0"))
	require.True(t, s.MatchPath("./.godotmcp-index/meta.json"))
	require.False(t, s.MatchPath("scripts/.godotmcp-indexer.gd"))
}

func TestMatchPath_ExtraGitignorePatterns(t *testing.T) {
	s := NewSet(DefaultDirs, []string{"*.tmp", "generated/"}, "")

	require.True(t, s.MatchPath("scene.tmp"))
	require.True(t, s.MatchPath("generated/codegen.gd"))
	require.False(t, s.MatchPath("scripts/player.gd"))
}

func TestMatchDir_ComponentOnly(t *testing.T) {
	s := NewSet(DefaultDirs, nil, "")

	require.True(t, s.MatchDir("node_modules"))
	require.True(t, s.MatchDir(".git"))
	require.False(t, s.MatchDir("scripts"))
}
