package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wardrobe.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadAllowsComments(t *testing.T) {
	path := writeConfig(t, `{
		// where the scene lives
		"scene_dir": "/scenes/beach",
		"global_dir": "../global",
		"workers": 3,
		"max_texture_size": "64MiB",
		"max_texture_pixels": 1048576, // trailing comma next
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/scenes/beach", cfg.SceneDir)
	assert.Equal(t, 3, cfg.Workers)

	require.NoError(t, cfg.Resolve(Flags{}))
	assert.Equal(t, filepath.Join("/scenes/beach", "../global"), cfg.GlobalDir)
	assert.Equal(t, int64(64<<20), cfg.MaxTextureBytes())
	assert.Equal(t, "64MiB", cfg.MaxTextureSize)
	assert.Equal(t, int64(1<<20), cfg.MaxTexturePixels)
	assert.Equal(t, []string{"/scenes/beach", filepath.Join("/scenes/beach", "../global")}, cfg.Roots())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "config: read")

	_, err = Load(writeConfig(t, `{"workers": }`))
	assert.ErrorContains(t, err, "config: parse")
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Resolve(Flags{SceneDir: "/scenes/a"}))

	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, int64(DefaultMaxTextureSize), cfg.MaxTextureBytes())
	assert.Equal(t, int64(DefaultMaxTexturePixels), cfg.MaxTexturePixels)
	assert.Equal(t, filepath.Join("/scenes/a", "wardrobe.json"), cfg.SelectionsFile)
	assert.Equal(t, filepath.Join("/scenes/a", "texdump"), cfg.DumpDir)
	assert.Equal(t, []string{"/scenes/a"}, cfg.Roots())
}

func TestResolveFlagsOverrideFile(t *testing.T) {
	cfg := Config{SceneDir: "/from/file", Workers: 2, MaxTextureSize: "1MiB", MaxTexturePixels: 100}
	require.NoError(t, cfg.Resolve(Flags{SceneDir: "/from/flag", Workers: 8, MaxTextureSize: "2MiB", MaxTexturePixels: 400}))

	assert.Equal(t, "/from/flag", cfg.SceneDir)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, int64(2<<20), cfg.MaxTextureBytes())
	assert.Equal(t, int64(400), cfg.MaxTexturePixels)
}

func TestResolveBadSize(t *testing.T) {
	cfg := Config{SceneDir: "/s", MaxTextureSize: "lots"}
	assert.ErrorContains(t, cfg.Resolve(Flags{}), "max_texture_size")
}
