package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeConfigDefaults(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "ΛΠ ≫ ", cfg.Prompt)
}

func TestDecodeConfigValues(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader(`
prompt: "pie> "
history: /tmp/pie-history
history_limit: 20
color: NEVER
format: yaml
log_level: debug
pie_version: ">= 0.1, < 1"
`))
	require.NoError(t, err)
	assert.Equal(t, "pie> ", cfg.Prompt)
	assert.Equal(t, 20, cfg.HistoryLimit)
	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, "yaml", cfg.Format)
	verbosity, err := cfg.Verbosity()
	require.NoError(t, err)
	assert.Equal(t, 2, verbosity)
	path, err := cfg.HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pie-history", path)
}

func TestDecodeConfigRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "colour: always\n",
		"bad color":      "color: sometimes\n",
		"bad format":     "format: xml\n",
		"bad level":      "log_level: chatty\n",
		"bad constraint": "pie_version: \"not a version\"\n",
		"unmet version":  "pie_version: \">= 99\"\n",
		"malformed yaml": "prompt: [\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeConfig(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestCheckVersion(t *testing.T) {
	require.NoError(t, CheckVersion("", "0.1.0"))
	require.NoError(t, CheckVersion("~0.1", "0.1.4"))
	err := CheckVersion("^1.2", "0.1.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not satisfy")
	assert.Error(t, CheckVersion(">= 1", "dev"))
}

func TestLoadConfigLookupOrder(t *testing.T) {
	workdir := t.TempDir()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	cfg, err := LoadConfig(workdir)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Path)

	userPath := filepath.Join(xdg, "pie", "config.yml")
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0o755))
	require.NoError(t, os.WriteFile(userPath, []byte("prompt: user> \n"), 0o644))
	cfg, err = LoadConfig(workdir)
	require.NoError(t, err)
	assert.Equal(t, userPath, cfg.Path)
	assert.Equal(t, "user>", strings.TrimSpace(cfg.Prompt))

	projectPath := filepath.Join(workdir, ConfigFileName)
	require.NoError(t, os.WriteFile(projectPath, []byte("prompt: project> \n"), 0o644))
	cfg, err = LoadConfig(workdir)
	require.NoError(t, err)
	assert.Equal(t, projectPath, cfg.Path)
	assert.Equal(t, "project>", strings.TrimSpace(cfg.Prompt))
}

func TestLoadConfigReportsPath(t *testing.T) {
	workdir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(workdir, ConfigFileName), []byte("nope: 1\n"), 0o644))

	_, err := LoadConfig(workdir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ConfigFileName)
}

func TestStateAndConfigDirs(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")
	t.Setenv("XDG_CONFIG_HOME", "/config")

	dir, err := StateDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/state", "pie"), dir)
	dir, err = ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/config", "pie"), dir)

	path, err := DefaultConfig().HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/state", "pie", "history"), path)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_STATE_HOME", "relative/ignored")
	dir, err = StateDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "state", "pie"), dir)

	expanded, err := expandHome("~/h")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "h"), expanded)
}

func TestEnsureParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "history")
	require.NoError(t, EnsureParent(path))
	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
