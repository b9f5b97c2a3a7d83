package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	want := Config{
		DBPath:     "/tmp/lazyplan.badger",
		Storage:    StorageBadger,
		WebEnabled: true,
		WebPort:    9090,
		LogLevel:   "debug",
		ExportDir:  "/tmp/exports",
	}
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadKeepsDefaultsForAbsentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"db_path":"/data/plan.db"}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/plan.db", cfg.DBPath)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, 8080, cfg.WebPort)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"web_port":`), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestApplyEnvOverlaysVariables(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LAZYPLAN_STORAGE", StorageBadger)
	t.Setenv("LAZYPLAN_WEB_PORT", "7070")
	t.Setenv("LAZYPLAN_WEB_ENABLED", "true")

	cfg := Default()
	require.NoError(t, ApplyEnv(&cfg))
	assert.Equal(t, StorageBadger, cfg.Storage)
	assert.Equal(t, 7070, cfg.WebPort)
	assert.True(t, cfg.WebEnabled)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestApplyEnvReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LAZYPLAN_EXPORT_DIR=/srv/exports\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("LAZYPLAN_EXPORT_DIR") })

	cfg := Default()
	require.NoError(t, ApplyEnv(&cfg))
	assert.Equal(t, "/srv/exports", cfg.ExportDir)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"defaults", Default(), true},
		{"badger", Config{Storage: StorageBadger, WebPort: 80}, true},
		{"unknown storage", Config{Storage: "redis"}, false},
		{"port too high", Config{Storage: StorageSQLite, WebPort: 70000}, false},
		{"negative port", Config{Storage: StorageSQLite, WebPort: -1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLogPathSitsBesideDatabase(t *testing.T) {
	cfg := Config{DBPath: filepath.Join("data", "lazyplan.db")}
	assert.Equal(t, filepath.Join("data", "lazyplan.log"), cfg.LogPath())
}
