package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"photo-backup/internal/backup"
)

// inTempDir switches to an empty directory so no photo-backup.yaml is found.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func testFlags() *pflag.FlagSet {
	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.StringSlice("ext", nil, "")
	f.IntP("workers", "w", 1, "")
	f.BoolP("dry-run", "n", false, "")
	f.String("report", "", "")
	f.String("log-level", "", "")
	f.String("log-format", "", "")
	return f
}

func TestLoadDefaults(t *testing.T) {
	inTempDir(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, backup.DefaultExtensions, cfg.Backup.Extensions)
	assert.Equal(t, 1, cfg.Backup.Workers)
	assert.False(t, cfg.Backup.DryRun)
	assert.Empty(t, cfg.Backup.Report)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadDefaultsWithUnsetFlags(t *testing.T) {
	inTempDir(t)
	f := testFlags()
	require.NoError(t, f.Parse(nil))

	cfg, err := Load("", f)
	require.NoError(t, err)

	// Unset flags must not mask the defaults.
	assert.Equal(t, backup.DefaultExtensions, cfg.Backup.Extensions)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromYAML(t *testing.T) {
	dir := inTempDir(t)

	yaml := `
backup:
  extensions: [jpg, heic]
  workers: 4
  dry_run: true
  report: run.csv
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo-backup.yaml"), []byte(yaml), 0644))

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"jpg", "heic"}, cfg.Backup.Extensions)
	assert.Equal(t, 4, cfg.Backup.Workers)
	assert.True(t, cfg.Backup.DryRun)
	assert.Equal(t, "run.csv", cfg.Backup.Report)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadExplicitFile(t *testing.T) {
	inTempDir(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backup:\n  workers: 3\n"), 0644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Backup.Workers)
	// Defaults still apply for unset values
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	inTempDir(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo-backup.yaml"), []byte("backup: [unclosed"), 0644))

	_, err := Load("", nil)
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo-backup.yaml"), []byte("backup:\n  workers: 2\nlog:\n  level: debug\n"), 0644))

	t.Setenv("PHOTOBACKUP_BACKUP_WORKERS", "6")
	t.Setenv("PHOTOBACKUP_LOG_LEVEL", "warn")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Backup.Workers)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvExtensions(t *testing.T) {
	inTempDir(t)
	t.Setenv("PHOTOBACKUP_BACKUP_EXTENSIONS", "jpg,heic")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"jpg", "heic"}, cfg.Backup.Extensions)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	inTempDir(t)
	t.Setenv("PHOTOBACKUP_BACKUP_WORKERS", "6")

	f := testFlags()
	require.NoError(t, f.Parse([]string{"-w", "8", "--dry-run", "--ext", "png", "--log-level", "error"}))

	cfg, err := Load("", f)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Backup.Workers)
	assert.True(t, cfg.Backup.DryRun)
	assert.Equal(t, []string{"png"}, cfg.Backup.Extensions)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		exts    []string
		workers int
		want    []string
		wantErr string
	}{
		{"plain list", []string{"jpg", "png"}, 1, []string{"jpg", "png"}, ""},
		{"comma separated", []string{"jpg, png", "gif"}, 2, []string{"jpg", "png", "gif"}, ""},
		{"empty list", nil, 1, nil, "extension allow-list is empty"},
		{"only blanks", []string{" ", ","}, 1, nil, "extension allow-list is empty"},
		{"zero workers", []string{"jpg"}, 0, nil, "workers must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Backup: BackupConfig{Extensions: tt.exts, Workers: tt.workers}}
			err := cfg.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Backup.Extensions)
		})
	}
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
