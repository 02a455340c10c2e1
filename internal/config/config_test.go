package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, `
[parser]
kind = "movie"

[scan]
workers = 8
extensions = ["mkv"]
skip_hidden = false
min_agreement = "medium"

[database]
path = "/var/lib/arrname/index.db"

[log]
level = "debug"
format = "json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "movie", cfg.Parser.Kind)
	assert.Equal(t, 8, cfg.Scan.Workers)
	assert.Equal(t, []string{"mkv"}, cfg.Scan.Extensions)
	assert.False(t, cfg.Scan.SkipHidden)
	assert.Equal(t, "medium", cfg.Scan.MinAgreement)
	assert.Equal(t, "/var/lib/arrname/index.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "# empty\n"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, "tv", cfg.Parser.Kind)
	assert.Equal(t, 4, cfg.Scan.Workers)
	assert.True(t, cfg.Scan.SkipHidden)
	assert.Equal(t, "./data/arrname.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_MissingEnvVar(t *testing.T) {
	path := writeConfig(t, `
[database]
path = "${ARRNAME_TEST_NONEXISTENT_DB}"
`)
	_, err := Load(path)
	require.Error(t, err)

	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, []string{"ARRNAME_TEST_NONEXISTENT_DB"}, cerr.Missing)
	assert.Equal(t, path, cerr.Path)
	assert.Contains(t, err.Error(), "missing environment variables: ARRNAME_TEST_NONEXISTENT_DB")
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeConfig(t, `
[parser]
kind = "music"

[scan]
workers = 500

[log]
level = "verbose"
`)
	_, err := Load(path)
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Len(t, cerr.Errors, 3)
	assert.Contains(t, err.Error(), "parser.kind")
	assert.Contains(t, err.Error(), "scan.workers")
	assert.Contains(t, err.Error(), "log.level")
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 8080
`)
	_, err := Load(path)
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Errors, "server.port: unknown key")
}

func TestLoad_ParseError(t *testing.T) {
	_, err := Load(writeConfig(t, "[parser\nkind = "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadWithoutValidation(t *testing.T) {
	path := writeConfig(t, `
[parser]
kind = "music"

[database]
path = "${ARRNAME_TEST_NONEXISTENT_DB}"
`)
	cfg, err := LoadWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, "music", cfg.Parser.Kind)
	assert.Equal(t, "${ARRNAME_TEST_NONEXISTENT_DB}", cfg.Database.Path)
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("ARRNAME_TEST_DB", "/tmp/index.db")
	path := writeConfig(t, `
[database]
path = "${ARRNAME_TEST_DB}"

[log]
level = "${ARRNAME_TEST_LEVEL:-warn}"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/index.db", cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}
