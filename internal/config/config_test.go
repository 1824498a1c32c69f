package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gotest.tools/assert"
)

func TestLoadFileEmptyPathIsDefault(t *testing.T) {
	cfg, err := LoadFile("")
	assert.NilError(t, err)
	assert.DeepEqual(t, cfg, Default())
	assert.Assert(t, cfg.Data.Autosave)
	assert.Assert(t, !cfg.Schema.EnforceLengths)
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	t.Setenv("TABLEDB_TEST_DIR", "/tmp/tabledb")
	raw := `
data:
  dir: ${TABLEDB_TEST_DIR}/db
  autosave: false
schema:
  enforce_lengths: true
log:
  level: debug
  format: json
server:
  allowed_origins: ["https://app.example.com", "*.example.org"]
assistant:
  temperature: 0.2
  timeout: 5s
`
	cfg, err := Load(strings.NewReader(raw))
	assert.NilError(t, err)

	assert.Equal(t, cfg.Data.Dir, "/tmp/tabledb/db")
	assert.Assert(t, !cfg.Data.Autosave)
	assert.Equal(t, cfg.Data.Document, "database.json")
	assert.Assert(t, cfg.Schema.EnforceLengths)
	assert.Assert(t, !cfg.Schema.EnforcePrimaryKeys)
	assert.Equal(t, cfg.Log.Level, "debug")
	assert.Equal(t, cfg.Log.Format, "json")
	assert.Equal(t, cfg.Assistant.Temperature, 0.2)
	assert.Equal(t, cfg.Assistant.Timeout, 5*time.Second)
	assert.Equal(t, cfg.Assistant.Model, "gpt-3.5-turbo")
	assert.Equal(t, cfg.Server.Addr, "127.0.0.1:7070")
	assert.DeepEqual(t, cfg.Server.AllowedOrigins, []string{"https://app.example.com", "*.example.org"})
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	for name, raw := range map[string]string{
		"unknown section": "storage:\n  dir: x\n",
		"unknown key":     "data:\n  folder: x\n",
		"bad level":       "log:\n  level: loud\n",
		"bad format":      "log:\n  format: xml\n",
		"wrong type":      "data:\n  autosave: sometimes\n",
		"negative limit":  "server:\n  read_limit: -1\n",
		"hot temperature": "assistant:\n  temperature: 3\n",
		"nested document": "data:\n  document: sub/db.json\n",
		"bad endpoint":    "assistant:\n  endpoint: ftp://example.com\n",
		"bad origin":      "server:\n  allowed_origins: [example.com/app]\n",
	} {
		_, err := Load(strings.NewReader(raw))
		assert.ErrorContains(t, err, "validation error", name)
	}
}

func TestLoadFileFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabledb.yaml")
	assert.NilError(t, os.WriteFile(path, []byte("server:\n  addr: \":9000\"\n"), 0o644))

	cfg, err := LoadFile(path)
	assert.NilError(t, err)
	assert.Equal(t, cfg.Server.Addr, ":9000")

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Assert(t, os.IsNotExist(err))
}

func TestAPIKeyFromEnvironment(t *testing.T) {
	cfg := Default()
	cfg.Assistant.APIKeyEnv = "TABLEDB_TEST_KEY"
	t.Setenv("TABLEDB_TEST_KEY", "sk-test")
	assert.Equal(t, cfg.APIKey(), "sk-test")
}
