package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Root struct {
	Data      DataSection      `yaml:"data"`
	Schema    SchemaSection    `yaml:"schema"`
	Log       LogSection       `yaml:"log"`
	Server    ServerSection    `yaml:"server"`
	Assistant AssistantSection `yaml:"assistant"`
}

type DataSection struct {
	Dir      string `yaml:"dir"`
	Document string `yaml:"document"`
	Hash     string `yaml:"hash"`
	Autosave bool   `yaml:"autosave"`
	InMemory bool   `yaml:"in_memory"`
}

// SchemaSection switches on checks that are advisory by default.
type SchemaSection struct {
	EnforceLengths     bool `yaml:"enforce_lengths"`
	EnforcePrimaryKeys bool `yaml:"enforce_primary_keys"`
	ValidateUpdates    bool `yaml:"validate_updates"`
}

type LogSection struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerSection configures the WebSocket front-end. AllowedOrigins are the
// browser origins accepted besides the server's own host.
type ServerSection struct {
	Addr           string   `yaml:"addr"`
	ReadLimit      int64    `yaml:"read_limit"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type AssistantSection struct {
	Endpoint    string        `yaml:"endpoint"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	APIKeyEnv   string        `yaml:"api_key_env"`
	Timeout     time.Duration `yaml:"timeout"`
}

func Default() *Root {
	return &Root{
		Data: DataSection{
			Dir:      "./data",
			Document: "database.json",
			Hash:     "database_hash.txt",
			Autosave: true,
		},
		Log: LogSection{
			Level:  "info",
			Format: "text",
		},
		Server: ServerSection{
			Addr:      "127.0.0.1:7070",
			ReadLimit: 64 << 10,
		},
		Assistant: AssistantSection{
			Endpoint:    "https://api.openai.com/v1/chat/completions",
			Model:       "gpt-3.5-turbo",
			Temperature: 0.7,
			APIKeyEnv:   "OPENAI_API_KEY",
			Timeout:     30 * time.Second,
		},
	}
}

// LoadFile reads path, or returns Default when path is empty.
func LoadFile(path string) (*Root, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load validates r against the embedded schema and decodes it over the
// defaults, so omitted keys keep their default values.
func Load(r io.Reader) (*Root, error) {
	var rs io.ReadSeeker
	if seeker, ok := r.(io.ReadSeeker); ok {
		rs = seeker
	} else {
		buf, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		rs = bytes.NewReader(buf)
	}
	if err := validateReader(rs); err != nil {
		return nil, err
	}

	cfg := Default()
	dec := yaml.NewDecoder(rs)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	expandEnv(cfg)
	return cfg, nil
}

func expandEnv(cfg *Root) {
	cfg.Data.Dir = os.ExpandEnv(cfg.Data.Dir)
	cfg.Assistant.Endpoint = os.ExpandEnv(cfg.Assistant.Endpoint)
}

// APIKey reads the assistant key from the configured environment variable.
func (c *Root) APIKey() string {
	return os.Getenv(c.Assistant.APIKeyEnv)
}
