package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TemplateSeed names a schema CSV to load into the store at startup.
type TemplateSeed struct {
	JobID  string `yaml:"job_id"`
	Title  string `yaml:"title"`
	Schema string `yaml:"schema"`
}

// Config is the server configuration document.
type Config struct {
	Addr        string         `yaml:"addr"`
	Stylesheets []string       `yaml:"stylesheets"`
	Templates   []TemplateSeed `yaml:"templates"`
}

// LoadConfig reads the YAML config at path. An empty path yields defaults.
// The listen address falls back to FORMWEAVE_ADDR when the file does not
// set one.
func LoadConfig(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	if cfg.Addr == "" {
		cfg.Addr = getEnv("FORMWEAVE_ADDR", ":8080")
	}

	for i, seed := range cfg.Templates {
		if seed.JobID == "" || seed.Schema == "" {
			return Config{}, fmt.Errorf("config: templates[%d] needs job_id and schema", i)
		}
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
