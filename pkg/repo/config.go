package repo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config stores repository-local settings.
type Config struct {
	// Manifest is the manifest file location, relative to the repository
	// root. Empty means the default .hoard/manifest.json.
	Manifest string `json:"manifest,omitempty"`
	// Editor overrides $EDITOR for `hoard edit`.
	Editor string `json:"editor,omitempty"`
}

func (r *Repository) configPath() string {
	return filepath.Join(r.HoardDir, "config.json")
}

// ReadConfig reads .hoard/config.json. Missing config returns defaults.
func (r *Repository) ReadConfig() (*Config, error) {
	data, err := os.ReadFile(r.configPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("read config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// WriteConfig atomically writes .hoard/config.json.
func (r *Repository) WriteConfig(cfg *Config) error {
	if cfg == nil {
		cfg = &Config{}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("write config: marshal: %w", err)
	}

	tmp, err := os.CreateTemp(r.HoardDir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, r.configPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}

// ManifestPath resolves the manifest location from config, falling back to
// .hoard/manifest.json.
func (r *Repository) ManifestPath() (string, error) {
	cfg, err := r.ReadConfig()
	if err != nil {
		return "", err
	}
	if cfg.Manifest == "" {
		return filepath.Join(r.HoardDir, "manifest.json"), nil
	}
	if filepath.IsAbs(cfg.Manifest) {
		return cfg.Manifest, nil
	}
	return filepath.Join(r.Root, cfg.Manifest), nil
}
