package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/notey/pkg/content"
)

// ConfigFileName is looked up inside the store directory.
const ConfigFileName = "notey.yaml"

// FileConfig is the YAML configuration file. Zero fields keep defaults.
//
//	adapter: sqlite
//	codec: yaml
//	status_delay: 1s
//	cooldown: 100ms
//	default_doc_type: md
//	export_dir: ~/Documents
//	sanitize:
//	  base: ugc
//	  allow_classes: [pre, code, span]
type FileConfig struct {
	Adapter        string          `yaml:"adapter"`
	Codec          string          `yaml:"codec"`
	StatusDelay    time.Duration   `yaml:"status_delay"`
	Cooldown       time.Duration   `yaml:"cooldown"`
	DefaultDocType string          `yaml:"default_doc_type"`
	ExportDir      string          `yaml:"export_dir"`
	HidePreview    bool            `yaml:"hide_preview"`
	Sanitize       *content.Policy `yaml:"sanitize"`
}

// LoadConfig reads a configuration file. A missing file is an error only
// when required is true.
func LoadConfig(path string, required bool) (FileConfig, error) {
	var cfg FileConfig

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// merge fills options that were not set explicitly from the file.
func (cfg FileConfig) merge(o *options) {
	if o.adapter == "" {
		o.adapter = cfg.Adapter
	}
	if o.codec == "" {
		o.codec = cfg.Codec
	}
	setDefault(o.config, "status_delay", cfg.StatusDelay, cfg.StatusDelay > 0)
	setDefault(o.config, "cooldown", cfg.Cooldown, cfg.Cooldown > 0)
	setDefault(o.config, "default_doc_type", cfg.DefaultDocType, cfg.DefaultDocType != "")
	setDefault(o.config, "export_dir", cfg.ExportDir, cfg.ExportDir != "")
	setDefault(o.config, "preview_hidden", cfg.HidePreview, cfg.HidePreview)
	if cfg.Sanitize != nil {
		setDefault(o.config, "sanitize", *cfg.Sanitize, true)
	}
}

func setDefault(config map[string]interface{}, key string, value interface{}, ok bool) {
	if !ok {
		return
	}
	if _, set := config[key]; !set {
		config[key] = value
	}
}

// configPath decides which file to read for a store rooted at dir.
func configPath(o *options, dir string) (string, bool) {
	if o.configFile != "" {
		return o.configFile, true
	}
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, ConfigFileName), false
}
