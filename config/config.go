// Package config holds the host-side bridge options and produces the
// opaque configuration blob pushed into the engine.
package config

import (
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"

	enginebridge "github.com/screenlink/engine-bridge"
)

// Options configures the bridge. Loaded from a YAML file or assembled in
// code; zero values fall back to Default.
type Options struct {
	AppName  string                `yaml:"app_name"`
	Platform enginebridge.Platform `yaml:"platform"`
	// ArtifactDir is where the engine shared library lives. Empty means
	// the platform loader's own search path.
	ArtifactDir string `yaml:"artifact_dir"`
	Locale      string `yaml:"locale"`
	// MainInstance marks the primary application process; secondary
	// windows and helpers skip platform service startup.
	MainInstance bool `yaml:"main_instance"`
	// ConnectionManager marks a process acting in the connection-manager
	// role, which runs extra engine-side setup.
	ConnectionManager bool `yaml:"connection_manager"`
	// Custom is passed through to the engine untouched.
	Custom map[string]string `yaml:"custom"`
}

// Default returns the options used when no file overrides them.
func Default() Options {
	return Options{
		AppName:      "screenlink",
		Platform:     enginebridge.CurrentPlatform(),
		Locale:       "en",
		MainInstance: true,
	}
}

// Load reads options from a YAML file over the defaults.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, err
	}

	opts := Default()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, err
	}
	if opts.Platform == "" {
		opts.Platform = enginebridge.CurrentPlatform()
	}
	return opts, nil
}

// engineConfig is the engine-facing subset. The engine decodes it; the
// bridge only carries the encoded string.
type engineConfig struct {
	AppName           string            `json:"app_name"`
	Locale            string            `json:"locale"`
	ConnectionManager bool              `json:"is_cm"`
	Custom            map[string]string `json:"custom,omitempty"`
}

// EngineBlob serializes the engine-facing options into the opaque blob
// handed to the engine's init entry point.
func (o Options) EngineBlob() (string, error) {
	blob, err := json.Marshal(engineConfig{
		AppName:           o.AppName,
		Locale:            o.Locale,
		ConnectionManager: o.ConnectionManager,
		Custom:            o.Custom,
	})
	if err != nil {
		return "", err
	}
	return string(blob), nil
}
