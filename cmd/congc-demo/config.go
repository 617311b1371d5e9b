package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/leanheap/congc"
)

// tuningConfig is the optional on-disk tuning file, in the same
// JSON-with-comments dialect tk.json uses for its own config.
type tuningConfig struct {
	LoadFactor float64 `json:"load_factor,omitempty"`
	GrowFactor int     `json:"grow_factor,omitempty"`
	HeapBytes  int     `json:"heap_bytes,omitempty"`
}

func defaultTuning() tuningConfig {
	cfg := congc.DefaultConfig()
	return tuningConfig{
		LoadFactor: cfg.LoadFactor,
		GrowFactor: cfg.GrowFactor,
		HeapBytes:  1 << 20,
	}
}

// loadTuning reads path as HuJSON (JSON plus comments and trailing
// commas) and overlays it onto the defaults. An empty path is not an
// error: it just means "use the defaults".
func loadTuning(path string) (tuningConfig, error) {
	cfg := defaultTuning()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return tuningConfig{}, fmt.Errorf("%w: %s: %v", errConfigRead, path, err)
	}

	std, err := hujson.Standardize(raw)
	if err != nil {
		return tuningConfig{}, fmt.Errorf("%w: %s: %v", errConfigInvalid, path, err)
	}

	if err := json.Unmarshal(std, &cfg); err != nil {
		return tuningConfig{}, fmt.Errorf("%w: %s: %v", errConfigInvalid, path, err)
	}

	if cfg.HeapBytes <= 0 {
		return tuningConfig{}, fmt.Errorf("%w: %s: heap_bytes must be positive", errConfigInvalid, path)
	}

	return cfg, nil
}

func (t tuningConfig) collectorConfig() congc.Config {
	return congc.Config{
		LoadFactor: t.LoadFactor,
		GrowFactor: t.GrowFactor,
	}
}
