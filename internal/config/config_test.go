package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scene != "chain" {
		t.Errorf("expected scene chain, got %s", cfg.Scene)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("chain", "short")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.SceneParams.Links != 3 {
		t.Errorf("expected 3 links, got %d", cfg.SceneParams.Links)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	cfg := GetPreset("chain", "nonexistent")
	if cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}

	cfg = GetPreset("nonexistent", "short")
	if cfg != nil {
		t.Error("expected nil for nonexistent scene")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("chain")
	if len(presets) == 0 {
		t.Error("expected presets for chain")
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}

	presets = ListPresets("nonexistent")
	if presets != nil {
		t.Error("expected nil for nonexistent scene")
	}
}

func TestPresetsValidate(t *testing.T) {
	for scene, byName := range Presets {
		for name, cfg := range byName {
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset %s/%s invalid: %v", scene, name, err)
			}
			if cfg.Scene != scene {
				t.Errorf("preset %s/%s declares scene %s", scene, name, cfg.Scene)
			}
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Scene = "wheel"
	cfg.Iterations = 8
	cfg.SceneParams.MotorRate = 12

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Scene != "wheel" || loaded.Iterations != 8 || loaded.SceneParams.MotorRate != 12 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"zero iterations", func(c *Config) { c.Iterations = 0 }},
		{"tau above one", func(c *Config) { c.Tau = 1.5 }},
		{"inverted limits", func(c *Config) { c.SceneParams.LimitMin = 1; c.SceneParams.LimitMax = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
