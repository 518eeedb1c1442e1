package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt         = 1.0 / 50
	DefaultDuration   = 10.0
	DefaultIterations = 4
	DefaultTau        = 0.6
	DefaultDamping    = 0.99
	DefaultLinks      = 5
)

type Config struct {
	Scene       string      `yaml:"scene"`
	Dt          float64     `yaml:"dt"`
	Duration    float64     `yaml:"duration"`
	Iterations  int         `yaml:"iterations"`
	Tau         float64     `yaml:"tau"`
	Damping     float64     `yaml:"damping"`
	Gravity     [3]float64  `yaml:"gravity"`
	Seed        int64       `yaml:"seed"`
	SceneParams SceneConfig `yaml:"scene_params"`
}

type SceneConfig struct {
	Links      int     `yaml:"links"`
	LimitMin   float64 `yaml:"limit_min"`
	LimitMax   float64 `yaml:"limit_max"`
	MotorRate  float64 `yaml:"motor_rate"`
	MaxImpulse float64 `yaml:"max_impulse"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:      "chain",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Iterations: DefaultIterations,
		Tau:        DefaultTau,
		Damping:    DefaultDamping,
		Gravity:    [3]float64{0, -9.81, 0},
		SceneParams: SceneConfig{
			Links:     DefaultLinks,
			LimitMin:  -math.Pi / 4,
			LimitMax:  math.Pi / 4,
			MotorRate: 4,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %g", c.Duration)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("config: iterations must be positive, got %d", c.Iterations)
	}
	if c.Tau < 0 || c.Tau > 1 || c.Damping < 0 || c.Damping > 1 {
		return fmt.Errorf("config: tau and damping must lie in [0, 1]")
	}
	if c.SceneParams.LimitMin > c.SceneParams.LimitMax {
		return fmt.Errorf("config: limit_min %g exceeds limit_max %g", c.SceneParams.LimitMin, c.SceneParams.LimitMax)
	}
	return nil
}
