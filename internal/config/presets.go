package config

import (
	"math"
	"sort"
)

var Presets = map[string]map[string]*Config{
	"chain": {
		"short": {
			Scene: "chain", Dt: DefaultDt, Duration: 10, Iterations: 4, Tau: DefaultTau, Damping: DefaultDamping,
			Gravity:     [3]float64{0, -9.81, 0},
			SceneParams: SceneConfig{Links: 3, LimitMin: -math.Pi / 4, LimitMax: math.Pi / 4},
		},
		"long": {
			Scene: "chain", Dt: DefaultDt, Duration: 20, Iterations: 8, Tau: DefaultTau, Damping: DefaultDamping,
			Gravity:     [3]float64{0, -9.81, 0},
			SceneParams: SceneConfig{Links: 12, LimitMin: -math.Pi / 3, LimitMax: math.Pi / 3},
		},
		"stiff": {
			Scene: "chain", Dt: 1.0 / 120, Duration: 10, Iterations: 8, Tau: 0.8, Damping: DefaultDamping,
			Gravity:     [3]float64{0, -9.81, 0},
			SceneParams: SceneConfig{Links: 6, LimitMin: -math.Pi / 8, LimitMax: math.Pi / 8},
		},
	},
	"wheel": {
		"idle": {
			Scene: "wheel", Dt: DefaultDt, Duration: 10, Iterations: 4, Tau: DefaultTau, Damping: DefaultDamping,
			Gravity:     [3]float64{0, -9.81, 0},
			SceneParams: SceneConfig{MotorRate: 2},
		},
		"fast": {
			Scene: "wheel", Dt: DefaultDt, Duration: 10, Iterations: 4, Tau: DefaultTau, Damping: DefaultDamping,
			Gravity:     [3]float64{0, -9.81, 0},
			SceneParams: SceneConfig{MotorRate: 20, MaxImpulse: 5},
		},
	},
	"slider": {
		"bounce": {
			Scene: "slider", Dt: DefaultDt, Duration: 15, Iterations: 4, Tau: DefaultTau, Damping: DefaultDamping,
			Gravity:     [3]float64{-3, -9.81, 0},
			SceneParams: SceneConfig{LimitMin: -2, LimitMax: 2},
		},
	},
}

// GetPreset returns a named preset for a scene, or nil when unknown.
func GetPreset(scene, name string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	return scenePresets[name]
}

// ListPresets returns the sorted preset names for a scene, or nil when the
// scene has none.
func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
