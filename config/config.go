// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Collision CollisionConfig `yaml:"collision"`
	AI        AIConfig        `yaml:"ai"`
	Particles ParticlesConfig `yaml:"particles"`
	Governor  GovernorConfig  `yaml:"governor"`
	Scene     SceneConfig     `yaml:"scene"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds simulation world dimensions in world units.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig holds integrator parameters.
type PhysicsConfig struct {
	GravityX   float64 `yaml:"gravity_x"`
	GravityY   float64 `yaml:"gravity_y"`
	GravityZ   float64 `yaml:"gravity_z"`
	AirDensity float64 `yaml:"air_density"`
	Substeps   int     `yaml:"substeps"`
	MoveSpeed  float64 `yaml:"move_speed"` // player input force magnitude
}

// CollisionConfig holds broad-phase grid and resolution parameters.
type CollisionConfig struct {
	CellSize      float64 `yaml:"cell_size"`      // must be >= the largest expected radius sum
	DefaultRadius float64 `yaml:"default_radius"` // used when an entity has no physics block
	BounceScale   float64 `yaml:"bounce_scale"`
	PlayerScore   int     `yaml:"player_score"` // score per collision involving the player
}

// AIConfig holds behavior state machine parameters.
type AIConfig struct {
	DecisionInterval float64 `yaml:"decision_interval"`
	ArrivalThreshold float64 `yaml:"arrival_threshold"`
	SteerForce       float64 `yaml:"steer_force"`
}

// ParticlesConfig holds particle pool parameters.
type ParticlesConfig struct {
	MaxCount        int     `yaml:"max_count"`
	BurstLimit      int     `yaml:"burst_limit"` // per-explosion spawn cap
	GravityY        float64 `yaml:"gravity_y"`
	WindX           float64 `yaml:"wind_x"`
	WindY           float64 `yaml:"wind_y"`
	WindZ           float64 `yaml:"wind_z"`
	CompactInterval int     `yaml:"compact_interval"` // ticks between storage compactions
}

// GovernorConfig holds adaptive quality parameters.
type GovernorConfig struct {
	Window                     int     `yaml:"window"`
	FrameBudgetMS              float64 `yaml:"frame_budget_ms"`
	DecreaseFactor             float64 `yaml:"decrease_factor"`
	IncreaseFactor             float64 `yaml:"increase_factor"`
	DecreaseCooldown           int     `yaml:"decrease_cooldown"`
	IncreaseCooldownMultiplier int     `yaml:"increase_cooldown_multiplier"`
	MaxDelta                   float64 `yaml:"max_delta"` // delta-time cap in seconds
}

// SceneConfig holds deterministic starting scene parameters.
type SceneConfig struct {
	EnvironmentCount int     `yaml:"environment_count"`
	NoiseScale       float64 `yaml:"noise_scale"` // spatial frequency of the mass/scale noise
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds between stats records
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds values computed from the loaded configuration.
type DerivedConfig struct {
	DecreaseThresholdMS float64 // frame_budget_ms * decrease_factor
	IncreaseThresholdMS float64 // frame_budget_ms * increase_factor
	IncreaseCooldown    int
}

// Load parses the embedded defaults and overlays the optional user file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// The embedded defaults are validated by tests; a parse failure here
		// is a build defect, not a runtime condition.
		panic(err)
	}
	return cfg
}

func (c *Config) computeDerived() {
	c.Derived.DecreaseThresholdMS = c.Governor.FrameBudgetMS * c.Governor.DecreaseFactor
	c.Derived.IncreaseThresholdMS = c.Governor.FrameBudgetMS * c.Governor.IncreaseFactor
	c.Derived.IncreaseCooldown = c.Governor.DecreaseCooldown * c.Governor.IncreaseCooldownMultiplier
}

// WriteYAML saves the configuration to a file for experiment reproducibility.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
