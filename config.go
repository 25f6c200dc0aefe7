package ecs

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config tunes a world's fixed capacities and the transform solver.
type Config struct {
	// MaxComponentTypes caps the component registry; registrations beyond
	// it fail with RegistryCapacityError.
	MaxComponentTypes int `yaml:"max_component_types"`
	// InitialEntityCapacity pre-sizes entity bookkeeping. Zero means grow
	// on demand.
	InitialEntityCapacity int `yaml:"initial_entity_capacity"`
	// TransformMaxPasses caps the transform system's fixed-point loop so a
	// pathological hierarchy surfaces a diagnostic instead of hanging.
	TransformMaxPasses int       `yaml:"transform_max_passes"`
	Log                LogConfig `yaml:"log"`
}

// LogConfig selects the runtime logger's behavior.
type LogConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the defaults used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		MaxComponentTypes:  DefaultMaxComponentTypes,
		TransformMaxPasses: 64,
		Log:                LogConfig{Level: "info"},
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxComponentTypes <= 0 {
		c.MaxComponentTypes = def.MaxComponentTypes
	}
	if c.TransformMaxPasses <= 0 {
		c.TransformMaxPasses = def.TransformMaxPasses
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	return c
}

// LoadConfig reads a YAML config file, filling unset fields with defaults.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("ecs: read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("ecs: parse config: %w", err)
	}
	return cfg.withDefaults(), nil
}

// BuildLogger constructs a zap-backed Logger from the log configuration.
func (c LogConfig) BuildLogger() (Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("ecs: log level: %w", err)
	}
	var zcfg zap.Config
	if c.Development {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = level
	zl, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("ecs: build logger: %w", err)
	}
	return NewZapLogger(zl), nil
}
