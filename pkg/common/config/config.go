package config

import (
	"time"
)

// Config is the full client configuration, loaded from YAML.
type Config struct {
	API     APIConfig     `yaml:"api" validate:"required"`
	Storage StorageConfig `yaml:"storage"`
	NATS    NATSConfig    `yaml:"nats"`
	Wheel   WheelConfig   `yaml:"wheel"`
	Log     LogConfig     `yaml:"log"`
}

type APIConfig struct {
	BaseURL        string        `yaml:"base_url"        validate:"required,url"`
	Token          string        `yaml:"token"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type StorageConfig struct {
	// Directory holds the badger database with durable per-device
	// markers (seen draws). Empty means in-memory markers only.
	Directory string `yaml:"directory"`
}

type NATSConfig struct {
	// URL enables the settlement event stream when non-empty.
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type WheelConfig struct {
	SpinDuration  time.Duration `yaml:"spin_duration"`
	FrameInterval time.Duration `yaml:"frame_interval"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

const (
	DefaultRequestTimeout = 15 * time.Second
	DefaultSpinDuration   = 4 * time.Second
	DefaultFrameInterval  = 16 * time.Millisecond
	DefaultSubjectPrefix  = "numble"
)

func (c *Config) applyDefaults() {
	if c.API.RequestTimeout <= 0 {
		c.API.RequestTimeout = DefaultRequestTimeout
	}
	if c.Wheel.SpinDuration <= 0 {
		c.Wheel.SpinDuration = DefaultSpinDuration
	}
	if c.Wheel.FrameInterval <= 0 {
		c.Wheel.FrameInterval = DefaultFrameInterval
	}
	if c.NATS.SubjectPrefix == "" {
		c.NATS.SubjectPrefix = DefaultSubjectPrefix
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
