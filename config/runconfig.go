package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sarchlab/sysarray/mesh"
	valgen "github.com/sarchlab/sysarray/util"
	"gopkg.in/yaml.v3"
)

// RunConfig describes one batch of accumulation runs.
type RunConfig struct {
	Name        string  `yaml:"name"`
	Size        int     `yaml:"size"`
	WordWidth   uint    `yaml:"word_width"`
	QueueDepth  int     `yaml:"queue_depth"`
	Contraction int     `yaml:"contraction"`
	Runs        int     `yaml:"runs"`
	Seed        int64   `yaml:"seed"`
	Lo          uint64  `yaml:"lo"`
	Hi          uint64  `yaml:"hi"`
	Pattern     string  `yaml:"pattern"`
	FreqGHz     float64 `yaml:"freq_ghz"`
	Monitor     bool    `yaml:"monitor"`
	Report      string  `yaml:"report"`
}

// DefaultRunConfig returns a single 4x4 run with a contraction length of 8.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Name:        "matmul",
		Size:        4,
		WordWidth:   32,
		QueueDepth:  8,
		Contraction: 8,
		Runs:        1,
		Seed:        1,
		Lo:          0,
		Hi:          99,
		Pattern:     string(valgen.PatternRandom),
		FreqGHz:     1,
	}
}

// Validate reports the first invalid field.
func (c RunConfig) Validate() error {
	if c.Size <= 0 {
		return errors.Errorf("size must be > 0, got %d", c.Size)
	}
	if err := mesh.Width(c.WordWidth).Validate(); err != nil {
		return errors.Wrap(err, "invalid word_width")
	}
	if c.QueueDepth <= 0 {
		return errors.Errorf("queue_depth must be > 0, got %d", c.QueueDepth)
	}
	if c.Contraction < 0 {
		return errors.Errorf("contraction must be >= 0, got %d", c.Contraction)
	}
	if c.Runs <= 0 {
		return errors.Errorf("runs must be > 0, got %d", c.Runs)
	}
	if c.Lo > c.Hi {
		return errors.Errorf("lo %d is greater than hi %d", c.Lo, c.Hi)
	}
	if err := valgen.Pattern(c.Pattern).Validate(); err != nil {
		return errors.Wrap(err, "invalid pattern")
	}
	if c.FreqGHz <= 0 {
		return errors.Errorf("freq_ghz must be > 0, got %v", c.FreqGHz)
	}
	return nil
}

// DeviceBuilder returns a builder for the device the configuration
// describes.
func (c RunConfig) DeviceBuilder() DeviceBuilder {
	return DeviceBuilder{}.
		WithSize(c.Size).
		WithWidth(mesh.Width(c.WordWidth)).
		WithQueueDepth(c.QueueDepth)
}

// Stimulus returns the operand generator of run i. Every run has its own
// seed derived from the configured one; the const and increasing patterns
// ignore it and give the same operands in every run.
func (c RunConfig) Stimulus(i int) valgen.Stimulus {
	return valgen.Stimulus{
		Seed:    c.Seed + int64(i),
		Size:    c.Size,
		Lo:      c.Lo,
		Hi:      c.Hi,
		Pattern: valgen.Pattern(c.Pattern),
	}
}

// ParseRunConfig decodes a YAML document. Fields that are absent keep
// their default values.
func ParseRunConfig(data []byte) (RunConfig, error) {
	c := DefaultRunConfig()

	if err := yaml.Unmarshal(data, &c); err != nil {
		return RunConfig{}, errors.Wrap(err, "failed to parse run config")
	}

	if err := c.Validate(); err != nil {
		return RunConfig{}, errors.Wrap(err, "invalid run config")
	}

	return c, nil
}

// LoadRunConfigFromYAML reads a run configuration file.
func LoadRunConfigFromYAML(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, errors.Wrapf(err, "failed to read %s", path)
	}

	c, err := ParseRunConfig(data)
	if err != nil {
		return RunConfig{}, errors.Wrapf(err, "failed to load %s", path)
	}

	return c, nil
}
