package pruner

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"
)

// Config declares scheduled sweeps, typically loaded from YAML.
type Config struct {
	Sweeps []SweepConfig `yaml:"sweeps"`
}

// SweepConfig is one scheduled sweep.
type SweepConfig struct {
	Name       string `yaml:"name,omitempty"`
	Expression string `yaml:"expression"`
	Disabled   bool   `yaml:"disabled,omitempty"`
}

// ParseConfig attempts to parse YAML (or JSON, which YAML subsumes) into a
// Config.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, errors.CategoryBadInput, "failed to parse pruner config").
			WithTextCode("INVALID_CONFIG")
	}
	return cfg, cfg.Validate()
}

// Validate checks every enabled sweep declares an expression.
func (c Config) Validate() error {
	var errs error
	for i, sweep := range c.Sweeps {
		if sweep.Disabled {
			continue
		}
		if strings.TrimSpace(sweep.Expression) == "" {
			errs = errors.Join(errs, errors.New(
				fmt.Sprintf("sweep %d (%s): expression is required", i, sweep.Name),
				errors.CategoryBadInput,
			).WithTextCode("MISSING_EXPRESSION"))
		}
	}
	return errs
}

// Apply schedules every enabled sweep in cfg and returns their handles.
// Scheduling stops at the first failure; handles created so far are returned
// alongside the error.
func (s *Scheduler) Apply(cfg Config) ([]Handle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var handles []Handle
	for _, sweep := range cfg.Sweeps {
		if sweep.Disabled {
			continue
		}
		handle, err := s.ScheduleSweep(sweep.Expression)
		if err != nil {
			return handles, err
		}
		handles = append(handles, handle)
	}
	return handles, nil
}
