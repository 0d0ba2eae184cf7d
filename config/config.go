// Package config loads the YAML-backed simulation configuration: the
// routing horizon, the simulation quantum, which scheduler strategy to
// run, and the capacity knobs each strategy takes.
package config

import (
	"io/ioutil"

	"gopkg.in/yaml.v3"

	"github.com/ts2/transitcore/transiterr"
)

// SchedulerStrategy selects between the two schedule-synthesis heuristics.
type SchedulerStrategy string

const (
	// StrategyS2 is the capacity-weighted greedy edge router.
	StrategyS2 SchedulerStrategy = "s2"
	// StrategyS3 is the shortest-path-seed-and-coalesce router (default).
	StrategyS3 SchedulerStrategy = "s3"
)

// Config is the top-level simulation configuration.
type Config struct {
	// Horizon bounds the number of vertices A* will expand before
	// giving up on a passenger (original_source default: 100).
	Horizon int `yaml:"horizon"`
	// Quantum is Q, the width of the schedule graph's board-train edge
	// search window [t, t+Q) and of its wait-one-quantum edge. The
	// server also uses it as its audit observer's period.
	Quantum int `yaml:"quantum"`
	// MaxStepSize bounds each internal step of RunForTime and each tick
	// of the background clock started by Simulator.Start.
	MaxStepSize int `yaml:"max_step_size"`
	// MaxTrainsAtATime caps how many synthesized routes Scheduler3 will
	// settle on: its coalesce loop stops early once the route count
	// drops to this size (original_source default: 2).
	MaxTrainsAtATime int `yaml:"max_trains_at_a_time"`
	// RepeatTime is the period Scheduler2's synthesized TrainRoutes
	// repeat on. Scheduler3 instead fixes repeat_time to each route's
	// own path length, per spec.
	RepeatTime int `yaml:"repeat_time"`
	// DefaultSpeed is the travel speed assigned to Scheduler2's
	// synthesized routes. Scheduler3 fixes its own routes' speed to 0.5.
	DefaultSpeed float64 `yaml:"default_speed"`
	// Strategy selects S2 or S3.
	Strategy SchedulerStrategy `yaml:"strategy"`
	// Server holds the optional HTTP/WebSocket observation surface
	// configuration.
	Server ServerConfig `yaml:"server"`
}

// ServerConfig configures the ambient HTTP/WebSocket surface.
type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Port    string `yaml:"port"`
}

// Default returns the configuration used when no file is supplied,
// matching original_source's compiled-in defaults.
func Default() Config {
	return Config{
		Horizon:          100,
		Quantum:          1,
		MaxStepSize:      60,
		MaxTrainsAtATime: 2,
		RepeatTime:       60,
		DefaultSpeed:     1.0,
		Strategy:         StrategyS3,
		Server: ServerConfig{
			Enabled: false,
			Addr:    "localhost",
			Port:    "22222",
		},
	}
}

// Load reads and validates a YAML configuration file. Fields the file
// does not set keep their Default() values; a field the file sets to
// zero stays zero, and a non-positive horizon or quantum is rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, transiterr.New(transiterr.InvalidInput, "reading config %q: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, transiterr.New(transiterr.InvalidInput, "parsing config %q: %v", path, err)
	}
	if cfg.Horizon <= 0 {
		return cfg, transiterr.New(transiterr.InvalidInput, "horizon must be positive, got %d", cfg.Horizon)
	}
	if cfg.Quantum <= 0 {
		return cfg, transiterr.New(transiterr.InvalidInput, "quantum must be positive, got %d", cfg.Quantum)
	}
	return cfg, nil
}
