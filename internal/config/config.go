// Package config holds the small set of tunable constants the input core
// uses for epsilon comparisons, timer conversion and guideline scoring.
// Values are loaded once from the environment (prefix SKETCHCORE_) with
// compiled-in defaults; a malformed environment never prevents startup.
package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

// Tuning carries the process-wide tunable constants for the input core.
type Tuning struct {
	// Epsilon is the fixed positive tolerance used throughout track
	// indexing and interpolation edge policy.
	Epsilon float64 `envconfig:"EPSILON" default:"0.0001"`

	// TickStep is the number of seconds a single host timer tick
	// represents, used to convert ticks to track point time.
	TickStep float64 `envconfig:"TICK_STEP" default:"0.001"`

	// SnapLength is the screen-space length scale (in pixels) used by
	// guideline scoring's log-normal weighting kernel.
	SnapLength float64 `envconfig:"SNAP_LENGTH" default:"20.0"`

	// SnapScale is the (log-space) sigma of the weighting kernel and a
	// factor on SnapLength for the "long enough" cutoff.
	SnapScale float64 `envconfig:"SNAP_SCALE" default:"1.0"`

	// DefaultMagnetism is the magnetism a newly created assistant starts
	// with, in [0,1].
	DefaultMagnetism float64 `envconfig:"DEFAULT_MAGNETISM" default:"1.0"`
}

// Default is the process-wide tuning loaded at package init. Callers that
// need isolated values (e.g. tests) should use Load instead of mutating
// this value in place.
var Default = Load()

// Load reads tuning overrides from the environment, falling back silently
// (after logging) to compiled-in defaults on any parse error.
func Load() Tuning {
	var t Tuning
	if err := envconfig.Process("sketchcore", &t); err != nil {
		log.Printf("[config] failed to load environment overrides, using defaults: %v", err)
		t = Tuning{
			Epsilon:          0.0001,
			TickStep:         0.001,
			SnapLength:       20.0,
			SnapScale:        1.0,
			DefaultMagnetism: 1.0,
		}
	}
	return t
}
