package mesh

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Default tuning constants.
const (
	DefaultMaxDepth          = 6
	DefaultViaDiameter       = 0.6
	DefaultObstacleMargin    = 0.2
	DefaultMaxCapacityFactor = 1.0
	DefaultCapacityExponent  = 1.1
	DefaultMaxIterations     = 100_000
)

// Options tunes subdivision depth and the capacity formula.
type Options struct {
	// MaxDepth bounds the subdivision depth; no finished node is deeper.
	MaxDepth int
	// ViaDiameter and ObstacleMargin size the via footprint used by the
	// capacity formula and the z-split via-fit threshold.
	ViaDiameter    float64
	ObstacleMargin float64
	// MaxCapacityFactor scales every node's capacity.
	MaxCapacityFactor float64
	// CapacityExponent shapes capacity growth with width.
	CapacityExponent float64
	// MaxIterations is the builder's step ceiling.
	MaxIterations int
	Logger        *zap.Logger

	err error
}

// Option configures the mesh builder.
type Option func(*Options)

// DefaultOptions returns the default tuning.
func DefaultOptions() Options {
	return Options{
		MaxDepth:          DefaultMaxDepth,
		ViaDiameter:       DefaultViaDiameter,
		ObstacleMargin:    DefaultObstacleMargin,
		MaxCapacityFactor: DefaultMaxCapacityFactor,
		CapacityExponent:  DefaultCapacityExponent,
		MaxIterations:     DefaultMaxIterations,
		Logger:            zap.NewNop(),
	}
}

// WithMaxDepth sets the subdivision depth limit (must be ≥ 0).
func WithMaxDepth(d int) Option {
	return func(o *Options) {
		if d < 0 {
			o.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, d)
			return
		}
		o.MaxDepth = d
	}
}

// WithViaDiameter sets the via diameter (must be > 0).
func WithViaDiameter(d float64) Option {
	return func(o *Options) {
		if !(d > 0) {
			o.err = fmt.Errorf("%w: ViaDiameter must be positive (%g)", ErrOptionViolation, d)
			return
		}
		o.ViaDiameter = d
	}
}

// WithObstacleMargin sets the clearance kept around vias (must be ≥ 0).
func WithObstacleMargin(m float64) Option {
	return func(o *Options) {
		if m < 0 || math.IsNaN(m) {
			o.err = fmt.Errorf("%w: ObstacleMargin cannot be negative (%g)", ErrOptionViolation, m)
			return
		}
		o.ObstacleMargin = m
	}
}

// WithMaxCapacityFactor scales node capacity (must be > 0).
func WithMaxCapacityFactor(f float64) Option {
	return func(o *Options) {
		if !(f > 0) {
			o.err = fmt.Errorf("%w: MaxCapacityFactor must be positive (%g)", ErrOptionViolation, f)
			return
		}
		o.MaxCapacityFactor = f
	}
}

// WithCapacityExponent sets the width exponent of the capacity formula (must be > 0).
func WithCapacityExponent(e float64) Option {
	return func(o *Options) {
		if !(e > 0) {
			o.err = fmt.Errorf("%w: CapacityExponent must be positive (%g)", ErrOptionViolation, e)
			return
		}
		o.CapacityExponent = e
	}
}

// WithMaxIterations overrides the builder's step ceiling.
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: MaxIterations must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxIterations = n
	}
}

// WithLogger sets the builder's logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// ViaFitThreshold is the node width below which a via plus clearance no
// longer fits, making simultaneous multi-layer routing unsafe.
func (o Options) ViaFitThreshold() float64 {
	return o.ViaDiameter + 2*o.ObstacleMargin
}
