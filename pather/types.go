package pather

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Sentinel errors for pathing.
var (
	// ErrUnknownNode indicates a connection endpoint that is not a mesh leaf.
	ErrUnknownNode = errors.New("pather: connection endpoint is not a mesh node")

	// ErrNoPath indicates the open set was exhausted before reaching the goal.
	ErrNoPath = errors.New("pather: no path")

	// ErrUnknownCostModel indicates CostModelByName got an unregistered name.
	ErrUnknownCostModel = errors.New("pather: unknown cost model")

	// ErrOptionViolation indicates an invalid Option value.
	ErrOptionViolation = errors.New("pather: invalid option supplied")
)

// Default tuning constants.
const (
	DefaultGreedyMultiplier             = 2.5
	DefaultMaxIterations                = 200_000
	DefaultReducedCapacityPenaltyFactor = 0.1
	DefaultNegativeCapacityFactor       = 1.0
	DefaultNegativeCapacityExponent     = 2.0
)

// Connection asks for one path from the Start leaf to the End leaf.
type Connection struct {
	Name  string
	Start int
	End   int
}

// CapacityPath is the ordered leaf-id sequence found for one connection.
type CapacityPath struct {
	ConnectionName string
	NodeIDs        []int
}

// Gate selects how a full node is treated during expansion.
type Gate int

const (
	// GateSoft always admits a neighbor and lets the cost model penalize
	// exhausted capacity. It cannot fail on a connected graph.
	GateSoft Gate = iota
	// GateHard rejects neighbors whose used capacity has reached their total,
	// except for the goal itself.
	GateHard
)

// String returns "soft" or "hard".
func (g Gate) String() string {
	if g == GateHard {
		return "hard"
	}
	return "soft"
}

// ParseGate maps "soft" / "hard" to a Gate.
func ParseGate(s string) (Gate, error) {
	switch s {
	case "soft", "":
		return GateSoft, nil
	case "hard":
		return GateHard, nil
	}
	return GateSoft, fmt.Errorf("%w: gate %q", ErrOptionViolation, s)
}

// Options configures a Pather.
type Options struct {
	CostModel CostModel
	Gate      Gate
	// GreedyMultiplier weighs the heuristic: f = g + h × GreedyMultiplier.
	GreedyMultiplier float64
	MaxIterations    int
	// AvoidForeignTargets skips leaves holding another connection's terminal.
	AvoidForeignTargets bool
	// Ledger seeds used capacity; it is cloned, never mutated.
	Ledger Ledger
	Logger *zap.Logger

	err error
}

// Option configures a Pather.
type Option func(*Options)

// DefaultOptions returns NegativeCapacityCost with default factors, a soft
// gate, GreedyMultiplier 2.5 and a 200 000 step ceiling.
func DefaultOptions() Options {
	return Options{
		CostModel:        NewNegativeCapacityCost(DefaultCostParams()),
		Gate:             GateSoft,
		GreedyMultiplier: DefaultGreedyMultiplier,
		MaxIterations:    DefaultMaxIterations,
		Logger:           zap.NewNop(),
	}
}

// WithCostModel sets the cost strategy.
func WithCostModel(m CostModel) Option {
	return func(o *Options) {
		if m == nil {
			o.err = fmt.Errorf("%w: nil CostModel", ErrOptionViolation)
			return
		}
		o.CostModel = m
	}
}

// WithGate selects the capacity gate.
func WithGate(g Gate) Option {
	return func(o *Options) {
		if g != GateSoft && g != GateHard {
			o.err = fmt.Errorf("%w: gate %d", ErrOptionViolation, g)
			return
		}
		o.Gate = g
	}
}

// WithGreedyMultiplier sets the heuristic weight (must be finite and ≥ 0).
func WithGreedyMultiplier(m float64) Option {
	return func(o *Options) {
		if m < 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			o.err = fmt.Errorf("%w: GreedyMultiplier must be finite and non-negative (%g)", ErrOptionViolation, m)
			return
		}
		o.GreedyMultiplier = m
	}
}

// WithMaxIterations overrides the step ceiling (must be > 0).
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: MaxIterations must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxIterations = n
	}
}

// WithAvoidForeignTargets keeps paths out of other connections' terminal leaves.
func WithAvoidForeignTargets() Option {
	return func(o *Options) { o.AvoidForeignTargets = true }
}

// WithLedger seeds the used-capacity ledger. The ledger is cloned.
func WithLedger(l Ledger) Option {
	return func(o *Options) { o.Ledger = l }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
