package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/katalvlaran/capmesh/mesh"
	"github.com/katalvlaran/capmesh/pather"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid tuning")

const maxFileSize = 1 * 1024 * 1024

// Tuning holds every tunable constant of the mesh, the pather and the
// supervisor. Nil fields fall back to the defaults returned by the Get*
// methods, so partial files are safe.
type Tuning struct {
	// Mesh
	MaxDepth          *int     `json:"max_depth,omitempty"`
	ViaDiameter       *float64 `json:"via_diameter,omitempty"`
	ObstacleMargin    *float64 `json:"obstacle_margin,omitempty"`
	MaxCapacityFactor *float64 `json:"max_capacity_factor,omitempty"`
	CapacityExponent  *float64 `json:"capacity_exponent,omitempty"`
	MeshMaxIterations *int     `json:"mesh_max_iterations,omitempty"`

	// Pather
	CostModel                    *string  `json:"cost_model,omitempty"` // "euclidean", "size-biased", "negative-capacity"
	Gate                         *string  `json:"gate,omitempty"`       // "soft" or "hard"
	ReducedCapacityPenaltyFactor *float64 `json:"reduced_capacity_penalty_factor,omitempty"`
	NegativeCapacityExponent     *float64 `json:"negative_capacity_exponent,omitempty"`
	AvoidForeignTargets          *bool    `json:"avoid_foreign_targets,omitempty"`
	PatherMaxIterations          *int     `json:"pather_max_iterations,omitempty"`

	// Supervisor axes; the first value of each is the baseline.
	GreedyMultipliers              []float64 `json:"greedy_multipliers,omitempty"`
	NegativeCapacityPenaltyFactors []float64 `json:"negative_capacity_penalty_factors,omitempty"`

	SupervisorGreedyMultiplier *float64 `json:"supervisor_greedy_multiplier,omitempty"`
	SupervisorMinSubsteps      *int     `json:"supervisor_min_substeps,omitempty"`
	// ParallelWorkers > 0 races the attempts on goroutines.
	ParallelWorkers *int `json:"parallel_workers,omitempty"`
}

// Default returns an empty Tuning; every Get* reports its default.
func Default() *Tuning { return &Tuning{} }

// Load reads a Tuning from a .json file of at most 1 MiB and validates it.
func Load(path string) (*Tuning, error) {
	clean := filepath.Clean(path)
	if ext := filepath.Ext(clean); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}
	info, err := os.Stat(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	t := Default()
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks every set field.
func (t *Tuning) Validate() error {
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"via_diameter", t.ViaDiameter},
		{"max_capacity_factor", t.MaxCapacityFactor},
		{"capacity_exponent", t.CapacityExponent},
		{"reduced_capacity_penalty_factor", t.ReducedCapacityPenaltyFactor},
		{"negative_capacity_exponent", t.NegativeCapacityExponent},
		{"supervisor_greedy_multiplier", t.SupervisorGreedyMultiplier},
	} {
		if f.v != nil && !(*f.v > 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalid, f.name, *f.v)
		}
	}
	if t.ObstacleMargin != nil && *t.ObstacleMargin < 0 {
		return fmt.Errorf("%w: obstacle_margin must be non-negative, got %g", ErrInvalid, *t.ObstacleMargin)
	}
	if t.MaxDepth != nil && *t.MaxDepth < 0 {
		return fmt.Errorf("%w: max_depth must be non-negative, got %d", ErrInvalid, *t.MaxDepth)
	}
	for _, f := range []struct {
		name string
		v    *int
	}{
		{"mesh_max_iterations", t.MeshMaxIterations},
		{"pather_max_iterations", t.PatherMaxIterations},
		{"supervisor_min_substeps", t.SupervisorMinSubsteps},
	} {
		if f.v != nil && *f.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalid, f.name, *f.v)
		}
	}
	if t.ParallelWorkers != nil && *t.ParallelWorkers < 0 {
		return fmt.Errorf("%w: parallel_workers must be non-negative, got %d", ErrInvalid, *t.ParallelWorkers)
	}
	for _, g := range t.GreedyMultipliers {
		if !(g > 1) || math.IsInf(g, 0) {
			return fmt.Errorf("%w: greedy_multipliers must be finite and greater than 1, got %g", ErrInvalid, g)
		}
	}
	for _, f := range t.NegativeCapacityPenaltyFactors {
		if f < 0 {
			return fmt.Errorf("%w: negative_capacity_penalty_factors must be non-negative, got %g", ErrInvalid, f)
		}
	}
	if _, err := pather.CostModelByName(t.GetCostModel(), pather.DefaultCostParams()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := pather.ParseGate(t.GetGate()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func (t *Tuning) GetMaxDepth() int {
	if t.MaxDepth == nil {
		return mesh.DefaultMaxDepth
	}
	return *t.MaxDepth
}

func (t *Tuning) GetViaDiameter() float64 {
	if t.ViaDiameter == nil {
		return mesh.DefaultViaDiameter
	}
	return *t.ViaDiameter
}

func (t *Tuning) GetObstacleMargin() float64 {
	if t.ObstacleMargin == nil {
		return mesh.DefaultObstacleMargin
	}
	return *t.ObstacleMargin
}

func (t *Tuning) GetMaxCapacityFactor() float64 {
	if t.MaxCapacityFactor == nil {
		return mesh.DefaultMaxCapacityFactor
	}
	return *t.MaxCapacityFactor
}

func (t *Tuning) GetCapacityExponent() float64 {
	if t.CapacityExponent == nil {
		return mesh.DefaultCapacityExponent
	}
	return *t.CapacityExponent
}

func (t *Tuning) GetMeshMaxIterations() int {
	if t.MeshMaxIterations == nil {
		return mesh.DefaultMaxIterations
	}
	return *t.MeshMaxIterations
}

func (t *Tuning) GetCostModel() string {
	if t.CostModel == nil {
		return pather.CostNegativeCapacity
	}
	return *t.CostModel
}

func (t *Tuning) GetGate() string {
	if t.Gate == nil {
		return pather.GateSoft.String()
	}
	return *t.Gate
}

func (t *Tuning) GetReducedCapacityPenaltyFactor() float64 {
	if t.ReducedCapacityPenaltyFactor == nil {
		return pather.DefaultReducedCapacityPenaltyFactor
	}
	return *t.ReducedCapacityPenaltyFactor
}

func (t *Tuning) GetNegativeCapacityExponent() float64 {
	if t.NegativeCapacityExponent == nil {
		return pather.DefaultNegativeCapacityExponent
	}
	return *t.NegativeCapacityExponent
}

func (t *Tuning) GetAvoidForeignTargets() bool {
	return t.AvoidForeignTargets != nil && *t.AvoidForeignTargets
}

func (t *Tuning) GetPatherMaxIterations() int {
	if t.PatherMaxIterations == nil {
		return pather.DefaultMaxIterations
	}
	return *t.PatherMaxIterations
}

// GetGreedyMultipliers returns the pather GreedyMultiplier axis.
func (t *Tuning) GetGreedyMultipliers() []float64 {
	if len(t.GreedyMultipliers) == 0 {
		return []float64{pather.DefaultGreedyMultiplier, 1.5, 4}
	}
	return t.GreedyMultipliers
}

// GetNegativeCapacityPenaltyFactors returns the penalty-factor axis.
func (t *Tuning) GetNegativeCapacityPenaltyFactors() []float64 {
	if len(t.NegativeCapacityPenaltyFactors) == 0 {
		return []float64{pather.DefaultNegativeCapacityFactor, 2, 0.5}
	}
	return t.NegativeCapacityPenaltyFactors
}

func (t *Tuning) GetSupervisorGreedyMultiplier() float64 {
	if t.SupervisorGreedyMultiplier == nil {
		return 1.5
	}
	return *t.SupervisorGreedyMultiplier
}

func (t *Tuning) GetSupervisorMinSubsteps() int {
	if t.SupervisorMinSubsteps == nil {
		return 1
	}
	return *t.SupervisorMinSubsteps
}

func (t *Tuning) GetParallelWorkers() int {
	if t.ParallelWorkers == nil {
		return 0
	}
	return *t.ParallelWorkers
}

// MeshOptions converts the mesh fields to builder options.
func (t *Tuning) MeshOptions() []mesh.Option {
	return []mesh.Option{
		mesh.WithMaxDepth(t.GetMaxDepth()),
		mesh.WithViaDiameter(t.GetViaDiameter()),
		mesh.WithObstacleMargin(t.GetObstacleMargin()),
		mesh.WithMaxCapacityFactor(t.GetMaxCapacityFactor()),
		mesh.WithCapacityExponent(t.GetCapacityExponent()),
		mesh.WithMaxIterations(t.GetMeshMaxIterations()),
	}
}

// CostParams returns the penalty constants with the given negative-capacity
// factor, one value of the supervisor's axis.
func (t *Tuning) CostParams(negativeFactor float64) pather.CostParams {
	return pather.CostParams{
		ReducedCapacityPenaltyFactor:  t.GetReducedCapacityPenaltyFactor(),
		NegativeCapacityPenaltyFactor: negativeFactor,
		NegativeCapacityExponent:      t.GetNegativeCapacityExponent(),
	}
}
