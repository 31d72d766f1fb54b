package pather

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/capmesh/geom"
	"github.com/katalvlaran/capmesh/mesh"
)

// CostModel prices moves between leaves and the use of a leaf's capacity.
// Implementations must be deterministic and must not retain the nodes.
type CostModel interface {
	// Distance is the move cost from a to b.
	Distance(a, b *mesh.Node) float64
	// NodePenalty is the extra cost of routing through n in context c.
	NodePenalty(n *mesh.Node, c PenaltyContext) float64
	Name() string
}

// PenaltyContext is what a CostModel may know about the node being priced.
type PenaltyContext struct {
	// Used is the node's committed usage before this connection.
	Used int
	// StraightLineDistance is the center distance between the connection's
	// start and end leaves.
	StraightLineDistance float64
	// IsPathStart marks the first node of the path.
	IsPathStart bool
}

// CostParams are the named constants of the capacity penalty.
type CostParams struct {
	// ReducedCapacityPenaltyFactor scales factor/remaining while capacity remains.
	ReducedCapacityPenaltyFactor float64
	// NegativeCapacityPenaltyFactor scales the penalty once capacity is exhausted.
	NegativeCapacityPenaltyFactor float64
	// NegativeCapacityExponent shapes growth past exhaustion.
	NegativeCapacityExponent float64
}

// DefaultCostParams returns factors 0.1 and 1 with exponent 2.
func DefaultCostParams() CostParams {
	return CostParams{
		ReducedCapacityPenaltyFactor:  DefaultReducedCapacityPenaltyFactor,
		NegativeCapacityPenaltyFactor: DefaultNegativeCapacityFactor,
		NegativeCapacityExponent:      DefaultNegativeCapacityExponent,
	}
}

// Cost model names accepted by CostModelByName.
const (
	CostEuclidean        = "euclidean"
	CostSizeBiased       = "size-biased"
	CostNegativeCapacity = "negative-capacity"
)

var costModels = map[string]func(CostParams) CostModel{
	CostEuclidean:        func(p CostParams) CostModel { return NewEuclideanCost(p) },
	CostSizeBiased:       func(p CostParams) CostModel { return NewSizeBiasedCost(p) },
	CostNegativeCapacity: func(p CostParams) CostModel { return NewNegativeCapacityCost(p) },
}

// CostModelNames lists the registered names, sorted.
func CostModelNames() []string {
	names := make([]string, 0, len(costModels))
	for n := range costModels {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CostModelByName builds the named model. An empty name selects the
// negative-capacity model.
func CostModelByName(name string, p CostParams) (CostModel, error) {
	if name == "" {
		name = CostNegativeCapacity
	}
	mk, ok := costModels[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownCostModel, name, CostModelNames())
	}
	return mk(p), nil
}

// remaining is the capacity left in n after used paths.
func remaining(n *mesh.Node, used int) float64 {
	return n.TotalCapacity - float64(used)
}

// reducedPenalty is factor/remaining while capacity remains, else 0.
func reducedPenalty(n *mesh.Node, c PenaltyContext, factor float64) float64 {
	r := remaining(n, c.Used)
	if r <= 0 {
		return 0
	}
	return factor / r
}

// sizeBiased divides the distance by the nodes' larger sides so that moves
// between large leaves are cheap.
func sizeBiased(a, b *mesh.Node) float64 {
	d := geom.Dist(a.Center, b.Center)
	scale := a.MaxDim() * b.MaxDim()
	if scale <= 0 {
		return d
	}
	return d / scale
}

// EuclideanCost prices moves by center distance.
type EuclideanCost struct {
	params CostParams
}

// NewEuclideanCost returns a EuclideanCost.
func NewEuclideanCost(p CostParams) *EuclideanCost { return &EuclideanCost{params: p} }

func (m *EuclideanCost) Distance(a, b *mesh.Node) float64 { return geom.Dist(a.Center, b.Center) }

func (m *EuclideanCost) NodePenalty(n *mesh.Node, c PenaltyContext) float64 {
	return reducedPenalty(n, c, m.params.ReducedCapacityPenaltyFactor)
}

func (m *EuclideanCost) Name() string { return CostEuclidean }

// SizeBiasedCost prefers large leaves.
type SizeBiasedCost struct {
	params CostParams
}

// NewSizeBiasedCost returns a SizeBiasedCost.
func NewSizeBiasedCost(p CostParams) *SizeBiasedCost { return &SizeBiasedCost{params: p} }

func (m *SizeBiasedCost) Distance(a, b *mesh.Node) float64 { return sizeBiased(a, b) }

func (m *SizeBiasedCost) NodePenalty(n *mesh.Node, c PenaltyContext) float64 {
	return reducedPenalty(n, c, m.params.ReducedCapacityPenaltyFactor)
}

func (m *SizeBiasedCost) Name() string { return CostSizeBiased }

// NegativeCapacityCost lets paths overrun capacity at a cost that grows with
// the overrun:
//
//	remaining > 0: ReducedCapacityPenaltyFactor / remaining
//	remaining ≤ 0: (1 − remaining)^NegativeCapacityExponent × StraightLineDistance × NegativeCapacityPenaltyFactor
//
// Single-layer leaves carry no penalty except as the first node of a path.
type NegativeCapacityCost struct {
	params CostParams
}

// NewNegativeCapacityCost returns a NegativeCapacityCost.
func NewNegativeCapacityCost(p CostParams) *NegativeCapacityCost {
	return &NegativeCapacityCost{params: p}
}

func (m *NegativeCapacityCost) Distance(a, b *mesh.Node) float64 { return sizeBiased(a, b) }

func (m *NegativeCapacityCost) NodePenalty(n *mesh.Node, c PenaltyContext) float64 {
	if len(n.AvailableZ) == 1 && !c.IsPathStart {
		return 0
	}
	r := remaining(n, c.Used)
	if r > 0 {
		return m.params.ReducedCapacityPenaltyFactor / r
	}
	return math.Pow(1-r, m.params.NegativeCapacityExponent) *
		c.StraightLineDistance * m.params.NegativeCapacityPenaltyFactor
}

func (m *NegativeCapacityCost) Name() string { return CostNegativeCapacity }

// Params returns the model's constants.
func (m *NegativeCapacityCost) Params() CostParams { return m.params }
