package mesh

import "math"

// Capacity returns the number of traces a node of the given width can carry
// before penalties escalate:
//
//	((width / (ViaDiameter/2 + ObstacleMargin)) / 2) ^ CapacityExponent × MaxCapacityFactor
//
// The result is non-decreasing in width. Under DefaultOptions a node of width
// 1 has capacity exactly 1.
func Capacity(width float64, o Options) float64 {
	if width <= 0 {
		return 0
	}
	viaLengthAcross := width / (o.ViaDiameter/2 + o.ObstacleMargin)
	return math.Pow(viaLengthAcross/2, o.CapacityExponent) * o.MaxCapacityFactor
}
