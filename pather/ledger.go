package pather

import "maps"

// Ledger counts, per leaf id, how many committed paths pass through it.
// A nil Ledger reads as empty.
type Ledger map[int]int

// Used returns the usage of id.
func (l Ledger) Used(id int) int { return l[id] }

// Add records one more use of every node on path.
func (l Ledger) Add(path []int) {
	for _, id := range path {
		l[id]++
	}
}

// Clone returns an independent copy. Cloning nil yields an empty ledger.
func (l Ledger) Clone() Ledger {
	if l == nil {
		return Ledger{}
	}
	return maps.Clone(l)
}

// Total is the sum of all usage counts.
func (l Ledger) Total() int {
	t := 0
	for _, v := range l {
		t += v
	}
	return t
}
