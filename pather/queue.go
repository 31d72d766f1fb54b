package pather

// candidate is one open-set entry of the per-connection A*. Candidates are
// never shared between connections.
type candidate struct {
	id   int
	g    float64
	h    float64
	f    float64
	prev *candidate
	seq  int
}

// path walks prev links back to the start and returns the ids start→c.
func (c *candidate) path() []int {
	var ids []int
	for cur := c; cur != nil; cur = cur.prev {
		ids = append(ids, cur.id)
	}
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids
}

// candidatePQ is a min-heap on f with insertion order breaking ties, so equal
// f values pop first-in first-out. Stale entries stay in the heap and are
// skipped when popped (lazy decrease-key).
type candidatePQ []*candidate

func (pq candidatePQ) Len() int { return len(pq) }

func (pq candidatePQ) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq candidatePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *candidatePQ) Push(x any) { *pq = append(*pq, x.(*candidate)) }

func (pq *candidatePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]

	return item
}
