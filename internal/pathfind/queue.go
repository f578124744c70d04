package pathfind

import "container/heap"

type queueItem struct {
	node         Node
	seq          uint64 // insertion order, breaks F ties
	indexInQueue int
}

// openQueue is a min-heap on F, first-inserted wins on ties.
type openQueue []*queueItem

func (q openQueue) Len() int { return len(q) }

func (q openQueue) Less(i, j int) bool {
	if q[i].node.F != q[j].node.F {
		return q[i].node.F < q[j].node.F
	}
	return q[i].seq < q[j].seq
}

func (q openQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].indexInQueue = i
	q[j].indexInQueue = j
}

func (q *openQueue) Push(x any) {
	item := x.(*queueItem)
	item.indexInQueue = len(*q)
	*q = append(*q, item)
}

func (q *openQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.indexInQueue = -1
	*q = old[:n-1]
	return item
}

var _ heap.Interface = (*openQueue)(nil)
