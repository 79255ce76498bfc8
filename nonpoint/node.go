package nonpoint

import "github.com/arl/gogeo/f32/d3"

// radiusNodeFlags mirrors detour.NodeFlags's open/closed bookkeeping, kept
// as a small bitset rather than two bools so a node's membership in the
// open or closed list is a single branch, exactly as in the teacher's A*.
type radiusNodeFlags uint8

const (
	radiusNodeOpen radiusNodeFlags = 1 << iota
	radiusNodeClosed
)

// radiusNode is one A* search node: a face reached through a particular
// entry edge.
type radiusNode struct {
	face      Primitive
	entryEdge Primitive // edge the search entered this face through; invalid for the start node
	parent    *radiusNode
	pos       d3.Vec3
	cost      float32
	total     float32
	flags     radiusNodeFlags
	index     int // position in the open-list heap, -1 when not queued
}

// radiusNodePool hands out at most one radiusNode per face for the
// lifetime of a search, keyed by the face's Primitive rather than the
// hashed-PolyRef buckets of detour.NodePool: faces already compare cheaply
// (two fields), and a search visits far fewer of them than a full polygon
// mesh, so a map serves the same purpose with less bookkeeping.
type radiusNodePool struct {
	nodes    map[Primitive]*radiusNode
	maxNodes int
}

func newRadiusNodePool(maxNodes int) *radiusNodePool {
	return &radiusNodePool{
		nodes:    make(map[Primitive]*radiusNode),
		maxNodes: maxNodes,
	}
}

// node returns the existing node for face, or allocates one if the pool
// isn't full. Returns nil if the pool is exhausted.
func (p *radiusNodePool) node(face Primitive) *radiusNode {
	if n, ok := p.nodes[face]; ok {
		return n
	}
	if len(p.nodes) >= p.maxNodes {
		return nil
	}
	n := &radiusNode{face: face, index: -1}
	p.nodes[face] = n
	return n
}

func (p *radiusNodePool) find(face Primitive) *radiusNode {
	return p.nodes[face]
}

// radiusNodeQueue is a binary min-heap on radiusNode.total, in the shape of
// detour.nodeQueue's bubbleUp/trickleDown: pop/push/modify over a slice,
// except it grows dynamically since a face-graph search has no
// fixed-capacity node budget of its own (the cap lives in the node pool).
type radiusNodeQueue struct {
	heap []*radiusNode
}

func newRadiusNodeQueue() *radiusNodeQueue {
	return &radiusNodeQueue{}
}

func (q *radiusNodeQueue) empty() bool { return len(q.heap) == 0 }

func (q *radiusNodeQueue) bubbleUp(i int, node *radiusNode) {
	parent := (i - 1) / 2
	for i > 0 && q.heap[parent].total > node.total {
		q.heap[i] = q.heap[parent]
		q.heap[i].index = i
		i = parent
		parent = (i - 1) / 2
	}
	q.heap[i] = node
	node.index = i
}

func (q *radiusNodeQueue) trickleDown(i int, node *radiusNode) {
	child := i*2 + 1
	n := len(q.heap)
	for child < n {
		if child+1 < n && q.heap[child].total > q.heap[child+1].total {
			child++
		}
		q.heap[i] = q.heap[child]
		q.heap[i].index = i
		i = child
		child = i*2 + 1
	}
	q.bubbleUp(i, node)
}

func (q *radiusNodeQueue) push(node *radiusNode) {
	q.heap = append(q.heap, nil)
	q.bubbleUp(len(q.heap)-1, node)
}

func (q *radiusNodeQueue) pop() *radiusNode {
	top := q.heap[0]
	last := q.heap[len(q.heap)-1]
	q.heap = q.heap[:len(q.heap)-1]
	top.index = -1
	if len(q.heap) > 0 {
		q.trickleDown(0, last)
	}
	return top
}

func (q *radiusNodeQueue) modify(node *radiusNode) {
	if node.index < 0 || node.index >= len(q.heap) {
		return
	}
	q.bubbleUp(node.index, node)
}
