package nonpoint

import (
	"github.com/arl/gogeo/f32/d3"

	"github.com/arl/go-detour-radius/detour"
)

// ClearanceOracle decides whether a disc of a given radius can transit a
// face corner without touching a constrained (boundary) edge. It shares a
// Topology with the caller so it can be reused across an entire search
// without re-resolving tile/poly lookups per call.
type ClearanceOracle struct {
	topo *Topology
}

// NewClearanceOracle wraps topo for radius-fit queries.
func NewClearanceOracle(topo *Topology) *ClearanceOracle {
	return &ClearanceOracle{topo: topo}
}

// otherEndpoint returns whichever endpoint of edge e is not pivot.
func (c *ClearanceOracle) otherEndpoint(e, pivot Primitive) (Primitive, bool) {
	o, d := c.topo.OriginVertex(e), c.topo.DestinationVertex(e)
	switch {
	case o == pivot:
		return d, true
	case d == pivot:
		return o, true
	default:
		return Primitive{}, false
	}
}

// sharedVertex returns the vertex common to edges e1 and e2, or ok=false if
// they share none.
func sharedVertex(t *Topology, e1, e2 Primitive) (Primitive, bool) {
	o1, d1 := t.OriginVertex(e1), t.DestinationVertex(e1)
	o2, d2 := t.OriginVertex(e2), t.DestinationVertex(e2)
	switch {
	case o1 == o2 || o1 == d2:
		return o1, true
	case d1 == o2 || d1 == d2:
		return d1, true
	default:
		return Primitive{}, false
	}
}

// IsWalkableByRadius returns whether a disc of radius r can pass through
// throughFace, entering on fromEdge and leaving on toEdge.
func (c *ClearanceOracle) IsWalkableByRadius(r float32, fromEdge, throughFace, toEdge Primitive) bool {
	t := c.topo

	vc, ok := sharedVertex(t, fromEdge, toEdge)
	if !ok {
		return false
	}
	va, ok := c.otherEndpoint(fromEdge, vc)
	if !ok {
		return false
	}
	vb, ok := c.otherEndpoint(toEdge, vc)
	if !ok {
		return false
	}

	stA, pa := t.Pos(va)
	stB, pb := t.Pos(vb)
	stC, pc := t.Pos(vc)
	if detour.StatusFailed(stA) || detour.StatusFailed(stB) || detour.StatusFailed(stC) {
		return false
	}
	a, b, cc := d3.Vec3(pa[:]), d3.Vec3(pb[:]), d3.Vec3(pc[:])

	d2 := (2 * r) * (2 * r)

	// Angle at A (CAB): ab and ac are computed as two independent vectors,
	// never derived one from the other, so a degenerate reflex angle can't
	// silently flip the obtuse test.
	ab := b.Sub(a)
	ac := cc.Sub(a)
	if ab.Dot2D(ac) <= 0 {
		return ac.Dot2D(ac) >= d2
	}

	// Angle at B (CBA).
	ba := a.Sub(b)
	bc := cc.Sub(b)
	if ba.Dot2D(bc) <= 0 {
		return bc.Dot2D(bc) >= d2
	}

	adjE, ok := c.adjacentEdge(throughFace, fromEdge, toEdge)
	if !ok {
		return false
	}

	if t.IsBoundary(adjE) {
		p, q, st := t.edgeEndpoints(adjE)
		if detour.StatusFailed(st) {
			return false
		}
		proj := projectPointOnEdge(cc, p, q)
		dx, dz := proj[0]-cc[0], proj[2]-cc[2]
		return dx*dx+dz*dz >= d2
	}

	if ac.Dot2D(ac) < d2 || bc.Dot2D(bc) < d2 {
		return false
	}
	return c.floodAroundPivot(vc, adjE, throughFace, d2)
}

// adjacentEdge picks throughFace's edge opposite the pivot vertex: the one
// of its three edges that is neither fromEdge/toEdge nor their opposites.
func (c *ClearanceOracle) adjacentEdge(face, fromEdge, toEdge Primitive) (Primitive, bool) {
	t := c.topo
	excluded := func(e Primitive) bool {
		return e == fromEdge || e == toEdge ||
			e == t.OppositeEdge(fromEdge) || e == t.OppositeEdge(toEdge)
	}
	e := t.FaceEdge(face)
	for i := 0; i < 3; i++ {
		if !excluded(e) {
			return e, true
		}
		e = t.NextLeftEdge(e)
	}
	return t.PrevLeftEdge(t.FaceEdge(face)), true
}

// otherTwoEdges returns a face's two edges other than entryEdge and its
// opposite, in the order they're encountered walking NextLeftEdge from
// FaceEdge.
func (c *ClearanceOracle) otherTwoEdges(face, entryEdge Primitive) []Primitive {
	t := c.topo
	opp := t.OppositeEdge(entryEdge)
	var others []Primitive
	e := t.FaceEdge(face)
	for i := 0; i < 3; i++ {
		if e != entryEdge && e != opp {
			others = append(others, e)
		}
		e = t.NextLeftEdge(e)
	}
	return others
}

type floodItem struct {
	face, entryEdge Primitive
}

// floodAroundPivot implements the BFS flood of §4.4 step 4b: it walks faces
// fanned around vc, starting on the far side of adjE from throughFace, and
// fails as soon as a boundary edge comes closer to vc than the disc
// diameter.
func (c *ClearanceOracle) floodAroundPivot(vc, adjE, throughFace Primitive, d2 float32) bool {
	t := c.topo

	seedFace := t.RightFace(adjE)
	if !seedFace.Valid() || seedFace == throughFace {
		// adjE borders no other face beyond throughFace: nothing to flood.
		return true
	}

	visited := map[faceKey]struct{}{throughFace: {}, seedFace: {}}
	queue := []floodItem{{face: seedFace, entryEdge: adjE}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		for _, e := range c.otherTwoEdges(item.face, item.entryEdge) {
			p, q, st := t.edgeEndpoints(e)
			if detour.StatusFailed(st) {
				continue
			}
			if distSqPointToEdge2D(vc, p, q) >= d2 {
				continue
			}
			if t.IsBoundary(e) {
				return false
			}
			nextFace := t.RightFace(e)
			if !nextFace.Valid() {
				continue
			}
			if _, seen := visited[nextFace]; seen {
				continue
			}
			visited[nextFace] = struct{}{}
			queue = append(queue, floodItem{face: nextFace, entryEdge: e})
		}
	}
	return true
}
