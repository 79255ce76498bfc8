package nonpoint

import (
	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/math32"

	"github.com/arl/go-detour-radius/detour"
)

// Computational geometry helpers used by the clearance oracle and the
// funnel, all xz-plane (ground-plane) tests in the manner of
// detour.TriArea2D and its neighbours — y is carried through interpolation
// only, never compared.

// closestPtSegment2D returns the point on segment pq closest to pt, on the
// xz-plane, and the parameter t at which it occurs.
func closestPtSegment2D(pt, p, q d3.Vec3) (closest d3.Vec3, t float32) {
	pq := q.Sub(p)
	d := pq.Dot2D(pq)
	t = 0
	if d > 0 {
		t = pt.Sub(p).Dot2D(pq) / d
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest = d3.Vec3{
		p[0] + t*pq[0],
		p[1] + t*pq[1],
		p[2] + t*pq[2],
	}
	return closest, t
}

// distSqPointToEdge2D returns the squared xz-plane distance from pt to the
// closest point of segment pq. A degenerate segment (squared xz length
// below 0.01) yields 0.
func distSqPointToEdge2D(pt, p, q d3.Vec3) float32 {
	pq := q.Sub(p)
	if pq.Dot2D(pq) < 0.01 {
		return 0
	}
	closest, _ := closestPtSegment2D(pt, p, q)
	dx := pt[0] - closest[0]
	dz := pt[2] - closest[2]
	return dx*dx + dz*dz
}

// projectPointOnEdge returns the orthogonal projection of pt onto the
// infinite line through p and q, on the xz-plane, unclamped: unlike
// closestPtSegment2D the parameter t is not bounded to [0,1], since a
// boundary edge's supporting line extends past its own endpoints and the
// true closest approach of a disc pivoting at pt can lie beyond them.
func projectPointOnEdge(pt, p, q d3.Vec3) d3.Vec3 {
	pq := q.Sub(p)
	d := pq.Dot2D(pq)
	var t float32
	if d > 0 {
		t = pt.Sub(p).Dot2D(pq) / d
	}
	return d3.Vec3{
		p[0] + t*pq[0],
		p[1] + t*pq[1],
		p[2] + t*pq[2],
	}
}

// vertexAngleCos2D returns cos(theta) where theta is the interior angle at
// vertex b of the path a-b-c, on the xz-plane. ab and ac are computed as
// independent vectors from b (not derived one from the other). Nothing in
// this package calls it; the clearance oracle computes its own angle tests.
func vertexAngleCos2D(a, b, c d3.Vec3) float32 {
	ab := d3.Vec3{a[0] - b[0], 0, a[2] - b[2]}
	ac := d3.Vec3{c[0] - b[0], 0, c[2] - b[2]}
	lab := math32.Sqrt(ab.Dot2D(ab))
	lac := math32.Sqrt(ac.Dot2D(ac))
	if lab < 1e-9 || lac < 1e-9 {
		return 1
	}
	return ab.Dot2D(ac) / (lab * lac)
}

// RelativeSide reports the TriArea2D sign of c relative to directed segment
// a->b: positive when c is left of a->b, negative when right, zero when
// collinear.
func RelativeSide(a, b, c d3.Vec3) int {
	area := detour.TriArea2D(a, b, c)
	switch {
	case area > 1e-6:
		return 1
	case area < -1e-6:
		return -1
	default:
		return 0
	}
}

// edgeEndpoints resolves the two endpoint positions of an edge-kind
// primitive.
func (t *Topology) edgeEndpoints(e Primitive) (p, q d3.Vec3, st detour.Status) {
	ov := t.OriginVertex(e)
	dv := t.DestinationVertex(e)
	stO, pp := t.Pos(ov)
	if detour.StatusFailed(stO) {
		return nil, nil, stO
	}
	stD, qq := t.Pos(dv)
	if detour.StatusFailed(stD) {
		return nil, nil, stD
	}
	return d3.Vec3(pp[:]), d3.Vec3(qq[:]), detour.Success
}
