package nonpoint

import (
	"github.com/arl/gogeo/f32/d3"

	"github.com/arl/go-detour-radius/detour"
	"github.com/arl/go-detour-radius/nonpoint/spatial"
)

// EnableSpatialIndex builds a broad-phase R-tree over nav's polygons and
// attaches it to q; FindNearestFace uses it only as a reject test: when no
// polygon's box overlaps the query box it fails without the navmesh's own
// BV-tree walk, otherwise the BV-tree walk runs as usual. Optional:
// FindNearestFace works without it, just without that early reject.
func (q *RadiusQuery) EnableSpatialIndex() {
	q.index = spatial.Build(q.nav)
}

// FindNearestFace locates the polygon nearest center within halfExtents
// (reusing detour.NavMeshQuery.FindNearestPoly for the polygon), then
// linear-scans that polygon's faces for the one containing the closest
// point, since the radius search operates at face granularity, not polygon
// granularity.
func (q *RadiusQuery) FindNearestFace(center, halfExtents d3.Vec3, filter detour.QueryFilter) (Primitive, d3.Vec3, detour.Status) {
	if q.index != nil {
		var c, h [3]float32
		copy(c[:], center)
		copy(h[:], halfExtents)
		if len(q.index.Query(c, h)) == 0 {
			// Broad phase found nothing in range; skip the BV-tree walk.
			return Primitive{}, nil, detour.Failure
		}
	}

	st, navQuery := detour.NewNavMeshQuery(q.nav, int32(q.maxSearchNodes))
	if detour.StatusFailed(st) {
		return Primitive{}, nil, st
	}

	nearestSt, ref, pt := navQuery.FindNearestPoly(center, halfExtents, filter)
	if detour.StatusFailed(nearestSt) || ref == 0 {
		return Primitive{}, nil, detour.Failure | detour.InvalidParam
	}

	face := q.faceContaining(ref, pt)
	if !face.Valid() {
		// Degenerate polygon (shouldn't happen for a valid navmesh); fall
		// back to face 0.
		face = q.topo.Face(ref, 0)
	}
	return face, pt, detour.Success
}

// faceContaining returns whichever of ref's triangle-fan faces contains pt
// on the XZ plane, or the invalid primitive if none does (pt outside the
// polygon, or lookup failure).
func (q *RadiusQuery) faceContaining(ref detour.PolyRef, pt d3.Vec3) Primitive {
	for _, face := range q.topo.PolyInternalFaces(ref) {
		verts := q.topo.FaceVertices(face)
		if len(verts) != 3 {
			continue
		}
		stA, a := q.topo.Pos(verts[0])
		stB, b := q.topo.Pos(verts[1])
		stC, c := q.topo.Pos(verts[2])
		if detour.StatusFailed(stA) || detour.StatusFailed(stB) || detour.StatusFailed(stC) {
			continue
		}
		if pointInTriangle2D(pt, d3.Vec3(a[:]), d3.Vec3(b[:]), d3.Vec3(c[:])) {
			return face
		}
	}
	return Primitive{}
}

// pointInTriangle2D reports whether p lies inside triangle abc on the XZ
// plane, via same-sign TriArea2D tests against its three edges.
func pointInTriangle2D(p, a, b, c d3.Vec3) bool {
	d1 := detour.TriArea2D(a, b, p)
	d2 := detour.TriArea2D(b, c, p)
	d3v := detour.TriArea2D(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3v < 0
	hasPos := d1 > 0 || d2 > 0 || d3v > 0
	return !(hasNeg && hasPos)
}
