// Package nonpoint implements radius-aware pathfinding over a navmesh: a
// face-granularity A* search gated by a disc-clearance predicate, a funnel
// string-pull, and a radius inset of the resulting polyline.
package nonpoint

import "github.com/arl/go-detour-radius/detour"

// InvalidIdx marks a Primitive's Inner field as "no primitive".
const InvalidIdx uint16 = 0xffff

// Primitive is a handle shared by vertices, edges and faces of the virtual
// triangle fan over one polygon. Which kind it denotes is never stored on
// the handle itself — it depends on which accessor produced it and which
// range Inner falls into (see Topology's doc comment) — matching how the
// source material multiplexes vertex/edge/face kinds through one index
// space.
type Primitive struct {
	Ref   detour.PolyRef
	Inner uint16
}

// Valid reports whether p denotes a real vertex/edge/face. The zero value is
// invalid, since PolyRef 0 never denotes a real polygon.
func (p Primitive) Valid() bool {
	return p.Ref != 0 && p.Inner != InvalidIdx
}

// faceKey is Primitive's comparable form for use as a map key; Primitive
// itself is already comparable (two plain fields), faceKey just documents
// the intent at call sites that build visited-sets keyed by face identity.
type faceKey = Primitive

// Topology resolves (PolyRef, innerIdx) handles against one navmesh into
// vertices, edges and faces of the virtual per-polygon triangle fan, and
// implements the quad-edge-style adjacency queries over them.
//
// Every accessor is a read-only arithmetic or link-table lookup against the
// wrapped *detour.NavMesh; Topology never mutates it. A Topology borrows its
// navmesh for the duration of one query and is not retained by the
// Primitive handles it produces, which sidesteps the cyclic
// primitive-to-navmesh reference of the reference design.
type Topology struct {
	nav *detour.NavMesh
}

// NewTopology wraps nav for face-topology queries.
func NewTopology(nav *detour.NavMesh) *Topology {
	return &Topology{nav: nav}
}

func (t *Topology) tileAndPoly(ref detour.PolyRef) (*detour.MeshTile, *detour.Poly, detour.Status) {
	var (
		tile *detour.MeshTile
		poly *detour.Poly
	)
	st := t.nav.TileAndPolyByRef(ref, &tile, &poly)
	return tile, poly, st
}

// faceEdges returns the three directed edges of face k of an N-vertex
// polygon, CCW, starting from the boundary side shared with the fan apex
// (v0). See the face table: this is total arithmetic on (N, k), no lookup
// table is materialized.
func faceEdges(n uint8, k uint16) [3]uint16 {
	N := uint16(n)
	switch {
	case N == 3:
		return [3]uint16{0, 1, 2}
	case k == 0:
		return [3]uint16{0, 1, N}
	case k == N-3:
		return [3]uint16{N + 1 + 2*(k-1), k + 1, k + 2}
	default:
		return [3]uint16{N + 1 + 2*(k-1), k + 1, N + 2 + 2*(k-1)}
	}
}

// faceCount returns the number of virtual faces fanned from an N-vertex
// polygon: 1 for a triangle, N-2 otherwise (faces 0..N-3 inclusive).
func faceCount(n uint8) uint16 {
	if n == 3 {
		return 1
	}
	return uint16(n) - 2
}

// Face returns the face-kind primitive k of ref, or the invalid primitive if
// k is out of range.
func (t *Topology) Face(ref detour.PolyRef, k uint16) Primitive {
	_, poly, st := t.tileAndPoly(ref)
	if detour.StatusFailed(st) || k >= faceCount(poly.VertCount) {
		return Primitive{}
	}
	return Primitive{Ref: ref, Inner: k}
}

// PolyInternalFaces enumerates every face of ref's polygon.
func (t *Topology) PolyInternalFaces(ref detour.PolyRef) []Primitive {
	_, poly, st := t.tileAndPoly(ref)
	if detour.StatusFailed(st) {
		return nil
	}
	n := faceCount(poly.VertCount)
	faces := make([]Primitive, n)
	for k := uint16(0); k < n; k++ {
		faces[k] = Primitive{Ref: ref, Inner: k}
	}
	return faces
}

// edgeOriginVertexIdx and edgeDestinationVertexIdx implement §4.2's
// edgeOriginVertex/edgeDestinationVertex arithmetic on raw innerIdx values.
func edgeOriginVertexIdx(e, n uint16) uint16 {
	if e < n {
		return e
	}
	j := e - n
	if j%2 == 1 {
		return 0
	}
	return j/2 + 2
}

func edgeDestinationVertexIdx(e, n uint16) uint16 {
	if e < n {
		return (e + 1) % n
	}
	j := e - n
	if j%2 == 1 {
		return j/2 + 2
	}
	return 0
}

// OriginVertex returns the vertex-kind primitive at the origin of edge e.
func (t *Topology) OriginVertex(e Primitive) Primitive {
	_, poly, st := t.tileAndPoly(e.Ref)
	if detour.StatusFailed(st) {
		return Primitive{}
	}
	return Primitive{Ref: e.Ref, Inner: edgeOriginVertexIdx(e.Inner, uint16(poly.VertCount))}
}

// DestinationVertex returns the vertex-kind primitive at the destination of
// edge e.
func (t *Topology) DestinationVertex(e Primitive) Primitive {
	_, poly, st := t.tileAndPoly(e.Ref)
	if detour.StatusFailed(st) {
		return Primitive{}
	}
	return Primitive{Ref: e.Ref, Inner: edgeDestinationVertexIdx(e.Inner, uint16(poly.VertCount))}
}

// Pos returns the 3D position of a vertex-kind primitive v.
func (t *Topology) Pos(v Primitive) (detour.Status, [3]float32) {
	tile, poly, st := t.tileAndPoly(v.Ref)
	if detour.StatusFailed(st) {
		return st, [3]float32{}
	}
	if v.Inner >= uint16(poly.VertCount) {
		return detour.Failure | detour.InvalidParam, [3]float32{}
	}
	p := detour.VertPos(tile, poly.Verts[v.Inner])
	return detour.Success, [3]float32{p[0], p[1], p[2]}
}

// leftFaceIdx implements edgeLeftFace's arithmetic on raw innerIdx values.
func leftFaceIdx(e, n uint16) uint16 {
	if e < n {
		switch {
		case e == 0 || e == 1:
			return 0
		case e == n-2 || e == n-1:
			return n - 3
		default:
			return e - 1
		}
	}
	j := e - n
	if j%2 == 0 {
		return j / 2
	}
	return j/2 + 1
}

// LeftFace returns the face-kind primitive bordering e on its left.
func (t *Topology) LeftFace(e Primitive) Primitive {
	_, poly, st := t.tileAndPoly(e.Ref)
	if detour.StatusFailed(st) {
		return Primitive{}
	}
	return Primitive{Ref: e.Ref, Inner: leftFaceIdx(e.Inner, uint16(poly.VertCount))}
}

// IsBoundary reports whether e is a polygon-boundary edge with no neighbour
// across it.
func (t *Topology) IsBoundary(e Primitive) bool {
	_, poly, st := t.tileAndPoly(e.Ref)
	if detour.StatusFailed(st) {
		return false
	}
	n := uint16(poly.VertCount)
	return e.Inner < n && poly.Neis[e.Inner] == 0
}

// findLinkEdge returns the PolyLink on tile/poly whose Edge field matches
// edge, or ok=false if none does.
func findLinkEdge(tile *detour.MeshTile, poly *detour.Poly, edge uint8) (detour.PolyLink, bool) {
	for _, l := range detour.IteratePolyLinks(tile, poly) {
		if l.Edge == edge {
			return l, true
		}
	}
	return detour.PolyLink{}, false
}

// findLinkTo returns the PolyLink on tile/poly whose Ref matches to, or
// ok=false if none does.
func findLinkTo(tile *detour.MeshTile, poly *detour.Poly, to detour.PolyRef) (detour.PolyLink, bool) {
	for _, l := range detour.IteratePolyLinks(tile, poly) {
		if l.Ref == to {
			return l, true
		}
	}
	return detour.PolyLink{}, false
}

// OppositeEdge returns the edge-kind primitive on the other side of e: the
// mirror boundary edge of the neighbouring polygon for a polygon-boundary
// edge, or the paired half-edge for an interior diagonal.
//
// Two corrections from some reference variants are applied here, per design
// notes: the ext-link branch is taken when (nei & ExtLinkBit) != 0 (not the
// inverted condition some older code paths used), and an interior edge's
// opposite is always returned as an edge-kind handle, never a vertex-kind
// one.
func (t *Topology) OppositeEdge(e Primitive) Primitive {
	tile, poly, st := t.tileAndPoly(e.Ref)
	if detour.StatusFailed(st) {
		return Primitive{}
	}
	n := uint16(poly.VertCount)

	if e.Inner >= n {
		// Interior diagonal: opposite half-edge is the paired slot.
		return Primitive{Ref: e.Ref, Inner: e.Inner ^ 1}
	}

	nei := poly.Neis[e.Inner]
	if nei == 0 {
		return Primitive{}
	}

	var neighbourRef detour.PolyRef
	if nei&detour.ExtLinkBit != 0 {
		link, ok := findLinkEdge(tile, poly, uint8(e.Inner))
		if !ok {
			return Primitive{}
		}
		neighbourRef = link.Ref
	} else {
		neighbourRef = t.nav.PolyRefBase(tile) | detour.PolyRef(nei-1)
	}

	neighbourTile, neighbourPoly, st := t.tileAndPoly(neighbourRef)
	if detour.StatusFailed(st) {
		return Primitive{}
	}
	mirror, ok := findLinkTo(neighbourTile, neighbourPoly, e.Ref)
	if !ok {
		return Primitive{}
	}
	return Primitive{Ref: neighbourRef, Inner: uint16(mirror.Edge)}
}

// RightFace returns the face-kind primitive bordering e on its right:
// leftFace(opposite(e)).
func (t *Topology) RightFace(e Primitive) Primitive {
	opp := t.OppositeEdge(e)
	if !opp.Valid() {
		return Primitive{}
	}
	return t.LeftFace(opp)
}

// FaceEdge returns the first of face's three edges (edges[0] in the face
// table), a stable anchor used by the clearance oracle (§4.4) to walk a
// face's edges via repeated NextLeftEdge.
func (t *Topology) FaceEdge(face Primitive) Primitive {
	_, poly, st := t.tileAndPoly(face.Ref)
	if detour.StatusFailed(st) {
		return Primitive{}
	}
	edges := faceEdges(poly.VertCount, face.Inner)
	return Primitive{Ref: face.Ref, Inner: edges[0]}
}

// NextLeftEdge rotates e CCW within its left face: the next edge of the
// triangle, in face-table order.
func (t *Topology) NextLeftEdge(e Primitive) Primitive {
	_, poly, st := t.tileAndPoly(e.Ref)
	if detour.StatusFailed(st) {
		return Primitive{}
	}
	face := leftFaceIdx(e.Inner, uint16(poly.VertCount))
	edges := faceEdges(poly.VertCount, face)
	for i, v := range edges {
		if v == e.Inner {
			return Primitive{Ref: e.Ref, Inner: edges[(i+1)%3]}
		}
	}
	return Primitive{}
}

// PrevLeftEdge rotates e CW within its left face. A triangle has three
// corners, so going forward twice is the same as going back once.
func (t *Topology) PrevLeftEdge(e Primitive) Primitive {
	return t.NextLeftEdge(t.NextLeftEdge(e))
}

// NextRightEdge rotates e CCW within its right face.
func (t *Topology) NextRightEdge(e Primitive) Primitive {
	opp := t.OppositeEdge(e)
	if !opp.Valid() {
		return Primitive{}
	}
	prev := t.PrevLeftEdge(opp)
	if !prev.Valid() {
		return Primitive{}
	}
	return t.OppositeEdge(prev)
}

// PrevRightEdge rotates e CW within its right face.
func (t *Topology) PrevRightEdge(e Primitive) Primitive {
	opp := t.OppositeEdge(e)
	if !opp.Valid() {
		return Primitive{}
	}
	next := t.NextLeftEdge(opp)
	if !next.Valid() {
		return Primitive{}
	}
	return t.OppositeEdge(next)
}

// FaceInnerEdges walks a face's three edges via NextLeftEdge, starting at
// FaceEdge(face).
func (t *Topology) FaceInnerEdges(face Primitive) []Primitive {
	start := t.FaceEdge(face)
	if !start.Valid() {
		return nil
	}
	edges := make([]Primitive, 0, 3)
	e := start
	for {
		edges = append(edges, e)
		e = t.NextLeftEdge(e)
		if !e.Valid() || e == start {
			break
		}
	}
	return edges
}

// FaceVertices returns the three vertex-kind primitives at the origins of
// face's inner edges.
func (t *Topology) FaceVertices(face Primitive) []Primitive {
	edges := t.FaceInnerEdges(face)
	verts := make([]Primitive, 0, len(edges))
	for _, e := range edges {
		verts = append(verts, t.OriginVertex(e))
	}
	return verts
}

// FaceNeighbourFaces returns the (up to three) faces sharing an inner edge
// with face, skipping invalid (off-navmesh) neighbours.
func (t *Topology) FaceNeighbourFaces(face Primitive) []Primitive {
	edges := t.FaceInnerEdges(face)
	faces := make([]Primitive, 0, len(edges))
	for _, e := range edges {
		if nf := t.RightFace(e); nf.Valid() {
			faces = append(faces, nf)
		}
	}
	return faces
}
