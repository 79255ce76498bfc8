package nonpoint

import (
	"testing"

	"github.com/arl/go-detour-radius/detour"
)

// fixturePoly is one polygon of a hand-built single-tile navmesh fixture, by
// index into the fixture's shared vertex list.
type fixturePoly struct {
	verts []int
	flags uint16
	area  uint8
}

// buildFixtureNavMesh quantizes verts (already in world units) against cs/ch
// and assembles a single-tile navmesh out of polys, computing poly adjacency
// by matching shared reversed edges (the way recast's mesh-adjacency pass
// would, before handing off to detour.CreateNavMeshData) since this
// workspace's copy of that pass was dropped along with the rest of the
// recast build pipeline (construction from raw geometry is out of scope;
// see DESIGN.md).
func buildFixtureNavMesh(t *testing.T, verts [][3]float32, polys []fixturePoly, nvp int32) *detour.NavMesh {
	t.Helper()

	const cs, ch = 0.1, 0.1

	bmin, bmax := verts[0], verts[0]
	for _, v := range verts[1:] {
		for k := 0; k < 3; k++ {
			if v[k] < bmin[k] {
				bmin[k] = v[k]
			}
			if v[k] > bmax[k] {
				bmax[k] = v[k]
			}
		}
	}

	qverts := make([]uint16, len(verts)*3)
	for i, v := range verts {
		qverts[i*3+0] = uint16((v[0] - bmin[0]) / cs)
		qverts[i*3+1] = uint16((v[1] - bmin[1]) / ch)
		qverts[i*3+2] = uint16((v[2] - bmin[2]) / cs)
	}

	polyData := make([]uint16, len(polys)*int(nvp)*2)
	flags := make([]uint16, len(polys))
	areas := make([]uint8, len(polys))

	for i, p := range polys {
		base := i * int(nvp) * 2
		for j := 0; j < int(nvp); j++ {
			if j < len(p.verts) {
				polyData[base+j] = uint16(p.verts[j])
			} else {
				polyData[base+j] = detour.MESH_NULL_IDX
			}
		}
		flags[i] = p.flags
		areas[i] = p.area
	}

	// Adjacency: for each directed edge (a,b) of poly i, find the poly (and
	// its matching edge) carrying the reversed edge (b,a); if none, it's a
	// tile-boundary edge.
	for i, p := range polys {
		n := len(p.verts)
		base := i * int(nvp) * 2
		for j := 0; j < n; j++ {
			a := p.verts[j]
			b := p.verts[(j+1)%n]

			neighbour := int32(-1)
			for k, q := range polys {
				if k == i {
					continue
				}
				m := len(q.verts)
				for l := 0; l < m; l++ {
					if q.verts[l] == b && q.verts[(l+1)%m] == a {
						neighbour = int32(k)
					}
				}
			}

			if neighbour >= 0 {
				polyData[base+int(nvp)+j] = uint16(neighbour)
			} else {
				polyData[base+int(nvp)+j] = 0x8000 | 0xf
			}
		}
	}

	params := &detour.NavMeshCreateParams{
		Verts:          qverts,
		VertCount:      int32(len(verts)),
		Polys:          polyData,
		PolyFlags:      flags,
		PolyAreas:      areas,
		PolyCount:      int32(len(polys)),
		Nvp:            nvp,
		WalkableHeight: 2.0,
		WalkableRadius: 0.0,
		WalkableClimb:  0.5,
		Cs:             cs,
		Ch:             ch,
		BuildBvTree:    true,
	}
	copy(params.BMin[:], bmin[:])
	copy(params.BMax[:], bmax[:])

	data, err := detour.CreateNavMeshData(params)
	if err != nil {
		t.Fatalf("CreateNavMeshData: %v", err)
	}

	nav := &detour.NavMesh{}
	if st := nav.InitForSingleTile(data, 0); detour.StatusFailed(st) {
		t.Fatalf("InitForSingleTile failed with status 0x%x", st)
	}
	return nav
}

// twoTriangleMesh builds the two-triangle fixture of a single shared edge:
//
//	2---3
//	|\  |
//	| \ |
//	|  \|
//	0---1
//
// triangle A = (0,1,2), triangle B = (1,3,2), sharing edge (1,2).
func twoTriangleMesh(t *testing.T) *detour.NavMesh {
	t.Helper()
	verts := [][3]float32{
		{0, 0, 0},
		{2, 0, 0},
		{0, 0, 2},
		{2, 0, 2},
	}
	polys := []fixturePoly{
		{verts: []int{0, 1, 2}, flags: 1, area: 0},
		{verts: []int{1, 3, 2}, flags: 1, area: 0},
	}
	return buildFixtureNavMesh(t, verts, polys, 3)
}

// quadFanMesh builds a single convex quadrilateral polygon (4 verts, 2
// internal faces once triangle-fanned), with no neighbours.
func quadFanMesh(t *testing.T) *detour.NavMesh {
	t.Helper()
	verts := [][3]float32{
		{0, 0, 0},
		{3, 0, 0},
		{3, 0, 3},
		{0, 0, 3},
	}
	polys := []fixturePoly{
		{verts: []int{0, 1, 2, 3}, flags: 1, area: 0},
	}
	return buildFixtureNavMesh(t, verts, polys, 4)
}

// hexMesh builds a single convex hexagon (6 verts, 4 internal faces).
func hexMesh(t *testing.T) *detour.NavMesh {
	t.Helper()
	verts := [][3]float32{
		{2, 0, 0},
		{4, 0, 1},
		{4, 0, 3},
		{2, 0, 4},
		{0, 0, 3},
		{0, 0, 1},
	}
	polys := []fixturePoly{
		{verts: []int{0, 1, 2, 3, 4, 5}, flags: 1, area: 0},
	}
	return buildFixtureNavMesh(t, verts, polys, 6)
}

// lCorridorMesh builds three square rooms forming an L-shaped free space:
//
//	      7---6
//	      | C |
//	  3---2---5
//	  | A | B |
//	  0---1---4
//
// room A: x:[0,2] z:[0,2], room B: x:[2,4] z:[0,2], room C: x:[2,4] z:[2,4].
// A and C share no edge, so any path between them must turn at the inner
// (concave) corner v2=(2,0,2), the shared vertex of all three rooms —
// exactly the pivot a funnel L-turn or a radius-modifier 90-degree corner
// test needs.
func lCorridorMesh(t *testing.T) *detour.NavMesh {
	t.Helper()
	verts := [][3]float32{
		{0, 0, 0}, // v0
		{2, 0, 0}, // v1
		{2, 0, 2}, // v2: the inner corner of the L
		{0, 0, 2}, // v3
		{4, 0, 0}, // v4
		{4, 0, 2}, // v5
		{4, 0, 4}, // v6
		{2, 0, 4}, // v7
	}
	polys := []fixturePoly{
		{verts: []int{0, 1, 2, 3}, flags: 1, area: 0}, // A
		{verts: []int{1, 4, 5, 2}, flags: 1, area: 0}, // B
		{verts: []int{2, 5, 6, 7}, flags: 1, area: 0}, // C
	}
	return buildFixtureNavMesh(t, verts, polys, 4)
}

// narrowCorridorMesh builds three quads end to end: a trapezoid A tapering
// from full width down to 2*mid, a constant-width pinch strip B at width
// 2*mid, and a mirrored trapezoid C tapering back out to full width — for
// clearance/search tests that need to distinguish a radius that fits
// through the pinch from one that doesn't. Shared edges are built from
// exactly the same vertex pairs so the adjacency pass links them.
func narrowCorridorMesh(t *testing.T, mid float32) *detour.NavMesh {
	t.Helper()
	verts := [][3]float32{
		{0, 0, -1}, {0, 0, 1}, // v0,v1: A's full-width opening
		{2, 0, -mid}, {2, 0, mid}, // v2,v3: A/B pinch edge
		{3, 0, -mid}, {3, 0, mid}, // v4,v5: B/C pinch edge
		{5, 0, -1}, {5, 0, 1}, // v6,v7: C's full-width opening
	}
	polys := []fixturePoly{
		{verts: []int{0, 2, 3, 1}, flags: 1, area: 0},
		{verts: []int{2, 4, 5, 3}, flags: 1, area: 0},
		{verts: []int{4, 6, 7, 5}, flags: 1, area: 0},
	}
	return buildFixtureNavMesh(t, verts, polys, 4)
}
