package nonpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arl/go-detour-radius/detour"
)

// polyFaces returns the internal faces of the i'th polygon in a
// single-tile navmesh, assuming polygons were inserted in construction
// order (true of buildFixtureNavMesh's fixtures).
func polyFaces(t *testing.T, topo *Topology, nav *detour.NavMesh, i int32) []Primitive {
	t.Helper()
	base := firstPolyRef(t, nav)
	ref := base | detour.PolyRef(i)
	return topo.PolyInternalFaces(ref)
}

// edgeToward returns whichever edge of face borders poly targetRef, or the
// invalid primitive if none does.
func edgeToward(topo *Topology, face Primitive, targetRef detour.PolyRef) Primitive {
	for _, e := range topo.FaceInnerEdges(face) {
		if rf := topo.RightFace(e); rf.Valid() && rf.Ref == targetRef {
			return e
		}
	}
	return Primitive{}
}

// diagonalBetween returns whichever edge of face borders the other face of
// the same polygon (the fan diagonal), or invalid if face has one edge
// (a triangle has none).
func diagonalBetween(topo *Topology, face, other Primitive) Primitive {
	for _, e := range topo.FaceInnerEdges(face) {
		if rf := topo.RightFace(e); rf.Valid() && rf == other {
			return e
		}
	}
	return Primitive{}
}

// walkableAcrossPoly reports whether a disc of radius r can cross a quad
// polygon split into two virtual faces, entering on the edge shared with
// fromRef and leaving on the edge shared with toRef.
func walkableAcrossPoly(t *testing.T, clear *ClearanceOracle, topo *Topology, nav *detour.NavMesh, polyIdx int32, fromRef, toRef detour.PolyRef, r float32) bool {
	t.Helper()
	faces := polyFaces(t, topo, nav, polyIdx)
	if len(faces) != 2 {
		t.Fatalf("expected a quad to fan into 2 faces, got %d", len(faces))
	}

	for _, near := range faces {
		far := faces[0]
		if near == faces[0] {
			far = faces[1]
		}
		entry := edgeToward(topo, near, fromRef)
		if !entry.Valid() {
			continue
		}
		diag := diagonalBetween(topo, near, far)
		if !diag.Valid() {
			continue
		}
		exit := edgeToward(topo, far, toRef)
		if !exit.Valid() {
			continue
		}
		if !clear.IsWalkableByRadius(r, entry, near, diag) {
			return false
		}
		diagOpp := topo.OppositeEdge(diag)
		return clear.IsWalkableByRadius(r, diagOpp, far, exit)
	}
	t.Fatal("could not find a face of polyIdx bordering both fromRef and toRef")
	return false
}

func TestClearanceOraclePinchPoint(t *testing.T) {
	const mid = 0.5 // half-width of the pinch, so a disc of radius <0.5 fits and >0.5 doesn't

	nav := narrowCorridorMesh(t, mid)
	topo := NewTopology(nav)
	clear := NewClearanceOracle(topo)

	base := firstPolyRef(t, nav)
	refA := base | 0
	refC := base | 2

	assert.True(t, walkableAcrossPoly(t, clear, topo, nav, 1, refA, refC, 0.2),
		"small radius should fit through the pinch")
	assert.False(t, walkableAcrossPoly(t, clear, topo, nav, 1, refA, refC, 0.8),
		"radius larger than the pinch half-width should not fit")
}
