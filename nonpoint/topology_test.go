package nonpoint

import (
	"testing"

	"github.com/arl/go-detour-radius/detour"
)

func firstPolyRef(t *testing.T, nav *detour.NavMesh) detour.PolyRef {
	t.Helper()
	for i := range nav.Tiles {
		tile := &nav.Tiles[i]
		if tile.Header == nil || tile.Header.PolyCount == 0 {
			continue
		}
		return nav.PolyRefBase(tile)
	}
	t.Fatal("navmesh has no polygons")
	return 0
}

func TestFaceCountQuadAndHex(t *testing.T) {
	tests := []struct {
		name string
		nav  *detour.NavMesh
		n    uint8
		want uint16
	}{
		{"triangle", twoTriangleMesh(t), 3, 1},
		{"quad", quadFanMesh(t), 4, 2},
		{"hex", hexMesh(t), 6, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := faceCount(tt.n); got != tt.want {
				t.Errorf("faceCount(%d) = %d, want %d", tt.n, got, tt.want)
			}

			topo := NewTopology(tt.nav)
			ref := firstPolyRef(t, tt.nav)
			faces := topo.PolyInternalFaces(ref)
			if uint16(len(faces)) != tt.want {
				t.Errorf("PolyInternalFaces returned %d faces, want %d", len(faces), tt.want)
			}
			for _, f := range faces {
				if !f.Valid() {
					t.Errorf("face %v should be valid", f)
				}
			}
		})
	}
}

func TestFaceVerticesAreDistinctTriangle(t *testing.T) {
	nav := hexMesh(t)
	topo := NewTopology(nav)
	ref := firstPolyRef(t, nav)

	for _, face := range topo.PolyInternalFaces(ref) {
		verts := topo.FaceVertices(face)
		if len(verts) != 3 {
			t.Fatalf("face %v has %d vertices, want 3", face, len(verts))
		}
		seen := map[uint16]bool{}
		for _, v := range verts {
			if seen[v.Inner] {
				t.Errorf("face %v has a repeated vertex %v", face, v)
			}
			seen[v.Inner] = true
		}
	}
}

func TestNextLeftEdgeCyclesThreeEdges(t *testing.T) {
	nav := quadFanMesh(t)
	topo := NewTopology(nav)
	ref := firstPolyRef(t, nav)

	for _, face := range topo.PolyInternalFaces(ref) {
		start := topo.FaceEdge(face)
		e := start
		for i := 0; i < 3; i++ {
			e = topo.NextLeftEdge(e)
		}
		if e != start {
			t.Errorf("face %v: three NextLeftEdge steps should return to start, got %v want %v", face, e, start)
		}

		if back := topo.PrevLeftEdge(topo.NextLeftEdge(start)); back != start {
			t.Errorf("face %v: PrevLeftEdge(NextLeftEdge(e)) should be e, got %v want %v", face, back, start)
		}
	}
}

func TestOppositeEdgeIsInvolution(t *testing.T) {
	nav := twoTriangleMesh(t)
	topo := NewTopology(nav)
	ref := firstPolyRef(t, nav)

	for _, face := range topo.PolyInternalFaces(ref) {
		for _, e := range topo.FaceInnerEdges(face) {
			opp := topo.OppositeEdge(e)
			if !opp.Valid() {
				continue // boundary edge, no mirror
			}
			back := topo.OppositeEdge(opp)
			if back != e {
				t.Errorf("OppositeEdge(OppositeEdge(%v)) = %v, want %v", e, back, e)
			}
		}
	}
}

func TestRightFaceCrossesSharedEdge(t *testing.T) {
	nav := twoTriangleMesh(t)
	topo := NewTopology(nav)
	ref := firstPolyRef(t, nav)

	faces := topo.PolyInternalFaces(ref)
	if len(faces) != 1 {
		t.Fatalf("expected 1 internal face per polygon (triangle), got %d", len(faces))
	}

	var sharedEdge Primitive
	var otherRef detour.PolyRef
	for _, e := range topo.FaceInnerEdges(faces[0]) {
		if rf := topo.RightFace(e); rf.Valid() && rf.Ref != ref {
			sharedEdge = e
			otherRef = rf.Ref
			break
		}
	}
	if !sharedEdge.Valid() {
		t.Fatal("expected one edge of the first triangle to border the second")
	}
	if otherRef == ref {
		t.Fatal("RightFace should cross into the neighbouring polygon")
	}
}
