package nonpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arl/gogeo/f32/d3"

	"github.com/arl/go-detour-radius/detour"
)

func TestStraightPathByRadiusSingleFace(t *testing.T) {
	nav := quadFanMesh(t)
	query := NewRadiusQuery(nav)
	topo := NewTopology(nav)
	base := firstPolyRef(t, nav)
	face := topo.Face(base|0, 0)

	startPos := d3.Vec3{0.1, 0, 0.1}
	endPos := d3.Vec3{2.5, 0, 2.5}

	polyline, flags, faceRefs, st := query.StraightPathByRadius(
		startPos, endPos, []Primitive{face}, nil, 0.2, 16)

	assert.False(t, detour.StatusFailed(st))
	if assert.Len(t, polyline, 2) {
		assert.True(t, polyline[0].Approx(startPos))
		assert.True(t, polyline[1].Approx(endPos))
	}
	if assert.Len(t, flags, 2) {
		assert.Equal(t, detour.StraightPathStart, flags[0])
		assert.Equal(t, detour.StraightPathEnd, flags[len(flags)-1])
	}
	assert.Len(t, faceRefs, 2)
}

func TestStraightPathByRadiusAcrossTwoTriangles(t *testing.T) {
	nav := twoTriangleMesh(t)
	query := NewRadiusQuery(nav)
	topo := NewTopology(nav)
	base := firstPolyRef(t, nav)
	startFace := topo.Face(base|0, 0)
	endFace := topo.Face(base|1, 0)

	filter := detour.NewStandardQueryFilter()
	startPos := d3.Vec3{0.1, 0, 0.1}
	endPos := d3.Vec3{1.9, 0, 1.9}

	pathFaces, portalEdges, st := query.FindPathByRadius(
		startFace, endFace, startPos, endPos, filter, 0.1, 16, 16)
	if !assert.False(t, detour.StatusFailed(st)) {
		t.FailNow()
	}

	polyline, flags, _, st := query.StraightPathByRadius(
		startPos, endPos, pathFaces, portalEdges, 0.1, 16)
	assert.False(t, detour.StatusFailed(st))
	assert.GreaterOrEqual(t, len(polyline), 2)
	assert.Equal(t, detour.StraightPathStart, flags[0])
	assert.Equal(t, detour.StraightPathEnd, flags[len(flags)-1])
	assert.True(t, polyline[0].Approx(startPos))
	assert.True(t, polyline[len(polyline)-1].Approx(endPos))
}

// TestStraightPathByRadiusLTurn exercises the funnel across a genuine
// corner: start and end sit in rooms (A and C of lCorridorMesh) that share
// no edge, so the straight pull must bend around the L's inner corner
// v2=(2,0,2), taking the restart branches at funnel.go's left/right update
// blocks that the direct-line-of-sight fixtures never reach.
func TestStraightPathByRadiusLTurn(t *testing.T) {
	nav := lCorridorMesh(t)
	query := NewRadiusQuery(nav)
	filter := detour.NewStandardQueryFilter()

	startPos := d3.Vec3{0.3, 0, 1.7}
	endPos := d3.Vec3{2.3, 0, 3.7}
	extents := d3.Vec3{0.5, 1, 0.5}

	startFace, startNearest, st := query.FindNearestFace(startPos, extents, filter)
	if !assert.False(t, detour.StatusFailed(st)) {
		t.FailNow()
	}
	endFace, endNearest, st := query.FindNearestFace(endPos, extents, filter)
	if !assert.False(t, detour.StatusFailed(st)) {
		t.FailNow()
	}

	pathFaces, portalEdges, st := query.FindPathByRadius(
		startFace, endFace, startNearest, endNearest, filter, 0.1, 16, 16)
	if !assert.False(t, detour.StatusFailed(st)) {
		t.FailNow()
	}

	polyline, flags, _, st := query.StraightPathByRadius(
		startNearest, endNearest, pathFaces, portalEdges, 0.1, 16)
	if !assert.False(t, detour.StatusFailed(st)) {
		t.FailNow()
	}

	assert.Equal(t, detour.StraightPathStart, flags[0])
	assert.Equal(t, detour.StraightPathEnd, flags[len(flags)-1])

	// The only feasible pivot around the L's concave corner is v2 itself;
	// a real interior corner must have been emitted there.
	if assert.GreaterOrEqual(t, len(polyline), 3, "an L-turn must emit at least one interior corner") {
		corner := polyline[1]
		assert.InDelta(t, 2.0, corner[0], 1e-2)
		assert.InDelta(t, 2.0, corner[2], 1e-2)

		// the turn has a definite direction: walking start->corner->end
		// gives a negative TriArea2D (a right turn in RelativeSide's sign
		// convention), never straight or the other way.
		assert.Less(t, detour.TriArea2D(startNearest, corner, endNearest), float32(0))
	}
}

func TestStraightPathByRadiusBufferTooSmall(t *testing.T) {
	nav := twoTriangleMesh(t)
	query := NewRadiusQuery(nav)
	topo := NewTopology(nav)
	base := firstPolyRef(t, nav)
	startFace := topo.Face(base|0, 0)
	endFace := topo.Face(base|1, 0)

	filter := detour.NewStandardQueryFilter()
	startPos := d3.Vec3{0.1, 0, 0.1}
	endPos := d3.Vec3{1.9, 0, 1.9}

	pathFaces, portalEdges, st := query.FindPathByRadius(
		startFace, endFace, startPos, endPos, filter, 0.1, 16, 16)
	if !assert.False(t, detour.StatusFailed(st)) {
		t.FailNow()
	}

	_, _, _, st = query.StraightPathByRadius(
		startPos, endPos, pathFaces, portalEdges, 0.1, 1)
	assert.True(t, st&detour.BufferTooSmall != 0)
}
