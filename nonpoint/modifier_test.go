package nonpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arl/gogeo/f32/d3"

	"github.com/arl/go-detour-radius/detour"
)

func TestApplyModifyRightAngleCorner(t *testing.T) {
	const r = float32(0.5)
	path := []d3.Vec3{
		{0, 0, 0},
		{2, 0, 0},
		{2, 0, 2},
	}

	modifier := NewRadiusModifier()
	modified, corners := modifier.ApplyModify(path, r, 16)

	if assert.Len(t, modified, 3) {
		assert.True(t, modified[0].Approx(path[0]), "start point is preserved")
		assert.True(t, modified[2].Approx(path[2]), "end point is preserved")

		dx := modified[1][0] - path[1][0]
		dz := modified[1][2] - path[1][2]
		dist := dx*dx + dz*dz
		assert.GreaterOrEqual(t, dist, r*r-1e-3, "inset corner should be at least r away from the original corner")
	}

	if assert.Len(t, corners, 1) {
		assert.True(t, corners[0].Centre.Approx(path[1]))
		assert.Equal(t, r, corners[0].Radius)
	}
}

func TestApplyModifyStraightCorridorHasNoBlowup(t *testing.T) {
	const r = float32(0.3)
	path := []d3.Vec3{
		{0, 0, 0},
		{1, 0, 0},
		{2, 0, 0},
	}

	modifier := NewRadiusModifier()
	modified, _ := modifier.ApplyModify(path, r, 16)

	if assert.Len(t, modified, 3) {
		// a straight-through corridor wall still gets an outward normal,
		// displaced by exactly r (halfAngle == 90 degrees, no 1/sin blowup).
		dx := modified[1][0] - path[1][0]
		dz := modified[1][2] - path[1][2]
		dist := dx*dx + dz*dz
		assert.InDelta(t, r*r, dist, 1e-3)
	}
}

func TestApplyModifyEndpointsPassThroughUnchanged(t *testing.T) {
	path := []d3.Vec3{{0, 0, 0}, {1, 0, 0}}
	modifier := NewRadiusModifier()
	modified, corners := modifier.ApplyModify(path, 0.4, 16)

	assert.Equal(t, path, modified)
	assert.Empty(t, corners)
}

// TestApplyModifyOnRealLTurn chains FindPathByRadius, StraightPathByRadius
// and ApplyModify over lCorridorMesh's genuine 90-degree turn, rather than a
// hand-built polyline, so the inset math runs against a corner the funnel
// itself produced.
func TestApplyModifyOnRealLTurn(t *testing.T) {
	const r = float32(0.2)
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
		startFace, endFace, startNearest, endNearest, filter, r, 16, 16)
	if !assert.False(t, detour.StatusFailed(st)) {
		t.FailNow()
	}

	polyline, _, _, st := query.StraightPathByRadius(
		startNearest, endNearest, pathFaces, portalEdges, r, 16)
	if !assert.False(t, detour.StatusFailed(st)) {
		t.FailNow()
	}
	if !assert.GreaterOrEqual(t, len(polyline), 3) {
		t.FailNow()
	}

	modifier := NewRadiusModifier()
	modified, corners := modifier.ApplyModify(polyline, r, 16)

	if assert.Len(t, modified, len(polyline)) {
		assert.True(t, modified[0].Approx(polyline[0]), "start point is preserved")
		assert.True(t, modified[len(modified)-1].Approx(polyline[len(polyline)-1]), "end point is preserved")

		corner := polyline[1]
		dx := modified[1][0] - corner[0]
		dz := modified[1][2] - corner[2]
		dist := dx*dx + dz*dz
		assert.GreaterOrEqual(t, dist, r*r-1e-3, "inset corner should be at least r away from the funnel's corner")
	}

	assert.Len(t, corners, len(polyline)-2)
}

func TestApplyModifyMaxModifiedTruncates(t *testing.T) {
	path := []d3.Vec3{
		{0, 0, 0},
		{1, 0, 0},
		{1, 0, 1},
		{0, 0, 1},
		{0, 0, 2},
	}
	modifier := NewRadiusModifier()
	modified, _ := modifier.ApplyModify(path, 0.2, 2)

	assert.Len(t, modified, 2)
}
