package nonpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arl/gogeo/f32/d3"

	"github.com/arl/go-detour-radius/detour"
)

func TestFindPathByRadiusTwoTriangles(t *testing.T) {
	nav := twoTriangleMesh(t)
	query := NewRadiusQuery(nav)
	filter := detour.NewStandardQueryFilter()

	topo := NewTopology(nav)
	base := firstPolyRef(t, nav)
	startFace := topo.Face(base|0, 0)
	endFace := topo.Face(base|1, 0)

	startPos := d3.Vec3{0.3, 0, 0.3}
	endPos := d3.Vec3{1.7, 0, 1.7}

	faces, portals, st := query.FindPathByRadius(
		startFace, endFace, startPos, endPos, filter, 0.2, 16, 16)

	assert.False(t, detour.StatusFailed(st), "FindPathByRadius should succeed, status=0x%x", st)
	assert.Equal(t, []Primitive{startFace, endFace}, faces)
	assert.Len(t, portals, 1)
}

func TestFindPathByRadiusRejectsTooWideAgent(t *testing.T) {
	const mid = 0.3
	nav := narrowCorridorMesh(t, mid)
	query := NewRadiusQuery(nav)
	filter := detour.NewStandardQueryFilter()

	topo := NewTopology(nav)
	base := firstPolyRef(t, nav)
	startFace := topo.Face(base|0, 0)
	endFace := topo.Face(base|2, 0)

	startPos := d3.Vec3{0.5, 0, 0}
	endPos := d3.Vec3{4.5, 0, 0}

	_, _, stNarrow := query.FindPathByRadius(
		startFace, endFace, startPos, endPos, filter, 0.1, 16, 16)
	assert.False(t, detour.StatusFailed(stNarrow), "a radius smaller than the pinch should find a path")

	_, _, stWide := query.FindPathByRadius(
		startFace, endFace, startPos, endPos, filter, 2*mid, 16, 16)
	assert.True(t, detour.StatusFailed(stWide) || stWide&detour.PartialResult != 0,
		"a radius wider than the pinch should fail to reach the goal")
}

func TestFindPathByRadiusSameStartAndEndFace(t *testing.T) {
	nav := quadFanMesh(t)
	query := NewRadiusQuery(nav)
	filter := detour.NewStandardQueryFilter()

	topo := NewTopology(nav)
	base := firstPolyRef(t, nav)
	face := topo.Face(base|0, 0)

	faces, portals, st := query.FindPathByRadius(
		face, face, d3.Vec3{0.1, 0, 0.1}, d3.Vec3{0.2, 0, 0.2}, filter, 0.1, 16, 16)

	assert.False(t, detour.StatusFailed(st))
	assert.Equal(t, []Primitive{face}, faces)
	assert.Empty(t, portals)
}

func TestFindPathByRadiusInvalidParams(t *testing.T) {
	nav := twoTriangleMesh(t)
	query := NewRadiusQuery(nav)
	filter := detour.NewStandardQueryFilter()

	topo := NewTopology(nav)
	base := firstPolyRef(t, nav)
	face := topo.Face(base|0, 0)

	_, _, st := query.FindPathByRadius(
		face, face, d3.Vec3{0, 0, 0}, d3.Vec3{1, 0, 1}, filter, 0, 16, 16)
	assert.True(t, detour.StatusFailed(st))
	assert.True(t, st&detour.InvalidParam != 0)
}
