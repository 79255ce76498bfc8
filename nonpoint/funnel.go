package nonpoint

import (
	"github.com/arl/gogeo/f32/d3"

	"github.com/arl/go-detour-radius/detour"
)

// StraightPathByRadius string-pulls a face corridor (as produced by
// FindPathByRadius) into a polyline, using the funnel algorithm. portalEdges[i]
// is the edge of pathFaces[i] crossed to reach pathFaces[i+1]; len(portalEdges)
// == len(pathFaces)-1.
//
// radius is accepted for symmetry with the rest of the radius-aware pipeline
// and is not read by the funnel itself: string-pulling is a pure corridor
// operation, the disc is only introduced afterwards by ApplyModify. It is
// kept as a parameter rather than dropped so a future fused
// pull-and-inset pass can be added here without an API break.
func (q *RadiusQuery) StraightPathByRadius(
	startPos, endPos d3.Vec3,
	pathFaces, portalEdges []Primitive,
	radius float32,
	maxPolyline int,
) (polyline []d3.Vec3, flags []uint8, faceRefs []detour.PolyRef, status detour.Status) {

	if len(pathFaces) == 0 || maxPolyline <= 0 {
		return nil, nil, nil, detour.Failure | detour.InvalidParam
	}

	appendVertex := func(pos d3.Vec3, fl uint8, face Primitive) detour.Status {
		if len(polyline) > 0 && pos.Approx(polyline[len(polyline)-1]) {
			flags[len(flags)-1] = fl
			faceRefs[len(faceRefs)-1] = face.Ref
			return detour.InProgress
		}
		polyline = append(polyline, d3.NewVec3From(pos))
		flags = append(flags, fl)
		faceRefs = append(faceRefs, face.Ref)
		if len(polyline) >= maxPolyline {
			return detour.Success | detour.BufferTooSmall
		}
		if fl == detour.StraightPathEnd {
			return detour.Success
		}
		return detour.InProgress
	}

	if stat := appendVertex(startPos, detour.StraightPathStart, pathFaces[0]); stat != detour.InProgress {
		return polyline, flags, faceRefs, stat
	}

	if len(pathFaces) == 1 {
		appendVertex(endPos, detour.StraightPathEnd, pathFaces[0])
		return polyline, flags, faceRefs, detour.Success
	}

	portalLeft := d3.NewVec3From(startPos)
	portalRight := d3.NewVec3From(startPos)
	portalApex := d3.NewVec3From(startPos)
	apexIndex, leftIndex, rightIndex := 0, 0, 0
	leftFace, rightFace := pathFaces[0], pathFaces[0]
	var leftVert, rightVert Primitive

	// prevLeftVert/prevRightVert are the vertex identities contributed by
	// the previous portal (bootstrapped from startPos for portal 0); since
	// two consecutive portals of a corridor always share exactly one
	// vertex, whichever of the next portal's two endpoints matches one of
	// these continues that same side, and the other is the new opposite
	// side. This is independent of the funnel's own left/right rails,
	// which can lag many portals behind once the funnel has narrowed, so a
	// restart reseeds it from the emitted corner vertex rather than
	// clearing it.
	var prevLeftVert, prevRightVert Primitive

	resolveSide := func(i int, o, d Primitive, op, dp d3.Vec3) (left, right d3.Vec3, lv, rv, lf, rf Primitive, ok bool) {
		switch {
		case i == 0:
			// startPos left of origin->destination means the portal's origin
			// vertex is the RIGHT rail here (RelativeSide(op, dp, startPos)
			// is the cyclic-invariant form of the original's
			// relativeSide(startPos, originPos, destinationPos); a LEFT
			// result there flips direction to RIGHT and files the origin
			// vertex under fromVertex/right).
			if RelativeSide(op, dp, startPos) >= 0 {
				return dp, op, d, o, pathFaces[i+1], pathFaces[i], true
			}
			return op, dp, o, d, pathFaces[i], pathFaces[i+1], true
		case o == prevLeftVert:
			return op, dp, o, d, pathFaces[i], pathFaces[i+1], true
		case o == prevRightVert:
			return dp, op, d, o, pathFaces[i+1], pathFaces[i], true
		case d == prevLeftVert:
			return dp, op, d, o, pathFaces[i+1], pathFaces[i], true
		case d == prevRightVert:
			return op, dp, o, d, pathFaces[i], pathFaces[i+1], true
		default:
			return nil, nil, Primitive{}, Primitive{}, Primitive{}, Primitive{}, false
		}
	}

	i := 0
	for i < len(portalEdges)+1 {
		var left, right d3.Vec3
		var lv, rv, lf, rf Primitive
		var stat detour.Status

		if i < len(portalEdges) {
			e := portalEdges[i]
			o := q.topo.OriginVertex(e)
			d := q.topo.DestinationVertex(e)
			stO, op := q.topo.Pos(o)
			stD, dp := q.topo.Pos(d)
			if detour.StatusFailed(stO) || detour.StatusFailed(stD) {
				return polyline, flags, faceRefs, detour.Failure | detour.InvalidParam
			}
			var ok bool
			left, right, lv, rv, lf, rf, ok = resolveSide(i, o, d, d3.Vec3(op[:]), d3.Vec3(dp[:]))
			if !ok {
				return polyline, flags, faceRefs, detour.Failure | detour.InvalidParam
			}
			prevLeftVert, prevRightVert = lv, rv
		} else {
			left, right = endPos, endPos
			lf, rf = pathFaces[len(pathFaces)-1], pathFaces[len(pathFaces)-1]
		}

		// Right update.
		if detour.TriArea2D(portalApex, portalRight, right) >= 0 {
			if portalApex.Approx(portalRight) || detour.TriArea2D(portalApex, portalLeft, right) < 0 {
				portalRight.Assign(right)
				rightFace = rf
				rightVert = rv
				rightIndex = i
			} else {
				portalApex.Assign(portalLeft)
				apexIndex = leftIndex
				stat = appendVertex(portalApex, 0, leftFace)
				if stat != detour.InProgress {
					return polyline, flags, faceRefs, stat
				}
				portalLeft.Assign(portalApex)
				portalRight.Assign(portalApex)
				leftIndex, rightIndex = apexIndex, apexIndex
				prevLeftVert, prevRightVert = leftVert, leftVert
				i = apexIndex
				i++
				continue
			}
		}

		// Left update.
		if detour.TriArea2D(portalApex, portalLeft, left) <= 0 {
			if portalApex.Approx(portalLeft) || detour.TriArea2D(portalApex, portalRight, left) > 0 {
				portalLeft.Assign(left)
				leftFace = lf
				leftVert = lv
				leftIndex = i
			} else {
				portalApex.Assign(portalRight)
				apexIndex = rightIndex
				stat = appendVertex(portalApex, 0, rightFace)
				if stat != detour.InProgress {
					return polyline, flags, faceRefs, stat
				}
				portalLeft.Assign(portalApex)
				portalRight.Assign(portalApex)
				leftIndex, rightIndex = apexIndex, apexIndex
				prevLeftVert, prevRightVert = rightVert, rightVert
				i = apexIndex
				i++
				continue
			}
		}

		i++
	}

	appendVertex(endPos, detour.StraightPathEnd, pathFaces[len(pathFaces)-1])
	return polyline, flags, faceRefs, detour.Success
}
