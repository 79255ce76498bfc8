package nonpoint

import (
	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/math32"
)

// defaultMaxSubdivisionFactor bounds how far a near-180-degree corner's
// 1/sin blowup is allowed to push the bisector inset, the way a mitre
// limit bounds a stroke join.
const defaultMaxSubdivisionFactor = 10.0

// CornerDebug records, for one interior corner of a modified polyline, the
// original corner position and the agent radius it was inset by — exactly
// the {centre, radius} pair tests check the inset distance against.
type CornerDebug struct {
	Centre d3.Vec3
	Radius float32
}

// RadiusModifier insets a straight-pulled polyline's interior corners
// outward so a disc of the given radius stays clear of them.
type RadiusModifier struct {
	MaxSubdivisionFactor float32
}

// NewRadiusModifier returns a RadiusModifier using the default subdivision
// bound.
func NewRadiusModifier() *RadiusModifier {
	return &RadiusModifier{MaxSubdivisionFactor: defaultMaxSubdivisionFactor}
}

// ApplyModify widens every interior corner of polyline by radius, returning
// the new polyline and a debug marker per widened corner. Endpoints are
// passed through unchanged. maxModified bounds the output buffer; a result
// that would exceed it is truncated from the tail and reported truncated
// via the returned slice lengths (ApplyModify has no detour.Status to carry
// a bit in, so callers detect truncation by comparing len(modified) against
// what they expected).
func (m *RadiusModifier) ApplyModify(polyline []d3.Vec3, radius float32, maxModified int) ([]d3.Vec3, []CornerDebug) {
	path := polyline
	if len(path) < 3 || radius <= 0 {
		n := len(path)
		if maxModified > 0 && n > maxModified {
			n = maxModified
		}
		out := make([]d3.Vec3, n)
		copy(out, path[:n])
		return out, nil
	}

	factor := m.MaxSubdivisionFactor
	if factor <= 0 {
		factor = defaultMaxSubdivisionFactor
	}
	maxOffset := radius * factor

	out := make([]d3.Vec3, 0, len(path)+len(path)/2)
	debug := make([]CornerDebug, 0, len(path)-2)

	out = append(out, d3.NewVec3From(path[0]))
	for i := 1; i < len(path)-1; i++ {
		prev, p, next := path[i-1], path[i], path[i+1]

		u := normalizeXZ(prev.Sub(p))
		v := normalizeXZ(next.Sub(p))

		sum := d3.Vec3{u[0] + v[0], 0, u[2] + v[2]}
		straight := sum.Dot2D(sum) < 1e-8

		var b d3.Vec3
		var offset float32
		if straight {
			// u and v are anti-parallel: a straight-through corridor wall
			// with no corner to widen. The half-angle formula degenerates
			// here (sinHalf == 0), so skip it and push out by exactly r.
			b = d3.Vec3{-u[2], 0, u[0]}
			offset = radius
		} else {
			b = normalizeXZ(sum)

			cosHalf := math32.Sqrt((1 + u.Dot2D(v.Scale(-1))) / 2)
			if cosHalf < 1e-4 {
				offset = maxOffset
			} else {
				sinHalf := math32.Sqrt(1 - cosHalf*cosHalf)
				if sinHalf < 1e-4 {
					offset = maxOffset
				} else {
					offset = radius / sinHalf
				}
			}
		}

		debug = append(debug, CornerDebug{Centre: d3.NewVec3From(p), Radius: radius})

		if offset <= maxOffset {
			out = append(out, d3.Vec3{p[0] + b[0]*offset, p[1], p[2] + b[2]*offset})
			continue
		}

		// Replace the single displaced vertex with two bracketing chord
		// points along an arc of radius r around p, entry and exit tangent
		// points of the turn.
		entry := d3.Vec3{p[0] + u[0]*radius, p[1], p[2] + u[2]*radius}
		exit := d3.Vec3{p[0] + v[0]*radius, p[1], p[2] + v[2]*radius}
		out = append(out, d3.Vec3{entry[0] + b[0]*radius, entry[1], entry[2] + b[2]*radius})
		out = append(out, d3.Vec3{exit[0] + b[0]*radius, exit[1], exit[2] + b[2]*radius})
	}
	out = append(out, d3.NewVec3From(path[len(path)-1]))

	if maxModified > 0 && len(out) > maxModified {
		out = out[:maxModified]
	}

	return out, debug
}

// normalizeXZ returns v with its y component zeroed and its xz magnitude
// scaled to 1; the zero vector is returned unchanged (callers only pass it
// in already-checked degenerate cases).
func normalizeXZ(v d3.Vec3) d3.Vec3 {
	l := math32.Sqrt(v[0]*v[0] + v[2]*v[2])
	if l < 1e-9 {
		return d3.Vec3{0, 0, 0}
	}
	return d3.Vec3{v[0] / l, 0, v[2] / l}
}
