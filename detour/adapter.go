package detour

import "github.com/arl/gogeo/f32/d3"

// This file gathers the read-only accessors that the radius-aware pathfinder
// (package nonpoint) needs from a navmesh: polygon lookup by reference,
// vertex positions, neighbour links and tile portal resolution. Nothing here
// mutates a NavMesh; all of it is safe to call concurrently from independent
// NavMeshQuery instances sharing the same mesh.

// ExtLinkBit marks a Poly.Neis slot as resolved through the tile's link list
// rather than as a same-tile neighbour index. A neis value of 0 means
// boundary, a value with ExtLinkBit set means cross-tile, anything else is a
// 1-based intra-tile neighbour index.
const ExtLinkBit uint16 = extLink

// NullLink is the sentinel Link.Next value marking the end of a polygon's
// link chain.
const NullLink uint32 = nullLink

// PolyRefBase returns the base polygon reference of tile, i.e. the reference
// of the tile's polygon at index 0. The polygon index occupies the low bits,
// so callers compose per-polygon references as base | (polyIndex).
func (m *NavMesh) PolyRefBase(tile *MeshTile) PolyRef {
	return m.polyRefBase(tile)
}

// VertPos returns the position of the vert-th vertex of tile.
func VertPos(tile *MeshTile, vert uint16) d3.Vec3 {
	off := int(vert) * 3
	return d3.Vec3(tile.Verts[off : off+3])
}

// PolyLink is a single entry of a polygon's link list, resolved to directly
// usable values: the neighbour polygon reference and the edge index on the
// *source* polygon (poly, not neighbour) that the link crosses.
type PolyLink struct {
	Ref  PolyRef
	Edge uint8
}

// IteratePolyLinks walks tile's link list for poly and returns every
// neighbour resolved through it. Same-tile neighbours are linked here too
// (connectIntLinks populates the list for them, keyed by the source edge
// index), not only cross-tile and off-mesh ones, so a caller can use the
// link list uniformly to recover "which edge index does this neighbour sit
// behind" without re-deriving it from Poly.Neis.
func IteratePolyLinks(tile *MeshTile, poly *Poly) []PolyLink {
	var links []PolyLink
	for i := poly.FirstLink; i != NullLink; i = tile.Links[i].Next {
		l := &tile.Links[i]
		links = append(links, PolyLink{Ref: l.Ref, Edge: l.Edge})
	}
	return links
}
