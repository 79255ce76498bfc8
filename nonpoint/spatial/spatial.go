// Package spatial indexes navmesh polygons on the ground plane (XZ) so a
// nearest-face query can reject a query box that overlaps no polygon before
// the navmesh's own BV-tree walk, which still gives the exact answer, in the
// manner of beetlebugorg-s57's chart feature index.
package spatial

import (
	"github.com/dhconnelly/rtreego"

	"github.com/arl/go-detour-radius/detour"
)

// minChildren/maxChildren match the branching factor beetlebugorg-s57 uses
// for its chart feature index; nothing about navmesh polygon counts
// suggests a different split, so it's kept as-is.
const (
	minChildren = 25
	maxChildren = 50
)

// polyEntry wraps one polygon's 2D (XZ) AABB for R-tree storage.
type polyEntry struct {
	ref      detour.PolyRef
	minX     float64
	minZ     float64
	lengthX  float64
	lengthZ  float64
}

// Bounds implements rtreego.Spatial.
func (e *polyEntry) Bounds() rtreego.Rect {
	const epsilon = 1e-4
	lx, lz := e.lengthX, e.lengthZ
	if lx < epsilon {
		lx = epsilon
	}
	if lz < epsilon {
		lz = epsilon
	}
	rect, _ := rtreego.NewRect(rtreego.Point{e.minX, e.minZ}, []float64{lx, lz})
	return rect
}

// Index is a broad-phase spatial index over every polygon of one navmesh.
type Index struct {
	rtree *rtreego.Rtree
}

// Build scans every tile and polygon of nav and indexes their ground-plane
// bounding boxes.
func Build(nav *detour.NavMesh) *Index {
	tree := rtreego.NewTree(2, minChildren, maxChildren)

	for i := range nav.Tiles {
		tile := &nav.Tiles[i]
		if tile.Header == nil || tile.Header.PolyCount == 0 {
			continue
		}
		base := nav.PolyRefBase(tile)
		for p := int32(0); p < tile.Header.PolyCount; p++ {
			poly := &tile.Polys[p]
			if poly.VertCount == 0 {
				continue
			}
			minX, minZ := float32(0), float32(0)
			maxX, maxZ := float32(0), float32(0)
			for v := uint8(0); v < poly.VertCount; v++ {
				pos := detour.VertPos(tile, poly.Verts[v])
				if v == 0 {
					minX, maxX = pos[0], pos[0]
					minZ, maxZ = pos[2], pos[2]
					continue
				}
				if pos[0] < minX {
					minX = pos[0]
				}
				if pos[0] > maxX {
					maxX = pos[0]
				}
				if pos[2] < minZ {
					minZ = pos[2]
				}
				if pos[2] > maxZ {
					maxZ = pos[2]
				}
			}
			tree.Insert(&polyEntry{
				ref:     base | detour.PolyRef(p),
				minX:    float64(minX),
				minZ:    float64(minZ),
				lengthX: float64(maxX - minX),
				lengthZ: float64(maxZ - minZ),
			})
		}
	}
	return &Index{rtree: tree}
}

// Query returns every polygon reference whose ground-plane AABB intersects
// the box centered on center with the given XZ half-extents.
func (idx *Index) Query(center [3]float32, halfExtents [3]float32) []detour.PolyRef {
	minX := float64(center[0] - halfExtents[0])
	minZ := float64(center[2] - halfExtents[2])
	lengthX := float64(2 * halfExtents[0])
	lengthZ := float64(2 * halfExtents[2])
	if lengthX <= 0 {
		lengthX = 1e-4
	}
	if lengthZ <= 0 {
		lengthZ = 1e-4
	}
	rect, err := rtreego.NewRect(rtreego.Point{minX, minZ}, []float64{lengthX, lengthZ})
	if err != nil {
		return nil
	}
	hits := idx.rtree.SearchIntersect(rect)
	refs := make([]detour.PolyRef, 0, len(hits))
	for _, h := range hits {
		if e, ok := h.(*polyEntry); ok {
			refs = append(refs, e.ref)
		}
	}
	return refs
}
