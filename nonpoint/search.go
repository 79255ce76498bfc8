package nonpoint

import (
	"github.com/arl/gogeo/f32/d3"

	"github.com/arl/go-detour-radius/detour"
	"github.com/arl/go-detour-radius/nonpoint/spatial"
)

// defaultMaxSearchNodes bounds a single FindPathByRadius call's node pool,
// mirroring the fixed node budget of detour.NavMeshQuery; unlike that
// budget it's a per-call setting rather than query-lifetime, since a face
// graph has no natural upper bound analogous to a tile's polygon count.
const defaultMaxSearchNodes = 2048

// RadiusQuery answers radius-aware pathfinding and string-pulling requests
// against one navmesh. It owns a Topology and a ClearanceOracle, both cheap
// to construct, so a RadiusQuery can be built per request or kept around;
// neither holds search-local state between calls.
type RadiusQuery struct {
	nav   *detour.NavMesh
	topo  *Topology
	clear *ClearanceOracle
	index *spatial.Index

	maxSearchNodes int
}

// NewRadiusQuery wraps nav for radius-aware queries.
func NewRadiusQuery(nav *detour.NavMesh) *RadiusQuery {
	topo := NewTopology(nav)
	return &RadiusQuery{
		nav:            nav,
		topo:           topo,
		clear:          NewClearanceOracle(topo),
		maxSearchNodes: defaultMaxSearchNodes,
	}
}

// SetMaxSearchNodes overrides the per-call search node budget.
func (q *RadiusQuery) SetMaxSearchNodes(n int) {
	if n > 0 {
		q.maxSearchNodes = n
	}
}

func (q *RadiusQuery) tileAndPoly(ref detour.PolyRef) (*detour.MeshTile, *detour.Poly, detour.Status) {
	var (
		tile *detour.MeshTile
		poly *detour.Poly
	)
	st := q.nav.TileAndPolyByRef(ref, &tile, &poly)
	return tile, poly, st
}

func (q *RadiusQuery) passFilter(face Primitive, filter detour.QueryFilter) bool {
	tile, poly, st := q.tileAndPoly(face.Ref)
	if detour.StatusFailed(st) {
		return false
	}
	return filter.PassFilter(face.Ref, tile, poly)
}

func (q *RadiusQuery) cost(pa, pb d3.Vec3, face Primitive, filter detour.QueryFilter) float32 {
	tile, poly, st := q.tileAndPoly(face.Ref)
	if detour.StatusFailed(st) {
		return pa.Dist(pb)
	}
	return filter.Cost(pa, pb, 0, nil, nil, face.Ref, tile, poly, 0, nil, nil)
}

// FindPathByRadius runs an A* search over the face graph from startFace to
// endFace, gated by the clearance oracle at radius, and returns the ordered
// face corridor plus the portal edge crossed between each consecutive pair
// (len(portals) == len(faces)-1).
func (q *RadiusQuery) FindPathByRadius(
	startFace, endFace Primitive,
	startPos, endPos d3.Vec3,
	filter detour.QueryFilter,
	radius float32,
	maxPath, maxPortal int,
) (pathFaces []Primitive, portalEdges []Primitive, status detour.Status) {

	if radius <= 0.01 || !startFace.Valid() || !endFace.Valid() ||
		len(startPos) < 3 || len(endPos) < 3 || filter == nil || maxPath <= 0 || maxPortal < 0 {
		return nil, nil, detour.Failure | detour.InvalidParam
	}

	if startFace == endFace {
		return []Primitive{startFace}, nil, detour.Success
	}

	pool := newRadiusNodePool(q.maxSearchNodes)
	open := newRadiusNodeQueue()

	startNode := pool.node(startFace)
	startNode.pos = startPos
	startNode.entryEdge = Primitive{}
	startNode.cost = 0
	startNode.total = startPos.Dist(endPos) * detour.HScale
	startNode.flags = radiusNodeOpen
	open.push(startNode)

	lastBest := startNode
	lastBestCost := startNode.total

	outOfNodes := false

	for !open.empty() {
		best := open.pop()
		best.flags &^= radiusNodeOpen
		best.flags |= radiusNodeClosed

		if best.face == endFace {
			lastBest = best
			break
		}

		for _, edge := range q.topo.FaceInnerEdges(best.face) {
			neighbour := q.topo.RightFace(edge)
			if !neighbour.Valid() || neighbour == best.face {
				continue
			}
			if best.parent != nil && neighbour == best.parent.face {
				continue
			}

			if !q.passFilter(neighbour, filter) {
				continue
			}
			if best.face != startFace &&
				!q.clear.IsWalkableByRadius(radius, best.entryEdge, best.face, edge) {
				continue
			}

			nNode := pool.node(neighbour)
			if nNode == nil {
				outOfNodes = true
				continue
			}

			if nNode.flags == 0 {
				p, dd, stE := q.topo.edgeEndpoints(edge)
				if detour.StatusFailed(stE) {
					continue
				}
				nNode.pos, _ = closestPtSegment2D(best.pos, p, dd)
			}

			var cost, heuristic float32
			if neighbour == endFace {
				curCost := q.cost(best.pos, nNode.pos, best.face, filter)
				endCost := q.cost(nNode.pos, endPos, neighbour, filter)
				cost = best.cost + curCost + endCost
				heuristic = 0
			} else {
				curCost := q.cost(best.pos, nNode.pos, best.face, filter)
				cost = best.cost + curCost
				heuristic = nNode.pos.Dist(endPos) * detour.HScale
			}
			total := cost + heuristic

			if (nNode.flags&radiusNodeOpen) != 0 && total >= nNode.total {
				continue
			}
			if (nNode.flags&radiusNodeClosed) != 0 && total >= nNode.total {
				continue
			}

			nNode.parent = best
			nNode.entryEdge = edge
			nNode.cost = cost
			nNode.total = total
			nNode.flags &^= radiusNodeClosed

			if (nNode.flags & radiusNodeOpen) != 0 {
				open.modify(nNode)
			} else {
				nNode.flags |= radiusNodeOpen
				open.push(nNode)
			}

			if heuristic < lastBestCost {
				lastBestCost = heuristic
				lastBest = nNode
			}
		}
	}

	pathFaces, portalEdges = pathToFaces(lastBest)

	if len(pathFaces) > maxPath {
		// Truncate from the start side, keeping the goal-adjacent tail.
		drop := len(pathFaces) - maxPath
		pathFaces = pathFaces[drop:]
		status |= detour.BufferTooSmall
	}
	if len(portalEdges) > maxPortal {
		drop := len(portalEdges) - maxPortal
		portalEdges = portalEdges[drop:]
		status |= detour.BufferTooSmall
	}

	status |= detour.Success
	if lastBest.face != endFace {
		status |= detour.PartialResult
	}
	if outOfNodes {
		status |= detour.OutOfNodes
	}
	return pathFaces, portalEdges, status
}

// pathToFaces walks parent pointers from leaf back to the root and returns
// the face list start-to-leaf along with the portal edge crossed into each
// non-start face.
func pathToFaces(leaf *radiusNode) (faces, portals []Primitive) {
	n := 0
	for cur := leaf; cur != nil; cur = cur.parent {
		n++
	}
	faces = make([]Primitive, n)
	portals = make([]Primitive, n-1)
	i := n - 1
	for cur := leaf; cur != nil; cur = cur.parent {
		faces[i] = cur.face
		if i > 0 {
			portals[i-1] = cur.entryEdge
		}
		i--
	}
	return faces, portals
}
