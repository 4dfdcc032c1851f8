package mechanics

// node is the kind-tagged view of any sandbox entity used for rope routing.
type node struct {
	kind   NodeKind
	index  int
	x, y   float64
	radius float64
}

// graph indexes a sandbox by id and keeps rope adjacency in authoring order.
type graph struct {
	nodes map[string]node
	adj   map[string][]int
	ropes []RopeSegment
}

func newGraph(s SandboxState) *graph {
	g := &graph{
		nodes: make(map[string]node, len(s.FixedPulleys)+len(s.MovablePulleys)+len(s.Loads)+len(s.Anchors)),
		adj:   make(map[string][]int),
		ropes: s.Ropes,
	}
	for i, p := range s.FixedPulleys {
		g.nodes[p.ID] = node{kind: KindFixed, index: i, x: p.X, y: p.Y, radius: p.Radius}
	}
	for i, p := range s.MovablePulleys {
		g.nodes[p.ID] = node{kind: KindMovable, index: i, x: p.X, y: p.Y, radius: p.Radius}
	}
	for i, l := range s.Loads {
		g.nodes[l.ID] = node{kind: KindLoad, index: i, x: l.X, y: l.Y}
	}
	for i, a := range s.Anchors {
		g.nodes[a.ID] = node{kind: KindAnchor, index: i, x: a.X, y: a.Y}
	}
	for i, r := range s.Ropes {
		g.adj[r.FromID] = append(g.adj[r.FromID], i)
		if r.ToID != r.FromID {
			g.adj[r.ToID] = append(g.adj[r.ToID], i)
		}
	}
	return g
}

// lookup resolves an id. Unknown ids resolve to a KindNone node at the
// origin with zero radius so dangling ropes stay harmless.
func (g *graph) lookup(id string) node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	return node{kind: KindNone, index: -1}
}

func (g *graph) kind(id string) NodeKind {
	return g.lookup(id).kind
}

// departure returns the point where a rope leaves node id on the given
// tangent side.
func (g *graph) departure(id string, side int) (float64, float64) {
	n := g.lookup(id)
	return n.x + float64(side)*n.radius, n.y
}

// bfs walks ropes from every start id and returns the visited ids in visit
// order. Nodes for which blocked returns true are never entered.
func (g *graph) bfs(starts []string, blocked func(NodeKind) bool) []string {
	visited := make(map[string]bool, len(g.nodes))
	queue := make([]string, 0, len(starts))
	for _, id := range starts {
		if !visited[id] {
			visited[id] = true
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		for _, ri := range g.adj[id] {
			next, _ := g.ropes[ri].Other(id)
			if visited[next] {
				continue
			}
			k := g.kind(next)
			if k == KindNone || blocked(k) {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return order
}
