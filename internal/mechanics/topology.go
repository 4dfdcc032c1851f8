package mechanics

// Partition splits the rope-connected loads of a sandbox into the two ends
// of the single rope-feed degree of freedom. GroupA hangs from the movable
// pulleys (or the near side of a fixed pulley); GroupB sits on the pulling
// side. Loads in neither group are free bodies.
type Partition struct {
	GroupA []string
	GroupB []string
}

func (p Partition) Contains(id string) (inA, inB bool) {
	for _, g := range p.GroupA {
		if g == id {
			return true, false
		}
	}
	for _, g := range p.GroupB {
		if g == id {
			return false, true
		}
	}
	return false, false
}

// ResolveTopology partitions the loads of s by walking its rope graph.
// Both groups list load ids in the order they appear in s.Loads.
//
// Side flags on ropes are trusted as authored; inconsistent flags can put
// a load in the wrong group and are not corrected here.
func ResolveTopology(s SandboxState) Partition {
	g := newGraph(s)
	inA := make(map[string]bool)
	inB := make(map[string]bool)

	if len(s.MovablePulleys) > 0 {
		starts := make([]string, 0, len(s.MovablePulleys))
		for _, p := range s.MovablePulleys {
			starts = append(starts, p.ID)
		}
		for _, id := range g.bfs(starts, func(k NodeKind) bool { return k == KindFixed || k == KindAnchor }) {
			if g.kind(id) == KindLoad {
				inA[id] = true
			}
		}

		starts = starts[:0]
		for _, p := range s.FixedPulleys {
			starts = append(starts, p.ID)
		}
		for _, a := range s.Anchors {
			starts = append(starts, a.ID)
		}
		for _, id := range g.bfs(starts, func(k NodeKind) bool { return k == KindMovable }) {
			if g.kind(id) == KindLoad && !inA[id] {
				inB[id] = true
			}
		}
	} else {
		for _, l := range s.Loads {
			side, ok := g.pulleySide(l.ID)
			if !ok {
				continue
			}
			if side == 1 {
				inB[l.ID] = true
			} else {
				inA[l.ID] = true
			}
		}
	}

	var p Partition
	for _, l := range s.Loads {
		switch {
		case inA[l.ID]:
			p.GroupA = append(p.GroupA, l.ID)
		case inB[l.ID]:
			p.GroupB = append(p.GroupB, l.ID)
		}
	}
	return p
}

// pulleySide walks outward from a load until the first fixed pulley and
// returns the side flag recorded on the rope at that pulley. A load that
// only reaches anchors reports side 0. ok is false when the load reaches
// no pulley or anchor at all.
func (g *graph) pulleySide(loadID string) (side int, ok bool) {
	visited := map[string]bool{loadID: true}
	queue := []string{loadID}
	reachedAnchor := false

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, ri := range g.adj[id] {
			r := g.ropes[ri]
			next, nextSide := r.Other(id)
			if visited[next] {
				continue
			}
			visited[next] = true
			switch g.kind(next) {
			case KindFixed:
				return nextSide, true
			case KindAnchor:
				reachedAnchor = true
			case KindLoad, KindMovable:
				queue = append(queue, next)
			}
		}
	}
	return 0, reachedAnchor
}
