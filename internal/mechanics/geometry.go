package mechanics

// RopeLine is the drawn span of one rope between its departure points.
type RopeLine struct {
	ID             string
	X1, Y1, X2, Y2 float64
}

// RopeLines returns the span of every rope whose endpoints both exist, in
// authoring order. Pulley ends leave from the recorded tangent side.
func RopeLines(s SandboxState) []RopeLine {
	g := newGraph(s)
	lines := make([]RopeLine, 0, len(s.Ropes))
	for _, r := range s.Ropes {
		if g.kind(r.FromID) == KindNone || g.kind(r.ToID) == KindNone {
			continue
		}
		x1, y1 := g.departure(r.FromID, r.FromSide)
		x2, y2 := g.departure(r.ToID, r.ToSide)
		lines = append(lines, RopeLine{ID: r.ID, X1: x1, Y1: y1, X2: x2, Y2: y2})
	}
	return lines
}
