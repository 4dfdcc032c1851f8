package mechanics

import (
	"errors"
	"fmt"
)

// Authoring errors reported by Validate. The step functions never return
// them; they tolerate every one of these conditions.
var (
	// ErrDanglingRope indicates a rope endpoint that names no node.
	ErrDanglingRope = errors.New("mechanics: rope references unknown node")

	// ErrDuplicateID indicates an id shared by two nodes or two ropes.
	ErrDuplicateID = errors.New("mechanics: duplicate id")

	// ErrBadRadius indicates a pulley without a positive radius.
	ErrBadRadius = errors.New("mechanics: pulley radius must be positive")

	// ErrNegativeMass indicates a load with negative mass.
	ErrNegativeMass = errors.New("mechanics: load mass must be non-negative")

	// ErrBadSide indicates a tangent side flag outside {-1, 0, 1}.
	ErrBadSide = errors.New("mechanics: rope side must be -1, 0 or 1")
)

// Validate checks the structural invariants of an authored sandbox and
// returns every violation joined into one error, or nil.
func Validate(s SandboxState) error {
	var errs []error
	seen := make(map[string]NodeKind)
	claim := func(id string, k NodeKind) {
		if prev, ok := seen[id]; ok {
			errs = append(errs, fmt.Errorf("%w: %q is both %s and %s", ErrDuplicateID, id, prev, k))
			return
		}
		seen[id] = k
	}

	for _, p := range s.FixedPulleys {
		claim(p.ID, KindFixed)
		if p.Radius <= 0 {
			errs = append(errs, fmt.Errorf("%w: %q", ErrBadRadius, p.ID))
		}
	}
	for _, p := range s.MovablePulleys {
		claim(p.ID, KindMovable)
		if p.Radius <= 0 {
			errs = append(errs, fmt.Errorf("%w: %q", ErrBadRadius, p.ID))
		}
	}
	for _, l := range s.Loads {
		claim(l.ID, KindLoad)
		if l.Mass < 0 {
			errs = append(errs, fmt.Errorf("%w: %q", ErrNegativeMass, l.ID))
		}
	}
	for _, a := range s.Anchors {
		claim(a.ID, KindAnchor)
	}

	ropeIDs := make(map[string]bool, len(s.Ropes))
	for _, r := range s.Ropes {
		if ropeIDs[r.ID] {
			errs = append(errs, fmt.Errorf("%w: rope %q", ErrDuplicateID, r.ID))
		}
		ropeIDs[r.ID] = true
		for _, end := range []string{r.FromID, r.ToID} {
			if _, ok := seen[end]; !ok {
				errs = append(errs, fmt.Errorf("%w: rope %q -> %q", ErrDanglingRope, r.ID, end))
			}
		}
		if !validSide(r.FromSide) || !validSide(r.ToSide) {
			errs = append(errs, fmt.Errorf("%w: rope %q", ErrBadSide, r.ID))
		}
	}
	return errors.Join(errs...)
}

func validSide(side int) bool {
	return side >= -1 && side <= 1
}
