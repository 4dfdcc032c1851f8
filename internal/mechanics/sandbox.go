package mechanics

import "math"

// MechanicalAdvantage is the load-to-effort ratio of a block and tackle
// with the given number of movable pulleys. It is never below 1.
func MechanicalAdvantage(movable int) float64 {
	return math.Max(1, 2*float64(movable))
}

// Ceiling is the highest y a rising load or movable pulley may reach: the
// lowest edge of all fixed pulleys plus a margin.
func Ceiling(s SandboxState) float64 {
	if len(s.FixedPulleys) == 0 {
		return DefaultCeiling
	}
	lowest := math.Inf(-1)
	for _, p := range s.FixedPulleys {
		lowest = math.Max(lowest, p.Y+p.Radius)
	}
	return lowest + CeilingMargin
}

// feed is the solved scalar rope-feed step.
type feed struct {
	velocity float64
	accel    float64
	tension  float64
	broken   bool
	dA, dB   float64 // vertical displacement of group A (and movable pulleys) and group B
}

// StepSandbox advances a sandbox by dt seconds and returns a new snapshot.
// The input is never modified. dt <= 0 returns an unchanged copy.
func StepSandbox(s SandboxState, dt float64, mode RealityMode) SandboxState {
	next := s.Clone()
	if dt <= 0 {
		return next
	}

	g := newGraph(s)
	part := ResolveTopology(s)
	ceiling, floor := Ceiling(s), s.floor()

	f := solveFeed(s, part, dt, mode, ceiling, floor)
	next.LoadVelocity = f.velocity
	next.LoadAcceleration = f.accel
	next.LoadPosition = s.LoadPosition + f.velocity*dt
	next.Tension = f.tension
	next.IsBroken = f.broken

	for i := range next.MovablePulleys {
		p := &next.MovablePulleys[i]
		if f.broken {
			p.Y = math.Min(p.Y+BrokenPulleyDrop*dt, floor)
			driftPulley(p, dt)
			continue
		}
		p.Y = clamp(p.Y+f.dA, ceiling, floor)
		centerPulley(p, g, dt)
	}

	for i := range next.Loads {
		l := &next.Loads[i]
		inA, inB := part.Contains(l.ID)
		if f.broken || !(inA || inB) {
			fall(l, dt, mode, floor)
			continue
		}
		d := f.dB
		if inA {
			d = f.dA
		}
		y := clamp(l.Y+d, ceiling, floor)
		l.VY = (y - l.Y) / dt
		l.Y = y
		swing(l, g, dt)
	}
	return next
}

// solveFeed reduces the partitioned sandbox to one degree of freedom and
// integrates it. Group A rises by feed/MA while group B descends by feed.
func solveFeed(s SandboxState, part Partition, dt float64, mode RealityMode, ceiling, floor float64) feed {
	if s.IsBroken {
		return feed{broken: true}
	}
	movable := len(s.MovablePulleys)
	if len(part.GroupA) == 0 && len(part.GroupB) == 0 && movable == 0 {
		return feed{}
	}

	loads := make(map[string]Load, len(s.Loads))
	for _, l := range s.Loads {
		loads[l.ID] = l
	}

	proxy := 0.0
	if mode == Real {
		proxy = PulleyWeightProxy
	}
	massLoad := float64(movable) * proxy
	for _, id := range part.GroupA {
		massLoad += loads[id].Mass
	}
	massCounter := 0.0
	for _, id := range part.GroupB {
		massCounter += loads[id].Mass
	}
	ma := MechanicalAdvantage(movable)

	var forcePull, pullInertia float64
	switch {
	case massCounter > 0:
		forcePull = massCounter * Gravity
		pullInertia = massCounter
	case len(part.GroupB) == 0:
		forcePull = s.EffortForce
	}
	forceLoad := massLoad * Gravity
	staticDrive := forcePull - forceLoad/ma
	net := staticDrive

	// Near-balanced counterweight rigs drift toward equal heights. This is
	// a settling aid, not a physical force.
	settling := false
	if massCounter > 0 && (len(part.GroupA) > 0 || movable > 0) && math.Abs(net) < SettleThreshold {
		var ysA []float64
		if len(part.GroupA) > 0 {
			for _, id := range part.GroupA {
				ysA = append(ysA, loads[id].Y)
			}
		} else {
			for _, p := range s.MovablePulleys {
				ysA = append(ysA, p.Y)
			}
		}
		ysB := make([]float64, 0, len(part.GroupB))
		for _, id := range part.GroupB {
			ysB = append(ysB, loads[id].Y)
		}
		net += (mean(ysA) - mean(ysB)) * SettleGain
		settling = true
	}

	pulleys := math.Max(1, float64(len(s.FixedPulleys)+movable))
	friction := s.Friction * (forceLoad + forcePull) * FrictionScale * pulleys
	v := s.LoadVelocity
	net = applyFriction(net, friction, v)
	if mode == Real && math.Abs(v) > SandboxDragSpeed {
		net -= sign(v) * s.AirResistance * AirScale * SandboxDragFactor * v * v
	}

	effectiveMass := pullInertia + massLoad/(ma*ma) + RopeInertiaFloor
	accel := net / effectiveMass

	velocity := clamp(v+accel*dt, -MaxFeedSpeed, MaxFeedSpeed)
	if flipped(v, velocity) && math.Abs(staticDrive) <= friction {
		velocity, accel = 0, 0
	}
	if settling {
		velocity *= SettleDamping
	}

	deltaRope := velocity * dt * PixelsPerMeter
	f := feed{velocity: velocity, accel: accel, dA: -deltaRope / ma, dB: deltaRope}

	if f.vetoed(s, part, loads, ceiling, floor) {
		f.velocity, f.accel, f.dA, f.dB = 0, 0, 0, 0
	}

	f.tension = forceLoad/ma + massLoad*math.Abs(f.accel) + friction*0.5
	if mode == Real && (exceeds(f.tension, s.RopeMaxTension) || exceeds(forcePull, s.RopeMaxTension)) {
		f.broken = true
		f.dA, f.dB = 0, 0
	}
	return f
}

// vetoed reports whether any item would pass the ceiling while rising or
// the floor while descending. A veto stops the whole tick.
func (f feed) vetoed(s SandboxState, part Partition, loads map[string]Load, ceiling, floor float64) bool {
	crosses := func(y, d float64) bool {
		return (d < 0 && y+d < ceiling) || (d > 0 && y+d > floor)
	}
	for _, p := range s.MovablePulleys {
		if crosses(p.Y, f.dA) {
			return true
		}
	}
	for _, id := range part.GroupA {
		if crosses(loads[id].Y, f.dA) {
			return true
		}
	}
	if f.dB > 0 {
		for _, id := range part.GroupB {
			if loads[id].Y+f.dB > floor {
				return true
			}
		}
	}
	return false
}

// centerPulley drives a movable pulley sideways until every rope holding
// it up hangs vertically.
func centerPulley(p *MovablePulley, g *graph, dt float64) {
	sum, n := 0.0, 0
	for _, ri := range g.adj[p.ID] {
		r := g.ropes[ri]
		otherID, otherSide := r.Other(p.ID)
		other := g.lookup(otherID)
		if other.kind == KindNone || other.y >= p.Y {
			continue
		}
		departX, _ := g.departure(otherID, otherSide)
		sum += departX - float64(r.SideAt(p.ID))*p.Radius
		n++
	}
	if n == 0 {
		driftPulley(p, dt)
		return
	}
	target := sum / float64(n)
	p.VX += (target - p.X) * PulleyStiffness * dt
	p.VX *= PulleyDamping
	p.X += p.VX * dt
}

func driftPulley(p *MovablePulley, dt float64) {
	p.VX *= PulleyDriftDamping
	p.X += p.VX * dt
}

// swing moves a hanging load sideways as a small-angle pendulum about the
// departure point of the nearest pivot on its rope. The restoring
// acceleration is SwingGain*dx/length; at or above the pivot the load only
// loses horizontal speed.
func swing(l *Load, g *graph, dt float64) {
	px, py, ok := nearestPivot(l, g)
	if ok && l.Y > py {
		dx, dy := l.X-px, l.Y-py
		length := math.Hypot(dx, dy)
		ax := -SwingGain * (dx / length)
		l.VX = (l.VX + ax*dt) * SwingDamping
	} else {
		l.VX *= SlackDamping
	}
	l.X += l.VX * dt
}

func nearestPivot(l *Load, g *graph) (x, y float64, ok bool) {
	best := math.Inf(1)
	for _, ri := range g.adj[l.ID] {
		otherID, otherSide := g.ropes[ri].Other(l.ID)
		if !g.kind(otherID).IsPivot() {
			continue
		}
		px, py := g.departure(otherID, otherSide)
		if d := math.Hypot(l.X-px, l.Y-py); d < best {
			best, x, y, ok = d, px, py, true
		}
	}
	return x, y, ok
}

// fall integrates a free load as a projectile that bounces on the floor.
// Real mode drags the vertical speed only. A rebound slower than
// max(BounceStopSpeed, Gravity*PixelsPerMeter*dt) is resting contact and
// stops the load, since gravity would cancel it within one tick.
func fall(l *Load, dt float64, mode RealityMode, floor float64) {
	step := Gravity * PixelsPerMeter * dt
	l.VY += step
	if mode == Real {
		l.VY *= FreeFallDrag
	}
	l.X += l.VX * dt
	l.Y += l.VY * dt

	if l.Y < floor {
		return
	}
	l.Y = floor
	l.VY = -l.VY * BounceRestitution
	if math.Abs(l.VY) < math.Max(BounceStopSpeed, step) {
		l.VY = 0
	}
	l.VX *= GroundFriction
	if math.Abs(l.VX) < GroundStopSpeed {
		l.VX = 0
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
