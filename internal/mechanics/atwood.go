package mechanics

import "math"

// StepAtwood advances an Atwood machine by dt seconds and returns the new
// snapshot. It never fails; dt <= 0 returns s unchanged.
func StepAtwood(s AtwoodState, dt float64, mode RealityMode) AtwoodState {
	if dt <= 0 {
		return s
	}
	if s.IsBroken {
		return stepBrokenAtwood(s, dt, mode)
	}

	next := s
	totalMass := s.Mass1 + s.Mass2
	drive := (s.Mass2 - s.Mass1) * Gravity

	// Equal masses have no preferred resting point, so the rig is pulled
	// back toward the midpoint of the rope. Not a physical force.
	balanced := math.Abs(s.Mass2-s.Mass1) < BalanceEpsilon
	centering := 0.0
	if balanced {
		targetY := s.TotalRopeLength / 2
		centering = -(targetY - s.Y1) * totalMass * CenteringGain
	}
	staticDrive := drive + centering

	friction := s.FrictionCoeff * totalMass * Gravity * FrictionScale
	net := applyFriction(staticDrive, friction, s.Velocity)

	if mode == Real && math.Abs(s.Velocity) > RestSpeed {
		net -= sign(s.Velocity) * s.AirResistance * AirScale * s.Velocity * s.Velocity
	}

	// I/R² of a uniform disk is half its mass.
	inertia := totalMass + 0.5*s.PulleyMass
	accel := 0.0
	if inertia > 0 {
		accel = net / inertia
	}

	velocity := s.Velocity + accel*dt
	if flipped(s.Velocity, velocity) && math.Abs(staticDrive) <= friction {
		velocity, accel = 0, 0
	}
	if balanced {
		velocity *= BalancedDamping
	}

	next.Time = s.Time + dt
	y1 := s.Y1 - velocity*dt
	lo, hi := AtwoodEdgeMargin, s.TotalRopeLength-AtwoodEdgeMargin
	if y1 < lo || y1 > hi {
		next.Y1 = clamp(y1, lo, hi)
		next.Y2 = s.TotalRopeLength - next.Y1
		next.Velocity, next.Acceleration, next.AngularVelocity = 0, 0, 0
		return next
	}

	next.Y1 = y1
	next.Y2 = s.TotalRopeLength - y1
	next.Velocity = velocity
	next.Acceleration = accel
	next.Tension1 = s.Mass1 * (Gravity + accel)
	next.Tension2 = s.Mass2 * (Gravity - accel)

	if mode == Real && (exceeds(next.Tension1, s.RopeMaxTension) || exceeds(next.Tension2, s.RopeMaxTension)) {
		next.IsBroken = true
	}

	if s.PulleyRadius > 0 {
		next.AngularVelocity = velocity / s.PulleyRadius
	}
	return next
}

// stepBrokenAtwood lets both rope ends fall freely. Once the rope has
// parted, Velocity no longer means mass1 rising: it holds the shared
// downward speed of both ends, so a rising mass1 reverses on the first
// broken tick.
func stepBrokenAtwood(s AtwoodState, dt float64, mode RealityMode) AtwoodState {
	next := s
	next.Time = s.Time + dt
	next.Tension1, next.Tension2, next.Acceleration = 0, 0, 0

	v := s.Velocity + Gravity*dt
	if mode == Real && math.Abs(v) > RestSpeed {
		v -= sign(v) * s.AirResistance * AirScale * v * v * dt
	}

	floor := s.TotalRopeLength
	next.Y1 = math.Min(s.Y1+v*dt, floor)
	next.Y2 = math.Min(s.Y2+v*dt, floor)
	if next.Y1 >= floor && next.Y2 >= floor {
		v = 0
	}
	next.Velocity = v
	return next
}

// applyFriction resolves the net force along the rope for a Coulomb friction
// bound. Moving bodies lose the full bound against their motion; bodies at
// rest stay put unless the drive exceeds it.
func applyFriction(drive, bound, velocity float64) float64 {
	if bound <= 0 {
		return drive
	}
	if math.Abs(velocity) > RestSpeed {
		return drive - sign(velocity)*bound
	}
	if math.Abs(drive) <= bound {
		return 0
	}
	return drive - sign(drive)*bound
}

// exceeds reports whether tension is over a rope limit. A non-positive
// limit means the rope cannot break.
func exceeds(tension, limit float64) bool {
	return limit > 0 && tension > limit
}

func flipped(before, after float64) bool {
	return before != 0 && sign(before) != sign(after)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func clamp(x, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(hi, x))
}
