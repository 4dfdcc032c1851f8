package mechanics

const (
	Gravity        = 9.81
	FrictionScale  = 0.1  // scales coefficient*normal load into a rope friction force
	AirScale       = 0.01 // scales airResistance into a v² drag coefficient
	PixelsPerMeter = 50.0

	// Atwood
	BalanceEpsilon   = 0.001 // |m2-m1| below this counts as balanced
	CenteringGain    = 5.0
	BalancedDamping  = 0.90
	AtwoodEdgeMargin = 0.2 // closest approach to the axle, in meters
	RestSpeed        = 0.001

	// Sandbox scalar step
	PulleyWeightProxy = 0.1 // kg per movable pulley in Real mode
	RopeInertiaFloor  = 1.0
	SettleThreshold   = 0.1
	SettleGain        = 0.1
	SettleDamping     = 0.95
	SandboxDragSpeed  = 0.01
	SandboxDragFactor = 2.0
	MaxFeedSpeed      = 50.0

	// Sandbox geometry, in pixels with y growing downward
	DefaultFloorY  = 550.0
	DefaultCeiling = 50.0
	CeilingMargin  = 20.0

	// Per-object resolution
	PulleyStiffness    = 1.2
	PulleyDamping      = 0.95
	PulleyDriftDamping = 0.98
	BrokenPulleyDrop   = 120.0 // px/s once the rope has parted
	SwingGain          = Gravity * 2.5
	SwingDamping       = 0.98
	SlackDamping       = 0.90
	FreeFallDrag       = 0.99
	BounceRestitution  = 0.3
	BounceStopSpeed    = 0.5
	GroundFriction     = 0.9
	GroundStopSpeed    = 0.1
)
