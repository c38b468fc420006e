package game

const (
	// Gravity is the downward acceleration applied to airborne players, in m/s².
	Gravity = 9.81

	MaxWalkSpeed   = 6.0
	MaxSprintSpeed = 12.0
	MaxCrouchSpeed = 3.0

	// MaxJumpHeight is the highest point a legitimate jump can reach above the
	// takeoff position, in metres.
	MaxJumpHeight = 1.5

	// SpeedTolerance is the slack multiplier applied on top of every speed cap
	// to absorb interpolation and latency artifacts.
	SpeedTolerance = 1.2

	// GroundLevel is the y coordinate of the world floor. Anything below it is
	// inside terrain.
	GroundLevel = 0.0

	// GroundContactEpsilon is the height above GroundLevel within which a player
	// still counts as grounded.
	GroundContactEpsilon = 0.01
)
