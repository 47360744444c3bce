package pkg

const (
	DEFAULT_UNITS_PER_LAMBDA = 100
	ATTRACTOR_MARGIN_LAMBDA  = 1.5 // perpendicular intervals are shrunk by this much before attraction
	DEFAULT_TRACK_PITCH      = 5.0 // in lambda
	DEFAULT_MAX_EVENTS       = 10000
	DEFAULT_STATE_REPEAT     = 3
	DEFAULT_INITIAL_STATE    = "RipupPerpandiculars"
	DEFAULT_RIPUP_LIMIT      = 30 // exceeds 9 * DEFAULT_STATE_REPEAT so every strategy gets its repeats
)

const (
	DEBUG = false
)
