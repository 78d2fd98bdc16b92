package bot

// Tuning holds the knobs for the standard strategy.
type Tuning struct {
	// ThreatThreshold marks an opponent as dangerous once their hand is at
	// or below this size; a threatened table disables card conservation.
	ThreatThreshold int
	// ConserveBelow is the single-card power floor under which the bot
	// would rather pass than spend a 2 to beat a cheap lead.
	ConserveBelow int32
}

// DefaultTuning keeps twos in reserve against cheap singles until an
// opponent runs low.
var DefaultTuning = Tuning{
	ThreatThreshold: 3,
	ConserveBelow:   36, // singles below a queen are not worth a 2
}
