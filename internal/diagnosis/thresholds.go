package diagnosis

import "time"

// Thresholds are the tunable limits used by the step validators. The
// authoritative production values vary per deployment, so they are injected
// from configuration instead of hard-coded.
type Thresholds struct {
	// Filter steps still running past these limits are flagged stuck.
	FilterWarning  time.Duration
	FilterCritical time.Duration

	// Channel send error-rate bands. Rates above Critical flag critical,
	// rates above Warning flag a warning.
	ChannelErrorRateWarning  float64
	ChannelErrorRateCritical float64

	// Channel file processing running longer than this is flagged.
	FileProcessingTimeout time.Duration

	// Wait/dated steps running past their planned trigger time by more than
	// these grace windows are flagged delayed.
	WaitGraceWarning  time.Duration
	WaitGraceCritical time.Duration
}

// DefaultThresholds returns the limits used when configuration does not
// override them.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FilterWarning:            10 * time.Minute,
		FilterCritical:           30 * time.Minute,
		ChannelErrorRateWarning:  0.2,
		ChannelErrorRateCritical: 0.5,
		FileProcessingTimeout:    time.Hour,
		WaitGraceWarning:         5 * time.Minute,
		WaitGraceCritical:        10 * time.Minute,
	}
}
