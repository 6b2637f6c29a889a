package loop

import "time"

// Render area. Larger terminals get a centered, bordered play field.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
	MinTermWidth  = 40
	MinTermHeight = 15
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity, only enforced for remote sessions
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Notices
const (
	noticeDuration      = 2 * time.Second
	broadcastDuration   = 6 * time.Second
	approachGuideHeight = 60.0  // World units above the pad
	approachGuideRange  = 220.0 // Altitude below which the guide shows
	fuelBarWidth        = 10
)
