package simulate

import "time"

// Request and generation constants.
const (
	DefaultMatches        = 8
	DefaultEventsPerMatch = 40
	DefaultTimeout        = 10 * time.Second

	playersPerSide = 5
	pixelShare     = 4 // one event in pixelShare uses pixel coordinates
	pixelWidth     = 800
	pixelHeight    = 571
	maxBodyBytes   = 4 << 20
)
