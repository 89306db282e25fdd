package config

import "time"

const (
	// Radar display
	MaxRange      = 10.0  // Plot radius in meters (canvas is 2*MaxRange wide)
	MinRange      = 1.0   // Smallest zoom radius in meters
	RangeLimit    = 100.0 // Largest zoom radius in meters
	RangeStep     = 1.0   // Zoom step for +/- keys
	AspectRatio   = 0.5   // Terminal char aspect correction (chars are ~2:1 tall)
	RingCount     = 5     // Concentric rings; more collide on a short terminal
	SpokeStepDeg  = 30.0  // Angle between dashed spokes
	SweepSpeedRPM = 20    // Sweep rotations per minute while ranging
	SweepTrailDeg = 45.0  // Sweep trail angle in degrees
	TargetFPS     = 30    // Target frames per second

	// Endpoint tracking
	HistorySize = 120 // Distance samples kept per endpoint for the sparkline

	// Stream source
	RedialInterval = 2 * time.Second  // Pause between reconnect attempts
	DialTimeout    = 5 * time.Second  // TCP dial timeout
	DiscoverWait   = 10 * time.Second // mDNS browse timeout
	ServiceType    = "_uwbranging._tcp"
	ServiceDomain  = "local."

	// Demo mode
	DemoEndpointMin = 3                      // Minimum simulated endpoints
	DemoEndpointMax = 6                      // Maximum simulated endpoints
	DemoInterval    = 200 * time.Millisecond // Position update cadence

	// Logging
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28

	// App
	AppName    = "UWB RANGING"
	AppVersion = "1.0"
)
