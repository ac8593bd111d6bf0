package parameter

import "time"

// Audio hardware settings
const (
	AudioSampleRate     = 44100
	AudioBufferDuration = 100 * time.Millisecond
)

// Synthesized effect envelopes
const (
	BlipDuration   = 60 * time.Millisecond
	BlipAttack     = 5 * time.Millisecond
	BlipRelease    = 40 * time.Millisecond
	ChimeDuration  = 220 * time.Millisecond
	ChimeAttack    = 5 * time.Millisecond
	ChimeRelease   = 180 * time.Millisecond
	AlertDuration  = 300 * time.Millisecond
	AlertAttack    = 10 * time.Millisecond
	AlertRelease   = 120 * time.Millisecond
	StaticDuration = 120 * time.Millisecond
)

// Sound ids played by the core
const (
	SoundTargetCycle       = "target_cycle"
	SoundTargetLost        = "target_lost"
	SoundDiscovery         = "discovery"
	SoundWaypointTriggered = "waypoint_triggered"
	SoundCommOpen          = "comm_open"
	SoundBlurb             = "blurb"
	SoundReward            = "reward"
	SoundError             = "error"
)
