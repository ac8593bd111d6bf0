package parameter

import "time"

// Frame loop timing
const (
	// FrameUpdateInterval is the render/update frame interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// EventQueueSize is the initial capacity of the deferred event queue
	EventQueueSize = 256
)

// System priorities, lower runs first within a frame
const (
	PriorityScheduler = 10
	PriorityDiscovery = 100
	PriorityRegistry  = 200
	PriorityCursor    = 300
	PriorityWaypoint  = 400
	PriorityEvents    = 450
	PriorityPresenter = 500
)

// SystemWarnThreshold logs a warning when a single system exceeds it in one frame
const SystemWarnThreshold = 8 * time.Millisecond

// MetricWindow is the sample count used for rolling timing averages
const MetricWindow = 60

// Scene bridge
const (
	// BridgeSendBuffer is the per-client op backlog before the client is dropped
	BridgeSendBuffer = 256

	// BridgeWriteTimeout bounds a single websocket write
	BridgeWriteTimeout = 2 * time.Second

	// BridgePingInterval keeps idle browser connections alive
	BridgePingInterval = 10 * time.Second

	// BridgePath is the websocket endpoint
	BridgePath = "/scene"
)

// Pilot camera
const (
	// PilotStep is the distance in km covered by one movement input
	PilotStep = 5.0

	// CameraFOV is the vertical field of view in degrees
	CameraFOV = 60.0
)
