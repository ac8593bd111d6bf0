package tui

// Priority determines draw order. Lower values draw first
type Priority int

const (
	PriorityBackground Priority = iota
	PriorityReticle
	PriorityHUD
	PriorityComm
	PriorityStatus
	PriorityChart
)
