package status

import "sync/atomic"

// Registry is the central metrics facade
// Components cache pointers during construction and write atomics directly
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Timings *MetricMap[Timing]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Timings: NewMetricMap[Timing](),
	}
}
