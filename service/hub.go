package service

import (
	"errors"
	"fmt"
	"log"
)

// Hub owns a set of services and drives their lifecycle in dependency order
type Hub struct {
	services map[string]Service
	order    []string
	started  []string
	logger   *log.Logger
}

// NewHub creates an empty hub
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{services: make(map[string]Service), logger: logger}
}

// Register adds a service; names must be unique
func (h *Hub) Register(s Service) error {
	if _, ok := h.services[s.Name()]; ok {
		return fmt.Errorf("service %q already registered", s.Name())
	}
	h.services[s.Name()] = s
	h.order = append(h.order, s.Name())
	return nil
}

// Get returns a registered service by name
func (h *Hub) Get(name string) (Service, bool) {
	s, ok := h.services[name]
	return s, ok
}

// InitAll initializes every service after its dependencies
// args maps service name to its Init arguments
func (h *Hub) InitAll(args map[string][]any) error {
	order, err := h.resolve()
	if err != nil {
		return err
	}
	for _, name := range order {
		if err := h.services[name].Init(args[name]...); err != nil {
			return fmt.Errorf("init %s: %w", name, err)
		}
	}
	h.order = order
	return nil
}

// StartAll starts services in init order; on failure the started ones are stopped
func (h *Hub) StartAll() error {
	for _, name := range h.order {
		if err := h.services[name].Start(); err != nil {
			stopErr := h.StopAll()
			return errors.Join(fmt.Errorf("start %s: %w", name, err), stopErr)
		}
		h.started = append(h.started, name)
	}
	return nil
}

// StopAll stops started services in reverse order
func (h *Hub) StopAll() error {
	var errs []error
	for i := len(h.started) - 1; i >= 0; i-- {
		name := h.started[i]
		if err := h.services[name].Stop(); err != nil {
			h.logger.Printf("[service] stop %s: %v", name, err)
			errs = append(errs, fmt.Errorf("stop %s: %w", name, err))
		}
	}
	h.started = nil
	return errors.Join(errs...)
}

// resolve orders services depth-first by dependency, keeping registration order otherwise
func (h *Hub) resolve() ([]string, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(h.services))
	out := make([]string, 0, len(h.services))

	var visit func(name, from string) error
	visit = func(name, from string) error {
		s, ok := h.services[name]
		if !ok {
			return fmt.Errorf("service %q depends on unknown %q", from, name)
		}
		switch state[name] {
		case visiting:
			return fmt.Errorf("service dependency cycle at %q", name)
		case done:
			return nil
		}
		state[name] = visiting
		for _, dep := range s.Dependencies() {
			if err := visit(dep, name); err != nil {
				return err
			}
		}
		state[name] = done
		out = append(out, name)
		return nil
	}

	for _, name := range h.order {
		if err := visit(name, ""); err != nil {
			return nil, err
		}
	}
	return out, nil
}
