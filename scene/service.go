package scene

import (
	"context"
	"sync"
)

// BridgeService runs a Bridge listener under the service lifecycle
// An empty address leaves the bridge unserved; the graph still works locally
type BridgeService struct {
	bridge *Bridge
	addr   string

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan error
}

// NewBridgeService wraps bridge
func NewBridgeService(bridge *Bridge) *BridgeService {
	return &BridgeService{bridge: bridge}
}

// Name implements service.Service
func (s *BridgeService) Name() string { return "scene-bridge" }

// Dependencies implements service.Service
func (s *BridgeService) Dependencies() []string { return nil }

// Init implements service.Service
// args[0]: string listen address
func (s *BridgeService) Init(args ...any) error {
	if len(args) > 0 {
		if addr, ok := args[0].(string); ok {
			s.addr = addr
		}
	}
	return nil
}

// Start implements service.Service
func (s *BridgeService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addr == "" || s.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan error, 1)
	go func() {
		err := s.bridge.ListenAndServe(ctx, s.addr)
		if err != nil {
			s.bridge.logger.Printf("[scene] bridge stopped: %v", err)
		}
		s.done <- err
	}()
	return nil
}

// Stop implements service.Service
func (s *BridgeService) Stop() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	return <-done
}

// Addr returns the configured listen address
func (s *BridgeService) Addr() string { return s.addr }
