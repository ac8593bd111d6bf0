package audio

import (
	"log"
	"sync/atomic"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/planetz/config"
	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/status"
	"github.com/lixenwraith/planetz/world"
)

// AudioService owns the speaker output
// Handles graceful degradation when no audio backend is available
type AudioService struct {
	player   *Player
	out      Output
	cfg      config.AudioConfig
	open     func(beep.SampleRate) (Output, error)
	logger   *log.Logger
	disabled atomic.Bool
}

// NewService creates an audio service; open defaults to OpenSpeaker
func NewService(open func(beep.SampleRate) (Output, error), logger *log.Logger, metrics *status.Registry) *AudioService {
	if open == nil {
		open = OpenSpeaker
	}
	if logger == nil {
		logger = log.Default()
	}
	return &AudioService{
		player: NewPlayer(beep.SampleRate(parameter.AudioSampleRate), 0, logger, metrics),
		open:   open,
		logger: logger,
	}
}

// Name implements service.Service
func (s *AudioService) Name() string {
	return "audio"
}

// Dependencies implements service.Service
func (s *AudioService) Dependencies() []string {
	return nil
}

// Init implements service.Service
// args[0]: config.AudioConfig, absent means disabled
func (s *AudioService) Init(args ...any) error {
	if len(args) > 0 {
		if cfg, ok := args[0].(config.AudioConfig); ok {
			s.cfg = cfg
		}
	}
	s.player.SetMasterVolume(s.cfg.MasterVolume)
	if !s.cfg.Enabled {
		s.disabled.Store(true)
	}
	return nil
}

// Start implements service.Service
// Backend failure disables audio instead of failing startup
func (s *AudioService) Start() error {
	if s.disabled.Load() {
		return nil
	}
	out, err := s.open(beep.SampleRate(parameter.AudioSampleRate))
	if err != nil {
		s.logger.Printf("[audio] output unavailable, continuing silent: %v", err)
		s.disabled.Store(true)
		return nil
	}
	s.out = out
	s.player.Attach(out)
	return nil
}

// Stop implements service.Service
func (s *AudioService) Stop() error {
	if s.out == nil {
		return nil
	}
	s.player.Attach(nil)
	err := s.out.Close()
	s.out = nil
	return err
}

// IsDisabled returns true if audio is unavailable
func (s *AudioService) IsDisabled() bool {
	return s.disabled.Load()
}

// Player returns the sound sink, silent while disabled
func (s *AudioService) Player() *Player {
	return s.player
}

// Sink returns the player as world.AudioSink
func (s *AudioService) Sink() world.AudioSink {
	return s.player
}
