// Package audio synthesizes the short interface sounds played by the targeting core
package audio

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/status"
)

// Output receives finished streamers for mixing
type Output interface {
	Add(s beep.Streamer)
	Close() error
}

// speakerOutput mixes onto the system speaker
type speakerOutput struct {
	mixer *beep.Mixer
}

// OpenSpeaker initializes the speaker and starts an empty mixer on it
func OpenSpeaker(rate beep.SampleRate) (Output, error) {
	if err := speaker.Init(rate, rate.N(parameter.AudioBufferDuration)); err != nil {
		return nil, err
	}
	out := &speakerOutput{mixer: &beep.Mixer{}}
	speaker.Play(out.mixer)
	return out, nil
}

func (o *speakerOutput) Add(s beep.Streamer) {
	speaker.Lock()
	o.mixer.Add(s)
	speaker.Unlock()
}

func (o *speakerOutput) Close() error {
	speaker.Lock()
	o.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	return nil
}

// Player implements world.AudioSink on top of an Output
// Without an output every call is dropped
type Player struct {
	mu     sync.Mutex
	out    Output
	rate   beep.SampleRate
	logger *log.Logger

	master status.AtomicFloat
	muted  atomic.Bool

	played  *atomic.Int64
	dropped *atomic.Int64
	unknown map[string]bool
}

// NewPlayer creates a player at the given master volume
func NewPlayer(rate beep.SampleRate, master float64, logger *log.Logger, metrics *status.Registry) *Player {
	if logger == nil {
		logger = log.Default()
	}
	if metrics == nil {
		metrics = status.NewRegistry()
	}
	p := &Player{
		rate:    rate,
		logger:  logger,
		played:  metrics.Ints.Get("audio.played"),
		dropped: metrics.Ints.Get("audio.dropped"),
		unknown: make(map[string]bool),
	}
	p.SetMasterVolume(master)
	return p
}

// Attach routes subsequent sounds to out, nil detaches
func (p *Player) Attach(out Output) {
	p.mu.Lock()
	p.out = out
	p.mu.Unlock()
}

// SetMasterVolume clamps v into [0,1]
func (p *Player) SetMasterVolume(v float64) {
	p.master.Set(min(max(v, 0), 1))
}

// MasterVolume returns the current master gain
func (p *Player) MasterVolume() float64 {
	return p.master.Get()
}

// ToggleMute flips mute and returns the new state
func (p *Player) ToggleMute() bool {
	for {
		old := p.muted.Load()
		if p.muted.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// IsMuted reports the mute state
func (p *Player) IsMuted() bool {
	return p.muted.Load()
}

// PlaySound implements world.AudioSink
func (p *Player) PlaySound(id string, volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.out == nil || p.muted.Load() {
		p.dropped.Add(1)
		return
	}
	s := Effect(id, p.rate, min(max(volume, 0), 1)*p.master.Get())
	if s == nil {
		if !p.unknown[id] {
			p.unknown[id] = true
			p.logger.Printf("[audio] unknown sound %q", id)
		}
		p.dropped.Add(1)
		return
	}
	p.out.Add(s)
	p.played.Add(1)
}
