package audio

import (
	"errors"
	"io"
	"log"
	"testing"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/planetz/config"
	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/status"
)

type recordingOutput struct {
	streams []beep.Streamer
	closed  bool
}

func (o *recordingOutput) Add(s beep.Streamer) { o.streams = append(o.streams, s) }
func (o *recordingOutput) Close() error        { o.closed = true; return nil }

func drain(s beep.Streamer) int {
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			return total
		}
	}
}

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestEveryCoreSoundHasAnEffect(t *testing.T) {
	ids := []string{
		parameter.SoundTargetCycle, parameter.SoundTargetLost, parameter.SoundDiscovery,
		parameter.SoundWaypointTriggered, parameter.SoundCommOpen, parameter.SoundBlurb,
		parameter.SoundReward, parameter.SoundError,
	}
	rate := beep.SampleRate(parameter.AudioSampleRate)
	for _, id := range ids {
		s := Effect(id, rate, 1)
		if s == nil {
			t.Fatalf("no effect for %q", id)
		}
		if n := drain(s); n == 0 {
			t.Errorf("effect %q produced no samples", id)
		}
	}
	if Effect("nope", rate, 1) != nil {
		t.Error("unknown id should yield nil")
	}
}

func TestEnvelopeBoundsSamples(t *testing.T) {
	rate := beep.SampleRate(1000)
	s := NewEnvelope(NewOscillator(100, parameter.BlipDuration, WaveSine, rate), parameter.BlipDuration, parameter.BlipAttack, parameter.BlipRelease, rate)
	buf := make([][2]float64, 1000)
	n, _ := s.Stream(buf)
	if n != rate.N(parameter.BlipDuration) {
		t.Fatalf("samples = %d, want %d", n, rate.N(parameter.BlipDuration))
	}
	if buf[0][0] != 0 {
		t.Errorf("attack should start silent, got %v", buf[0][0])
	}
	for i := 0; i < n; i++ {
		if buf[i][0] > 1 || buf[i][0] < -1 {
			t.Fatalf("sample %d out of range: %v", i, buf[i][0])
		}
	}
}

func TestPlayerRoutesToOutput(t *testing.T) {
	metrics := status.NewRegistry()
	p := NewPlayer(beep.SampleRate(parameter.AudioSampleRate), 0.5, quietLogger(), metrics)

	p.PlaySound(parameter.SoundTargetCycle, 1)
	if got := metrics.Ints.Get("audio.dropped").Load(); got != 1 {
		t.Fatalf("detached player should drop, dropped = %d", got)
	}

	out := &recordingOutput{}
	p.Attach(out)
	p.PlaySound(parameter.SoundTargetCycle, 1)
	p.PlaySound("missing", 1)
	if len(out.streams) != 1 {
		t.Fatalf("streams = %d, want 1", len(out.streams))
	}

	if !p.ToggleMute() {
		t.Fatal("first toggle should mute")
	}
	p.PlaySound(parameter.SoundDiscovery, 1)
	if len(out.streams) != 1 {
		t.Error("muted player should not emit")
	}
	if got := metrics.Ints.Get("audio.played").Load(); got != 1 {
		t.Errorf("played = %d, want 1", got)
	}
}

func TestMasterVolumeClamped(t *testing.T) {
	p := NewPlayer(beep.SampleRate(parameter.AudioSampleRate), 3, quietLogger(), nil)
	if p.MasterVolume() != 1 {
		t.Errorf("master = %v, want 1", p.MasterVolume())
	}
	p.SetMasterVolume(-1)
	if p.MasterVolume() != 0 {
		t.Errorf("master = %v, want 0", p.MasterVolume())
	}
}

func TestServiceDegradesWithoutBackend(t *testing.T) {
	svc := NewService(func(beep.SampleRate) (Output, error) {
		return nil, errors.New("no device")
	}, quietLogger(), nil)
	if err := svc.Init(config.AudioConfig{Enabled: true, MasterVolume: 0.8}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Start(); err != nil {
		t.Fatalf("start should not fail: %v", err)
	}
	if !svc.IsDisabled() {
		t.Error("service should be disabled")
	}
	svc.Sink().PlaySound(parameter.SoundBlurb, 1)
	if err := svc.Stop(); err != nil {
		t.Fatal(err)
	}
}

func TestServiceLifecycle(t *testing.T) {
	out := &recordingOutput{}
	svc := NewService(func(beep.SampleRate) (Output, error) { return out, nil }, quietLogger(), nil)

	if err := svc.Init(config.AudioConfig{Enabled: true, MasterVolume: 0.8}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Start(); err != nil {
		t.Fatal(err)
	}
	svc.Sink().PlaySound(parameter.SoundReward, 1)
	if len(out.streams) != 1 {
		t.Fatalf("streams = %d, want 1", len(out.streams))
	}
	if err := svc.Stop(); err != nil {
		t.Fatal(err)
	}
	if !out.closed {
		t.Error("stop should close the output")
	}
	if err := svc.Stop(); err != nil {
		t.Errorf("second stop: %v", err)
	}
}

func TestServiceDisabledByConfig(t *testing.T) {
	opened := false
	svc := NewService(func(beep.SampleRate) (Output, error) { opened = true; return &recordingOutput{}, nil }, quietLogger(), nil)
	_ = svc.Init(config.AudioConfig{Enabled: false})
	_ = svc.Start()
	if opened || !svc.IsDisabled() {
		t.Error("disabled config should never open the speaker")
	}
}
