package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/planetz/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a bounded oscillator of the given wave shape
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope wraps s in a linear attack/sustain/release envelope
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := max(total-att-rel, 0)

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = max(float64(e.totalSamples-e.position)/float64(e.releaseSamples), 0)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume maps a linear gain onto effects.Volume
// math.Log2(0) is -Inf, so zero is rendered silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// tone is one shaped oscillator voice
func tone(freq float64, wave WaveType, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return NewEnvelope(NewOscillator(freq, duration, wave, rate), duration, attack, release, rate)
}

type effectFunc func(rate beep.SampleRate) beep.Streamer

// effectTable maps sound ids to their synthesizers
var effectTable = map[string]effectFunc{
	parameter.SoundTargetCycle: func(rate beep.SampleRate) beep.Streamer {
		return tone(1200, WaveSquare, parameter.BlipDuration, parameter.BlipAttack, parameter.BlipRelease, rate)
	},
	parameter.SoundTargetLost: func(rate beep.SampleRate) beep.Streamer {
		return beep.Seq(
			tone(660, WaveSquare, parameter.BlipDuration, parameter.BlipAttack, parameter.BlipRelease, rate),
			tone(440, WaveSquare, parameter.BlipDuration, parameter.BlipAttack, parameter.BlipRelease, rate),
		)
	},
	parameter.SoundDiscovery: func(rate beep.SampleRate) beep.Streamer {
		return beep.Mix(
			newVolume(tone(880, WaveSine, parameter.ChimeDuration, parameter.ChimeAttack, parameter.ChimeRelease, rate), 0.7),
			newVolume(tone(1760, WaveSine, parameter.ChimeDuration, parameter.ChimeAttack, parameter.ChimeRelease/2, rate), 0.3),
		)
	},
	parameter.SoundWaypointTriggered: func(rate beep.SampleRate) beep.Streamer {
		return beep.Seq(
			tone(987.77, WaveSquare, parameter.BlipDuration, parameter.BlipAttack, parameter.BlipRelease, rate),
			tone(1318.51, WaveSquare, parameter.ChimeDuration, parameter.ChimeAttack, parameter.ChimeRelease, rate),
		)
	},
	parameter.SoundCommOpen: func(rate beep.SampleRate) beep.Streamer {
		return newVolume(tone(0, WaveNoise, parameter.StaticDuration, parameter.BlipAttack, parameter.BlipRelease, rate), 0.4)
	},
	parameter.SoundBlurb: func(rate beep.SampleRate) beep.Streamer {
		return tone(520, WaveSine, parameter.BlipDuration, parameter.BlipAttack, parameter.BlipRelease, rate)
	},
	parameter.SoundReward: func(rate beep.SampleRate) beep.Streamer {
		return beep.Seq(
			tone(783.99, WaveSine, parameter.BlipDuration, parameter.BlipAttack, parameter.BlipRelease, rate),
			tone(1046.5, WaveSine, parameter.BlipDuration, parameter.BlipAttack, parameter.BlipRelease, rate),
			tone(1567.98, WaveSine, parameter.ChimeDuration, parameter.ChimeAttack, parameter.ChimeRelease, rate),
		)
	},
	parameter.SoundError: func(rate beep.SampleRate) beep.Streamer {
		return tone(100, WaveSaw, parameter.AlertDuration, parameter.AlertAttack, parameter.AlertRelease, rate)
	},
}

// Effect returns the streamer for a sound id at the given gain, nil when unknown
func Effect(id string, rate beep.SampleRate, volume float64) beep.Streamer {
	fn, ok := effectTable[id]
	if !ok {
		return nil
	}
	return newVolume(fn(rate), volume)
}

// Known reports whether id has a synthesizer
func Known(id string) bool {
	_, ok := effectTable[id]
	return ok
}
