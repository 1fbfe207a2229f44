// Package audio plays the narration clips attached to media hotspots.
package audio

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSampleRate is the output rate of the speaker.
const DefaultSampleRate = beep.SampleRate(44100)

// clip is one narration being played.
type clip struct {
	source string
	stream beep.StreamSeekCloser
	ctrl   *beep.Ctrl
	volume *effects.Volume
}

// Player plays one narration at a time; starting a clip replaces the
// current one. Safe for concurrent use.
type Player struct {
	mu sync.Mutex

	initialized bool
	sampleRate  beep.SampleRate
	volume      float64 // 0.0 to 1.0
	current     *clip
}

// New creates a player at full volume. Call Init before Play.
func New() *Player {
	return &Player{volume: 1.0, sampleRate: DefaultSampleRate}
}

// Init opens the audio device.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	p.initialized = true
	return nil
}

// Close stops playback and releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	p.stopLocked()
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}

// SetVolume sets the playback volume, clamped to [0, 1].
func (p *Player) SetVolume(vol float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clamp(vol, 0, 1)
	if p.current != nil {
		speaker.Lock()
		applyVolume(p.current.volume, p.volume)
		speaker.Unlock()
	}
}

// Volume returns the playback volume.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Play decodes WAV data and plays it, replacing any current narration.
// source names the clip for Playing.
func (p *Player) Play(data []byte, source string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return fmt.Errorf("audio not initialized")
	}
	stream, out, err := decode(data, p.sampleRate)
	if err != nil {
		return err
	}
	p.stopLocked()

	c := &clip{source: source, stream: stream}
	c.ctrl = &beep.Ctrl{Streamer: out}
	c.volume = &effects.Volume{Streamer: c.ctrl, Base: 2}
	applyVolume(c.volume, p.volume)
	p.current = c

	speaker.Play(beep.Seq(c.volume, beep.Callback(func() {
		p.mu.Lock()
		if p.current == c {
			p.current = nil
			c.stream.Close()
		}
		p.mu.Unlock()
	})))
	return nil
}

// Stop ends the current narration.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Playing returns the source of the narration being played.
func (p *Player) Playing() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return "", false
	}
	return p.current.source, true
}

func (p *Player) stopLocked() {
	c := p.current
	if c == nil {
		return
	}
	p.current = nil
	speaker.Lock()
	// A nil streamer ends the sequence, which removes it from the speaker.
	c.ctrl.Streamer = nil
	speaker.Unlock()
	c.stream.Close()
}

// Supported reports whether the media URL names a format Play can decode.
func Supported(url string) bool {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return strings.EqualFold(path.Ext(url), ".wav")
}

// decode opens WAV data and resamples it to rate when needed.
func decode(data []byte, rate beep.SampleRate) (beep.StreamSeekCloser, beep.Streamer, error) {
	stream, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("decode wav: %w", err)
	}
	if format.SampleRate == rate {
		return stream, stream, nil
	}
	return stream, beep.Resample(4, format.SampleRate, rate, stream), nil
}

func applyVolume(v *effects.Volume, vol float64) {
	v.Silent = vol <= 0
	v.Volume = volumeToExp(vol)
}

// volumeToExp converts a linear 0-1 volume to the base-2 exponent
// effects.Volume expects: 1 is 0, 0.5 is -1.
func volumeToExp(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return math.Log2(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
