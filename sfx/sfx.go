// Package sfx plays short hover sounds for a fogrid engine through the
// system speaker.
//
// Usage:
//
//	p := sfx.NewPlayer(cfg.HoverSfxInterval, sfx.DefaultVolume)
//	if err := p.Init(); err != nil {
//		log.Printf("audio disabled: %v", err)
//	}
//	engine.SetFeedback(p)
package sfx

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/phanxgames/fogrid"
)

const (
	sampleRate = beep.SampleRate(44100)

	// DefaultVolume is the linear gain of the hover blip.
	DefaultVolume = 0.08

	blipFreq     = 880
	blipDuration = 50 * time.Millisecond
)

// Player is a fogrid.Feedback that plays a blip when the hover enters a
// cell with content. Blips closer together than the interval are dropped.
// Until Init succeeds it stays silent.
type Player struct {
	mu       sync.Mutex
	interval time.Duration
	volume   float64
	ready    bool
	last     time.Time

	now  func() time.Time
	play func(beep.Streamer)
}

var _ fogrid.Feedback = (*Player)(nil)

// NewPlayer creates a silent player. Call Init to open the speaker.
func NewPlayer(interval time.Duration, volume float64) *Player {
	return &Player{
		interval: interval,
		volume:   volume,
		now:      time.Now,
		play:     func(s beep.Streamer) { speaker.Play(s) },
	}
}

// Init opens the speaker. A failure leaves the player silent and is safe
// to ignore.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	p.ready = true
	return nil
}

// HoverEntered implements fogrid.Feedback.
func (p *Player) HoverEntered(_ fogrid.CellKey, occupied bool) {
	if !occupied {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	now := p.now()
	if !p.last.IsZero() && now.Sub(p.last) <= p.interval {
		return
	}
	s, err := p.blip()
	if err != nil {
		return
	}
	p.last = now
	p.play(s)
}

// blip returns a short sine tone at the player's volume.
func (p *Player) blip() (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, blipFreq)
	if err != nil {
		return nil, err
	}
	tone := beep.Take(sampleRate.N(blipDuration), sine)
	if p.volume <= 0 {
		return &effects.Volume{Streamer: tone, Base: 2, Silent: true}, nil
	}
	return &effects.Volume{Streamer: tone, Base: 2, Volume: math.Log2(p.volume)}, nil
}
