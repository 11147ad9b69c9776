package collab

import (
	"fmt"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// BeepAudio implements Audio over faiface/beep, generalizing the
// teacher's single fixed-sample ManageAudio (open one mp3, decode once,
// replay on a channel event) to addressable BGM/SE/VOICE buses, each
// holding its own decoded streamer and a Volume wrapper for fades.
type BeepAudio struct {
	sampleRate beep.SampleRate
	loadDir    string
	channels   map[Channel]*busState
	initDone   bool
}

type busState struct {
	ctrl   *beep.Ctrl
	volume *effects.Volume
	fading bool
}

// NewBeepAudio builds a BeepAudio that loads mp3 files from loadDir at
// the given sample rate.
func NewBeepAudio(loadDir string, sampleRate beep.SampleRate) *BeepAudio {
	return &BeepAudio{sampleRate: sampleRate, loadDir: loadDir, channels: make(map[Channel]*busState)}
}

func (a *BeepAudio) ensureInit() error {
	if a.initDone {
		return nil
	}
	if err := speaker.Init(a.sampleRate, a.sampleRate.N(time.Second/30)); err != nil {
		return err
	}
	a.initDone = true
	return nil
}

// Play decodes name from loadDir and starts it on ch, looping for BGM,
// once for everything else (spec §4.8 "play").
func (a *BeepAudio) Play(ch Channel, name string) error {
	if err := a.ensureInit(); err != nil {
		return err
	}
	f, err := os.Open(a.loadDir + "/" + name)
	if err != nil {
		return fmt.Errorf("collab: audio load %s: %w", name, err)
	}
	streamer, _, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("collab: audio decode %s: %w", name, err)
	}

	var s beep.Streamer = streamer
	if ch.Kind == ChannelBGM {
		s = beep.Loop(-1, streamer)
	}
	vol := &effects.Volume{Streamer: s, Base: 2, Volume: 0}
	ctrl := &beep.Ctrl{Streamer: vol}

	a.Stop(ch)
	a.channels[ch] = &busState{ctrl: ctrl, volume: vol}

	speaker.Lock()
	defer speaker.Unlock()
	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {})))
	return nil
}

// Stop halts and discards whatever is playing on ch.
func (a *BeepAudio) Stop(ch Channel) {
	b, ok := a.channels[ch]
	if !ok {
		return
	}
	speaker.Lock()
	b.ctrl.Paused = true
	speaker.Unlock()
	delete(a.channels, ch)
}

// SetVolume sets ch's gain in decibels, matching beep/effects.Volume's
// base-2 decibel convention.
func (a *BeepAudio) SetVolume(ch Channel, db float64) {
	b, ok := a.channels[ch]
	if !ok {
		return
	}
	speaker.Lock()
	b.volume.Volume = db
	speaker.Unlock()
}

// Fade ramps ch's volume to vol over ms milliseconds. sync blocks,
// calling pump once per tick, until the ramp completes (spec §4.8
// "sync=true means block (pumping events) until the fade completes").
func (a *BeepAudio) Fade(ch Channel, vol float64, ms int, stop bool, sync bool, pump func()) {
	b, ok := a.channels[ch]
	if !ok {
		return
	}
	start := b.volume.Volume
	b.fading = true
	steps := ms / 16
	if steps < 1 {
		steps = 1
	}
	step := func(i int) {
		t := float64(i) / float64(steps)
		speaker.Lock()
		b.volume.Volume = start + (vol-start)*t
		speaker.Unlock()
	}
	if !sync {
		step(steps)
		b.fading = false
		if stop {
			a.Stop(ch)
		}
		return
	}
	for i := 1; i <= steps; i++ {
		step(i)
		if pump != nil {
			pump()
		}
	}
	b.fading = false
	if stop {
		a.Stop(ch)
	}
}

// IsPlaying reports whether ch currently has a live, unpaused stream.
func (a *BeepAudio) IsPlaying(ch Channel) bool {
	b, ok := a.channels[ch]
	return ok && !b.ctrl.Paused
}

// IsFading reports whether ch is mid-Fade.
func (a *BeepAudio) IsFading(ch Channel) bool {
	b, ok := a.channels[ch]
	return ok && b.fading
}
