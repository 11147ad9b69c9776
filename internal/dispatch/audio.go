package dispatch

import (
	"github.com/ai5run/ai5/internal/collab"
	"github.com/ai5run/ai5/internal/vm"
	"github.com/ai5run/ai5/internal/vmerr"
)

// channelFrom decodes the (kind, index) pair every audio syscall takes as
// its first two parameters into a collab.Channel (spec §4.8 "Channels:
// BGM, SE[0..N], VOICE[0..N], optional VOICESUB").
func channelFrom(params []vm.Param) collab.Channel {
	return collab.Channel{Kind: collab.ChannelKind(params[0].Value), Index: pint(params[1])}
}

// AudioPlay starts name looping (BGM) or once (SE/VOICE) on the given
// channel (spec §4.3 "audio control").
func (c *ClassicUtils) AudioPlay(m *vm.VM, params []vm.Param) error {
	if len(params) < 3 || !params[2].IsString {
		return vmerr.NewWarning("audio_play: expected channel kind, index, and a name string")
	}
	if err := c.Audio.Play(channelFrom(params), params[2].Str); err != nil {
		return vmerr.NewWarning("audio_play: %v", err)
	}
	return nil
}

// AudioStop halts whatever is playing on the given channel.
func (c *ClassicUtils) AudioStop(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 2, "audio_stop"); err != nil {
		return err
	}
	c.Audio.Stop(channelFrom(params))
	return nil
}

// AudioSetVolume sets a channel's gain in decibels (spec §4.8
// "set_volume(db)"). Decibels are passed as a fixed-point value scaled by
// 100, the same integer encoding every other scalar syscall parameter
// uses, since vm.Param carries no floating-point variant.
func (c *ClassicUtils) AudioSetVolume(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 3, "audio_set_volume"); err != nil {
		return err
	}
	db := float64(int32(params[2].Value)) / 100
	c.Audio.SetVolume(channelFrom(params), db)
	return nil
}

// AudioFade ramps a channel's volume to vol over ms milliseconds,
// optionally stopping playback at the end and optionally blocking (spec
// §4.8 "fade(vol, ms, stop?, sync?)").
func (c *ClassicUtils) AudioFade(m *vm.VM, params []vm.Param) error {
	if err := reqParams(params, 6, "audio_fade"); err != nil {
		return err
	}
	vol := float64(int32(params[2].Value)) / 100
	ms := pint(params[3])
	stop := params[4].Value != 0
	sync := params[5].Value != 0
	pump := func() {
		if c.Input != nil {
			c.Input.PumpEvents(c.Queue)
		}
	}
	c.Audio.Fade(channelFrom(params), vol, ms, stop, sync, pump)
	return nil
}
