package collab

// Channel names the audio bus an operation targets (spec §4.8 "Channels:
// BGM, SE[0..N], VOICE[0..N], optional VOICESUB").
type Channel struct {
	Kind  ChannelKind
	Index int
}

// ChannelKind distinguishes the audio bus families.
type ChannelKind int

const (
	ChannelBGM ChannelKind = iota
	ChannelSE
	ChannelVoice
	ChannelVoiceSub
)

// Audio is the collaborator driving playback (spec §4.8 "Audio"). A
// faiface/beep-backed implementation decodes mp3 streams and mixes them
// through beep/speaker the way the teacher's ManageAudio does for a
// single fixed beep sample, generalized to addressable channels with
// volume and fade control via beep/effects.Volume.
type Audio interface {
	// Play starts name looping (BGM) or once (SE/VOICE) on ch.
	Play(ch Channel, name string) error

	// Stop halts whatever is playing on ch.
	Stop(ch Channel)

	// SetVolume sets ch's gain in decibels (spec §4.8 "set_volume(db)").
	SetVolume(ch Channel, db float64)

	// Fade ramps ch's volume to vol over ms milliseconds, optionally
	// stopping playback at the end, optionally blocking (pumping host
	// events) until complete (spec §4.8 "fade(vol, ms, stop?, sync?)").
	Fade(ch Channel, vol float64, ms int, stop bool, sync bool, pump func())

	// IsPlaying, IsFading report ch's current transport state.
	IsPlaying(ch Channel) bool
	IsFading(ch Channel) bool
}
