// Package config loads the Windows-style INI configuration spec §6
// describes and holds the static per-title registry (memory layout,
// id, default start-MES) that internal/dispatch builds a Game from.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// AssetSource names one of the archive-or-directory resource roots the
// INI's [FILE] section configures (spec §6 "whether each of bg/mes/bgm/
// voice/effect/data/priv is an archive or a loose directory and its
// name").
type AssetSource struct {
	IsArchive bool
	Path      string
}

// Config is the decoded contents of a title's INI file.
type Config struct {
	Title     string
	StartMES  string
	BG        AssetSource
	MES       AssetSource
	BGM       AssetSource
	Voice     AssetSource
	Effect    AssetSource
	Data      AssetSource
	Priv      AssetSource
	Monitor   int
	VolumeBGM int
	VolumeSE  int
	VolumeVoice int
	MuteBGM   bool
	MuteSE    bool
	MuteVoice bool
}

// candidateNames is tried, in order, when a positional argument names a
// directory instead of a file (spec §6 "positional argument is either the
// INI path or a directory containing AI5WIN.INI / AI5ENG.INI").
var candidateNames = []string{"AI5WIN.INI", "AI5ENG.INI"}

// ResolvePath turns a user-supplied path into a concrete INI file path,
// trying each of candidateNames inside arg if it names a directory.
func ResolvePath(arg string) (string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	if !info.IsDir() {
		return arg, nil
	}
	for _, name := range candidateNames {
		p := filepath.Join(arg, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: no AI5WIN.INI or AI5ENG.INI found under %s", arg)
}

// Load reads and decodes the INI file at path.
func Load(path string) (*Config, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}

	c := &Config{}
	cfgSec := f.Section("CONFIG")
	c.Title = cfgSec.Key("title").String()

	mesSec := f.Section("MES")
	c.StartMES = mesSec.Key("start").String()

	fileSec := f.Section("FILE")
	c.BG = readSource(fileSec, "bg")
	c.MES = readSource(fileSec, "mes")
	c.BGM = readSource(fileSec, "bgm")
	c.Voice = readSource(fileSec, "voice")
	c.Effect = readSource(fileSec, "effect")
	c.Data = readSource(fileSec, "data")
	c.Priv = readSource(fileSec, "priv")

	monSec := f.Section("MONITOR")
	c.Monitor = monSec.Key("index").MustInt(0)

	volSec := f.Section("VOLUME")
	c.VolumeBGM = volSec.Key("bgm").MustInt(0)
	c.VolumeSE = volSec.Key("se").MustInt(0)
	c.VolumeVoice = volSec.Key("voice").MustInt(0)

	soundSec := f.Section("SOUNDINFO")
	c.MuteBGM = soundSec.Key("mute_bgm").MustBool(false)
	c.MuteSE = soundSec.Key("mute_se").MustBool(false)
	c.MuteVoice = soundSec.Key("mute_voice").MustBool(false)

	return c, nil
}

func readSource(sec *ini.Section, key string) AssetSource {
	return AssetSource{
		IsArchive: sec.Key(key + "_archive").MustBool(false),
		Path:      sec.Key(key).String(),
	}
}
