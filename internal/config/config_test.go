package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleINI = `
[CONFIG]
title = Example Title

[MES]
start = OPEN.MES

[FILE]
bg = BG.ARC
bg_archive = true
mes = MES
mes_archive = false

[MONITOR]
index = 1

[VOLUME]
bgm = 20
se = 15
voice = 25

[SOUNDINFO]
mute_bgm = false
mute_se = true
`

func writeTempINI(t *testing.T, name, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDecodesAllSections(t *testing.T) {
	path := writeTempINI(t, "AI5WIN.INI", sampleINI)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "Example Title" {
		t.Fatalf("Title = %q", cfg.Title)
	}
	if cfg.StartMES != "OPEN.MES" {
		t.Fatalf("StartMES = %q", cfg.StartMES)
	}
	if !cfg.BG.IsArchive || cfg.BG.Path != "BG.ARC" {
		t.Fatalf("BG = %+v", cfg.BG)
	}
	if cfg.MES.IsArchive || cfg.MES.Path != "MES" {
		t.Fatalf("MES = %+v", cfg.MES)
	}
	if cfg.Monitor != 1 {
		t.Fatalf("Monitor = %d", cfg.Monitor)
	}
	if cfg.VolumeBGM != 20 || cfg.VolumeSE != 15 || cfg.VolumeVoice != 25 {
		t.Fatalf("volumes = %+v", cfg)
	}
	if cfg.MuteBGM || !cfg.MuteSE {
		t.Fatalf("mute flags = bgm=%v se=%v", cfg.MuteBGM, cfg.MuteSE)
	}
}

func TestResolvePathFindsAI5WinIniInDirectory(t *testing.T) {
	dir := t.TempDir()
	iniPath := filepath.Join(dir, "AI5WIN.INI")
	if err := os.WriteFile(iniPath, []byte(sampleINI), 0o644); err != nil {
		t.Fatal(err)
	}
	resolved, err := ResolvePath(dir)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != iniPath {
		t.Fatalf("resolved = %q, want %q", resolved, iniPath)
	}
}

func TestResolvePathFallsBackToAI5EngIni(t *testing.T) {
	dir := t.TempDir()
	iniPath := filepath.Join(dir, "AI5ENG.INI")
	if err := os.WriteFile(iniPath, []byte(sampleINI), 0o644); err != nil {
		t.Fatal(err)
	}
	resolved, err := ResolvePath(dir)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != iniPath {
		t.Fatalf("resolved = %q, want %q", resolved, iniPath)
	}
}

func TestResolvePathPassesThroughAFile(t *testing.T) {
	path := writeTempINI(t, "custom.ini", sampleINI)
	resolved, err := ResolvePath(path)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
}

func TestResolvePathErrorsWithoutKnownFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := ResolvePath(dir); err == nil {
		t.Fatal("expected an error when neither known INI name is present")
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	t.Cleanup(func() { delete(registry, "test-title") })
	Register(Title{ID: "test-title", XMult: 2})
	got, ok := Lookup("test-title")
	if !ok || got.XMult != 2 {
		t.Fatalf("Lookup returned %+v, %v", got, ok)
	}
}
