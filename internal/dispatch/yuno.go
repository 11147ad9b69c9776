package dispatch

import (
	"github.com/ai5run/ai5/internal/config"
	"github.com/ai5run/ai5/internal/memory"
	"github.com/ai5run/ai5/internal/vm"
)

// yunoLayout is YU-NO's memory image layout (spec §4.2's reference table
// is documented throughout for this title). Region sizes are chosen to
// comfortably hold the counts spec §3 names (26 user var16/var32 slots,
// up to 2000 var4 flags, a 150-deep procedure table handled entirely by
// internal/vm, up to 200 sysvar32 slots, a 64-entry menu table) with no
// region overlap.
var yunoLayout = memory.Layout{
	MESNameOff: 0x0000,
	MESNameLen: 16,

	Var4Off:   0x0010,
	Var4Count: 2000,

	SysVar16Ptr: 0x0400,
	Var16Off:    0x0410,
	SysVar16Off: 0x0450,
	SysVar16Len: 28,

	Var32Off:    0x0490,
	SysVar32Off: 0x0500,
	SysVar32Len: 200,

	HeapOff: 0x1000,
	HeapLen: 0x8000,

	FileDataOff: 0x9000,
	FileDataLen: 0x20000,

	PaletteOff: 0x29000,

	MenuAddrOff: 0x29400,
	MenuNumOff:  0x29500,
	MenuMax:     64,

	Mem16Len: 0x1000,

	TotalSize: 0x29600,
}

// yunoSysVar16MaskColor is the sysvar16 slot YU-NO keeps its active animation
// mask colour in.
const yunoSysVar16MaskColor = 0

const (
	yunoSysFarcall          = 30
	yunoSysSetScreenSurface = 31

	yunoSysCopy              = 32
	yunoSysCopyMasked        = 33
	yunoSysCopySwap          = 34
	yunoSysCompose           = 35
	yunoSysBlend             = 36
	yunoSysBlendMasked       = 37
	yunoSysInvertColors      = 38
	yunoSysFill              = 39
	yunoSysSwapColors        = 40
	yunoSysBlendFill         = 41
	yunoSysDrawCG            = 42
	yunoSysCopyProgressive   = 43
	yunoSysPixelCrossfade    = 44
	yunoSysScaleH            = 45
	yunoSysZoom              = 46
	yunoSysPixelate          = 47
	yunoSysFadeDown          = 48
	yunoSysFadeRight         = 49
	yunoSysBlinkFade         = 50
	yunoSysPaletteSetAll     = 51
	yunoSysPaletteSetOne     = 52
	yunoSysPaletteCrossTo    = 53
	yunoSysPaletteCrossColor = 54
	yunoSysDisplayFreeze     = 55
	yunoSysDisplayUnfreeze   = 56
	yunoSysDisplayHide       = 57
	yunoSysDisplayShow       = 58
	yunoSysDisplayFadeOut    = 59
	yunoSysDisplayFadeIn     = 60

	yunoUtilStrlen           = 10
	yunoUtilGetTime          = 11
	yunoUtilInputCheck       = 12
	yunoUtilCursorHitTest    = 13
	yunoUtilBacklogPush      = 14
	yunoUtilMenuQuery        = 15
	yunoUtilSaveGame         = 16
	yunoUtilLoadGame         = 17
	yunoUtilImageLoad        = 18
	yunoUtilSetFontSize      = 19
	yunoUtilSetTextColor     = 20
	yunoUtilDisplayNumber    = 21
	yunoUtilCursorLoad       = 22
	yunoUtilCursorSetPos     = 23
	yunoUtilCursorShow       = 24
	yunoUtilCursorHide       = 25
	yunoUtilFileRead         = 26
	yunoUtilWaitInputOrTimer = 27
	yunoUtilAnimLoad         = 28
	yunoUtilAnimCommand      = 29
	yunoUtilAnimWait         = 30
	yunoUtilAudioPlay        = 31
	yunoUtilAudioStop        = 32
	yunoUtilAudioSetVolume   = 33
	yunoUtilAudioFade        = 34
)

// NewYUNO builds the Game record for YU-NO, wiring the shared classics
// bank and farcall into the slot numbers this title's original binary
// used them at (spec §4.3). classics supplies the collaborators the
// wired handlers need; callers construct it from the live compositor,
// renderer, backlog, input source, and clock once those collaborators
// exist.
func NewYUNO(classics *ClassicUtils) *Game {
	g := NewGame("yuno")
	g.SetXMult(1)
	g.SetCallSavesProcedures(false)
	g.SetProcClearsFlag(true)
	g.SetFlag("seen-this-scene", 0x0001)
	g.SetFlag("voice-enabled", 0x0002)

	g.RegisterSys(yunoSysFarcall, Farcall)
	g.RegisterSys(yunoSysSetScreenSurface, classics.SetScreenSurface)

	g.RegisterSys(yunoSysCopy, classics.GfxCopy)
	g.RegisterSys(yunoSysCopyMasked, classics.GfxCopyMasked)
	g.RegisterSys(yunoSysCopySwap, classics.GfxCopySwap)
	g.RegisterSys(yunoSysCompose, classics.GfxCompose)
	g.RegisterSys(yunoSysBlend, classics.GfxBlend)
	g.RegisterSys(yunoSysBlendMasked, classics.GfxBlendMasked)
	g.RegisterSys(yunoSysInvertColors, classics.GfxInvertColors)
	g.RegisterSys(yunoSysFill, classics.GfxFill)
	g.RegisterSys(yunoSysSwapColors, classics.GfxSwapColors)
	g.RegisterSys(yunoSysBlendFill, classics.GfxBlendFill)
	g.RegisterSys(yunoSysDrawCG, classics.GfxDrawCG)
	g.RegisterSys(yunoSysCopyProgressive, classics.GfxCopyProgressive)
	g.RegisterSys(yunoSysPixelCrossfade, classics.GfxPixelCrossfade)
	g.RegisterSys(yunoSysScaleH, classics.GfxScaleH)
	g.RegisterSys(yunoSysZoom, classics.GfxZoom)
	g.RegisterSys(yunoSysPixelate, classics.GfxPixelate)
	g.RegisterSys(yunoSysFadeDown, classics.GfxFadeDown)
	g.RegisterSys(yunoSysFadeRight, classics.GfxFadeRight)
	g.RegisterSys(yunoSysBlinkFade, classics.GfxBlinkFade)
	g.RegisterSys(yunoSysPaletteSetAll, classics.PaletteSetAll)
	g.RegisterSys(yunoSysPaletteSetOne, classics.PaletteSetOne)
	g.RegisterSys(yunoSysPaletteCrossTo, classics.PaletteCrossfadeTo)
	g.RegisterSys(yunoSysPaletteCrossColor, classics.PaletteCrossfadeToColor)
	g.RegisterSys(yunoSysDisplayFreeze, classics.DisplayFreeze)
	g.RegisterSys(yunoSysDisplayUnfreeze, classics.DisplayUnfreeze)
	g.RegisterSys(yunoSysDisplayHide, classics.DisplayHide)
	g.RegisterSys(yunoSysDisplayShow, classics.DisplayShow)
	g.RegisterSys(yunoSysDisplayFadeOut, classics.DisplayFadeOut)
	g.RegisterSys(yunoSysDisplayFadeIn, classics.DisplayFadeIn)

	g.RegisterUtil(yunoUtilStrlen, classics.Strlen)
	g.RegisterUtil(yunoUtilGetTime, classics.GetTime)
	g.RegisterUtil(yunoUtilInputCheck, classics.InputCheck)
	g.RegisterUtil(yunoUtilCursorHitTest, classics.CursorHitTest)
	g.RegisterUtil(yunoUtilBacklogPush, classics.BacklogPush)
	g.RegisterUtil(yunoUtilMenuQuery, classics.MenuQuery)
	g.RegisterUtil(yunoUtilSaveGame, classics.SaveGame)
	g.RegisterUtil(yunoUtilLoadGame, classics.LoadGame)
	g.RegisterUtil(yunoUtilImageLoad, classics.ImageLoad)
	g.RegisterUtil(yunoUtilSetFontSize, classics.SetFontSize)
	g.RegisterUtil(yunoUtilSetTextColor, classics.SetTextColor)
	g.RegisterUtil(yunoUtilDisplayNumber, classics.DisplayNumber)
	g.RegisterUtil(yunoUtilCursorLoad, classics.CursorLoad)
	g.RegisterUtil(yunoUtilCursorSetPos, classics.CursorSetPosition)
	g.RegisterUtil(yunoUtilCursorShow, classics.CursorShow)
	g.RegisterUtil(yunoUtilCursorHide, classics.CursorHide)
	g.RegisterUtil(yunoUtilFileRead, classics.FileRead)
	g.RegisterUtil(yunoUtilWaitInputOrTimer, classics.WaitInputOrTimer)
	g.RegisterUtil(yunoUtilAnimLoad, classics.AnimLoad)
	g.RegisterUtil(yunoUtilAnimCommand, classics.AnimCommand)
	g.RegisterUtil(yunoUtilAnimWait, classics.AnimWait)
	g.RegisterUtil(yunoUtilAudioPlay, classics.AudioPlay)
	g.RegisterUtil(yunoUtilAudioStop, classics.AudioStop)
	g.RegisterUtil(yunoUtilAudioSetVolume, classics.AudioSetVolume)
	g.RegisterUtil(yunoUtilAudioFade, classics.AudioFade)

	classics.MaskColorVar16 = yunoSysVar16MaskColor

	g.SetMemInit(func(m *vm.VM) {
		mem := m.Mem()
		_ = mem.SetDword(yunoLayout.SysVar16Ptr, yunoLayout.SysVar16Off)
	})

	return g
}

func init() {
	config.Register(config.Title{
		ID:     "yuno",
		Layout: yunoLayout,
		XMult:  1,
	})
}
