package cmd

import (
	"fmt"
	"os"

	"github.com/faiface/beep"
	"github.com/spf13/cobra"

	"github.com/ai5run/ai5/internal/anim"
	"github.com/ai5run/ai5/internal/collab"
	"github.com/ai5run/ai5/internal/config"
	"github.com/ai5run/ai5/internal/dispatch"
	"github.com/ai5run/ai5/internal/gfx"
	"github.com/ai5run/ai5/internal/input"
	"github.com/ai5run/ai5/internal/memory"
	"github.com/ai5run/ai5/internal/pixel"
	"github.com/ai5run/ai5/internal/text"
	"github.com/ai5run/ai5/internal/vm"
)

// gameID selects which registered title (internal/config.Register) this
// process runs; each title's dispatch.NewXxx wires its own sys/util slots
// onto the shared opcode tables (spec §4.3).
var gameID string

// fullscreen requests the host window start in exclusive fullscreen.
var fullscreen bool

// runCmd runs the ai5run virtual machine against a title's INI-configured
// game tree (spec §6).
var runCmd = &cobra.Command{
	Use:   "run `path/to/ini-or-game-dir`",
	Short: "run a title under the ai5run virtual machine",
	Args:  cobra.ExactArgs(1),
	Run:   runGame,
}

func init() {
	runCmd.Flags().StringVar(&gameID, "game", "yuno", "registered title id to run")
	runCmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "start the host window in fullscreen")
}

func runGame(cmd *cobra.Command, args []string) {
	if err := run(args[0]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(arg string) error {
	iniPath, err := config.ResolvePath(arg)
	if err != nil {
		return err
	}
	cfg, err := config.Load(iniPath)
	if err != nil {
		return err
	}

	title, ok := config.Lookup(gameID)
	if !ok {
		return fmt.Errorf("unknown --game %q (try a registered title id)", gameID)
	}

	mem := memory.New(title.Layout)

	assets := &collab.DirAssets{MESDir: cfg.MES.Path, CGDir: cfg.BG.Path, DataDir: cfg.Data.Path}
	audio := collab.NewBeepAudio(cfg.BGM.Path, beep.SampleRate(44100))
	savedata := &collab.FileSavedata{Dir: cfg.Priv.Path}

	win, err := pixel.NewWindow(cfg.Title, 640, 400, fullscreen)
	if err != nil {
		return err
	}

	compositor := gfx.NewCompositor(gfx.FormatIndexed8, [gfx.MaxSurfaces][2]int{0: {640, 400}}, 0)
	renderer := text.NewRenderer(text.NewCache(text.DefaultFactory))
	backlog := text.NewBacklog(200)
	display := &gfx.Display{}
	queue := &input.Queue{}
	cursor := collab.NewStateCursor()
	scheduler := anim.NewScheduler()

	classics := &dispatch.ClassicUtils{
		Compositor: compositor,
		Renderer:   renderer,
		Backlog:    backlog,
		Input:      win,
		Clock:      input.WallClock{},
		Queue:      queue,
		Savedata:   savedata,
		Assets:     assets,
		Display:    display,
		Cursor:     cursor,
		Audio:      audio,
		Anim:       scheduler,
	}

	var game *dispatch.Game
	switch gameID {
	case "yuno":
		game = dispatch.NewYUNO(classics)
	default:
		return fmt.Errorf("no dispatch table wired for title %q", gameID)
	}
	scheduler.SetFrameInterval(game.FrameIntervalMS)

	if !cfg.MuteBGM {
		audio.SetVolume(collab.Channel{Kind: collab.ChannelBGM}, float64(cfg.VolumeBGM))
	}

	m := vm.NewVM(mem, game, assets, 1)

	m.SetDrawText(func(t string, halfWidth bool) {
		renderer.DrawIndexed(compositor.Surfaces[compositor.ScreenIndex], 0, 0, 13, t, 0)
	})
	m.SetChooseMenu(func(entries []vm.MenuEntry) int {
		// A real menu UI renders entries and waits for a pointer/keyboard
		// pick; this always waits for one input edge and takes the first
		// entry until a title needs richer menu presentation.
		input.Keywait(win, queue)
		return 0
	})
	m.SetPollGraphics(func() {
		// Every suspension point ticks the active palette crossfade and
		// all registered animation streams one frame before presenting
		// (spec §5 "At each suspension point the runtime... ticks all
		// animation streams").
		classics.TickEffects(1000 / 60)
		compositor.Present(win, display)
	})
	m.SetPumpEvents(func() {
		win.PumpEvents(queue)
	})

	return m.Run(cfg.StartMES)
}
