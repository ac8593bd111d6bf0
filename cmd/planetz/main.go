package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/planetz/audio"
	"github.com/lixenwraith/planetz/config"
	"github.com/lixenwraith/planetz/core"
	"github.com/lixenwraith/planetz/engine"
	"github.com/lixenwraith/planetz/game"
	"github.com/lixenwraith/planetz/input"
	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/scene"
	"github.com/lixenwraith/planetz/service"
	"github.com/lixenwraith/planetz/status"
	"github.com/lixenwraith/planetz/store"
	"github.com/lixenwraith/planetz/tui"
	"github.com/lixenwraith/planetz/universe"
	"github.com/lixenwraith/planetz/waypoint"
	"github.com/lixenwraith/planetz/world"
)

var (
	configFlag = flag.String("config", "planetz.toml", "Config file (TOML); missing means defaults")
	debugFlag  = flag.Bool("debug", false, "Write logs to logs/planetz.log")
	sectorFlag = flag.String("sector", "", "Start sector, overrides the config")
	keymapFlag = flag.String("keymap", "", "Key binding overrides (TOML)")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()
	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "planetz: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *sectorFlag != "" {
		cfg.Data.StartSector = *sectorFlag
	}

	u, err := universe.Load(cfg.Data.UniverseFile)
	if err != nil {
		return err
	}
	missions, err := waypoint.LoadMissions(cfg.Data.MissionFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	var st world.PersistentStore = store.NewMemory()
	if cfg.Data.StoreDir != "" {
		dir, err := store.NewDir(cfg.Data.StoreDir)
		if err != nil {
			return err
		}
		st = dir
	}

	machine := input.NewMachine()
	if *keymapFlag != "" {
		raw, err := os.ReadFile(*keymapFlag)
		if err != nil {
			return err
		}
		override, err := input.LoadKeyConfig(raw)
		if err != nil {
			return err
		}
		machine.SetKeyTable(input.MergeKeyTable(input.DefaultKeyTable(), override))
	}

	logger := log.Default()
	metrics := status.NewRegistry()

	bridge := scene.NewBridge(scene.NewGraph(), logger)
	audioSvc := audio.NewService(nil, logger, metrics)
	hub := service.NewHub(logger)
	for _, s := range []service.Service{audioSvc, scene.NewBridgeService(bridge)} {
		if err := hub.Register(s); err != nil {
			return err
		}
	}
	if err := hub.InitAll(map[string][]any{
		"audio":        {cfg.Audio},
		"scene-bridge": {cfg.Server.SceneBridgeAddr},
	}); err != nil {
		return err
	}
	if err := hub.StartAll(); err != nil {
		return err
	}
	defer hub.StopAll()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	core.SetCrashTerminal(screen)
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()
	width, height := screen.Size()

	clock := engine.NewPausableClock()
	g, err := game.New(game.Options{
		Config:   cfg,
		Universe: u,
		Missions: missions,
		Store:    st,
		Scene:    bridge,
		Audio:    audioSvc.Sink(),
		Clock:    clock,
		Metrics:  metrics,
		Logger:   logger,
		Width:    width,
		Height:   height,
	})
	if err != nil {
		return err
	}

	var hoverX, hoverY int
	hovering := false

	orchestrator := tui.NewOrchestrator(screen)
	orchestrator.Register(tui.NewReticleLayer(g.HUD()), tui.PriorityReticle)
	orchestrator.Register(tui.NewHUDLayer(g.HUD()), tui.PriorityHUD)
	orchestrator.Register(tui.NewCommLayer(g.Comm()), tui.PriorityComm)
	orchestrator.Register(tui.NewStatusLayer(g.Status), tui.PriorityStatus)
	orchestrator.Register(tui.NewChartLayer(g.Chart(), func() (int, int, bool) {
		return hoverX, hoverY, hovering
	}), tui.PriorityChart)

	events := make(chan tcell.Event, 256)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	})

	ticker := time.NewTicker(parameter.FrameUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if m, ok := ev.(*tcell.EventMouse); ok {
				hoverX, hoverY = m.Position()
				hovering = true
			}
			in, ok := machine.Process(ev)
			if !ok {
				continue
			}
			if in.Type == input.IntentResize {
				orchestrator.Resize()
			}
			if !g.HandleIntent(in) {
				logger.Printf("[main] quit")
				return nil
			}

		case <-ticker.C:
			g.Tick()
			orchestrator.RenderFrame()
		}
	}
}
