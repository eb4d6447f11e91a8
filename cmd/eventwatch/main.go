// Command eventwatch tails the engine's event stream in a terminal UI.
// By default it installs itself as the global fallback and sees everything
// no feature handler claims; with -event it registers a named handler for
// just that event kind.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	enginebridge "github.com/screenlink/engine-bridge"
	"github.com/screenlink/engine-bridge/bridge"
	"github.com/screenlink/engine-bridge/config"
	"github.com/screenlink/engine-bridge/events"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to bridge options YAML")
		dir        = flag.String("dir", "", "Engine artifact directory (overrides config)")
		platform   = flag.String("platform", "", "Platform kind override")
		eventName  = flag.String("event", "", "Watch one event kind instead of the fallback stream")
	)
	flag.Parse()

	if err := run(*configPath, *dir, *platform, *eventName); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, dir, platform, eventName string) error {
	opts := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("read options: %w", err)
		}
		opts = loaded
	}
	if dir != "" {
		opts.ArtifactDir = dir
	}
	if platform != "" {
		opts.Platform = enginebridge.Platform(platform)
	}
	// A watcher is never the primary app process.
	opts.MainInstance = false

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctl := bridge.New(opts, bridge.WithLogger(zap.NewNop()))
	defer ctl.Close()

	p := tea.NewProgram(newModel(eventName), tea.WithAltScreen())

	forward := func(_ context.Context, ev events.Event) {
		p.Send(eventMsg{ev})
	}
	if eventName != "" {
		// A unique handler name keeps the watcher from colliding with the
		// app's own subscribers for the same event.
		handler := "eventwatch-" + uuid.NewString()
		if !ctl.Events().Register(eventName, handler, forward) {
			return fmt.Errorf("handler name collision on %q", eventName)
		}
	} else {
		ctl.Events().SetGlobalCallback(forward)
	}

	go func() {
		if err := ctl.Start(ctx); err != nil {
			p.Send(startupFailedMsg{err})
			return
		}
		p.Send(readyMsg{})
	}()

	_, err := p.Run()
	return err
}
