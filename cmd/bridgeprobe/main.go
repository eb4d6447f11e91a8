// Command bridgeprobe brings the bridge up against a real engine artifact
// and reports how far the startup sequence got. Useful for packaging checks
// and for diagnosing a machine where the app shows a black screen.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	enginebridge "github.com/screenlink/engine-bridge"
	"github.com/screenlink/engine-bridge/bridge"
	"github.com/screenlink/engine-bridge/config"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to bridge options YAML")
		dir        = flag.String("dir", "", "Engine artifact directory (overrides config)")
		platform   = flag.String("platform", "", "Platform kind override (windows|linux|darwin|android|host)")
		verbose    = flag.Bool("v", false, "Verbose bridge logging")
		timeout    = flag.Duration("timeout", 30*time.Second, "Startup deadline")
	)
	flag.Parse()

	if err := run(*configPath, *dir, *platform, *verbose, *timeout); err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render("FAIL"), err)
		os.Exit(1)
	}
}

func run(configPath, dir, platform string, verbose bool, timeout time.Duration) error {
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

	log := zap.NewNop()
	if verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		log = dev
		defer log.Sync()
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ctl := bridge.New(opts, bridge.WithLogger(log))
	defer ctl.Close()

	fmt.Println(dimStyle.Render(fmt.Sprintf("probing engine for %s (dir %q)", opts.Platform, opts.ArtifactDir)))

	startErr := ctl.Start(ctx)

	fmt.Printf("%s %s\n", label("state"), stateLine(ctl.State()))
	if ctl.State() >= bridge.StateInitializing {
		ident := ctl.Identity()
		fmt.Printf("%s %s (%s)\n", label("device"), ident.Name, ident.ID)
		fmt.Printf("%s %s\n", label("workdir"), orNone(ctl.WorkDir()))
	}

	// Give fire-and-forget services a moment to surface failures.
	deadline := time.After(250 * time.Millisecond)
drain:
	for {
		select {
		case d := <-ctl.Diagnostics():
			fmt.Printf("%s %s: %v\n", label("service"), warnStyle.Render(d.Service), d.Err)
		case <-deadline:
			break drain
		}
	}

	if startErr != nil {
		return startErr
	}
	fmt.Println(okStyle.Render("READY"))
	return nil
}

func label(s string) string {
	return dimStyle.Render(fmt.Sprintf("%8s", s))
}

func stateLine(s bridge.State) string {
	if s == bridge.StateReady {
		return okStyle.Render(s.String())
	}
	return warnStyle.Render(s.String())
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
