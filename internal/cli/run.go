package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	circuit "github.com/alexdmiller/sonic-circuit"
	"github.com/alexdmiller/sonic-circuit/internal/config"
	"github.com/alexdmiller/sonic-circuit/internal/presentation/tui"
	"github.com/alexdmiller/sonic-circuit/pkg/adapters/audio"
	"github.com/alexdmiller/sonic-circuit/pkg/adapters/process"
	"github.com/alexdmiller/sonic-circuit/pkg/domain"
	"github.com/alexdmiller/sonic-circuit/pkg/observability"
)

// DefaultWatchInterval is how often a watched circuit file is polled.
const DefaultWatchInterval = 500 * time.Millisecond

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Token string
	// Ticks stops the run after that many ticks; zero runs until interrupted.
	Ticks  uint64
	FPS    int
	Fires  []circuit.ScheduledFire
	Render bool
	// Trace prints one line per fire.
	Trace bool
	Bell  bool
	// Watch is a circuit file reloaded whenever it changes.
	Watch string
	Quiet bool
	Out   io.Writer
}

// Run plays a circuit in real time until ctx is done or opts.Ticks is
// reached. A token that fails to decode is logged and the run starts with
// an empty circuit.
func Run(ctx context.Context, cfg config.Config, opts RunOptions, logger *slog.Logger) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.Render && !opts.Quiet {
		tui.PrintBanner(out)
	}

	player := audio.NewLogPlayer(logger)
	player.Level = slog.LevelDebug
	players := audio.Multi{player}
	if opts.Bell {
		players = append(players, audio.NewBell(out))
	}
	if cfg.Audio.Command != "" {
		cmdPlayer, err := process.NewPlayer(ctx, process.Config{
			Command: cfg.Audio.Command,
			Args:    cfg.Audio.Args,
		}, process.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("failed to set up audio command: %w", err)
		}
		defer cmdPlayer.Wait()
		players = append(players, cmdPlayer)
	}

	hooks := observability.LogHooks(logger)
	if opts.Trace {
		hooks = hooks.Merge(traceHooks(out))
	}

	engineOpts := append(EngineOptions(cfg),
		circuit.WithAudio(players),
		circuit.WithLogger(logger),
		circuit.WithLifecycleHooks(hooks),
	)
	eng, err := circuit.New(engineOpts...)
	if err != nil {
		return err
	}
	if err := eng.Load(opts.Token); err != nil {
		logger.Error("Failed to load circuit, starting empty", "error", err)
	}

	r := circuit.NewRunner(eng)
	r.Logger = logger
	r.MaxTicks = opts.Ticks
	r.Fires = opts.Fires
	if opts.FPS > 0 {
		r.FPS = opts.FPS
	}
	if opts.Render {
		r.Renderer = tui.NewFrameRenderer(out, cfg.CellSize)
	}
	if opts.Watch != "" {
		r.Reload = WatchFile(ctx, opts.Watch, DefaultWatchInterval, logger)
		if !opts.Quiet {
			printSystemMessage(out, "Watching '%s' for changes.", opts.Watch)
		}
	}

	if err := handleExecutionError(r.Run(ctx)); err != nil {
		return err
	}
	if !opts.Quiet {
		printSystemMessage(out, "Stopped after %d ticks with %d signals in flight.", eng.Ticks(), eng.Store().SignalCount())
		printSystemMessage(out, "Circuit: %s", eng.Encode())
	}
	return nil
}

func traceHooks(w io.Writer) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFire: func(e *domain.FireEvent) {
			trigger := ""
			if e.Manual {
				trigger = " (manual)"
			}
			fmt.Fprintf(w, "tick %d: node %d plays %s, %s to %d%s\n", e.Tick, e.NodeID, e.Pitch, e.Mode, e.Emitted, trigger)
		},
	}
}
