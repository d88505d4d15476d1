package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/hwt/internal/config"
	"github.com/zjrosen/hwt/internal/highlight"
	"github.com/zjrosen/hwt/internal/log"
	"github.com/zjrosen/hwt/internal/overlay"
	"github.com/zjrosen/hwt/internal/pubsub"
	"github.com/zjrosen/hwt/internal/watcher"
)

var (
	watchSpec   specFlags
	watchOutput renderFlags
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Keep an overlay in step with a file",
	Long: `Watch attaches an overlay to FILE and re-renders it every time the file
changes. With --out the overlay is written as an HTML document that can be
opened next to the editor; otherwise each frame is printed to stdout.

When the highlights come from the config file, edits to the config file are
picked up too. Press Ctrl+C to stop; the overlay document is removed.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchSpec.register(watchCmd)
	watchOutput.register(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watchOutput.out == "" {
		watchOutput.out = cfg.Watch.Output
	}
	opts, err := watchOutput.options(cfg.Render)
	if err != nil {
		return err
	}
	spec, err := watchSpec.spec(ctx, cfg.Highlights)
	if err != nil {
		return err
	}

	path := args[0]
	sink := watchOutput.sink(cmd.OutOrStdout(), path, "\n\f\n")
	h, err := overlay.Attach(ctx, overlay.FileSurface{Path: path}, sink, spec, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := h.Detach(); err != nil {
			log.ErrorErr(log.CatOverlay, "detach failed", err, "id", h.ID())
		}
	}()

	go reportFrames(ctx, cmd.ErrOrStderr(), h.Subscribe(ctx))

	paths := []string{path}
	followConfig := watchSpec.rules() == nil && viper.ConfigFileUsed() != ""
	if followConfig {
		paths = append(paths, viper.ConfigFileUsed())
	}

	wcfg := watcher.DefaultConfig(paths...)
	if cfg.Watch.Debounce > 0 {
		wcfg.DebounceDur = cfg.Watch.Debounce
	}
	w, err := watcher.New(wcfg)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			if followConfig {
				refreshSpec(ctx, h)
				continue
			}
			// Errors are reported through the frame subscription.
			_ = h.Update(ctx)
		}
	}
}

// refreshSpec re-reads the config file and applies its highlights. A broken
// config keeps the current highlights.
func refreshSpec(ctx context.Context, h *overlay.Handle) {
	spec, err := reloadSpec(ctx)
	if err != nil {
		log.ErrorErr(log.CatConfig, "reload failed, keeping previous highlights", err)
		_ = h.Update(ctx)
		return
	}
	_ = h.SetSpec(ctx, spec)
}

func reloadSpec(ctx context.Context) (highlight.Spec, error) {
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}
	next, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	// Patterns dropped from the config should not outlive it.
	if err := patternCache.Reset(ctx); err != nil {
		return nil, err
	}
	return config.BuildSpec(ctx, next.Highlights, patternCache)
}

// reportFrames prints a status line for every update.
func reportFrames(ctx context.Context, w io.Writer, events <-chan pubsub.Event[overlay.Frame]) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			_, _ = fmt.Fprintln(w, frameStatus(ev))
		}
	}
}

func frameStatus(ev pubsub.Event[overlay.Frame]) string {
	f := ev.Payload
	switch ev.Type {
	case pubsub.FailedEvent:
		return fmt.Sprintf("update #%d failed: %v", f.Seq, f.Err)
	case pubsub.DetachedEvent:
		return "detached"
	default:
		return fmt.Sprintf("update #%d: %d ranges in %s", f.Seq, len(f.Ranges), f.Duration)
	}
}
