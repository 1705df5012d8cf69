package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryanchriswhite/tortor/internal/capture"
	"github.com/bryanchriswhite/tortor/internal/config"
	"github.com/bryanchriswhite/tortor/internal/hotkey"
	"github.com/bryanchriswhite/tortor/internal/logger"
	"github.com/bryanchriswhite/tortor/internal/notify"
	"github.com/bryanchriswhite/tortor/internal/storage"
	"github.com/bryanchriswhite/tortor/internal/terminal"
	"github.com/bryanchriswhite/tortor/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Wait for hotkeys and capture screenshots",
	Long: `Register the global hotkeys and wait. The start hotkey begins saving a
screenshot every interval; the pause hotkey toggles capturing without
resetting the count; the quit hotkey waits for the current capture, prints
how many screenshots were saved, and exits.

Ctrl+C exits immediately without a summary.`,
	Example: `  # Run with defaults (Alt+S / Alt+P / Alt+Q, every 3.5s, ./screenshots/)
  tortor run

  # Capture every 10 seconds into ~/Pictures/tortor
  tortor run --interval 10 --output-dir ~/Pictures/tortor

  # Use different shortcuts
  tortor run --start-key "<ctrl>+<alt>+s" --quit-key "<ctrl>+<alt>+q"

  # Also show pause/resume as desktop notifications
  tortor run --notify`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	// "tortor" with no subcommand behaves like "tortor run"
	rootCmd.RunE = runRun

	runCmd.Flags().Float64("interval", 0, "seconds between screenshots (default is 3.5)")
	runCmd.Flags().String("start-key", "", "hotkey that starts capturing (default <alt>+s)")
	runCmd.Flags().String("pause-key", "", "hotkey that pauses and resumes (default <alt>+p)")
	runCmd.Flags().String("quit-key", "", "hotkey that quits (default <alt>+q)")
	runCmd.Flags().Bool("notify", false, "show status changes as desktop notifications")

	for _, name := range []string{"interval", "start-key", "pause-key", "quit-key", "notify"} {
		viper.BindPFlag(overrides[name], runCmd.Flags().Lookup(name))
	}
}

// shortcuts holds the parsed hotkeys from the config
type shortcuts struct {
	start, pause, quit hotkey.Binding
}

func parseShortcuts(cfg *config.Config) (shortcuts, error) {
	var s shortcuts
	var err error
	if s.start, err = hotkey.Parse(cfg.Hotkeys.Start); err != nil {
		return s, err
	}
	if s.pause, err = hotkey.Parse(cfg.Hotkeys.Pause); err != nil {
		return s, err
	}
	if s.quit, err = hotkey.Parse(cfg.Hotkeys.Quit); err != nil {
		return s, err
	}
	return s, nil
}

// bindWorker connects the three shortcuts to the worker operations
func bindWorker(d *hotkey.Dispatcher, keys shortcuts, w *worker.Worker) error {
	start := func() {
		if err := w.Initialize(); err != nil {
			logger.Fatal(err, "Failed to start capturing")
		}
	}
	if err := d.Bind(keys.start, start); err != nil {
		return err
	}
	if err := d.Bind(keys.pause, w.PauseOrResume); err != nil {
		return err
	}
	return d.Bind(keys.quit, w.Exit)
}

func runRun(cmd *cobra.Command, args []string) error {
	configMgr, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg := configMgr.Get()
	log := logger.WithComponent("run")

	keys, err := parseShortcuts(cfg)
	if err != nil {
		return err
	}

	// Initialize capture backend
	router, err := capture.NewRouter(cfg.Capture.Backend, cfg.Capture.Display)
	if err != nil {
		return err
	}
	if err := router.Start(); err != nil {
		return fmt.Errorf("failed to start capture: %w", err)
	}
	defer router.Stop()

	// Status messages
	notifier := notify.Multi{notify.NewConsole(os.Stdout)}
	if cfg.Notify.Desktop {
		desktop, err := notify.NewDesktop("tortor")
		if err != nil {
			log.Warn().Err(err).Msg("Desktop notifications not available")
		} else {
			defer desktop.Close()
			notifier = append(notifier, desktop)
		}
	}

	// Initialize hotkey listener
	listener, err := hotkey.NewX11Listener()
	if err != nil {
		return fmt.Errorf("failed to start hotkey listener: %w", err)
	}
	defer listener.Close()

	store := storage.NewOS()
	w := worker.New(capture.NewSink(router, store), store, worker.Options{
		OutputDir: cfg.OutputDir,
		Interval:  cfg.Interval(),
		Notifier:  notifier,
		PauseKey:  keys.pause.String(),
		QuitKey:   keys.quit.String(),
		Exit: func(code int) {
			if cfg.FlushInput {
				// Give the terminal a moment to deliver the last keystrokes
				time.Sleep(10 * time.Millisecond)
				if err := terminal.FlushInput(os.Stdin); err != nil {
					log.Debug().Err(err).Msg("Failed to flush terminal input")
				}
			}
			listener.Close()
			router.Stop()
			os.Exit(code)
		},
	})

	dispatcher := hotkey.NewDispatcher()
	if err := bindWorker(dispatcher, keys, w); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("📸 tortor - periodic screenshots")
	fmt.Println("================================")
	fmt.Printf("   - %s  start capturing\n", keys.start)
	fmt.Printf("   - %s  pause / resume\n", keys.pause)
	fmt.Printf("   - %s  quit\n", keys.quit)
	fmt.Printf("   - saving every %v to %s\n", cfg.Interval(), cfg.OutputDir)
	fmt.Println()

	log.Info().
		Str("backend", router.Name()).
		Str("output_dir", cfg.OutputDir).
		Dur("interval", cfg.Interval()).
		Msg("Waiting for hotkeys")

	err = listener.Listen(ctx, dispatcher)
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("Interrupted, exiting")
		return nil
	}
	return err
}
