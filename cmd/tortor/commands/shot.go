package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/bryanchriswhite/tortor/internal/capture"
	"github.com/bryanchriswhite/tortor/internal/storage"
	"github.com/bryanchriswhite/tortor/internal/worker"
	"github.com/spf13/cobra"
)

var shotCmd = &cobra.Command{
	Use:   "shot",
	Short: "Take a single screenshot and exit",
	Long: `Capture the screen once into the output directory using the same backend,
naming and directory handling as "tortor run". Useful to check that capture
works before relying on the hotkeys.`,
	Example: `  # One screenshot into the configured directory
  tortor shot

  # One screenshot of the second monitor into /tmp
  tortor shot --display 1 --output-dir /tmp`,
	Args: cobra.NoArgs,
	RunE: runShot,
}

func init() {
	rootCmd.AddCommand(shotCmd)
}

func runShot(cmd *cobra.Command, args []string) error {
	configMgr, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg := configMgr.Get()

	router, err := capture.NewRouter(cfg.Capture.Backend, cfg.Capture.Display)
	if err != nil {
		return err
	}
	if err := router.Start(); err != nil {
		return fmt.Errorf("failed to start capture: %w", err)
	}
	defer router.Stop()

	store := storage.NewOS()
	if err := store.EnsureDir(cfg.OutputDir); err != nil {
		return err
	}

	name := worker.ScreenshotName(time.Now())
	path := filepath.Join(cfg.OutputDir, name)
	if err := capture.NewSink(router, store).Capture(path); err != nil {
		return err
	}

	fmt.Printf("Screenshot saved on path %s\n", path)
	return nil
}
