package commands

import (
	"testing"
	"time"

	"github.com/bryanchriswhite/tortor/internal/config"
	"github.com/bryanchriswhite/tortor/internal/hotkey"
	"github.com/bryanchriswhite/tortor/internal/worker"
)

type nopSink struct{}

func (nopSink) Capture(string) error   { return nil }
func (nopSink) EnsureDir(string) error { return nil }

func TestParseShortcuts(t *testing.T) {
	cfg := config.Defaults()
	cfg.Hotkeys.Quit = "ctrl+alt+q"

	keys, err := parseShortcuts(cfg)
	if err != nil {
		t.Fatalf("parseShortcuts: %v", err)
	}
	if keys.start.String() != "<alt>+s" || keys.pause.String() != "<alt>+p" {
		t.Fatalf("start/pause = %s/%s", keys.start, keys.pause)
	}
	if keys.quit.String() != "<ctrl>+<alt>+q" {
		t.Fatalf("quit = %s", keys.quit)
	}

	cfg.Hotkeys.Start = "hyper+"
	if _, err := parseShortcuts(cfg); err == nil {
		t.Fatal("expected error for invalid start key")
	}
}

func TestBindWorker(t *testing.T) {
	keys, err := parseShortcuts(config.Defaults())
	if err != nil {
		t.Fatal(err)
	}

	exited := make(chan int, 1)
	w := worker.New(nopSink{}, nopSink{}, worker.Options{
		Interval: time.Hour,
		Exit:     func(code int) { exited <- code },
	})

	d := hotkey.NewDispatcher()
	if err := bindWorker(d, keys, w); err != nil {
		t.Fatalf("bindWorker: %v", err)
	}
	if n := len(d.Bindings()); n != 3 {
		t.Fatalf("bound %d hotkeys, want 3", n)
	}

	d.Dispatch(keys.start)
	if w.State() != worker.StateRunning {
		t.Fatalf("state after start = %s", w.State())
	}
	d.Dispatch(keys.pause)
	if w.State() != worker.StatePaused {
		t.Fatalf("state after pause = %s", w.State())
	}
	d.Dispatch(keys.quit)

	select {
	case code := <-exited:
		if code != 0 {
			t.Fatalf("exit code = %d", code)
		}
	case <-time.After(time.Second):
		t.Fatal("quit hotkey did not exit")
	}
	if w.State() != worker.StateStopped {
		t.Fatalf("state after quit = %s", w.State())
	}
}

func TestBindWorkerRejectsSharedKey(t *testing.T) {
	keys, err := parseShortcuts(config.Defaults())
	if err != nil {
		t.Fatal(err)
	}
	keys.quit = keys.pause

	w := worker.New(nopSink{}, nopSink{}, worker.Options{Exit: func(int) {}})
	if err := bindWorker(hotkey.NewDispatcher(), keys, w); err == nil {
		t.Fatal("expected duplicate binding error")
	}
}
