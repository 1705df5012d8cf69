package terminal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFlushInputIgnoresNonTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "stdin"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := FlushInput(f); err != nil {
		t.Fatalf("FlushInput on regular file: %v", err)
	}
	if err := FlushInput(nil); err != nil {
		t.Fatalf("FlushInput(nil): %v", err)
	}
}
