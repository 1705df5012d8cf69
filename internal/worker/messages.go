package worker

import (
	"fmt"
	"time"
)

// nameLayout is the screenshot file name layout, YYYY-MM-DD_HH-MM-SS
const nameLayout = "2006-01-02_15-04-05"

// ScreenshotName returns the file name for a capture taken at t.
// Two captures within the same second get the same name.
func ScreenshotName(t time.Time) string {
	return t.Format(nameLayout) + ".png"
}

// CountSoFar describes how many screenshots have been saved, for the pause message
func CountSoFar(n uint64) string {
	switch n {
	case 0:
		return "No screenshots were saved yet."
	case 1:
		return "1 screenshot was saved so far."
	default:
		return fmt.Sprintf("%d screenshots were saved so far.", n)
	}
}

// FinalSummary describes the run at exit. It is empty when nothing was saved.
func FinalSummary(n uint64, dir string) string {
	switch n {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("While the program was running, 1 screenshot was saved on path '%s'.", dir)
	default:
		return fmt.Sprintf("While the program was running, %d screenshots were saved on path '%s'.", n, dir)
	}
}
