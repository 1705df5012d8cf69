package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/bryanchriswhite/tortor/internal/capture"
	"github.com/spf13/cobra"
)

var displaysCmd = &cobra.Command{
	Use:   "displays",
	Short: "List active displays",
	Long: `List the displays the screenshot backend can capture. Use the index with
--display to choose which one is saved.`,
	Example: `  # List displays in table format (default)
  tortor displays

  # List displays in JSON format
  tortor displays --format json`,
	Args: cobra.NoArgs,
	RunE: runDisplays,
}

var displaysFormat string

func init() {
	rootCmd.AddCommand(displaysCmd)

	displaysCmd.Flags().StringVarP(&displaysFormat, "format", "f", "table", "output format (table or json)")
}

type displayInfo struct {
	Index  int `json:"index"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func runDisplays(cmd *cobra.Command, args []string) error {
	displays := capture.Displays()
	infos := make([]displayInfo, 0, len(displays))
	for _, d := range displays {
		infos = append(infos, displayInfo{
			Index:  d.Index,
			X:      d.Bounds.Min.X,
			Y:      d.Bounds.Min.Y,
			Width:  d.Bounds.Dx(),
			Height: d.Bounds.Dy(),
		})
	}

	switch displaysFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(infos)
	case "table":
		if len(infos) == 0 {
			fmt.Println("No active displays found")
			return nil
		}
		return printDisplaysTable(infos)
	default:
		return fmt.Errorf("unsupported format: %s (use 'table' or 'json')", displaysFormat)
	}
}

func printDisplaysTable(infos []displayInfo) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "INDEX\tSIZE\tPOSITION")
	fmt.Fprintln(w, "-----\t----\t--------")

	for _, d := range infos {
		fmt.Fprintf(w, "%d\t%dx%d\t(%d, %d)\n", d.Index, d.Width, d.Height, d.X, d.Y)
	}
	return nil
}
