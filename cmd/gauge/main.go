// Command gauge measures distances and angles on image files without the
// desktop interface.
package main

import (
	"fmt"
	"log"
	"os"

	"frame-gauge/internal/version"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gauge",
	Short: "Measure distances and angles on a frame",
	Long: `gauge applies the Frame Gauge measurement session to image files.
Points are given in frame pixel coordinates; a reference pair with a known
length (or a direct scale) turns pixel lengths into real units.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
