package main

import (
	"fmt"

	"frame-gauge/internal/capture/camera"

	"github.com/spf13/cobra"
)

var devicesMax int

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List video devices that deliver frames",
	Long:  "Probe device indices from 0 and list those that open and return a frame, with their frame size.",
	Args:  cobra.NoArgs,
	Run:   runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)

	devicesCmd.Flags().IntVarP(&devicesMax, "max", "n", 8, "Number of device indices to probe")
}

func runDevices(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	found := camera.Enumerate(devicesMax)
	if len(found) == 0 {
		fmt.Fprintln(out, "No video devices found")
		return
	}
	fmt.Fprintf(out, "%-6s %s\n", "Index", "Frame size")
	for _, d := range found {
		fmt.Fprintf(out, "%-6d %dx%d\n", d.Index, d.Width, d.Height)
	}
}
