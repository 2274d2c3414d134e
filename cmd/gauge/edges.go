package main

import (
	"fmt"
	"io"

	"frame-gauge/internal/export"
	"frame-gauge/internal/image"

	"github.com/spf13/cobra"
)

var edgesCmd = &cobra.Command{
	Use:   "edges <input> <output.png>",
	Short: "Write the Sobel edge magnitude of an image",
	Long:  "Apply the same edge filter the session uses on freeze and save the result as PNG. The outer pixel ring is copied unchanged.",
	Args:  cobra.ExactArgs(2),
	RunE:  runEdges,
}

func init() {
	rootCmd.AddCommand(edgesCmd)
}

func runEdges(cmd *cobra.Command, args []string) error {
	if !image.IsSupportedFormat(args[0]) {
		return fmt.Errorf("unsupported image format %q (supported: %v)", args[0], image.SupportedFormats())
	}
	layer, err := image.Load(args[0])
	if err != nil {
		return err
	}
	image.ApplySobel(layer.Image)

	if err := export.SaveFile(args[1], func(w io.Writer) error {
		return export.WritePNG(w, layer.Image)
	}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %dx%d edge image to %s\n", layer.Width(), layer.Height(), args[1])
	return nil
}
