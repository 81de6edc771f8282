package cmd

import (
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pixlens/pixlens/internal/observability"
	"github.com/pixlens/pixlens/internal/output"
)

var canvasCmd = &cobra.Command{
	Use:   "canvas",
	Short: "Fetch the current canvas",
	Long:  "Fetch a snapshot of the full canvas. Use --out to save it as a PNG file.",
	RunE:  runCanvas,
}

func init() {
	rootCmd.AddCommand(canvasCmd)
	canvasCmd.Flags().String("out", "", "Save the canvas to a PNG file")
}

func runCanvas(cmd *cobra.Command, _ []string) error {
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}

	api, closeStore, err := newClient(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	canvas, err := api.Canvas(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println(output.CanvasTable(canvas))

	if outPath = strings.TrimSpace(outPath); outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close() // nolint:errcheck // close error reported by Encode path

		if err := png.Encode(f, canvas.Image()); err != nil {
			return fmt.Errorf("encode canvas png: %w", err)
		}
		observability.CLILogger.Info("Canvas saved", zap.String("path", outPath))
	}
	return nil
}
