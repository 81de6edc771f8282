package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pixlens/pixlens/internal/plan"
)

var pixelCmd = &cobra.Command{
	Use:   "pixel",
	Short: "Read and write individual pixels",
}

var pixelGetCmd = &cobra.Command{
	Use:   "get <x> <y>",
	Short: "Fetch a single pixel",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y, err := parseCoords(args[0], args[1])
		if err != nil {
			return err
		}

		api, closeStore, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		pixel, err := api.Pixel(cmd.Context(), x, y)
		if err != nil {
			return err
		}

		fmt.Printf("(%d, %d) = %s\n", x, y, pixel)
		return nil
	},
}

var pixelSetCmd = &cobra.Command{
	Use:   "set <x> <y> <colour>",
	Short: "Draw a single pixel",
	Long:  "Draw a single pixel. The colour may be a hex value like '#FF0000' or a name like 'red'.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RequireToken(); err != nil {
			return err
		}

		x, y, err := parseCoords(args[0], args[1])
		if err != nil {
			return err
		}
		colour, err := plan.ParseColour(args[2])
		if err != nil {
			return err
		}

		api, closeStore, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		message, err := api.PutPixel(cmd.Context(), x, y, colour)
		if err != nil {
			return err
		}

		fmt.Println(message)
		return nil
	},
}

var pixelSwapCmd = &cobra.Command{
	Use:   "swap <x0> <y0> <x1> <y1>",
	Short: "Swap two pixels on the canvas",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RequireToken(); err != nil {
			return err
		}

		x0, y0, err := parseCoords(args[0], args[1])
		if err != nil {
			return err
		}
		x1, y1, err := parseCoords(args[2], args[3])
		if err != nil {
			return err
		}

		api, closeStore, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		message, err := api.SwapPixels(cmd.Context(), x0, y0, x1, y1)
		if err != nil {
			return err
		}

		fmt.Println(message)
		return nil
	},
}

func init() {
	pixelCmd.AddCommand(pixelGetCmd)
	pixelCmd.AddCommand(pixelSetCmd)
	pixelCmd.AddCommand(pixelSwapCmd)
	rootCmd.AddCommand(pixelCmd)
}

func parseCoords(xs, ys string) (int, int, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x coordinate %q", xs)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y coordinate %q", ys)
	}
	return x, y, nil
}
