package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pixlens/pixlens/internal/core"
	"github.com/pixlens/pixlens/internal/core/engine"
	"github.com/pixlens/pixlens/internal/observability"
	"github.com/pixlens/pixlens/internal/plan"
)

var drawCmd = &cobra.Command{
	Use:   "draw [manifest.yaml]",
	Short: "Automatically draw an image onto the canvas",
	Long: `Automatically draw an image onto the canvas, skipping pixels that
already match.

The target comes from a YAML manifest, or from --image/--text with --at.
With --fix, externally overwritten pixels are re-fixed before the pass
continues; --forever keeps re-asserting the image after convergence.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDraw,
}

func init() {
	rootCmd.AddCommand(drawCmd)

	drawCmd.Flags().String("image", "", "Image file to draw (png, jpeg, gif)")
	drawCmd.Flags().String("text", "", "Textual plan file to draw")
	drawCmd.Flags().String("at", "0,0", "Top-left canvas coordinate, as x,y")
	drawCmd.Flags().Float64("scale", 1, "Scale factor applied to the image")
	drawCmd.Flags().Bool("fix", false, "Re-fix overwritten pixels before continuing")
	drawCmd.Flags().Bool("forever", false, "Keep re-asserting the image after convergence (implies --fix)")
	drawCmd.Flags().String("order", "", "Scan order: column-major or row-major")
}

func runDraw(cmd *cobra.Command, args []string) error {
	if err := cfg.RequireToken(); err != nil {
		return err
	}

	job, err := drawJob(cmd, args)
	if err != nil {
		return err
	}

	api, closeStore, err := newClient(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	planner := &engine.Planner{
		Client:       api,
		Plan:         job.plan,
		Order:        job.order,
		LoopInterval: cfg.Draw.LoopInterval,
		Logger:       observability.CLILogger,
	}

	x1, y1 := job.plan.Bounds()
	observability.CLILogger.Info("Drawing",
		zap.Int("x0", job.plan.X), zap.Int("y0", job.plan.Y),
		zap.Int("x1", x1), zap.Int("y1", y1))

	if job.fix {
		return planner.DrawAndFix(cmd.Context(), job.forever)
	}
	return planner.Draw(cmd.Context())
}

type drawJobSpec struct {
	plan    *core.DrawPlan
	order   engine.ScanOrder
	fix     bool
	forever bool
}

// drawJob resolves the plan and mode from a manifest argument or from the
// --image/--text flags. Flags win over manifest values when both are given.
func drawJob(cmd *cobra.Command, args []string) (*drawJobSpec, error) {
	imagePath, _ := cmd.Flags().GetString("image")
	textPath, _ := cmd.Flags().GetString("text")
	at, _ := cmd.Flags().GetString("at")
	scale, _ := cmd.Flags().GetFloat64("scale")
	fix, _ := cmd.Flags().GetBool("fix")
	forever, _ := cmd.Flags().GetBool("forever")
	orderValue, _ := cmd.Flags().GetString("order")

	if orderValue == "" {
		orderValue = cfg.Draw.Order
	}
	order, err := engine.ParseScanOrder(orderValue)
	if err != nil {
		return nil, err
	}

	job := &drawJobSpec{order: order, fix: fix || forever, forever: forever}

	if len(args) == 1 {
		if imagePath != "" || textPath != "" {
			return nil, errors.New("a manifest and --image/--text are mutually exclusive")
		}
		manifest, err := plan.LoadManifest(args[0])
		if err != nil {
			return nil, err
		}
		job.plan, err = manifest.Plan()
		if err != nil {
			return nil, err
		}
		if !cmd.Flags().Changed("order") && manifest.Order != "" {
			job.order = manifest.ScanOrder()
		}
		if !cmd.Flags().Changed("fix") {
			job.fix = manifest.Fix || manifest.Forever
		}
		if !cmd.Flags().Changed("forever") {
			job.forever = manifest.Forever
			job.fix = job.fix || job.forever
		}
		return job, nil
	}

	switch {
	case imagePath != "" && textPath != "":
		return nil, errors.New("--image and --text are mutually exclusive")
	case imagePath != "":
		x, y, err := parseAt(at)
		if err != nil {
			return nil, err
		}
		job.plan, err = plan.FromImageFile(imagePath, x, y, scale)
		if err != nil {
			return nil, err
		}
		return job, nil
	case textPath != "":
		var err error
		job.plan, err = plan.FromTextFile(textPath)
		if err != nil {
			return nil, err
		}
		return job, nil
	default:
		return nil, errors.New("a manifest argument or --image/--text is required")
	}
}

func parseAt(value string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(value), ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid coordinate %q: want x,y", value)
	}
	return parseCoords(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
}
