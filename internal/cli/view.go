package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rcliao/thought-stick/internal/physics"
	"github.com/rcliao/thought-stick/internal/viewport"
)

func init() {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Map a screen point to the canvas under a view",
		Long: "Apply a view (zoom, pan, wheel and zoom-button steps) and report where a screen " +
			"point lands on the canvas together with the area thrown notes settle in.",
		Run: runView,
	}

	cmd.Flags().Float64("zoom", 1, "Starting zoom")
	cmd.Flags().Float64("pan-x", 0, "Starting pan, x")
	cmd.Flags().Float64("pan-y", 0, "Starting pan, y")
	cmd.Flags().Int("steps", 0, "Zoom button presses, negative to zoom out")
	cmd.Flags().Float64("wheel-dy", 0, "Apply a ctrl+wheel event with this deltaY")
	cmd.Flags().Float64("x", 0, "Screen x")
	cmd.Flags().Float64("y", 0, "Screen y")

	RootCmd.AddCommand(cmd)
}

type viewResult struct {
	Viewport viewport.Viewport `json:"viewport" yaml:"viewport"`
	Board    viewport.Size     `json:"board" yaml:"board"`
	Screen   viewport.Point    `json:"screen" yaml:"screen"`
	Canvas   viewport.Point    `json:"canvas" yaml:"canvas"`
	Bounds   physics.Bounds    `json:"bounds" yaml:"bounds"`
}

func runView(cmd *cobra.Command, args []string) {
	zoom, _ := cmd.Flags().GetFloat64("zoom")
	panX, _ := cmd.Flags().GetFloat64("pan-x")
	panY, _ := cmd.Flags().GetFloat64("pan-y")
	steps, _ := cmd.Flags().GetInt("steps")
	wheelDY, _ := cmd.Flags().GetFloat64("wheel-dy")
	x, _ := cmd.Flags().GetFloat64("x")
	y, _ := cmd.Flags().GetFloat64("y")

	cfg := settings.BoardConfig()
	v := viewport.New()
	v.SetZoom(zoom)
	v.SetPan(panX, panY)
	for ; steps > 0; steps-- {
		v.ZoomIn()
	}
	for ; steps < 0; steps++ {
		v.ZoomOut()
	}
	if wheelDY != 0 {
		var g viewport.Gestures
		g.Wheel(v, viewport.WheelEvent{DeltaY: wheelDY, Modifier: true})
	}

	screen := viewport.Point{X: x, Y: y}
	res := viewResult{
		Viewport: *v,
		Board:    cfg.Size,
		Screen:   screen,
		Canvas:   v.ScreenToCanvas(screen, cfg.Size),
		Bounds:   cfg.Physics.Bounds(cfg.Size, v.Zoom),
	}

	output(cmd.OutOrStdout(), res, func(w io.Writer) {
		fmt.Fprintf(w, "zoom %.2f pan (%.1f, %.1f)\n", res.Viewport.Zoom, res.Viewport.PanX, res.Viewport.PanY)
		fmt.Fprintf(w, "screen (%.1f, %.1f) -> canvas (%.1f, %.1f)\n", screen.X, screen.Y, res.Canvas.X, res.Canvas.Y)
		fmt.Fprintf(w, "settle area x [%.1f, %.1f] y [%.1f, %.1f]\n",
			res.Bounds.MinX, res.Bounds.MaxX, res.Bounds.MinY, res.Bounds.MaxY)
	})
}
