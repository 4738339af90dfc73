package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/thought-stick/internal/model"
	"github.com/rcliao/thought-stick/internal/physics"
	"github.com/rcliao/thought-stick/internal/viewport"
)

func init() {
	cmd := &cobra.Command{
		Use:   "throw <id>",
		Short: "Pick up a note and throw it",
		Long: "Pick up a note and release it with a velocity in screen pixels per second. " +
			"The note is grabbed at its own screen position unless --x/--y are given, under " +
			"the view set by --zoom and --pan-x/--pan-y. The resting spot is written once the " +
			"settle completes.",
		Args: cobra.ExactArgs(1),
		Run:  runThrow,
	}

	cmd.Flags().Float64("x", 0, "Screen x of the grab point")
	cmd.Flags().Float64("y", 0, "Screen y of the grab point")
	cmd.Flags().Float64("vx", 0, "Release velocity, x")
	cmd.Flags().Float64("vy", 0, "Release velocity, y")
	cmd.Flags().Float64("zoom", 1, "View zoom")
	cmd.Flags().Float64("pan-x", 0, "View pan, x")
	cmd.Flags().Float64("pan-y", 0, "View pan, y")
	cmd.Flags().Bool("wait", false, "Wait for the settle animation instead of committing right away")
	cmd.Flags().Int("frames", 0, "Include the settle trajectory sampled at this many frames per second")

	RootCmd.AddCommand(cmd)
}

type throwResult struct {
	ID       string            `json:"id" yaml:"id"`
	From     viewport.Point    `json:"from" yaml:"from"`
	Rest     viewport.Point    `json:"rest" yaml:"rest"`
	Clamped  bool              `json:"clamped" yaml:"clamped"`
	Settle   string            `json:"settle" yaml:"settle"`
	Frames   []viewport.Point  `json:"frames,omitempty" yaml:"frames,omitempty"`
	Note     model.Note        `json:"note" yaml:"note"`
	Viewport viewport.Viewport `json:"viewport" yaml:"viewport"`
}

func runThrow(cmd *cobra.Command, args []string) {
	id := args[0]
	vx, _ := cmd.Flags().GetFloat64("vx")
	vy, _ := cmd.Flags().GetFloat64("vy")
	zoom, _ := cmd.Flags().GetFloat64("zoom")
	panX, _ := cmd.Flags().GetFloat64("pan-x")
	panY, _ := cmd.Flags().GetFloat64("pan-y")
	wait, _ := cmd.Flags().GetBool("wait")
	fps, _ := cmd.Flags().GetInt("frames")

	ctx := cmd.Context()
	b, err := openBoard(ctx)
	if err != nil {
		exitErr("open board", err)
	}
	defer b.Store().Close()

	n, ok := b.Store().Get(id)
	if !ok {
		exitErr("throw", fmt.Errorf("note %s not found", id))
	}

	b.SetZoom(zoom)
	b.SetPan(panX, panY)
	at := b.Viewport().CanvasToScreen(viewport.Point{X: n.X, Y: n.Y}, b.Size())
	if cmd.Flags().Changed("x") {
		at.X, _ = cmd.Flags().GetFloat64("x")
	}
	if cmd.Flags().Changed("y") {
		at.Y, _ = cmd.Flags().GetFloat64("y")
	}

	st, err := b.Throw(ctx, id, at, viewport.Point{X: vx, Y: vy})
	if err != nil {
		exitErr("throw", err)
	}
	if wait {
		time.Sleep(st.Duration + 50*time.Millisecond)
	}
	b.Close()

	res := throwResult{
		ID:       id,
		From:     st.From,
		Rest:     st.Rest,
		Clamped:  st.Rest != st.Projected,
		Settle:   st.Duration.String(),
		Viewport: b.Viewport(),
	}
	if fps > 0 {
		res.Frames = st.Trajectory.Frames(st.Duration, fps)
	}
	res.Note, _ = b.Store().Get(id)

	output(cmd.OutOrStdout(), res, func(w io.Writer) { throwText(w, st) })
}

func throwText(w io.Writer, st physics.Settle) {
	fmt.Fprintf(w, "from (%.1f, %.1f) projected (%.1f, %.1f) rest (%.1f, %.1f) in %s\n",
		st.From.X, st.From.Y, st.Projected.X, st.Projected.Y, st.Rest.X, st.Rest.Y, st.Duration)
}
