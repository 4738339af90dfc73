package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/thought-stick/internal/board"
	"github.com/rcliao/thought-stick/internal/model"
	"github.com/rcliao/thought-stick/internal/viewport"
)

func init() {
	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Compose a note and throw it onto the board",
		Long: "Compose a note and throw it onto the board. The note starts at the throw point " +
			"near the bottom of the board; --dx/--dy move the release point and --vx/--vy set the " +
			"release velocity in screen pixels per second. With --dictated the note lands at a " +
			"random spot like a voice note.",
		Args: cobra.MinimumNArgs(1),
		Run:  runAdd,
	}

	cmd.Flags().StringP("color", "c", "", "Color name or hex (butter, grass, mint, sky)")
	cmd.Flags().StringP("sticker", "s", "", "Sticker kind (default: random)")
	cmd.Flags().Bool("dictated", false, "Add as a dictated note, skipping the throw")
	cmd.Flags().Float64("dx", 0, "Release offset from the throw point, x")
	cmd.Flags().Float64("dy", 0, "Release offset from the throw point, y")
	cmd.Flags().Float64("vx", 0, "Release velocity, x")
	cmd.Flags().Float64("vy", 0, "Release velocity, y")

	RootCmd.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	colorStr, _ := cmd.Flags().GetString("color")
	stickerStr, _ := cmd.Flags().GetString("sticker")
	dictated, _ := cmd.Flags().GetBool("dictated")
	dx, _ := cmd.Flags().GetFloat64("dx")
	dy, _ := cmd.Flags().GetFloat64("dy")
	vx, _ := cmd.Flags().GetFloat64("vx")
	vy, _ := cmd.Flags().GetFloat64("vy")

	color, err := model.ParseColor(colorStr)
	if err != nil {
		exitErr("parse color", err)
	}
	kind, err := model.ParseStickerKind(stickerStr)
	if err != nil {
		exitErr("parse sticker", err)
	}

	ctx := cmd.Context()
	b, err := openBoard(ctx)
	if err != nil {
		exitErr("open board", err)
	}
	defer b.Store().Close()

	n, err := b.Compose(ctx, board.ComposeParams{
		Text:        strings.Join(args, " "),
		Color:       color,
		StickerKind: kind,
		Dictated:    dictated,
	})
	if err != nil {
		exitErr("compose", err)
	}
	if !dictated {
		n, err = b.ThrowPending(ctx, viewport.Point{X: dx, Y: dy}, viewport.Point{X: vx, Y: vy})
		if err != nil {
			exitErr("throw", err)
		}
	}

	output(cmd.OutOrStdout(), n, noteText(n))
}
