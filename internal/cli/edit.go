package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/thought-stick/internal/board"
	"github.com/rcliao/thought-stick/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a note's text, color or sticker",
		Long:  "Edit a note. Only fields that differ are written; blank text keeps the current text.",
		Args:  cobra.ExactArgs(1),
		Run:   runEdit,
	}

	cmd.Flags().StringP("text", "t", "", "New text")
	cmd.Flags().StringP("color", "c", "", "New color")
	cmd.Flags().StringP("sticker", "s", "", "New sticker kind")

	RootCmd.AddCommand(cmd)
}

func runEdit(cmd *cobra.Command, args []string) {
	var p board.EditParams
	if cmd.Flags().Changed("text") {
		text, _ := cmd.Flags().GetString("text")
		p.Text = &text
	}
	if cmd.Flags().Changed("color") {
		s, _ := cmd.Flags().GetString("color")
		c, err := model.ParseColor(s)
		if err != nil {
			exitErr("parse color", err)
		}
		p.Color = &c
	}
	if cmd.Flags().Changed("sticker") {
		s, _ := cmd.Flags().GetString("sticker")
		k, err := model.ParseStickerKind(s)
		if err != nil {
			exitErr("parse sticker", err)
		}
		if k != "" {
			p.StickerKind = &k
		}
	}

	ctx := cmd.Context()
	b, err := openBoard(ctx)
	if err != nil {
		exitErr("open board", err)
	}
	defer b.Store().Close()

	changed, err := b.Edit(ctx, args[0], p)
	if err != nil {
		exitErr("edit", err)
	}

	n, _ := b.Store().Get(args[0])
	output(cmd.OutOrStdout(), struct {
		Changed bool       `json:"changed" yaml:"changed"`
		Note    model.Note `json:"note" yaml:"note"`
	}{changed, n}, noteText(n))
}
