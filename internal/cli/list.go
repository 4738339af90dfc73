package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rcliao/thought-stick/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		Run:   runList,
	}

	cmd.Flags().StringP("color", "c", "", "Filter by color")
	cmd.Flags().StringP("sticker", "s", "", "Filter by sticker kind")
	cmd.Flags().Bool("stacked", false, "Order by zIndex, front-most last")
	cmd.Flags().Bool("ids-only", false, "Only output note ids")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	colorStr, _ := cmd.Flags().GetString("color")
	stickerStr, _ := cmd.Flags().GetString("sticker")
	stacked, _ := cmd.Flags().GetBool("stacked")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	var color model.Color
	if colorStr != "" {
		c, err := model.ParseColor(colorStr)
		if err != nil {
			exitErr("parse color", err)
		}
		color = c
	}
	kind, err := model.ParseStickerKind(stickerStr)
	if err != nil {
		exitErr("parse sticker", err)
	}

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	notes := []model.Note{}
	for _, n := range s.Notes() {
		if color != "" && n.Color != color {
			continue
		}
		if kind != "" && n.StickerKind != kind {
			continue
		}
		notes = append(notes, n)
	}
	if stacked {
		sort.SliceStable(notes, func(i, j int) bool { return notes[i].ZIndex < notes[j].ZIndex })
	}

	w := cmd.OutOrStdout()
	if idsOnly {
		for _, n := range notes {
			fmt.Fprintln(w, n.ID)
		}
		return
	}

	output(w, notes, func(w io.Writer) {
		for _, n := range notes {
			noteText(n)(w)
		}
	})
}

// noteText renders a note as one line of text.
func noteText(n model.Note) func(io.Writer) {
	return func(w io.Writer) {
		fmt.Fprintf(w, "%s  %-6s %-8s (%7.1f, %7.1f) z=%-4d %s\n",
			n.ID, n.Color.Name(), n.StickerKind, n.X, n.Y, n.ZIndex, n.Text)
	}
}
