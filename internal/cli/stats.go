package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show board statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats := s.Stats(settings.DB)

	output(cmd.OutOrStdout(), stats, func(w io.Writer) {
		fmt.Fprintf(w, "%d notes, front z=%d, %d bytes in %s\n",
			stats.TotalNotes, stats.MaxZIndex, stats.DBSizeBytes, stats.DBPath)
		for _, c := range stats.Colors {
			fmt.Fprintf(w, "  color   %-10s %d\n", c.Name, c.Count)
		}
		for _, c := range stats.Stickers {
			fmt.Fprintf(w, "  sticker %-10s %d\n", c.Name, c.Count)
		}
	})
}
