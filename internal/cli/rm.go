package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete notes",
		Args:  cobra.MinimumNArgs(1),
		Run:   runRm,
	}

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	b, err := openBoard(ctx)
	if err != nil {
		exitErr("open board", err)
	}
	defer b.Store().Close()

	removed := 0
	for _, id := range args {
		if _, ok := b.Store().Get(id); !ok {
			continue
		}
		if err := b.Delete(ctx, id); err != nil {
			exitErr("rm", err)
		}
		removed++
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"removed":%d}`+"\n", removed)
}
