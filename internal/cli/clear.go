package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every note from the board",
		Run:   runClear,
	}

	cmd.Flags().Bool("yes", false, "Confirm clearing the board")

	RootCmd.AddCommand(cmd)
}

func runClear(cmd *cobra.Command, args []string) {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		exitErr("clear", errors.New("refusing to clear the board without --yes"))
	}

	ctx := cmd.Context()
	b, err := openBoard(ctx)
	if err != nil {
		exitErr("open board", err)
	}
	defer b.Store().Close()

	removed := b.Store().Len()
	if err := b.Clear(ctx); err != nil {
		exitErr("clear", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"removed":%d}`+"\n", removed)
}
