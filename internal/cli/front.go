package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "front <id>",
		Short: "Bring a note to the front",
		Args:  cobra.ExactArgs(1),
		Run:   runFront,
	}

	RootCmd.AddCommand(cmd)
}

func runFront(cmd *cobra.Command, args []string) {
	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if _, ok := s.Get(args[0]); !ok {
		exitErr("front", fmt.Errorf("note %s not found", args[0]))
	}
	if err := s.BringToFront(cmd.Context(), args[0]); err != nil {
		exitErr("front", err)
	}

	n, _ := s.Get(args[0])
	output(cmd.OutOrStdout(), n, noteText(n))
}
