package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/thought-stick/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import notes from JSON or YAML",
		Long: "Import notes (stdin or file) in the format produced by export. The input format " +
			"follows the file extension, or --input-format for stdin. Notes whose id is already " +
			"on the board are skipped.",
		Args: cobra.MaximumNArgs(1),
		Run:  runImport,
	}

	cmd.Flags().String("input-format", "", "Input format: json or yaml")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	format, _ := cmd.Flags().GetString("input-format")

	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
		if format == "" {
			format = strings.TrimPrefix(filepath.Ext(args[0]), ".")
		}
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitErr("read input", err)
	}
	if format == "" {
		format = "json"
	}

	notes, err := store.Decode(data, format)
	if err != nil {
		exitErr("parse input", err)
	}

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imported, err := s.Import(cmd.Context(), notes)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"imported":%d,"skipped":%d}`+"\n", imported, len(notes)-imported)
}
