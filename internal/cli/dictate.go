package cli

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/thought-stick/internal/board"
	"github.com/rcliao/thought-stick/internal/model"
	"github.com/rcliao/thought-stick/internal/voice"
)

func init() {
	cmd := &cobra.Command{
		Use:   "dictate [script]",
		Short: "Dictate a note from a recognizer script",
		Long: "Run a dictation session fed by a recognizer script (file or stdin) and stick the " +
			"transcript on the board. Script lines: text with '|' between result slots, " +
			"'!code' for a recognizer error, a blank line for a silence timeout, '#' for comments.",
		Args: cobra.MaximumNArgs(1),
		Run:  runDictate,
	}

	cmd.Flags().StringP("color", "c", "", "Note color")
	cmd.Flags().Int("max-starts", 0, "Fail recognizer starts after this many runs (0: unlimited)")
	cmd.Flags().Bool("transcript-only", false, "Print the session instead of adding a note")

	RootCmd.AddCommand(cmd)
}

type dictateResult struct {
	Voice voice.Snapshot `json:"voice" yaml:"voice"`
	Note  *model.Note    `json:"note,omitempty" yaml:"note,omitempty"`
}

func runDictate(cmd *cobra.Command, args []string) {
	colorStr, _ := cmd.Flags().GetString("color")
	maxStarts, _ := cmd.Flags().GetInt("max-starts")
	transcriptOnly, _ := cmd.Flags().GetBool("transcript-only")

	color, err := model.ParseColor(colorStr)
	if err != nil {
		exitErr("parse color", err)
	}

	var r io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			exitErr("open script", err)
		}
		defer f.Close()
		r = f
	}
	rec, err := voice.NewScriptRecognizer(r)
	if err != nil {
		exitErr("read script", err)
	}
	rec.MaxStarts = maxStarts

	session := voice.NewSession(rec, voice.WithLogger(log), voice.WithMetrics(boardMet))
	ctx := cmd.Context()
	b, err := openBoard(ctx, board.WithVoice(session))
	if err != nil {
		exitErr("open board", err)
	}
	defer b.Store().Close()

	b.StartDictation()
	if err := rec.Play(ctx); err != nil {
		exitErr("dictate", err)
	}

	if transcriptOnly {
		b.StopDictation()
		output(cmd.OutOrStdout(), dictateResult{Voice: session.Snapshot()}, nil)
		return
	}

	snap := session.Snapshot()
	n, err := b.ComposeFromVoice(ctx, color)
	if errors.Is(err, board.ErrEmptyText) && snap.Error != nil {
		exitErr("dictate", snap.Error)
	}
	if err != nil {
		exitErr("dictate", err)
	}

	output(cmd.OutOrStdout(), dictateResult{Voice: session.Snapshot(), Note: &n}, noteText(n))
}
