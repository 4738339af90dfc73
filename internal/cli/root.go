// Package cli implements the thought-stick CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/thought-stick/internal/board"
	"github.com/rcliao/thought-stick/internal/config"
	"github.com/rcliao/thought-stick/internal/logger"
	"github.com/rcliao/thought-stick/internal/metrics"
	"github.com/rcliao/thought-stick/internal/store"
)

var (
	cfgFile    string
	formatFlag string

	v        = viper.New()
	settings *config.Settings
	log      = zerolog.Nop()
	boardMet *metrics.BoardMetrics
	logFile  *os.File
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "thought-stick",
	Short: "A pinboard for short notes",
	Long: "A tiny pinboard for short notes. Compose or dictate a note, throw it onto the board, " +
		"drag it around, zoom and pan. SQLite-backed, single binary.",
	PersistentPreRun:  setup,
	PersistentPostRun: flushMetrics,
}

func init() {
	f := RootCmd.PersistentFlags()
	f.StringP("db", "d", "", "Database path (default: $THOUGHT_STICK_DB or ~/.thought-stick/board.db)")
	f.StringVarP(&formatFlag, "format", "f", "json", "Output format: json, yaml or text")
	f.StringVar(&cfgFile, "config", "", "Config file (default: ~/.thought-stick/config.yaml)")
	f.String("log-level", "", "Log level: debug, info, warn, error")
	f.String("log-file", "", "Append logs to this file instead of stderr")
	f.String("metrics-out", "", "Write metrics in Prometheus text format to this file on exit")

	v.BindPFlag("db", f.Lookup("db"))
	v.BindPFlag("log_level", f.Lookup("log-level"))
	v.BindPFlag("log_file", f.Lookup("log-file"))
	v.BindPFlag("metrics_out", f.Lookup("metrics-out"))
}

func setup(cmd *cobra.Command, args []string) {
	s, err := config.Load(v, cfgFile)
	if err != nil {
		exitErr("load config", err)
	}
	settings = s
	log = logger.New(os.Stderr, s.LogLevel)
	if s.LogFile != "" {
		l, f, err := logger.NewFile(s.LogFile, s.LogLevel)
		if err != nil {
			exitErr("open log file", err)
		}
		log, logFile = l, f
	}

	m, err := metrics.NewBoardMetrics(prometheus.NewRegistry())
	if err != nil {
		exitErr("init metrics", err)
	}
	boardMet = m
}

func flushMetrics(cmd *cobra.Command, args []string) {
	if logFile != nil {
		defer logFile.Close()
	}
	if settings == nil || settings.MetricsOut == "" {
		return
	}
	if err := boardMet.WriteTextfile(settings.MetricsOut); err != nil {
		log.Error().Err(err).Str("path", settings.MetricsOut).Msg("write metrics")
	}
}

func openStore(ctx context.Context) (*store.NoteStore, error) {
	slots, err := store.NewSQLiteSlots(settings.DB)
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, slots,
		store.WithSlot(settings.Slot),
		store.WithLogger(log),
		store.WithMetrics(boardMet),
	), nil
}

func openBoard(ctx context.Context, opts ...board.Option) (*board.Board, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	opts = append([]board.Option{board.WithLogger(log), board.WithMetrics(boardMet)}, opts...)
	b, err := board.New(st, settings.BoardConfig(), opts...)
	if err != nil {
		st.Close()
		return nil, err
	}
	return b, nil
}

// output writes v in the selected format. text renders the text format;
// when nil, text falls back to JSON.
func output(w io.Writer, v any, text func(io.Writer)) {
	switch formatFlag {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			exitErr("encode yaml", err)
		}
		enc.Close()
	case "text":
		if text != nil {
			text(w)
			return
		}
		fallthrough
	default:
		b, _ := json.MarshalIndent(v, "", "  ")
		fmt.Fprintln(w, string(b))
	}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
