// Package main provides the skytune CLI entry point.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gauthierbraillon/skytune/internal/config"
	"github.com/gauthierbraillon/skytune/internal/display"
	"github.com/gauthierbraillon/skytune/internal/logger"
	"github.com/gauthierbraillon/skytune/internal/tuner"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveVersion prefers a version injected via ldflags and falls back to
// the module version recorded by go install.
func resolveVersion(ldflagsVersion string, info *debug.BuildInfo) string {
	if ldflagsVersion != "dev" {
		return ldflagsVersion
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}

func buildInfo() *debug.BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	return info
}

// app carries what every subcommand needs once the root has resolved it.
type app struct {
	cfg *config.Config
	log *zap.Logger
}

// newRootCmd creates the root command for skytune CLI.
func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	var debugLogs bool

	rootCmd := &cobra.Command{
		Use:     "skytune",
		Short:   "Read Bluesky feeds as tuned, de-duplicated threads",
		Long:    "Skytune fetches Bluesky feeds page by page and groups them into threads, replies with context and reposts, hiding posts already shown.",
		Version: resolveVersion(version, buildInfo()),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level := cfg.LogLevel
			if debugLogs {
				level = "debug"
			}
			log, err := logger.New(logger.Options{Level: level, File: cfg.LogFile, Console: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	rootCmd.SetVersionTemplate("skytune version {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "Log every tuned slice to stderr")

	rootCmd.AddCommand(newFeedCmd(a))
	rootCmd.AddCommand(newTuneCmd(a))
	rootCmd.AddCommand(newSessionCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newOpenCmd(a))

	return rootCmd
}

// newConfigCmd creates the config subcommand.
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Long:  "Print the resolved skytune configuration and where it was read from.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			token := "not set"
			if a.cfg.AccessToken != "" {
				token = "set"
			}
			fmt.Fprintf(out, "Config directory: %s\n", a.cfg.Dir)
			fmt.Fprintf(out, "Service URL: %s\n", a.cfg.ServiceURL)
			fmt.Fprintf(out, "Page size: %d\n", a.cfg.PageSize)
			fmt.Fprintf(out, "Log level: %s\n", a.cfg.LogLevel)
			if a.cfg.LogFile != "" {
				fmt.Fprintf(out, "Log file: %s\n", a.cfg.LogFile)
			}
			fmt.Fprintf(out, "Access token: %s\n", token)
			return nil
		},
	}

	return cmd
}

// sliceJSON is the machine-readable form of a tuned slice.
type sliceJSON struct {
	URI      string                `json:"uri"`
	TS       string                `json:"ts"`
	IsThread bool                  `json:"isThread"`
	IsReply  bool                  `json:"isReply"`
	Items    []*tuner.FeedViewPost `json:"items"`
}

// writeSlices prints slices as text or, with asJSON, as a JSON array.
func writeSlices(w io.Writer, slices []*tuner.Slice, asJSON bool, maxText int) error {
	if !asJSON {
		formatter := display.NewTerminalFormatter(display.WithMaxText(maxText))
		_, err := fmt.Fprint(w, formatter.FormatFeed(slices))
		return err
	}

	out := make([]sliceJSON, 0, len(slices))
	for _, s := range slices {
		out = append(out, sliceJSON{
			URI:      s.URI(),
			TS:       s.TS(),
			IsThread: s.IsThread(),
			IsReply:  s.IsReply(),
			Items:    s.Items,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
