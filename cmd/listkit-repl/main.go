// listkit-repl drives a listkit list interactively: edit it, walk it with a
// cursor, narrow it to a sublist, and save or load it through a store.
package main

import (
	"bufio"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/phroun/listkit/persist"
)

var (
	storePath string
	debug     bool

	rootCmd = &cobra.Command{
		Use:          "listkit-repl",
		Short:        "Interactive shell for listkit lists",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			opts := persist.Options{Path: storePath, Logger: log}
			if storePath == "" {
				opts.Backend = persist.NewMemoryStore()
			}
			catalog, err := persist.Open(opts)
			if err != nil {
				return err
			}

			r := NewREPL(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(), catalog, log)
			r.Run()
			return nil
		},
	}
)

func init() {
	rootCmd.Flags().StringVarP(&storePath, "store", "s", "", "directory for save/load (default: in memory)")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "log container debug events to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
