package main

import (
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/decker502/legacyanim/pkg/config"
	"github.com/decker502/legacyanim/pkg/logging"
)

type rootOptions struct {
	verbosity int
	root      string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "legacyanim",
		Short: "Validate and simulate legacy clip animators",
		Long: `legacyanim loads animator configs (YAML) and either validates them or
runs a trigger sequence headlessly at the configured tick rate, printing when
clips start, finish and when the player disables itself.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLoggerTo(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}, opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&opts.root, "root", ".", "Project root; config and reanim paths are relative to it")

	rootCmd.AddCommand(newValidateCmd(opts))
	rootCmd.AddCommand(newSimulateCmd(opts))
	return rootCmd
}

// load opens the config at path (file or directory) under the project root.
func (o *rootOptions) load(path string) (*config.AnimatorConfigManager, fs.FS, error) {
	fsys := os.DirFS(o.root)
	manager, err := config.NewAnimatorConfigManager(fsys, path)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	return manager, fsys, nil
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config>",
		Short: "Load every animator and resolve its clips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, fsys, err := opts.load(args[0])
			if err != nil {
				return err
			}
			cache := config.NewReanimCache(fsys)
			out := cmd.OutOrStdout()

			for _, id := range manager.IDs() {
				a, _ := manager.Get(id)
				cfg, err := a.SequencerConfig(cache)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %d nodes\n", id, len(cfg.Nodes))
				for _, n := range cfg.Nodes {
					fmt.Fprintf(out, "  %-12s clip=%-14s length=%.3fs speed=%g layer=%d wrap=%s\n",
						n.Trigger, n.Clip.Name, n.Clip.Length, n.Speed(), n.Layer(), n.Clip.WrapMode)
				}
			}
			fmt.Fprintf(out, "ok: %d animators, tps=%d\n", len(manager.IDs()), manager.Playback().TPS)
			return nil
		},
	}
}
