package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/decker502/legacyanim/pkg/anim"
	"github.com/decker502/legacyanim/pkg/components"
	"github.com/decker502/legacyanim/pkg/config"
	"github.com/decker502/legacyanim/pkg/ecs"
	"github.com/decker502/legacyanim/pkg/entities"
	"github.com/decker502/legacyanim/pkg/systems"
)

type simulateOptions struct {
	animator   string
	script     string
	tps        int
	maxSeconds float64
}

func newSimulateCmd(root *rootOptions) *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate <config>",
		Short: "Run a trigger sequence headlessly and print the playback timeline",
		Example: `  legacyanim simulate data/animators --animator gameover_door --script "set:open,follow:close,andwait:1"
  legacyanim simulate data/animators/door.yaml --animator gameover_door --script "wait:2" --tps 30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, fsys, err := root.load(args[0])
			if err != nil {
				return err
			}
			a, err := manager.Get(opts.animator)
			if err != nil {
				return err
			}
			steps, err := components.ParseSequenceScript(opts.script)
			if err != nil {
				return err
			}
			tps := opts.tps
			if tps <= 0 {
				tps = manager.Playback().TPS
			}
			return simulate(cmd.OutOrStdout(), a, config.NewReanimCache(fsys), steps, tps, opts.maxSeconds)
		},
	}

	cmd.Flags().StringVarP(&opts.animator, "animator", "a", "", "Animator id")
	cmd.Flags().StringVarP(&opts.script, "script", "s", "", `Sequence script, e.g. "set:open,follow:close,andwait:1"`)
	cmd.Flags().IntVar(&opts.tps, "tps", 0, "Ticks per second (default: playback.tps from the config)")
	cmd.Flags().Float64Var(&opts.maxSeconds, "max-seconds", 30, "Stop simulating after this much game time")
	_ = cmd.MarkFlagRequired("animator")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}

// simulate drives one animator entity through the ECS system and prints a
// line every time the enabled flag or the set of advancing clips changes.
func simulate(w io.Writer, a *config.AnimatorConfig, cache *config.ReanimCache, steps []components.SequenceStep, tps int, maxSeconds float64) error {
	em := ecs.NewEntityManager()
	system := systems.NewLegacyAnimatorSystem(em, nil)

	id, err := entities.NewLegacyAnimatorEntity(em, a, cache, entities.AnimatorOptions{})
	if err != nil {
		return err
	}
	entities.QueueSequence(em, id, steps, 0)
	comp, _ := ecs.GetComponent[*components.LegacyAnimatorComponent](em, id)
	cmdComp, _ := ecs.GetComponent[*components.SequenceCommandComponent](em, id)

	dt := 1 / float64(tps)
	maxFrames := int(maxSeconds * float64(tps))
	prev := ""

	fmt.Fprintf(w, "animator %s, tps=%d, script=%s\n", a.ID, tps, formatSteps(steps))
	for frame := 0; frame <= maxFrames; frame++ {
		now := float64(frame) / float64(tps)
		if frame > 0 {
			system.Update(dt)
		} else {
			// frame 0 only runs start-up and the command
			system.Update(0)
			if cmdComp.Err != nil {
				return cmdComp.Err
			}
			fmt.Fprintf(w, "cumulative=%.3fs\n", comp.Sequencer().Cumulative())
		}

		line := describe(comp.Host.Player)
		if line != prev {
			fmt.Fprintf(w, "t=%.3f %s\n", now, line)
			prev = line
		}
		if !comp.Host.Player.Enabled() {
			fmt.Fprintf(w, "disabled at t=%.3f\n", now)
			return nil
		}
	}
	fmt.Fprintf(w, "still enabled after %.3fs\n", maxSeconds)
	return nil
}

func describe(p *anim.ClipPlayer) string {
	var names []string
	for _, st := range p.Active() {
		names = append(names, st.Name)
	}
	return fmt.Sprintf("enabled=%t active=[%s] queued=%d", p.Enabled(), strings.Join(names, ", "), p.QueuedCount())
}

func formatSteps(steps []components.SequenceStep) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}
