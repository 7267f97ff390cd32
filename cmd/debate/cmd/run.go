package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/debate"
	"github.com/hugo-lorenzo-mato/debate-ai/internal/events"
)

var runCmd = &cobra.Command{
	Use:   "run [spec-file]",
	Short: "Run a debate over a specification",
	Long: `Run a multi-round debate over the given specification file. Each round
fans the current spec out to the configured agents, collects their
critiques, checks for consensus, and synthesizes a refined spec.

Interrupting with Ctrl-C pauses the debate after in-flight critiques
finish; resume it later with --resume.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDebate,
}

var (
	runResume      bool
	runOutput      string
	runMaxRounds   int
	runThreshold   float64
	runNoSynthesis bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runResume, "resume", false, "Resume a paused debate for this spec")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "Write the final spec to a file")
	runCmd.Flags().IntVar(&runMaxRounds, "max-rounds", 0, "Override the configured round limit")
	runCmd.Flags().Float64Var(&runThreshold, "threshold", 0, "Override the consensus threshold (0-1]")
	runCmd.Flags().BoolVar(&runNoSynthesis, "no-synthesis", false, "Disable spec synthesis between rounds")
}

func runDebate(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("spec file required")
	}
	specFile := args[0]

	deps, err := initRuntime()
	if err != nil {
		return err
	}
	defer deps.Close() //nolint:errcheck

	taskID := filepath.Base(specFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var orch *debate.Orchestrator
	if runResume {
		session, err := deps.Store.Load(ctx, taskID)
		if err != nil {
			return fmt.Errorf("loading session: %w", err)
		}
		if session == nil {
			return fmt.Errorf("no saved session for %s", taskID)
		}
		orch, err = debate.Restore(session, deps.Registry,
			debate.WithLogger(deps.Logger),
			debate.WithCallTimeout(deps.CallTimeout),
		)
		if err != nil {
			return fmt.Errorf("restoring debate: %w", err)
		}
	} else {
		data, err := os.ReadFile(specFile)
		if err != nil {
			return fmt.Errorf("reading spec file: %w", err)
		}
		if len(data) == 0 {
			return core.ErrValidation(core.CodeEmptySpec, "spec file is empty")
		}
		cfg := deps.debateConfig()
		if runMaxRounds > 0 {
			cfg.MaxRounds = runMaxRounds
		}
		if runThreshold > 0 {
			if runThreshold > 1 {
				return core.ErrValidation(core.CodeInvalidConfig, "threshold must be in (0,1]")
			}
			cfg.ConsensusThreshold = runThreshold
		}
		if runNoSynthesis {
			cfg.SynthesisEnabled = false
		}
		orch, err = debate.New(taskID, string(data), cfg, deps.Registry,
			debate.WithLogger(deps.Logger),
			debate.WithCallTimeout(deps.CallTimeout),
		)
		if err != nil {
			return fmt.Errorf("creating debate: %w", err)
		}
	}

	// First Ctrl-C pauses cooperatively; a second one cancels outright.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nPausing debate, waiting for in-flight critiques...")
		orch.Abort()
		<-sigCh
		cancel()
	}()

	subscribeProgress(orch, deps)

	var runErr error
	if runResume {
		runErr = orch.Resume(ctx)
	} else {
		runErr = orch.RunDebate(ctx)
	}

	// Persist the final state even when the run failed. A fresh context:
	// the run context may already be canceled.
	snapshot := orch.Snapshot()
	if err := deps.Store.Save(context.Background(), snapshot); err != nil {
		deps.Logger.Error("saving session", "error", err)
	}
	if runErr != nil {
		return runErr
	}

	return reportResult(snapshot)
}

// subscribeProgress wires progress output and per-round persistence onto
// the orchestrator's event bus.
func subscribeProgress(orch *debate.Orchestrator, deps *runtimeDeps) {
	bus := orch.Events()

	bus.Subscribe(func(e events.Event) {
		ev := e.(events.RoundStartedEvent)
		if !quiet {
			fmt.Printf("Round %d started\n", ev.Round)
		}
	}, events.TypeRoundStarted)

	bus.Subscribe(func(e events.Event) {
		ev := e.(events.CritiqueCompletedEvent)
		if !quiet {
			fmt.Printf("  [%s/%s] %s: %s\n",
				ev.Critique.Backend, ev.Critique.Persona, ev.Critique.Verdict, ev.Critique.Summary)
		}
	}, events.TypeCritiqueCompleted)

	bus.Subscribe(func(e events.Event) {
		ev := e.(events.RoundCompletedEvent)
		if !quiet {
			fmt.Printf("Round %d complete (consensus: %v)\n", ev.Round.Number, ev.Round.ConsensusReached)
		}
		// Checkpoint after every round so an abort or crash loses at
		// most the round in flight.
		if err := deps.Store.Save(context.Background(), orch.Snapshot()); err != nil {
			deps.Logger.Error("saving session checkpoint", "error", err)
		}
	}, events.TypeRoundCompleted)
}

func reportResult(session *core.DebateSession) error {
	switch session.Status {
	case core.SessionStatusPaused:
		fmt.Printf("Debate paused after %d round(s). Resume with --resume, or finalize with 'debate accept %s'.\n",
			len(session.Rounds), session.TaskID)
		return nil
	case core.SessionStatusCompleted:
		if session.ConsensusReached {
			fmt.Printf("Consensus reached after %d round(s).\n", len(session.Rounds))
		} else {
			fmt.Printf("No consensus after %d round(s); final spec is the last refinement.\n", len(session.Rounds))
		}
	}

	if runOutput != "" {
		if err := os.WriteFile(runOutput, []byte(session.CurrentSpec), 0o644); err != nil {
			return fmt.Errorf("writing final spec: %w", err)
		}
		fmt.Printf("Final spec written to %s\n", runOutput)
		return nil
	}

	fmt.Println(session.CurrentSpec)
	return nil
}
