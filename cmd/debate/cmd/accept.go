package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

var acceptCmd = &cobra.Command{
	Use:   "accept [task-id]",
	Short: "Accept the current spec of a paused debate",
	Long: `Mark a paused debate as completed, taking its current spec as final
even though the agents never reached consensus. This is the human
override for a debate that has gone as far as it usefully can.`,
	Args: cobra.ExactArgs(1),
	RunE: acceptSpec,
}

var acceptOutput string

func init() {
	rootCmd.AddCommand(acceptCmd)

	acceptCmd.Flags().StringVarP(&acceptOutput, "output", "o", "", "Write the accepted spec to a file")
}

func acceptSpec(_ *cobra.Command, args []string) error {
	deps, err := initRuntime()
	if err != nil {
		return err
	}
	defer deps.Close() //nolint:errcheck

	ctx := context.Background()

	session, err := deps.Store.Load(ctx, args[0])
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if session == nil {
		return fmt.Errorf("no saved session for %s", args[0])
	}
	if session.Status == core.SessionStatusCompleted {
		return fmt.Errorf("session for %s is already completed", args[0])
	}

	session.Status = core.SessionStatusCompleted
	now := time.Now()
	session.CompletedAt = &now

	if err := deps.Store.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	fmt.Printf("Accepted spec for %s after %d round(s).\n", session.TaskID, len(session.Rounds))

	if acceptOutput != "" {
		if err := os.WriteFile(acceptOutput, []byte(session.CurrentSpec), 0o644); err != nil {
			return fmt.Errorf("writing accepted spec: %w", err)
		}
		fmt.Printf("Spec written to %s\n", acceptOutput)
	}
	return nil
}
