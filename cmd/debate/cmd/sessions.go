package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved debate sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active (non-completed) sessions",
	RunE:  listSessions,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  showSession,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteSession,
}

var showFull bool

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)

	sessionsShowCmd.Flags().BoolVar(&showFull, "full", false, "Include full spec texts and raw responses")
}

func listSessions(_ *cobra.Command, _ []string) error {
	deps, err := initRuntime()
	if err != nil {
		return err
	}
	defer deps.Close() //nolint:errcheck

	sessions, err := deps.Store.ListActive(context.Background())
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No active sessions.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TASK\tSTATUS\tROUNDS\tCONSENSUS\tSTARTED")
	for _, s := range sessions {
		started := "-"
		if s.StartedAt != nil {
			started = s.StartedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%v\t%s\n",
			s.TaskID, s.Status, len(s.Rounds), s.ConsensusReached, started)
	}
	return w.Flush()
}

// sessionView is the YAML shape printed by 'sessions show'. The compact
// form elides the spec bodies, which dwarf everything else.
type sessionView struct {
	ID        string      `yaml:"id"`
	TaskID    string      `yaml:"task_id"`
	Status    string      `yaml:"status"`
	Consensus bool        `yaml:"consensus_reached"`
	Error     string      `yaml:"error,omitempty"`
	Rounds    []roundView `yaml:"rounds"`
}

type roundView struct {
	Number    int            `yaml:"number"`
	Consensus bool           `yaml:"consensus_reached"`
	Changes   string         `yaml:"changes_summary,omitempty"`
	Critiques []critiqueView `yaml:"critiques"`
}

type critiqueView struct {
	Backend string `yaml:"backend"`
	Persona string `yaml:"persona"`
	Verdict string `yaml:"verdict"`
	Summary string `yaml:"summary"`
	Issues  int    `yaml:"issues"`
}

func showSession(_ *cobra.Command, args []string) error {
	deps, err := initRuntime()
	if err != nil {
		return err
	}
	defer deps.Close() //nolint:errcheck

	session, err := deps.Store.Load(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if session == nil {
		return fmt.Errorf("no saved session for %s", args[0])
	}

	if showFull {
		out, err := yaml.Marshal(session)
		if err != nil {
			return fmt.Errorf("rendering session: %w", err)
		}
		fmt.Print(string(out))
		return nil
	}

	view := sessionView{
		ID:        session.ID,
		TaskID:    session.TaskID,
		Status:    string(session.Status),
		Consensus: session.ConsensusReached,
		Error:     session.Error,
	}
	for _, r := range session.Rounds {
		rv := roundView{
			Number:    r.Number,
			Consensus: r.ConsensusReached,
			Changes:   r.ChangesSummary,
		}
		for _, c := range r.Critiques {
			rv.Critiques = append(rv.Critiques, critiqueView{
				Backend: c.Backend,
				Persona: string(c.Persona),
				Verdict: string(c.Verdict),
				Summary: c.Summary,
				Issues:  len(c.Issues),
			})
		}
		view.Rounds = append(view.Rounds, rv)
	}

	out, err := yaml.Marshal(view)
	if err != nil {
		return fmt.Errorf("rendering session: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func deleteSession(_ *cobra.Command, args []string) error {
	deps, err := initRuntime()
	if err != nil {
		return err
	}
	defer deps.Close() //nolint:errcheck

	deleted, err := deps.Store.Delete(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if !deleted {
		fmt.Printf("No saved session for %s\n", args[0])
		return nil
	}
	fmt.Printf("Deleted session for %s\n", args[0])
	return nil
}
