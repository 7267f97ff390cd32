package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check backend CLI availability",
	Long:  "Verify that the configured backend CLIs are installed and respond.",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	deps, err := initRuntime()
	if err != nil {
		return err
	}
	defer deps.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("Checking backends...")
	fmt.Println()

	results := deps.Registry.PingAll(ctx)
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	allOk := true
	for _, name := range names {
		if err := results[name]; err != nil {
			fmt.Printf("  ✗ %s: %v\n", name, err)
			allOk = false
		} else {
			fmt.Printf("  ✓ %s\n", name)
		}
	}

	fmt.Println()
	if !allOk {
		return fmt.Errorf("some backends are unavailable")
	}
	fmt.Println("All backends available.")
	return nil
}
