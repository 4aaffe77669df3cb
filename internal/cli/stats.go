package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/drapaimern/lumina/internal/core"
)

var statsSinceFlag string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task counts and usage metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if Repo == nil {
			return fmt.Errorf("app not initialized")
		}

		stats := core.Tally(Repo.Load())
		fmt.Println("Tasks")
		fmt.Printf("  Total:     %d\n", stats.Total)
		fmt.Printf("  Pending:   %d\n", stats.Pending)
		fmt.Printf("  Completed: %d\n", stats.Completed)

		if MetricsCalc == nil {
			return nil
		}
		since, err := parseSince(statsSinceFlag)
		if err != nil {
			return err
		}
		m, err := MetricsCalc.Calculate(since)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		fmt.Printf("\nActivity (last %s)\n", statsSinceFlag)
		fmt.Printf("  Created:            %d\n", m.TasksCreated)
		fmt.Printf("  Completed:          %d\n", m.TasksCompleted)
		fmt.Printf("  Deleted:            %d\n", m.TasksDeleted)
		fmt.Printf("  Enhances applied:   %d\n", m.EnhancesApplied)
		fmt.Printf("  Proposals accepted: %d\n", m.ProposalsAccepted)
		fmt.Printf("  Proposals rejected: %d\n", m.ProposalsRejected)
		fmt.Printf("  AI failures:        %d\n", m.AIFailures)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsSinceFlag, "since", "7d", "time window, e.g. 7d, 30d, 24h")
	rootCmd.AddCommand(statsCmd)
}

// parseSince parses a duration string like "7d" or "24h" into the
// corresponding time in the past.
func parseSince(s string) (time.Time, error) {
	now := time.Now().UTC()
	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	var num int
	if _, err := fmt.Sscanf(s[:len(s)-1], "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
