package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/campusops/portward/internal/config"
	"github.com/campusops/portward/internal/history"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	var (
		limit     int
		pruneDays int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past verification runs",
		Long:  `Lists verification runs recorded locally, newest first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			store, err := history.Open(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if pruneDays > 0 {
				removed, err := store.Prune(pruneDays)
				if err != nil {
					return err
				}
				fmt.Printf("✅ Pruned %d run(s) older than %d days\n", removed, pruneDays)
				return nil
			}

			runs, err := store.List(limit)
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("No verification runs recorded")
				return nil
			}

			green := color.New(color.FgGreen).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			for _, run := range runs {
				status := green("valid")
				if !run.IsValid {
					status = red(fmt.Sprintf("%d conflict(s)", run.Conflicts))
				}
				fmt.Printf("%s  %-20s %2d ports  %s\n",
					run.RanAt.Format("2006-01-02 15:04:05"), run.Project, run.PortsUsed, status)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().IntVar(&pruneDays, "prune-days", 0, "Delete runs older than this many days")

	return cmd
}
