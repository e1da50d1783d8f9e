package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/campusops/portward/internal/assignment"
	"github.com/campusops/portward/internal/compose"
	"github.com/campusops/portward/internal/config"
	"github.com/campusops/portward/internal/history"
	"github.com/campusops/portward/internal/verify"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var (
		user    string
		all     bool
		baseDir string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "verify [project-dir]",
		Short: "Verify port usage against your assignment",
		Long: `Checks the docker-compose.yml of one project (or of every project under
the base directory with --all) against your assigned port ranges, and
reports out-of-range ports and duplicates within and across projects.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, rec, err := authorize(user)
			if err != nil {
				return err
			}

			if all {
				base := baseDir
				if base == "" {
					base = cfg.ProjectsDir
				}
				return verifyAll(cfg, rec, base, jsonOut)
			}

			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return verifySingle(cfg, rec, dir, jsonOut)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Login ID (defaults to $USER)")
	cmd.Flags().BoolVar(&all, "all", false, "Verify every project under the base directory")
	cmd.Flags().StringVar(&baseDir, "base", "", "Base directory for --all (defaults to PROJECTS_DIR)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}

func verifySingle(cfg *config.Config, rec *assignment.Assignment, dir string, jsonOut bool) error {
	snap, err := compose.Scan(dir)
	if err != nil {
		return err
	}

	result := verify.VerifySingle(snap, rec)
	recordRuns(cfg, rec.LoginID, []verify.Result{result})

	if jsonOut {
		return printJSON(result)
	}

	printResult(result)
	if !result.IsValid {
		return fmt.Errorf("port verification failed with %d conflict(s)", len(result.Conflicts))
	}
	return nil
}

func verifyAll(cfg *config.Config, rec *assignment.Assignment, base string, jsonOut bool) error {
	snaps, scanErrs := compose.ScanAll(base)

	results, crossConflicts := verify.VerifyAll(snaps, rec)
	recordRuns(cfg, rec.LoginID, results)

	if jsonOut {
		return printJSON(struct {
			Results        []verify.Result        `json:"results"`
			CrossConflicts []verify.CrossConflict `json:"cross_conflicts"`
			ScanErrors     []string               `json:"scan_errors,omitempty"`
		}{results, crossConflicts, errStrings(scanErrs)})
	}

	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Println("Port Verification Report")
	fmt.Println("========================")
	fmt.Println()
	fmt.Printf("Assigned ranges: %s (%d ports)\n", rec.FormatRanges(), rec.TotalPorts())
	fmt.Println()

	if len(snaps) == 0 {
		fmt.Printf("No projects with a %s found under %s\n", compose.ComposeFileName, base)
	}

	totalConflicts := len(crossConflicts)
	for _, result := range results {
		printResult(result)
		totalConflicts += len(result.Conflicts)
	}

	if len(crossConflicts) > 0 {
		fmt.Println("Cross-project conflicts:")
		for _, cc := range crossConflicts {
			fmt.Printf("  ❌ %s/%s: %s\n", cc.Project, cc.Conflict.Service, cc.Conflict.Description)
			if cc.Conflict.Suggestion != nil {
				fmt.Printf("     💡 try port %d instead\n", *cc.Conflict.Suggestion)
			}
		}
		fmt.Println()
	}

	for _, err := range scanErrs {
		fmt.Printf("%s %v\n", yellow("⚠"), err)
	}

	if totalConflicts > 0 {
		return fmt.Errorf("port verification failed with %d conflict(s)", totalConflicts)
	}

	fmt.Println("✅ All projects are within your assigned ranges")
	return nil
}

func printResult(result verify.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	status := green("✅ valid")
	if !result.IsValid {
		status = red("❌ invalid")
	}
	fmt.Printf("%s (%d ports) %s\n", result.Project, result.TotalPortsUsed, status)

	for _, c := range result.Conflicts {
		fmt.Printf("  ❌ %s: %s\n", c.Service, c.Description)
		if c.Suggestion != nil {
			fmt.Printf("     💡 try port %d instead\n", *c.Suggestion)
		} else {
			fmt.Println("     💡 no available ports left in your assigned range")
		}
	}

	for _, w := range result.Warnings {
		fmt.Printf("  %s %s\n", yellow("⚠"), w)
	}

	fmt.Println()
}

// recordRuns appends results to the local history log. History is best
// effort: a broken log must not fail a verification.
func recordRuns(cfg *config.Config, loginID string, results []verify.Result) {
	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		fmt.Printf("Warning: failed to open history: %v\n", err)
		return
	}
	defer func() { _ = store.Close() }()

	for _, r := range results {
		run := history.Run{
			LoginID:   loginID,
			Project:   r.Project,
			PortsUsed: r.TotalPortsUsed,
			Conflicts: len(r.Conflicts),
			IsValid:   r.IsValid,
		}
		if err := store.Record(run); err != nil {
			fmt.Printf("Warning: failed to record run: %v\n", err)
			return
		}
	}
}

func errStrings(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}
