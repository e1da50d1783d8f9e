package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/campusops/portward/internal/compose"
	"github.com/campusops/portward/internal/usage"
)

// NewUsageCmd creates the usage command
func NewUsageCmd() *cobra.Command {
	var (
		user    string
		baseDir string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Analyze port usage across your projects",
		Long:  `Aggregates how many of your assigned ports are in use across every project under the base directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, rec, err := authorize(user)
			if err != nil {
				return err
			}

			base := baseDir
			if base == "" {
				base = cfg.ProjectsDir
			}

			snaps, scanErrs := compose.ScanAll(base)
			report := usage.Analyze(rec, snaps)

			if jsonOut {
				return printJSON(report)
			}

			fmt.Printf("📊 Port usage for %s\n", rec.LoginID)
			fmt.Printf("   Assigned:  %d ports (%s)\n", report.TotalPorts, rec.FormatRanges())
			fmt.Printf("   Used:      %d ports (%.1f%%)\n", report.UsedPorts, report.UsagePercentage)
			fmt.Printf("   Available: %d ports\n", report.AvailablePorts)
			if report.OutOfRangePorts > 0 {
				fmt.Printf("   Outside assigned range: %d port(s)\n", report.OutOfRangePorts)
			}

			printUsageHint(report.UsagePercentage)

			yellow := color.New(color.FgYellow).SprintFunc()
			for _, err := range scanErrs {
				fmt.Printf("%s %v\n", yellow("⚠"), err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Login ID (defaults to $USER)")
	cmd.Flags().StringVar(&baseDir, "base", "", "Base directory to scan (defaults to PROJECTS_DIR)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}

func printUsageHint(pct float64) {
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	switch {
	case pct > 90:
		fmt.Printf("   %s port usage is very high, free unused services\n", red("🚨 CRITICAL:"))
	case pct > 80:
		fmt.Printf("   %s port usage is high\n", yellow("⚠️  WARNING:"))
	case pct > 60:
		fmt.Println("   📊 MODERATE: port usage is moderate")
	default:
		fmt.Printf("   %s port usage is low\n", green("✅ HEALTHY:"))
	}
}
