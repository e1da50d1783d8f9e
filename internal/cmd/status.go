package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/campusops/portward/internal/compose"
	"github.com/campusops/portward/internal/config"
	"github.com/campusops/portward/internal/docker"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	var (
		baseDir string
		detail  bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show projects and their container state",
		Long:  `Scans the base directory for compose projects and asks docker compose whether each one is running.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			base := baseDir
			if base == "" {
				base = cfg.ProjectsDir
			}

			snaps, scanErrs := compose.ScanAll(base)
			if len(snaps) == 0 && len(scanErrs) == 0 {
				fmt.Printf("No projects with a %s found under %s\n", compose.ComposeFileName, base)
				return nil
			}

			green := color.New(color.FgGreen).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()

			for _, snap := range snaps {
				state := yellow("stopped")
				if running, err := docker.IsRunning(snap.Project); err == nil && running {
					state = green("running")
				}

				fmt.Printf("%s (%s)\n", snap.Project, state)
				if len(snap.Mappings) > 0 {
					ports := make([]string, len(snap.Mappings))
					for i, m := range snap.Mappings {
						ports[i] = fmt.Sprintf("%d", m.HostPort)
					}
					fmt.Printf("  Ports: %s\n", strings.Join(ports, ", "))
				}
				if detail {
					out, err := docker.Status(snap.Project, snap.Dir)
					if err != nil {
						fmt.Printf("  %s %v\n", yellow("⚠"), err)
					} else {
						for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
							fmt.Printf("  %s\n", line)
						}
					}
				}
				fmt.Println()
			}

			for _, err := range scanErrs {
				fmt.Printf("%s %v\n", yellow("⚠"), err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&baseDir, "base", "", "Base directory to scan (defaults to PROJECTS_DIR)")
	cmd.Flags().BoolVar(&detail, "detail", false, "Include docker compose ps output for each project")

	return cmd
}
