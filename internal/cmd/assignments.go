package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campusops/portward/internal/config"
)

// NewAssignmentsCmd creates the assignments command
func NewAssignmentsCmd() *cobra.Command {
	var (
		metadata bool
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "assignments",
		Short: "List all port assignments (admin)",
		Long:  `Lists every record in the encrypted assignment file. Intended for the course staff, not for day-to-day student use.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			reg := newRegistry(cfg)

			if metadata {
				meta, err := reg.Metadata()
				if err != nil {
					return err
				}
				if jsonOut {
					return printJSON(meta)
				}
				fmt.Printf("Version:           %s\n", meta.Version)
				fmt.Printf("Created:           %s\n", meta.CreatedAt)
				fmt.Printf("Total assignments: %d\n", meta.TotalAssignments)
				return nil
			}

			all, err := reg.ListAll()
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(all)
			}

			if len(all) == 0 {
				fmt.Println("No assignments found")
				return nil
			}

			for _, rec := range all {
				fmt.Println(rec)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&metadata, "metadata", false, "Show file metadata instead of records")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}
