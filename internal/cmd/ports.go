package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewPortsCmd creates the ports command
func NewPortsCmd() *cobra.Command {
	var (
		user    string
		jsonOut bool
		showAll bool
	)

	cmd := &cobra.Command{
		Use:   "ports",
		Short: "Show your assigned port ranges",
		Long:  `Shows the port segments assigned to your login ID, as recorded in the encrypted assignment file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, rec, err := authorize(user)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(rec)
			}

			cyan := color.New(color.FgCyan).SprintFunc()

			fmt.Printf("Port assignment for %s\n", cyan(rec.LoginID))
			fmt.Printf("  Ranges:     %s\n", rec.FormatRanges())
			fmt.Printf("  Total:      %d ports\n", rec.TotalPorts())
			if rec.IsContinuous() {
				fmt.Println("  Layout:     continuous")
			} else {
				fmt.Println("  Layout:     two separate segments")
			}

			if showAll {
				fmt.Println("  Ports:")
				for _, p := range rec.AllPorts() {
					fmt.Printf("    %d\n", p)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Login ID (defaults to $USER)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&showAll, "all", false, "List every individual port")

	return cmd
}
