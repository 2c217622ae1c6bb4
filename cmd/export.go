package cmd

import (
	"os"

	"github.com/maruten0420/REDZONE-history/internal/document"
	"github.com/maruten0420/REDZONE-history/internal/ui"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the document as publishable JSON",
		Run: func(cmd *cobra.Command, args []string) {
			doc := loadWorkingDoc()
			data, err := document.Export(doc)
			if err != nil {
				ui.Bad.Printf("  Export failed: %v\n", err)
				os.Exit(1)
			}

			if output == "" || output == "-" {
				os.Stdout.Write(data)
				os.Stdout.Write([]byte("\n"))
				return
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				ui.Bad.Printf("  Failed to write %s: %v\n", output, err)
				os.Exit(1)
			}
			ui.Good.Printf("  %s Exported %d events to %s\n",
				ui.StatusIcon(true), len(doc), ui.Brand.Sprint(output))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}
