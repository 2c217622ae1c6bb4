package cmd

import (
	"os"

	"github.com/maruten0420/REDZONE-history/internal/document"
	"github.com/maruten0420/REDZONE-history/internal/ics"
	"github.com/maruten0420/REDZONE-history/internal/ui"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	var (
		fromICS  bool
		category string
		merge    bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON document or an ICS calendar",
		Long: `Replace the working document with the contents of a JSON file,
or merge events extracted from an iCalendar (.ics) file. ICS entries
become fresh events in the chosen category, dated from DTSTART.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			data, err := os.ReadFile(args[0])
			if err != nil {
				ui.Bad.Printf("  Failed to read file: %v\n", err)
				os.Exit(1)
			}

			var incoming document.Document
			if fromICS {
				cat := document.Category(category)
				if !document.ValidCategory(cat) {
					ui.Bad.Printf("  Unknown category %q\n", category)
					os.Exit(1)
				}
				incoming, err = ics.Import(data, cat)
			} else {
				incoming, err = document.Parse(data)
			}
			if err != nil {
				ui.Bad.Printf("  Import failed: %v\n", err)
				os.Exit(1)
			}

			doc := incoming
			if merge || fromICS {
				doc = append(loadWorkingDoc(), incoming...)
			}
			saveWorkingDoc(doc)

			ui.Good.Printf("  %s Imported %d events (%d total)\n",
				ui.StatusIcon(true), len(incoming), len(doc))
		},
	}

	cmd.Flags().BoolVar(&fromICS, "ics", false, "Treat the file as an iCalendar export")
	cmd.Flags().StringVar(&category, "category", "other", "Category for imported ICS events")
	cmd.Flags().BoolVar(&merge, "merge", false, "Append to the current document instead of replacing it")
	return cmd
}
