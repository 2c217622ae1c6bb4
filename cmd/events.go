package cmd

import (
	"fmt"
	"os"

	"github.com/maruten0420/REDZONE-history/internal/cache"
	"github.com/maruten0420/REDZONE-history/internal/document"
	"github.com/maruten0420/REDZONE-history/internal/ui"
	"github.com/spf13/cobra"
)

// loadWorkingDoc reads the cached working copy. An empty document is a
// valid starting point.
func loadWorkingDoc() document.Document {
	doc, ok := cache.Load()
	if !ok {
		return document.Document{}
	}
	return doc
}

func saveWorkingDoc(doc document.Document) {
	if err := cache.Save(doc); err != nil {
		ui.Bad.Printf("  Failed to save document: %v\n", err)
		os.Exit(1)
	}
}

func mustFind(doc document.Document, id string) document.Event {
	for _, ev := range doc {
		if ev.ID == id {
			return ev
		}
	}
	ui.Bad.Printf("  No event with id %q\n", id)
	os.Exit(1)
	return document.Event{}
}

func eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		Short:   "Edit the timeline document from the terminal",
		Aliases: []string{"ev"},
		Run: func(cmd *cobra.Command, args []string) {
			doc := loadWorkingDoc()
			ui.Banner("events")

			if len(doc) == 0 {
				fmt.Println("  Empty document. Get started:")
				fmt.Println()
				ui.Info.Println("  redzone events add \"Title\" --date 1995-06-01 --category technique")
				ui.Info.Println("  redzone import history.json")
				return
			}

			counts := map[document.Category]int{}
			for _, ev := range doc {
				counts[ev.Category]++
			}
			for _, cat := range document.Categories() {
				fmt.Printf("  %s  %d\n", ui.Brand.Sprintf("%-12s", string(cat)), counts[cat])
			}
			fmt.Println()
			fmt.Printf("  %s\n", ui.Subtle.Sprintf("%d events cached at %s", len(doc), cache.Dir()))
		},
	}

	cmd.AddCommand(
		eventsListCmd(),
		eventsAddCmd(),
		eventsRemoveCmd(),
		eventsMoveCmd(),
		eventsLinkCmd(),
		eventsUnlinkCmd(),
	)

	return cmd
}

func eventsListCmd() *cobra.Command {
	var filterCat string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List events",
		Aliases: []string{"ls"},
		Run: func(cmd *cobra.Command, args []string) {
			doc := loadWorkingDoc()
			if filterCat != "" {
				doc = doc.FilterCategory(document.Category(filterCat))
			}

			if len(doc) == 0 {
				fmt.Println("  No events")
				return
			}

			ui.Banner("events")
			var rows [][]string
			for _, ev := range doc {
				title := truncate(ev.Title, 40)
				rows = append(rows, []string{
					ev.ID,
					ev.Date,
					string(ev.Category),
					title,
					fmt.Sprintf("%.0f%%", ev.XOffset),
					fmt.Sprintf("%d", len(ev.Links)),
				})
			}
			ui.Table([]string{"ID", "Date", "Category", "Title", "Offset", "Links"}, rows)
			fmt.Printf("\n  %d events\n", len(rows))
		},
	}

	cmd.Flags().StringVar(&filterCat, "category", "", "Filter by category (technique, author, other)")
	return cmd
}

func eventsAddCmd() *cobra.Command {
	var (
		date        string
		category    string
		description string
		url         string
		border      string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add an event",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ev := document.NewEvent(document.Category(category))
			ev.Title = args[0]
			ev.Description = description
			ev.URL = url
			if date != "" {
				ev.Date = date
			}
			if border != "" {
				ev.BorderColor = border
			}
			if ev.Day().IsZero() {
				ui.Bad.Printf("  Invalid date %q (want YYYY-MM-DD)\n", date)
				os.Exit(1)
			}

			doc := loadWorkingDoc()
			saveWorkingDoc(append(doc, ev))

			ui.Good.Printf("  %s Added %s (%s, %s)\n",
				ui.StatusIcon(true), ui.Brand.Sprint(ev.Title), ev.Date, ev.Category)
			ui.Subtle.Printf("  id: %s\n", ev.ID)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Event date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&category, "category", "technique", "Category: technique, author, or other")
	cmd.Flags().StringVar(&description, "description", "", "Card body text")
	cmd.Flags().StringVar(&url, "url", "", "Reference URL")
	cmd.Flags().StringVar(&border, "border", "", "Border tag: red or blue")
	return cmd
}

func eventsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Short:   "Remove an event (links pointing at it are kept)",
		Aliases: []string{"remove"},
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id := args[0]
			doc := loadWorkingDoc()
			removed := mustFind(doc, id)

			// Only the first match goes; links elsewhere stay untouched.
			out := make(document.Document, 0, len(doc)-1)
			deleted := false
			for _, ev := range doc {
				if !deleted && ev.ID == id {
					deleted = true
					continue
				}
				out = append(out, ev)
			}
			saveWorkingDoc(out)

			ui.Good.Printf("  %s Removed %s\n", ui.StatusIcon(true), ui.Brand.Sprint(removed.Title))
		},
	}
}

func eventsMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <offset>",
		Short: "Set an event's horizontal offset (0-100)",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			id := args[0]
			var pct float64
			if _, err := fmt.Sscanf(args[1], "%f", &pct); err != nil {
				ui.Bad.Printf("  Invalid offset %q\n", args[1])
				os.Exit(1)
			}

			doc := loadWorkingDoc()
			mustFind(doc, id)
			for i := range doc {
				if doc[i].ID == id {
					doc[i].XOffset = document.ClampOffset(pct)
					pct = doc[i].XOffset
					break
				}
			}
			saveWorkingDoc(doc)

			ui.Good.Printf("  %s Moved %s to %.0f%%\n", ui.StatusIcon(true), id, pct)
		},
	}
}

func eventsLinkCmd() *cobra.Command {
	var linkColor string

	cmd := &cobra.Command{
		Use:   "link <source> <target>",
		Short: "Draw a connector from one event to another",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			source, target := args[0], args[1]
			if source == target {
				ui.Bad.Println("  An event cannot link to itself")
				os.Exit(1)
			}

			doc := loadWorkingDoc()
			src := mustFind(doc, source)
			dst := mustFind(doc, target)
			if src.Category != dst.Category {
				ui.Warn.Printf("  Cross-category link: it will not be drawn on the %s tab\n", src.Category)
			}

			for i := range doc {
				if doc[i].ID == source {
					doc[i].Links = append(doc[i].Links, document.Link{TargetID: target, Color: linkColor})
					break
				}
			}
			saveWorkingDoc(doc)

			ui.Good.Printf("  %s %s --> %s\n", ui.StatusIcon(true), ui.Brand.Sprint(source), ui.Brand.Sprint(target))
		},
	}

	cmd.Flags().StringVar(&linkColor, "color", "#e74c3c", "Connector stroke color")
	return cmd
}

func eventsUnlinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <source> <target>",
		Short: "Remove connectors between two events",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			source, target := args[0], args[1]

			doc := loadWorkingDoc()
			mustFind(doc, source)

			removed := 0
			for i := range doc {
				if doc[i].ID != source {
					continue
				}
				kept := doc[i].Links[:0]
				for _, l := range doc[i].Links {
					if l.TargetID == target {
						removed++
						continue
					}
					kept = append(kept, l)
				}
				doc[i].Links = kept
				break
			}
			if removed == 0 {
				ui.Bad.Printf("  No link %s --> %s\n", source, target)
				os.Exit(1)
			}
			saveWorkingDoc(doc)

			ui.Good.Printf("  %s Removed %d link%s\n", ui.StatusIcon(true), removed, plural(removed))
		},
	}
}

// truncate shortens s to at most max runes, ellipsized. Rune-based so a
// multi-byte title is never cut mid-character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
