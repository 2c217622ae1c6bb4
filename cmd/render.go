package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/maruten0420/REDZONE-history/internal/config"
	"github.com/maruten0420/REDZONE-history/internal/document"
	"github.com/maruten0420/REDZONE-history/internal/measure"
	"github.com/maruten0420/REDZONE-history/internal/render"
	"github.com/maruten0420/REDZONE-history/internal/timeline"
	"github.com/maruten0420/REDZONE-history/internal/ui"
	"github.com/spf13/cobra"
)

func renderCmd() *cobra.Command {
	var (
		format   string
		output   string
		category string
		zoom     float64
		width    float64
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the timeline to SVG, HTML, or PNG",
		Long: `Render a static snapshot of one category column.

Card heights are estimated from text length since there is no browser
to measure them. PNG output rasterizes the SVG through headless Chrome
and needs Chrome or Chromium installed.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.Load()
			sheet := loadSheet(cfg)

			cat := document.Category(category)
			if !document.ValidCategory(cat) {
				ui.Bad.Printf("  Unknown category %q (use technique, author, or other)\n", category)
				os.Exit(1)
			}

			doc := loadWorkingDoc()
			visible := doc.FilterCategory(cat)
			if len(visible) == 0 {
				ui.Warn.Printf("  No %s events to render\n", cat)
			}

			cards := make([]measure.CardText, 0, len(visible))
			for _, ev := range visible {
				cards = append(cards, measure.CardText{ID: ev.ID, Title: ev.Title, Description: ev.Description})
			}
			est := measure.NewEstimator(width, sheet.Metrics(width), cards)

			start, err := time.ParseInLocation(document.DateLayout, cfg.Timeline.Start, time.Local)
			if err != nil {
				start = time.Date(1990, time.January, 1, 0, 0, 0, 0, time.Local)
			}
			scale := timeline.NewScale(start, zoom)

			svg := render.SVG(doc, cat, scale, est.Measurements(), sheet)

			var data []byte
			switch format {
			case "svg":
				data = []byte(svg)
			case "html":
				page, err := render.Page(render.NewPageData(cat, scale.Zoom, svg, sheet))
				if err != nil {
					ui.Bad.Printf("  Render failed: %v\n", err)
					os.Exit(1)
				}
				data = []byte(page)
			case "png":
				ctx, cancel := context.WithTimeout(context.Background(), render.CaptureTimeout)
				defer cancel()
				png, err := render.PNG(ctx, svg)
				if err != nil {
					ui.Bad.Printf("  PNG capture failed: %v\n", err)
					os.Exit(1)
				}
				data = png
			default:
				ui.Bad.Printf("  Unknown format: %s (use svg, html, or png)\n", format)
				os.Exit(1)
			}

			if output == "" || output == "-" {
				os.Stdout.Write(data)
				return
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				ui.Bad.Printf("  Failed to write %s: %v\n", output, err)
				os.Exit(1)
			}
			ui.Good.Printf("  %s Rendered %d %s events to %s\n",
				ui.StatusIcon(true), len(visible), cat, ui.Brand.Sprint(output))
			fmt.Printf("  %s\n", ui.Subtle.Sprintf("%s, zoom %.1f", format, scale.Zoom))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "svg", "Output format: svg, html, or png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&category, "category", "technique", "Category column to render")
	cmd.Flags().Float64Var(&zoom, "zoom", timeline.DefaultZoom, "Pixels-per-day zoom factor")
	cmd.Flags().Float64Var(&width, "width", 960, "Container width in pixels")
	return cmd
}
