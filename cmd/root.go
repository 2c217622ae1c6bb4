package cmd

import (
	"embed"

	"github.com/maruten0420/REDZONE-history/internal/config"
	"github.com/maruten0420/REDZONE-history/internal/style"
	"github.com/maruten0420/REDZONE-history/internal/ui"
	"github.com/spf13/cobra"
)

var version = "1.2.0"

var styleFS embed.FS

// SetStyleFS sets the embedded filesystem containing the default YAML
// style sheet.
func SetStyleFS(fs embed.FS) {
	styleFS = fs
}

// loadSheet resolves the render style: a config-pointed override file if
// set, otherwise the embedded default sheet.
func loadSheet(cfg *config.Config) *style.Sheet {
	if cfg.Style.Path != "" {
		sheet, err := style.LoadFile(cfg.Style.Path)
		if err != nil {
			ui.Warn.Printf("  Ignoring style %s: %v\n", cfg.Style.Path, err)
		} else {
			return sheet
		}
	}
	sheet, err := style.LoadFS(styleFS, "styles/default.yaml")
	if err != nil {
		return style.Default()
	}
	return sheet
}

var rootCmd = &cobra.Command{
	Use:   "redzone",
	Short: "redzone — the history timeline editor",
	Long: ui.Brand.Sprint(ui.Pin+" redzone") + " — edit and publish the history timeline\n" +
		ui.Subtle.Sprint("Dated event cards on a vertical timeline, with links between them"),
	Version: version + " " + ui.Pin,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = config.EnsureExists()
	},
}

func init() {
	rootCmd.SetVersionTemplate("redzone {{ .Version }}\n")

	rootCmd.AddCommand(
		serveCmd(),
		eventsCmd(),
		renderCmd(),
		exportCmd(),
		importCmd(),
		cacheCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
