package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/maruten0420/REDZONE-history/internal/cache"
	"github.com/maruten0420/REDZONE-history/internal/config"
	"github.com/maruten0420/REDZONE-history/internal/document"
	"github.com/maruten0420/REDZONE-history/internal/remote"
	"github.com/maruten0420/REDZONE-history/internal/ui"
	"github.com/maruten0420/REDZONE-history/internal/web"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var (
		listen    string
		remoteURL string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the timeline editor in the browser",
		Long: `Start the editor server and open the timeline in a browser.

The document is loaded from the configured remote URL, falling back to
the local cache. Every edit is written back to the cache, so work
survives restarts even when the remote is unreachable.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.Load()
			if listen != "" {
				cfg.Serve.Listen = listen
			}
			if remoteURL != "" {
				cfg.Remote.URL = remoteURL
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			doc := remote.Bootstrap(ctx, cfg.Remote.URL)
			cancel()

			store := document.NewStore()
			store.Seed(doc)
			store.Subscribe(func(d document.Document) {
				if err := cache.Save(d); err != nil {
					ui.Warn.Printf("  Failed to cache document: %v\n", err)
				}
			})

			srv := web.NewServer(cfg, loadSheet(cfg), store)

			ui.Banner("serve")
			fmt.Printf("  Events:   %d\n", len(doc))
			fmt.Printf("  Address:  %s\n", ui.Brand.Sprintf("http://%s/", cfg.Serve.Listen))
			fmt.Println()
			fmt.Println(ui.Subtle.Sprint("  Double-click a card to unlock it, then drag it sideways."))
			fmt.Println()

			if err := http.ListenAndServe(cfg.Serve.Listen, srv.Handler()); err != nil {
				ui.Bad.Printf("  Server failed: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&remoteURL, "remote", "", "Remote document URL override")
	return cmd
}
