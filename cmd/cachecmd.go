package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/maruten0420/REDZONE-history/internal/cache"
	"github.com/maruten0420/REDZONE-history/internal/config"
	"github.com/maruten0420/REDZONE-history/internal/remote"
	"github.com/maruten0420/REDZONE-history/internal/ui"
	"github.com/spf13/cobra"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the local document cache",
		Run: func(cmd *cobra.Command, args []string) {
			ui.Banner("cache")
			fmt.Printf("  Location: %s\n", ui.Brand.Sprint(cache.Dir()))

			doc, ok := cache.Load()
			if !ok {
				fmt.Printf("  Status:   %s empty\n", ui.Subtle.Sprint("-"))
				return
			}
			fmt.Printf("  Status:   %s %d events\n", ui.StatusIcon(true), len(doc))
		},
	}

	cmd.AddCommand(
		cacheFetchCmd(),
		cacheClearCmd(),
	)

	return cmd
}

func cacheFetchCmd() *cobra.Command {
	var remoteURL string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the remote document into the cache",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.Load()
			if remoteURL != "" {
				cfg.Remote.URL = remoteURL
			}
			if cfg.Remote.URL == "" {
				ui.Bad.Println("  No remote URL configured (set remote.url or pass --remote)")
				os.Exit(1)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			doc, err := remote.Fetch(ctx, cfg.Remote.URL)
			if err != nil {
				ui.Bad.Printf("  Fetch failed: %v\n", err)
				os.Exit(1)
			}
			if err := cache.Save(doc); err != nil {
				ui.Bad.Printf("  Failed to cache document: %v\n", err)
				os.Exit(1)
			}

			ui.Good.Printf("  %s Cached %d events from %s\n",
				ui.StatusIcon(true), len(doc), ui.Brand.Sprint(cfg.Remote.URL))
		},
	}

	cmd.Flags().StringVar(&remoteURL, "remote", "", "Remote document URL override")
	return cmd
}

func cacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "clear",
		Short:   "Delete the cached document",
		Aliases: []string{"reset"},
		Run: func(cmd *cobra.Command, args []string) {
			if err := cache.Clear(); err != nil {
				ui.Bad.Printf("  Failed to clear cache: %v\n", err)
				os.Exit(1)
			}
			ui.Good.Printf("  %s Cache cleared\n", ui.StatusIcon(true))
		},
	}
}
