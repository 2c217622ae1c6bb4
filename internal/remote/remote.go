// Package remote loads the initially published document. A failed fetch
// is never fatal: the caller falls back to the local cache, then to an
// empty document, surfacing the failure only as a diagnostic.
package remote

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/maruten0420/REDZONE-history/internal/cache"
	"github.com/maruten0420/REDZONE-history/internal/document"
)

// Fetch GETs the published JSON document. Non-2xx statuses are errors;
// there is no retry and no timeout beyond the context's.
func Fetch(ctx context.Context, url string) (document.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("remote document fetch: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return document.Parse(body)
}

// Bootstrap resolves the startup document: remote first, then the local
// cache, then empty. Always returns a usable document.
func Bootstrap(ctx context.Context, url string) document.Document {
	if url != "" {
		doc, err := Fetch(ctx, url)
		if err == nil {
			return doc
		}
		log.Printf("remote document unavailable, falling back to cache: %v", err)
	}
	if doc, ok := cache.Load(); ok {
		return doc
	}
	return document.Document{}
}
