package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// CaptureTimeout bounds the whole screenshot sequence.
const CaptureTimeout = 30 * time.Second

// PNG rasterizes an SVG string through headless Chromium. The SVG is fed
// as a base64 data URI so no temp file is needed.
func PNG(parentCtx context.Context, svg string) ([]byte, error) {
	dataURI := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Headless)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parentCtx, opts...)
	defer cancelAlloc()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, CaptureTimeout)
	defer cancelTimeout()

	var buf []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate(dataURI),
		chromedp.WaitVisible(`svg`, chromedp.ByQuery),
		chromedp.Screenshot(`svg`, &buf, chromedp.ByQuery),
	}
	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, fmt.Errorf("chromedp capture: %w", err)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("chromedp capture: empty screenshot")
	}
	return buf, nil
}
