package filings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/moneta/internal/common"
	"github.com/ternarybob/moneta/internal/httpclient"
)

// ChromeRenderer renders filing pages in a headless browser. The report
// source builds its tables with JavaScript after load, so a plain GET
// returns an empty shell; the renderer waits for the first table element
// and then a settle period before capturing the DOM.
//
// The browser allocator is created lazily on first render and shared across
// renders; each render runs in its own tab context.
type ChromeRenderer struct {
	config *common.Config
	logger arbor.ILogger

	mu          sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc

	renderTimeout time.Duration
	renderSettle  time.Duration
}

// NewChromeRenderer creates a renderer; no browser is started until the
// first RenderPage call.
func NewChromeRenderer(config *common.Config, logger arbor.ILogger) *ChromeRenderer {
	return &ChromeRenderer{
		config:        config,
		logger:        logger,
		renderTimeout: common.ParseDurationOr(config.Filings.RenderTimeout, 30*time.Second),
		renderSettle:  common.ParseDurationOr(config.Filings.RenderSettle, 2*time.Second),
	}
}

// ensureAllocator lazily creates the shared browser allocator
func (r *ChromeRenderer) ensureAllocator() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.allocCtx != nil {
		return r.allocCtx
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(httpclient.PickUserAgent(r.config.Crawler.UserAgents)),
	)

	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	r.logger.Debug().Msg("Headless browser allocator created")

	return r.allocCtx
}

// RenderPage navigates to the URL, waits for the first table to become
// visible plus a settle period, and returns the rendered page HTML.
func (r *ChromeRenderer) RenderPage(ctx context.Context, pageURL string) (string, error) {
	allocCtx := r.ensureAllocator()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	renderCtx, cancelRender := context.WithTimeout(tabCtx, r.renderTimeout)
	defer cancelRender()

	// Propagate caller cancellation into the tab
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			cancelRender()
		case <-done:
		}
	}()

	startTime := time.Now()

	var html string
	err := chromedp.Run(renderCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible("table", chromedp.ByQuery),
		chromedp.Sleep(r.renderSettle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", pageURL, err)
	}

	r.logger.Debug().
		Str("url", pageURL).
		Int("html_length", len(html)).
		Dur("duration", time.Since(startTime)).
		Msg("Page rendered")

	return html, nil
}

// Close shuts down the shared browser allocator if one was started
func (r *ChromeRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.allocCancel != nil {
		r.allocCancel()
		r.allocCtx = nil
		r.allocCancel = nil
		r.logger.Debug().Msg("Headless browser allocator closed")
	}
	return nil
}
