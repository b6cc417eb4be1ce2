// Package browser owns the Chrome process and exposes tabs to the crawl
// engine through the crawler.Page capability surface.
package browser

import (
	"context"
	"os"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/Sibuxiangx/tweet-crawler/internal/adapters/crawler"
)

// Pool manages a single Chrome process and enforces serialized tab usage
// (1 tab at a time). Safe for 4GB VPS environments.
type Pool struct {
	allocCtx context.Context
	ctx      context.Context
	cancel   context.CancelFunc
	opts     []chromedp.ExecAllocatorOption
	cookies  []Cookie
	log      *logrus.Entry

	mu     sync.Mutex
	tabSem chan struct{}
}

// PoolOptions translates deploy-time browser settings into allocator
// options. They are appended after the defaults, so they win.
func PoolOptions(headless bool, chromePath string) []chromedp.ExecAllocatorOption {
	var opts []chromedp.ExecAllocatorOption
	if !headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	return opts
}

// NewPool creates a browser pool with exactly one Chrome instance and one
// tab allowed at a time. The given cookies are injected into every tab
// before it navigates anywhere.
func NewPool(cookies []Cookie, options []chromedp.ExecAllocatorOption) (*Pool, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		// Core
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),

		// Memory / CPU reduction
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("disable-component-update", true),
		chromedp.Flag("disable-domain-reliability", true),
		chromedp.Flag("disable-features", "Translate,BackForwardCache"),
		chromedp.Flag("metrics-recording-only", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-site-isolation-trials", true),
	)

	opts = append(opts, options...)

	log := logrus.WithField("component", "browser_pool")

	// Explicit Chrome/Chromium path (systemd-safe)
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		log.WithField("path", chromePath).Info("using custom chrome path")
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	p := &Pool{
		opts:    opts,
		cookies: cookies,
		log:     log,
		tabSem:  make(chan struct{}, 1), // HARD LIMIT: 1 tab
	}

	if err := p.start(); err != nil {
		return nil, err
	}

	return p, nil
}

// start initializes or restarts the Chrome process.
func (p *Pool) start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), p.opts...)
	ctx, _ := chromedp.NewContext(allocCtx)

	// Force Chrome startup
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return err
	}

	p.allocCtx = allocCtx
	p.ctx = ctx
	p.cancel = cancel

	p.log.Info("chrome started")
	return nil
}

// WithPage executes a function with exclusive access to a browser tab
// wrapped as a crawl page, with network events enabled and the pool's
// cookies already injected.
func (p *Pool) WithPage(fn func(page crawler.Page) error) error {
	// Acquire tab slot (blocks until available)
	p.tabSem <- struct{}{}
	defer func() { <-p.tabSem }()

	// Acquire a healthy tab (handles restart if needed)
	tabCtx, tabCancel, err := p.acquireTab()
	if err != nil {
		return err
	}
	defer tabCancel()

	page, err := NewCDPPage(tabCtx)
	if err != nil {
		return err
	}
	if err := InjectCookies(tabCtx, p.cookies); err != nil {
		return err
	}

	return fn(page)
}

// acquireTab creates a new browser tab and performs a health check.
// If the browser is unhealthy, it restarts Chrome and creates a new tab.
// Returns exactly one valid tab context with its cancel function.
func (p *Pool) acquireTab() (context.Context, context.CancelFunc, error) {
	p.mu.Lock()
	tabCtx, tabCancel := chromedp.NewContext(p.ctx)
	p.mu.Unlock()

	// Health check - verify the tab is functional
	if err := chromedp.Run(tabCtx); err != nil {
		// Cancel the failed tab before restart
		tabCancel()

		p.log.WithError(err).Warn("tab failed, restarting chrome")

		if restartErr := p.start(); restartErr != nil {
			return nil, nil, restartErr
		}

		// Create a new tab after restart
		p.mu.Lock()
		tabCtx, tabCancel = chromedp.NewContext(p.ctx)
		p.mu.Unlock()
	}

	return tabCtx, tabCancel, nil
}

// Close shuts down the browser completely.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.log.Info("chrome stopped")
	}
}
