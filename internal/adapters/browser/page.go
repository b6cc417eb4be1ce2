package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/Sibuxiangx/tweet-crawler/internal/adapters/crawler"
)

// CDPPage adapts one chromedp tab to the crawler.Page interface.
//
// chromedp's ListenTarget offers no way to detach a listener, so the page
// registers a single permanent listener per event type and fans events
// out to a removable handler set.
type CDPPage struct {
	tab context.Context

	mu       sync.Mutex
	nextID   int
	respSubs map[int]func(crawler.ResponseEvent)
	navSubs  map[int]func(url string)
}

var _ crawler.Page = (*CDPPage)(nil)

// NewCDPPage wraps a tab context and enables network event emission on it.
func NewCDPPage(tab context.Context) (*CDPPage, error) {
	p := &CDPPage{
		tab:      tab,
		respSubs: make(map[int]func(crawler.ResponseEvent)),
		navSubs:  make(map[int]func(url string)),
	}

	if err := chromedp.Run(tab, network.Enable()); err != nil {
		return nil, fmt.Errorf("enabling network events: %w", err)
	}

	chromedp.ListenTarget(tab, func(ev any) {
		switch e := ev.(type) {
		case *network.EventResponseReceived:
			p.dispatchResponse(e)
		case *page.EventFrameNavigated:
			if e.Frame.ParentID == "" {
				p.dispatchNavigation(e.Frame.URL)
			}
		}
	})

	return p, nil
}

func (p *CDPPage) Navigate(ctx context.Context, url string) error {
	return p.run(ctx, chromedp.Navigate(url))
}

func (p *CDPPage) SendKey(ctx context.Context, key string) error {
	if key == crawler.KeyEnd {
		key = kb.End
	}
	return p.run(ctx, chromedp.KeyEvent(key))
}

func (p *CDPPage) OnResponse(handler func(crawler.ResponseEvent)) (release func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.respSubs[id] = handler
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.respSubs, id)
	}
}

func (p *CDPPage) OnFrameNavigated(handler func(url string)) (release func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.navSubs[id] = handler
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.navSubs, id)
	}
}

func (p *CDPPage) dispatchResponse(ev *network.EventResponseReceived) {
	requestID := ev.RequestID
	event := crawler.ResponseEvent{
		URL: ev.Response.URL,
		Body: func(ctx context.Context) ([]byte, error) {
			return p.responseBody(ctx, requestID)
		},
	}
	for _, handler := range p.snapshotResponse() {
		handler(event)
	}
}

func (p *CDPPage) dispatchNavigation(url string) {
	for _, handler := range p.snapshotNavigation() {
		handler(url)
	}
}

// responseBody fetches the body of an already-received response. The CDP
// command runs on the tab's target but honors the caller's deadline.
func (p *CDPPage) responseBody(ctx context.Context, requestID network.RequestID) ([]byte, error) {
	target := chromedp.FromContext(p.tab)
	if target == nil || target.Target == nil {
		return nil, fmt.Errorf("tab has no attached target")
	}
	body, err := network.GetResponseBody(requestID).Do(cdp.WithExecutor(ctx, target.Target))
	if err != nil {
		return nil, fmt.Errorf("fetching response body: %w", err)
	}
	return body, nil
}

// run executes browser actions against the tab while respecting the
// caller's context. chromedp binds actions to the tab context, so the
// caller's cancellation is raced alongside.
func (p *CDPPage) run(ctx context.Context, actions ...chromedp.Action) error {
	done := make(chan error, 1)
	go func() {
		done <- chromedp.Run(p.tab, actions...)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *CDPPage) snapshotResponse() []func(crawler.ResponseEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]func(crawler.ResponseEvent), 0, len(p.respSubs))
	for _, h := range p.respSubs {
		out = append(out, h)
	}
	return out
}

func (p *CDPPage) snapshotNavigation() []func(string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]func(string), 0, len(p.navSubs))
	for _, h := range p.navSubs {
		out = append(out, h)
	}
	return out
}
