package crawler

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Sibuxiangx/tweet-crawler/internal/adapters/graphql"
	"github.com/Sibuxiangx/tweet-crawler/internal/domain"
)

// StatusCrawler resolves one tweet status URL into a Tweet with its
// conversation-thread forest. An instance is bound to one URL and one
// invocation; retries need a fresh instance.
type StatusCrawler struct {
	page Page
	url  string
	log  *logrus.Entry

	ran atomic.Bool

	mu     sync.Mutex
	done   bool
	result domain.ThreadItem
	err    error
	ready  chan struct{}
}

// NewStatusCrawler builds a crawler for one tweet status URL over the
// given page handle.
func NewStatusCrawler(page Page, url string) *StatusCrawler {
	return &StatusCrawler{
		page:  page,
		url:   url,
		ready: make(chan struct{}),
		log: logrus.WithFields(logrus.Fields{
			"component": "status_crawler",
			"crawl_id":  uuid.NewString(),
		}),
	}
}

// Run navigates to the status URL, waits for the first matching
// TweetDetail (or guest TweetResultByRestId) response, and returns the
// parsed tweet. A tombstoned or unavailable root surfaces as
// ContentUnavailableError, never as a Tweet value.
func (c *StatusCrawler) Run(ctx context.Context) (*domain.Tweet, error) {
	if !c.ran.CompareAndSwap(false, true) {
		return nil, domain.ErrCrawlerExhausted
	}

	release := c.page.OnResponse(func(ev ResponseEvent) {
		c.handleResponse(ctx, ev)
	})
	defer release()

	c.log.WithField("url", c.url).Debug("navigating")
	if err := c.page.Navigate(ctx, c.url); err != nil {
		return nil, err
	}

	select {
	case <-c.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	switch node := c.result.(type) {
	case *domain.Tweet:
		return node, nil
	case *domain.TweetTombstone:
		return nil, &domain.ContentUnavailableError{Reason: node.Text}
	}
	return nil, &domain.StructuralParseError{Operation: OpTweetDetail, URL: c.url}
}

// handleResponse consumes the first matching response; later same-page
// matches are ignored. Parse failures are captured and re-raised from the
// awaiting Run call, never dropped on the event goroutine.
func (c *StatusCrawler) handleResponse(ctx context.Context, ev ResponseEvent) {
	if !MatchOperation(ev.URL, OpTweetDetail) && !MatchOperation(ev.URL, OpTweetResultByRest) {
		return
	}
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	c.mu.Unlock()

	c.log.WithField("response_url", ev.URL).Debug("matched graphql response")

	var (
		result domain.ThreadItem
		err    error
	)
	body, err := ev.Body(ctx)
	if err == nil {
		result, err = graphql.ParseConversation(body)
	}
	annotateURL(err, ev.URL)

	c.mu.Lock()
	c.result, c.err = result, err
	c.mu.Unlock()
	close(c.ready)
}

// annotateURL stamps the offending response URL onto structural parse
// errors so schema drift can be diagnosed.
func annotateURL(err error, url string) {
	if spe, ok := err.(*domain.StructuralParseError); ok && spe.URL == "" {
		spe.URL = url
	}
}
