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

// ListCrawler walks a Followers/Following relationship list by scrolling
// the page until the server declares the timeline terminated, yielding
// one batch of users per scroll increment.
//
// The target account blocking the relationship view manifests as a
// redirect back to the bare profile URL; the crawler watches frame
// navigations for exactly that URL and fails with NotAuthenticated.
type ListCrawler struct {
	page       Page
	operation  string
	screenName string
	url        string
	errorURL   string
	log        *logrus.Entry

	ran atomic.Bool

	mu       sync.Mutex
	pageDone bool
	failed   bool
	batch    *graphql.UserPage
	err      error
	ready    chan struct{}
}

// NewFollowersCrawler builds a crawler for the followers list of a
// screen name (without "@").
func NewFollowersCrawler(page Page, screenName string) *ListCrawler {
	return newListCrawler(page, screenName, OpFollowers, "followers")
}

// NewFollowingCrawler builds a crawler for the accounts a screen name
// follows.
func NewFollowingCrawler(page Page, screenName string) *ListCrawler {
	return newListCrawler(page, screenName, OpFollowing, "following")
}

func newListCrawler(page Page, screenName, operation, slug string) *ListCrawler {
	profile := "https://x.com/" + screenName
	return &ListCrawler{
		page:       page,
		operation:  operation,
		screenName: screenName,
		url:        profile + "/" + slug,
		errorURL:   profile,
		ready:      make(chan struct{}, 1),
		log: logrus.WithFields(logrus.Fields{
			"component": "list_crawler",
			"operation": operation,
			"account":   screenName,
			"crawl_id":  uuid.NewString(),
		}),
	}
}

// ForEachBatch runs the paginated crawl, invoking fn with each scroll
// increment in arrival order. It returns after the terminal page has been
// yielded, when fn returns an error, or when the crawl fails. Batches
// yielded before a failure are not retracted.
func (c *ListCrawler) ForEachBatch(ctx context.Context, fn func(batch []*domain.TwitterUser) error) error {
	if !c.ran.CompareAndSwap(false, true) {
		return domain.ErrCrawlerExhausted
	}

	releaseResp := c.page.OnResponse(func(ev ResponseEvent) {
		c.handleResponse(ctx, ev)
	})
	defer releaseResp()
	releaseNav := c.page.OnFrameNavigated(c.handleFrameNavigated)
	defer releaseNav()

	c.log.WithField("url", c.url).Debug("navigating")
	if err := c.page.Navigate(ctx, c.url); err != nil {
		return err
	}

	terminate := false
	for !terminate {
		if err := c.awaitPage(ctx); err != nil {
			return err
		}

		c.mu.Lock()
		batch, err := c.batch, c.err
		c.batch = nil
		c.pageDone = false
		c.mu.Unlock()

		if err != nil {
			return err
		}
		if batch == nil {
			// Signal fired without data or failure; nothing more will come.
			return &domain.StructuralParseError{Operation: c.operation, URL: c.url}
		}
		if batch.Terminal {
			terminate = true
		}
		c.log.WithField("batch_size", len(batch.Users)).Debug("yielding increment")
		if err := fn(batch.Users); err != nil {
			return err
		}
	}
	return nil
}

// Run drains the crawl into one ordered slice. On failure the users
// collected before the failure are returned alongside the error.
func (c *ListCrawler) Run(ctx context.Context) ([]*domain.TwitterUser, error) {
	var users []*domain.TwitterUser
	err := c.ForEachBatch(ctx, func(batch []*domain.TwitterUser) error {
		users = append(users, batch...)
		return nil
	})
	return users, err
}

// awaitPage re-prompts the page's lazy loading with End keypresses until
// the current page's data (or a failure) has been signaled. The engine
// has no other way to know when new data arrives, so each keypress is an
// awaited round-trip followed by a fresh check.
func (c *ListCrawler) awaitPage(ctx context.Context) error {
	for {
		select {
		case <-c.ready:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := c.page.SendKey(ctx, KeyEnd); err != nil {
			return err
		}
	}
}

func (c *ListCrawler) handleResponse(ctx context.Context, ev ResponseEvent) {
	if !MatchOperation(ev.URL, c.operation) {
		return
	}
	c.mu.Lock()
	if c.pageDone || c.failed {
		c.mu.Unlock()
		return
	}
	c.pageDone = true
	c.mu.Unlock()

	var (
		batch *graphql.UserPage
		err   error
	)
	body, err := ev.Body(ctx)
	if err == nil {
		batch, err = graphql.ParseUserPage(body, c.operation)
	}
	annotateURL(err, ev.URL)

	c.mu.Lock()
	if c.failed {
		// A redirect pre-empted this page while the body was in flight.
		c.mu.Unlock()
		return
	}
	c.batch, c.err = batch, err
	c.mu.Unlock()
	c.signal()
}

// handleFrameNavigated fails the crawl when the browser lands back on the
// bare profile URL. The redirect wins the race against any in-flight
// response wait.
func (c *ListCrawler) handleFrameNavigated(url string) {
	if url != c.errorURL {
		return
	}
	c.mu.Lock()
	if c.failed {
		c.mu.Unlock()
		return
	}
	c.failed = true
	c.err = &domain.NotAuthenticatedError{ScreenName: c.screenName}
	c.batch = nil
	c.mu.Unlock()

	c.log.Warn("redirected to bare profile, not authenticated")
	c.signal()
}

func (c *ListCrawler) signal() {
	select {
	case c.ready <- struct{}{}:
	default:
	}
}
