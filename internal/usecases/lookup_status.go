package usecases

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Sibuxiangx/tweet-crawler/internal/adapters/crawler"
	"github.com/Sibuxiangx/tweet-crawler/internal/domain"
)

// PageRunner grants exclusive access to one browser page for the
// duration of a crawl.
type PageRunner interface {
	WithPage(fn func(page crawler.Page) error) error
}

// LookupStatusUseCase resolves one tweet status into its full
// conversation view.
type LookupStatusUseCase struct {
	pages PageRunner
}

// NewLookupStatusUseCase creates a new LookupStatusUseCase.
func NewLookupStatusUseCase(pages PageRunner) *LookupStatusUseCase {
	return &LookupStatusUseCase{pages: pages}
}

// Execute crawls the status page for one tweet and returns the root
// tweet with its conversation threads attached. Each call uses a fresh
// crawler instance on a fresh page.
func (uc *LookupStatusUseCase) Execute(ctx context.Context, username, tweetID string) (*domain.Tweet, error) {
	url := "https://x.com/" + username + "/status/" + tweetID

	var tweet *domain.Tweet
	err := uc.pages.WithPage(func(page crawler.Page) error {
		var err error
		tweet, err = crawler.NewStatusCrawler(page, url).Run(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"tweet_id": tweetID,
		"username": username,
		"threads":  len(tweet.ConversationThreads),
	}).Debug("status lookup complete")

	return tweet, nil
}
