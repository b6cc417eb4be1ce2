package usecases

import (
	"context"
	"fmt"

	"github.com/Sibuxiangx/tweet-crawler/internal/adapters/crawler"
	"github.com/Sibuxiangx/tweet-crawler/internal/domain"
)

// ListDirection selects which side of the follow relationship to crawl.
type ListDirection string

const (
	ListFollowers ListDirection = "followers"
	ListFollowing ListDirection = "following"
)

// ListUsersUseCase crawls an account's followers or following list.
type ListUsersUseCase struct {
	pages PageRunner
}

// NewListUsersUseCase creates a new ListUsersUseCase.
func NewListUsersUseCase(pages PageRunner) *ListUsersUseCase {
	return &ListUsersUseCase{pages: pages}
}

// Execute crawls the whole relationship list into one ordered slice.
// Users collected before a mid-crawl failure are returned with the error.
func (uc *ListUsersUseCase) Execute(ctx context.Context, username string, direction ListDirection) ([]*domain.TwitterUser, error) {
	var users []*domain.TwitterUser
	err := uc.ExecuteEach(ctx, username, direction, func(batch []*domain.TwitterUser) error {
		users = append(users, batch...)
		return nil
	})
	return users, err
}

// ExecuteEach crawls the relationship list, handing each scroll increment
// to fn as it arrives. Suits consumers that stream rather than collect.
func (uc *ListUsersUseCase) ExecuteEach(ctx context.Context, username string, direction ListDirection, fn func(batch []*domain.TwitterUser) error) error {
	return uc.pages.WithPage(func(page crawler.Page) error {
		var c *crawler.ListCrawler
		switch direction {
		case ListFollowers:
			c = crawler.NewFollowersCrawler(page, username)
		case ListFollowing:
			c = crawler.NewFollowingCrawler(page, username)
		default:
			return fmt.Errorf("unknown list direction %q", direction)
		}
		return c.ForEachBatch(ctx, fn)
	})
}
