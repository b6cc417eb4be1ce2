package web

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/Sibuxiangx/tweet-crawler/internal/domain"
	"github.com/Sibuxiangx/tweet-crawler/internal/usecases"
)

// Handlers contains the JSON API handlers.
type Handlers struct {
	lookupStatus *usecases.LookupStatusUseCase
	listUsers    *usecases.ListUsersUseCase
	rateLimiter  *RateLimiter
	crawlTimeout time.Duration
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(lookupStatus *usecases.LookupStatusUseCase, listUsers *usecases.ListUsersUseCase, rateLimiter *RateLimiter, crawlTimeout time.Duration) *Handlers {
	return &Handlers{
		lookupStatus: lookupStatus,
		listUsers:    listUsers,
		rateLimiter:  rateLimiter,
		crawlTimeout: crawlTimeout,
	}
}

// GetStatus returns one tweet with its conversation threads.
// Mirrors the Twitter URL structure: /api/:username/status/:id
func (h *Handlers) GetStatus(c *fiber.Ctx) error {
	username := c.Params("username")
	tweetID := c.Params("id")

	if !h.admit(c) {
		return h.tooManyRequests(c)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.crawlTimeout)
	defer cancel()

	tweet, err := h.lookupStatus.Execute(ctx, username, tweetID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"username": username,
			"tweet_id": tweetID,
		}).WithError(err).Error("status lookup failed")
		return h.renderError(c, err)
	}

	return c.JSON(tweet)
}

// ResolveStatus accepts a pasted status URL in the request body and
// redirects to the canonical API path for it.
func (h *Handlers) ResolveStatus(c *fiber.Ctx) error {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return h.renderError(c, domain.ErrInvalidURL)
	}

	username, tweetID, err := ParseStatusURL(req.URL)
	if err != nil {
		logrus.WithField("url", req.URL).Warn("invalid status url")
		return h.renderError(c, err)
	}

	return c.Redirect("/api/"+username+"/status/"+tweetID, fiber.StatusTemporaryRedirect)
}

// GetFollowers returns every account following :username.
func (h *Handlers) GetFollowers(c *fiber.Ctx) error {
	return h.listRelationship(c, usecases.ListFollowers)
}

// GetFollowing returns every account :username follows.
func (h *Handlers) GetFollowing(c *fiber.Ctx) error {
	return h.listRelationship(c, usecases.ListFollowing)
}

// errListTruncated stops the crawl once the requested limit is reached.
var errListTruncated = errors.New("list truncated at limit")

func (h *Handlers) listRelationship(c *fiber.Ctx, direction usecases.ListDirection) error {
	username := c.Params("username")
	limit := c.QueryInt("limit", 0)

	if !h.admit(c) {
		return h.tooManyRequests(c)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.crawlTimeout)
	defer cancel()

	var users []*domain.TwitterUser
	err := h.listUsers.ExecuteEach(ctx, username, direction, func(batch []*domain.TwitterUser) error {
		users = append(users, batch...)
		if limit > 0 && len(users) >= limit {
			users = users[:limit]
			return errListTruncated
		}
		return nil
	})
	if errors.Is(err, errListTruncated) {
		err = nil
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"username":  username,
			"direction": direction,
			"partial":   len(users),
		}).WithError(err).Error("relationship crawl failed")
		return h.renderError(c, err)
	}

	return c.JSON(fiber.Map{
		"username": username,
		"count":    len(users),
		"users":    users,
	})
}

// Health reports service liveness.
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handlers) admit(c *fiber.Ctx) bool {
	ip := c.IP()
	if !h.rateLimiter.CanCrawl(ip) {
		return false
	}
	h.rateLimiter.RecordCrawl(ip)
	return true
}

func (h *Handlers) tooManyRequests(c *fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error": "too many crawl requests, slow down",
	})
}

// renderError maps domain errors onto HTTP status codes.
func (h *Handlers) renderError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var notAuth *domain.NotAuthenticatedError
	var unavailable *domain.ContentUnavailableError
	var structural *domain.StructuralParseError
	switch {
	case errors.Is(err, domain.ErrInvalidURL):
		status = fiber.StatusBadRequest
	case errors.As(err, &unavailable):
		status = fiber.StatusGone
	case errors.As(err, &notAuth):
		status = fiber.StatusForbidden
	case errors.As(err, &structural):
		status = fiber.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = fiber.StatusGatewayTimeout
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
