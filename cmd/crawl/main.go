// Command crawl is the one-shot CLI: it runs a single crawl against an
// authenticated browser session and prints the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Sibuxiangx/tweet-crawler/internal/adapters/browser"
	"github.com/Sibuxiangx/tweet-crawler/internal/adapters/web"
	"github.com/Sibuxiangx/tweet-crawler/internal/config"
	"github.com/Sibuxiangx/tweet-crawler/internal/logging"
	"github.com/Sibuxiangx/tweet-crawler/internal/usecases"
)

var rootCmd = &cobra.Command{
	Use:   "crawl",
	Short: "crawl tweets and relationship lists through a real browser session",
}

var statusCmd = &cobra.Command{
	Use:   "status <url|username tweet-id>",
	Short: "fetch one tweet with its conversation threads",
	Run: func(c *cobra.Command, args []string) {
		username, tweetID := statusArgs(args)
		withPool(func(ctx context.Context, pool *browser.Pool) error {
			tweet, err := usecases.NewLookupStatusUseCase(pool).Execute(ctx, username, tweetID)
			if err != nil {
				return err
			}
			return printJSON(tweet)
		})
	},
}

var followersCmd = &cobra.Command{
	Use:   "followers <username>",
	Short: "list every account following a user",
	Run: func(c *cobra.Command, args []string) {
		runList(args, usecases.ListFollowers)
	},
}

var followingCmd = &cobra.Command{
	Use:   "following <username>",
	Short: "list every account a user follows",
	Run: func(c *cobra.Command, args []string) {
		runList(args, usecases.ListFollowing)
	},
}

func main() {
	rootCmd.AddCommand(statusCmd, followersCmd, followingCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// statusArgs accepts either a full status URL or username + tweet ID.
func statusArgs(args []string) (username, tweetID string) {
	switch len(args) {
	case 1:
		username, tweetID, err := web.ParseStatusURL(args[0])
		if err != nil {
			logrus.WithField("url", args[0]).Fatal("not a status url")
		}
		return username, tweetID
	case 2:
		return args[0], args[1]
	}
	logrus.Fatal("usage: crawl status <url> or crawl status <username> <tweet-id>")
	return "", ""
}

func runList(args []string, direction usecases.ListDirection) {
	if len(args) != 1 {
		logrus.Fatalf("usage: crawl %s <username>", direction)
	}
	withPool(func(ctx context.Context, pool *browser.Pool) error {
		users, err := usecases.NewListUsersUseCase(pool).Execute(ctx, args[0], direction)
		if err != nil {
			// Print what arrived before failing
			if len(users) > 0 {
				_ = printJSON(users)
			}
			return err
		}
		return printJSON(users)
	})
}

// withPool wires config, cookies and the browser pool around one crawl.
func withPool(fn func(ctx context.Context, pool *browser.Pool) error) {
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		logrus.WithError(err).Fatal("loading configuration")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	cookies, err := browser.CookiesFromEnv()
	if err != nil {
		logrus.WithError(err).Fatal("reading session cookies")
	}

	pool, err := browser.NewPool(cookies, browser.PoolOptions(cfg.Browser.Headless, cfg.Browser.ChromePath))
	if err != nil {
		logrus.WithError(err).Fatal("starting browser")
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.CrawlTimeout())
	defer cancel()

	if err := fn(ctx, pool); err != nil {
		logrus.WithError(err).Fatal("crawl failed")
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
