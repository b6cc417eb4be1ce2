package browser

import (
	"context"
	"fmt"
	"os"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// cookieDomain covers both x.com and its subdomains.
const cookieDomain = ".x.com"

// Cookie is one browser session cookie to install before crawling.
type Cookie struct {
	Name  string
	Value string
}

// CookiesFromEnv reads the session cookies from the environment.
// AUTH_TOKEN and CT0 are required for an authenticated session;
// AUTH_MULTI is optional and only present on multi-account sessions.
func CookiesFromEnv() ([]Cookie, error) {
	authToken := os.Getenv("AUTH_TOKEN")
	ct0 := os.Getenv("CT0")
	if authToken == "" || ct0 == "" {
		return nil, fmt.Errorf("AUTH_TOKEN and CT0 must be set")
	}

	cookies := []Cookie{
		{Name: "auth_token", Value: authToken},
		{Name: "ct0", Value: ct0},
	}
	if authMulti := os.Getenv("AUTH_MULTI"); authMulti != "" {
		cookies = append(cookies, Cookie{Name: "auth_multi", Value: authMulti})
	}
	return cookies, nil
}

// InjectCookies installs the cookies into the tab's browser session.
func InjectCookies(tab context.Context, cookies []Cookie) error {
	if len(cookies) == 0 {
		return nil
	}
	return chromedp.Run(tab, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, c := range cookies {
			err := network.SetCookie(c.Name, c.Value).
				WithDomain(cookieDomain).
				WithPath("/").
				WithSecure(true).
				WithHTTPOnly(true).
				Do(ctx)
			if err != nil {
				return fmt.Errorf("setting cookie %s: %w", c.Name, err)
			}
		}
		return nil
	}))
}
