package crawler

import "testing"

func TestMatchOperation_MainDomain(t *testing.T) {
	cases := []struct {
		url       string
		operation string
		want      bool
	}{
		{"https://x.com/i/api/graphql/xd_EMdYvB9hfZsZ6Idri0w/TweetDetail", OpTweetDetail, true},
		{"https://twitter.com/i/api/graphql/xd_EMdYvB9hfZsZ6Idri0w/TweetDetail", OpTweetDetail, true},
		{"https://x.com/i/api/graphql/abc123/TweetDetail?variables=%7B%7D", OpTweetDetail, true},
		{"https://x.com/i/api/graphql/abc123/Followers", OpFollowers, true},
		{"https://x.com/i/api/graphql/abc123/Following", OpFollowing, true},

		// Operation names never match as prefixes or case variants.
		{"https://x.com/i/api/graphql/abc123/TweetDetailExtra", OpTweetDetail, false},
		{"https://x.com/i/api/graphql/abc123/tweetdetail", OpTweetDetail, false},
		{"https://x.com/i/api/graphql/abc123/Followers", OpFollowing, false},

		// Wrong path shape or host.
		{"https://x.com/graphql/abc123/TweetDetail", OpTweetDetail, false},
		{"https://evil.example/i/api/graphql/abc123/TweetDetail", OpTweetDetail, false},
		{"not a url", OpTweetDetail, false},
		{"", OpTweetDetail, false},
	}

	for _, tc := range cases {
		if got := MatchOperation(tc.url, tc.operation); got != tc.want {
			t.Errorf("MatchOperation(%q, %q): got %v, want %v", tc.url, tc.operation, got, tc.want)
		}
	}
}

func TestMatchOperation_GuestEndpoint(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://api.x.com/graphql/abc123/TweetResultByRestId?variables=%7B%7D", true},
		{"https://api.twitter.com/graphql/abc123/TweetResultByRestId", true},
		{"https://x.com/i/api/graphql/abc123/TweetResultByRestId", true},
		{"https://api.x.com/graphql/abc123/TweetDetail", false},
	}

	for _, tc := range cases {
		if got := MatchOperation(tc.url, OpTweetResultByRest); got != tc.want {
			t.Errorf("MatchOperation(%q, TweetResultByRestId): got %v, want %v", tc.url, got, tc.want)
		}
	}
}
