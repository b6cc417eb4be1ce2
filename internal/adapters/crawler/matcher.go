package crawler

import (
	"regexp"
	"sync"
)

// GraphQL operations the engine intercepts.
const (
	OpTweetDetail       = "TweetDetail"
	OpTweetResultByRest = "TweetResultByRestId"
	OpFollowers         = "Followers"
	OpFollowing         = "Following"
)

// guestPattern matches the API-subdomain endpoint used for
// guest-accessible tweet-by-id lookups.
var guestPattern = regexp.MustCompile(
	`^https?://api\.(?:twitter|x)\.com/graphql/[^/?#]+/TweetResultByRestId(?:\?.*)?$`,
)

var (
	patternMu sync.Mutex
	patterns  = map[string]*regexp.Regexp{}
)

// operationPattern compiles (once) the main-domain pattern for one
// operation: /i/api/graphql/<opaque-query-id>/<Operation>, optional query
// string ignored.
func operationPattern(operation string) *regexp.Regexp {
	patternMu.Lock()
	defer patternMu.Unlock()
	if re, ok := patterns[operation]; ok {
		return re
	}
	re := regexp.MustCompile(
		`^https?://(?:twitter|x)\.com/i/api/graphql/[^/?#]+/` +
			regexp.QuoteMeta(operation) + `(?:\?.*)?$`,
	)
	patterns[operation] = re
	return re
}

// MatchOperation reports whether rawURL is a GraphQL call for the named
// operation. The operation match is exact and case-sensitive; a URL that
// matches nothing yields false, never an error.
func MatchOperation(rawURL, operation string) bool {
	if operationPattern(operation).MatchString(rawURL) {
		return true
	}
	if operation == OpTweetResultByRest {
		return guestPattern.MatchString(rawURL)
	}
	return false
}
