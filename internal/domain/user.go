package domain

import "time"

// TwitterUser represents a Twitter/X account profile.
type TwitterUser struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ScreenName  string `json:"screen_name"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description"`
	Protected   bool   `json:"protected"`
	Verified    bool   `json:"verified"`

	CreatedAt time.Time `json:"created_at"`

	// Entities holds urls found in the bio and website field.
	Entities UserEntities `json:"entities"`

	PinnedTweetIDs []int64 `json:"pinned_tweet_ids"`

	ProfileImageURL  string `json:"profile_image_url"`
	ProfileBannerURL string `json:"profile_banner_url,omitempty"`

	Statistics UserStatistics `json:"statistics"`

	// Relationship is viewer-relative and nil on unauthenticated crawls.
	Relationship *UserRelationship `json:"relationship,omitempty"`
}

// Handle returns the screen name prefixed with "@".
func (u *TwitterUser) Handle() string {
	return "@" + u.ScreenName
}

// UserStatistics bundles the public account counters.
type UserStatistics struct {
	Followers  int `json:"followers"`
	Following  int `json:"following"`
	Listed     int `json:"listed"`
	Favourites int `json:"favourites"`
	Statuses   int `json:"statuses"`
}

// UserRelationship holds the flags describing how the authenticated viewer
// relates to this account.
type UserRelationship struct {
	FollowedBy bool `json:"followed_by"`
	Following  bool `json:"following"`
	CanDM      bool `json:"can_dm"`
}

// UserEntities holds the entities extracted from a profile's bio and
// website field. Profile payloads carry only URL entities; bio mentions
// arrive as plain text.
type UserEntities struct {
	URLs []EntityURL `json:"urls,omitempty"`
}
