package graphql

import (
	"encoding/json"
	"time"

	"github.com/Sibuxiangx/tweet-crawler/internal/domain"
)

// userResult is the polymorphic user node. Newer schema generations move
// fields out of the legacy bag into sibling maps (core, avatar,
// verification, privacy, relationship_perspectives); older payloads only
// carry legacy. Construction probes the new location first and falls back.
type userResult struct {
	TypeName string `json:"__typename"`
	RestID   string `json:"rest_id"`
	Core     *struct {
		CreatedAt  string `json:"created_at"`
		Name       string `json:"name"`
		ScreenName string `json:"screen_name"`
	} `json:"core"`
	Avatar *struct {
		ImageURL string `json:"image_url"`
	} `json:"avatar"`
	Banner *struct {
		ImageURL string `json:"image_url"`
	} `json:"banner"`
	Verification *struct {
		Verified bool `json:"verified"`
	} `json:"verification"`
	Privacy *struct {
		Protected bool `json:"protected"`
	} `json:"privacy"`
	Location *struct {
		Location string `json:"location"`
	} `json:"location"`
	RelationshipPerspectives *struct {
		FollowedBy *bool `json:"followed_by"`
		Following  *bool `json:"following"`
	} `json:"relationship_perspectives"`
	DMPermissions *struct {
		CanDM *bool `json:"can_dm"`
	} `json:"dm_permissions"`
	IsBlueVerified bool       `json:"is_blue_verified"`
	Legacy         userLegacy `json:"legacy"`
}

type userLegacy struct {
	Name              string   `json:"name"`
	ScreenName        string   `json:"screen_name"`
	CreatedAt         string   `json:"created_at"`
	Location          string   `json:"location"`
	Description       string   `json:"description"`
	Protected         bool     `json:"protected"`
	Verified          bool     `json:"verified"`
	FollowedBy        *bool    `json:"followed_by"`
	Following         *bool    `json:"following"`
	CanDM             *bool    `json:"can_dm"`
	FollowersCount    int      `json:"followers_count"`
	FriendsCount      int      `json:"friends_count"`
	ListedCount       int      `json:"listed_count"`
	FavouritesCount   int      `json:"favourites_count"`
	StatusesCount     int      `json:"statuses_count"`
	PinnedTweetIDsStr []string `json:"pinned_tweet_ids_str"`
	ProfileImageURL   string   `json:"profile_image_url_https"`
	ProfileBannerURL  string   `json:"profile_banner_url"`
	Entities          struct {
		Description struct {
			URLs []rawURL `json:"urls"`
		} `json:"description"`
		URL struct {
			URLs []rawURL `json:"urls"`
		} `json:"url"`
	} `json:"entities"`
}

// firstNonEmpty implements the ordered field-resolution strategy: probe
// candidate locations in order, newest first.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// requireField resolves a required attribute; an empty result is a
// structural failure, never silently defaulted.
func requireField(name string, candidates ...string) (string, error) {
	if v := firstNonEmpty(candidates...); v != "" {
		return v, nil
	}
	return "", domain.NewStructuralParseError("User", "missing required field %s", name)
}

// ParseUserResult builds a TwitterUser from a raw user node.
func ParseUserResult(raw json.RawMessage) (*domain.TwitterUser, error) {
	var r userResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, domain.NewStructuralParseError("User", "decode user node: %w", err)
	}
	if r.TypeName == "UserUnavailable" {
		return nil, domain.NewStructuralParseError("User", "user unavailable")
	}

	id, err := parseID(r.RestID)
	if err != nil {
		return nil, domain.NewStructuralParseError("User", "missing rest_id")
	}

	var coreName, coreScreenName, coreCreatedAt string
	if r.Core != nil {
		coreName, coreScreenName, coreCreatedAt = r.Core.Name, r.Core.ScreenName, r.Core.CreatedAt
	}
	name, err := requireField("name", coreName, r.Legacy.Name)
	if err != nil {
		return nil, err
	}
	screenName, err := requireField("screen_name", coreScreenName, r.Legacy.ScreenName)
	if err != nil {
		return nil, err
	}
	createdAtRaw, err := requireField("created_at", coreCreatedAt, r.Legacy.CreatedAt)
	if err != nil {
		return nil, err
	}
	createdAt, err := time.Parse(createdAtLayout, createdAtRaw)
	if err != nil {
		return nil, domain.NewStructuralParseError("User", "created_at %q: %w", createdAtRaw, err)
	}

	user := &domain.TwitterUser{
		ID:          id,
		Name:        name,
		ScreenName:  screenName,
		Description: r.Legacy.Description,
		CreatedAt:   createdAt,
		Statistics: domain.UserStatistics{
			Followers:  r.Legacy.FollowersCount,
			Following:  r.Legacy.FriendsCount,
			Listed:     r.Legacy.ListedCount,
			Favourites: r.Legacy.FavouritesCount,
			Statuses:   r.Legacy.StatusesCount,
		},
	}

	if r.Location != nil {
		user.Location = r.Location.Location
	} else {
		user.Location = r.Legacy.Location
	}
	if r.Privacy != nil {
		user.Protected = r.Privacy.Protected
	} else {
		user.Protected = r.Legacy.Protected
	}
	if r.Verification != nil {
		user.Verified = r.Verification.Verified || r.IsBlueVerified
	} else {
		user.Verified = r.Legacy.Verified || r.IsBlueVerified
	}

	var avatarURL, bannerURL string
	if r.Avatar != nil {
		avatarURL = r.Avatar.ImageURL
	}
	if r.Banner != nil {
		bannerURL = r.Banner.ImageURL
	}
	user.ProfileImageURL = firstNonEmpty(avatarURL, r.Legacy.ProfileImageURL)
	user.ProfileBannerURL = firstNonEmpty(bannerURL, r.Legacy.ProfileBannerURL)

	for _, pinned := range r.Legacy.PinnedTweetIDsStr {
		pid, err := parseID(pinned)
		if err != nil {
			return nil, domain.NewStructuralParseError("User", "pinned tweet id %q", pinned)
		}
		user.PinnedTweetIDs = append(user.PinnedTweetIDs, pid)
	}

	user.Entities = parseUserEntities(r.Legacy)
	user.Relationship = parseRelationship(r)

	return user, nil
}

// parseRelationship assembles the viewer-relative flags. They exist only
// on authenticated crawls; when no location carries them the result is
// nil, matching the "absent" contract.
func parseRelationship(r userResult) *domain.UserRelationship {
	followedBy := r.Legacy.FollowedBy
	following := r.Legacy.Following
	canDM := r.Legacy.CanDM
	if r.RelationshipPerspectives != nil {
		if r.RelationshipPerspectives.FollowedBy != nil {
			followedBy = r.RelationshipPerspectives.FollowedBy
		}
		if r.RelationshipPerspectives.Following != nil {
			following = r.RelationshipPerspectives.Following
		}
	}
	if r.DMPermissions != nil && r.DMPermissions.CanDM != nil {
		canDM = r.DMPermissions.CanDM
	}
	if followedBy == nil && following == nil && canDM == nil {
		return nil
	}
	rel := &domain.UserRelationship{}
	if followedBy != nil {
		rel.FollowedBy = *followedBy
	}
	if following != nil {
		rel.Following = *following
	}
	if canDM != nil {
		rel.CanDM = *canDM
	}
	return rel
}

func parseUserEntities(legacy userLegacy) domain.UserEntities {
	var ents domain.UserEntities
	for _, u := range legacy.Entities.Description.URLs {
		ents.URLs = append(ents.URLs, domain.EntityURL{
			Indices:     toIndices(u.Indices),
			URL:         u.URL,
			DisplayURL:  u.DisplayURL,
			ExpandedURL: u.ExpandedURL,
		})
	}
	for _, u := range legacy.Entities.URL.URLs {
		ents.URLs = append(ents.URLs, domain.EntityURL{
			Indices:     toIndices(u.Indices),
			URL:         u.URL,
			DisplayURL:  u.DisplayURL,
			ExpandedURL: u.ExpandedURL,
		})
	}
	return ents
}
