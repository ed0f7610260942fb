package domain

import (
	"net/url"
	"time"
)

// PlaceholderAvatarBase is the generated-avatar service used when upstream has no image
const PlaceholderAvatarBase = "https://ui-avatars.com/api/"

// ChannelStatus is the observed state of one broadcaster at a point in time.
// It is recomputed on every poll and replaced wholesale by the next one.
type ChannelStatus struct {
	Handle       string    `json:"handle"`
	DisplayName  string    `json:"display_name"`
	IsLive       bool      `json:"is_live"`
	ViewerCount  int       `json:"viewer_count"`
	PlaybackURL  string    `json:"playback_url,omitempty"`
	AvatarURL    string    `json:"avatar_url"`
	Title        string    `json:"title,omitempty"`
	Category     string    `json:"category,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Followers    int       `json:"followers"`
	FetchedAt    time.Time `json:"fetched_at"`
	// Degraded marks the retry-exhausted fallback. Settlement does not look at it.
	Degraded bool `json:"degraded,omitempty"`
}

// PlaceholderAvatar returns the deterministic generated avatar for a handle
func PlaceholderAvatar(handle string) string {
	return PlaceholderAvatarBase + "?name=" + url.QueryEscape(handle) + "&background=53FC18&color=000&size=300"
}

// OfflineStatus is the degraded value returned when upstream cannot be read
func OfflineStatus(handle string, now time.Time) ChannelStatus {
	return ChannelStatus{
		Handle:      handle,
		DisplayName: handle,
		AvatarURL:   PlaceholderAvatar(handle),
		FetchedAt:   now,
		Degraded:    true,
	}
}
