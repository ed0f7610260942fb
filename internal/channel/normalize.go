package channel

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/osse101/ssbwatch/internal/domain"
)

// fieldPath addresses a value inside a decoded upstream document
type fieldPath []string

// Alias precedence tables. The first path holding a usable value wins.
var (
	avatarPaths = []fieldPath{
		{"user", "profile_pic"},
		{"user", "profilepic"},
		{"user", "avatar"},
		{"profilepic"},
	}
	displayNamePaths = []fieldPath{
		{"user", "username"},
		{"slug"},
	}
	playbackPaths = []fieldPath{
		{"playback_url"},
		{"livestream", "playback_url"},
	}
	followerPaths = []fieldPath{
		{"followers_count"},
		{"user", "followers_count"},
	}
	viewerPaths = []fieldPath{
		{"livestream", "viewer_count"},
		{"livestream", "viewers"},
	}
	titlePaths = []fieldPath{
		{"livestream", "session_title"},
	}
	thumbnailPaths = []fieldPath{
		{"livestream", "thumbnail", "url"},
		{"livestream", "thumbnail"},
	}
)

// HasUser reports whether the document carries the top-level user object
// every valid upstream shape has.
func HasUser(raw map[string]any) bool {
	_, ok := raw["user"].(map[string]any)
	return ok
}

// Normalize projects a raw upstream document onto a ChannelStatus.
// Live is derived only from a non-null livestream object; any is_live flag is ignored.
// Broadcast fields are zeroed when offline even if the payload carries stale values.
func Normalize(raw map[string]any, handle string) domain.ChannelStatus {
	status := domain.ChannelStatus{
		Handle:      handle,
		DisplayName: firstString(raw, displayNamePaths),
		AvatarURL:   firstString(raw, avatarPaths),
		Followers:   firstInt(raw, followerPaths),
	}
	if status.DisplayName == "" {
		status.DisplayName = handle
	}
	if status.AvatarURL == "" {
		status.AvatarURL = domain.PlaceholderAvatar(handle)
	}

	if _, live := raw["livestream"].(map[string]any); !live {
		return status
	}

	status.IsLive = true
	status.ViewerCount = firstInt(raw, viewerPaths)
	status.PlaybackURL = firstString(raw, playbackPaths)
	status.Title = firstString(raw, titlePaths)
	status.Category = firstCategory(raw)
	if thumb := firstString(raw, thumbnailPaths); thumb != "" {
		status.ThumbnailURL = strings.NewReplacer("{width}", ThumbnailWidth, "{height}", ThumbnailHeight).Replace(thumb)
	}
	return status
}

func lookup(raw map[string]any, path fieldPath) (any, bool) {
	var cur any = raw
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

func firstString(raw map[string]any, paths []fieldPath) string {
	for _, p := range paths {
		v, ok := lookup(raw, p)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// firstInt returns the first numeric value, clamped to zero
func firstInt(raw map[string]any, paths []fieldPath) int {
	for _, p := range paths {
		v, ok := lookup(raw, p)
		if !ok {
			continue
		}
		if n, ok := toInt(v); ok {
			return max(n, 0)
		}
	}
	return 0
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return clampInt(i), true
		}
		if f, err := n.Float64(); err == nil {
			return clampInt(int64(f)), true
		}
	case float64:
		return clampInt(int64(n)), true
	case int:
		return n, true
	case int64:
		return clampInt(n), true
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return clampInt(i), true
		}
	}
	return 0, false
}

func clampInt(i int64) int {
	if i > math.MaxInt32 {
		return math.MaxInt32
	}
	if i < math.MinInt32 {
		return math.MinInt32
	}
	return int(i)
}

func firstCategory(raw map[string]any) string {
	v, ok := lookup(raw, fieldPath{"livestream", "categories"})
	if !ok {
		return ""
	}
	cats, ok := v.([]any)
	if !ok || len(cats) == 0 {
		return ""
	}
	first, ok := cats[0].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := first["name"].(string)
	return name
}
