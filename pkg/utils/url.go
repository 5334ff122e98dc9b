package utils

import "regexp"

// videoURLPattern accepts the platform's canonical hosts (bare, www. or m.
// prefix) and the short-link domain, with or without a scheme.
var videoURLPattern = regexp.MustCompile(`^(?:https?://)?(?:(?:www\.|m\.)?youtube\.com|youtu\.be)/\S+$`)

// IsVideoURL reports whether s looks like a supported video URL. It is a
// fast pre-filter only; reachability is confirmed separately at submit time.
func IsVideoURL(s string) bool {
	return videoURLPattern.MatchString(s)
}
