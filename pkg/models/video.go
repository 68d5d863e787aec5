package models

import (
	"regexp"
	"strings"
)

const videoEmbedPrefix = "//www.youtube.com/embed/"

var videoURLPattern = regexp.MustCompile(`^.*(?:youtu\.be/|v/|u/\w/|embed/|watch\?v=)([^#&?]*).*`)

// SetVideoSource stores the YouTube id found in source (a URL or a bare id)
// into intro_video and returns the embed URL for the preview.
// An empty source clears the video.
func (c *Course) SetVideoSource(source string) string {
	source = strings.TrimSpace(source)
	if source == "" {
		c.Set(AttrIntroVideo, "")
		return ""
	}
	c.Set(AttrIntroVideo, ExtractVideoID(source))
	return c.VideoSourceSample()
}

// VideoSourceSample returns the embed URL for the stored intro video
func (c *Course) VideoSourceSample() string {
	if !c.Has(AttrIntroVideo) {
		return ""
	}
	return videoEmbedPrefix + c.String(AttrIntroVideo)
}

// ExtractVideoID pulls a YouTube id out of a URL, returning source unchanged
// when it does not look like one
func ExtractVideoID(source string) string {
	if m := videoURLPattern.FindStringSubmatch(source); m != nil && m[1] != "" {
		return m[1]
	}
	return source
}
