package models

import (
	"fmt"
	"time"
)

// SourceType tags where an article came from. Display only.
type SourceType string

const (
	SourceNews      SourceType = "news"
	SourceWikipedia SourceType = "wikipedia"
	SourceRSS       SourceType = "rss"
)

// Article is the normalized record every source produces.
type Article struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url"`
	Source      string     `json:"source"`
	PublishedAt string     `json:"published_at"`
	ImageURL    string     `json:"image_url,omitempty"`
	SourceType  SourceType `json:"source_type"`
}

// Published parses PublishedAt as an RFC 3339 timestamp.
func (a Article) Published() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, a.PublishedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse published_at %q: %w", a.PublishedAt, err)
	}
	return t, nil
}

// Timestamp formats t the way sources stamp PublishedAt.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
