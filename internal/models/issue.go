package models

import "time"

// Issue records one delivered newsletter.
type Issue struct {
	ID         string         `json:"id"`
	Date       string         `json:"date"`
	DeckFile   string         `json:"deck_file"`
	ArchiveKey string         `json:"archive_key,omitempty"`
	Recipients int            `json:"recipients"`
	Articles   []IssueArticle `json:"articles"`
	SentAt     time.Time      `json:"sent_at"`
	FilePath   string         `json:"-"`
}

// IssueArticle is the part of an Article worth keeping after delivery.
type IssueArticle struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}
