package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"

	"github.com/bilgisen/technews/internal/models"
	"github.com/bilgisen/technews/internal/utils"
)

const (
	rssEntryLimit = 5
	rssLabel      = "Times of India"
)

// RSSSource reads the first entries of a single RSS/Atom feed.
type RSSSource struct {
	client  *resty.Client
	feedURL string
	label   string
	parser  *Parser
	now     func() time.Time
}

func NewRSSSource(client *resty.Client, feedURL string) *RSSSource {
	return &RSSSource{
		client:  client,
		feedURL: feedURL,
		label:   rssLabel,
		parser:  NewParser(),
		now:     time.Now,
	}
}

func (s *RSSSource) Name() string { return "rss" }

// Fetch downloads and parses the feed. Titles and summaries are reduced to
// plain text.
func (s *RSSSource) Fetch(ctx context.Context) ([]models.Article, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8").
		Get(s.feedURL)
	if err != nil {
		return nil, utils.ClassifyError("rss request", err)
	}
	if err := utils.CheckStatus("rss", resp); err != nil {
		return nil, err
	}

	parsed, err := gofeed.NewParser().ParseString(resp.String())
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	entries := parsed.Items
	if len(entries) > rssEntryLimit {
		entries = entries[:rssEntryLimit]
	}

	articles := make([]models.Article, 0, len(entries))
	for _, entry := range entries {
		summary := entry.Description
		if summary == "" {
			summary = entry.Content
		}

		articles = append(articles, models.Article{
			Title:       s.parser.CleanHTML(entry.Title),
			Description: s.parser.CleanHTML(summary),
			URL:         extractLink(entry),
			Source:      s.label,
			PublishedAt: s.publishedAt(entry),
			ImageURL:    extractImage(entry),
			SourceType:  models.SourceRSS,
		})
	}
	return articles, nil
}

// publishedAt prefers the entry's own publish or update time and falls back
// to now when the feed carries none.
func (s *RSSSource) publishedAt(entry *gofeed.Item) string {
	switch {
	case entry.PublishedParsed != nil:
		return models.Timestamp(*entry.PublishedParsed)
	case entry.UpdatedParsed != nil:
		return models.Timestamp(*entry.UpdatedParsed)
	default:
		return models.Timestamp(s.now())
	}
}

func extractLink(entry *gofeed.Item) string {
	if entry.Link != "" {
		return entry.Link
	}
	if strings.HasPrefix(entry.GUID, "http") {
		return entry.GUID
	}
	return ""
}

func extractImage(entry *gofeed.Item) string {
	if entry.Image != nil && entry.Image.URL != "" {
		return entry.Image.URL
	}
	for _, enc := range entry.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}
