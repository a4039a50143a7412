package feed

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bilgisen/technews/internal/logger"
	"github.com/bilgisen/technews/internal/models"
	"github.com/bilgisen/technews/internal/utils"
)

const (
	wikipediaBaseURL   = "https://en.wikipedia.org/api/rest_v1/page/summary"
	wikipediaSentences = 2
	wikipediaLabel     = "Wikipedia"
)

// DefaultWikipediaTopics are the encyclopedia pages summarized every run.
var DefaultWikipediaTopics = []string{
	"Artificial intelligence",
	"Machine learning",
	"Cloud computing",
	"Blockchain",
}

// WikipediaSource fetches short page summaries from the Wikipedia REST API.
type WikipediaSource struct {
	client  *resty.Client
	topics  []string
	baseURL string
	now     func() time.Time
}

type wikipediaSummary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

func NewWikipediaSource(client *resty.Client, topics []string) *WikipediaSource {
	if len(topics) == 0 {
		topics = DefaultWikipediaTopics
	}
	return &WikipediaSource{
		client:  client,
		topics:  topics,
		baseURL: wikipediaBaseURL,
		now:     time.Now,
	}
}

// WithBaseURL points the source at a different API host.
func (s *WikipediaSource) WithBaseURL(baseURL string) *WikipediaSource {
	s.baseURL = baseURL
	return s
}

func (s *WikipediaSource) Name() string { return "wikipedia" }

// Fetch summarizes every topic. A failing topic is skipped; the source only
// fails when ctx is done.
func (s *WikipediaSource) Fetch(ctx context.Context) ([]models.Article, error) {
	log := logger.Get()
	var articles []models.Article

	for _, topic := range s.topics {
		if err := ctx.Err(); err != nil {
			return articles, utils.ClassifyError("wikipedia", err)
		}

		article, err := s.fetchTopic(ctx, topic)
		if err != nil {
			log.Debug().
				Err(err).
				Str("topic", topic).
				Msg("Skipping Wikipedia topic")
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func (s *WikipediaSource) fetchTopic(ctx context.Context, topic string) (models.Article, error) {
	endpoint := fmt.Sprintf("%s/%s", s.baseURL, url.PathEscape(strings.ReplaceAll(topic, " ", "_")))

	var summary wikipediaSummary
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&summary).
		Get(endpoint)
	if err != nil {
		return models.Article{}, utils.ClassifyError("wikipedia request", err)
	}
	if err := utils.CheckStatus("wikipedia", resp); err != nil {
		return models.Article{}, err
	}
	if summary.Title == "" || summary.ContentURLs.Desktop.Page == "" {
		return models.Article{}, fmt.Errorf("wikipedia: incomplete summary for %q", topic)
	}

	return models.Article{
		Title:       "Wikipedia: " + summary.Title,
		Description: utils.FirstSentences(summary.Extract, wikipediaSentences),
		URL:         summary.ContentURLs.Desktop.Page,
		Source:      wikipediaLabel,
		PublishedAt: models.Timestamp(s.now()),
		SourceType:  models.SourceWikipedia,
	}, nil
}
