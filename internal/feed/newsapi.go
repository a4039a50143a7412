package feed

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bilgisen/technews/internal/models"
	"github.com/bilgisen/technews/internal/utils"
)

const (
	newsAPIBaseURL  = "https://newsapi.org/v2"
	newsAPIQuery    = "technology OR artificial intelligence OR programming OR cybersecurity"
	newsAPIPageSize = 5
	newsAPIWindow   = 24 * time.Hour
)

// NewsAPISource queries the NewsAPI "everything" endpoint.
type NewsAPISource struct {
	client  *resty.Client
	apiKey  string
	baseURL string
	now     func() time.Time
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string  `json:"title"`
		Description *string `json:"description"`
		URL         string  `json:"url"`
		URLToImage  *string `json:"urlToImage"`
		PublishedAt string  `json:"publishedAt"`
	} `json:"articles"`
}

func NewNewsAPISource(client *resty.Client, apiKey string) *NewsAPISource {
	return &NewsAPISource{
		client:  client,
		apiKey:  apiKey,
		baseURL: newsAPIBaseURL,
		now:     time.Now,
	}
}

// WithBaseURL points the source at a different API host.
func (s *NewsAPISource) WithBaseURL(baseURL string) *NewsAPISource {
	s.baseURL = baseURL
	return s
}

func (s *NewsAPISource) Name() string { return "newsapi" }

// Fetch returns the most relevant tech articles from the last 24 hours.
func (s *NewsAPISource) Fetch(ctx context.Context) ([]models.Article, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("newsapi: no API key configured")
	}

	from := s.now().UTC().Add(-newsAPIWindow)

	var body newsAPIResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", s.apiKey).
		SetQueryParams(map[string]string{
			"q":        newsAPIQuery,
			"language": "en",
			"from":     from.Format(time.RFC3339),
			"sortBy":   "relevancy",
			"pageSize": strconv.Itoa(newsAPIPageSize),
		}).
		SetResult(&body).
		SetError(&body).
		Get(s.baseURL + "/everything")
	if err != nil {
		return nil, utils.ClassifyError("newsapi request", err)
	}

	if body.Status == "error" {
		return nil, fmt.Errorf("newsapi error %s: %s", body.Code, body.Message)
	}
	if err := utils.CheckStatus("newsapi", resp); err != nil {
		return nil, err
	}

	articles := make([]models.Article, 0, len(body.Articles))
	for _, a := range body.Articles {
		articles = append(articles, models.Article{
			Title:       a.Title,
			Description: deref(a.Description),
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
			ImageURL:    deref(a.URLToImage),
			SourceType:  models.SourceNews,
		})
	}
	return articles, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
