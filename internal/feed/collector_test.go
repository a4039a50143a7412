package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/technews/internal/models"
)

type stubSource struct {
	name     string
	articles []models.Article
	err      error
	panics   bool
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) Fetch(ctx context.Context) ([]models.Article, error) {
	if s.panics {
		panic("unexpected payload")
	}
	return s.articles, s.err
}

func TestCollectorAllSourcesFail(t *testing.T) {
	c := NewCollector(
		stubSource{name: "newsapi", err: errors.New("401 unauthorized")},
		stubSource{name: "wikipedia", err: context.DeadlineExceeded},
		stubSource{name: "rss", panics: true},
	)

	all := c.FetchAll(context.Background())
	assert.Empty(t, all)

	lists := c.FetchBySource(context.Background())
	assert.Len(t, lists, 3)
}

func TestCollectorKeepsHealthySources(t *testing.T) {
	good := at("kept", 3)
	good.Title = "  <b>Kept</b>   headline "
	good.Source = "Reuters"

	c := NewCollector(
		stubSource{name: "newsapi", articles: []models.Article{good, {Title: "[Removed]", URL: "https://removed.com", PublishedAt: good.PublishedAt}}},
		stubSource{name: "wikipedia", err: errors.New("down")},
		stubSource{name: "rss", articles: []models.Article{at("rss", 1), {Title: "no url", PublishedAt: good.PublishedAt}}},
	)

	lists := c.FetchBySource(context.Background())
	assert.Len(t, lists, 3)
	assert.Len(t, lists[0], 1)
	assert.Equal(t, "Kept headline", lists[0][0].Title)
	assert.Empty(t, lists[1])
	assert.Len(t, lists[2], 1)

	assert.Len(t, c.FetchAll(context.Background()), 2)
}

func TestCollectorKeepsArticleWithoutTimestampForMerge(t *testing.T) {
	undated := models.Article{Title: "Undated", URL: "https://example.com/undated", Source: "Wired"}

	c := NewCollector(stubSource{name: "newsapi", articles: []models.Article{at("dated", 2), undated}})

	lists := c.FetchBySource(context.Background())
	require.Len(t, lists, 1)
	require.Len(t, lists[0], 2)

	_, err := Merge(lists...)
	require.ErrorIs(t, err, ErrInvalidTimestamp)
	assert.ErrorContains(t, err, "missing published_at")
	assert.ErrorContains(t, err, "Undated")
}
