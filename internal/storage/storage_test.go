package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/technews/internal/models"
)

func newIssue(id string, sentAt time.Time) *models.Issue {
	return &models.Issue{
		ID:         id,
		Date:       sentAt.Format("20060102"),
		DeckFile:   "tech_news_" + sentAt.Format("20060102") + ".pdf",
		Recipients: 2,
		Articles: []models.IssueArticle{
			{Title: "Go 1.25 released", URL: "https://go.dev/blog", Source: "Go Blog"},
		},
		SentAt: sentAt,
	}
}

func TestSaveAndGetIssue(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewStorage(dir)
	require.NoError(t, err)

	issue := newIssue("abc", time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC))
	require.NoError(t, s.SaveIssue(ctx, issue))
	assert.Equal(t, filepath.Join(dir, "issues", "2024", "05", "01", "abc.json"), issue.FilePath)

	got, err := s.GetIssue(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "20240501", got.Date)
	assert.Equal(t, issue.Articles, got.Articles)
	assert.True(t, issue.SentAt.Equal(got.SentAt))

	_, err = s.GetIssue(ctx, "missing")
	assert.ErrorIs(t, err, ErrIssueNotFound)
}

func TestListIssuesNewestFirst(t *testing.T) {
	ctx := context.Background()
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	base := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	for i, id := range []string{"one", "two", "three"} {
		require.NoError(t, s.SaveIssue(ctx, newIssue(id, base.AddDate(0, 0, i))))
	}

	page, total, err := s.ListIssues(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "three", page[0].ID)
	assert.Equal(t, "two", page[1].ID)

	page, _, err = s.ListIssues(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "one", page[0].ID)

	page, _, err = s.ListIssues(ctx, 3, 2)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestListIssuesCancelled(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = s.ListIssues(ctx, 1, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRemoveDeck(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStorage(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "tech_news_20240501.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0644))

	require.NoError(t, s.RemoveDeck(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.RemoveDeck(path))
}
