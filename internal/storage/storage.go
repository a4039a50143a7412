package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bilgisen/technews/internal/models"
)

// ErrIssueNotFound is returned when no manifest matches an issue ID.
var ErrIssueNotFound = errors.New("issue not found")

const issuesDir = "issues"

// Storage owns the output directory: rendered decks and issue manifests.
type Storage struct {
	basePath string
	mu       sync.RWMutex
}

func NewStorage(basePath string) (*Storage, error) {
	if err := os.MkdirAll(filepath.Join(basePath, issuesDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &Storage{
		basePath: basePath,
	}, nil
}

// BasePath is the directory decks are rendered into.
func (s *Storage) BasePath() string {
	return s.basePath
}

// RemoveDeck deletes a rendered deck. A missing file is not an error.
func (s *Storage) RemoveDeck(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove deck: %w", err)
	}
	return nil
}

// SaveIssue writes the manifest under issues/YYYY/MM/DD/<id>.json.
func (s *Storage) SaveIssue(ctx context.Context, issue *models.Issue) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	datePath := filepath.Join(s.basePath, issuesDir, issue.SentAt.UTC().Format("2006/01/02"))
	if err := os.MkdirAll(datePath, 0755); err != nil {
		return fmt.Errorf("failed to create date directory: %w", err)
	}

	data, err := json.MarshalIndent(issue, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal issue: %w", err)
	}

	filePath := filepath.Join(datePath, issue.ID+".json")
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write issue file: %w", err)
	}

	issue.FilePath = filePath
	return nil
}

// GetIssue loads the manifest with the given ID.
func (s *Storage) GetIssue(ctx context.Context, id string) (*models.Issue, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.manifestFiles()
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		if filepath.Base(file) == id+".json" {
			return readIssue(file)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrIssueNotFound, id)
}

// ListIssues returns one page of manifests, newest first. Pages start at 1.
func (s *Storage) ListIssues(ctx context.Context, page, pageSize int) ([]*models.Issue, int, error) {
	select {
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.manifestFiles()
	if err != nil {
		return nil, 0, err
	}

	issues := make([]*models.Issue, 0, len(files))
	for _, file := range files {
		issue, err := readIssue(file)
		if err != nil {
			return nil, 0, err
		}
		issues = append(issues, issue)
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].SentAt.After(issues[j].SentAt)
	})

	total := len(issues)
	if page < 1 || pageSize < 1 {
		return []*models.Issue{}, total, nil
	}

	start := (page - 1) * pageSize
	if start >= total {
		return []*models.Issue{}, total, nil
	}

	end := start + pageSize
	if end > total {
		end = total
	}

	return issues[start:end], total, nil
}

func (s *Storage) manifestFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(filepath.Join(s.basePath, issuesDir), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking the path: %w", err)
	}
	return files, nil
}

func readIssue(path string) (*models.Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}

	var issue models.Issue
	if err := json.Unmarshal(data, &issue); err != nil {
		return nil, fmt.Errorf("error unmarshaling issue %s: %w", path, err)
	}

	issue.FilePath = path
	return &issue, nil
}
