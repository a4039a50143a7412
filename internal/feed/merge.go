package feed

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bilgisen/technews/internal/models"
)

// ErrInvalidTimestamp is returned by Merge when an article's PublishedAt does
// not parse.
var ErrInvalidTimestamp = errors.New("invalid published_at timestamp")

// Merge concatenates the lists in order and sorts the result newest first.
// Articles with equal timestamps keep their input order. The inputs are not
// modified.
func Merge(lists ...[]models.Article) ([]models.Article, error) {
	type keyed struct {
		article models.Article
		at      time.Time
	}

	var all []keyed
	for _, list := range lists {
		for _, a := range list {
			if a.PublishedAt == "" {
				return nil, fmt.Errorf("%w: article %q (%s): missing published_at", ErrInvalidTimestamp, a.Title, a.Source)
			}
			at, err := a.Published()
			if err != nil {
				return nil, fmt.Errorf("%w: article %q (%s): %v", ErrInvalidTimestamp, a.Title, a.Source, err)
			}
			all = append(all, keyed{article: a, at: at})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].at.After(all[j].at)
	})

	merged := make([]models.Article, len(all))
	for i, k := range all {
		merged[i] = k.article
	}
	return merged, nil
}
