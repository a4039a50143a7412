package feed

import (
	"context"
	"errors"
	"time"

	"github.com/bilgisen/technews/internal/logger"
	"github.com/bilgisen/technews/internal/models"
)

// Source is one external content provider.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]models.Article, error)
}

// Collector queries every source in turn and normalizes the results.
type Collector struct {
	sources []Source
	parser  *Parser
}

func NewCollector(sources ...Source) *Collector {
	return &Collector{
		sources: sources,
		parser:  NewParser(),
	}
}

// FetchBySource returns one list per source, in source order. A failing
// source yields an empty list and a warning; this never fails.
func (c *Collector) FetchBySource(ctx context.Context) [][]models.Article {
	log := logger.Get()
	lists := make([][]models.Article, 0, len(c.sources))

	for _, src := range c.sources {
		start := time.Now()
		items, err := c.fetch(ctx, src)
		if err != nil {
			log.Warn().
				Err(err).
				Str("source", src.Name()).
				Dur("duration", time.Since(start)).
				Msg("Source fetch failed, continuing without it")
			lists = append(lists, nil)
			continue
		}

		valid := c.normalize(src.Name(), items)
		log.Info().
			Str("source", src.Name()).
			Int("fetched", len(items)).
			Int("valid", len(valid)).
			Dur("duration", time.Since(start)).
			Msg("Fetched articles")
		lists = append(lists, valid)
	}

	return lists
}

// FetchAll concatenates the per-source lists without reordering.
func (c *Collector) FetchAll(ctx context.Context) []models.Article {
	var all []models.Article
	for _, list := range c.FetchBySource(ctx) {
		all = append(all, list...)
	}
	return all
}

// fetch shields the run from a misbehaving source implementation.
func (c *Collector) fetch(ctx context.Context, src Source) (items []models.Article, err error) {
	defer func() {
		if r := recover(); r != nil {
			items = nil
			err = errors.New("source panicked")
			logger.Get().Error().Interface("panic", r).Str("source", src.Name()).Msg("Recovered from source panic")
		}
	}()
	return src.Fetch(ctx)
}

func (c *Collector) normalize(source string, items []models.Article) []models.Article {
	valid := make([]models.Article, 0, len(items))
	for _, item := range items {
		normalized := c.parser.NormalizeArticle(item)
		if err := c.parser.ValidateArticle(normalized); err != nil {
			logger.Get().Warn().
				Err(err).
				Str("source", source).
				Str("title", item.Title).
				Str("url", item.URL).
				Msg("Dropping invalid article")
			continue
		}
		valid = append(valid, normalized)
	}
	return valid
}
