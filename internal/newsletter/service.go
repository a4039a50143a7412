package newsletter

import (
	"context"
	"fmt"

	"github.com/bilgisen/technews/internal/ai"
	"github.com/bilgisen/technews/internal/archive"
	"github.com/bilgisen/technews/internal/cache"
	"github.com/bilgisen/technews/internal/config"
	"github.com/bilgisen/technews/internal/content"
	"github.com/bilgisen/technews/internal/deck"
	"github.com/bilgisen/technews/internal/feed"
	"github.com/bilgisen/technews/internal/mailer"
	"github.com/bilgisen/technews/internal/storage"
	"github.com/bilgisen/technews/internal/utils"
)

// Service is a Pipeline wired from configuration, plus the resources the
// entry points need to expose and release.
type Service struct {
	Pipeline *Pipeline
	Store    *storage.Storage
	ledger   cache.Ledger
}

// NewService builds every component from cfg. Sender and recipient settings
// are checked here, before any network call.
func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
	sender, err := mailer.NewSMTPSender(cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStorage(cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	pool, err := content.DefaultPool()
	if err != nil {
		return nil, fmt.Errorf("load content pool: %w", err)
	}

	archiver, err := archive.NewArchiver(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := utils.NewHTTPClient(cfg.HTTPTimeout, cfg.HTTPRetries)

	collector := feed.NewCollector(
		feed.NewNewsAPISource(client, cfg.NewsAPIKey),
		feed.NewWikipediaSource(client, feed.DefaultWikipediaTopics),
		feed.NewRSSSource(client, cfg.FeedURL),
	)
	generator := content.NewGenerator(ai.NewImageClient(client, cfg.OpenAIAPIKey), pool, pool)
	renderer := deck.NewRenderer(generator, deck.NewHTTPImageFetcher(client), store.BasePath())
	ledger := cache.NewLedger(cfg)

	pipeline := NewPipeline(Deps{
		Collector:  collector,
		Renderer:   renderer,
		Sender:     sender,
		Store:      store,
		Archiver:   archiver,
		Ledger:     ledger,
		Recipients: sender.Recipients(),
		LedgerTTL:  cfg.LedgerTTL,
	})

	return &Service{Pipeline: pipeline, Store: store, ledger: ledger}, nil
}

// Close releases the delivery ledger.
func (s *Service) Close() error {
	return s.ledger.Close()
}
