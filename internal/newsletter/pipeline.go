// Package newsletter runs one issue end to end: collect, merge, render,
// send and clean up.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bilgisen/technews/internal/cache"
	"github.com/bilgisen/technews/internal/deck"
	"github.com/bilgisen/technews/internal/feed"
	"github.com/bilgisen/technews/internal/logger"
	"github.com/bilgisen/technews/internal/mailer"
	"github.com/bilgisen/technews/internal/models"
)

var (
	ErrNoArticles    = errors.New("no articles collected")
	ErrRunInProgress = errors.New("a newsletter run is already in progress")
)

// DefaultRunTimeout bounds a background run.
const DefaultRunTimeout = 30 * time.Minute

// State is a step of a run.
type State string

const (
	StateIdle       State = "idle"
	StateCollecting State = "collecting"
	StateRendering  State = "rendering"
	StateSending    State = "sending"
	StateCleaningUp State = "cleaning_up"
	StateDone       State = "done"
	StateAborted    State = "aborted"
	StateSkipped    State = "skipped"
)

// ArticleCollector returns one article list per source.
type ArticleCollector interface {
	FetchBySource(ctx context.Context) [][]models.Article
}

type DeckRenderer interface {
	Render(ctx context.Context, articles []models.Article) (string, error)
}

type DeckArchiver interface {
	Archive(ctx context.Context, deckPath string, day time.Time) (string, error)
}

type IssueStore interface {
	SaveIssue(ctx context.Context, issue *models.Issue) error
	RemoveDeck(path string) error
}

// Deps wires a Pipeline. Archiver and Ledger are optional.
type Deps struct {
	Collector  ArticleCollector
	Renderer   DeckRenderer
	Sender     mailer.Sender
	Store      IssueStore
	Archiver   DeckArchiver
	Ledger     cache.Ledger
	Recipients []string
	LedgerTTL  time.Duration
}

// Report summarizes a finished run.
type Report struct {
	ID         string    `json:"id"`
	State      State     `json:"state"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Articles   int       `json:"articles"`
	DeckFile   string    `json:"deck_file,omitempty"`
	ArchiveKey string    `json:"archive_key,omitempty"`
	// DeliveredIssue is set on skipped runs to the issue sent earlier.
	DeliveredIssue string `json:"delivered_issue,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Pipeline runs newsletter issues. At most one run is in flight at a time.
type Pipeline struct {
	deps    Deps
	now     func() time.Time
	running atomic.Bool

	mu   sync.RWMutex
	last *Report
}

func NewPipeline(deps Deps) *Pipeline {
	return &Pipeline{
		deps: deps,
		now:  time.Now,
	}
}

// Run executes one issue synchronously and returns its terminal state.
func (p *Pipeline) Run(ctx context.Context) (State, error) {
	if !p.running.CompareAndSwap(false, true) {
		return StateIdle, ErrRunInProgress
	}
	defer p.running.Store(false)

	return p.run(ctx, uuid.NewString())
}

// Start launches a run in the background with its own timeout and returns
// the run ID.
func (p *Pipeline) Start(timeout time.Duration) (string, error) {
	if !p.running.CompareAndSwap(false, true) {
		return "", ErrRunInProgress
	}

	id := uuid.NewString()
	go func() {
		defer p.running.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		p.run(ctx, id)
	}()
	return id, nil
}

// Running reports whether a run is in flight.
func (p *Pipeline) Running() bool {
	return p.running.Load()
}

// LastReport returns the report of the most recent finished run.
func (p *Pipeline) LastReport() (Report, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.last == nil {
		return Report{}, false
	}
	return *p.last, true
}

// ResetLedger forgets every recorded delivery so the next run sends again.
func (p *Pipeline) ResetLedger(ctx context.Context) error {
	if p.deps.Ledger == nil {
		return nil
	}
	if err := p.deps.Ledger.Clear(ctx); err != nil {
		return fmt.Errorf("reset delivery ledger: %w", err)
	}
	return nil
}

func (p *Pipeline) run(ctx context.Context, id string) (State, error) {
	log := logger.WithRun(id)
	started := p.now()
	report := &Report{ID: id, StartedAt: started}

	finish := func(state State, err error) (State, error) {
		report.State = state
		report.FinishedAt = p.now()
		if err != nil {
			report.Error = err.Error()
		}
		p.mu.Lock()
		p.last = report
		p.mu.Unlock()

		evt := log.Info()
		if state == StateAborted {
			evt = log.Error().Err(err)
		}
		evt.Str("state", string(state)).
			Dur("duration", report.FinishedAt.Sub(started)).
			Msg("Newsletter run finished")
		return state, err
	}

	ledgerKey := cache.LedgerKey(started, p.deps.Recipients)
	if issueID := p.deliveredIssue(ctx, log, ledgerKey); issueID != "" {
		report.DeliveredIssue = issueID
		log.Info().Str("issue_id", issueID).Msg("Today's issue was already delivered to these recipients")
		return finish(StateSkipped, nil)
	}

	log.Info().Str("state", string(StateCollecting)).Msg("Fetching articles")
	lists := p.deps.Collector.FetchBySource(ctx)
	articles, err := feed.Merge(lists...)
	if err != nil {
		return finish(StateAborted, fmt.Errorf("merge articles: %w", err))
	}
	if len(articles) == 0 {
		return finish(StateAborted, ErrNoArticles)
	}
	report.Articles = len(articles)
	log.Info().Int("articles", len(articles)).Msg("Articles collected")

	log.Info().Str("state", string(StateRendering)).Msg("Rendering deck")
	deckPath, err := p.deps.Renderer.Render(ctx, articles)
	if err != nil {
		return finish(StateAborted, fmt.Errorf("render deck: %w", err))
	}
	report.DeckFile = filepath.Base(deckPath)

	log.Info().Str("state", string(StateSending)).Str("deck", deckPath).Msg("Sending newsletter")
	if err := p.deps.Sender.Send(ctx, deckPath); err != nil {
		log.Warn().Str("deck", deckPath).Msg("Delivery failed, deck left on disk")
		return finish(StateAborted, fmt.Errorf("send newsletter: %w", err))
	}

	report.ArchiveKey = p.afterDelivery(ctx, log, id, ledgerKey, deckPath, articles)

	log.Info().Str("state", string(StateCleaningUp)).Msg("Removing local deck")
	if err := p.deps.Store.RemoveDeck(deckPath); err != nil {
		return finish(StateAborted, fmt.Errorf("clean up deck: %w", err))
	}

	return finish(StateDone, nil)
}

// deliveredIssue returns the ID of the issue already sent under key, or "".
func (p *Pipeline) deliveredIssue(ctx context.Context, log *zerolog.Logger, key string) string {
	if p.deps.Ledger == nil {
		return ""
	}
	issueID, err := p.deps.Ledger.DeliveredIssue(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("Delivery ledger lookup failed, continuing")
		return ""
	}
	return issueID
}

// afterDelivery archives the deck, marks the ledger and writes the issue
// manifest. Failures are logged only.
func (p *Pipeline) afterDelivery(ctx context.Context, log *zerolog.Logger, id, ledgerKey, deckPath string, articles []models.Article) string {
	sentAt := p.now()

	var archiveKey string
	if p.deps.Archiver != nil {
		key, err := p.deps.Archiver.Archive(ctx, deckPath, sentAt)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to archive deck")
		}
		archiveKey = key
	}

	if p.deps.Ledger != nil {
		if err := p.deps.Ledger.RecordDelivery(ctx, ledgerKey, id, p.deps.LedgerTTL); err != nil {
			log.Warn().Err(err).Msg("Failed to record delivery")
		}
	}

	issue := &models.Issue{
		ID:         id,
		Date:       sentAt.Format("20060102"),
		DeckFile:   filepath.Base(deckPath),
		ArchiveKey: archiveKey,
		Recipients: len(p.deps.Recipients),
		Articles:   make([]models.IssueArticle, 0, len(articles)),
		SentAt:     sentAt.UTC(),
	}
	if len(articles) > deck.MaxArticleSlides {
		articles = articles[:deck.MaxArticleSlides]
	}
	for _, a := range articles {
		issue.Articles = append(issue.Articles, models.IssueArticle{Title: a.Title, URL: a.URL, Source: a.Source})
	}
	if err := p.deps.Store.SaveIssue(ctx, issue); err != nil {
		log.Warn().Err(err).Msg("Failed to save issue manifest")
	}

	return archiveKey
}
