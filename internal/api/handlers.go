package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/technews/internal/logger"
	"github.com/bilgisen/technews/internal/middleware"
	"github.com/bilgisen/technews/internal/models"
	"github.com/bilgisen/technews/internal/newsletter"
	"github.com/bilgisen/technews/internal/storage"
)

const defaultPageSize = 20

// IssueStore reads delivered issue manifests.
type IssueStore interface {
	ListIssues(ctx context.Context, page, pageSize int) ([]*models.Issue, int, error)
	GetIssue(ctx context.Context, id string) (*models.Issue, error)
}

// RunTrigger starts and reports newsletter runs.
type RunTrigger interface {
	Start(timeout time.Duration) (string, error)
	Running() bool
	LastReport() (newsletter.Report, bool)
	ResetLedger(ctx context.Context) error
}

// IssuesQuery is the query string of GET /issues.
type IssuesQuery struct {
	Page     int `query:"page" validate:"omitempty,min=1"`
	PageSize int `query:"page_size" validate:"omitempty,min=1,max=100"`
}

type Handlers struct {
	issues IssueStore
	runs   RunTrigger
}

func NewHandlers(issues IssueStore, runs RunTrigger) *Handlers {
	return &Handlers{issues: issues, runs: runs}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"running": h.runs.Running(),
		"time":    time.Now().Format(time.RFC3339),
	})
}

// ListIssues handles GET /issues
func (h *Handlers) ListIssues(c *fiber.Ctx) error {
	q := middleware.QueryParams[IssuesQuery](c)
	page, pageSize := q.Page, q.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = defaultPageSize
	}

	issues, total, err := h.issues.ListIssues(c.UserContext(), page, pageSize)
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error listing issues")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list issues",
		})
	}

	return c.JSON(fiber.Map{
		"page":      page,
		"page_size": pageSize,
		"total":     total,
		"items":     issues,
	})
}

// GetIssue handles GET /issues/:id
func (h *Handlers) GetIssue(c *fiber.Ctx) error {
	id := c.Params("id")

	issue, err := h.issues.GetIssue(c.UserContext(), id)
	if errors.Is(err, storage.ErrIssueNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Issue not found",
		})
	}
	if err != nil {
		logger.Get().Error().Err(err).Str("id", id).Msg("Error getting issue")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get issue",
		})
	}

	return c.JSON(issue)
}

// LastRun handles GET /runs/last
func (h *Handlers) LastRun(c *fiber.Ctx) error {
	report, ok := h.runs.LastReport()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "No run has finished yet",
			"running": h.runs.Running(),
		})
	}

	return c.JSON(fiber.Map{
		"running": h.runs.Running(),
		"last":    report,
	})
}

// TriggerRun handles POST /admin/run
func (h *Handlers) TriggerRun(c *fiber.Ctx) error {
	log := logger.Get()

	runID, err := h.runs.Start(newsletter.DefaultRunTimeout)
	if errors.Is(err, newsletter.ErrRunInProgress) {
		log.Warn().Str("ip", c.IP()).Msg("Run requested while another is in progress")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		return err
	}

	log.Info().
		Str("run_id", runID).
		Str("ip", c.IP()).
		Dur("timeout", newsletter.DefaultRunTimeout).
		Msg("Background newsletter run started")

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "started",
		"run_id": runID,
	})
}

// ResetLedger handles DELETE /admin/ledger
func (h *Handlers) ResetLedger(c *fiber.Ctx) error {
	if err := h.runs.ResetLedger(c.UserContext()); err != nil {
		logger.Get().Error().Err(err).Msg("Error resetting delivery ledger")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reset delivery ledger",
		})
	}

	logger.Get().Info().Str("ip", c.IP()).Msg("Delivery ledger reset")
	return c.JSON(fiber.Map{
		"status": "reset",
	})
}
