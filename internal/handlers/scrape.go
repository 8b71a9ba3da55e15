package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"trendscout/internal/jobstore"
	"trendscout/internal/models"
	"trendscout/internal/pipeline"
)

// ScrapeHandler exposes the pipeline in streaming, batch, and async-job
// invocation modes.
type ScrapeHandler struct {
	runner *pipeline.Runner
	jobs   *jobstore.Store
}

// NewScrapeHandler creates a new scrape handler. jobs may be nil when no
// Redis is configured; the async endpoints then report unavailability.
func NewScrapeHandler(runner *pipeline.Runner, jobs *jobstore.Store) *ScrapeHandler {
	return &ScrapeHandler{runner: runner, jobs: jobs}
}

// Stream runs the pipeline and streams progress as server-sent events.
// Disconnect is detected on flush failure and cancels the run at its next
// cancellation point; writes already committed stay intact.
func (h *ScrapeHandler) Stream(c fiber.Ctx) error {
	ctx, cancel := context.WithCancel(context.Background())
	progress := pipeline.NewProgressEmitter()

	go func() {
		if _, err := h.runner.Run(ctx, progress); err != nil && !errors.Is(err, pipeline.ErrRunInProgress) {
			log.Printf("[scrape] run failed: %v", err)
		}
	}()

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	return c.SendStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		for ev := range progress.Events() {
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data)
			if err := w.Flush(); err != nil {
				// Client disconnected. The pipeline notices the
				// cancelled context before its next analysis call.
				return
			}
		}
	})
}

// Batch runs the full pipeline synchronously and returns one summary,
// for cron-style callers that cannot hold a streaming connection.
func (h *ScrapeHandler) Batch(c fiber.Ctx) error {
	summary, err := h.runner.RunBatch(c.Context())
	if errors.Is(err, pipeline.ErrRunInProgress) {
		return jsonError(c, fiber.StatusConflict, err.Error())
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "pipeline run failed")
	}

	if summary.Status == "error" {
		return c.Status(fiber.StatusInternalServerError).JSON(summary)
	}
	return c.JSON(summary)
}

// CreateJob starts an async batch run and returns its job id. The result
// is stored in Redis with a TTL, addressable from any instance.
func (h *ScrapeHandler) CreateJob(c fiber.Ctx) error {
	if h.jobs == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "async jobs are not configured")
	}

	job, err := h.jobs.Create()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create job")
	}

	go func() {
		summary, err := h.runner.RunBatch(context.Background())
		if err != nil {
			summary = &models.RunSummary{Status: "error", Error: err.Error(), RunAt: time.Now()}
		}
		if err := h.jobs.Finish(job.ID, summary); err != nil {
			log.Printf("[scrape] failed to store job %s result: %v", job.ID, err)
		}
	}()

	return jsonSuccess(c, job)
}

// GetJob returns the status and, when finished, the summary of an async run.
func (h *ScrapeHandler) GetJob(c fiber.Ctx) error {
	if h.jobs == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "async jobs are not configured")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid job id")
	}

	job, err := h.jobs.Get(id)
	if err != nil {
		if errors.Is(err, jobstore.ErrJobNotFound) {
			return jsonError(c, fiber.StatusNotFound, "job not found or expired")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch job")
	}

	return jsonSuccess(c, job)
}
