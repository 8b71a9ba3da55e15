package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"trendscout/internal/db"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// TrendHandler serves the persisted trend records.
type TrendHandler struct {
	db *db.DB
}

// NewTrendHandler creates a new trend handler.
func NewTrendHandler(database *db.DB) *TrendHandler {
	return &TrendHandler{db: database}
}

// List returns scored trends, optionally filtered by minimum score,
// source, and IP safety, ordered by score descending.
func (h *TrendHandler) List(c fiber.Ctx) error {
	minScore := 0
	if v := c.Query("min_score", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 10 {
			return jsonError(c, fiber.StatusBadRequest, "min_score must be an integer between 0 and 10")
		}
		minScore = n
	}

	var ipSafe *bool
	if v := c.Query("ip_safe", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "ip_safe must be a boolean")
		}
		ipSafe = &b
	}

	limit := defaultListLimit
	if v := c.Query("limit", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return jsonError(c, fiber.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	trends, err := h.db.ListTrends(c.Context(), minScore, c.Query("source", ""), ipSafe, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch trends")
	}

	return jsonSuccess(c, trends)
}

// Get returns a single trend with its full analysis by ID.
func (h *TrendHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid trend id")
	}

	trend, err := h.db.GetTrendByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrTrendNotFound) {
			return jsonError(c, fiber.StatusNotFound, "trend not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch trend")
	}

	return jsonSuccess(c, trend)
}

// DeleteAll wipes every trend record, resetting state before a fresh
// pipeline epoch.
func (h *TrendHandler) DeleteAll(c fiber.Ctx) error {
	count, err := h.db.DeleteAllTrends(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete trends")
	}

	return jsonSuccess(c, fiber.Map{"deleted": count})
}
