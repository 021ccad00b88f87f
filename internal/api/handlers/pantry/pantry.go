package pantry

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"pantry-keeper/internal/api/handlers/respond"
	corepantry "pantry-keeper/internal/core/pantry"
	"pantry-keeper/internal/infrastructure/config"
	"pantry-keeper/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Store is the slice of the pantry store the handlers need.
type Store interface {
	AddItem(ctx context.Context, userID string, item corepantry.Item) (string, error)
	UpdateItem(ctx context.Context, userID string, item corepantry.Item) error
	DeleteItem(ctx context.Context, userID, itemID string) error
	ListItems(ctx context.Context, userID string) ([]corepantry.Item, []error, error)
	ListExpiring(ctx context.Context, userID string, windowDays int, ref time.Time) ([]corepantry.Item, error)
	ListByCategory(ctx context.Context, userID, categoryID string) ([]corepantry.Item, error)
	Watch(ctx context.Context, userID string) (<-chan []corepantry.Item, <-chan error)
}

// ItemView is an item enriched with expiry presentation fields.
type ItemView struct {
	corepantry.Item
	DaysUntilExpiry *int   `json:"days_until_expiry,omitempty"`
	ExpiryLabel     string `json:"expiry_label,omitempty"`
	Urgency         string `json:"urgency"`
}

// Handler serves the pantry endpoints.
type Handler struct {
	store        Store
	expiryWindow int
}

// NewHandler wires the pantry endpoints.
func NewHandler(store Store, cfg *config.RecommendConfig) *Handler {
	return &Handler{store: store, expiryWindow: cfg.ExpiryWindowDays}
}

func toView(item corepantry.Item, now time.Time) ItemView {
	view := ItemView{
		Item:        item,
		ExpiryLabel: corepantry.ExpiryLabel(item, now),
		Urgency:     corepantry.UrgencyOf(item, now).String(),
	}
	if days, ok := corepantry.DaysUntilExpiry(item.ExpiryDate, now); ok {
		view.DaysUntilExpiry = &days
	}
	return view
}

func toViews(items []corepantry.Item) []ItemView {
	now := time.Now()
	views := make([]ItemView, len(items))
	for i, item := range items {
		views[i] = toView(item, now)
	}
	return views
}

// List returns the user's pantry, optionally narrowed to one category.
func (h *Handler) List(c *gin.Context) {
	userID := c.Param("userID")

	var items []corepantry.Item
	var decodeErrs []error
	var err error

	if categoryID := c.Query("category"); categoryID != "" {
		items, err = h.store.ListByCategory(c.Request.Context(), userID, categoryID)
	} else {
		items, decodeErrs, err = h.store.ListItems(c.Request.Context(), userID)
	}
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":   toViews(items),
		"skipped": len(decodeErrs),
	})
}

// Add creates a pantry item and returns its identity.
func (h *Handler) Add(c *gin.Context) {
	userID := c.Param("userID")

	var item corepantry.Item
	if err := common.DecodeJSON(c.Request.Body, &item); err != nil {
		respond.Error(c, common.NewValidationError("invalid item payload"))
		return
	}

	itemID, err := h.store.AddItem(c.Request.Context(), userID, item)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": itemID})
}

// Update overwrites one pantry item.
func (h *Handler) Update(c *gin.Context) {
	userID := c.Param("userID")

	var item corepantry.Item
	if err := common.DecodeJSON(c.Request.Body, &item); err != nil {
		respond.Error(c, common.NewValidationError("invalid item payload"))
		return
	}
	item.ID = c.Param("itemID")

	if err := h.store.UpdateItem(c.Request.Context(), userID, item); err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": item.ID})
}

// Delete removes one pantry item.
func (h *Handler) Delete(c *gin.Context) {
	userID := c.Param("userID")
	itemID := c.Param("itemID")

	if err := h.store.DeleteItem(c.Request.Context(), userID, itemID); err != nil {
		respond.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Expiring returns items inside the expiry window. An explicit window query
// parameter overrides the configured one.
func (h *Handler) Expiring(c *gin.Context) {
	userID := c.Param("userID")

	window := h.expiryWindow
	if raw := c.Query("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respond.Error(c, common.NewValidationError("window must be a non-negative integer"))
			return
		}
		window = parsed
	}

	items, err := h.store.ListExpiring(c.Request.Context(), userID, window, time.Now())
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  toViews(items),
		"window": window,
	})
}

// Stream pushes the full pantry as a server-sent event on every change.
func (h *Handler) Stream(c *gin.Context) {
	userID := c.Param("userID")

	snapshots, errs := h.store.Watch(c.Request.Context(), userID)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case items, ok := <-snapshots:
			if !ok {
				return false
			}
			c.SSEvent("pantry", gin.H{"items": toViews(items)})
			return true
		case err, ok := <-errs:
			if !ok {
				return false
			}
			common.LogError("pantry stream terminated",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			c.SSEvent("error", gin.H{"error": err.Error()})
			return false
		}
	})
}
