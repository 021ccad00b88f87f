package profile

import (
	"context"
	"net/http"

	"pantry-keeper/internal/api/handlers/respond"
	coreprofile "pantry-keeper/internal/core/profile"
	"pantry-keeper/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Store is the slice of the profile store the handlers need.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*coreprofile.Profile, error)
	SaveProfile(ctx context.Context, userID string, profile coreprofile.Profile) error
	UpdateProfileImage(ctx context.Context, userID, imageURL string) error
	SetCompletedRecipes(ctx context.Context, userID string, count int) error
	IncrementCompletedRecipes(ctx context.Context, userID string) (int, error)
	GetNotificationSettings(ctx context.Context, userID string) (coreprofile.NotificationSettings, error)
	SaveNotificationSettings(ctx context.Context, userID string, settings coreprofile.NotificationSettings) error
	GetPrivacySettings(ctx context.Context, userID string) (coreprofile.PrivacySettings, error)
	SavePrivacySettings(ctx context.Context, userID string, settings coreprofile.PrivacySettings) error
}

// Handler serves the profile and settings endpoints.
type Handler struct {
	store Store
}

// NewHandler wires the profile endpoints.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Get returns the user's profile.
func (h *Handler) Get(c *gin.Context) {
	profile, err := h.store.GetProfile(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Put stores the user's profile.
func (h *Handler) Put(c *gin.Context) {
	var profile coreprofile.Profile
	if err := common.DecodeJSON(c.Request.Body, &profile); err != nil {
		respond.Error(c, common.NewValidationError("invalid profile payload"))
		return
	}

	if err := h.store.SaveProfile(c.Request.Context(), c.Param("userID"), profile); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// PutImage replaces the profile avatar URL.
func (h *Handler) PutImage(c *gin.Context) {
	var payload struct {
		ImageURL string `json:"image_url"`
	}
	if err := common.DecodeJSON(c.Request.Body, &payload); err != nil || payload.ImageURL == "" {
		respond.Error(c, common.NewValidationError("image_url is required"))
		return
	}

	if err := h.store.UpdateProfileImage(c.Request.Context(), c.Param("userID"), payload.ImageURL); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": payload.ImageURL})
}

// CompleteRecipe bumps the completed-recipe counter, or sets it outright
// when the request carries an explicit value.
func (h *Handler) CompleteRecipe(c *gin.Context) {
	userID := c.Param("userID")

	if c.Request.ContentLength > 0 {
		var payload struct {
			Value *int `json:"value"`
		}
		if err := common.DecodeJSON(c.Request.Body, &payload); err != nil || payload.Value == nil {
			respond.Error(c, common.NewValidationError("invalid counter payload"))
			return
		}
		if err := h.store.SetCompletedRecipes(c.Request.Context(), userID, *payload.Value); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"completed_recipes": *payload.Value})
		return
	}

	total, err := h.store.IncrementCompletedRecipes(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed_recipes": total})
}

// GetNotifications returns the user's notification settings.
func (h *Handler) GetNotifications(c *gin.Context) {
	settings, err := h.store.GetNotificationSettings(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// PutNotifications stores the user's notification settings.
func (h *Handler) PutNotifications(c *gin.Context) {
	var settings coreprofile.NotificationSettings
	if err := common.DecodeJSON(c.Request.Body, &settings); err != nil {
		respond.Error(c, common.NewValidationError("invalid settings payload"))
		return
	}

	if err := h.store.SaveNotificationSettings(c.Request.Context(), c.Param("userID"), settings); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// GetPrivacy returns the user's privacy settings.
func (h *Handler) GetPrivacy(c *gin.Context) {
	settings, err := h.store.GetPrivacySettings(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// PutPrivacy stores the user's privacy settings.
func (h *Handler) PutPrivacy(c *gin.Context) {
	var settings coreprofile.PrivacySettings
	if err := common.DecodeJSON(c.Request.Body, &settings); err != nil {
		respond.Error(c, common.NewValidationError("invalid settings payload"))
		return
	}

	if err := h.store.SavePrivacySettings(c.Request.Context(), c.Param("userID"), settings); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
