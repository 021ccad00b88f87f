package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	coreprofile "pantry-keeper/internal/core/profile"
	"pantry-keeper/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	profiles      map[string]coreprofile.Profile
	notifications map[string]coreprofile.NotificationSettings
	privacy       map[string]coreprofile.PrivacySettings
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:      make(map[string]coreprofile.Profile),
		notifications: make(map[string]coreprofile.NotificationSettings),
		privacy:       make(map[string]coreprofile.PrivacySettings),
	}
}

func (f *fakeStore) GetProfile(ctx context.Context, userID string) (*coreprofile.Profile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	return &profile, nil
}

func (f *fakeStore) SaveProfile(ctx context.Context, userID string, profile coreprofile.Profile) error {
	if err := coreprofile.ValidateProfile(profile); err != nil {
		return err
	}
	f.profiles[userID] = profile
	return nil
}

func (f *fakeStore) UpdateProfileImage(ctx context.Context, userID, imageURL string) error {
	profile, ok := f.profiles[userID]
	if !ok {
		return common.ErrUserNotFound
	}
	profile.ImageURL = imageURL
	f.profiles[userID] = profile
	return nil
}

func (f *fakeStore) SetCompletedRecipes(ctx context.Context, userID string, count int) error {
	profile, ok := f.profiles[userID]
	if !ok {
		return common.ErrUserNotFound
	}
	profile.CompletedRecipes = count
	f.profiles[userID] = profile
	return nil
}

func (f *fakeStore) IncrementCompletedRecipes(ctx context.Context, userID string) (int, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return 0, common.ErrUserNotFound
	}
	profile.CompletedRecipes++
	f.profiles[userID] = profile
	return profile.CompletedRecipes, nil
}

func (f *fakeStore) GetNotificationSettings(ctx context.Context, userID string) (coreprofile.NotificationSettings, error) {
	settings, ok := f.notifications[userID]
	if !ok {
		return coreprofile.DefaultNotificationSettings(), nil
	}
	return settings, nil
}

func (f *fakeStore) SaveNotificationSettings(ctx context.Context, userID string, settings coreprofile.NotificationSettings) error {
	f.notifications[userID] = settings
	return nil
}

func (f *fakeStore) GetPrivacySettings(ctx context.Context, userID string) (coreprofile.PrivacySettings, error) {
	settings, ok := f.privacy[userID]
	if !ok {
		return coreprofile.DefaultPrivacySettings(), nil
	}
	return settings, nil
}

func (f *fakeStore) SavePrivacySettings(ctx context.Context, userID string, settings coreprofile.PrivacySettings) error {
	f.privacy[userID] = settings
	return nil
}

func setupProfileRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(store)

	users := router.Group("/api/v1/users/:userID")
	users.GET("/profile", handler.Get)
	users.PUT("/profile", handler.Put)
	users.PUT("/profile/image", handler.PutImage)
	users.POST("/profile/completed-recipes", handler.CompleteRecipe)
	users.GET("/settings/notifications", handler.GetNotifications)
	users.PUT("/settings/notifications", handler.PutNotifications)
	users.GET("/settings/privacy", handler.GetPrivacy)
	users.PUT("/settings/privacy", handler.PutPrivacy)
	return router
}

func TestProfileRoundTrip(t *testing.T) {
	router := setupProfileRouter(newFakeStore())

	w := httptest.NewRecorder()
	body := `{"username":"ada","email":"ada@example.com","image_url":"https://img/ada.png"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/u1/profile", strings.NewReader(body))
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/u1/profile", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada@example.com")
}

func TestProfileNotFound(t *testing.T) {
	router := setupProfileRouter(newFakeStore())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/ghost/profile", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "USER_NOT_FOUND")
}

func TestProfileValidation(t *testing.T) {
	router := setupProfileRouter(newFakeStore())

	w := httptest.NewRecorder()
	body := `{"username":"","email":"ada@example.com"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/u1/profile", strings.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompleteRecipe(t *testing.T) {
	store := newFakeStore()
	store.profiles["u1"] = coreprofile.Profile{Username: "ada", Email: "ada@example.com", CompletedRecipes: 2}
	router := setupProfileRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/u1/profile/completed-recipes", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"completed_recipes":3`)
}

func TestCompleteRecipeSetsExplicitValue(t *testing.T) {
	store := newFakeStore()
	store.profiles["u1"] = coreprofile.Profile{Username: "ada", Email: "ada@example.com", CompletedRecipes: 2}
	router := setupProfileRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/u1/profile/completed-recipes", strings.NewReader(`{"value":10}`))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"completed_recipes":10`)
	assert.Equal(t, 10, store.profiles["u1"].CompletedRecipes)
}

func TestPutImage(t *testing.T) {
	store := newFakeStore()
	store.profiles["u1"] = coreprofile.Profile{Username: "ada", Email: "ada@example.com"}
	router := setupProfileRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/u1/profile/image", strings.NewReader(`{"image_url":"https://img/new.png"}`))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://img/new.png", store.profiles["u1"].ImageURL)
}

func TestPutImageRequiresURL(t *testing.T) {
	router := setupProfileRouter(newFakeStore())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/u1/profile/image", strings.NewReader(`{}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotificationSettingsDefaults(t *testing.T) {
	router := setupProfileRouter(newFakeStore())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/u1/settings/notifications", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"expiry_enabled":true`)
	assert.Contains(t, w.Body.String(), `"expiry_days":3`)
}

func TestPrivacySettingsRoundTrip(t *testing.T) {
	router := setupProfileRouter(newFakeStore())

	w := httptest.NewRecorder()
	body := `{"two_factor_enabled":true,"login_alerts_enabled":false,"data_sharing":true}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/u1/settings/privacy", strings.NewReader(body))
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/u1/settings/privacy", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"two_factor_enabled":true`)
}
