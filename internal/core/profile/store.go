package profile

import (
	"context"
	"fmt"
	"strconv"

	"pantry-keeper/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Profile is a user account record.
type Profile struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	ImageURL         string `json:"image_url"`
	CompletedRecipes int    `json:"completed_recipes"`
	CreatedAt        string `json:"created_at"`
}

// NotificationSettings controls what the user gets notified about.
type NotificationSettings struct {
	ExpiryEnabled   bool `json:"expiry_enabled"`
	ExpiryDays      int  `json:"expiry_days"`
	RecipeEnabled   bool `json:"recipe_enabled"`
	ShoppingEnabled bool `json:"shopping_enabled"`
}

// PrivacySettings controls account security preferences.
type PrivacySettings struct {
	TwoFactorEnabled   bool `json:"two_factor_enabled"`
	LoginAlertsEnabled bool `json:"login_alerts_enabled"`
	DataSharing        bool `json:"data_sharing"`
}

// DefaultNotificationSettings are applied until the user changes them.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		ExpiryEnabled:   true,
		ExpiryDays:      3,
		RecipeEnabled:   true,
		ShoppingEnabled: false,
	}
}

// DefaultPrivacySettings are applied until the user changes them.
func DefaultPrivacySettings() PrivacySettings {
	return PrivacySettings{
		TwoFactorEnabled:   false,
		LoginAlertsEnabled: true,
		DataSharing:        false,
	}
}

// Store persists profiles and settings as per-user hashes under
// users:{userID} and users:{userID}:settings:*.
type Store struct {
	client *redis.Client
}

// NewStore wires an existing redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func profileKey(userID string) string {
	return fmt.Sprintf("users:%s", userID)
}

func notificationKey(userID string) string {
	return fmt.Sprintf("users:%s:settings:notifications", userID)
}

func privacyKey(userID string) string {
	return fmt.Sprintf("users:%s:settings:privacy", userID)
}

// GetProfile loads a user profile.
func (s *Store) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	fields, err := s.client.HGetAll(ctx, profileKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	if len(fields) == 0 {
		return nil, common.ErrUserNotFound
	}
	profile := DecodeProfile(fields)
	return &profile, nil
}

// SaveProfile stores a profile. Writes are whole-record.
func (s *Store) SaveProfile(ctx context.Context, userID string, profile Profile) error {
	if err := ValidateProfile(profile); err != nil {
		return err
	}

	err := s.client.HSet(ctx, profileKey(userID), map[string]interface{}{
		"username":          profile.Username,
		"email":             profile.Email,
		"image_url":         profile.ImageURL,
		"completed_recipes": profile.CompletedRecipes,
		"created_at":        profile.CreatedAt,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}

	common.LogInfo("profile saved", zap.String("user_id", userID))
	return nil
}

// UpdateProfileImage replaces only the avatar URL.
func (s *Store) UpdateProfileImage(ctx context.Context, userID, imageURL string) error {
	exists, err := s.client.Exists(ctx, profileKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check profile: %w", err)
	}
	if exists == 0 {
		return common.ErrUserNotFound
	}

	if err := s.client.HSet(ctx, profileKey(userID), "image_url", imageURL).Err(); err != nil {
		return fmt.Errorf("failed to update profile image: %w", err)
	}
	return nil
}

// SetCompletedRecipes overwrites the completed-recipe counter.
func (s *Store) SetCompletedRecipes(ctx context.Context, userID string, count int) error {
	if count < 0 {
		return common.NewValidationError("completed recipe count cannot be negative")
	}

	exists, err := s.client.Exists(ctx, profileKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check profile: %w", err)
	}
	if exists == 0 {
		return common.ErrUserNotFound
	}

	if err := s.client.HSet(ctx, profileKey(userID), "completed_recipes", count).Err(); err != nil {
		return fmt.Errorf("failed to set counter: %w", err)
	}
	return nil
}

// IncrementCompletedRecipes bumps the completed-recipe counter atomically
// and returns the new value.
func (s *Store) IncrementCompletedRecipes(ctx context.Context, userID string) (int, error) {
	exists, err := s.client.Exists(ctx, profileKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to check profile: %w", err)
	}
	if exists == 0 {
		return 0, common.ErrUserNotFound
	}

	total, err := s.client.HIncrBy(ctx, profileKey(userID), "completed_recipes", 1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}
	return int(total), nil
}

// GetNotificationSettings loads notification settings, falling back to the
// defaults when the user never saved any.
func (s *Store) GetNotificationSettings(ctx context.Context, userID string) (NotificationSettings, error) {
	fields, err := s.client.HGetAll(ctx, notificationKey(userID)).Result()
	if err != nil {
		return NotificationSettings{}, fmt.Errorf("failed to read notification settings: %w", err)
	}
	if len(fields) == 0 {
		return DefaultNotificationSettings(), nil
	}
	return DecodeNotificationSettings(fields), nil
}

// SaveNotificationSettings stores notification settings.
func (s *Store) SaveNotificationSettings(ctx context.Context, userID string, settings NotificationSettings) error {
	if settings.ExpiryDays < 0 {
		return common.NewValidationError("expiry days cannot be negative")
	}

	err := s.client.HSet(ctx, notificationKey(userID), map[string]interface{}{
		"expiry_enabled":   strconv.FormatBool(settings.ExpiryEnabled),
		"expiry_days":      settings.ExpiryDays,
		"recipe_enabled":   strconv.FormatBool(settings.RecipeEnabled),
		"shopping_enabled": strconv.FormatBool(settings.ShoppingEnabled),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to store notification settings: %w", err)
	}
	return nil
}

// GetPrivacySettings loads privacy settings, falling back to the defaults.
func (s *Store) GetPrivacySettings(ctx context.Context, userID string) (PrivacySettings, error) {
	fields, err := s.client.HGetAll(ctx, privacyKey(userID)).Result()
	if err != nil {
		return PrivacySettings{}, fmt.Errorf("failed to read privacy settings: %w", err)
	}
	if len(fields) == 0 {
		return DefaultPrivacySettings(), nil
	}
	return DecodePrivacySettings(fields), nil
}

// SavePrivacySettings stores privacy settings.
func (s *Store) SavePrivacySettings(ctx context.Context, userID string, settings PrivacySettings) error {
	err := s.client.HSet(ctx, privacyKey(userID), map[string]interface{}{
		"two_factor_enabled":   strconv.FormatBool(settings.TwoFactorEnabled),
		"login_alerts_enabled": strconv.FormatBool(settings.LoginAlertsEnabled),
		"data_sharing":         strconv.FormatBool(settings.DataSharing),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to store privacy settings: %w", err)
	}
	return nil
}

// ValidateProfile checks the fields a store must never accept.
func ValidateProfile(profile Profile) error {
	if profile.Username == "" {
		return common.NewValidationError("username cannot be empty")
	}
	if profile.Email == "" {
		return common.NewValidationError("email cannot be empty")
	}
	if profile.CompletedRecipes < 0 {
		return common.NewValidationError("completed recipe count cannot be negative")
	}
	return nil
}

// DecodeProfile turns a raw hash snapshot into a profile. Unknown or
// malformed numeric fields read as zero.
func DecodeProfile(fields map[string]string) Profile {
	completed, _ := strconv.Atoi(fields["completed_recipes"])
	return Profile{
		Username:         fields["username"],
		Email:            fields["email"],
		ImageURL:         fields["image_url"],
		CompletedRecipes: completed,
		CreatedAt:        fields["created_at"],
	}
}

// DecodeNotificationSettings turns a raw hash snapshot into settings.
func DecodeNotificationSettings(fields map[string]string) NotificationSettings {
	days, _ := strconv.Atoi(fields["expiry_days"])
	return NotificationSettings{
		ExpiryEnabled:   fields["expiry_enabled"] == "true",
		ExpiryDays:      days,
		RecipeEnabled:   fields["recipe_enabled"] == "true",
		ShoppingEnabled: fields["shopping_enabled"] == "true",
	}
}

// DecodePrivacySettings turns a raw hash snapshot into settings.
func DecodePrivacySettings(fields map[string]string) PrivacySettings {
	return PrivacySettings{
		TwoFactorEnabled:   fields["two_factor_enabled"] == "true",
		LoginAlertsEnabled: fields["login_alerts_enabled"] == "true",
		DataSharing:        fields["data_sharing"] == "true",
	}
}
