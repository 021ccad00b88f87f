package profile

import (
	"testing"

	"pantry-keeper/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProfile(t *testing.T) {
	valid := Profile{Username: "ada", Email: "ada@example.com"}
	assert.NoError(t, ValidateProfile(valid))

	tests := []struct {
		name   string
		mutate func(*Profile)
	}{
		{"empty username", func(p *Profile) { p.Username = "" }},
		{"empty email", func(p *Profile) { p.Email = "" }},
		{"negative counter", func(p *Profile) { p.CompletedRecipes = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := valid
			tt.mutate(&profile)
			err := ValidateProfile(profile)
			require.Error(t, err)
			assert.True(t, common.IsValidationError(err))
		})
	}
}

func TestDecodeProfile(t *testing.T) {
	profile := DecodeProfile(map[string]string{
		"username":          "ada",
		"email":             "ada@example.com",
		"image_url":         "https://img/ada.png",
		"completed_recipes": "12",
		"created_at":        "1700000000000",
	})

	assert.Equal(t, "ada", profile.Username)
	assert.Equal(t, 12, profile.CompletedRecipes)

	// Malformed counters read as zero instead of failing the whole record.
	broken := DecodeProfile(map[string]string{"username": "ada", "completed_recipes": "many"})
	assert.Zero(t, broken.CompletedRecipes)
}

func TestDecodeNotificationSettings(t *testing.T) {
	settings := DecodeNotificationSettings(map[string]string{
		"expiry_enabled":   "true",
		"expiry_days":      "5",
		"recipe_enabled":   "false",
		"shopping_enabled": "true",
	})

	assert.True(t, settings.ExpiryEnabled)
	assert.Equal(t, 5, settings.ExpiryDays)
	assert.False(t, settings.RecipeEnabled)
	assert.True(t, settings.ShoppingEnabled)
}

func TestDecodePrivacySettings(t *testing.T) {
	settings := DecodePrivacySettings(map[string]string{
		"two_factor_enabled":   "true",
		"login_alerts_enabled": "garbage",
	})

	assert.True(t, settings.TwoFactorEnabled)
	assert.False(t, settings.LoginAlertsEnabled)
	assert.False(t, settings.DataSharing)
}

func TestDefaults(t *testing.T) {
	notif := DefaultNotificationSettings()
	assert.True(t, notif.ExpiryEnabled)
	assert.Equal(t, 3, notif.ExpiryDays)

	privacy := DefaultPrivacySettings()
	assert.False(t, privacy.TwoFactorEnabled)
	assert.True(t, privacy.LoginAlertsEnabled)
}
