package validators_test

import (
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/ecobite/web/internal/models"
	"github.com/anonto42/ecobite/web/internal/validators"
)

func TestValidate_CreatePostRequest(t *testing.T) {
	v := validators.NewValidator()

	ok := models.CreatePostRequest{
		Description:  "Two trays of rice",
		LocationText: "Block C, Dhanmondi",
		ExpiresAt:    "2026-10-20T18:30",
	}
	require.NoError(t, v.Validate(ok))

	missing := models.CreatePostRequest{ExpiresAt: "not a date"}
	err := v.Validate(missing)
	require.Error(t, err)
	msg := validators.Message(err)
	assert.Contains(t, msg, "Description is required")
	assert.Contains(t, msg, "Location is required")
	assert.Contains(t, msg, "Expiry time is not a valid date and time")
}

func TestValidator_IsEchoValidator(t *testing.T) {
	e := echo.New()
	e.Validator = validators.NewValidator()

	c := e.NewContext(nil, nil)
	err := c.Validate(&models.CreatePostRequest{ExpiresAt: "2026-10-20T18:30"})
	require.Error(t, err)
	assert.Equal(t, "Description is required; Location is required", validators.Message(err))
}
