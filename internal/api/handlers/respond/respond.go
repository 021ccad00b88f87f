package respond

import (
	"errors"
	"net/http"

	"pantry-keeper/internal/core/recipe"
	"pantry-keeper/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Error renders an error with the right status code. Validation failures
// map to 400, known domain errors carry their own status, anything else
// is a 500 with the detail kept out of the response.
func Error(c *gin.Context, err error) {
	if common.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	var apiErr *recipe.APIError
	if errors.As(err, &apiErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":           "recipe API error",
			"code":            "RECIPE_API_ERROR",
			"upstream_status": apiErr.StatusCode,
		})
		return
	}

	var custom *common.CustomError
	if errors.As(err, &custom) {
		c.JSON(custom.Status, gin.H{
			"error": custom.Message,
			"code":  custom.Code,
		})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "internal server error",
		"code":  common.ErrCodeInternalError,
	})
}
