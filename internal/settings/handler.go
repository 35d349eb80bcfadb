package settings

import (
	"context"
	"net/http"

	"frangapp/internal/api"
	"frangapp/internal/logger"

	"github.com/gin-gonic/gin"
)

// Writer is implemented by stores that accept admin updates.
type Writer interface {
	Set(ctx context.Context, key, value string) error
}

type Handler struct {
	store Writer
}

func NewHandler(store Writer) *Handler {
	return &Handler{store: store}
}

type UpdateRequest struct {
	Value *string `json:"value" binding:"required"`
}

var editableKeys = map[string]bool{
	KeyCurrencyCode:     true,
	KeyCurrencySymbol:   true,
	KeySiteLogo:         true,
	KeyGoogleEnabled:    true,
	KeyGoogleID:         true,
	KeyStripePublishKey: true,
	KeyStripeSecretKey:  true,
	KeyIonicIcons:       true,
}

// @Summary      Update a site setting
// @Description  Admin-only
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        key      path  string         true  "Setting key"
// @Param        request  body  UpdateRequest  true  "New value"
// @Success      200 {object} api.CodeResponse
// @Failure      400 {object} api.ErrorResponse
// @Router       /admin/settings/{key} [put]
func (h *Handler) Update(c *gin.Context) {
	key := c.Param("key")
	if !editableKeys[key] {
		c.JSON(http.StatusBadRequest, api.NewError(http.StatusBadRequest, "unknown setting"))
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.BindError(err))
		return
	}

	if err := h.store.Set(c.Request.Context(), key, *req.Value); err != nil {
		logger.Error("failed to update setting", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, api.NewError(http.StatusInternalServerError, "failed to update setting"))
		return
	}

	logger.Info("setting updated", "key", key)
	c.JSON(http.StatusOK, api.CodeResponse{Code: http.StatusOK})
}
