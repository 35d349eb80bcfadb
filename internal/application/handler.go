package application

import (
	"net/http"

	"frangapp/internal/api"
	"frangapp/internal/auth"
	"frangapp/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// @Summary      List my applications
// @Tags         apps
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ListResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /apps [get]
func (h *Handler) ListMy(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.NewError(http.StatusUnauthorized, "unauthorized"))
		return
	}

	apps, err := h.repo.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		logger.Error("failed to list applications", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.NewError(http.StatusInternalServerError, "failed to load applications"))
		return
	}

	c.JSON(http.StatusOK, ListResponse{Code: http.StatusOK, List: apps})
}
