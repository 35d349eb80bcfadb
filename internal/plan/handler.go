package plan

import (
	"net/http"

	"frangapp/internal/api"
	"frangapp/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      List plans
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ListResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /plans [get]
func (h *Handler) List(c *gin.Context) {
	list, err := h.service.ListPlans(c.Request.Context())
	if err != nil {
		logger.Error("failed to list plans", "error", err)
		c.JSON(http.StatusInternalServerError, api.NewError(http.StatusInternalServerError, "failed to load plans"))
		return
	}

	c.JSON(http.StatusOK, ListResponse{Code: http.StatusOK, List: list})
}
