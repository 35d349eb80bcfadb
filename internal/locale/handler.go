package locale

import (
	"net/http"

	"frangapp/internal/api"
	"frangapp/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	catalog *Catalog
}

func NewHandler(service Service, catalog *Catalog) *Handler {
	return &Handler{service: service, catalog: catalog}
}

type ConfigurationResponse struct {
	Code   int        `json:"code" example:"200"`
	Result *Bootstrap `json:"result"`
}

// @Summary      Bootstrap configuration
// @Description  Language pack, selectable locales and public site settings
// @Tags         configuration
// @Produce      json
// @Param        locale  query  string  false  "Locale code"
// @Success      200 {object} ConfigurationResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /configuration [get]
func (h *Handler) GetConfiguration(c *gin.Context) {
	code := FromContext(c, h.catalog.Resolve(c.Query("locale"), c.GetHeader("Accept-Language")))

	result, err := h.service.GetBootstrapConfig(c.Request.Context(), code)
	if err != nil {
		logger.Error("failed to build configuration", "locale", code, "error", err)
		c.JSON(http.StatusInternalServerError, api.NewError(http.StatusInternalServerError, "failed to load configuration"))
		return
	}

	c.JSON(http.StatusOK, ConfigurationResponse{Code: http.StatusOK, Result: result})
}
