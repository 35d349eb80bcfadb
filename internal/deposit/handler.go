package deposit

import (
	"errors"
	"net/http"
	"strconv"

	"frangapp/internal/api"
	"frangapp/internal/auth"
	"frangapp/internal/locale"
	"frangapp/internal/logger"
	"frangapp/internal/payment"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service    Service
	translator Translator
}

func NewHandler(service Service, translator Translator) *Handler {
	return &Handler{service: service, translator: translator}
}

// @Summary      Top up an application balance
// @Description  Charges the card token for the plan price and credits the plan's units
// @Tags         deposit
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        uid      path      string  true  "Application uid"
// @Param        plan_id  path      int     true  "Plan id"
// @Param        token    formData  string  true  "Payment source token"
// @Success      200 {object} DepositResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Router       /deposit/{uid}/{plan_id} [post]
func (h *Handler) Deposit(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.NewError(http.StatusUnauthorized, "unauthorized"))
		return
	}

	code := locale.FromContext(c, "")

	// An unparsable id is an unknown plan; the service still checks the
	// token and the application first.
	planID, err := strconv.Atoi(c.Param("plan_id"))
	if err != nil {
		planID = 0
	}

	result, err := h.service.ChargeAndCredit(c.Request.Context(), c.Param("uid"), planID, c.PostForm("token"), userID)
	if err != nil {
		h.respondError(c, code, err)
		return
	}

	c.JSON(http.StatusOK, DepositResponse{
		Code:        http.StatusOK,
		Transaction: result.Transaction.UID,
		Balance:     result.Balance,
	})
}

// @Summary      List application transactions
// @Tags         apps
// @Produce      json
// @Security     BearerAuth
// @Param        uid     path   string  true   "Application uid"
// @Param        limit   query  int     false  "Page size"
// @Param        offset  query  int     false  "Offset"
// @Success      200 {object} TransactionsResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /apps/{uid}/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.NewError(http.StatusUnauthorized, "unauthorized"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.service.ListTransactions(c.Request.Context(), c.Param("uid"), userID, limit, offset)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			msg := h.translator.T(locale.FromContext(c, ""), "error_application_not_found")
			c.JSON(http.StatusNotFound, api.NewError(http.StatusNotFound, msg))
			return
		}
		logger.Error("failed to list transactions", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, api.NewError(http.StatusInternalServerError, "failed to load transactions"))
		return
	}

	c.JSON(http.StatusOK, TransactionsResponse{Code: http.StatusOK, List: txs})
}

func (h *Handler) respondError(c *gin.Context, code string, err error) {
	var (
		verr *ValidationError
		nf   *NotFoundError
		perr *PaymentError
		serr *StorageError
	)

	switch {
	case errors.As(err, &verr):
		fields := make(map[string]string, len(verr.Fields))
		for name, issue := range verr.Fields {
			fields[name] = h.fieldMessage(code, name, issue)
		}
		c.JSON(http.StatusBadRequest, api.NewFieldErrors(http.StatusBadRequest, fields))

	case errors.As(err, &nf):
		key := "error_application_not_found"
		if nf.Resource == ResourcePlan {
			key = "error_plan_not_found"
		}
		c.JSON(http.StatusBadRequest, api.NewError(http.StatusBadRequest, h.translator.T(code, key)))

	case errors.As(err, &perr):
		key := "error_payment_unavailable"
		switch perr.Kind {
		case payment.KindDeclined:
			key = "error_payment_declined"
		case payment.KindInvalidRequest:
			key = "error_payment_invalid"
		}
		c.JSON(http.StatusServiceUnavailable, api.NewError(http.StatusServiceUnavailable, h.translator.T(code, key)))

	case errors.As(err, &serr):
		c.JSON(http.StatusInternalServerError, api.NewError(http.StatusInternalServerError, h.translator.T(code, "error_credit_pending")))

	default:
		logger.Error("deposit failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.NewError(http.StatusInternalServerError, "internal server error"))
	}
}

func (h *Handler) fieldMessage(code, field string, issue FieldIssue) string {
	label := h.translator.T(code, "field_"+field)
	switch issue.Tag {
	case "required":
		return h.translator.T(code, "validation_required", "field", label)
	case "max":
		return h.translator.T(code, "validation_max_length", "field", label, "param", issue.Param)
	default:
		return h.translator.T(code, "validation_invalid", "field", label)
	}
}
