package deposit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"frangapp/internal/application"
	"frangapp/internal/email"
	"frangapp/internal/locale"
	"frangapp/internal/logger"
	"frangapp/internal/metrics"
	"frangapp/internal/payment"
	"frangapp/internal/plan"
	"frangapp/internal/settings"
	"frangapp/internal/user"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	maxTokenLength  = 200
	defaultCurrency = "usd"
)

// Notifier delivers deposit emails.
type Notifier interface {
	SendDepositReceipt(ctx context.Context, r email.Receipt) error
	SendReconciliationAlert(ctx context.Context, a email.Alert) error
}

type UserLookup interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type Translator interface {
	T(code, key string, args ...string) string
}

type Service interface {
	// ChargeAndCredit charges token for the plan and credits the plan's units
	// to the caller's application. Credit happens only after the gateway
	// reports a captured charge.
	ChargeAndCredit(ctx context.Context, appRef string, planID int, token string, userID int) (*Result, error)
	ListTransactions(ctx context.Context, appRef string, userID, limit, offset int) ([]*Transaction, error)
}

// Deps are the collaborators of the top-up workflow. Notifier, Users and
// NewID are optional.
type Deps struct {
	Ledger     Ledger
	Gateway    payment.Gateway
	Settings   settings.Reader
	Translator Translator
	Notifier   Notifier
	Users      UserLookup
	NewID      func() string
}

type service struct {
	ledger     Ledger
	gateway    payment.Gateway
	settings   settings.Reader
	translator Translator
	notifier   Notifier
	users      UserLookup
	newID      func() string
	validate   *validator.Validate
}

func NewService(d Deps) Service {
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return &service{
		ledger:     d.Ledger,
		gateway:    d.Gateway,
		settings:   d.Settings,
		translator: d.Translator,
		notifier:   d.Notifier,
		users:      d.Users,
		newID:      d.NewID,
		validate:   validator.New(),
	}
}

func (s *service) ChargeAndCredit(ctx context.Context, appRef string, planID int, token string, userID int) (*Result, error) {
	if err := s.validateToken(token); err != nil {
		metrics.RecordDeposit(metrics.OutcomeValidation)
		return nil, err
	}

	app, err := s.ledger.GetApplication(ctx, appRef, userID)
	if errors.Is(err, application.ErrNotFound) {
		metrics.RecordDeposit(metrics.OutcomeNotFound)
		return nil, &NotFoundError{Resource: ResourceApplication}
	}
	if err != nil {
		return nil, fmt.Errorf("load application: %w", err)
	}

	if planID <= 0 {
		metrics.RecordDeposit(metrics.OutcomeNotFound)
		return nil, &NotFoundError{Resource: ResourcePlan}
	}

	p, err := s.ledger.GetPlan(ctx, planID)
	if errors.Is(err, plan.ErrNotFound) {
		metrics.RecordDeposit(metrics.OutcomeNotFound)
		return nil, &NotFoundError{Resource: ResourcePlan}
	}
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}

	currency, err := s.settings.Get(ctx, settings.KeyCurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("read currency: %w", err)
	}
	if currency == "" {
		currency = defaultCurrency
	}

	txUID := s.newID()
	charge, err := s.gateway.Charge(ctx, payment.ChargeRequest{
		AmountMinor:    payment.MinorUnits(p.Price, currency),
		Currency:       currency,
		Description:    s.describe(ctx, p, app),
		Source:         token,
		IdempotencyKey: txUID,
	})
	if err != nil {
		kind := payment.KindNetwork
		var perr *payment.Error
		if errors.As(err, &perr) {
			kind = perr.Kind
		}
		logger.Warn("deposit charge failed",
			"app_id", app.ID, "user_id", userID, "plan_id", p.ID, "kind", string(kind), "error", err)
		metrics.RecordDeposit(metrics.OutcomePaymentRejected)
		return nil, &PaymentError{Kind: kind, Err: err}
	}

	tx := &Transaction{
		UID:      txUID,
		UserID:   userID,
		AppID:    app.ID,
		Amount:   p.Price,
		Quantity: p.Count,
		Status:   StatusSucceeded,
		MethodID: MethodCard,
		ChargeID: charge.ID,
	}

	// Money has moved: the credit must not be abandoned with the request.
	creditCtx := context.WithoutCancel(ctx)
	balance, err := s.ledger.Credit(creditCtx, tx)
	if err != nil {
		serr := &StorageError{
			ChargeID:      charge.ID,
			TransactionID: txUID,
			AppID:         app.ID,
			AppUID:        app.UID,
			UserID:        userID,
			Quantity:      p.Count,
			Amount:        p.Price,
			Err:           err,
		}
		s.raiseReconciliationAlert(creditCtx, serr, currency)
		metrics.RecordDeposit(metrics.OutcomeCreditPending)
		return nil, serr
	}

	metrics.RecordDeposit(metrics.OutcomeCredited)
	metrics.RecordCredit(p.Count)
	logger.Info("deposit credited",
		"transaction", txUID, "charge_id", charge.ID, "app_id", app.ID, "user_id", userID,
		"quantity", p.Count, "balance", balance)

	s.sendReceipt(creditCtx, app, tx, currency, balance)

	return &Result{Transaction: tx, Balance: balance}, nil
}

// validateToken never rewrites the token: it is single-use and goes to the
// gateway exactly as submitted.
func (s *service) validateToken(token string) error {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return &ValidationError{Fields: map[string]FieldIssue{"token": {Tag: "required"}}}
	}

	err := s.validate.Var(token, fmt.Sprintf("required,max=%d", maxTokenLength))
	if err == nil {
		if trimmed != token {
			return &ValidationError{Fields: map[string]FieldIssue{"token": {Tag: "invalid"}}}
		}
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Fields: map[string]FieldIssue{
			"token": {Tag: verrs[0].Tag(), Param: verrs[0].Param()},
		}}
	}
	return &ValidationError{Fields: map[string]FieldIssue{"token": {Tag: "invalid"}}}
}

func (s *service) describe(ctx context.Context, p *plan.Plan, app *application.Application) string {
	creditsFor := "credits for"
	if s.translator != nil {
		creditsFor = s.translator.T(locale.CodeFromContext(ctx), "deposit_credits_for")
	}
	return fmt.Sprintf("%d %s %s", p.Count, creditsFor, app.Name)
}

func (s *service) raiseReconciliationAlert(ctx context.Context, serr *StorageError, currency string) {
	metrics.RecordReconciliationAlert()
	logger.WithFields(logger.Fields{
		"charge_id":   serr.ChargeID,
		"transaction": serr.TransactionID,
		"app_id":      serr.AppID,
		"app_uid":     serr.AppUID,
		"user_id":     serr.UserID,
		"quantity":    serr.Quantity,
		"amount":      serr.Amount.String(),
		"currency":    currency,
		"error":       serr.Err.Error(),
	}).Error("RECONCILIATION REQUIRED: charge captured but credit not recorded")

	if s.notifier == nil {
		return
	}
	alert := email.Alert{
		ChargeID:      serr.ChargeID,
		TransactionID: serr.TransactionID,
		AppID:         serr.AppID,
		AppUID:        serr.AppUID,
		UserID:        serr.UserID,
		Quantity:      serr.Quantity,
		Amount:        serr.Amount,
		Currency:      currency,
		Cause:         serr.Err.Error(),
		At:            time.Now(),
	}
	if err := s.notifier.SendReconciliationAlert(ctx, alert); err != nil {
		logger.Error("failed to queue reconciliation alert", "charge_id", serr.ChargeID, "error", err)
	}
}

func (s *service) sendReceipt(ctx context.Context, app *application.Application, tx *Transaction, currency string, balance int) {
	if s.notifier == nil || s.users == nil {
		return
	}

	u, err := s.users.FindByID(ctx, tx.UserID)
	if err != nil {
		logger.Warn("receipt skipped: user lookup failed", "user_id", tx.UserID, "error", err)
		return
	}

	err = s.notifier.SendDepositReceipt(ctx, email.Receipt{
		To:            u.Email,
		Name:          u.Name,
		AppName:       app.Name,
		Quantity:      tx.Quantity,
		Amount:        tx.Amount,
		Currency:      currency,
		Balance:       balance,
		TransactionID: tx.UID,
	})
	if err != nil {
		logger.Warn("receipt not queued", "transaction", tx.UID, "error", err)
	}
}

func (s *service) ListTransactions(ctx context.Context, appRef string, userID, limit, offset int) ([]*Transaction, error) {
	app, err := s.ledger.GetApplication(ctx, appRef, userID)
	if errors.Is(err, application.ErrNotFound) {
		return nil, &NotFoundError{Resource: ResourceApplication}
	}
	if err != nil {
		return nil, fmt.Errorf("load application: %w", err)
	}

	txs, err := s.ledger.ListTransactions(ctx, app.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}
