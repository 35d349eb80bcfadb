package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"frangapp/internal/logger"
	"frangapp/internal/metrics"
	"frangapp/internal/settings"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/charge"
)

// chargeFunc performs the Stripe API call.
type chargeFunc func(key string, params *stripe.ChargeParams) (*stripe.Charge, error)

// StripeConfig configures StripeGateway.
type StripeConfig struct {
	// SecretKey overrides the stripe_secret_key setting when non-empty.
	SecretKey string
	Timeout   time.Duration

	// Circuit breaker tuning; zero values take the defaults below.
	FailureThreshold uint
	FailureWindow    uint
	OpenDelay        time.Duration
}

// StripeGateway charges cards through the Stripe Charges API.
type StripeGateway struct {
	settings  settings.Reader
	secretKey string
	timeout   time.Duration
	breaker   circuitbreaker.CircuitBreaker[*Charge]
	create    chargeFunc
}

func NewStripeGateway(reader settings.Reader, cfg StripeConfig) *StripeGateway {
	backend := stripe.GetBackend(stripe.APIBackend)
	return newStripeGateway(reader, cfg, func(key string, params *stripe.ChargeParams) (*stripe.Charge, error) {
		return charge.Client{B: backend, Key: key}.New(params)
	})
}

func newStripeGateway(reader settings.Reader, cfg StripeConfig, create chargeFunc) *StripeGateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.FailureWindow == 0 {
		cfg.FailureWindow = 10
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenDelay <= 0 {
		cfg.OpenDelay = 30 * time.Second
	}

	breaker := circuitbreaker.NewBuilder[*Charge]().
		WithFailureThresholdRatio(cfg.FailureThreshold, cfg.FailureWindow).
		WithDelay(cfg.OpenDelay).
		WithSuccessThreshold(1).
		// Declines and bad requests say nothing about gateway health.
		HandleIf(func(_ *Charge, err error) bool {
			var perr *Error
			return errors.As(err, &perr) && perr.Kind == KindNetwork
		}).
		OnStateChanged(func(event circuitbreaker.StateChangedEvent) {
			logger.Warn("payment gateway circuit breaker state change",
				"from_state", stateName(event.OldState),
				"to_state", stateName(event.NewState),
			)
			metrics.SetGatewayCircuitOpen(event.NewState == circuitbreaker.OpenState)
		}).
		Build()

	return &StripeGateway{
		settings:  reader,
		secretKey: cfg.SecretKey,
		timeout:   cfg.Timeout,
		breaker:   breaker,
		create:    create,
	}
}

func stateName(state circuitbreaker.State) string {
	switch state {
	case circuitbreaker.OpenState:
		return "open"
	case circuitbreaker.HalfOpenState:
		return "half-open"
	default:
		return "closed"
	}
}

// CircuitOpen reports whether charges are currently being rejected without
// contacting Stripe.
func (g *StripeGateway) CircuitOpen() bool {
	return g.breaker.IsOpen()
}

func (g *StripeGateway) Charge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	key, err := g.key(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := failsafe.With[*Charge](g.breaker).Get(func() (*Charge, error) {
		return g.charge(ctx, key, req)
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		err = &Error{Kind: KindNetwork, Message: "payment gateway temporarily unavailable", Err: err}
	}

	outcome := "success"
	if err != nil {
		outcome = string(KindNetwork)
		var perr *Error
		if errors.As(err, &perr) {
			outcome = string(perr.Kind)
		}
	}
	metrics.RecordGatewayCharge(outcome, time.Since(start).Seconds())

	return result, err
}

func (g *StripeGateway) key(ctx context.Context) (string, error) {
	if g.secretKey != "" {
		return g.secretKey, nil
	}
	key, err := g.settings.Get(ctx, settings.KeyStripeSecretKey)
	if err != nil {
		return "", &Error{Kind: KindNetwork, Message: "read gateway credentials", Err: err}
	}
	if key == "" {
		return "", &Error{Kind: KindInvalidRequest, Message: "payment gateway is not configured"}
	}
	return key, nil
}

func (g *StripeGateway) charge(ctx context.Context, key string, req ChargeRequest) (*Charge, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(req.AmountMinor),
		Currency:    stripe.String(strings.ToLower(req.Currency)),
		Description: stripe.String(req.Description),
	}
	if err := params.SetSource(req.Source); err != nil {
		return nil, &Error{Kind: KindInvalidRequest, Message: "invalid payment source", Err: err}
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	ch, err := g.create(key, params)
	if err != nil {
		return nil, classify(err)
	}

	return &Charge{ID: ch.ID, Amount: ch.Amount, Currency: string(ch.Currency)}, nil
}

// classify maps Stripe failures to gateway error kinds. Anything that is not
// a definite rejection is a network error, since the charge may have happened.
func classify(err error) *Error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
	}

	code := string(se.Code)
	if se.DeclineCode != "" {
		code = string(se.DeclineCode)
	}

	switch se.Type {
	case stripe.ErrorTypeCard:
		return &Error{Kind: KindDeclined, Code: code, Message: se.Msg, Err: err}
	case stripe.ErrorTypeInvalidRequest, stripe.ErrorTypeIdempotency:
		return &Error{Kind: KindInvalidRequest, Code: code, Message: se.Msg, Err: err}
	default:
		return &Error{Kind: KindNetwork, Code: code, Message: fmt.Sprintf("gateway error: %s", se.Msg), Err: err}
	}
}
